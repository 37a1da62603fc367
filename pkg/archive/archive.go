// Package archive fetches and flattens a CI run's log archive into a
// single text stream the Cleaner can consume (spec.md §6).
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ErrEmptyLog is returned when the archive contains no .txt entries.
var ErrEmptyLog = errors.New("archive contains no .txt log entries")

// ErrArchiveFormat is returned when the downloaded bytes are not a
// valid zip archive.
var ErrArchiveFormat = errors.New("log archive is not a valid zip")

// logFileMarkerFmt matches the Step Detector's cue exactly (pkg/pipeline/step).
const logFileMarkerFmt = "\n--- Log File: %s ---\n%s\n"

// Fetcher downloads a run's log archive from a short-lived URL and
// flattens it to the concatenated text form the pipeline expects.
type Fetcher struct {
	httpClient *http.Client
}

// New builds a Fetcher with a bounded-timeout HTTP client.
func New() *Fetcher {
	return &Fetcher{httpClient: &http.Client{Timeout: 60 * time.Second}}
}

// FetchAndFlatten downloads the zip at url and concatenates every .txt
// entry's contents, each preceded by a "--- Log File: <name> ---"
// marker line (spec.md §6). Entries are processed in name order so
// output is deterministic regardless of zip directory order.
func (f *Fetcher) FetchAndFlatten(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("archive: build request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("archive: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("archive: download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("archive: read response: %w", err)
	}

	return Flatten(body)
}

// Flatten extracts every .txt entry from a zip archive's bytes and
// concatenates them with log-file markers (spec.md §6). Exported
// separately from FetchAndFlatten so it can be exercised without a
// network round trip.
func Flatten(zipBytes []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchiveFormat, err)
	}

	var names []string
	files := make(map[string]*zip.File, len(r.File))
	for _, zf := range r.File {
		if zf.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(zf.Name), ".txt") {
			continue
		}
		names = append(names, zf.Name)
		files[zf.Name] = zf
	}
	if len(names) == 0 {
		return "", ErrEmptyLog
	}
	sort.Strings(names)

	var out strings.Builder
	for _, name := range names {
		rc, err := files[name].Open()
		if err != nil {
			return "", fmt.Errorf("archive: open entry %q: %w", name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("archive: read entry %q: %w", name, err)
		}
		out.WriteString(fmt.Sprintf(logFileMarkerFmt, name, string(content)))
	}

	return out.String(), nil
}
