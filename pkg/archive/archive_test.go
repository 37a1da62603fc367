package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(entries[name])); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return buf.Bytes()
}

func TestFlattenConcatenatesTxtEntriesInNameOrder(t *testing.T) {
	zipBytes := buildZip(t, map[string]string{
		"2_test.txt":  "test output",
		"1_build.txt": "build output",
		"readme.md":   "not a log",
	})

	out, err := Flatten(zipBytes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "--- Log File: 1_build.txt ---") || !strings.Contains(out, "build output") {
		t.Errorf("missing build entry: %q", out)
	}
	buildIdx := strings.Index(out, "1_build.txt")
	testIdx := strings.Index(out, "2_test.txt")
	if buildIdx == -1 || testIdx == -1 || buildIdx > testIdx {
		t.Errorf("entries not in name order: %q", out)
	}
	if strings.Contains(out, "not a log") {
		t.Errorf("non-.txt entry leaked into output: %q", out)
	}
}

func TestFlattenEmptyArchiveReturnsErrEmptyLog(t *testing.T) {
	zipBytes := buildZip(t, map[string]string{"readme.md": "nothing here"})
	_, err := Flatten(zipBytes)
	if err != ErrEmptyLog {
		t.Fatalf("got %v, want ErrEmptyLog", err)
	}
}

func TestFlattenInvalidZipReturnsErrArchiveFormat(t *testing.T) {
	_, err := Flatten([]byte("not a zip file"))
	if !errors.Is(err, ErrArchiveFormat) {
		t.Fatalf("got %v, want ErrArchiveFormat", err)
	}
}

func TestFetchAndFlattenDownloadsAndFlattens(t *testing.T) {
	zipBytes := buildZip(t, map[string]string{"a.txt": "hello"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(zipBytes)
	}))
	defer srv.Close()

	f := New()
	out, err := f.FetchAndFlatten(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("got %q", out)
	}
}

func TestFetchAndFlattenNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New()
	_, err := f.FetchAndFlatten(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestGitHubResolverReturnsLocationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/repos/owner/repo/actions/runs/123/logs") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Location", "https://blob.example.com/archive.zip")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	resolver := NewGitHubResolver(srv.URL, "token123")
	url, err := resolver.ResolveLogURL(context.Background(), "owner/repo", "123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://blob.example.com/archive.zip" {
		t.Errorf("got %q", url)
	}
}

func TestGitHubResolverMissingLocationHeaderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	resolver := NewGitHubResolver(srv.URL, "")
	_, err := resolver.ResolveLogURL(context.Background(), "owner/repo", "123")
	if err == nil {
		t.Fatal("expected an error")
	}
}
