package executor

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-loglens/loglens/pkg/analyze"
	"github.com/ci-loglens/loglens/pkg/archive"
	"github.com/ci-loglens/loglens/pkg/embed"
	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/models"
	"github.com/ci-loglens/loglens/pkg/pipeline"
	"github.com/ci-loglens/loglens/pkg/queue"
	"github.com/ci-loglens/loglens/pkg/rag"
)

func buildTestZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("build.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("##[group]Run npm install\nnpm ERR! Cannot find module 'react'\n##[endgroup]\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func jobEnvelopeFor(repoFullName, runID string) queue.JobEnvelope {
	return queue.JobEnvelope{RepoFullName: repoFullName, RunID: runID}
}

type fakeStore struct {
	run    models.Run
	chunks []models.Chunk
}

func (f *fakeStore) GetRun(_ context.Context, runID string) (models.Run, error) {
	return f.run, nil
}

func (f *fakeStore) ReplaceChunks(_ context.Context, _ string, chunks []models.Chunk) error {
	out := make([]models.Chunk, len(chunks))
	for i, c := range chunks {
		c.ID = "chunk-" + string(rune('a'+i))
		out[i] = c
	}
	f.chunks = out
	return nil
}

func (f *fakeStore) ListChunks(_ context.Context, _ string) ([]models.Chunk, error) {
	return f.chunks, nil
}

func (f *fakeStore) UpdateChunkEmbedding(_ context.Context, _ string, _ []float32) error {
	return nil
}

func (f *fakeStore) UpsertAnalysisResult(_ context.Context, a models.AnalysisResult) (models.AnalysisResult, error) {
	return a, nil
}

type nopRetriever struct{}

func (nopRetriever) FindSimilarWithAnalysis(_ context.Context, _ []float32, _ int) ([]rag.RetrievedChunk, error) {
	return nil, nil
}

func TestExecutorExecuteRunsFullPipeline(t *testing.T) {
	zipServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buildTestZip(t))
	}))
	defer zipServer.Close()

	logsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", zipServer.URL)
		w.WriteHeader(http.StatusFound)
	}))
	defer logsServer.Close()

	store := &fakeStore{run: models.Run{ID: "run-1", ProviderRunID: "999"}}

	fake := llm.NewFakeProvider()
	fake.AddGenerate(llm.GenerateEntry{Text: `{"rootCause": "x", "failureStage": "build", "suggestedFix": "y"}`})

	embedder := embed.New(fake, store, embed.DefaultConfig(), nil)
	analyzer := analyze.New(fake, nopRetriever{}, store, 0, 0, nil)
	resolver := archive.NewGitHubResolver(logsServer.URL, "")
	fetcher := archive.New()

	exec := New(resolver, fetcher, store, embedder, analyzer, pipeline.DefaultOptions(), nil)

	err := exec.Execute(context.Background(), jobEnvelopeFor("owner/repo", "run-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, store.chunks)
}
