package embed

import (
	"context"
	"errors"
	"testing"

	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/models"
)

type fakeChunkUpdater struct {
	updated map[string][]float32
	failIDs map[string]bool
}

func newFakeChunkUpdater() *fakeChunkUpdater {
	return &fakeChunkUpdater{updated: map[string][]float32{}, failIDs: map[string]bool{}}
}

func (f *fakeChunkUpdater) UpdateChunkEmbedding(_ context.Context, chunkID string, vec []float32) error {
	if f.failIDs[chunkID] {
		return errors.New("store write failed")
	}
	f.updated[chunkID] = vec
	return nil
}

func TestEmbedAllSucceedsForEveryChunk(t *testing.T) {
	fake := llm.NewFakeProvider()
	store := newFakeChunkUpdater()
	e := New(fake, store, DefaultConfig(), nil)

	chunks := []models.Chunk{{ID: "c1", Content: "log line one"}, {ID: "c2", Content: "log line two"}}
	stats := e.EmbedAll(context.Background(), chunks)

	if stats.Attempted != 2 || stats.Succeeded != 2 || stats.Failed != 0 {
		t.Fatalf("got %+v", stats)
	}
	if len(store.updated) != 2 {
		t.Errorf("got %d updated chunks", len(store.updated))
	}
}

func TestEmbedAllContinuesPastPerChunkFailure(t *testing.T) {
	fake := llm.NewFakeProvider()
	store := newFakeChunkUpdater()
	store.failIDs["c1"] = true
	e := New(fake, store, DefaultConfig(), nil)

	chunks := []models.Chunk{{ID: "c1", Content: "a"}, {ID: "c2", Content: "b"}}
	stats := e.EmbedAll(context.Background(), chunks)

	if stats.Attempted != 2 || stats.Succeeded != 1 || stats.Failed != 1 {
		t.Fatalf("got %+v", stats)
	}
	if _, ok := store.updated["c2"]; !ok {
		t.Errorf("expected c2 to still be embedded despite c1 failing")
	}
}

func TestEmbedAllProviderErrorCountsAsFailedNotAbort(t *testing.T) {
	fake := llm.NewFakeProvider()
	fake.SetEmbedError(errors.New("provider down"))
	store := newFakeChunkUpdater()
	e := New(fake, store, DefaultConfig(), nil)

	chunks := []models.Chunk{{ID: "c1", Content: "a"}, {ID: "c2", Content: "b"}}
	stats := e.EmbedAll(context.Background(), chunks)

	if stats.Failed != 2 || stats.Succeeded != 0 {
		t.Fatalf("got %+v", stats)
	}
}
