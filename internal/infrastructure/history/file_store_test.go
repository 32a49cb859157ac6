package history

import (
	"fmt"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/pkg/logger"
)

func newMemStore(t *testing.T, limit int) (*FileStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "/data", limit, logger.New(io.Discard, false))
	require.NoError(t, store.Ensure())
	return store, fs
}

func appendN(t *testing.T, store interface {
	Append(domain.HistoryEntry) error
}, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, store.Append(domain.HistoryEntry{User: fmt.Sprintf("q%d", i), LLM: fmt.Sprintf("a%d", i)}))
	}
}

func TestFileStoreAppendCaps(t *testing.T) {
	store, _ := newMemStore(t, domain.MaxHistoryStore)
	appendN(t, store, domain.MaxHistoryStore)

	all, err := store.Window(1000, false)
	require.NoError(t, err)
	assert.Len(t, all, domain.MaxHistoryStore)

	require.NoError(t, store.Append(domain.HistoryEntry{User: "q65", LLM: "a65"}))
	all, err = store.Window(1000, false)
	require.NoError(t, err)
	require.Len(t, all, domain.MaxHistoryStore)
	assert.Equal(t, "q2", all[0].User)
	assert.Equal(t, "q65", all[len(all)-1].User)
}

func TestFileStoreWindowAndLast(t *testing.T) {
	store, _ := newMemStore(t, 10)
	appendN(t, store, 3)

	chronological, err := store.Window(2, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.HistoryEntry{{User: "q2", LLM: "a2"}, {User: "q3", LLM: "a3"}}, chronological)

	newestFirst, err := store.Window(2, true)
	require.NoError(t, err)
	assert.Equal(t, []domain.HistoryEntry{{User: "q3", LLM: "a3"}, {User: "q2", LLM: "a2"}}, newestFirst)

	last, ok, err := store.Last()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a3", last.LLM)
}

func TestFileStoreUndo(t *testing.T) {
	store, _ := newMemStore(t, 10)
	appendN(t, store, 3)

	require.NoError(t, store.Undo(1))
	all, err := store.Window(10, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.HistoryEntry{{User: "q1", LLM: "a1"}, {User: "q2", LLM: "a2"}}, all)
}

func TestFileStoreCorruptFileSoftFails(t *testing.T) {
	store, fs := newMemStore(t, 10)
	require.NoError(t, afero.WriteFile(fs, store.Path(), []byte("{not json"), 0o644))

	window, err := store.Window(5, false)
	require.NoError(t, err)
	assert.Empty(t, window)

	require.NoError(t, store.Append(domain.HistoryEntry{User: "fresh", LLM: "start"}))
	window, err = store.Window(5, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.HistoryEntry{{User: "fresh", LLM: "start"}}, window)
}

func TestFileStorePurgeThenEnsure(t *testing.T) {
	store, fs := newMemStore(t, 10)
	appendN(t, store, 2)

	require.NoError(t, store.Purge())
	_, ok, err := store.Last()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Ensure())
	raw, err := afero.ReadFile(fs, store.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
