package bbolt

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/bmsearch/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestRun creates a realistic run record.
func makeTestRun(pattern string, matches ...int) *ports.Run {
	return &ports.Run{
		Time:     time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Pattern:  pattern,
		Source:   "testdata/leaves.txt",
		TextLen:  4096,
		Alphabet: "bytes",
		Steps:    812,
		Skipped:  2950,
		Matches:  matches,
	}
}

func TestStore_SaveAndList(t *testing.T) {
	store, _ := newTestStore(t)

	id, err := store.SaveRun("proj", makeTestRun("grass", 17, 2048, 4000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	runs, err := store.ListRuns("proj", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, uint64(1), got.ID)
	assert.Equal(t, "grass", got.Pattern)
	assert.Equal(t, "testdata/leaves.txt", got.Source)
	assert.Equal(t, 4096, got.TextLen)
	assert.Equal(t, 812, got.Steps)
	assert.Equal(t, 2950, got.Skipped)
	assert.Equal(t, []int{17, 2048, 4000}, got.Matches)
	assert.True(t, got.Time.Equal(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
}

func TestStore_ListNewestFirstWithLimit(t *testing.T) {
	store, _ := newTestStore(t)
	for _, p := range []string{"a", "b", "c", "d"} {
		_, err := store.SaveRun("proj", makeTestRun(p))
		require.NoError(t, err)
	}

	runs, err := store.ListRuns("proj", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "d", runs[0].Pattern)
	assert.Equal(t, "c", runs[1].Pattern)
	assert.Greater(t, runs[0].ID, runs[1].ID)
}

func TestStore_FreshProjectIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	runs, err := store.ListRuns("nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_DegenerateRunHasNoMatches(t *testing.T) {
	store, _ := newTestStore(t)
	run := makeTestRun("")
	run.Degenerate = "empty_pattern"
	run.Steps = 0
	_, err := store.SaveRun("proj", run)
	require.NoError(t, err)

	runs, err := store.ListRuns("proj", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "empty_pattern", runs[0].Degenerate)
	assert.Empty(t, runs[0].Matches)
}

func TestStore_ProjectsAreIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.SaveRun("one", makeTestRun("x"))
	require.NoError(t, err)
	_, err = store.SaveRun("two", makeTestRun("y"))
	require.NoError(t, err)

	one, err := store.ListRuns("one", 0)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "x", one[0].Pattern)
	assert.Equal(t, uint64(1), one[0].ID, "sequences are per project")
}

func TestStore_PruneKeepsNewest(t *testing.T) {
	store, _ := newTestStore(t)
	for i := 0; i < 5; i++ {
		_, err := store.SaveRun("proj", makeTestRun("p", i))
		require.NoError(t, err)
	}

	removed, err := store.PruneRuns("proj", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	runs, err := store.ListRuns("proj", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, []int{4}, runs[0].Matches)
	assert.Equal(t, []int{3}, runs[1].Matches)

	removed, err = store.PruneRuns("missing", 1)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStore_DeleteProjectIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.SaveRun("proj", makeTestRun("p"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteProject("proj"))
	require.NoError(t, store.DeleteProject("proj"))

	runs, err := store.ListRuns("proj", 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_SurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	_, err := store.SaveRun("proj", makeTestRun("persist", 1, 2, 3))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.ListRuns("proj", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []int{1, 2, 3}, runs[0].Matches)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	store, _ := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.SaveRun("proj", makeTestRun("c", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	runs, err := store.ListRuns("proj", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 20)
}

func TestStore_NilRun(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.SaveRun("proj", nil)
	assert.Error(t, err)
}

func TestStore_LockedDatabaseTimesOut(t *testing.T) {
	_, path := newTestStore(t)
	_, err := NewStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
