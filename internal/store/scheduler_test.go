package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipid/internal/structures"
	"lipid/internal/testutil"
)

func newTestScheduler(t *testing.T, interval time.Duration) (*Scheduler, *MemStore, string) {
	t.Helper()
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)

	st := NewMemStore()
	logger := &testutil.MockLogger{}
	fm := NewFileManager(compressor, st, logger)

	path := filepath.Join(t.TempDir(), "store.dat")
	conf := &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     path,
			SaveInterval: interval,
		},
	}

	sched := NewScheduler(conf, logger, st, fm, &testutil.MockMetrics{}).(*Scheduler)
	return sched, st, path
}

func TestScheduler_PersistWritesSnapshot(t *testing.T) {
	sched, st, path := newTestScheduler(t, 30)

	st.Set("k", "v")
	require.NoError(t, sched.Persist())
	assert.False(t, st.Dirty())

	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()
	st2 := NewMemStore()
	fm := NewFileManager(compressor, st2, &testutil.MockLogger{})
	require.NoError(t, fm.LoadFromFile(path))

	val, ok := st2.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestScheduler_RestoreMissingFile(t *testing.T) {
	sched, st, _ := newTestScheduler(t, 30)
	require.NoError(t, sched.Restore())
	assert.Empty(t, st.Keys())
}

func TestScheduler_PersistRestoreRoundTrip(t *testing.T) {
	sched, st, _ := newTestScheduler(t, 30)

	st.Set("db_ai_global_logs", `[]`)
	require.NoError(t, sched.Persist())

	st.Replace(map[string]string{})
	require.NoError(t, sched.Restore())

	_, ok := st.Get("db_ai_global_logs")
	assert.True(t, ok)
}

func TestScheduler_InitAndStop(t *testing.T) {
	sched, _, _ := newTestScheduler(t, 60)
	sched.Init()
	sched.Stop()
	// Stop before Init must not panic either
	fresh, _, _ := newTestScheduler(t, 60)
	fresh.Stop()
}

func TestScheduler_PeriodicSaveSkipsCleanStore(t *testing.T) {
	sched, st, path := newTestScheduler(t, 1)
	sched.Init()
	defer sched.Stop()

	st.Set("k", "v")
	require.Eventually(t, func() bool {
		return !st.Dirty()
	}, 5*time.Second, 100*time.Millisecond, "dirty store should be flushed by the cron job")

	info1, err := os.Stat(path)
	require.NoError(t, err)

	// Idle daemon: the next tick must not rewrite the file
	time.Sleep(1500 * time.Millisecond)
	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())
}
