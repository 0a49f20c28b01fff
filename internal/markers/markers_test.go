package markers

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	s.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return s
}

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	st, err := s.Inspect()
	require.NoError(t, err)
	assert.Equal(t, StatePending, st.State)

	require.NoError(t, s.Begin("run-1"))
	st, err = s.Inspect()
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st.State)
	assert.Equal(t, "Setup started at 2026-03-14T09:26:53Z", st.Message)
	assert.Equal(t, "run-1", st.RunID)
	assert.Equal(t, s.InProgressPath(), st.Marker)

	require.NoError(t, s.Complete())
	assert.NoFileExists(t, s.InProgressPath())
	st, err = s.Inspect()
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, st.State)
	assert.Equal(t, "Setup completed at 2026-03-14T09:26:53Z", st.Message)

	removed, err := s.Acknowledge()
	require.NoError(t, err)
	assert.True(t, removed)
	st, err = s.Inspect()
	require.NoError(t, err)
	assert.Equal(t, StatePending, st.State)
}

func TestStore_InProgressWins(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Complete())
	require.NoError(t, s.Begin(""))

	st, err := s.Inspect()
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st.State)
	assert.Empty(t, st.RunID)
}

func TestStore_ClearAndAcknowledgeAreIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Clear())
	removed, err := s.Acknowledge()
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.Begin("x"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = os.Stat(s.InProgressPath())
	assert.True(t, os.IsNotExist(err))
}
