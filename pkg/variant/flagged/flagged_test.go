package flagged

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestLifecycle(t *testing.T) {
	buf := captureLog(t)

	j := New[int, int](42)
	in, ok := j.Input()
	require.True(t, ok)
	assert.Equal(t, 42, in)

	running := j.Run()
	assert.Equal(t, StatusRunning, running.Status())
	_, ok = running.Input()
	assert.False(t, ok)

	done := running.Finish(43)
	out, ok := done.IntoOutput()
	require.True(t, ok)
	assert.Equal(t, 43, out)
	assert.Equal(t, j.ID(), done.ID())

	assert.Contains(t, buf.String(), "Running with input")
	assert.Contains(t, buf.String(), "Finished with output")
	assert.Contains(t, buf.String(), `"component":"flagged"`)
}

func TestIllegalTransitionPanics(t *testing.T) {
	captureLog(t)
	j := New[string, int]("x")

	assert.PanicsWithError(t, "flagged: finish not supported from pending", func() {
		j.Finish(1)
	})

	done := j.Run().Finish(2)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		terr, ok := r.(*TransitionError)
		require.True(t, ok)
		assert.Equal(t, "run", terr.Op)
		assert.Equal(t, StatusDone, terr.From)
	}()
	done.Run()
}

func TestSetInput_SharedAcrossCopies(t *testing.T) {
	j := New[int, int](1)
	copyOfJ := j

	prev, ok := copyOfJ.SetInput(5)
	require.True(t, ok)
	assert.Equal(t, 1, prev)

	in, _ := j.Input()
	assert.Equal(t, 5, in, "copies alias the same input field")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "done", StatusDone.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
