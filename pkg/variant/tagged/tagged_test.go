package tagged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	j := New[int, int](42)

	in, ok := j.Input()
	require.True(t, ok)
	assert.Equal(t, 42, in)

	_, ok = j.Output()
	assert.False(t, ok, "pending job has no output")

	running, err := j.Start()
	require.NoError(t, err)
	assert.Equal(t, j.ID(), running.ID())
	assert.IsType(t, StatusRunning{}, running.Status())

	_, ok = running.Input()
	assert.False(t, ok, "running job has no input")

	done, err := running.Finish(43)
	require.NoError(t, err)

	out, ok := done.Output()
	require.True(t, ok)
	assert.Equal(t, 43, out)

	out, ok = done.IntoOutput()
	require.True(t, ok)
	assert.Equal(t, 43, out)
}

func TestMisuseIsRuntimeError(t *testing.T) {
	j := New[string, int]("in")

	_, err := j.Finish(1)
	assert.ErrorIs(t, err, ErrNotRunning)

	running, err := j.Start()
	require.NoError(t, err)

	_, err = running.Start()
	assert.ErrorIs(t, err, ErrNotPending)

	done, err := running.Finish(7)
	require.NoError(t, err)

	_, err = done.Finish(8)
	assert.ErrorIs(t, err, ErrNotRunning)

	_, ok := done.SetInput("late")
	assert.False(t, ok)

	p, ok := done.InputMut()
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestSetInput(t *testing.T) {
	j := New[int, struct{}](1)

	prev, ok := j.SetInput(2)
	require.True(t, ok)
	assert.Equal(t, 1, prev)

	in, _ := j.Input()
	assert.Equal(t, 2, in)

	p, ok := j.InputMut()
	require.True(t, ok)
	*p = 3
	in, _ = j.Input()
	assert.Equal(t, 3, in)
}
