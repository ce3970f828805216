// Package tagged is a job encoding with a single tagged status value.
//
// Every operation is declared on every job, so calling one in the wrong stage
// compiles and is only caught at run time: accessors report absence through
// their boolean result and transitions return an error. It exists to be
// compared with package job, which rejects the same calls at compile time.
package tagged

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotPending = errors.New("tagged: job is not pending")
	ErrNotRunning = errors.New("tagged: job is not running")
)

// Status is one of StatusPending, StatusRunning or StatusDone.
type Status interface {
	isStatus()
}

// StatusPending carries the job input.
type StatusPending[I any] struct {
	Input I
}

// StatusRunning carries nothing.
type StatusRunning struct{}

// StatusDone carries the job output.
type StatusDone[O any] struct {
	Output O
}

func (*StatusPending[I]) isStatus() {}
func (StatusRunning) isStatus()     {}
func (StatusDone[O]) isStatus()     {}

// Job is a job whose stage lives in its status value.
type Job[I, O any] struct {
	id     uuid.UUID
	status Status
}

func New[I, O any](input I) Job[I, O] {
	return Job[I, O]{
		id:     uuid.New(),
		status: &StatusPending[I]{Input: input},
	}
}

func (j Job[I, O]) ID() uuid.UUID { return j.id }

func (j Job[I, O]) Status() Status { return j.status }

// Start returns the running job, or ErrNotPending.
func (j Job[I, O]) Start() (Job[I, O], error) {
	if _, ok := j.status.(*StatusPending[I]); !ok {
		return j, ErrNotPending
	}
	return Job[I, O]{id: j.id, status: StatusRunning{}}, nil
}

// Finish returns the done job, or ErrNotRunning.
func (j Job[I, O]) Finish(output O) (Job[I, O], error) {
	if _, ok := j.status.(StatusRunning); !ok {
		return j, ErrNotRunning
	}
	return Job[I, O]{id: j.id, status: StatusDone[O]{Output: output}}, nil
}

func (j Job[I, O]) Input() (I, bool) {
	if p, ok := j.status.(*StatusPending[I]); ok {
		return p.Input, true
	}
	var zero I
	return zero, false
}

func (j Job[I, O]) InputMut() (*I, bool) {
	if p, ok := j.status.(*StatusPending[I]); ok {
		return &p.Input, true
	}
	return nil, false
}

// SetInput swaps the input and returns the previous one. It reports false and
// changes nothing when the job is not pending.
func (j Job[I, O]) SetInput(input I) (I, bool) {
	in, ok := j.InputMut()
	if !ok {
		var zero I
		return zero, false
	}
	prev := *in
	*in = input
	return prev, true
}

func (j Job[I, O]) Output() (O, bool) {
	if d, ok := j.status.(StatusDone[O]); ok {
		return d.Output, true
	}
	var zero O
	return zero, false
}

func (j Job[I, O]) IntoOutput() (O, bool) {
	return j.Output()
}
