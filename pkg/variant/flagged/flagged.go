// Package flagged is the least safe job encoding: a status enum next to
// independently tracked input and output fields.
//
// Nothing ties the fields to the status, accessors answer from whichever
// field happens to be set, and an illegal transition panics with a
// *TransitionError. Transitions log as a side effect. Compare package job.
package flagged

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vulntor/typedjob/pkg/logging"
)

// Status is the job stage tag.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// TransitionError is the panic value raised for an illegal transition.
type TransitionError struct {
	Op   string
	From Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("flagged: %s not supported from %s", e.Op, e.From)
}

// Job keeps its status and payloads in separate fields.
type Job[I, O any] struct {
	id     uuid.UUID
	status Status
	input  *I
	output *O
}

func New[I, O any](input I) Job[I, O] {
	return Job[I, O]{
		id:     uuid.New(),
		status: StatusPending,
		input:  &input,
	}
}

func (j Job[I, O]) ID() uuid.UUID  { return j.id }
func (j Job[I, O]) Status() Status { return j.status }

// Run starts a pending job. Any other status panics.
func (j Job[I, O]) Run() Job[I, O] {
	if j.status != StatusPending {
		panic(&TransitionError{Op: "run", From: j.status})
	}
	logger := logging.NewLogger("flagged")
	logger.Info().
		Str("job_id", j.id.String()).
		Interface("input", j.input).
		Msg("Running with input")
	return Job[I, O]{id: j.id, status: StatusRunning}
}

// Finish completes a running job. Any other status panics.
func (j Job[I, O]) Finish(output O) Job[I, O] {
	if j.status != StatusRunning {
		panic(&TransitionError{Op: "finish", From: j.status})
	}
	logger := logging.NewLogger("flagged")
	logger.Info().
		Str("job_id", j.id.String()).
		Interface("output", output).
		Msg("Finished with output")
	return Job[I, O]{id: j.id, status: StatusDone, output: &output}
}

func (j Job[I, O]) Input() (I, bool) {
	if j.input == nil {
		var zero I
		return zero, false
	}
	return *j.input, true
}

func (j Job[I, O]) InputMut() (*I, bool) {
	return j.input, j.input != nil
}

func (j Job[I, O]) SetInput(input I) (I, bool) {
	if j.input == nil {
		var zero I
		return zero, false
	}
	prev := *j.input
	*j.input = input
	return prev, true
}

func (j Job[I, O]) Output() (O, bool) {
	if j.output == nil {
		var zero O
		return zero, false
	}
	return *j.output, true
}

func (j Job[I, O]) IntoOutput() (O, bool) {
	return j.Output()
}
