// pkg/job/job.go
package job

import "fmt"

// Job is a unit of work with input type I whose lifecycle stage is S.
//
// The zero value is a job with the Nil ID and an empty stage. It is what a
// variable holds after a transition has moved out of it.
type Job[I any, S Stage] struct {
	id    ID
	stage S
}

// PendingJob is a job that can be inspected, edited and started.
type PendingJob[I any] = Job[I, Pending[I]]

// RunningJob is a job that has started and can only be finished.
type RunningJob[I any] = Job[I, Running]

// DoneJob is a finished job carrying an output of type O.
type DoneJob[I, O any] = Job[I, Done[O]]

// ID returns the identity assigned when the job was created.
func (j Job[I, S]) ID() ID {
	return j.id
}

// Stage returns the name of the stage the job's type encodes.
func (j Job[I, S]) Stage() StageName {
	return j.stage.Name()
}

// IsZero reports whether j is a zero or moved-from job.
func (j Job[I, S]) IsZero() bool {
	return j.id.IsNil()
}

// String renders the stage and identity, never the payload.
func (j Job[I, S]) String() string {
	return fmt.Sprintf("%s(%s)", j.Stage(), j.id)
}

// New creates a pending job holding input under a fresh identity.
func New[I any](input I) PendingJob[I] {
	return Job[I, Pending[I]]{id: newID(), stage: Pending[I]{input: input}}
}

// NewWithID creates a pending job under an identity the caller already
// holds, for example one carried by a queue message. A Nil id is replaced
// by a fresh one.
func NewWithID[I any](id ID, input I) PendingJob[I] {
	if id.IsNil() {
		id = newID()
	}
	return Job[I, Pending[I]]{id: id, stage: Pending[I]{input: input}}
}

// Start moves a pending job into the running stage. The input is dropped;
// read it with Input before calling Start. *j is reset to the zero job, so
// starting it again yields a zero running job with the Nil ID.
func Start[I any](j *PendingJob[I]) RunningJob[I] {
	return Job[I, Running]{id: take(j)}
}

// Finish moves a running job into the done stage with the given output.
// *j is reset to the zero job.
func Finish[I, O any](j *RunningJob[I], output O) DoneJob[I, O] {
	return Job[I, Done[O]]{id: take(j), stage: Done[O]{output: output}}
}

// Input returns the input of a pending job.
func Input[I any](j PendingJob[I]) I {
	return j.stage.input
}

// InputMut returns a pointer to the input held by *j for in-place edits.
// The pointer is only meaningful until *j is started.
func InputMut[I any](j *PendingJob[I]) *I {
	return &j.stage.input
}

// SetInput replaces the input of a pending job and returns the previous one.
func SetInput[I any](j *PendingJob[I], input I) I {
	prev := j.stage.input
	j.stage.input = input
	return prev
}

// Output returns the output of a finished job.
func Output[I, O any](j DoneJob[I, O]) O {
	return j.stage.output
}

// IntoOutput returns the output of a finished job and resets *j, leaving the
// caller as the output's only holder.
func IntoOutput[I, O any](j *DoneJob[I, O]) O {
	out := j.stage.output
	take(j)
	return out
}

// take resets *j and returns the identity it held.
func take[I any, S Stage](j *Job[I, S]) ID {
	id := j.id
	*j = Job[I, S]{}
	return id
}
