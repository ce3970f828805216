// pkg/job/stage.go
package job

// StageName is the printable name of a stage. It is used for logs and
// rendering only; nothing in this package branches on it.
type StageName string

const (
	StagePending StageName = "pending"
	StageRunning StageName = "running"
	StageDone    StageName = "done"
)

// Stage is satisfied by Pending, Running and Done only. The unexported
// method keeps other packages from declaring a stage of their own.
type Stage interface {
	Name() StageName
	stage()
}

// Pending is the stage of a job that has not started. It holds the input.
type Pending[I any] struct {
	input I
}

// Running is the stage of a job that has started. The input has been
// released and no output exists yet, so it holds nothing.
type Running struct{}

// Done is the stage of a finished job. It holds the output.
type Done[O any] struct {
	output O
}

func (Pending[I]) Name() StageName { return StagePending }
func (Running) Name() StageName    { return StageRunning }
func (Done[O]) Name() StageName    { return StageDone }

func (Pending[I]) stage() {}
func (Running) stage()    {}
func (Done[O]) stage()    {}
