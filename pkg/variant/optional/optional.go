// Package optional is a halfway job encoding: the stage is a type
// parameter, so Start and Finish only accept the right stage, but the
// accessors are declared for every stage and report absence at run time.
//
// Reading the output of a pending job therefore compiles and returns
// (zero, false). Package job removes those accessors from the wrong stages.
package optional

import "github.com/google/uuid"

// Stage is implemented by Pending, Running and Done for a given I and O.
type Stage[I, O any] interface {
	input() (*I, bool)
	output() (O, bool)
}

type Pending[I, O any] struct{ in I }
type Running[I, O any] struct{}
type Done[I, O any] struct{ out O }

// A nil stage belongs to a zero Job and reports absence like a wrong stage.
func (p *Pending[I, O]) input() (*I, bool) {
	if p == nil {
		return nil, false
	}
	return &p.in, true
}
func (p *Pending[I, O]) output() (O, bool) {
	var zero O
	return zero, false
}

func (*Running[I, O]) input() (*I, bool) { return nil, false }
func (*Running[I, O]) output() (O, bool) {
	var zero O
	return zero, false
}

func (*Done[I, O]) input() (*I, bool) { return nil, false }
func (d *Done[I, O]) output() (O, bool) {
	if d == nil {
		var zero O
		return zero, false
	}
	return d.out, true
}

// Job carries its stage as S. S is always a pointer to one of the stage
// types above.
type Job[I, O any, S Stage[I, O]] struct {
	id    uuid.UUID
	stage S
}

func New[I, O any](input I) Job[I, O, *Pending[I, O]] {
	return Job[I, O, *Pending[I, O]]{id: uuid.New(), stage: &Pending[I, O]{in: input}}
}

func Start[I, O any](j Job[I, O, *Pending[I, O]]) Job[I, O, *Running[I, O]] {
	return Job[I, O, *Running[I, O]]{id: j.id, stage: &Running[I, O]{}}
}

func Finish[I, O any](j Job[I, O, *Running[I, O]], output O) Job[I, O, *Done[I, O]] {
	return Job[I, O, *Done[I, O]]{id: j.id, stage: &Done[I, O]{out: output}}
}

func (j Job[I, O, S]) ID() uuid.UUID { return j.id }

func (j Job[I, O, S]) Input() (I, bool) {
	p, ok := j.stage.input()
	if !ok {
		var zero I
		return zero, false
	}
	return *p, true
}

func (j Job[I, O, S]) InputMut() (*I, bool) {
	return j.stage.input()
}

func (j Job[I, O, S]) Output() (O, bool) {
	return j.stage.output()
}

func (j Job[I, O, S]) IntoOutput() (O, bool) {
	return j.stage.output()
}
