// Package job implements a job lifecycle whose stage is carried in the type.
//
// A job moves Pending -> Running -> Done. Each stage is a distinct marker type
// and a job is Job[I, S] for one of them:
//
//	p := job.New(42)              // job.PendingJob[int]
//	in := job.Input(p)            // only compiles for a pending job
//	r := job.Start(&p)            // job.RunningJob[int]; p is now zero
//	d := job.Finish(&r, "43")     // job.DoneJob[int, string]; r is now zero
//	out := job.Output(d)          // only compiles for a done job
//
// Transitions are plain generic functions whose parameter is the one
// instantiation they apply to, so finishing a pending job or reading the
// output of a running one is a type error rather than a runtime check. The
// Stage interface is sealed: only Pending, Running and Done satisfy it.
//
// A transition moves out of its argument. The prior variable is reset to the
// zero job so the input or output it held is no longer reachable through it.
//
// Jobs own no goroutines and do no I/O. Driving them is left to the caller;
// see package runner for a worker pool that does so.
package job
