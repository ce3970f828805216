// pkg/runner/runner.go
// Package runner drives typed jobs through their lifecycle on a pool of
// worker goroutines.
//
// The job package only describes stages. Runner is the caller that moves a
// job along: a worker reads the input of a pending job, starts it, runs the
// handler, and finishes it with the handler's Result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vulntor/typedjob/pkg/event"
	"github.com/vulntor/typedjob/pkg/job"
)

var (
	ErrAlreadyStarted = errors.New("runner: already started")
	ErrNotStarted     = errors.New("runner: not started")
	ErrStopped        = errors.New("runner: stopped")
	ErrHandlerPanic   = errors.New("runner: handler panicked")
)

// Handler performs the work of one job.
type Handler[I, O any] func(ctx context.Context, id job.ID, input I) (O, error)

// Result is the output a job is finished with.
type Result[O any] struct {
	Value O
	Err   error
}

// Failed reports whether the handler returned an error.
func (r Result[O]) Failed() bool { return r.Err != nil }

// Status holds runner statistics.
type Status struct {
	QueueDepth int
	ActiveJobs int
	Submitted  int64
	Processed  int64
	Failed     int64
}

// Runner is an in-memory worker pool for jobs with input I and output O.
type Runner[I, O any] struct {
	handler     Handler[I, O]
	concurrency int
	logger      zerolog.Logger
	bus         *event.Bus

	queue   chan job.PendingJob[I]
	results chan job.DoneJob[I, Result[O]]
	closing chan struct{}

	group      errgroup.Group
	cancelFunc context.CancelFunc
	workerCtx  context.Context

	mu        sync.RWMutex
	started   bool
	stopped   bool
	closeOnce sync.Once

	submitted atomic.Int64
	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// New creates a runner that executes handler for every submitted job.
func New[I, O any](handler Handler[I, O], opts ...Option) *Runner[I, O] {
	o := buildOptions(opts)

	return &Runner[I, O]{
		handler:     handler,
		concurrency: o.concurrency,
		logger:      *o.logger,
		bus:         o.bus,
		queue:       make(chan job.PendingJob[I], o.queueSize),
		results:     make(chan job.DoneJob[I, Result[O]], o.queueSize),
		closing:     make(chan struct{}),
	}
}

// Start spawns the worker goroutines. Workers stop when ctx is cancelled
// or after Stop has drained the queue.
func (r *Runner[I, O]) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return ErrStopped
	}
	if r.started {
		return ErrAlreadyStarted
	}

	r.workerCtx, r.cancelFunc = context.WithCancel(ctx)

	for i := 0; i < r.concurrency; i++ {
		workerID := i
		r.group.Go(func() error {
			r.worker(r.workerCtx, workerID)
			return nil
		})
	}

	r.started = true
	r.logger.Info().
		Int("workers", r.concurrency).
		Int("queue_size", cap(r.queue)).
		Msg("Runner started")

	return nil
}

// Submit queues a pending job. It blocks while the queue is full.
func (r *Runner[I, O]) Submit(ctx context.Context, p job.PendingJob[I]) error {
	select {
	case <-r.closing:
		return ErrStopped
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		return ErrStopped
	}
	if !r.started {
		return ErrNotStarted
	}

	id := p.ID()
	select {
	case r.queue <- p:
	case <-r.closing:
		return ErrStopped
	case <-r.workerCtx.Done():
		return ErrStopped
	case <-ctx.Done():
		return fmt.Errorf("runner: submit %s: %w", id, ctx.Err())
	}

	r.submitted.Add(1)
	r.publish(ctx, event.Event{Type: event.TypeSubmitted, JobID: id, Stage: job.StagePending})
	r.logger.Debug().Str("job_id", id.String()).Msg("Job submitted")

	return nil
}

// Results delivers finished jobs. It is closed once every worker has exited
// after Stop.
func (r *Runner[I, O]) Results() <-chan job.DoneJob[I, Result[O]] {
	return r.results
}

// Stop refuses new submissions, lets the workers drain the queue and waits
// for them. If ctx ends first the workers are cancelled and ctx.Err() is
// returned; Results is still closed once they exit.
func (r *Runner[I, O]) Stop(ctx context.Context) error {
	r.closeOnce.Do(func() { close(r.closing) })

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	close(r.queue)
	wasStarted := r.started
	r.mu.Unlock()

	if !wasStarted {
		close(r.results)
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = r.group.Wait()
		r.cancelFunc()
		close(r.results)
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info().
			Int64("processed", r.processed.Load()).
			Int64("failed", r.failed.Load()).
			Msg("Runner stopped gracefully")
		return nil
	case <-ctx.Done():
		r.cancelFunc()
		r.logger.Warn().Msg("Runner shutdown timed out")
		return ctx.Err()
	}
}

// Status returns current statistics.
func (r *Runner[I, O]) Status() Status {
	return Status{
		QueueDepth: len(r.queue),
		ActiveJobs: int(r.active.Load()),
		Submitted:  r.submitted.Load(),
		Processed:  r.processed.Load(),
		Failed:     r.failed.Load(),
	}
}

// worker processes jobs from the queue until it is closed and empty or the
// context is cancelled.
func (r *Runner[I, O]) worker(ctx context.Context, id int) {
	r.logger.Debug().Int("worker_id", id).Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug().Int("worker_id", id).Msg("Worker stopping")
			return
		case p, ok := <-r.queue:
			if !ok {
				r.logger.Debug().Int("worker_id", id).Msg("Queue drained")
				return
			}
			r.process(ctx, id, p)
		}
	}
}

func (r *Runner[I, O]) process(ctx context.Context, workerID int, p job.PendingJob[I]) {
	input := job.Input(p)
	running := job.Start(&p)
	id := running.ID()

	logger := r.logger.With().Int("worker_id", workerID).Str("job_id", id.String()).Logger()
	logger.Debug().Msg("Processing job")

	r.active.Add(1)
	r.publish(ctx, event.Event{Type: event.TypeStarted, JobID: id, Stage: running.Stage()})

	value, err := r.invoke(ctx, id, input)
	r.active.Add(-1)

	done := job.Finish(&running, Result[O]{Value: value, Err: err})
	r.processed.Add(1)
	if err != nil {
		r.failed.Add(1)
		logger.Warn().Err(err).Msg("Job failed")
	}
	r.publish(ctx, event.Event{Type: event.TypeFinished, JobID: id, Stage: done.Stage(), Err: err})

	select {
	case r.results <- done:
	case <-ctx.Done():
		logger.Warn().Msg("Result dropped, runner cancelled")
	}
}

func (r *Runner[I, O]) invoke(ctx context.Context, id job.ID, input I) (out O, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
		}
	}()
	return r.handler(ctx, id, input)
}

func (r *Runner[I, O]) publish(ctx context.Context, e event.Event) {
	if r.bus != nil {
		r.bus.Publish(ctx, e)
	}
}
