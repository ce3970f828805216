package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/typedjob/pkg/job"
)

func TestBus_PublishToSubscribers(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var got []Event
	record := func(_ context.Context, e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	}

	bus.Subscribe(TypeStarted, record)
	bus.Subscribe(TypeStarted, record)

	id := job.MustParseID("6ba7b810-9dad-41d1-80b4-00c04fd430c8")
	bus.Publish(context.Background(), Event{Type: TypeStarted, JobID: id, Stage: job.StageRunning})
	bus.Publish(context.Background(), Event{Type: TypeFinished, JobID: id})
	bus.Wait()

	require.Len(t, got, 2, "both started handlers run, finished has none")
	for _, e := range got {
		assert.Equal(t, id, e.JobID)
		assert.Equal(t, job.StageRunning, e.Stage)
		assert.False(t, e.Time.IsZero(), "publish stamps the time")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	seen := map[Type]int{}
	bus.SubscribeAll(func(_ context.Context, e Event) {
		mu.Lock()
		seen[e.Type]++
		mu.Unlock()
	})

	ctx := context.Background()
	bus.Publish(ctx, Event{Type: TypeSubmitted})
	bus.Publish(ctx, Event{Type: TypeStarted})
	bus.Publish(ctx, Event{Type: TypeFinished, Err: errors.New("boom")})
	bus.Wait()

	assert.Equal(t, map[Type]int{TypeSubmitted: 1, TypeStarted: 1, TypeFinished: 1}, seen)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := New()
	bus.Publish(context.Background(), Event{Type: TypeSubmitted})
	bus.Wait()
}
