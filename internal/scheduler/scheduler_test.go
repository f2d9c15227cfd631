package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contentpilot/internal/notify"
	"contentpilot/internal/pipeline"
)

type countingProcessor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingProcessor) ProcessUnpublishedContent(context.Context) (pipeline.PassReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return pipeline.PassReport{Candidates: 1, Published: 1}, c.err
}

func (c *countingProcessor) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Notify(_ context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func TestStartRunsOnInterval(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, Options{Interval: 10 * time.Millisecond, RunOnStart: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return proc.count() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStartWithoutRunOnStart(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, Options{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.Equal(t, 0, proc.count())
}

func TestRunOnceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantNotify int
	}{
		{name: "success", err: nil, wantNotify: 0},
		{name: "passInProgress", err: pipeline.ErrPassInProgress, wantNotify: 0},
		{name: "passFailed", err: errors.New("database unavailable"), wantNotify: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := New(&countingProcessor{err: tt.err}, Options{Notifier: rec})

			s.RunOnce(context.Background())
			assert.Len(t, rec.events, tt.wantNotify)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(&countingProcessor{}, Options{})
	assert.Equal(t, time.Hour, s.opts.Interval)
	assert.NotNil(t, s.opts.Notifier)
}
