// Package pending runs form submissions in the background after a short
// simulated delay, tracking a pending flag per form so a second submit of
// the same form is refused until the first completes.
//
// Submissions are never cancelled: once accepted they run to completion even
// if the client stops polling.
package pending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/pkg/worker"
)

var (
	// ErrPending is returned when the same form is submitted again before the
	// previous submission finished.
	ErrPending = errors.New("pending: submission already in progress")
	// ErrNotFound is returned for unknown or expired submission ids.
	ErrNotFound = errors.New("pending: submission not found")
)

// State of a submission.
type State string

const (
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Func is the work of a submission. ctx outlives the request that submitted it.
type Func func(ctx context.Context) (any, error)

// Submission is the pollable status of one submit.
type Submission struct {
	ID         string     `json:"id"`
	Key        string     `json:"key"`
	State      State      `json:"state"`
	Result     any        `json:"result,omitempty"`
	Err        error      `json:"-"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	done chan struct{}
}

// Runner executes a task detached from the caller.
type Runner interface {
	SubmitDetached(poolName string, task worker.Task) error
}

// Tracker owns the submissions of the process.
type Tracker struct {
	runner    Runner
	delay     time.Duration
	retention time.Duration
	now       func() time.Time

	mu      sync.Mutex
	byID    map[string]*Submission
	running map[string]string
}

// NewTracker creates a tracker running work on the submissions pool of
// runner after delay. Finished submissions are kept for retention.
func NewTracker(runner Runner, delay, retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = 10 * time.Minute
	}
	return &Tracker{
		runner:    runner,
		delay:     delay,
		retention: retention,
		now:       time.Now,
		byID:      make(map[string]*Submission),
		running:   make(map[string]string),
	}
}

// Submit starts fn for the form identified by key and returns its pending
// status. It fails with ErrPending while an earlier submission of key runs.
func (t *Tracker) Submit(key string, fn Func) (Submission, error) {
	t.mu.Lock()
	t.purgeLocked()
	if id, busy := t.running[key]; busy {
		v := t.byID[id].view()
		t.mu.Unlock()
		return v, ErrPending
	}
	sub := &Submission{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Key:       key,
		State:     StatePending,
		StartedAt: t.now().UTC(),
		done:      make(chan struct{}),
	}
	t.byID[sub.ID] = sub
	t.running[key] = sub.ID
	view := sub.view()
	t.mu.Unlock()

	err := t.runner.SubmitDetached(worker.PoolSubmissions, func(ctx context.Context) {
		t.run(ctx, sub, fn)
	})
	if err != nil {
		t.mu.Lock()
		delete(t.byID, sub.ID)
		delete(t.running, key)
		t.mu.Unlock()
		return Submission{}, fmt.Errorf("schedule submission: %w", err)
	}
	return view, nil
}

func (t *Tracker) run(ctx context.Context, sub *Submission, fn Func) {
	if t.delay > 0 {
		timer := time.NewTimer(t.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	result, err := t.call(ctx, fn)

	t.mu.Lock()
	finished := t.now().UTC()
	sub.FinishedAt = &finished
	sub.Result, sub.Err = result, err
	sub.State = StateSucceeded
	if err != nil {
		sub.State = StateFailed
		logger.Info("Submission failed", zap.String("key", sub.Key), zap.String("id", sub.ID), zap.Error(err))
	}
	delete(t.running, sub.Key)
	close(sub.done)
	t.mu.Unlock()
}

func (t *Tracker) call(ctx context.Context, fn Func) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submission panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Get returns the status of a submission.
func (t *Tracker) Get(id string) (Submission, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sub, ok := t.byID[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub.view(), nil
}

// Busy reports whether a submission of key is pending.
func (t *Tracker) Busy(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.running[key]
	return ok
}

// Wait blocks until the submission finishes or ctx is done.
func (t *Tracker) Wait(ctx context.Context, id string) (Submission, error) {
	t.mu.Lock()
	sub, ok := t.byID[id]
	t.mu.Unlock()
	if !ok {
		return Submission{}, ErrNotFound
	}
	select {
	case <-sub.done:
		return t.Get(id)
	case <-ctx.Done():
		return Submission{}, ctx.Err()
	}
}

// view copies sub; the caller holds t.mu.
func (s *Submission) view() Submission {
	v := *s
	v.done = nil
	return v
}

func (t *Tracker) purgeLocked() {
	cutoff := t.now().Add(-t.retention)
	for id, sub := range t.byID {
		if sub.FinishedAt != nil && sub.FinishedAt.Before(cutoff) {
			delete(t.byID, id)
		}
	}
}
