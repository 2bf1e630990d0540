// Package jobs is the FIFO hand-off between the log poller and the translation worker.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Executor processes one batch. Errors and panics are counted and logged; the
// worker always moves on to the next batch.
type Executor func(ctx context.Context, batch *Batch) error

// Queue is an unbounded FIFO drained by a single worker goroutine.
// Push never blocks, so a slow backend cannot stall the poller.
type Queue struct {
	mu        sync.Mutex
	pending   []*Batch
	idCounter uint64
	started   bool
	running   bool
	notify    chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	processed atomic.Uint64
	failed    atomic.Uint64

	now func() time.Time
}

func NewQueue() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
}

// Push appends a batch. Lines are copied; an empty batch is ignored.
func (q *Queue) Push(sessionID uint64, lines []string) (*Batch, bool) {
	if len(lines) == 0 {
		return nil, false
	}

	q.mu.Lock()
	q.idCounter++
	batch := &Batch{
		ID:         fmt.Sprintf("batch-%d", q.idCounter),
		SessionID:  sessionID,
		Lines:      append([]string(nil), lines...),
		EnqueuedAt: q.now(),
	}
	q.pending = append(q.pending, batch)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return batch, true
}

// Len returns the number of batches waiting for the worker.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Stats reports pending depth, the age of the oldest waiting batch and counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	s := Stats{Pending: len(q.pending), Running: q.running}
	if len(q.pending) > 0 {
		s.OldestPending = q.now().Sub(q.pending[0].EnqueuedAt)
	}
	q.mu.Unlock()

	s.Processed = q.processed.Load()
	s.Failed = q.failed.Load()
	return s
}

// Start launches the worker. Subsequent calls are no-ops.
func (q *Queue) Start(ctx context.Context, exec Executor) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	q.wg.Add(1)
	go q.worker(ctx, exec)
}

// Stop terminates the worker after the batch in flight, dropping anything still pending.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.stopCh)
		q.wg.Wait()
	})
}

// Done is closed once Stop has been called.
func (q *Queue) Done() <-chan struct{} {
	return q.stopCh
}

func (q *Queue) worker(ctx context.Context, exec Executor) {
	defer q.wg.Done()

	for {
		batch := q.pop()
		if batch == nil {
			select {
			case <-q.stopCh:
				return
			case <-ctx.Done():
				return
			case <-q.notify:
				continue
			}
		}

		select {
		case <-q.stopCh:
			return
		default:
		}

		if err := q.run(ctx, exec, batch); err != nil {
			q.failed.Add(1)
			log.Error("Batch %s (%d lines, session %d) failed: %v", batch.ID, len(batch.Lines), batch.SessionID, err)
		} else {
			q.processed.Add(1)
		}
	}
}

func (q *Queue) pop() *Batch {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	batch := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	q.running = true
	return batch
}

func (q *Queue) run(ctx context.Context, exec Executor, batch *Batch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}()
	return exec(ctx, batch)
}
