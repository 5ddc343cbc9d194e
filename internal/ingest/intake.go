package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/obs"
)

// Batch is one enqueued reconciliation run.
type Batch struct {
	Sequence   uint64
	RunID      string
	Source     string
	Candidates []model.Product
}

// Intake is a buffered batch queue with a background broker. It decouples
// the HTTP surface from reconciliation so the engine stays single-writer.
type Intake struct {
	mu           sync.Mutex
	backlog      []Batch
	notify       chan struct{}
	out          chan Batch
	shuttingDown atomic.Bool

	enqueued  atomic.Uint64
	processed atomic.Uint64
}

// NewIntake creates an Intake with a buffered output channel.
func NewIntake(outBuffer int) *Intake {
	if outBuffer <= 0 {
		outBuffer = 16
	}
	return &Intake{
		notify: make(chan struct{}, 1),
		out:    make(chan Batch, outBuffer),
	}
}

// Start runs the broker loop.
func (q *Intake) Start(ctx context.Context, highWatermark int) {
	go q.broker(ctx, highWatermark)
}

// broker moves backlog batches to the output channel.
func (q *Intake) broker(ctx context.Context, highWatermark int) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		q.flushOnce()
		if highWatermark > 0 {
			if sz := q.BacklogSize(); sz > highWatermark {
				obs.Logger.Warnw("ingest backlog exceeds high watermark", "backlog_size", sz, "high_watermark", highWatermark)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

// flushOnce drains backlog into the output buffer.
func (q *Intake) flushOnce() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.backlog) > 0 && len(q.out) < cap(q.out) {
		item := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.out <- item
	}
}

// Enqueue appends a batch to the backlog and notifies the broker.
func (q *Intake) Enqueue(b Batch) bool {
	if q.shuttingDown.Load() {
		return false
	}
	q.enqueued.Add(1)
	q.mu.Lock()
	q.backlog = append(q.backlog, b)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Out exposes the output channel of batches.
func (q *Intake) Out() <-chan Batch { return q.out }

// BacklogSize returns the number of enqueued-but-not-yet-output batches.
func (q *Intake) BacklogSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Depth returns backlog plus buffered output batches.
func (q *Intake) Depth() int {
	q.mu.Lock()
	bl := len(q.backlog)
	q.mu.Unlock()
	return bl + len(q.out)
}

// MarkProcessed increases the processed counter.
func (q *Intake) MarkProcessed() { q.processed.Add(1) }

// Metrics returns counters and sizes for observability.
func (q *Intake) Metrics() (enq, proc uint64, backlog, depth int) {
	enq = q.enqueued.Load()
	proc = q.processed.Load()
	backlog = q.BacklogSize()
	depth = q.Depth()
	return enq, proc, backlog, depth
}

// CloseIntake disallows future enqueues.
func (q *Intake) CloseIntake() { q.shuttingDown.Store(true) }

// IsShuttingDown reports if intake has been closed.
func (q *Intake) IsShuttingDown() bool { return q.shuttingDown.Load() }
