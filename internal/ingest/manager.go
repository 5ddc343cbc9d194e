package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/obs"
)

// Manager drives reconciliation of queued batches. Exactly one worker
// consumes the intake: the engine assumes a single writer and scaling
// workers would break that contract.
type Manager struct {
	intake *Intake
	rec    *Reconciler
	seq    Sequencer
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	totals Result
	runs   int
}

// NewManager constructs a Manager over the given intake and reconciler.
func NewManager(intake *Intake, rec *Reconciler) *Manager {
	return &Manager{intake: intake, rec: rec}
}

// Start begins the broker and the reconcile worker in the background.
func (m *Manager) Start(parent context.Context, highWatermark int) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.intake.Start(m.ctx, highWatermark)
	go m.worker(m.ctx)
}

// Stop cancels background routines.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// worker drains batches from the intake and reconciles them.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-m.intake.Out():
			res, err := m.rec.Reconcile(ctx, b.Candidates)
			m.intake.MarkProcessed()
			if err != nil {
				obs.Logger.Errorw("reconcile run failed",
					"run_id", b.RunID, "sequence", b.Sequence, "source", b.Source, "error", err)
				continue
			}
			m.mu.Lock()
			m.totals.add(res)
			m.runs++
			m.mu.Unlock()
			obs.Logger.Infow("reconcile run complete",
				"run_id", b.RunID,
				"sequence", b.Sequence,
				"source", b.Source,
				"added", res.Added,
				"updated", res.Updated,
				"unchanged", res.Unchanged,
				"skipped", res.Skipped,
			)
		}
	}
}

// Enqueue queues a candidate batch for reconciliation and returns the
// batch descriptor. ok is false once intake has been closed.
func (m *Manager) Enqueue(source string, candidates []model.Product) (Batch, bool) {
	b := Batch{
		Sequence:   m.seq.Next(),
		RunID:      uuid.NewString(),
		Source:     source,
		Candidates: candidates,
	}
	if !m.intake.Enqueue(b) {
		return Batch{}, false
	}
	return b, true
}

// Totals returns accumulated counts and the number of completed runs.
func (m *Manager) Totals() (Result, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals, m.runs
}

// BacklogSize returns pending batches in the intake.
func (m *Manager) BacklogSize() int { return m.intake.BacklogSize() }

// Depth returns backlog plus buffered output batches.
func (m *Manager) Depth() int { return m.intake.Depth() }

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.intake.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.intake.CloseIntake() }

// Metrics exposes the underlying intake metrics.
func (m *Manager) Metrics() (enq, proc uint64, backlog, depth int) {
	return m.intake.Metrics()
}

// DrainUntil blocks until the intake is fully drained or ctx is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog, depth := m.intake.Metrics()
		if backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
