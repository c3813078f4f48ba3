package reingest

import (
	"context"
	"fmt"

	"github.com/SirClappington/reingest/internal/domain"
	"github.com/SirClappington/reingest/internal/storage"
)

// PhaseResult tallies reingest calls for one phase.
type PhaseResult struct {
	Succeeded int
	Failed    int
}

func (r *PhaseResult) add(o PhaseResult) {
	r.Succeeded += o.Succeeded
	r.Failed += o.Failed
}

// BatchResult is what a worker reports for one batch.
type BatchResult struct {
	Batch     int
	Size      int
	Abandoned bool
	Phases    map[string]PhaseResult
}

type worker struct {
	connector storage.Connector
	log       Logger
	runID     string
}

// process reingests one batch on its own connection. Failures never escape:
// a failed connect abandons the batch, a failed record is logged and skipped.
func (w *worker) process(ctx context.Context, n int, cfg domain.JobConfig, ids []int64) (res BatchResult) {
	res = BatchResult{Batch: n, Size: len(ids), Phases: map[string]PhaseResult{}}

	// Counts for the phase in progress, kept if a panic cuts it short.
	var (
		current string
		pr      PhaseResult
	)
	defer func() {
		if r := recover(); r != nil {
			w.log.Errorw("Batch panicked", "run_id", w.runID, "batch", n, "phase", current, "panic", fmt.Sprint(r))
			res.Abandoned = true
			if current != "" {
				res.Phases[current] = pr
			}
		}
	}()

	conn, err := w.connector.Connect(ctx)
	if err != nil {
		w.log.Errorw("Abandoning batch, cannot connect",
			"run_id", w.runID, "batch", n, "records", len(ids), "error", err)
		res.Abandoned = true
		return res
	}
	defer func() {
		if err := conn.Close(ctx); err != nil {
			w.log.Warnw("Error closing worker connection", "run_id", w.runID, "batch", n, "error", err)
		}
	}()

	w.log.Infow("Processing batch", "run_id", w.runID, "batch", n, "records", len(ids))

	for _, phase := range Phases(cfg) {
		current, pr = phase.Name, PhaseResult{}
		w.runPhase(ctx, conn, n, phase.Statement(cfg), phase.Name, ids, &pr)
		res.Phases[phase.Name] = pr
	}
	current = ""
	return res
}

func (w *worker) runPhase(ctx context.Context, conn storage.Conn, n int, stmt Statement, phase string, ids []int64, pr *PhaseResult) {
	if err := conn.Prepare(ctx, stmt.Name, stmt.SQL); err != nil {
		w.log.Errorw("Error preparing statement, skipping phase for batch",
			"run_id", w.runID, "batch", n, "phase", phase, "error", err)
		pr.Failed = len(ids)
		return
	}
	for _, id := range ids {
		o := domain.Outcome{ID: id, Phase: phase, Status: domain.Succeeded}
		if err := conn.Exec(ctx, stmt.Name, stmt.Args(id)...); err != nil {
			o.Status, o.Err = domain.Failed, err
		}
		w.record(n, o, pr)
	}
}

func (w *worker) record(n int, o domain.Outcome, pr *PhaseResult) {
	if o.Status == domain.Succeeded {
		pr.Succeeded++
		return
	}
	pr.Failed++
	w.log.Errorw("Error processing record",
		"run_id", w.runID, "batch", n, "phase", o.Phase, "id", o.ID, "error", o.Err)
}
