package reingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SirClappington/reingest/internal/domain"
	"github.com/SirClappington/reingest/internal/pool"
	"github.com/SirClappington/reingest/internal/query"
	"github.com/SirClappington/reingest/internal/queue"
	"github.com/SirClappington/reingest/internal/storage"
)

// Summary totals the outcome of one run.
type Summary struct {
	RunID            string
	Discovered       int
	Batches          int
	Abandoned        int
	AbandonedRecords int
	Phases           map[string]PhaseResult
}

// Failed reports whether any batch or record failed.
func (s Summary) Failed() bool {
	if s.Abandoned > 0 {
		return true
	}
	for _, pr := range s.Phases {
		if pr.Failed > 0 {
			return true
		}
	}
	return false
}

type Engine struct {
	cfg       domain.JobConfig
	connector storage.Connector
	log       Logger
}

func New(cfg domain.JobConfig, connector storage.Connector, log Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid job configuration")
	}
	if connector == nil {
		return nil, errors.New("nil connector")
	}
	if log == nil {
		log = nopLogger()
	}
	return &Engine{cfg: cfg.Clone(), connector: connector, log: log}, nil
}

// Run discovers the ids to process, then reingests them in batches across
// the worker pool. It returns an error only when discovery fails; batch and
// record failures are logged and counted in the Summary.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	s := Summary{RunID: uuid.NewString(), Phases: map[string]PhaseResult{}}

	ids, err := e.discover(ctx, s.RunID)
	if err != nil {
		return s, err
	}
	s.Discovered = len(ids)

	batcher, err := queue.NewBatcher(ids, e.cfg.BatchSize)
	if err != nil {
		return s, err
	}
	results := make([]BatchResult, batcher.Batches())
	w := &worker{connector: e.connector, log: e.log, runID: s.RunID}
	p := pool.New(e.cfg.Workers)

	e.log.Infow("Starting reingest",
		"run_id", s.RunID, "records", s.Discovered, "batches", len(results), "workers", p.Slots())

	for n := 0; ; n++ {
		batch, ok := batcher.Next()
		if !ok {
			break
		}
		n := n
		cfg := e.cfg.Clone()
		p.Submit(func() {
			results[n] = w.process(ctx, n, cfg, batch)
		})
	}
	p.Join()

	for _, r := range results {
		s.Batches++
		if r.Abandoned {
			s.Abandoned++
			s.AbandonedRecords += r.Size
		}
		for name, pr := range r.Phases {
			total := s.Phases[name]
			total.add(pr)
			s.Phases[name] = total
		}
	}

	e.log.Infow("Reingest complete",
		"run_id", s.RunID,
		"records", s.Discovered,
		"batches", s.Batches,
		"abandoned_batches", s.Abandoned,
		"abandoned_records", s.AbandonedRecords)
	for name, pr := range s.Phases {
		e.log.Infow("Phase totals", "run_id", s.RunID, "phase", name, "succeeded", pr.Succeeded, "failed", pr.Failed)
	}
	return s, nil
}

// discover uses a connection of its own, closed before any worker connects.
func (e *Engine) discover(ctx context.Context, runID string) ([]int64, error) {
	conn, err := e.connector.Connect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "opening discovery connection")
	}
	defer func() {
		if err := conn.Close(ctx); err != nil {
			e.log.Warnw("Error closing discovery connection", "run_id", runID, "error", err)
		}
	}()

	sql := query.DiscoverySQL(e.cfg)
	e.log.Infow("Discovering records", "run_id", runID, "query", sql)
	return Discover(ctx, conn, sql, e.log)
}
