package domain

import "github.com/pkg/errors"

type Status string

const (
	Succeeded Status = "succeeded"
	Failed    Status = "failed"
)

const (
	DefaultWorkers   = 5
	DefaultBatchSize = 100
)

// JobConfig describes one reingest run. It is read once before dispatch and
// handed to each worker by value.
type JobConfig struct {
	Workers     int
	BatchSize   int
	MinID       *int64 // exclusive lower bound, nil = unbounded
	MaxID       *int64 // exclusive upper bound, nil or <= 0 = unbounded
	NewestFirst bool
	Attrs       []string // attribute kinds to reingest, empty = all

	Browse     bool
	Attributes bool
	Search     bool
	Facets     bool
	Display    bool
}

func (c JobConfig) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.BatchSize < 1 {
		return errors.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.MinID != nil && c.MaxID != nil && *c.MaxID > 0 && *c.MaxID <= *c.MinID {
		return errors.Errorf("empty id range: min %d, max %d", *c.MinID, *c.MaxID)
	}
	if !c.AnyPhase() {
		return errors.New("no reingest phase selected")
	}
	return nil
}

func (c JobConfig) AnyPhase() bool {
	return c.Browse || c.Attributes || c.Search || c.Facets || c.Display
}

// Clone returns a copy that shares no memory with c.
func (c JobConfig) Clone() JobConfig {
	out := c
	if c.MinID != nil {
		v := *c.MinID
		out.MinID = &v
	}
	if c.MaxID != nil {
		v := *c.MaxID
		out.MaxID = &v
	}
	if c.Attrs != nil {
		out.Attrs = append([]string(nil), c.Attrs...)
	}
	return out
}

// Outcome is the result of one reingest call for one record.
type Outcome struct {
	ID     int64
	Phase  string
	Status Status
	Err    error
}
