package queue

import "github.com/pkg/errors"

// Batcher hands out fixed-size batches taken from the front of an id list.
// The list is consumed: each id is returned in exactly one batch.
type Batcher struct {
	ids  []int64
	size int
}

func NewBatcher(ids []int64, size int) (*Batcher, error) {
	if size < 1 {
		return nil, errors.Errorf("batch size must be positive, got %d", size)
	}
	return &Batcher{ids: ids, size: size}, nil
}

// Next removes and returns the next batch. The returned slice is capped at
// its own length so appending to it can never reach ids still queued.
func (b *Batcher) Next() ([]int64, bool) {
	if len(b.ids) == 0 {
		return nil, false
	}
	n := b.size
	if len(b.ids) < n {
		n = len(b.ids)
	}
	batch := b.ids[:n:n]
	b.ids = b.ids[n:]
	return batch, true
}

// Remaining is the number of ids not yet handed out.
func (b *Batcher) Remaining() int { return len(b.ids) }

// Batches is the number of batches Next will still return.
func (b *Batcher) Batches() int {
	return (len(b.ids) + b.size - 1) / b.size
}
