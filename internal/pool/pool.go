package pool

import "golang.org/x/sync/errgroup"

// Pool runs submitted tasks on a fixed number of slots.
type Pool struct {
	g     errgroup.Group
	slots int
}

// New returns a pool with the given number of slots, never fewer than one.
func New(slots int) *Pool {
	if slots < 1 {
		slots = 1
	}
	p := &Pool{slots: slots}
	p.g.SetLimit(slots)
	return p
}

func (p *Pool) Slots() int { return p.slots }

// Submit runs task on a free slot, blocking while every slot is busy.
func (p *Pool) Submit(task func()) {
	p.g.Go(func() error {
		task()
		return nil
	})
}

// Join blocks until every submitted task has returned.
func (p *Pool) Join() {
	_ = p.g.Wait()
}
