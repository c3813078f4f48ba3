package reingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/SirClappington/reingest/internal/storage"
)

type execCall struct {
	name string
	args []any
}

type fakeConn struct {
	c        *fakeConnector
	index    int
	prepared map[string]string
	execs    []execCall
	closed   bool
}

func (f *fakeConn) QueryIDs(_ context.Context, sql string) ([]int64, error) {
	f.c.mu.Lock()
	f.c.queries = append(f.c.queries, sql)
	f.c.mu.Unlock()
	if f.c.queryErr != nil {
		return nil, f.c.queryErr
	}
	return append([]int64(nil), f.c.ids...), nil
}

func (f *fakeConn) Prepare(_ context.Context, name, sql string) error {
	if f.c.prepareErr != nil {
		return f.c.prepareErr
	}
	f.prepared[name] = sql
	return nil
}

func (f *fakeConn) Exec(_ context.Context, name string, args ...any) error {
	if _, ok := f.prepared[name]; !ok {
		return errors.Errorf("statement %q not prepared", name)
	}
	f.execs = append(f.execs, execCall{name: name, args: args})
	id, _ := args[0].(int64)
	if f.c.panicOn[id] && (f.c.panicStmt == "" || f.c.panicStmt == name) {
		panic(fmt.Sprintf("reingest of %d crashed", id))
	}
	if f.c.failIDs[id] {
		return errors.Errorf("reingest of %d failed", id)
	}
	return nil
}

func (f *fakeConn) Close(context.Context) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	f.closed = true
	f.c.events = append(f.c.events, event{"close", f.index})
	f.c.open--
	return nil
}

type event struct {
	kind string
	conn int
}

// fakeConnector hands out in-memory sessions and records their lifetimes.
type fakeConnector struct {
	ids        []int64
	queryErr   error
	prepareErr error
	failIDs    map[int64]bool
	panicOn    map[int64]bool
	// panicStmt limits panicOn to one prepared statement when set.
	panicStmt string
	// failConnect makes the n-th Connect call (0 based) fail.
	failConnect map[int]bool

	mu       sync.Mutex
	attempts int
	conns    []*fakeConn
	events   []event
	queries  []string
	open     int
	peakOpen int
}

func (c *fakeConnector) Connect(context.Context) (storage.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.attempts
	c.attempts++
	if c.failConnect[n] {
		c.events = append(c.events, event{"connect_failed", -1})
		return nil, errors.New("connection refused")
	}
	conn := &fakeConn{c: c, index: len(c.conns), prepared: map[string]string{}}
	c.conns = append(c.conns, conn)
	c.events = append(c.events, event{"connect", conn.index})
	c.open++
	if c.open > c.peakOpen {
		c.peakOpen = c.open
	}
	return conn, nil
}

// workerConns returns every connection except the discovery one.
func (c *fakeConnector) workerConns() []*fakeConn {
	return c.conns[1:]
}

func (c *fakeConnector) allExecs() []execCall {
	var out []execCall
	for _, conn := range c.workerConns() {
		out = append(out, conn.execs...)
	}
	return out
}
