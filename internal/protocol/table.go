package protocol

import (
	"fmt"
	"sync"
)

// Result is what a resolved Pending delivers to its waiter. Exactly one of
// Value and Err is meaningful.
type Result struct {
	Value any
	Err   error
}

// Pending is one outstanding request awaiting a single response, timeout, or
// abandonment. Its slot is single-assignment: the entry must be claimed out
// of the table before delivery, so at most one write ever succeeds.
type Pending struct {
	id   string
	slot chan Result
}

// ID returns the request identifier this entry is keyed by.
func (p *Pending) ID() string {
	return p.id
}

// Resolved returns the channel on which the single result is delivered.
func (p *Pending) Resolved() <-chan Result {
	return p.slot
}

// Table is the per-session correlation table mapping request identifiers to
// pending-response slots. It is owned exclusively by one session and never
// shared across sessions.
//
// Resolution and removal are a single atomic step under the table mutex:
// whoever removes an entry owns its slot, so a timeout and a late response
// can never both complete the same Pending. The first claimer wins; the
// second finds nothing and is a no-op.
type Table struct {
	mu      sync.Mutex
	pending map[string]*Pending
}

// NewTable creates an empty correlation table.
func NewTable() *Table {
	return &Table{
		pending: make(map[string]*Pending, 10),
	}
}

// Add registers a new pending request keyed by id.
//
// Fails if id is already active; request identifiers must be unique within
// the session lifetime.
func (t *Table) Add(id string) (*Pending, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.pending[id]; exists {
		return nil, fmt.Errorf("request id %q already pending", id)
	}

	p := &Pending{
		id:   id,
		slot: make(chan Result, 1),
	}
	t.pending[id] = p

	return p, nil
}

// Resolve claims the entry for id and delivers res to its waiter.
//
// Returns false when no entry is active for id, which is how late or
// duplicate responses are dropped.
func (t *Table) Resolve(id string, res Result) bool {
	t.mu.Lock()

	p, exists := t.pending[id]
	if exists {
		delete(t.pending, id)
	}

	t.mu.Unlock()

	if !exists {
		return false
	}

	// We own the entry now; the slot is buffered so this never blocks.
	p.slot <- res

	return true
}

// Remove purges the entry for id without delivering anything. Used on the
// timeout and cancellation paths, after which any matching response is
// dropped by Resolve.
func (t *Table) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.pending[id]; !exists {
		return false
	}

	delete(t.pending, id)

	return true
}

// FailAll claims every remaining entry and delivers err to each waiter,
// leaving the table empty. Called on session teardown so no caller is left
// waiting after connection loss.
func (t *Table) FailAll(err error) {
	t.mu.Lock()
	abandoned := t.pending
	t.pending = make(map[string]*Pending)
	t.mu.Unlock()

	for _, p := range abandoned {
		p.slot <- Result{Err: err}
	}
}

// Len returns the number of active pending requests.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.pending)
}
