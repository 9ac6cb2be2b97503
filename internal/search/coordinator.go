package search

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/prepdesk/internal/contract"
)

// Outcome is the result of one issued request.
type Outcome struct {
	Seq     uint64
	Request contract.SearchRequest
	Results []contract.SearchResult
	Err     error
}

// Coordinator debounces search requests and applies only the outcome of the
// most recently submitted one. Submitting cancels the pending or in-flight
// previous request; a response that arrives after a newer submit is dropped.
type Coordinator struct {
	client   Client
	debounce time.Duration
	apply    func(Outcome)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// NewCoordinator calls apply with each outcome that is still current. apply
// runs on a background goroutine while the coordinator's lock is held, so it
// must not call back into the coordinator.
func NewCoordinator(client Client, debounce time.Duration, apply func(Outcome)) *Coordinator {
	return &Coordinator{client: client, debounce: debounce, apply: apply}
}

// Submit schedules req after the debounce delay and returns its sequence
// number.
func (c *Coordinator) Submit(ctx context.Context, req contract.SearchRequest) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.seq
	}
	c.stopLocked()

	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.timer = time.AfterFunc(c.debounce, func() { c.run(ctx, seq, req) })
	return seq
}

// Latest returns the sequence number of the most recent submit.
func (c *Coordinator) Latest() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Close cancels any pending request. Later submits are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopLocked()
}

func (c *Coordinator) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Coordinator) run(ctx context.Context, seq uint64, req contract.SearchRequest) {
	results, err := c.client.Search(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq || c.closed {
		return
	}
	c.apply(Outcome{Seq: seq, Request: req, Results: results, Err: err})
}

// Tracker stamps requests issued from a single event loop, such as a
// bubbletea Update, so late responses can be recognised and dropped. It is
// not safe for concurrent use.
type Tracker struct {
	latest uint64
}

// Next returns the stamp for a new request and supersedes all earlier ones.
func (t *Tracker) Next() uint64 {
	t.latest++
	return t.latest
}

// Current reports whether seq is the newest issued stamp.
func (t *Tracker) Current(seq uint64) bool {
	return seq != 0 && seq == t.latest
}
