package client

import (
	"context"
	"sync"
	"time"

	"github.com/adora-ads/adora-api/internal/search"
)

// SearchFunc fetches one result set. Client.SearchSpacesEnhanced with a
// fixed page satisfies it through LiveSearch's default.
type SearchFunc func(ctx context.Context, f search.Filters) (*SearchResult, error)

// Update is delivered to the OnUpdate callback after every accepted fetch.
// On failure Result is the previous result set and Notice is set.
type Update struct {
	Seq     uint64
	Filters search.Filters
	Result  *SearchResult
	Notice  *Notice
}

// LiveSearch re-runs a search a fixed delay after the last filter change.
// A newer change cancels the pending timer, and a newer dispatch cancels the
// in-flight request. Every dispatch carries a sequence number; a response
// whose number is not the latest is dropped, so callers only ever see
// results in dispatch order.
type LiveSearch struct {
	delay    time.Duration
	fetch    SearchFunc
	onUpdate func(Update)
	timeout  time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	cancel   context.CancelFunc
	filters  search.Filters
	result   *SearchResult
	loading  bool
	closed   bool
	delivery sync.Mutex // orders OnUpdate calls
}

// LiveOption configures a LiveSearch.
type LiveOption func(*LiveSearch)

// WithSearchFunc replaces the fetch used by the search.
func WithSearchFunc(fn SearchFunc) LiveOption { return func(l *LiveSearch) { l.fetch = fn } }

// OnUpdate registers the callback receiving accepted results.
func OnUpdate(fn func(Update)) LiveOption { return func(l *LiveSearch) { l.onUpdate = fn } }

// WithRequestTimeout bounds each dispatched fetch.
func WithRequestTimeout(d time.Duration) LiveOption { return func(l *LiveSearch) { l.timeout = d } }

// NewLiveSearch returns a LiveSearch running the enhanced search of c. A
// non-positive delay uses the 300ms default.
func NewLiveSearch(c *Client, delay time.Duration, opts ...LiveOption) *LiveSearch {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	l := &LiveSearch{delay: delay, timeout: 10 * time.Second}
	if c != nil {
		l.fetch = func(ctx context.Context, f search.Filters) (*SearchResult, error) {
			return c.SearchSpacesEnhanced(ctx, f, search.Page{})
		}
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Update records new filters and (re)starts the debounce timer.
func (l *LiveSearch) Update(f search.Filters) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.filters = f
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.delay, l.fire)
}

// SearchNow dispatches f immediately, dropping any pending timer. It blocks
// until the fetch returns and reports whether its result was accepted.
func (l *LiveSearch) SearchNow(f search.Filters) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.filters = f
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.mu.Unlock()
	return l.dispatch()
}

func (l *LiveSearch) fire() { l.dispatch() }

func (l *LiveSearch) dispatch() bool {
	l.mu.Lock()
	if l.closed || l.fetch == nil {
		l.mu.Unlock()
		return false
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	f := l.filters
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	l.cancel = cancel
	l.loading = true
	l.mu.Unlock()

	res, err := l.fetch(ctx, f)
	cancel()

	l.delivery.Lock()
	defer l.delivery.Unlock()

	l.mu.Lock()
	if seq != l.seq || l.closed {
		l.mu.Unlock()
		return false
	}
	l.loading = false
	l.cancel = nil
	up := Update{Seq: seq, Filters: f}
	if err != nil {
		// keep the prior result set
		up.Notice = NoticeLoadFailed
	} else {
		l.result = res
	}
	up.Result = l.result
	cb := l.onUpdate
	l.mu.Unlock()

	if cb != nil {
		cb(up)
	}
	return true
}

// Result returns the latest accepted result set, or nil before the first.
func (l *LiveSearch) Result() *SearchResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

// Loading reports whether a dispatched fetch has not been accepted yet.
func (l *LiveSearch) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Filters returns the most recently set filters.
func (l *LiveSearch) Filters() search.Filters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters
}

// Close stops the timer and cancels any in-flight fetch.
func (l *LiveSearch) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
	}
	if l.cancel != nil {
		l.cancel()
	}
}
