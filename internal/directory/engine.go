package directory

import (
	"sync"
	"time"

	"acadconnect/internal/logging"
	"acadconnect/internal/model"
)

// DefaultDebounce is the delay between the last filter-field change and
// the recompute it triggers.
const DefaultDebounce = 300 * time.Millisecond

// Result is one recomputed view: the filtered list together with the
// filter state that produced it.
type Result struct {
	Users   []model.User
	Filters Filters
}

// Engine holds the full fetched user list and derives the filtered view
// from it. Filter changes are debounced; a change scheduled while an
// earlier one is still pending cancels it, so only the newest filter
// state is ever applied and no stale view can overwrite a newer one.
//
// Until a source list is set the engine is suspended: filter changes are
// recorded but nothing is computed or emitted.
type Engine struct {
	mu        sync.Mutex
	debouncer *Debouncer

	source   []model.User
	ready    bool
	filters  Filters
	filtered []model.User
	seq      uint64

	onResult func(Result)
}

// NewEngine creates an engine emitting recomputed views through
// onResult (may be nil for pull-only use). delay <= 0 selects
// DefaultDebounce.
func NewEngine(delay time.Duration, onResult func(Result)) *Engine {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Engine{
		debouncer: NewDebouncer(delay),
		filters:   DefaultFilters(),
		onResult:  onResult,
	}
}

// SetSource installs the full fetched list and recomputes immediately:
// a fresh fetch should be visible without waiting out a debounce.
func (e *Engine) SetSource(users []model.User) {
	e.mu.Lock()
	e.source = users
	e.ready = true
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	logging.Directory("source list set: %d users", len(users))
	e.debouncer.Immediate(func() { e.recompute(seq) })
}

// Reset discards the source list and suspends the engine, e.g. while a
// re-fetch is in flight.
func (e *Engine) Reset() {
	e.debouncer.Cancel()
	e.mu.Lock()
	e.source = nil
	e.filtered = nil
	e.ready = false
	e.seq++
	e.mu.Unlock()
}

// SetFilters records a filter change and schedules a debounced
// recompute. Superseded schedules are cancelled.
func (e *Engine) SetFilters(f Filters) {
	e.mu.Lock()
	e.filters = f
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	e.debouncer.Debounce(func() { e.recompute(seq) })
}

// Flush applies the current filter state immediately, cancelling any
// pending debounce.
func (e *Engine) Flush() {
	e.mu.Lock()
	seq := e.seq
	e.mu.Unlock()
	e.debouncer.Immediate(func() { e.recompute(seq) })
}

// Ready reports whether a source list has been installed.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Filters returns the current filter state.
func (e *Engine) Filters() Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// View returns the most recently computed filtered list.
func (e *Engine) View() []model.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filtered
}

// Departments returns the department selector options for the current
// source list.
func (e *Engine) Departments() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Departments(e.source)
}

// ResearchAreas returns the research-area selector options for the
// current source list.
func (e *Engine) ResearchAreas() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ResearchAreas(e.source)
}

// recompute applies the current filters if the engine is ready and seq
// is still current. A recompute whose seq was superseded between
// scheduling and firing is dropped.
func (e *Engine) recompute(seq uint64) {
	e.mu.Lock()
	if !e.ready || seq != e.seq {
		e.mu.Unlock()
		return
	}
	filters := e.filters
	total := len(e.source)
	filtered := Apply(e.source, filters)
	e.filtered = filtered
	callback := e.onResult
	e.mu.Unlock()

	logging.DirectoryDebug("recompute: %d of %d users match", len(filtered), total)
	if callback != nil {
		callback(Result{Users: filtered, Filters: filters})
	}
}
