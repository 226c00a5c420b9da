package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/coinsearch/internal/coingecko"
	"github.com/five82/coinsearch/internal/metrics"
	"github.com/five82/coinsearch/internal/state"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search is issued.
const DefaultDebounce = 500 * time.Millisecond

// Observer receives pipeline events. *metrics.Recorder implements it.
type Observer interface {
	QueryChanged(superseded bool)
	FetchStarted()
	FetchSettled(outcome string, d time.Duration)
	ResultsApplied(count int)
	StaleDropped()
}

var _ Observer = (*metrics.Recorder)(nil)

// Options configure a Pipeline.
type Options struct {
	Debounce time.Duration // zero uses DefaultDebounce
	// DropStale discards a completion when a fetch issued later has already
	// settled. Off by default: results are applied in completion order.
	DropStale bool
	Logger    *zap.Logger
	Observer  Observer
}

// Pipeline turns a stream of query changes into debounced searches and keeps
// the latest query and result list in a state.Store.
type Pipeline struct {
	searcher  coingecko.Searcher
	store     *state.Store
	debounce  time.Duration
	dropStale bool
	log       *zap.Logger
	obs       Observer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	query    string
	timer    *time.Timer
	timerGen uint64
	seq      uint64 // last issued fetch
	applied  uint64 // last fetch written to the store
	closed   bool
}

// New creates a Pipeline with an empty query and result list. The empty query
// goes through the debounce window like any other, so one search for "" is
// issued a window after construction unless a keystroke replaces it first.
func New(searcher coingecko.Searcher, opts Options) *Pipeline {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		searcher:  searcher,
		store:     state.NewStore(),
		debounce:  debounce,
		dropStale: opts.DropStale,
		log:       logger.Named("search"),
		obs:       obs,
		ctx:       ctx,
		cancel:    cancel,
	}

	p.mu.Lock()
	p.armLocked()
	p.mu.Unlock()
	return p
}

// SetQueryText records text as the current query and restarts the debounce
// window. Call it on every keystroke.
func (p *Pipeline) SetQueryText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.query = text
	p.store.SetQuery(text)

	p.obs.QueryChanged(p.armLocked())
}

// armLocked restarts the debounce window and reports whether a pending
// window was cut short.
func (p *Pipeline) armLocked() bool {
	superseded := false
	if p.timer != nil {
		superseded = p.timer.Stop()
	}
	p.timerGen++
	gen := p.timerGen
	p.timer = time.AfterFunc(p.debounce, func() { p.fire(gen) })
	return superseded
}

// Query returns the current query text.
func (p *Pipeline) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Results returns the current result list.
func (p *Pipeline) Results() []coingecko.SearchResult {
	return p.store.Snapshot().Results
}

// Snapshot returns the full observable state.
func (p *Pipeline) Snapshot() state.Snapshot {
	return p.store.Snapshot()
}

// Subscribe registers an observer of query and result changes.
func (p *Pipeline) Subscribe() *state.Subscription {
	return p.store.Subscribe()
}

// Close cancels the pending timer and any in-flight fetch, waits for
// fetch goroutines to exit and closes all subscriptions.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerGen++
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.store.Close()
}

// fire runs on the timer goroutine once the debounce window elapses.
func (p *Pipeline) fire(gen uint64) {
	p.mu.Lock()
	if p.closed || gen != p.timerGen {
		// Replaced by a newer keystroke after this timer had already fired.
		p.mu.Unlock()
		return
	}
	p.timer = nil
	text := p.query
	p.seq++
	seq := p.seq
	p.wg.Add(1)
	p.mu.Unlock()

	defer p.wg.Done()
	p.fetch(seq, text)
}

func (p *Pipeline) fetch(seq uint64, text string) {
	log := p.log.With(zap.Uint64("seq", seq), zap.String("query", text))
	log.Debug("search started")

	p.obs.FetchStarted()
	start := time.Now()
	results, err := p.searcher.Search(p.ctx, text)
	elapsed := time.Since(start)
	p.obs.FetchSettled(outcome(err), elapsed)

	if p.ctx.Err() != nil {
		log.Debug("search abandoned on shutdown")
		return
	}

	if err != nil {
		log.Warn("search failed",
			zap.Stringer("kind", coingecko.KindOf(err)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	} else {
		log.Debug("search settled",
			zap.Int("count", len(results)),
			zap.Duration("duration", elapsed),
		)
	}

	p.settle(seq, text, results, err, log)
}

func (p *Pipeline) settle(seq uint64, text string, results []coingecko.SearchResult, err error, log *zap.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.dropStale && seq < p.applied {
		log.Debug("dropping stale search result", zap.Uint64("applied", p.applied))
		p.obs.StaleDropped()
		return
	}
	if seq > p.applied {
		p.applied = seq
	}

	if err != nil {
		results = nil
	}
	p.store.Update(seq, text, results, err)
	p.obs.ResultsApplied(len(results))
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	switch coingecko.KindOf(err) {
	case coingecko.KindNetwork:
		return metrics.OutcomeNetwork
	case coingecko.KindParsing:
		return metrics.OutcomeParsing
	default:
		return metrics.OutcomeError
	}
}

type nopObserver struct{}

func (nopObserver) QueryChanged(bool)                  {}
func (nopObserver) FetchStarted()                      {}
func (nopObserver) FetchSettled(string, time.Duration) {}
func (nopObserver) ResultsApplied(int)                 {}
func (nopObserver) StaleDropped()                      {}
