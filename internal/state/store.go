package state

import (
	"sync"
	"time"

	"github.com/five82/coinsearch/internal/coingecko"
)

// Change identifies which part of the snapshot a notification is about.
type Change int

const (
	ChangeQuery Change = iota + 1
	ChangeResults
)

// Snapshot represents the latest query and result list.
type Snapshot struct {
	Change       Change
	Query        string
	Results      []coingecko.SearchResult
	ResultsQuery string // query the fetch that produced Results was issued for
	HasFetched   bool   // false until the first fetch settles
	LastError    error
	LastUpdated  time.Time
	Seq          uint64 // sequence number of the fetch that produced Results
	Fetches      int    // settled fetches applied so far
}

// Settled reports whether Results were fetched for the current Query.
func (s Snapshot) Settled() bool {
	return s.HasFetched && s.ResultsQuery == s.Query
}

// Empty reports whether the result list is empty.
func (s Snapshot) Empty() bool {
	return len(s.Results) == 0
}

const subscriberBuffer = 64

// Store holds the current snapshot and fans changes out to subscribers on a
// single dispatcher goroutine, in the order they were applied. Writers never
// block on slow subscribers; pending notifications queue up instead.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	pending  []Snapshot
	subs     map[int]*Subscription
	nextID   int
	closed   bool

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewStore creates a Store and starts its dispatcher.
func NewStore() *Store {
	s := &Store{
		subs: make(map[int]*Subscription),
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// SetQuery records a new query value.
func (s *Store) SetQuery(query string) {
	s.mu.Lock()
	s.snapshot.Query = query
	s.enqueueLocked(ChangeQuery)
	s.mu.Unlock()
	s.signal()
}

// Update replaces the result list with the outcome of the fetch issued for
// query. A non-nil err empties the list and is recorded for visibility;
// results are never merged.
func (s *Store) Update(seq uint64, query string, results []coingecko.SearchResult, err error) {
	s.mu.Lock()
	s.snapshot.ResultsQuery = query
	if err != nil {
		s.snapshot.Results = nil
		s.snapshot.LastError = err
	} else {
		s.snapshot.Results = cloneResults(results)
		s.snapshot.LastError = nil
	}
	s.snapshot.Seq = seq
	s.snapshot.HasFetched = true
	s.snapshot.Fetches++
	s.snapshot.LastUpdated = time.Now()
	s.enqueueLocked(ChangeResults)
	s.mu.Unlock()
	s.signal()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

// Subscribe registers a new observer. Changes are delivered on C in the order
// they were applied until the subscription or the store is closed.
func (s *Store) Subscribe() *Subscription {
	ch := make(chan Snapshot, subscriberBuffer)
	sub := &Subscription{
		C:     ch,
		ch:    ch,
		done:  make(chan struct{}),
		store: s,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return sub
	}
	sub.id = s.nextID
	s.nextID++
	s.subs[sub.id] = sub
	return sub
}

// Close stops the dispatcher and closes every subscriber channel. Later
// changes still update the snapshot but are not delivered.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.pending = nil
		s.mu.Unlock()

		close(s.quit)
		<-s.done

		s.mu.Lock()
		defer s.mu.Unlock()
		for id, sub := range s.subs {
			close(sub.ch)
			delete(s.subs, id)
		}
	})
}

func (s *Store) enqueueLocked(change Change) {
	if s.closed {
		return
	}
	snap := s.cloneLocked()
	snap.Change = change
	s.pending = append(s.pending, snap)
}

func (s *Store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) dispatch() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			batch := s.pending
			s.pending = nil
			targets := make([]*Subscription, 0, len(s.subs))
			for _, sub := range s.subs {
				targets = append(targets, sub)
			}
			s.mu.Unlock()

			if len(batch) == 0 {
				break
			}
			for _, snap := range batch {
				for _, sub := range targets {
					select {
					case sub.ch <- cloneSnapshot(snap):
					case <-sub.done:
					case <-s.quit:
						return
					}
				}
			}
		}
	}
}

func (s *Store) cloneLocked() Snapshot {
	return cloneSnapshot(s.snapshot)
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, sub.id)
}

// Subscription is a registered observer of a Store.
type Subscription struct {
	// C receives snapshots. It is closed when the store is closed.
	C <-chan Snapshot

	ch    chan Snapshot
	done  chan struct{}
	once  sync.Once
	id    int
	store *Store
}

// Close stops delivery to this subscription. C is left open; callers stop
// reading from it.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		close(sub.done)
		sub.store.unsubscribe(sub)
	})
}

func cloneSnapshot(snap Snapshot) Snapshot {
	dup := snap
	dup.Results = cloneResults(snap.Results)
	return dup
}

func cloneResults(items []coingecko.SearchResult) []coingecko.SearchResult {
	if len(items) == 0 {
		return nil
	}
	dup := make([]coingecko.SearchResult, len(items))
	copy(dup, items)
	for i := range dup {
		if rank := dup[i].MarketCapRank; rank != nil {
			r := *rank
			dup[i].MarketCapRank = &r
		}
	}
	return dup
}
