// Package store publishes the latest discovery and diagnostics results
// to concurrent readers.
package store

import (
	"sync"

	"github.com/NetScout-Go/WiFiScope/app/diagnostics"
	"github.com/NetScout-Go/WiFiScope/app/history"
	"github.com/NetScout-Go/WiFiScope/app/scanner"
)

// Store owns the current network list, the current diagnostics snapshot
// and the rolling history tables. Producers swap whole values under the
// lock; readers always get independent copies, so a concurrent publish
// can never mutate data already handed out.
type Store struct {
	mu       sync.RWMutex
	networks []scanner.AccessPoint
	diag     diagnostics.Snapshot
	history  *history.Store
}

func New(historySize int) *Store {
	return &Store{history: history.NewStore(historySize)}
}

// PublishNetworks replaces the current discovery list.
func (s *Store) PublishNetworks(networks []scanner.AccessPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks = networks
}

// PublishDiagnostics replaces the current snapshot and appends its metric
// values to the rolling history in the same exclusive section, so readers
// never see a snapshot paired with another cycle's history.
func (s *Store) PublishDiagnostics(snap diagnostics.Snapshot) {
	values := snap.MetricValues()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diag = snap
	s.history.Append(values)
}

// Networks returns a copy of the current discovery list.
func (s *Store) Networks() []scanner.AccessPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scanner.AccessPoint, len(s.networks))
	copy(out, s.networks)
	return out
}

// Diagnostics returns the current snapshot and a copy of every metric's
// history, oldest-first.
func (s *Store) Diagnostics() (diagnostics.Snapshot, map[string][]*float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diag, s.history.Snapshot()
}
