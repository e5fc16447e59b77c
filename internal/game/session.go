// internal/game/session.go
//
// Session state for one player and the shared hero catalog.
//
//   - Catalog: the dataset slot filled once, asynchronously, at startup.
//     loading → ready | failed. A failed catalog never recovers.
//   - Session: a player's game for one UTC day. Pins the daily hero the first
//     time it is available and accumulates history and results in memory.
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/heroguess/internal/daily"
	"github.com/robalobadob/heroguess/internal/hero"
)

// CatalogState describes dataset availability.
type CatalogState string

const (
	CatalogLoading CatalogState = "loading"
	CatalogReady   CatalogState = "ready"
	CatalogFailed  CatalogState = "failed"
)

// ErrCatalogSettled is returned when Load or Fail is called after the catalog
// already left the loading state.
var ErrCatalogSettled = errors.New("catalog already settled")

// Catalog holds the dataset shared by every session.
type Catalog struct {
	mu     sync.RWMutex
	state  CatalogState
	heroes hero.Dataset
	err    error
}

// NewCatalog returns a catalog in the loading state.
func NewCatalog() *Catalog {
	return &Catalog{state: CatalogLoading}
}

// Load publishes the dataset. An empty dataset fails the catalog instead.
func (c *Catalog) Load(heroes hero.Dataset) error {
	if len(heroes) == 0 {
		return c.settle(CatalogFailed, nil, daily.ErrEmptyDataset)
	}
	return c.settle(CatalogReady, heroes, nil)
}

// Fail marks the catalog as permanently unavailable.
func (c *Catalog) Fail(err error) error {
	return c.settle(CatalogFailed, nil, err)
}

func (c *Catalog) settle(st CatalogState, heroes hero.Dataset, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CatalogLoading {
		return ErrCatalogSettled
	}
	c.state, c.heroes, c.err = st, heroes, err
	return err
}

// State returns the current state and, when failed, the load error.
func (c *Catalog) State() (CatalogState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.err
}

// Heroes returns the dataset, or nil unless ready.
func (c *Catalog) Heroes() hero.Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.heroes
}

// Target returns the daily hero for the UTC day of now, or nil unless ready.
func (c *Catalog) Target(now time.Time) *hero.Hero {
	heroes := c.Heroes()
	i, err := daily.Index(now, len(heroes))
	if err != nil {
		return nil
	}
	h := heroes[i]
	return &h
}

// Session is one player's game for a single UTC day.
type Session struct {
	ID        string
	Day       string
	CreatedAt time.Time
	Tolerance int

	mu      sync.Mutex // one guess at a time
	catalog *Catalog
	target  *hero.Hero
	history History
	results []GuessResult // oldest first
	solved  bool
}

// NewSession starts a session for the UTC day of now.
func NewSession(id string, catalog *Catalog, now time.Time, tolerance int) *Session {
	return &Session{
		ID:        id,
		Day:       daily.DateKey(now),
		CreatedAt: now,
		Tolerance: tolerance,
		catalog:   catalog,
		history:   NewHistory(),
	}
}

// Guess resolves raw against the session's daily hero.
// Guessing after a win is still allowed.
func (s *Session) Guess(raw string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		s.target = s.catalog.Target(s.CreatedAt)
	}
	o := Resolve(raw, s.catalog.Heroes(), s.target, s.history, s.Tolerance)
	if o.Rejected() {
		return o
	}
	s.results = append(s.results, *o.Result)
	if o.Result.IsTarget {
		s.solved = true
	}
	return o
}

// State is a point-in-time copy of a session.
type State struct {
	ID      string        `json:"gameId"`
	Day     string        `json:"date"`
	Guesses int           `json:"guesses"`
	Solved  bool          `json:"solved"`
	Results []GuessResult `json:"results"` // newest first
}

// Snapshot copies the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GuessResult, 0, len(s.results))
	for i := len(s.results) - 1; i >= 0; i-- {
		out = append(out, s.results[i])
	}
	return State{ID: s.ID, Day: s.Day, Guesses: len(s.results), Solved: s.solved, Results: out}
}
