// internal/game/types.go
//
// Core type definitions for the guess resolution engine.
// Defines:
//   - Reason: why a guess was rejected (all user-correctable, never fatal).
//   - GuessResult: the resolved hero plus per-attribute feedback.
//   - Outcome: tagged result of one guess (rejected with a reason, or resolved).
//   - History: lower-cased names already guessed in a session.

package game

import (
	"errors"

	"github.com/robalobadob/heroguess/internal/compare"
	"github.com/robalobadob/heroguess/internal/hero"
)

// Reason identifies why a guess was rejected.
type Reason string

const (
	ReasonEmptyInput     Reason = "empty-input"
	ReasonDatasetUnready Reason = "dataset-unready"
	ReasonTargetUnready  Reason = "target-unready"
	ReasonAlreadyGuessed Reason = "already-guessed"
	ReasonNotFound       Reason = "not-found"
)

// Sentinel errors mirroring each Reason, for callers that prefer errors.Is.
var (
	ErrEmptyInput     = errors.New("empty guess")
	ErrDatasetUnready = errors.New("dataset not loaded")
	ErrTargetUnready  = errors.New("daily hero not selected")
	ErrAlreadyGuessed = errors.New("hero already guessed")
	ErrNotFound       = errors.New("hero not found")
)

var reasonErrs = map[Reason]error{
	ReasonEmptyInput:     ErrEmptyInput,
	ReasonDatasetUnready: ErrDatasetUnready,
	ReasonTargetUnready:  ErrTargetUnready,
	ReasonAlreadyGuessed: ErrAlreadyGuessed,
	ReasonNotFound:       ErrNotFound,
}

var reasonMessages = map[Reason]string{
	ReasonEmptyInput:     "Type a hero name to guess.",
	ReasonDatasetUnready: "No heroes loaded.",
	ReasonTargetUnready:  "Still loading data, please wait.",
	ReasonAlreadyGuessed: "You already guessed that hero!",
	ReasonNotFound:       "Hero not found!",
}

// Message is the user-facing text for a rejection.
func (r Reason) Message() string { return reasonMessages[r] }

// GuessResult is produced for every resolved guess.
type GuessResult struct {
	Hero       hero.Hero                 `json:"hero"`
	Attributes []compare.AttributeResult `json:"attributes"`
	IsTarget   bool                      `json:"isTarget"`
}

// Outcome is the result of one guess: either Reason is set (rejected) or
// Result is non-nil (resolved).
type Outcome struct {
	Reason Reason
	Result *GuessResult
}

// Rejected reports whether the guess was turned away.
func (o Outcome) Rejected() bool { return o.Result == nil }

// Err returns the sentinel error for a rejection, or nil when resolved.
func (o Outcome) Err() error {
	if !o.Rejected() {
		return nil
	}
	return reasonErrs[o.Reason]
}

func reject(r Reason) Outcome { return Outcome{Reason: r} }

// History is the set of lower-cased hero names guessed so far. It only grows.
type History map[string]struct{}

// NewHistory returns an empty history.
func NewHistory() History { return History{} }

// Has reports whether key was already guessed.
func (h History) Has(key string) bool {
	_, ok := h[key]
	return ok
}

// Add records key.
func (h History) Add(key string) { h[key] = struct{}{} }
