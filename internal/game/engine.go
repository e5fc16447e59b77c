// internal/game/engine.go
//
// Guess resolution engine.
// Responsibilities:
//   - Guard the unready states (no dataset, no daily hero) as ordinary rejections.
//   - Resolve raw input to a hero: exact case-insensitive name first, then the
//     closest fuzzy match within tolerance.
//   - Reject repeats using the session history, record new names in it.
//   - Build per-attribute feedback against the daily hero.
//
// Notes:
//   - Resolve is synchronous and does not lock; Session serializes callers.
//   - The dataset and target are read only. The history is the only thing mutated,
//     and only after a guess resolves.
package game

import (
	"strings"

	"github.com/robalobadob/heroguess/internal/compare"
	"github.com/robalobadob/heroguess/internal/hero"
	"github.com/robalobadob/heroguess/internal/match"
)

// Resolve applies one guess.
//
// Order of checks:
//   - empty input → ReasonEmptyInput
//   - empty dataset → ReasonDatasetUnready
//   - nil target → ReasonTargetUnready
//   - input already in history → ReasonAlreadyGuessed
//   - no exact or fuzzy match → ReasonNotFound
//
// Only the input is checked against history. A typo that resolves to an
// earlier guess resolves again. A nil history is treated as empty and is
// not recorded into.
func Resolve(raw string, heroes hero.Dataset, target *hero.Hero, history History, tolerance int) Outcome {
	guess := strings.ToLower(strings.TrimSpace(raw))
	if guess == "" {
		return reject(ReasonEmptyInput)
	}
	if len(heroes) == 0 {
		return reject(ReasonDatasetUnready)
	}
	if target == nil {
		return reject(ReasonTargetUnready)
	}
	if history.Has(guess) {
		return reject(ReasonAlreadyGuessed)
	}

	h, ok := heroes.Find(guess)
	if !ok {
		i, _, found := match.Closest(guess, heroes.Names(), tolerance)
		if !found {
			return reject(ReasonNotFound)
		}
		h = heroes[i]
	}
	if history != nil {
		history.Add(h.Key())
	}

	return Outcome{Result: &GuessResult{
		Hero:       h,
		Attributes: compare.Attributes(h, *target),
		IsTarget:   h.Is(*target),
	}}
}
