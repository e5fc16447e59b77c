// internal/compare/compare.go
//
// Per-attribute feedback for a guess.
// Defines:
//   - Class: the classification of one guessed attribute against the target.
//   - Classify: the ordered rule set (absent -> equal -> contained -> mismatch).
//   - Attributes: classification of every attribute in hero.Attributes.

package compare

import (
	"strings"

	"github.com/robalobadob/heroguess/internal/hero"
)

// Class is the evaluation result for a single attribute.
//   - "exact":    values are equal, ignoring case.
//   - "partial":  the target value contains the guessed value.
//   - "mismatch": anything else, including absent values.
type Class string

const (
	ClassExact    Class = "exact"
	ClassPartial  Class = "partial"
	ClassMismatch Class = "mismatch"
)

// NotAvailable is displayed in place of an absent guessed value.
const NotAvailable = "N/A"

// AttributeResult is one feedback cell.
type AttributeResult struct {
	Name  string `json:"name"`
	Value string `json:"value"` // guessed value, or NotAvailable
	Class Class  `json:"class"`
}

// Classify compares a guessed value with the target's value.
// Containment is directional: only a target that contains the guess is partial.
func Classify(guess, target string) Class {
	if guess == "" || target == "" {
		return ClassMismatch
	}
	g, t := strings.ToLower(guess), strings.ToLower(target)
	if g == t {
		return ClassExact
	}
	if strings.Contains(t, g) {
		return ClassPartial
	}
	return ClassMismatch
}

// Attributes classifies every attribute of guess against target, in hero.Attributes order.
func Attributes(guess, target hero.Hero) []AttributeResult {
	out := make([]AttributeResult, 0, len(hero.Attributes))
	for _, name := range hero.Attributes {
		g := guess.Attr(name)
		v := g
		if v == "" {
			v = NotAvailable
		}
		out = append(out, AttributeResult{Name: name, Value: v, Class: Classify(g, target.Attr(name))})
	}
	return out
}
