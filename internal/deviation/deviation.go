// Package deviation implements the count-conditioned strategy deviation
// overlay of spec.md §4.3: a list of index-play rules that override the
// basic-strategy action when their preconditions and count condition
// match, applied last-match-wins.
package deviation

import (
	"math"

	"github.com/lox/bjsim/internal/card"
	"github.com/lox/bjsim/internal/hand"
	"github.com/lox/bjsim/internal/rules"
	"github.com/lox/bjsim/internal/strategy"
)

// Category gates a rule to the dealer's soft-17 behavior, or to both.
type Category int

const (
	All Category = iota
	Hit17
	Stand17
)

// Condition is a closed sum type over the four count conditions spec.md
// §3 defines for a deviation rule.
type Condition struct {
	kind conditionKind
	k    int
}

type conditionKind int

const (
	trueCountAtLeast conditionKind = iota
	trueCountAtMost
	runningPositive
	runningNegative
)

func TrueCountAtLeast(k int) Condition { return Condition{kind: trueCountAtLeast, k: k} }
func TrueCountAtMost(k int) Condition  { return Condition{kind: trueCountAtMost, k: k} }
func RunningPositive() Condition       { return Condition{kind: runningPositive} }
func RunningNegative() Condition       { return Condition{kind: runningNegative} }

// matches evaluates the condition against a running count and a true
// count that has already been floored to an integer, per spec.md §4.3's
// "the floor on true count is essential" note.
func (c Condition) matches(runningCount int, flooredTrueCount int) bool {
	switch c.kind {
	case trueCountAtLeast:
		return flooredTrueCount >= c.k
	case trueCountAtMost:
		return flooredTrueCount <= c.k
	case runningPositive:
		return runningCount > 0
	case runningNegative:
		return runningCount < 0
	default:
		return false
	}
}

// Rule is one count-conditioned index play.
type Rule struct {
	Category    Category
	PlayerTotal int
	IsSoft      bool
	PairRank    *card.Rank
	DealerValue int
	Action      strategy.Action
	Count       Condition
	Enabled     bool
}

// Set is an ordered list of deviation rules; order matters because
// Apply is last-match-wins among the rules that match.
type Set []Rule

// Apply overlays the enabled, matching deviation rules onto base,
// iterating in input order and letting the last match win, per spec.md
// §4.3. runningCount and trueCount are the shoe's current counts at the
// moment of the decision.
func Apply(base strategy.Action, h *hand.Hand, dealerUp card.Card, runningCount int, trueCount float64, r rules.Rules, active Set) strategy.Action {
	action := base
	flooredTC := int(math.Floor(trueCount))

	for _, rule := range active {
		if !rule.Enabled {
			continue
		}
		if matchesRule(rule, h, dealerUp, r) && rule.Count.matches(runningCount, flooredTC) {
			action = rule.Action
		}
	}
	return action
}

func matchesRule(rule Rule, h *hand.Hand, dealerUp card.Card, r rules.Rules) bool {
	switch rule.Category {
	case Hit17:
		if !r.DealerHitsSoft17 {
			return false
		}
	case Stand17:
		if r.DealerHitsSoft17 {
			return false
		}
	}

	if h.BestValue() != rule.PlayerTotal {
		return false
	}
	if h.IsSoft() != rule.IsSoft {
		return false
	}
	if rule.PairRank != nil {
		pr, ok := h.PairRank()
		if !ok || pr != *rule.PairRank {
			return false
		}
	}
	if dealerUp.Value() != rule.DealerValue {
		return false
	}

	switch rule.Action {
	case strategy.Split:
		if !h.CanSplit() {
			return false
		}
	case strategy.Double:
		if len(h.Cards) != 2 {
			return false
		}
	case strategy.Surrender:
		if len(h.Cards) != 2 || !r.SurrenderAllowed {
			return false
		}
	}

	return true
}
