// Package strategy implements the pure basic-strategy advisor of spec.md
// §4.2: a function from (hand, dealer upcard, rules) to an Action, with
// no knowledge of the count or any deviation overlay.
package strategy

import (
	"github.com/lox/bjsim/internal/card"
	"github.com/lox/bjsim/internal/hand"
	"github.com/lox/bjsim/internal/rules"
)

// Action is one of the five blackjack decisions a hand can resolve to.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// BaseAction returns the basic-strategy action for h against dealerUp
// under r, applying the rule families of spec.md §4.2 in order: late
// surrender, pair splits, soft totals, hard totals. A Double downgrades
// to Hit when the hand came from a split and double-after-split is
// disabled.
func BaseAction(h *hand.Hand, dealerUp card.Card, r rules.Rules) Action {
	action := baseActionIgnoringDAS(h, dealerUp, r)
	if action == Double && h.FromSplit && !r.DoubleAfterSplit {
		return Hit
	}
	return action
}

func baseActionIgnoringDAS(h *hand.Hand, dealerUp card.Card, r rules.Rules) Action {
	dv := dealerUp.Value()
	total := h.BestValue()

	if r.SurrenderAllowed && len(h.Cards) == 2 {
		if total == 16 && (dv == 9 || dv == 10 || dv == 11) {
			return Surrender
		}
		if total == 15 && dv == 10 {
			return Surrender
		}
	}

	if h.CanSplit() {
		if a, ok := pairAction(h, dv); ok {
			return a
		}
	}

	if h.IsSoft() {
		return softAction(total, dv)
	}

	return hardAction(total, dv)
}

// pairAction covers spec.md §4.2.2's pair-split table. It returns
// (action, true) when the pair rule decides the hand outright, or
// (_, false) when the pair should fall through to the hard/soft tables
// (fives, which delegate to hard-10).
func pairAction(h *hand.Hand, dv int) (Action, bool) {
	rank, _ := h.PairRank()
	switch rank {
	case card.Ace:
		return Split, true
	case card.Eight:
		return Split, true
	case card.Ten, card.Jack, card.Queen, card.King:
		return Stand, true
	case card.Nine:
		if dv == 2 || dv == 3 || dv == 4 || dv == 5 || dv == 6 || dv == 8 || dv == 9 {
			return Split, true
		}
		return Stand, true
	case card.Seven, card.Three, card.Two:
		if dv <= 7 {
			return Split, true
		}
		return Hit, true
	case card.Six:
		if dv <= 6 {
			return Split, true
		}
		return Hit, true
	case card.Four:
		if dv == 5 || dv == 6 {
			return Split, true
		}
		return Hit, true
	case card.Five:
		return Action(0), false
	default:
		return Action(0), false
	}
}

// softAction covers spec.md §4.2.3's soft-total table.
func softAction(total, dv int) Action {
	switch total {
	case 13, 14:
		if dv >= 5 && dv <= 6 {
			return Double
		}
		return Hit
	case 15, 16:
		if dv >= 4 && dv <= 6 {
			return Double
		}
		return Hit
	case 17:
		if dv >= 3 && dv <= 6 {
			return Double
		}
		return Hit
	case 18:
		if dv >= 2 && dv <= 6 {
			return Double
		}
		if dv == 7 || dv == 8 {
			return Stand
		}
		return Hit
	case 19:
		if dv == 6 {
			return Double
		}
		return Stand
	default: // 20+
		return Stand
	}
}

// hardAction covers spec.md §4.2.4's hard-total table.
func hardAction(total, dv int) Action {
	switch {
	case total <= 8:
		return Hit
	case total == 9:
		if dv >= 3 && dv <= 6 {
			return Double
		}
		return Hit
	case total == 10:
		if dv >= 2 && dv <= 9 {
			return Double
		}
		return Hit
	case total == 11:
		if dv == 11 {
			return Hit
		}
		return Double
	case total == 12:
		if dv >= 4 && dv <= 6 {
			return Stand
		}
		return Hit
	case total >= 13 && total <= 16:
		if dv >= 2 && dv <= 6 {
			return Stand
		}
		return Hit
	default: // 17+
		return Stand
	}
}
