// Package hand implements the blackjack Hand type: an ordered sequence of
// cards plus the split-lineage flags, with totals derived the way the
// spec's §3 Hand section defines them.
package hand

import (
	"strings"

	"github.com/lox/bjsim/internal/card"
)

// Hand is an ordered list of cards dealt to one player or dealer position,
// plus the two split-lineage flags carried through recursive splitting.
type Hand struct {
	Cards []card.Card

	// FromSplit is true for any hand descended from a split; it
	// suppresses the natural-blackjack bonus on a post-split 21.
	FromSplit bool

	// IsSplitAce is true for a hand created by splitting a pair of
	// aces; such hands receive exactly one further card and can never
	// be treated as a natural.
	IsSplitAce bool
}

// New creates an empty hand.
func New() *Hand {
	return &Hand{Cards: make([]card.Card, 0, 2)}
}

// Add appends a card to the hand.
func (h *Hand) Add(c card.Card) {
	h.Cards = append(h.Cards, c)
}

// totals returns both possible totals: aces counted minimally (all as 1)
// and aces counted maximally (all as 11), capped by how many aces can be
// promoted to 11 without busting.
func (h *Hand) totals() (minTotal, maxTotal int) {
	aces := 0
	for _, c := range h.Cards {
		if c.IsAce() {
			aces++
			minTotal += 1
		} else {
			minTotal += c.Value()
		}
	}
	maxTotal = minTotal
	for i := 0; i < aces; i++ {
		if maxTotal+10 <= 21 {
			maxTotal += 10
		}
	}
	return minTotal, maxTotal
}

// BestValue is the largest total not exceeding 21, treating each ace as 1
// or 11; if every interpretation busts, it is the minimum (all-aces-low)
// total.
func (h *Hand) BestValue() int {
	minTotal, maxTotal := h.totals()
	if maxTotal <= 21 {
		return maxTotal
	}
	return minTotal
}

// IsSoft reports whether the best total still counts an ace as 11.
func (h *Hand) IsSoft() bool {
	minTotal, maxTotal := h.totals()
	return maxTotal <= 21 && maxTotal != minTotal
}

// IsBlackjack reports a two-card natural 21.
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.BestValue() == 21
}

// IsBusted reports that even the all-aces-low total exceeds 21.
func (h *Hand) IsBusted() bool {
	minTotal, _ := h.totals()
	return minTotal > 21
}

// CanSplit reports a two-card hand of equal rank.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// PairRank returns the rank of the pair and true, if the hand is
// splittable.
func (h *Hand) PairRank() (card.Rank, bool) {
	if !h.CanSplit() {
		return 0, false
	}
	return h.Cards[0].Rank, true
}

// String renders the hand as a space-joined list of card strings, e.g.
// "A♠ T♥", for debug records and logs.
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
