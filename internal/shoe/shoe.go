// Package shoe implements the multi-deck shoe of spec.md §4.1: shuffle,
// draw, running count, and cut-card/penetration bookkeeping. The shuffle
// algorithm is adapted from the teacher's internal/deck.Deck.Shuffle; the
// seeded RNG construction is adapted from internal/randutil.
package shoe

import (
	"math/rand/v2"

	"github.com/lox/bjsim/internal/card"
)

// Shoe is a multi-deck shoe with an attached Hi-Lo running count and
// cut-card latch.
type Shoe struct {
	decks       int
	penetration float64
	rng         *rand.Rand

	cards          []card.Card
	runningCount   int
	cutCardReached bool
}

// New creates a shoe of decks*52 cards using rng for shuffling, then
// performs the initial shuffle.
func New(decks int, penetration float64, rng *rand.Rand) *Shoe {
	s := &Shoe{
		decks:       decks,
		penetration: penetration,
		rng:         rng,
	}
	s.Reshuffle()
	return s
}

// size is the full shoe size in cards.
func (s *Shoe) size() int {
	return s.decks * 52
}

// Reshuffle refills the shoe with decks*52 cards, shuffles them
// uniformly at random, and resets the running count and cut-card latch.
func (s *Shoe) Reshuffle() {
	s.cards = s.cards[:0]
	if cap(s.cards) < s.size() {
		s.cards = make([]card.Card, 0, s.size())
	}
	for d := 0; d < s.decks; d++ {
		for suit := card.Spades; suit <= card.Clubs; suit++ {
			for rank := card.Ace; rank <= card.King; rank++ {
				s.cards = append(s.cards, card.New(suit, rank))
			}
		}
	}

	// Fisher-Yates shuffle, adapted from the teacher's deck.Shuffle.
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}

	s.runningCount = 0
	s.cutCardReached = false
}

// belowPenetrationCutoff reports whether the remaining fraction of the
// shoe has fallen below 1 - penetration.
func (s *Shoe) belowPenetrationCutoff() bool {
	if s.size() == 0 {
		return true
	}
	remainingFraction := float64(len(s.cards)) / float64(s.size())
	return remainingFraction < 1-s.penetration
}

// PrepareForNewHand reshuffles if the cut card has been reached or the
// shoe is already below the penetration cutoff. It must be called once
// before dealing each round.
func (s *Shoe) PrepareForNewHand() {
	if s.cutCardReached || s.belowPenetrationCutoff() {
		s.Reshuffle()
	}
}

// DrawCard removes and returns one card from the shoe, updates the
// running count, and latches cutCardReached once the remaining fraction
// falls below the penetration cutoff. If the shoe is empty it reshuffles
// first; under correct penetration this should not occur mid-hand.
func (s *Shoe) DrawCard() card.Card {
	if len(s.cards) == 0 {
		s.Reshuffle()
	}

	last := len(s.cards) - 1
	c := s.cards[last]
	s.cards = s.cards[:last]

	s.runningCount += c.HiLoTag()
	if s.belowPenetrationCutoff() {
		s.cutCardReached = true
	}

	return c
}

// RunningCount is the signed sum of Hi-Lo tags drawn since the last
// shuffle.
func (s *Shoe) RunningCount() int {
	return s.runningCount
}

// TrueCount is the running count divided by decks remaining (remaining
// cards / 52); 0 when the shoe is empty.
func (s *Shoe) TrueCount() float64 {
	if len(s.cards) == 0 {
		return 0
	}
	decksRemaining := float64(len(s.cards)) / 52.0
	return float64(s.runningCount) / decksRemaining
}

// CutCardReached reports whether the cut card has been latched since the
// last shuffle.
func (s *Shoe) CutCardReached() bool {
	return s.cutCardReached
}

// Remaining is the number of undealt cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}
