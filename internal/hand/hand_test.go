package hand

import (
	"testing"

	"github.com/lox/bjsim/internal/card"
	"github.com/stretchr/testify/assert"
)

func TestBestValueHardTotal(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.Ten))
	h.Add(card.New(card.Hearts, card.Seven))
	assert.Equal(t, 17, h.BestValue())
	assert.False(t, h.IsSoft())
}

func TestBestValueSoftTotal(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.Ace))
	h.Add(card.New(card.Hearts, card.Six))
	assert.Equal(t, 17, h.BestValue())
	assert.True(t, h.IsSoft())
}

func TestSoftTotalDemotesOnBust(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.Ace))
	h.Add(card.New(card.Hearts, card.Six))
	h.Add(card.New(card.Clubs, card.Nine))
	assert.Equal(t, 16, h.BestValue())
	assert.False(t, h.IsSoft())
	assert.False(t, h.IsBusted())
}

func TestMultipleAces(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.Ace))
	h.Add(card.New(card.Hearts, card.Ace))
	h.Add(card.New(card.Clubs, card.Nine))
	assert.Equal(t, 21, h.BestValue())
	assert.True(t, h.IsSoft())
}

func TestIsBlackjack(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.Ace))
	h.Add(card.New(card.Hearts, card.King))
	assert.True(t, h.IsBlackjack())

	h.Add(card.New(card.Clubs, card.Two))
	assert.False(t, h.IsBlackjack(), "three-card 21 is not a natural")
}

func TestIsBusted(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.King))
	h.Add(card.New(card.Hearts, card.Queen))
	h.Add(card.New(card.Clubs, card.Two))
	assert.True(t, h.IsBusted())
}

func TestCanSplit(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.Eight))
	h.Add(card.New(card.Hearts, card.Eight))
	assert.True(t, h.CanSplit())

	rank, ok := h.PairRank()
	assert.True(t, ok)
	assert.Equal(t, card.Eight, rank)
}

func TestCanSplitFalseAfterThirdCard(t *testing.T) {
	h := New()
	h.Add(card.New(card.Spades, card.Eight))
	h.Add(card.New(card.Hearts, card.Eight))
	h.Add(card.New(card.Clubs, card.Two))
	assert.False(t, h.CanSplit())
}
