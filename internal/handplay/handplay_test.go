package handplay

import (
	"testing"

	"github.com/lox/bjsim/internal/card"
	"github.com/lox/bjsim/internal/deviation"
	"github.com/lox/bjsim/internal/hand"
	"github.com/lox/bjsim/internal/randutil"
	"github.com/lox/bjsim/internal/rules"
	"github.com/lox/bjsim/internal/shoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoCard(r1, r2 card.Rank) *hand.Hand {
	h := hand.New()
	h.Add(card.New(card.Spades, r1))
	h.Add(card.New(card.Hearts, r2))
	return h
}

func TestSettlePlayerBustAlwaysLoses(t *testing.T) {
	h := hand.New()
	h.Add(card.New(card.Spades, card.Ten))
	h.Add(card.New(card.Hearts, card.Ten))
	h.Add(card.New(card.Clubs, card.Five))

	dealer := twoCard(card.Ten, card.Seven)
	assert.Equal(t, -10.0, Settle(h, dealer, 10, rules.Default()))
}

func TestSettleDealerBlackjackPushesPlayerBlackjack(t *testing.T) {
	player := twoCard(card.Ace, card.King)
	dealer := twoCard(card.Ace, card.King)
	assert.Equal(t, 0.0, Settle(player, dealer, 10, rules.Default()))
}

func TestSettleDealerBlackjackBeatsSplitBlackjack(t *testing.T) {
	player := twoCard(card.Ace, card.King)
	player.FromSplit = true
	dealer := twoCard(card.Ace, card.King)
	assert.Equal(t, -10.0, Settle(player, dealer, 10, rules.Default()))
}

func TestSettlePlayerBlackjackPaysPayout(t *testing.T) {
	player := twoCard(card.Ace, card.King)
	dealer := twoCard(card.Ten, card.Seven)
	r := rules.Default()
	assert.Equal(t, 10*r.BlackjackPayout, Settle(player, dealer, 10, r))
}

func TestSettleSplitBlackjackPaysEven(t *testing.T) {
	player := twoCard(card.Ace, card.King)
	player.FromSplit = true
	dealer := twoCard(card.Ten, card.Seven)
	assert.Equal(t, 10.0, Settle(player, dealer, 10, rules.Default()))
}

func TestSettleDealerBustPlayerWins(t *testing.T) {
	player := twoCard(card.Ten, card.Seven)
	dealer := hand.New()
	dealer.Add(card.New(card.Spades, card.Ten))
	dealer.Add(card.New(card.Hearts, card.Ten))
	dealer.Add(card.New(card.Clubs, card.Five))
	assert.Equal(t, 10.0, Settle(player, dealer, 10, rules.Default()))
}

func TestSettleHigherTotalWins(t *testing.T) {
	player := twoCard(card.Ten, card.Nine)
	dealer := twoCard(card.Ten, card.Seven)
	assert.Equal(t, 10.0, Settle(player, dealer, 10, rules.Default()))
}

func TestSettlePushOnEqualTotals(t *testing.T) {
	player := twoCard(card.Ten, card.Eight)
	dealer := twoCard(card.Nine, card.Nine)
	assert.Equal(t, 0.0, Settle(player, dealer, 10, rules.Default()))
}

func TestPlayDealerHitsBelowSeventeen(t *testing.T) {
	d := twoCard(card.Ten, card.Two)
	s := shoe.New(6, 0.9, randutil.New(1))
	PlayDealer(d, rules.Default(), s)
	assert.True(t, d.BestValue() >= 17 || d.IsBusted())
}

func TestPlayDealerStandsOnHardSeventeen(t *testing.T) {
	d := twoCard(card.Ten, card.Seven)
	s := shoe.New(6, 0.9, randutil.New(1))
	PlayDealer(d, rules.Default(), s)
	assert.Len(t, d.Cards, 2, "hard 17 must stand regardless of the soft-17 rule")
}

func TestPlayDealerHitsSoftSeventeenWhenRuleEnabled(t *testing.T) {
	d := twoCard(card.Ace, card.Six)
	r := rules.Default()
	r.DealerHitsSoft17 = true
	s := shoe.New(6, 0.9, randutil.New(1))
	PlayDealer(d, r, s)
	assert.Greater(t, len(d.Cards), 2, "soft 17 must draw when the rule says hit")
}

func TestPlayDealerStandsOnSoftSeventeenWhenRuleDisabled(t *testing.T) {
	d := twoCard(card.Ace, card.Six)
	r := rules.Default()
	r.DealerHitsSoft17 = false
	s := shoe.New(6, 0.9, randutil.New(1))
	PlayDealer(d, r, s)
	assert.Len(t, d.Cards, 2)
}

func TestPlayPushesOnDoubleBlackjackWithoutDrawingShoe(t *testing.T) {
	player := twoCard(card.Ace, card.King)
	dealer := twoCard(card.Ace, card.King)
	s := shoe.New(1, 0.9, randutil.New(1))
	before := s.Remaining()

	res := Play(player, dealer, 10, 0, 0, rules.Default(), deviation.Default(), s, true)
	assert.Equal(t, 0.0, res.Profit)
	assert.Equal(t, before, s.Remaining(), "a resolved dealer natural must not draw further cards")
}

func TestPlayDealerBlackjackBeatsPlayerNonBlackjack(t *testing.T) {
	player := twoCard(card.Ten, card.Nine)
	dealer := twoCard(card.Ace, card.King)
	s := shoe.New(1, 0.9, randutil.New(1))

	res := Play(player, dealer, 10, 0, 0, rules.Default(), deviation.Default(), s, false)
	assert.Equal(t, -10.0, res.Profit)
}

func TestPlayInsuranceWonOffsetsDealerBlackjackLoss(t *testing.T) {
	player := twoCard(card.Ten, card.Nine)
	dealer := twoCard(card.Ace, card.King)
	s := shoe.New(1, 0.9, randutil.New(1))

	res := Play(player, dealer, 10, 0, 3, rules.Default(), deviation.Default(), s, true)
	assert.True(t, res.InsuranceTaken)
	assert.True(t, res.InsuranceWon)
	// -10 on the main hand, +10 (2x the 5-unit insurance bet) on insurance nets to 0.
	assert.Equal(t, 0.0, res.Profit)
}

func TestPlayInsuranceDeclinedBelowTrueCountThreshold(t *testing.T) {
	player := twoCard(card.Ten, card.Nine)
	dealer := twoCard(card.Ace, card.King)
	s := shoe.New(1, 0.9, randutil.New(1))

	res := Play(player, dealer, 10, 0, 2.9, rules.Default(), deviation.Default(), s, true)
	assert.False(t, res.InsuranceTaken)
	assert.Equal(t, -10.0, res.Profit)
}

// Scenario 5 (spec.md §8): force a pair of aces vs a dealer 6; both halves
// must receive exactly one card, neither is treated as a natural, and
// settlement compares totals normally.
func TestPlaySplitAceDealsExactlyOneCardPerHalfAndNoNaturalBonus(t *testing.T) {
	h := twoCard(card.Ace, card.Ace)
	dealer := twoCard(card.Six, card.Nine) // 15, not a dealer natural
	s := shoe.New(6, 0.9, randutil.New(1))

	_, terminals := playPosition(h, dealer, 10, 0, 0, rules.Default(), nil, s, 0)

	require.Len(t, terminals, 2, "splitting aces must resolve to exactly two terminal hands")
	for _, term := range terminals {
		assert.True(t, term.Hand.IsSplitAce)
		assert.True(t, term.Hand.FromSplit)
		assert.Len(t, term.Hand.Cards, 2, "a split-ace half must receive exactly one additional card")
		if term.Hand.BestValue() == 21 {
			assert.NotEqual(t, 10*rules.Default().BlackjackPayout, term.Profit, "a split-ace 21 must not pay the natural bonus")
		}
	}
}

func TestPlayPositionStopsResplittingAtMaxDepth(t *testing.T) {
	h := twoCard(card.Eight, card.Eight)
	dealer := twoCard(card.Six, card.Nine)
	s := shoe.New(6, 0.9, randutil.New(7))

	_, terminals := playPosition(h, dealer, 10, 0, 0, rules.Default(), nil, s, maxSplitDepth)
	assert.Len(t, terminals, 1, "a hand at the depth cap must play out as a single hand, not split again")
}

func TestPlaySplitPanicsIfCalledPastMaxDepth(t *testing.T) {
	h := twoCard(card.Eight, card.Eight)
	dealer := twoCard(card.Six, card.Nine)
	s := shoe.New(6, 0.9, randutil.New(1))

	assert.Panics(t, func() {
		playSplit(h, dealer, 10, 0, 0, rules.Default(), nil, s, maxSplitDepth)
	}, "playSplit must refuse to run past the depth its only caller is supposed to guard")
}

func TestDealInitialCardsDealsPlayerThenDealer(t *testing.T) {
	s := shoe.New(6, 0.9, randutil.New(1))
	before := s.Remaining()

	player, dealer := DealInitialCards(s)
	assert.Len(t, player.Cards, 2)
	assert.Len(t, dealer.Cards, 2)
	assert.Equal(t, before-4, s.Remaining())
}
