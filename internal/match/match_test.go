package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uecda-go/daihinmin/internal/card"
	"github.com/uecda-go/daihinmin/internal/rules"
	"github.com/uecda-go/daihinmin/internal/shape"
)

func TestDealDistributesEleven53Cards(t *testing.T) {
	hands := Deal(1)
	total := 0
	seen := card.NewSet()
	for seat, h := range hands {
		total += h.Len()
		for _, c := range h.Slice() {
			assert.False(t, seen.Has(c), "card %v dealt to more than one seat", c)
			seen.Add(c)
		}
		if seat < 3 {
			assert.Equal(t, 11, h.Len(), "seat %d", seat)
		} else {
			assert.Equal(t, 10, h.Len(), "seat %d", seat)
		}
	}
	assert.Equal(t, 53, total)
	assert.Equal(t, 53, seen.Len())
}

func TestDealIsDeterministicForSeed(t *testing.T) {
	a := Deal(99)
	b := Deal(99)
	for seat := range a {
		assert.ElementsMatch(t, a[seat].Slice(), b[seat].Slice())
	}
}

func TestFirstLeadSeatHoldsSpadeThree(t *testing.T) {
	hands := Deal(5)
	leader := FirstLeadSeat(hands)
	assert.True(t, hands[leader].Has(card.NewCard(card.Spade, card.Three)))
}

func TestExchangeDaifugoAndDaihinminSwapTwoWeakest(t *testing.T) {
	session := NewSessionState(5)
	hands := [NumSeats]*card.Set{
		card.NewSet(must(t, "S2", "Jo", "S3", "H4")...),
		card.NewSet(must(t, "H5", "H6")...),
		card.NewSet(must(t, "D5", "D6")...),
		card.NewSet(must(t, "C5", "C6")...),
		card.NewSet(must(t, "H3", "D4", "C7")...),
	}

	results := Exchange(session, hands)
	require.Len(t, results, 4)

	// Daifugo (seat 0) gives up its 2 weakest non-Joker non-Two cards: S3, H4.
	assert.False(t, hands[0].Has(card.NewCard(card.Spade, card.Three)))
	assert.False(t, hands[0].Has(card.NewCard(card.Heart, card.Four)))
	assert.True(t, hands[0].Has(card.NewCard(card.Spade, card.Two)))
	assert.True(t, hands[0].Has(card.JokerCard))

	// and gains the daihinmin's (seat 4) 2 weakest: H3, D4.
	assert.True(t, hands[0].Has(card.NewCard(card.Heart, card.Three)))
	assert.True(t, hands[0].Has(card.NewCard(card.Diamond, card.Four)))

	assert.True(t, hands[4].Has(card.NewCard(card.Spade, card.Three)))
	assert.True(t, hands[4].Has(card.NewCard(card.Heart, card.Four)))
}

func TestWeakestCardsExcludesJokerAndTwo(t *testing.T) {
	hand := card.NewSet(must(t, "S2", "Jo", "C3")...)
	weakest := weakestCards(hand, 2)
	require.Len(t, weakest, 1)
	assert.Equal(t, card.NewCard(card.Club, card.Three), weakest[0])
}

func TestWeakestCardsTieBreaksBySuit(t *testing.T) {
	hand := card.NewSet(must(t, "S5", "C5", "H5")...)
	weakest := weakestCards(hand, 1)
	require.Len(t, weakest, 1)
	assert.Equal(t, card.NewCard(card.Club, card.Five), weakest[0])
}

func must(t *testing.T, syms ...string) []card.Card {
	t.Helper()
	out := make([]card.Card, len(syms))
	for i, s := range syms {
		c, err := card.Parse(s)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func TestPlayAppliesLegalPlayAndTracksFinish(t *testing.T) {
	m := NewMatchState()
	m.Hands[0] = card.NewSet(must(t, "S5")...)
	for i := 1; i < NumSeats; i++ {
		m.Hands[i] = card.NewSet(must(t, "H9")...)
	}

	result := m.Play(rules.Field{}, 0, must(t, "S5"), rules.DefaultConfig())
	require.NoError(t, result.InvalidPlay)
	assert.False(t, result.Forced)
	assert.True(t, m.Finished[0])
	assert.Equal(t, []int{0}, m.FinishOrder)
}

func TestPlayForcesPassOnIllegalFollow(t *testing.T) {
	m := NewMatchState()
	m.Hands[1] = card.NewSet(must(t, "S3")...)
	field := rules.Field{HasLastPlay: true, LastPlay: shape.Shape{Family: shape.Single, Size: 1, Rank: card.Ten.Index()}}

	result := m.Play(field, 1, must(t, "S3"), rules.DefaultConfig())
	assert.Error(t, result.InvalidPlay)
	assert.True(t, result.Forced)
	assert.Equal(t, 1, result.Field.ConsecutivePassTotal) // pass recorded on top of a had-last-play field
}

func TestPlayForcesWeakestCardWhenLeadingIllegally(t *testing.T) {
	m := NewMatchState()
	m.Hands[2] = card.NewSet(must(t, "S3", "H4")...)

	result := m.Play(rules.Field{}, 2, nil, rules.DefaultConfig())
	// leading with an empty play is illegal (ErrMustLead); forced fallback
	// must be a real single card, not a pass.
	assert.Error(t, result.InvalidPlay)
	assert.True(t, result.Forced)
	assert.NotEqual(t, 0, result.Shape.Size)
}

func TestAdvanceSeatSkipsFinishedHands(t *testing.T) {
	m := NewMatchState()
	m.Finished[1] = true
	m.Finished[2] = true
	next, _ := m.AdvanceSeat(rules.Field{}, rules.Effects{}, 0)
	assert.Equal(t, 3, next)
}

func TestAdvanceSeatClearsOnWraparound(t *testing.T) {
	m := NewMatchState()
	field := rules.Field{HasLastPlay: true, LastPlayer: 2}
	next, newField := m.AdvanceSeat(field, rules.Effects{}, 1)
	assert.Equal(t, 2, next)
	assert.False(t, newField.HasLastPlay)
}

func TestAdvanceSeatHonorsFiveSkip(t *testing.T) {
	m := NewMatchState()
	next, _ := m.AdvanceSeat(rules.Field{}, rules.Effects{FiveSkipCount: 1}, 0)
	assert.Equal(t, 2, next)
}

func TestAdvanceSeatUsesEffectLeaderOnClear(t *testing.T) {
	m := NewMatchState()
	eff := rules.Effects{FieldCleared: true, Leader: 3}
	next, newField := m.AdvanceSeat(rules.Field{}, eff, 0)
	assert.Equal(t, 3, next)
	assert.False(t, newField.HasLastPlay)
}

func TestIsOverAndFinalize(t *testing.T) {
	m := NewMatchState()
	for i := 0; i < NumSeats; i++ {
		m.Hands[i] = card.NewSet()
	}
	m.Finished = [NumSeats]bool{true, true, true, true, false}
	m.FinishOrder = []int{0, 2, 1, 3}
	require.True(t, m.IsOver())
	assert.Equal(t, [NumSeats]int{0, 2, 1, 3, 4}, m.Finalize())
}

func TestFinalizeGameUpdatesSessionClassesAndPoints(t *testing.T) {
	session := NewSessionState(3)
	m := NewMatchState()
	m.FinishOrder = []int{4, 3, 2, 1}
	m.Finished = [NumSeats]bool{false, true, true, true, true}

	order := FinalizeGame(session, m)
	assert.Equal(t, [NumSeats]int{4, 3, 2, 1, 0}, order)
	assert.Equal(t, Daifugo, session.SeatClasses[4])
	assert.Equal(t, Daihinmin, session.SeatClasses[0])
	assert.Equal(t, 5, session.CumulativePoints[4])
	assert.Equal(t, 1, session.CumulativePoints[0])
	assert.Equal(t, 1, session.GamesPlayed)
}

func TestFinalRankingBreaksTiesBySeat(t *testing.T) {
	session := NewSessionState(0)
	ranking := session.FinalRanking()
	require.Len(t, ranking, NumSeats)
	for i := 0; i < NumSeats; i++ {
		assert.Equal(t, i, ranking[i].Seat)
	}
}
