package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uecda-go/daihinmin/internal/card"
)

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

func TestClassifyTotality(t *testing.T) {
	// Every one of these inputs must land in exactly one known family.
	cases := [][]string{
		{},
		{"Jo"},
		{"S3"},
		{"S3", "H3"},
		{"S3", "H3", "D3"},
		{"S3", "H3", "D3", "C3"},
		{"S3", "S4", "S5"},
		{"S3", "S4", "S5", "S6", "S7", "S8", "S9", "S10", "SJ", "SQ", "SK", "SA", "S2"},
		{"S3", "H4"}, // invalid: different suits, different ranks, size 2
		{"S3", "H4", "D5"},
	}
	for _, syms := range cases {
		cards := must(t, syms...)
		s := Classify(cards)
		assert.Contains(t, []Family{Pass, Single, JokerSingle, Group, Sequence, Invalid}, s.Family)
	}
}

func TestClassifyPass(t *testing.T) {
	assert.Equal(t, Pass, Classify(nil).Family)
}

func TestClassifyJokerSingle(t *testing.T) {
	s := Classify(must(t, "Jo"))
	assert.Equal(t, JokerSingle, s.Family)
	assert.Equal(t, 1, s.Size)
}

func TestClassifySingle(t *testing.T) {
	s := Classify(must(t, "H10"))
	assert.Equal(t, Single, s.Family)
	assert.Equal(t, card.Ten.Index(), s.Rank)
}

func TestClassifyGroupWithJoker(t *testing.T) {
	s := Classify(must(t, "S5", "H5", "Jo"))
	assert.Equal(t, Group, s.Family)
	assert.Equal(t, 3, s.Size)
	assert.Equal(t, card.Five.Index(), s.Rank)
	assert.True(t, s.JokerUsed)
}

func TestClassifyGroupTooLarge(t *testing.T) {
	// 5-of-a-kind is impossible (max 4 suits) but guard the classifier anyway.
	s := Classify(must(t, "S5", "H5", "D5", "C5", "Jo"))
	assert.Equal(t, Invalid, s.Family)
}

func TestClassifySequenceNoJoker(t *testing.T) {
	s := Classify(must(t, "S5", "S6", "S7"))
	assert.Equal(t, Sequence, s.Family)
	assert.Equal(t, card.Seven.Index(), s.Rank)
	assert.Equal(t, card.Five.Index(), s.LowRank)
	assert.False(t, s.JokerUsed)
}

func TestClassifySequenceJokerFillsGap(t *testing.T) {
	// Jo,H5,H7 -> Joker fills Six, per spec §9's worked example.
	s := Classify(must(t, "Jo", "H5", "H7"))
	require.Equal(t, Sequence, s.Family)
	assert.Equal(t, card.Five.Index(), s.LowRank)
	assert.Equal(t, card.Seven.Index(), s.Rank)
	assert.True(t, s.JokerUsed)
}

func TestClassifySequenceJokerExtendsLowEnd(t *testing.T) {
	// Jo,H5,H6: contiguous already, Joker could extend to 4..6 or 5..7;
	// tie-break picks the lower rank (extends to Four).
	s := Classify(must(t, "Jo", "H5", "H6"))
	require.Equal(t, Sequence, s.Family)
	assert.Equal(t, card.Four.Index(), s.LowRank)
	assert.Equal(t, card.Six.Index(), s.Rank)
}

func TestClassifySequenceJokerExtendsHighWhenLowBlocked(t *testing.T) {
	// Jo,S3,S4: can't extend below Three, so Joker extends to Five.
	s := Classify(must(t, "Jo", "S3", "S4"))
	require.Equal(t, Sequence, s.Family)
	assert.Equal(t, card.Three.Index(), s.LowRank)
	assert.Equal(t, card.Five.Index(), s.Rank)
}

func TestClassifyInvalidMixedSuitSequence(t *testing.T) {
	s := Classify(must(t, "S5", "H6", "S7"))
	assert.Equal(t, Invalid, s.Family)
}

func TestClassifyInvalidDuplicateRankSequence(t *testing.T) {
	s := Classify(must(t, "S5", "H5", "S6"))
	assert.Equal(t, Invalid, s.Family)
}

func TestKeyRevolutionInverts(t *testing.T) {
	low := Shape{Rank: card.Three.Index()}
	high := Shape{Rank: card.Two.Index()}
	assert.Greater(t, high.Key(Normal), low.Key(Normal))
	assert.Greater(t, low.Key(Revolution), high.Key(Revolution))
}
