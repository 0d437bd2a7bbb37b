package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellJoker(t *testing.T) {
	row, col := Cell(JokerCard)
	assert.Equal(t, JokerRow, row)
	assert.Equal(t, JokerCol, col)
}

func TestCellSuitedCard(t *testing.T) {
	row, col := Cell(NewCard(Club, Two))
	assert.Equal(t, int(Club)+1, row)
	assert.Equal(t, Two.Index(), col)
}

func TestMatrixRoundTrip(t *testing.T) {
	hand := []Card{
		NewCard(Spade, Three),
		NewCard(Heart, King),
		JokerCard,
	}
	var m Matrix
	FillCards(&m, hand, 1)

	got := FromMatrix(&m, 1)
	require.Len(t, got, 3)
	gotSet := NewSet(got...)
	for _, c := range hand {
		assert.True(t, gotSet.Has(c))
	}
}

func TestMarkPlayOverlay(t *testing.T) {
	hand := []Card{NewCard(Spade, Three), NewCard(Spade, Four), NewCard(Heart, Five)}
	var m Matrix
	FillCards(&m, hand, 1)

	play := []Card{NewCard(Spade, Three)}
	MarkPlay(&m, play)

	row, col := Cell(NewCard(Spade, Three))
	assert.Equal(t, int32(2), m[row][col])

	// unplayed hand cards remain at 1
	row2, col2 := Cell(NewCard(Spade, Four))
	assert.Equal(t, int32(1), m[row2][col2])

	// threshold 2 extracts only the marked play
	onlyPlay := FromMatrix(&m, 2)
	require.Len(t, onlyPlay, 1)
	assert.Equal(t, NewCard(Spade, Three), onlyPlay[0])

	// threshold 1 extracts the whole hand (play included)
	wholeHand := FromMatrix(&m, 1)
	assert.Len(t, wholeHand, 3)
}
