package card

// Matrix is the 8x15 grid shared by the card model and the wire codec.
// Rows 1-4 and columns 0-14 are card cells (spec §3, §6); row 0 and rows
// 5-7 carry protocol metadata the wire package fills in separately.
type Matrix [8][15]int32

// JokerRow and JokerCol pin the Joker's reserved cell, per §4.1: "row 1,
// column 14, by convention of this protocol version."
const (
	JokerRow = 1
	JokerCol = 14
)

// Cell returns the (row, col) coordinate a card occupies in the matrix.
func Cell(c Card) (row, col int) {
	if c.Joker {
		return JokerRow, JokerCol
	}
	return int(c.Suit) + 1, c.Rank.Index()
}

// FromMatrix reads every cell whose value is non-zero (matching or
// exceeding threshold) and returns the corresponding cards. threshold is
// 1 for "present in hand/field" or 2 for "marked as the chosen play";
// passing 1 returns the union of both, since a 2 implies presence too.
func FromMatrix(m *Matrix, threshold int32) []Card {
	var out []Card
	for _, s := range AllSuits {
		row := int(s) + 1
		for col := 0; col < NumRanks; col++ {
			if m[row][col] >= threshold {
				out = append(out, NewCard(s, Rank(col)))
			}
		}
	}
	if m[JokerRow][JokerCol] >= threshold {
		out = append(out, JokerCard)
	}
	return out
}

// FillCards stamps value into m's cells for each card in cards, leaving
// the rest of the matrix untouched. Used to lay a hand (value 1) or a
// field (value 1) into a fresh or partially built matrix.
func FillCards(m *Matrix, cards []Card, value int32) {
	for _, c := range cards {
		row, col := Cell(c)
		m[row][col] = value
	}
}

// MarkPlay overlays a chosen play onto an already-filled hand matrix,
// setting each played card's cell to 2 per §4.1's "value is ... 2 when
// it is the player's proposed play marked against their hand."
func MarkPlay(m *Matrix, play []Card) {
	FillCards(m, play, 2)
}
