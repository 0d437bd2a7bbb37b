package wire

import "github.com/uecda-go/daihinmin/internal/card"

// ProtocolVersion is the only value a handshake accepts (spec §4.5, §7):
// a named constant rather than a magic number, so a future protocol
// revision touches one line (SPEC_FULL.md item 2).
const ProtocolVersion = 20070

// Row 0 column assignments (spec §6).
const (
	ColVersionOrTurn = 0
	ColActiveSeat    = 1
	ColYourTurn      = 2
	ColStartOfTrick  = 3
	ColRevolution    = 4
	ColElevenBack    = 5
	ColEightCut      = 6
	ColSuitLockOn    = 7
	// ColSuitLockMask0..3 are columns 8-11, one per suit in card.AllSuits order.
	ColSuitLockMask0 = 8
	ColGameNumber    = 12
	ColTotalGames    = 13
	ColEndOfSession  = 14
)

// Rows 5-7 carry per-seat metadata in columns 0-4 (spec §6); the
// remaining columns 5-14 in those rows are unused by the reference
// layout and are claimed here for the connect handshake's name echo
// (spec §4.5: "the client echoes its name in a reserved region" without
// pinning cells; this implementation reserves 30 ASCII bytes across
// rows 5-7, one character per cell, 0-terminated).
const (
	RowFinished = 5
	RowClass    = 6
	RowPoints   = 7

	NameRegionStartCol = 5
	NameRegionColsLen  = 10 // 10 cols per row * 3 rows (5,6,7) = 30 chars
)

// CardRow returns the matrix row for suit s, matching card.Cell.
func CardRow(s card.Suit) int { return int(s) + 1 }

// EncodeName writes name (truncated to 30 ASCII bytes) into the reserved
// handshake region.
func EncodeName(m *card.Matrix, name string) {
	if len(name) > 30 {
		name = name[:30]
	}
	for i, ch := range []byte(name) {
		row := RowFinished + i/NameRegionColsLen
		col := NameRegionStartCol + i%NameRegionColsLen
		m[row][col] = int32(ch)
	}
}

// DecodeName reads the handshake name region back into a string.
func DecodeName(m *card.Matrix) string {
	var b []byte
	for i := 0; i < 30; i++ {
		row := RowFinished + i/NameRegionColsLen
		col := NameRegionStartCol + i%NameRegionColsLen
		v := m[row][col]
		if v == 0 {
			break
		}
		b = append(b, byte(v))
	}
	return string(b)
}

// FieldState mirrors the subset of rules.Field the wire layer needs to
// render, kept separate from the rules package to avoid a dependency
// cycle (rules has no notion of the wire).
type FieldState struct {
	Cards            []card.Card
	RevolutionActive bool
	ElevenBackActive bool
	EightCutLastPlay bool
	SuitLockActive   bool
	SuitLockSuits    []card.Suit
	GameNumber       int
	TotalGames       int
	EndOfSession     bool
	PerSeatFinished  [5]bool
	PerSeatClass     [5]int
	PerSeatPoints    [5]int
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// BuildMetadata fills row 0 and rows 5-7 of m from fs. Callers fill rows
// 1-4 separately (hand vs field cards differ by message kind, and both
// can't share one cell value in the same matrix).
func BuildMetadata(m *card.Matrix, fs FieldState) {
	m[0][ColRevolution] = boolInt(fs.RevolutionActive)
	m[0][ColElevenBack] = boolInt(fs.ElevenBackActive)
	m[0][ColEightCut] = boolInt(fs.EightCutLastPlay)
	m[0][ColSuitLockOn] = boolInt(fs.SuitLockActive)
	for i, s := range card.AllSuits {
		locked := false
		for _, ls := range fs.SuitLockSuits {
			if ls == s {
				locked = true
				break
			}
		}
		m[0][ColSuitLockMask0+i] = boolInt(locked)
	}
	m[0][ColGameNumber] = int32(fs.GameNumber)
	m[0][ColTotalGames] = int32(fs.TotalGames)
	m[0][ColEndOfSession] = boolInt(fs.EndOfSession)

	for seat := 0; seat < 5; seat++ {
		m[RowFinished][seat] = boolInt(fs.PerSeatFinished[seat])
		m[RowClass][seat] = int32(fs.PerSeatClass[seat])
		m[RowPoints][seat] = int32(fs.PerSeatPoints[seat])
	}
}

// BuildQuery builds the per-turn query matrix addressed to seat
// (spec §6): turn number, active seat, your_turn/start_of_trick flags,
// the field's metadata, and the recipient's own hand.
func BuildQuery(turn, activeSeat int, isStartOfTrick bool, fs FieldState, hand []card.Card) card.Matrix {
	var m card.Matrix
	m[0][ColVersionOrTurn] = int32(turn)
	m[0][ColActiveSeat] = int32(activeSeat)
	m[0][ColYourTurn] = 1
	m[0][ColStartOfTrick] = boolInt(isStartOfTrick)
	BuildMetadata(&m, fs)
	card.FillCards(&m, hand, 1)
	return m
}

// BuildBroadcast builds the post-turn broadcast matrix (spec §6): same
// metadata as a query but your_turn is always 0 and rows 1-4 show the
// resulting field's last play, not any one seat's hand.
func BuildBroadcast(turn, activeSeat int, isStartOfTrick bool, fs FieldState) card.Matrix {
	var m card.Matrix
	m[0][ColVersionOrTurn] = int32(turn)
	m[0][ColActiveSeat] = int32(activeSeat)
	m[0][ColYourTurn] = 0
	m[0][ColStartOfTrick] = boolInt(isStartOfTrick)
	BuildMetadata(&m, fs)
	card.FillCards(&m, fs.Cards, 1)
	return m
}

// ParseResponse extracts the cards marked 2 (the chosen play) from a
// client's response matrix. An all-zero response (no cell marked 2)
// means pass, per spec §4.5.
func ParseResponse(m *card.Matrix) []card.Card {
	return card.FromMatrix(m, 2)
}
