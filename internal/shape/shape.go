// Package shape implements the Daihinmin play classifier (spec §4.2,
// component C2): given a set of cards, decide whether it is a legal
// shape and compute the key used to compare it against a field.
//
// Turns a set of cards into a ranked, comparable value: a play's
// family, size, and representative rank, the same shape of problem as
// scoring a poker hand into a category and kicker chain, just with a
// different rule table.
package shape

import (
	"sort"

	"github.com/uecda-go/daihinmin/internal/card"
)

// Family identifies which kind of play a card set forms.
type Family int

const (
	Pass Family = iota
	Single
	JokerSingle
	Group
	Sequence
	Invalid
)

func (f Family) String() string {
	switch f {
	case Pass:
		return "pass"
	case Single:
		return "single"
	case JokerSingle:
		return "joker_single"
	case Group:
		return "group"
	case Sequence:
		return "sequence"
	default:
		return "invalid"
	}
}

// Direction is the active rank comparison direction. Revolution inverts
// it; eleven-back inverts whatever is currently active on top of that
// (owned by the rule engine, not this package).
type Direction int

const (
	Normal Direction = iota
	Revolution
)

// Shape is the classifier's output: the play's family plus enough data
// to compute a comparison key and, for the rule engine, to check
// suit-lock and arm a new one.
type Shape struct {
	Family Family
	Size   int
	// Rank is the representative rank index (card.Rank.Index()) used for
	// comparison: the card's own rank for Single/Group, the top card's
	// rank for Sequence. Unused (-1) for Pass, JokerSingle, and Invalid.
	Rank int
	// LowRank is the bottom rank index of a Sequence; unused otherwise.
	LowRank int
	// Suits lists the suits of the play's non-Joker cards, used by the
	// rule engine for suit-lock checks and arming.
	Suits []card.Suit
	// JokerUsed is true when the Joker substitutes for a missing Group
	// or Sequence member.
	JokerUsed bool
	Cards     []card.Card
}

// Key returns the comparison key under the given direction: higher is
// stronger. Only meaningful for Single, Group, and Sequence of matching
// family and size; callers compare two Shapes' Key only after checking
// Family and Size agree (spec §4.3 predicate 2).
func (s Shape) Key(dir Direction) int {
	if dir == Revolution {
		return card.NumRanks - 1 - s.Rank
	}
	return s.Rank
}

// Classify decides the shape of a set of cards per spec §4.2's
// classification order.
func Classify(cards []card.Card) Shape {
	switch {
	case len(cards) == 0:
		return Shape{Family: Pass, Rank: -1}
	case len(cards) == 1 && cards[0].Joker:
		return Shape{Family: JokerSingle, Size: 1, Rank: -1, Cards: cards}
	case len(cards) == 1:
		c := cards[0]
		return Shape{Family: Single, Size: 1, Rank: c.Rank.Index(), Suits: []card.Suit{c.Suit}, Cards: cards}
	}

	nonJoker, jokerCount := splitJoker(cards)
	if jokerCount > 1 {
		return Shape{Family: Invalid, Rank: -1}
	}

	if g, ok := classifyGroup(cards, nonJoker, jokerCount); ok {
		return g
	}
	if sq, ok := classifySequence(cards, nonJoker, jokerCount); ok {
		return sq
	}
	return Shape{Family: Invalid, Rank: -1}
}

func splitJoker(cards []card.Card) (nonJoker []card.Card, jokerCount int) {
	for _, c := range cards {
		if c.Joker {
			jokerCount++
			continue
		}
		nonJoker = append(nonJoker, c)
	}
	return nonJoker, jokerCount
}

// classifyGroup recognizes n-of-a-kind (2..4 members), with the Joker
// optionally substituting for one member.
func classifyGroup(cards, nonJoker []card.Card, jokerCount int) (Shape, bool) {
	size := len(cards)
	if size < 2 || size > 4 {
		return Shape{}, false
	}
	if len(nonJoker) == 0 {
		return Shape{}, false // Joker can't form a group alone (that's JokerSingle)
	}
	rank := nonJoker[0].Rank
	suits := make([]card.Suit, 0, len(nonJoker))
	for _, c := range nonJoker {
		if c.Rank != rank {
			return Shape{}, false
		}
		suits = append(suits, c.Suit)
	}
	return Shape{
		Family:    Group,
		Size:      size,
		Rank:      rank.Index(),
		Suits:     suits,
		JokerUsed: jokerCount == 1,
		Cards:     cards,
	}, true
}

// classifySequence recognizes same-suit runs of consecutive ranks, size
// 3..13 (13 being the number of distinct ranks), with the Joker filling
// at most one slot per spec §4.2 / §9.
func classifySequence(cards, nonJoker []card.Card, jokerCount int) (Shape, bool) {
	size := len(cards)
	if size < 3 {
		return Shape{}, false
	}
	if len(nonJoker) == 0 {
		return Shape{}, false
	}
	suit := nonJoker[0].Suit
	ranks := make([]int, 0, len(nonJoker))
	for _, c := range nonJoker {
		if c.Suit != suit {
			return Shape{}, false
		}
		ranks = append(ranks, c.Rank.Index())
	}
	sort.Ints(ranks)
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return Shape{}, false // duplicate rank, can't be a sequence
		}
	}

	lo, ok := sequenceWindow(ranks, size, jokerCount)
	if !ok {
		return Shape{}, false
	}

	return Shape{
		Family:    Sequence,
		Size:      size,
		Rank:      lo + size - 1,
		LowRank:   lo,
		Suits:     []card.Suit{suit},
		JokerUsed: jokerCount == 1,
		Cards:     cards,
	}, true
}

// sequenceWindow finds the contiguous [lo, lo+size-1] window (within
// 0..NumRanks-1) that contains every rank in sortedRanks, using at most
// jokerCount Joker substitutions to fill the remainder. When more than
// one window of the required size fits (the Joker extends an
// already-contiguous run rather than filling an internal gap), it picks
// the widest range. Since size is fixed, that means preferring the
// lower-rank extension, per spec §4.2's Joker-slot tie-break.
func sequenceWindow(sortedRanks []int, size, jokerCount int) (lo int, ok bool) {
	minR, maxR := sortedRanks[0], sortedRanks[len(sortedRanks)-1]
	span := maxR - minR + 1
	extra := size - span
	if extra < 0 {
		return 0, false
	}
	gapsWithinSpan := span - len(sortedRanks)
	if gapsWithinSpan > jokerCount {
		return 0, false
	}

	remaining := jokerCount - gapsWithinSpan
	if extra != remaining {
		return 0, false
	}

	switch {
	case remaining == 0:
		lo = minR
	case minR-remaining >= 0:
		lo = minR - remaining // extend toward the lower rank first
	case maxR+remaining <= card.NumRanks-1:
		lo = minR // can't extend low enough; extend high instead
	default:
		return 0, false
	}

	if lo < 0 || lo+size-1 > card.NumRanks-1 {
		return 0, false
	}
	return lo, true
}
