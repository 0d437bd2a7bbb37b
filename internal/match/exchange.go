package match

import (
	"sort"

	"github.com/uecda-go/daihinmin/internal/card"
)

// ExchangeResult records one forced exchange for the journal's
// `exchanges` array (spec §6).
type ExchangeResult struct {
	From  int
	To    int
	Cards []card.Card
}

// Exchange runs the game 2+ forced card exchange (spec §4.4): the
// daifugo and daihinmin swap 2 cards, the fugo and hinmin swap 1,
// engine-selected rather than player-chosen. Both directions give up
// their own weakest cards (spec §8 Scenario F), excluding the Joker and
// rank-Two from the weakest-card pool so neither side can be forced to
// surrender its strongest asset.
func Exchange(s *SessionState, hands [NumSeats]*card.Set) []ExchangeResult {
	results := make([]ExchangeResult, 0, 2)
	results = append(results, swapWeakest(hands, s.SeatOfClass(Daifugo), s.SeatOfClass(Daihinmin), 2)...)
	results = append(results, swapWeakest(hands, s.SeatOfClass(Fugo), s.SeatOfClass(Hinmin), 1)...)
	return results
}

func swapWeakest(hands [NumSeats]*card.Set, seatA, seatB, n int) []ExchangeResult {
	aCards := weakestCards(hands[seatA], n)
	bCards := weakestCards(hands[seatB], n)

	for _, c := range aCards {
		hands[seatA].Remove(c)
	}
	for _, c := range bCards {
		hands[seatB].Remove(c)
	}
	for _, c := range bCards {
		hands[seatA].Add(c)
	}
	for _, c := range aCards {
		hands[seatB].Add(c)
	}

	return []ExchangeResult{
		{From: seatA, To: seatB, Cards: aCards},
		{From: seatB, To: seatA, Cards: bCards},
	}
}

// weakestCards returns the n weakest eligible cards in hand, ordered
// weakest-to-strongest then taken from the head, per spec §4.4's
// "strongest→weakest by current Normal direction, ties by suit (Spade >
// Heart > Diamond > Club)": always the session's base Normal order,
// never the in-game revolution direction (SPEC_FULL.md item 4). The
// Joker and rank-Two are excluded from the pool.
func weakestCards(hand *card.Set, n int) []card.Card {
	eligible := make([]card.Card, 0, hand.Len())
	for _, c := range hand.Slice() {
		if c.Joker || c.Rank == card.Two {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Rank != b.Rank {
			return a.Rank.Index() < b.Rank.Index()
		}
		return suitStrength(a.Suit) < suitStrength(b.Suit)
	})

	if n > len(eligible) {
		n = len(eligible)
	}
	return eligible[:n]
}

// suitStrength orders suits Club (weakest) < Diamond < Heart < Spade
// (strongest), the inverse of card.AllSuits' matrix row order.
func suitStrength(s card.Suit) int {
	switch s {
	case card.Club:
		return 0
	case card.Diamond:
		return 1
	case card.Heart:
		return 2
	case card.Spade:
		return 3
	default:
		return -1
	}
}
