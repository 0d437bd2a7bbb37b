package match

import (
	"github.com/uecda-go/daihinmin/internal/card"
	"github.com/uecda-go/daihinmin/internal/rng"
)

// Deal shuffles a fresh 53-card deck with a seeded PRNG and distributes it
// round-robin starting at seat 0 (spec §4.4 / §9's resolved open
// question): 53 = 5*10 + 3, so seats 0, 1, and 2 receive 11 cards each
// and seats 3 and 4 receive 10.
func Deal(seed int64) [NumSeats]*card.Set {
	deck := card.Deck()
	r := rng.New(seed)
	rng.Shuffle[card.Card](r, deck)
	return dealDeck(deck)
}

func dealDeck(deck []card.Card) [NumSeats]*card.Set {
	var hands [NumSeats]*card.Set
	for i := range hands {
		hands[i] = card.NewSet()
	}
	for i, c := range deck {
		hands[i%NumSeats].Add(c)
	}
	return hands
}

// FirstLeadSeat returns the seat holding Spade-3, who leads game 1
// (spec §4.4).
func FirstLeadSeat(hands [NumSeats]*card.Set) int {
	spadeThree := card.NewCard(card.Spade, card.Three)
	for seat, h := range hands {
		if h.Has(spadeThree) {
			return seat
		}
	}
	return 0
}
