package match

import (
	"github.com/uecda-go/daihinmin/internal/card"
	"github.com/uecda-go/daihinmin/internal/rules"
	"github.com/uecda-go/daihinmin/internal/shape"
)

// TurnResult is what one seat's turn produced, for the coordinator to
// broadcast and journal.
type TurnResult struct {
	Seat        int
	Shape       shape.Shape
	Field       rules.Field
	Effects     rules.Effects
	Forced      bool
	InvalidPlay error
	HandEmptied bool
}

// Play resolves one seat's proposed cards against field. An illegal
// proposal is contained rather than fatal (spec §7): it is replaced with
// a pass if the field has a standing play to pass against, or with the
// seat's single weakest card if the seat is leading a clear field (a
// pass can't lead; spec §4.3 predicate order always accepts a lone
// card, so this fallback is always legal). InvalidPlay on the returned
// TurnResult carries the original validation error for the session's
// debug-level log note.
func (m *MatchState) Play(field rules.Field, seat int, proposed []card.Card, cfg rules.Config) TurnResult {
	hand := m.Hands[seat]
	s, verr := rules.Validate(field, proposed, hand, cfg)

	forced := verr != nil
	if verr != nil {
		if field.HasLastPlay {
			s, _ = rules.Validate(field, nil, hand, cfg)
		} else {
			fallback := weakestCards(hand, 1)
			if len(fallback) == 0 {
				fallback = hand.Slice()[:1] // only Joker/Twos left
			}
			s, _ = rules.Validate(field, fallback, hand, cfg)
		}
	}

	var newField rules.Field
	var eff rules.Effects
	var handEmptied bool
	if s.Family == shape.Pass {
		newField, eff = rules.ApplyPass(field, seat)
	} else {
		for _, c := range s.Cards {
			hand.Remove(c)
		}
		newField, eff = rules.ApplyPlay(field, s, seat, cfg)
		if hand.Len() == 0 {
			m.Finished[seat] = true
			m.FinishOrder = append(m.FinishOrder, seat)
			handEmptied = true
		}
	}

	m.TurnCounter++
	m.ConsecutivePassTotal = newField.ConsecutivePassTotal

	return TurnResult{Seat: seat, Shape: s, Field: newField, Effects: eff, Forced: forced, InvalidPlay: verr, HandEmptied: handEmptied}
}

// AdvanceSeat computes the next active seat after a turn (spec §4.4):
// normally seat+1 mod 5 skipping finished hands, plus any extra seats a
// five-skip effect consumes; special effects that already cleared the
// field (eight-cut, Spade-3 finisher, thousand-day-hand) hand the lead
// to Effects.Leader directly. Wrapping back around to the player whose
// play stands (all others passed) clears the field, led by that player;
// if that player has since gone out, their seat is skipped during the
// advance but still marks the wrap, and the clear instead hands the
// lead to the next live seat reached.
func (m *MatchState) AdvanceSeat(field rules.Field, eff rules.Effects, seat int) (int, rules.Field) {
	if eff.FieldCleared {
		return eff.Leader, field
	}

	hops := 1 + eff.FiveSkipCount
	next := seat
	wrappedPastOwner := false
	for i := 0; i < hops; i++ {
		for {
			next = (next + 1) % NumSeats
			if field.HasLastPlay && next == field.LastPlayer {
				wrappedPastOwner = true
			}
			if !m.Finished[next] || next == seat {
				break
			}
		}
	}

	if field.HasLastPlay && (next == field.LastPlayer || (wrappedPastOwner && m.Finished[field.LastPlayer])) {
		return next, rules.Clear(next, field.RankDirection)
	}
	return next, field
}

// SelectDiscard picks the card a forced six-discard removes from seat's
// hand (spec's SPEC_FULL supplement): the same weakest-eligible-card
// rule Exchange uses for forced trades, since the wire protocol carries
// no discard choice back from the client. Reports false if seat's hand
// is already empty.
func (m *MatchState) SelectDiscard(seat int) (card.Card, bool) {
	hand := m.Hands[seat]
	if hand.Len() == 0 {
		return card.Card{}, false
	}
	picks := weakestCards(hand, 1)
	if len(picks) == 0 {
		picks = hand.Slice()[:1]
	}
	return picks[0], true
}

// ForceDiscard removes c from seat's hand for the six-discard effect
// (spec's SPEC_FULL supplement); c is chosen by SelectDiscard.
func (m *MatchState) ForceDiscard(seat int, c card.Card) {
	m.Hands[seat].Remove(c)
}

// IsOver reports whether four seats have finished (spec §4.4: "the fifth
// is automatically the daihinmin").
func (m *MatchState) IsOver() bool {
	return len(m.FinishOrder) >= NumSeats-1
}

// Finalize returns the complete finish order, appending the sole
// remaining unfinished seat if IsOver.
func (m *MatchState) Finalize() [NumSeats]int {
	order := append([]int(nil), m.FinishOrder...)
	if len(order) == NumSeats-1 {
		for seat, finished := range m.Finished {
			if !finished {
				order = append(order, seat)
				break
			}
		}
	}
	var out [NumSeats]int
	copy(out[:], order)
	return out
}
