package session

import (
	"context"
	"fmt"

	"github.com/uecda-go/daihinmin/internal/card"
	"github.com/uecda-go/daihinmin/internal/journal"
	"github.com/uecda-go/daihinmin/internal/match"
	"github.com/uecda-go/daihinmin/internal/rules"
	"github.com/uecda-go/daihinmin/internal/shape"
	"github.com/uecda-go/daihinmin/internal/wire"
)

// playGame runs one complete game: deal (then exchange, for game 2+), the
// turn loop, and scoring (spec §4.4). seed derives the deal's shuffle.
func (c *Coordinator) playGame(ctx context.Context, sstate *match.SessionState, rcfg rules.Config, gameNum int, seed int64) error {
	hands := match.Deal(seed)
	ms := match.NewMatchState()
	ms.Hands = hands

	var leadSeat int
	var exchanges []match.ExchangeResult
	if gameNum == 1 {
		leadSeat = match.FirstLeadSeat(hands)
	} else {
		exchanges = match.Exchange(sstate, hands)
		leadSeat = sstate.SeatOfClass(match.Daihinmin)
	}
	ms.ActiveSeat = leadSeat

	if c.showHands {
		for seat, hand := range handsMap(ms) {
			c.logger.Info().Int("game", gameNum).Int("seat", seat).Str("hand", hand).Msg("session: dealt hand")
		}
	}

	if err := c.jrnl.GameStart(gameNum, handsMap(ms), classMap(sstate), leadSeat); err != nil {
		return err
	}
	if len(exchanges) > 0 {
		entries := make([]journal.ExchangeEntry, len(exchanges))
		for i, ex := range exchanges {
			entries[i] = journal.ExchangeEntry{From: ex.From, To: ex.To, Cards: symbolicJoin(ex.Cards)}
		}
		if err := c.jrnl.ExchangeEvent(gameNum, entries, handsMap(ms)); err != nil {
			return err
		}
	}

	field := rules.Clear(leadSeat, shape.Normal)
	seat := leadSeat
	startOfTrick := true
	turn := 0
	lastEightCut := false

	for !ms.IsOver() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: game %d turn %d", ErrSessionAborted, gameNum, turn)
		default:
		}

		turn++
		fs := c.fieldState(field, gameNum, sstate, ms, lastEightCut)
		proposed, timedOut, err := c.queryActiveSeat(turn, seat, startOfTrick, fs, ms.Hands[seat].Slice())
		if err != nil {
			return err
		}
		if timedOut {
			proposed = nil
		}

		result := ms.Play(field, seat, proposed, rcfg)
		if result.InvalidPlay != nil {
			c.logger.Debug().Err(result.InvalidPlay).Int("game", gameNum).Int("turn", turn).Int("seat", seat).Msg("session: illegal play, forced fallback")
		}
		if err := c.journalTurn(gameNum, turn, seat, field, result, ms); err != nil {
			return err
		}
		if err := c.journalSpecials(gameNum, turn, seat, result.Effects, result.HandEmptied); err != nil {
			return err
		}

		next, nextField := ms.AdvanceSeat(result.Field, result.Effects, seat)
		lastEightCut = result.Effects.EightCut

		if result.Effects.SixDiscardArmed {
			if discard, ok := ms.SelectDiscard(next); ok {
				ms.ForceDiscard(next, discard)
				if err := c.jrnl.SpecialEvent(gameNum, turn, "six_discard", next, card.Format(discard)); err != nil {
					return err
				}
			}
		}

		bfs := c.fieldState(nextField, gameNum, sstate, ms, lastEightCut)
		if err := c.broadcastAll(turn, next, !nextField.HasLastPlay, bfs); err != nil {
			return err
		}

		seat = next
		field = nextField
		startOfTrick = !field.HasLastPlay
	}

	order := match.FinalizeGame(sstate, ms)
	if err := c.jrnl.GameEndEvent(order[:], classMap(sstate)); err != nil {
		return err
	}
	return nil
}

func (c *Coordinator) journalTurn(gameNum, turn, seat int, field rules.Field, result match.TurnResult, ms *match.MatchState) error {
	action, cardType, cards := "pass", "empty", ""
	if result.Shape.Family != shape.Pass {
		action = "play"
		cardType = result.Shape.Family.String()
		cards = symbolicJoin(result.Shape.Cards)
	}
	state := journal.State{
		Revolution: result.Field.RankDirection == shape.Revolution,
		ElevenBack: result.Field.ElevenBackActive,
		Locked:     len(result.Field.SuitLock) > 0,
	}
	return c.jrnl.TurnEvent(gameNum, turn, seat, action, cards, cardType, fieldSymbolic(field), handsMap(ms), state)
}

// journalSpecials emits one special event per triggered effect (spec
// §6's `special` event, ∈ {eight_stop, revolution, eleven_back, lock,
// field_clear, player_finish}).
func (c *Coordinator) journalSpecials(gameNum, turn, seat int, eff rules.Effects, handEmptied bool) error {
	if handEmptied {
		if err := c.jrnl.SpecialEvent(gameNum, turn, "player_finish", seat, ""); err != nil {
			return err
		}
	}
	if eff.EightCut {
		if err := c.jrnl.SpecialEvent(gameNum, turn, "eight_stop", seat, ""); err != nil {
			return err
		}
	}
	if eff.Revolution {
		if err := c.jrnl.SpecialEvent(gameNum, turn, "revolution", seat, ""); err != nil {
			return err
		}
	}
	if eff.ElevenBackArmed {
		if err := c.jrnl.SpecialEvent(gameNum, turn, "eleven_back", seat, ""); err != nil {
			return err
		}
	}
	if len(eff.SuitLockArmed) > 0 {
		if err := c.jrnl.SpecialEvent(gameNum, turn, "lock", seat, symbolicSuits(eff.SuitLockArmed)); err != nil {
			return err
		}
	}
	if eff.FieldCleared {
		detail := ""
		if eff.ThousandDayHand {
			detail = "thousand_day_hand"
		} else if eff.SpadeThreeFinisher {
			detail = "spade_three_finisher"
		}
		if err := c.jrnl.SpecialEvent(gameNum, turn, "field_clear", seat, detail); err != nil {
			return err
		}
	}
	return nil
}

// fieldState projects rules.Field plus session/match bookkeeping into
// the wire layer's FieldState (spec §6).
func (c *Coordinator) fieldState(field rules.Field, gameNum int, sstate *match.SessionState, ms *match.MatchState, eightCutLastPlay bool) wire.FieldState {
	fs := wire.FieldState{
		RevolutionActive: field.RankDirection == shape.Revolution,
		ElevenBackActive: field.ElevenBackActive,
		EightCutLastPlay: eightCutLastPlay,
		SuitLockActive:   len(field.SuitLock) > 0,
		SuitLockSuits:    field.SuitLock,
		GameNumber:       gameNum,
		TotalGames:       sstate.TotalGames,
		EndOfSession:     gameNum == sstate.TotalGames && ms.IsOver(),
	}
	if field.HasLastPlay {
		fs.Cards = field.LastPlay.Cards
	}
	for seat := 0; seat < NumSeats; seat++ {
		fs.PerSeatFinished[seat] = ms.Finished[seat]
		fs.PerSeatClass[seat] = int(sstate.SeatClasses[seat])
		fs.PerSeatPoints[seat] = sstate.CumulativePoints[seat]
	}
	return fs
}

func handsMap(ms *match.MatchState) map[int]string {
	snapshot := ms.HandsSnapshot()
	out := make(map[int]string, NumSeats)
	for seat, s := range snapshot {
		out[seat] = s
	}
	return out
}

func classMap(sstate *match.SessionState) map[int]string {
	out := make(map[int]string, NumSeats)
	for seat, cl := range sstate.SeatClasses {
		out[seat] = cl.String()
	}
	return out
}

func symbolicJoin(cards []card.Card) string {
	if len(cards) == 0 {
		return ""
	}
	out := card.Format(cards[0])
	for _, c := range cards[1:] {
		out += "," + card.Format(c)
	}
	return out
}

func symbolicSuits(suits []card.Suit) string {
	if len(suits) == 0 {
		return ""
	}
	out := suits[0].String()
	for _, s := range suits[1:] {
		out += "," + s.String()
	}
	return out
}

func fieldSymbolic(field rules.Field) string {
	if !field.HasLastPlay {
		return ""
	}
	return symbolicJoin(field.LastPlay.Cards)
}
