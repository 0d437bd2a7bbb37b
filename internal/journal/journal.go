// Package journal implements the session's JSONL event sink (spec §6):
// one JSON object per line, emitted in lockstep with match state
// transitions, and never written to concurrently (spec §5).
//
// Built on a "buffered writer plus an injectable clock" shape, but
// collapsed into a single serial writer: a background flush-ticker and
// a multi-file monitor registry would solve a problem (many concurrent
// history files, periodic async flush) this package doesn't have, since
// the coordinator is the sole, serial writer.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/coder/quartz"
)

// EventType enumerates the session's observable transitions (spec §6).
type EventType string

const (
	SessionStart EventType = "session_start"
	GameStart    EventType = "game_start"
	Exchange     EventType = "exchange"
	Turn         EventType = "turn"
	Special      EventType = "special"
	GameEnd      EventType = "game_end"
	SessionEnd   EventType = "session_end"
)

// Player identifies one seat for the session_start event.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// event is the on-wire shape of one journal line. Fields unused by a
// given EventType are omitted via `omitempty`.
type event struct {
	Type EventType `json:"type"`

	Timestamp string `json:"timestamp,omitempty"`
	Players   []Player `json:"players,omitempty"`

	Game        int            `json:"game,omitempty"`
	Hands       map[int]string `json:"hands,omitempty"`
	Ranks       map[int]string `json:"ranks,omitempty"`
	FirstPlayer int            `json:"first_player,omitempty"`

	Exchanges  []ExchangeEntry `json:"exchanges,omitempty"`
	HandsAfter map[int]string  `json:"hands_after,omitempty"`

	Turn     int    `json:"turn,omitempty"`
	Player   int    `json:"player,omitempty"`
	Action   string `json:"action,omitempty"`
	Cards    string `json:"cards,omitempty"`
	CardType string `json:"card_type,omitempty"`
	Field    string `json:"field,omitempty"`
	State    *State `json:"state,omitempty"`

	Event  string `json:"event,omitempty"`
	Detail string `json:"detail,omitempty"`

	FinishOrder []int          `json:"finish_order,omitempty"`
	NewRanks    map[int]string `json:"new_ranks,omitempty"`

	TotalGames  int             `json:"total_games,omitempty"`
	FinalPoints map[int]int     `json:"final_points,omitempty"`
	Ranking     []RankingOutput `json:"ranking,omitempty"`
}

// ExchangeEntry is one forced exchange within an `exchange` event.
type ExchangeEntry struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Cards string `json:"cards"`
}

// State is the `turn` event's rule-flag snapshot.
type State struct {
	Revolution bool `json:"revolution"`
	ElevenBack bool `json:"eleven_back"`
	Locked     bool `json:"locked"`
}

// RankingOutput is one seat's entry in `session_end`'s ranking array.
type RankingOutput struct {
	Seat   int `json:"seat"`
	Points int `json:"points"`
}

// Journal appends JSONL events to an underlying sink. It is not
// safe for concurrent Append calls, matching the coordinator's
// single-writer guarantee (spec §5).
type Journal struct {
	w     *bufio.Writer
	clock quartz.Clock
}

// New wraps sink in a buffered JSONL writer. clock supplies
// session_start's timestamp; pass quartz.NewReal() in production and a
// quartz.Mock in tests for deterministic output.
func New(sink io.Writer, clock quartz.Clock) *Journal {
	return &Journal{w: bufio.NewWriter(sink), clock: clock}
}

// Flush flushes any buffered bytes to the underlying sink.
func (j *Journal) Flush() error { return j.w.Flush() }

func (j *Journal) write(e event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("journal: marshal %s event: %w", e.Type, err)
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

// SessionStart emits the session_start event.
func (j *Journal) SessionStart(players []Player) error {
	return j.write(event{
		Type:      SessionStart,
		Timestamp: j.clock.Now().UTC().Format(time.RFC3339),
		Players:   players,
	})
}

// GameStart emits the game_start event.
func (j *Journal) GameStart(game int, hands, ranks map[int]string, firstPlayer int) error {
	return j.write(event{Type: GameStart, Game: game, Hands: hands, Ranks: ranks, FirstPlayer: firstPlayer})
}

// ExchangeEvent emits the exchange event.
func (j *Journal) ExchangeEvent(game int, exchanges []ExchangeEntry, handsAfter map[int]string) error {
	return j.write(event{Type: Exchange, Game: game, Exchanges: exchanges, HandsAfter: handsAfter})
}

// TurnEvent emits the turn event.
func (j *Journal) TurnEvent(game, turn, player int, action, cards, cardType, field string, hands map[int]string, state State) error {
	return j.write(event{
		Type: Turn, Game: game, Turn: turn, Player: player,
		Action: action, Cards: cards, CardType: cardType, Field: field,
		Hands: hands, State: &state,
	})
}

// SpecialEvent emits a special event (eight_stop, revolution,
// eleven_back, lock, field_clear, player_finish, six_discard).
func (j *Journal) SpecialEvent(game, turn int, kind string, player int, detail string) error {
	return j.write(event{Type: Special, Game: game, Turn: turn, Event: kind, Player: player, Detail: detail})
}

// GameEndEvent emits the game_end event.
func (j *Journal) GameEndEvent(finishOrder []int, newRanks map[int]string) error {
	return j.write(event{Type: GameEnd, FinishOrder: finishOrder, NewRanks: newRanks})
}

// SessionEndEvent emits the session_end event.
func (j *Journal) SessionEndEvent(totalGames int, finalPoints map[int]int, ranking []RankingOutput) error {
	return j.write(event{Type: SessionEnd, TotalGames: totalGames, FinalPoints: finalPoints, Ranking: ranking})
}
