// Package match implements the Daihinmin match state machine (spec §4.4,
// component C4): dealing, forced inter-game exchange, the turn loop, and
// scoring, driven by internal/rules' legality and effect outputs.
//
// A state machine that owns player state directly and is driven by a
// single apply-one-action entrypoint per turn, the same shape a betting
// round uses, just for play-then-advance turns instead of bets.
package match

import "github.com/uecda-go/daihinmin/internal/card"

// Class is one of the five finishing classes carried from game to game.
type Class int

const (
	Daifugo Class = iota
	Fugo
	Heimin
	Hinmin
	Daihinmin
)

func (c Class) String() string {
	switch c {
	case Daifugo:
		return "daifugo"
	case Fugo:
		return "fugo"
	case Heimin:
		return "heimin"
	case Hinmin:
		return "hinmin"
	case Daihinmin:
		return "daihinmin"
	default:
		return "unknown"
	}
}

// NumSeats is the fixed table size (spec §1: five remote client processes).
const NumSeats = 5

// gamePoints awards {5,4,3,2,1} to finish ranks {1..5} (spec §4.4 Scoring).
var gamePoints = [NumSeats]int{5, 4, 3, 2, 1}

// SessionState persists across games for the life of one five-player
// session (spec §3).
type SessionState struct {
	SeatClasses      [NumSeats]Class
	CumulativePoints [NumSeats]int
	GamesPlayed      int
	TotalGames       int
}

// NewSessionState seats everyone in default class order for game 1
// (spec §4.4: "this overrides class-based lead for game 1").
func NewSessionState(totalGames int) *SessionState {
	s := &SessionState{TotalGames: totalGames}
	for i := range s.SeatClasses {
		s.SeatClasses[i] = Class(i)
	}
	return s
}

// GamesRemaining reports how many games remain in the session.
func (s *SessionState) GamesRemaining() int {
	return s.TotalGames - s.GamesPlayed
}

// SeatOfClass returns the seat currently holding class c.
func (s *SessionState) SeatOfClass(c Class) int {
	for seat, sc := range s.SeatClasses {
		if sc == c {
			return seat
		}
	}
	return -1
}

// RankingEntry is one seat's place in the final standings.
type RankingEntry struct {
	Seat   int
	Points int
}

// FinalRanking sorts seats by cumulative points descending, ties broken
// by seat index (spec §6 session_end's "ranking").
func (s *SessionState) FinalRanking() []RankingEntry {
	out := make([]RankingEntry, NumSeats)
	for seat := range out {
		out[seat] = RankingEntry{Seat: seat, Points: s.CumulativePoints[seat]}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func less(a, b RankingEntry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	return a.Seat < b.Seat
}

// ApplyGameResult updates seat classes and cumulative points from one
// game's finish order (spec §4.4 Scoring).
func (s *SessionState) ApplyGameResult(finishOrder [NumSeats]int) {
	for rank, seat := range finishOrder {
		s.CumulativePoints[seat] += gamePoints[rank]
		s.SeatClasses[seat] = Class(rank)
	}
	s.GamesPlayed++
}

// MatchState is one game's mutable state (spec §3).
type MatchState struct {
	Hands                [NumSeats]*card.Set
	Finished             [NumSeats]bool
	ActiveSeat           int
	TurnCounter          int
	FinishOrder          []int
	ConsecutivePassTotal int
}

// NewMatchState builds an empty-hands MatchState; callers fill Hands via
// Deal and set ActiveSeat to the holder of Spade-3 (game 1) or the
// previous daihinmin (later games), per spec §4.4.
func NewMatchState() *MatchState {
	return &MatchState{}
}

// HandsSnapshot returns each seat's hand as a sorted symbolic string,
// for journal `hands` fields (spec §6).
func (m *MatchState) HandsSnapshot() [NumSeats]string {
	var out [NumSeats]string
	for seat, h := range m.Hands {
		out[seat] = symbolicJoin(h.Slice())
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
