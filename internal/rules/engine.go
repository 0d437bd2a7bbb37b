// Package rules implements the Daihinmin rule engine (spec §4.3,
// component C3): legality checks against a field, and the effects a
// legal play triggers (revolution, eight-cut, suit-lock, eleven-back,
// field-clear, and the optional five-skip / six-discard variants).
//
// Separates "is this action legal against the current state" from
// "what does applying it change," the same split a betting engine
// draws between legality and pot/stack effects, just for plays and the
// field instead of bets and pots.
package rules

import (
	"errors"

	"github.com/uecda-go/daihinmin/internal/card"
	"github.com/uecda-go/daihinmin/internal/shape"
)

var (
	ErrNotOwned      = errors.New("rules: play contains a card not in hand")
	ErrShapeMismatch = errors.New("rules: play shape does not match the field")
	ErrSuitLocked    = errors.New("rules: play violates the active suit lock")
	ErrTooWeak       = errors.New("rules: play does not beat the field")
	ErrMustLead      = errors.New("rules: field is clear, a pass is not legal")
	ErrInvalidShape  = errors.New("rules: cards do not form a legal shape")
)

// Config gates the optional rule variants §9 leaves as config toggles.
// ShibariEnabled defaults true (suit-lock is load-bearing for the
// reference ruleset); the rest default false.
type Config struct {
	ElevenBack     bool
	FiveSkip       bool
	SixDiscard     bool
	ShibariEnabled bool
}

// DefaultConfig returns the minimum-viable-core ruleset: only suit-lock on.
func DefaultConfig() Config {
	return Config{ShibariEnabled: true}
}

// Field describes what the next play must beat (spec §3).
type Field struct {
	LastPlay             shape.Shape
	HasLastPlay          bool
	SuitLock             []card.Suit
	RankDirection        shape.Direction
	ElevenBackActive     bool
	LastPlayer           int
	PassMask             uint8
	ConsecutivePassTotal int
}

// Clear returns a fresh, empty field led by leader. RankDirection is
// game-scoped (spec §4.3: revolution "is permanent for the remainder of
// the game") and carries across the clear; suit-lock and eleven-back
// are trick-scoped and reset.
func Clear(leader int, dir shape.Direction) Field {
	return Field{LastPlayer: leader, RankDirection: dir}
}

// ThousandDayHandLimit is the consecutive-pass count that forces a clear
// (spec §4.3, "Thousand-day-hand").
const ThousandDayHandLimit = 20

// Effects records what a legal play (or a pass that triggers
// thousand-day-hand) changed, for the journal and for the match state
// machine to act on (turn skips, forced discards).
type Effects struct {
	Revolution         bool
	EightCut           bool
	ElevenBackArmed    bool
	SuitLockArmed      []card.Suit
	FieldCleared       bool
	Leader             int
	SpadeThreeFinisher bool
	FiveSkipCount      int
	SixDiscardArmed    bool
	ThousandDayHand    bool
}

func isSpadeThree(cards []card.Card) bool {
	return len(cards) == 1 && !cards[0].Joker && cards[0].Suit == card.Spade && cards[0].Rank == card.Three
}

func invert(d shape.Direction) shape.Direction {
	if d == shape.Normal {
		return shape.Revolution
	}
	return shape.Normal
}

func effectiveDirection(rankDir shape.Direction, elevenBackActive bool) shape.Direction {
	if elevenBackActive {
		return invert(rankDir)
	}
	return rankDir
}

func suitSet(suits []card.Suit) map[card.Suit]struct{} {
	m := make(map[card.Suit]struct{}, len(suits))
	for _, s := range suits {
		m[s] = struct{}{}
	}
	return m
}

func suitsWithinLock(suits, lock []card.Suit) bool {
	lockSet := suitSet(lock)
	for _, s := range suits {
		if _, ok := lockSet[s]; !ok {
			return false
		}
	}
	return true
}

// isSubset reports whether every suit in a appears in b.
func isSubset(a, b []card.Suit) bool {
	if len(a) == 0 {
		return false
	}
	bSet := suitSet(b)
	for _, s := range a {
		if _, ok := bSet[s]; !ok {
			return false
		}
	}
	return true
}

// dedupSuits returns suits with duplicates removed, preserving the
// AllSuits row order for deterministic journal output.
func dedupSuits(suits []card.Suit) []card.Suit {
	seen := suitSet(suits)
	out := make([]card.Suit, 0, len(seen))
	for _, s := range card.AllSuits {
		if _, ok := seen[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks a candidate play against the field in legality-predicate
// order (spec §4.3). playCards == nil or empty means a pass.
func Validate(field Field, playCards []card.Card, hand *card.Set, cfg Config) (shape.Shape, error) {
	for _, c := range playCards {
		if !hand.Has(c) {
			return shape.Shape{}, ErrNotOwned
		}
	}

	s := shape.Classify(playCards)

	if s.Family == shape.Pass {
		if !field.HasLastPlay {
			return s, ErrMustLead
		}
		return s, nil
	}

	if s.Family == shape.Invalid {
		return s, ErrInvalidShape
	}

	if !field.HasLastPlay {
		return s, nil // leading a fresh field: any legal shape is accepted
	}

	if field.LastPlay.Family == shape.JokerSingle {
		if isSpadeThree(playCards) {
			return s, nil // Spade-3 return (spec §4.3 predicate 5)
		}
		return s, ErrTooWeak
	}

	if s.Family != field.LastPlay.Family || s.Size != field.LastPlay.Size {
		return s, ErrShapeMismatch
	}

	if cfg.ShibariEnabled && len(field.SuitLock) > 0 && !suitsWithinLock(s.Suits, field.SuitLock) {
		return s, ErrSuitLocked
	}

	dir := effectiveDirection(field.RankDirection, field.ElevenBackActive)
	if s.Key(dir) <= field.LastPlay.Key(dir) {
		return s, ErrTooWeak
	}

	return s, nil
}

// ApplyPlay applies an already-validated non-pass play, returning the
// resulting field and the effects it triggered.
func ApplyPlay(field Field, s shape.Shape, seat int, cfg Config) (Field, Effects) {
	var eff Effects

	isSpadeThreeFinisher := field.HasLastPlay && field.LastPlay.Family == shape.JokerSingle && isSpadeThree(s.Cards)

	next := Field{
		LastPlay:             s,
		HasLastPlay:          true,
		SuitLock:             field.SuitLock,
		RankDirection:        field.RankDirection,
		ElevenBackActive:     field.ElevenBackActive,
		LastPlayer:           seat,
		PassMask:             0,
		ConsecutivePassTotal: 0,
	}

	if cfg.ShibariEnabled && field.HasLastPlay && len(s.Suits) > 0 && len(field.LastPlay.Suits) > 0 &&
		isSubset(s.Suits, field.LastPlay.Suits) {
		lock := dedupSuits(s.Suits)
		next.SuitLock = lock
		eff.SuitLockArmed = lock
	} else if !isSpadeThreeFinisher {
		// A follow that doesn't extend the lock relationship only keeps an
		// existing lock if the new play itself is already confined to it
		// (guaranteed by Validate); otherwise there was nothing to keep.
		if len(field.SuitLock) == 0 {
			next.SuitLock = nil
		}
	}

	if (s.Family == shape.Group && s.Size == 4) || (s.Family == shape.Sequence && s.Size == 5) {
		next.RankDirection = invert(next.RankDirection)
		eff.Revolution = true
	}

	if cfg.ElevenBack && containsRank(s.Cards, card.Jack) {
		next.ElevenBackActive = true
		eff.ElevenBackArmed = true
	}

	if containsRank(s.Cards, card.Eight) {
		eff.EightCut = true
	}

	if cfg.FiveSkip && s.Size == 5 {
		eff.FiveSkipCount = 1
	}
	if cfg.SixDiscard && s.Size == 6 {
		eff.SixDiscardArmed = true
	}

	if isSpadeThreeFinisher {
		eff.SpadeThreeFinisher = true
	}

	if eff.EightCut || eff.SpadeThreeFinisher {
		next = Clear(seat, next.RankDirection)
		eff.FieldCleared = true
		eff.Leader = seat
		// A clear always reverts eleven-back, even if this same play armed
		// it a moment ago (spec §4.3: active "until the field next clears").
		eff.ElevenBackArmed = false
	}

	return next, eff
}

// ApplyPass records a pass, returning the resulting field and whether it
// triggered thousand-day-hand (spec §4.3).
func ApplyPass(field Field, seat int) (Field, Effects) {
	next := field
	next.PassMask |= 1 << uint(seat)
	next.ConsecutivePassTotal++

	var eff Effects
	if next.ConsecutivePassTotal >= ThousandDayHandLimit {
		leader := (seat + 1) % 5
		eff.ThousandDayHand = true
		eff.FieldCleared = true
		eff.Leader = leader
		return Clear(leader, field.RankDirection), eff
	}
	return next, eff
}

func containsRank(cards []card.Card, r card.Rank) bool {
	for _, c := range cards {
		if !c.Joker && c.Rank == r {
			return true
		}
	}
	return false
}
