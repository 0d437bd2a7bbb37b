package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uecda-go/daihinmin/internal/card"
	"github.com/uecda-go/daihinmin/internal/journal"
	"github.com/uecda-go/daihinmin/internal/match"
	"github.com/uecda-go/daihinmin/internal/rules"
	"github.com/uecda-go/daihinmin/internal/shape"
)

func TestSymbolicJoinFormatsCommaSeparatedCards(t *testing.T) {
	cards := []card.Card{card.NewCard(card.Spade, card.Three), card.NewCard(card.Heart, card.Four)}
	assert.Equal(t, "S3,H4", symbolicJoin(cards))
	assert.Equal(t, "", symbolicJoin(nil))
}

func TestFieldSymbolicEmptyWhenNoLastPlay(t *testing.T) {
	assert.Equal(t, "", fieldSymbolic(rules.Field{}))
}

func TestFieldSymbolicRendersLastPlay(t *testing.T) {
	f := rules.Field{
		HasLastPlay: true,
		LastPlay:    shape.Shape{Cards: []card.Card{card.NewCard(card.Club, card.Eight)}},
	}
	assert.Equal(t, "C8", fieldSymbolic(f))
}

func TestHandsMapAndClassMapCoverAllSeats(t *testing.T) {
	ms := match.NewMatchState()
	for i := range ms.Hands {
		ms.Hands[i] = card.NewSet(card.NewCard(card.Spade, card.Rank(i)))
	}
	hm := handsMap(ms)
	assert.Len(t, hm, NumSeats)

	sstate := match.NewSessionState(3)
	cm := classMap(sstate)
	assert.Equal(t, "daifugo", cm[0])
	assert.Equal(t, "daihinmin", cm[4])
}

func TestFieldStateProjectsSuitLockAndDirection(t *testing.T) {
	c := testCoordinator(t)
	sstate := match.NewSessionState(1)
	sstate.CumulativePoints[2] = 5
	ms := match.NewMatchState()
	ms.Finished[1] = true

	field := rules.Field{
		RankDirection:    shape.Revolution,
		ElevenBackActive: true,
		SuitLock:         []card.Suit{card.Heart},
		HasLastPlay:      true,
		LastPlay:         shape.Shape{Cards: []card.Card{card.NewCard(card.Heart, card.Five)}},
	}

	fs := c.fieldState(field, 2, sstate, ms, true)
	assert.True(t, fs.RevolutionActive)
	assert.True(t, fs.ElevenBackActive)
	assert.True(t, fs.EightCutLastPlay)
	assert.True(t, fs.SuitLockActive)
	assert.Equal(t, []card.Suit{card.Heart}, fs.SuitLockSuits)
	assert.Equal(t, 2, fs.GameNumber)
	assert.Equal(t, 1, fs.TotalGames)
	assert.True(t, fs.PerSeatFinished[1])
	assert.Equal(t, 5, fs.PerSeatPoints[2])
	require.Len(t, fs.Cards, 1)
}

func TestJournalSpecialsEmitsOneEventPerTriggeredEffect(t *testing.T) {
	var buf bytes.Buffer
	c := NewCoordinator(nil, zerolog.Nop(), quartz.NewReal(), journal.New(&buf, quartz.NewMock(t)))

	eff := rules.Effects{
		EightCut:        true,
		Revolution:      true,
		ElevenBackArmed: true,
		SuitLockArmed:   []card.Suit{card.Spade, card.Heart},
		FieldCleared:    true,
		ThousandDayHand: true,
	}
	require.NoError(t, c.journalSpecials(1, 3, 0, eff, true))
	require.NoError(t, c.jrnl.Flush())

	scanner := bufio.NewScanner(&buf)
	var kinds []string
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		assert.Equal(t, "special", line["type"])
		kinds = append(kinds, line["event"].(string))
	}
	assert.Equal(t, []string{"player_finish", "eight_stop", "revolution", "eleven_back", "lock", "field_clear"}, kinds)
}

func TestJournalSpecialsEmitsNothingWhenNoEffectsTriggered(t *testing.T) {
	var buf bytes.Buffer
	c := NewCoordinator(nil, zerolog.Nop(), quartz.NewReal(), journal.New(&buf, quartz.NewMock(t)))

	require.NoError(t, c.journalSpecials(1, 3, 0, rules.Effects{}, false))
	require.NoError(t, c.jrnl.Flush())
	assert.Empty(t, buf.String())
}
