// Package session implements the five-way session coordinator (spec
// §4.6, component C6): accepts exactly five TCP connections, binds them
// to seats in connection order, runs the deal-exchange-play-score loop
// across a configured number of games, and journals every observable
// transition.
//
// Follows an accept-loop-plus-Config-struct-plus-zerolog-field shape,
// with no HTTP/WebSocket upgrade path or bot-pool machinery: five
// fixed, already-known connections replace an open-ended table join
// flow. The turn loop is intentionally NOT worker-per-connection; spec
// §4.6's scheduling model keeps match-state decisions single-threaded,
// so a write to one seat's socket never needs to happen concurrently
// with another write to the same seat. The one place genuine
// concurrency buys anything, broadcasting to all five seats before the
// next query may be issued, uses an errgroup fan-out-then-collect.
package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/uecda-go/daihinmin/internal/card"
	"github.com/uecda-go/daihinmin/internal/config"
	"github.com/uecda-go/daihinmin/internal/journal"
	"github.com/uecda-go/daihinmin/internal/match"
	"github.com/uecda-go/daihinmin/internal/wire"
)

// NumSeats mirrors match.NumSeats; named locally so callers of this
// package don't need to import match just for the constant.
const NumSeats = match.NumSeats

// Seat is one connected client bound to a table position.
type Seat struct {
	Index int
	ID    string
	Name  string
	conn  net.Conn
}

// ErrSessionAborted marks a session that ended via transport failure or
// cancellation rather than running its configured games to completion.
var ErrSessionAborted = errors.New("session: aborted")

// Coordinator hosts one five-player session end to end.
type Coordinator struct {
	cfg    *config.SessionConfig
	logger zerolog.Logger
	clock  quartz.Clock
	jrnl   *journal.Journal

	listener  net.Listener
	seats     [NumSeats]*Seat
	showHands bool
}

// Option configures a Coordinator at construction time, the usual
// functional-options pattern for an otherwise-long constructor.
type Option func(*Coordinator)

// WithShowHands makes the coordinator log each game's dealt hands at
// info level, for the host CLI's --show-hands flag.
func WithShowHands() Option {
	return func(c *Coordinator) { c.showHands = true }
}

// NewCoordinator builds a Coordinator. clock supplies the base time for
// each per-turn read deadline; the host and this package's tests pass
// quartz.NewReal(), since the deadline is enforced by the real socket.
func NewCoordinator(cfg *config.SessionConfig, logger zerolog.Logger, clock quartz.Clock, jrnl *journal.Journal, opts ...Option) *Coordinator {
	c := &Coordinator{cfg: cfg, logger: logger, clock: clock, jrnl: jrnl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Listen opens the TCP listener on the configured port.
func (c *Coordinator) Listen() error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", c.cfg.Session.Port))
	if err != nil {
		return fmt.Errorf("session: listen on %d: %w", c.cfg.Session.Port, err)
	}
	c.listener = l
	c.logger.Info().Int("port", c.cfg.Session.Port).Msg("session: listening")
	return nil
}

// AcceptSeats blocks until five clients have connected and completed the
// handshake (spec §4.5), binding them to seats in connection order. A
// version mismatch or transport error aborts the whole session: a
// five-player game with one seat unfilled can never start.
func (c *Coordinator) AcceptSeats() error {
	for seat := 0; seat < NumSeats; seat++ {
		conn, err := c.listener.Accept()
		if err != nil {
			return fmt.Errorf("session: accept seat %d: %w", seat, err)
		}
		if err := wire.SendHello(conn, seat); err != nil {
			conn.Close()
			return fmt.Errorf("session: hello seat %d: %w", seat, err)
		}
		version, name, err := wire.ReceiveHello(conn)
		if err != nil {
			c.logger.Error().Err(err).Int("seat", seat).Int32("version", version).Msg("session: handshake failed")
			conn.Close()
			return fmt.Errorf("session: handshake seat %d: %w", seat, err)
		}
		c.seats[seat] = &Seat{Index: seat, ID: uuid.NewString(), Name: name, conn: conn}
		c.logger.Info().Int("seat", seat).Str("name", name).Msg("session: seat bound")
	}
	return nil
}

// Shutdown closes the listener and every seat's connection. It does not
// flush or close the journal; callers that hold the Journal are
// responsible for that (spec §4.6: "closes all sockets and aborts any
// in-flight game without writing a game_end event").
func (c *Coordinator) Shutdown(ctx context.Context) error {
	var errs []error
	if c.listener != nil {
		if err := c.listener.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, seat := range c.seats {
		if seat == nil {
			continue
		}
		if err := seat.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.logger.Info().Msg("session: shutdown complete")
	return errors.Join(errs...)
}

// Run plays cfg.Session.NumGames games in sequence, emitting
// session_start and session_end journal events around the loop. Any
// per-game error aborts the session (spec §4.6's failure handling):
// transport errors are never retried.
func (c *Coordinator) Run(ctx context.Context) error {
	players := make([]journal.Player, NumSeats)
	for i, seat := range c.seats {
		players[i] = journal.Player{ID: seat.ID, Name: seat.Name}
	}
	if err := c.jrnl.SessionStart(players); err != nil {
		return err
	}

	sstate := match.NewSessionState(c.cfg.Session.NumGames)
	rcfg := c.cfg.Rules.ToRulesConfig()

	for game := 1; game <= c.cfg.Session.NumGames; game++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrSessionAborted, ctx.Err())
		default:
		}

		seed := c.cfg.Session.Seed + int64(game)
		if err := c.playGame(ctx, sstate, rcfg, game, seed); err != nil {
			return fmt.Errorf("session: game %d: %w", game, err)
		}
	}

	finalPoints := make(map[int]int, NumSeats)
	ranking := make([]journal.RankingOutput, NumSeats)
	for i, entry := range sstate.FinalRanking() {
		finalPoints[entry.Seat] = entry.Points
		ranking[i] = journal.RankingOutput{Seat: entry.Seat, Points: entry.Points}
	}
	if err := c.jrnl.SessionEndEvent(sstate.GamesPlayed, finalPoints, ranking); err != nil {
		return err
	}
	return c.jrnl.Flush()
}

// broadcastAll writes the post-turn broadcast frame to all five seats
// concurrently and waits for every write to return before continuing
// (spec §4.6: "a broadcast is considered complete only when all five
// writes have returned"). One failing write aborts the session, per
// spec §4.6's "any send or receive failure terminates the session".
func (c *Coordinator) broadcastAll(turn, activeSeat int, isStartOfTrick bool, fs wire.FieldState) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, seat := range c.seats {
		seat := seat
		g.Go(func() error {
			m := wire.BuildBroadcast(turn, activeSeat, isStartOfTrick, fs)
			if err := wire.WriteFrame(seat.conn, &m); err != nil {
				return fmt.Errorf("session: broadcast seat %d: %w", seat.Index, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// queryActiveSeat sends the per-turn query and reads the response
// within the configured timeout. A read deadline expiring is not a
// transport failure (spec §4.6): it yields a forced pass and a warning
// log, leaving the session running. Any other read error aborts.
func (c *Coordinator) queryActiveSeat(turn, activeSeat int, isStartOfTrick bool, fs wire.FieldState, hand []card.Card) (cards []card.Card, timedOut bool, err error) {
	seat := c.seats[activeSeat]
	m := wire.BuildQuery(turn, activeSeat, isStartOfTrick, fs, hand)
	if err := wire.WriteFrame(seat.conn, &m); err != nil {
		return nil, false, fmt.Errorf("session: query seat %d: %w", activeSeat, err)
	}

	timeout := time.Duration(c.cfg.Session.TurnTimeoutS) * time.Second
	deadline := c.clock.Now().Add(timeout)
	if err := seat.conn.SetReadDeadline(deadline); err != nil {
		return nil, false, fmt.Errorf("session: set read deadline seat %d: %w", activeSeat, err)
	}

	var resp card.Matrix
	if err := wire.ReadFrame(seat.conn, &resp); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			c.logger.Warn().Int("seat", activeSeat).Dur("timeout", timeout).Msg("session: turn timed out, forcing pass")
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("session: read seat %d: %w", activeSeat, err)
	}
	_ = seat.conn.SetReadDeadline(time.Time{})
	return wire.ParseResponse(&resp), false, nil
}
