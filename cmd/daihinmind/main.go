// Command daihinmind hosts one five-player Daihinmin session (spec §6's
// "CLI surface of host program"): it parses flags, loads the optional
// rule-variant config, opens the journal sink, and runs the session
// coordinator to completion or until signaled.
//
// Follows a kong.Parse-then-zerolog-setup-then-signal-select shape.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/uecda-go/daihinmin/internal/config"
	"github.com/uecda-go/daihinmin/internal/journal"
	"github.com/uecda-go/daihinmin/internal/session"
)

// CLI is the host program's flag surface (spec §6): port, session size,
// journal destination, hand visibility, and verbosity.
type CLI struct {
	Port       int    `kong:"default='42485',help='TCP port to listen on'"`
	NumGames   int    `kong:"name='num-games',default='1',help='Number of games to play in this session'"`
	GameLog    string `kong:"name='game-log',default='session.jsonl',help='Path to the JSONL event journal'"`
	ShowHands  bool   `kong:"name='show-hands',help='Log each game dealt hand at startup'"`
	Verbose    bool   `kong:"short='v',help='Enable debug logging'"`
	ConfigFile string `kong:"name='config',help='Optional HCL config file for rule variants, seed and turn timeout (--port, --num-games and --game-log always take precedence)'"`
	Seed       int64  `kong:"help='Deterministic deal seed (0 keeps the configured seed, which defaults to 0)'"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("daihinmind"),
		kong.Description("Daihinmin (UECda protocol 20070) session host"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	cfg := config.DefaultSessionConfig()
	if cli.ConfigFile != "" {
		loaded, err := config.Load(cli.ConfigFile)
		kctx.FatalIfErrorf(err)
		cfg = loaded
	}
	cfg.Session.Port = cli.Port
	cfg.Session.NumGames = cli.NumGames
	cfg.Session.JournalPath = cli.GameLog
	if cli.Seed != 0 {
		cfg.Session.Seed = cli.Seed
	}
	kctx.FatalIfErrorf(cfg.Validate())

	logFile, err := os.Create(cfg.Session.JournalPath)
	kctx.FatalIfErrorf(err)
	defer logFile.Close()

	jrnl := journal.New(logFile, quartz.NewReal())

	var opts []session.Option
	if cli.ShowHands {
		opts = append(opts, session.WithShowHands())
	}
	coord := session.NewCoordinator(cfg, logger, quartz.NewReal(), jrnl, opts...)

	kctx.FatalIfErrorf(coord.Listen())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Int("port", cfg.Session.Port).Int("num_games", cfg.Session.NumGames).Msg("daihinmind: waiting for five players")
	if err := coord.AcceptSeats(); err != nil {
		logger.Error().Err(err).Msg("daihinmind: seat handshake failed")
		_ = coord.Shutdown(ctx)
		os.Exit(1)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- coord.Run(ctx) }()

	select {
	case err := <-runErr:
		if err != nil {
			logger.Error().Err(err).Msg("daihinmind: session ended with an error")
			_ = coord.Shutdown(ctx)
			os.Exit(1)
		}
		logger.Info().Msg("daihinmind: session complete")
		_ = coord.Shutdown(ctx)
	case <-ctx.Done():
		logger.Info().Msg("daihinmind: received shutdown signal")
		_ = coord.Shutdown(context.Background())
		<-runErr
	}
}
