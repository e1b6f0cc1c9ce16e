package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mshel/flipper/internal/client"
	"github.com/Mshel/flipper/internal/config"
	"github.com/Mshel/flipper/internal/game"
	"github.com/Mshel/flipper/internal/results"
	"github.com/Mshel/flipper/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "flipper"
	app.Usage = "play snake on a Cygni snake server"
	app.Version = config.ClientVersion
	app.Flags = config.Flags()
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal("Flipper stopped", "error", err)
	}
}

// newLogger logs to stderr, or to cfg.LogFile so the TUI owns the terminal.
func newLogger(cfg config.Config) (*log.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = file, file
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           cfg.LogLevel,
		Prefix:          "flipper",
	})
	return logger, closer, nil
}

func run(c *cli.Context) error {
	cfg, err := config.FromContext(c)
	if err != nil {
		return err
	}

	logger, logCloser, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder client.ResultRecorder
	var history ui.ResultHistory
	if cfg.ResultsDBPath != "" {
		store, err := results.Open(cfg.ResultsDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder, history = store, store
	}

	var strategy game.Strategy = game.DefaultStrategy{}
	if cfg.StrategyScript != "" {
		luaStrategy, err := game.LoadLuaStrategy(cfg.StrategyScript)
		if err != nil {
			return err
		}
		log.Info("Using lua strategy", "script", cfg.StrategyScript)
		strategy = luaStrategy
	}

	hub := ui.NewHub()
	opts := []client.Option{client.WithObserver(hub), client.WithLogger(logger)}
	if recorder != nil {
		opts = append(opts, client.WithResultRecorder(recorder))
	}

	session, err := client.Dial(ctx, cfg, game.NewBot(strategy), opts...)
	if err != nil {
		return err
	}

	sessionErr := make(chan error, 1)
	go func() {
		err := session.Run(ctx)
		hub.Close()
		sessionErr <- err
	}()

	spectateCtx, stopSpectating := context.WithCancel(ctx)
	spectateDone := make(chan struct{})
	defer func() {
		stopSpectating()
		<-spectateDone
	}()

	if cfg.SpectateAddr != "" {
		server, err := ui.NewSpectatorServer(cfg, hub, history)
		if err != nil {
			close(spectateDone)
			return err
		}
		go func() {
			defer close(spectateDone)
			if err := ui.ServeSpectators(spectateCtx, server); err != nil {
				log.Error("Spectator server stopped", "error", err)
			}
		}()
	} else {
		close(spectateDone)
	}

	if cfg.ShowTUI {
		frames, cancel := hub.Subscribe()
		defer cancel()

		program := tea.NewProgram(ui.NewControllerModel(frames, history, ui.NewSessionInfo(cfg, history != nil), 0, 0), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("tui failed: %w", err)
		}
		// Leaving the TUI ends the game too.
		stop()
	}

	err = <-sessionErr
	if errors.Is(err, context.Canceled) {
		log.Info("Interrupted, shutting down", "run", session.RunID())
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("Session finished", "run", session.RunID())
	return nil
}
