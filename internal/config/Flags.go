package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli"
)

// Flags declares the command line, with environment fallbacks.
func Flags() []cli.Flag {
	defaults := Default()
	return []cli.Flag{
		cli.StringFlag{Name: "host", Value: defaults.ServerHost, Usage: "Snake server host", EnvVar: "FLIPPER_HOST"},
		cli.IntFlag{Name: "port", Value: defaults.ServerPort, Usage: "Snake server port", EnvVar: "FLIPPER_PORT"},
		cli.StringFlag{Name: "mode", Value: strings.ToLower(string(defaults.GameMode)), Usage: "training or tournament", EnvVar: "FLIPPER_MODE"},
		cli.StringFlag{Name: "name", Value: defaults.SnakeName, Usage: "Snake name shown by the server", EnvVar: "FLIPPER_NAME"},
		cli.BoolTFlag{Name: "auto-start", Usage: "Start the training game as soon as we are registered", EnvVar: "FLIPPER_AUTO_START"},
		cli.DurationFlag{Name: "heartbeat", Value: defaults.HeartbeatInterval, Usage: "Interval between heartbeats"},
		cli.BoolFlag{Name: "tui", Usage: "Render the game in this terminal"},
		cli.StringFlag{Name: "spectate-addr", Usage: "Serve a live view over SSH on this address, e.g. :6996", EnvVar: "FLIPPER_SPECTATE_ADDR"},
		cli.StringFlag{Name: "host-key", Value: defaults.HostKeyPath, Usage: "SSH host key for the spectator server", EnvVar: "FLIPPER_PRIVATE_KEY_PATH"},
		cli.IntFlag{Name: "max-spectators-per-ip", Value: defaults.MaxSpectatorsPerIP, Usage: "Concurrent spectator sessions allowed per IP"},
		cli.StringFlag{Name: "results-db", Value: defaults.ResultsDBPath, Usage: "sqlite file for game results; empty disables", EnvVar: "FLIPPER_RESULTS_DB"},
		cli.StringFlag{Name: "strategy-script", Usage: "Lua script defining nextDirection(state)", EnvVar: "FLIPPER_STRATEGY_SCRIPT"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVar: "FLIPPER_LOG_LEVEL"},
		cli.StringFlag{Name: "log-file", Usage: "Write logs here instead of stderr (required with --tui)"},
	}
}

// FromContext reads the flags declared by Flags and validates the result.
func FromContext(c *cli.Context) (Config, error) {
	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := Config{
		ServerHost:         c.String("host"),
		ServerPort:         c.Int("port"),
		GameMode:           GameMode(strings.ToUpper(c.String("mode"))),
		SnakeName:          c.String("name"),
		AutoStartGame:      c.BoolT("auto-start"),
		HeartbeatInterval:  c.Duration("heartbeat"),
		ShowTUI:            c.Bool("tui"),
		SpectateAddr:       c.String("spectate-addr"),
		HostKeyPath:        c.String("host-key"),
		MaxSpectatorsPerIP: c.Int("max-spectators-per-ip"),
		ResultsDBPath:      c.String("results-db"),
		StrategyScript:     c.String("strategy-script"),
		LogLevel:           level,
		LogFile:            c.String("log-file"),
	}

	if cfg.ShowTUI && cfg.LogFile == "" {
		return Config{}, fmt.Errorf("%w: --tui needs --log-file", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
