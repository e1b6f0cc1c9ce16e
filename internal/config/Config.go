// Package config holds the bot's settings. A Config is built once at startup
// and passed by value; nothing reads settings from globals.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type GameMode string

const (
	Training   GameMode = "TRAINING"
	Tournament GameMode = "TOURNAMENT"
)

const (
	DefaultServerHost        = "snake.cygni.se"
	DefaultServerPort        = 80
	DefaultSnakeName         = "Flipper"
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultResultsDBPath     = "results.db"
	DefaultSpectateHostKey   = ".ssh/flipper_ed25519"
	MaxSpectatorsPerIP       = 2
	ClientVersion            = "1.0.0"
)

type Config struct {
	ServerHost    string
	ServerPort    int
	GameMode      GameMode
	SnakeName     string
	AutoStartGame bool

	HeartbeatInterval time.Duration

	// ShowTUI renders the game in the local terminal.
	ShowTUI bool
	// SpectateAddr serves the same view over SSH when set, e.g. ":6996".
	SpectateAddr       string
	HostKeyPath        string
	MaxSpectatorsPerIP int

	// ResultsDBPath is the sqlite file for game results; empty disables it.
	ResultsDBPath  string
	StrategyScript string

	LogLevel log.Level
	LogFile  string
}

// Default mirrors the stock client: training on the public server, auto start.
func Default() Config {
	return Config{
		ServerHost:         DefaultServerHost,
		ServerPort:         DefaultServerPort,
		GameMode:           Training,
		SnakeName:          DefaultSnakeName,
		AutoStartGame:      true,
		HeartbeatInterval:  DefaultHeartbeatInterval,
		HostKeyPath:        DefaultSpectateHostKey,
		MaxSpectatorsPerIP: MaxSpectatorsPerIP,
		ResultsDBPath:      DefaultResultsDBPath,
		LogLevel:           log.InfoLevel,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SnakeName) == "" {
		return fmt.Errorf("%w: snake name is empty", ErrInvalidConfig)
	}
	if c.ServerHost == "" {
		return fmt.Errorf("%w: server host is empty", ErrInvalidConfig)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.ServerPort)
	}
	if c.GameMode != Training && c.GameMode != Tournament {
		return fmt.Errorf("%w: unknown game mode %q", ErrInvalidConfig, c.GameMode)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeat interval must be positive", ErrInvalidConfig)
	}
	if c.SpectateAddr != "" && c.MaxSpectatorsPerIP <= 0 {
		return fmt.Errorf("%w: max spectators per ip must be positive", ErrInvalidConfig)
	}
	return nil
}

// URL is the websocket endpoint for the configured game mode.
func (c Config) URL() string {
	u := url.URL{
		Scheme: "ws",
		Host:   c.ServerHost + ":" + strconv.Itoa(c.ServerPort),
		Path:   "/" + strings.ToLower(string(c.GameMode)),
	}
	return u.String()
}

// IsTraining reports whether a single game ends the session.
func (c Config) IsTraining() bool {
	return c.GameMode == Training
}
