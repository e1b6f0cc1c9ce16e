// Package client plays a game on a Cygni snake server over a websocket.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mshel/flipper/internal/config"
	"github.com/Mshel/flipper/internal/game"
	"github.com/Mshel/flipper/internal/protocol"
	"github.com/Mshel/flipper/internal/results"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// ErrSessionClosed is returned by Run when the event stream ends unexpectedly.
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidPlayerName means the server refused our snake name.
	ErrInvalidPlayerName = errors.New("invalid player name")
	// ErrNoActiveTournament means a tournament session had nothing to join.
	ErrNoActiveTournament = errors.New("no active tournament")
)

// defaultResultLinger is how long a training session waits for the game
// result after the game has ended.
const defaultResultLinger = 2 * time.Second

// ResultRecorder persists finished games. *results.ResultStore implements it.
type ResultRecorder interface {
	SaveGameResult(runID, gameID string, ranks []results.Rank) error
	SaveTournamentResult(runID, tournamentID, tournamentName, winnerID string, standings []results.Standing) error
}

// Observer sees every event after it is handled. decision is set for map
// updates the bot answered. Observe is called on the session goroutine and
// must not block.
type Observer interface {
	Observe(event protocol.GameEvent, decision *game.Decision)
}

type Option func(*Session)

func WithResultRecorder(recorder ResultRecorder) Option {
	return func(s *Session) { s.recorder = recorder }
}

func WithObserver(observer Observer) Option {
	return func(s *Session) { s.observer = observer }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRunID tags stored results; a random id is used otherwise.
func WithRunID(runID string) Option {
	return func(s *Session) { s.runID = runID }
}

func withResultLinger(d time.Duration) Option {
	return func(s *Session) { s.resultLinger = d }
}

// Session is one websocket connection to the server. Everything except the
// frame reader runs on the goroutine that calls Run.
type Session struct {
	cfg      config.Config
	conn     *websocket.Conn
	bot      *game.Bot
	recorder ResultRecorder
	observer Observer
	logger   *log.Logger
	runID    string

	resultLinger time.Duration

	events    chan protocol.GameEvent
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex

	playerID   string
	gameEnded  bool
	resultSeen bool
}

// Dial connects to the server named by cfg. Call Run to play.
func Dial(ctx context.Context, cfg config.Config, bot *game.Bot, opts ...Option) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL(), err)
	}

	s := &Session{
		cfg:    cfg,
		conn:   conn,
		bot:    bot,
		logger: log.Default(),
		events: make(chan protocol.GameEvent),
		done:   make(chan struct{}),

		resultLinger: defaultResultLinger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.logger = s.logger.With("run", s.runID)

	go s.reader()

	return s, nil
}

// Done is closed once the session has ended.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) RunID() string {
	return s.runID
}

// reader decodes frames until the connection fails, then reports SessionClosed.
func (s *Session) reader() {
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			var closeErr error
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				closeErr = err
			}
			select {
			case s.events <- &protocol.SessionClosed{Err: closeErr}:
			case <-s.done:
			}
			return
		}

		event, err := protocol.DecodeEvent(data)
		if err != nil {
			s.logger.Warn("Ignoring message", "error", err)
			continue
		}

		select {
		case s.events <- event:
		case <-s.done:
			return
		}
	}
}

// Run registers the player and handles events until the session is over:
// after the game in training mode, after the tournament otherwise, or when
// the connection closes or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	s.logger.Info("Connected, registering for game", "url", s.cfg.URL(), "name", s.cfg.SnakeName, "mode", s.cfg.GameMode)
	if err := s.send(protocol.NewRegisterPlayer(s.cfg.SnakeName, protocol.TrainingWorld())); err != nil {
		return err
	}

	heartbeat := time.NewTicker(s.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	var linger <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			s.sendClose()
			return ctx.Err()

		case <-heartbeat.C:
			if s.playerID == "" {
				continue
			}
			if err := s.send(protocol.NewHeartBeatRequest(s.playerID)); err != nil {
				return err
			}

		case <-linger:
			s.logger.Warn("No game result received, shutting down")
			s.sendClose()
			return nil

		case event, ok := <-s.events:
			if !ok {
				return ErrSessionClosed
			}

			finished, err := s.dispatch(event)
			if err != nil || finished {
				if _, closed := event.(*protocol.SessionClosed); !closed {
					s.sendClose()
				}
				return err
			}

			if s.gameEnded && s.cfg.IsTraining() {
				if s.resultSeen {
					s.logger.Info("Training game over, shutting down")
					s.sendClose()
					return nil
				}
				if linger == nil {
					linger = time.After(s.resultLinger)
				}
			}
		}
	}
}

func (s *Session) send(message any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to send %T: %w", message, err)
	}
	return nil
}

func (s *Session) sendClose() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second)); err != nil {
		s.logger.Debug("Could not send close frame", "error", err)
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
