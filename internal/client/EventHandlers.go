package client

import (
	"errors"
	"fmt"

	"github.com/Mshel/flipper/internal/config"
	"github.com/Mshel/flipper/internal/game"
	"github.com/Mshel/flipper/internal/protocol"
	"github.com/Mshel/flipper/internal/results"
)

// dispatch handles one event. finished means the session is over.
func (s *Session) dispatch(event protocol.GameEvent) (finished bool, err error) {
	var decision *game.Decision

	switch event := event.(type) {
	case *protocol.MapUpdate:
		decision, err = s.onMapUpdate(event)

	case *protocol.PlayerRegistered:
		err = s.onPlayerRegistered(event)

	case *protocol.GameStarting:
		s.bot.Reset()
		s.gameEnded = false
		s.resultSeen = false
		s.logger.Info("Game starting", "game", event.GameID, "players", event.NoofPlayers, "width", event.Width, "height", event.Height)

	case *protocol.GameLink:
		s.logger.Info("Game link", "url", event.URL)

	case *protocol.SnakeDead:
		if event.PlayerID == s.playerID {
			s.logger.Info("Our snake died", "reason", event.DeathReason, "tick", event.GameTick, "x", event.X, "y", event.Y)
		} else {
			s.logger.Debug("Snake died", "player", event.PlayerID, "reason", event.DeathReason)
		}

	case *protocol.GameResult:
		s.resultSeen = true
		s.onGameResult(event)

	case *protocol.GameEnded:
		s.gameEnded = true
		s.logger.Info("Game ended", "game", event.GameID, "tick", event.GameTick, "winner", event.PlayerWinnerName)

	case *protocol.TournamentEnded:
		s.onTournamentEnded(event)
		finished = true

	case *protocol.HeartBeatResponse:
		s.logger.Debug("Heartbeat acknowledged")

	case *protocol.InvalidPlayerName:
		s.logger.Error("Server rejected snake name", "name", s.cfg.SnakeName, "reason", event.ReasonCode)
		finished = true
		err = fmt.Errorf("%w: %q (reason %d)", ErrInvalidPlayerName, s.cfg.SnakeName, event.ReasonCode)

	case *protocol.NoActiveTournament:
		s.logger.Error("No active tournament to join")
		finished = true
		err = ErrNoActiveTournament

	case *protocol.InvalidMessage:
		s.logger.Warn("Server rejected a message", "error", event.ErrorMessage, "message", event.ReceivedMessage)

	case *protocol.SessionClosed:
		if event.Err != nil {
			s.logger.Error("Connection lost", "error", event.Err)
			err = fmt.Errorf("%w: %w", ErrSessionClosed, event.Err)
		} else {
			s.logger.Info("Server closed the session")
		}
		finished = true
	}

	if s.observer != nil {
		s.observer.Observe(event, decision)
	}
	return finished, err
}

func (s *Session) onPlayerRegistered(event *protocol.PlayerRegistered) error {
	s.playerID = event.ReceivingPlayerID
	s.logger.Info("Player registered", "player", s.playerID, "name", event.Name, "mode", event.GameMode)

	if err := s.send(protocol.NewClientInfo(config.ClientVersion)); err != nil {
		return err
	}
	if s.cfg.AutoStartGame && s.cfg.IsTraining() {
		return s.send(protocol.NewStartGame(s.playerID))
	}
	return nil
}

// onMapUpdate answers one tick. A map without our snake gets no answer.
func (s *Session) onMapUpdate(update *protocol.MapUpdate) (*game.Decision, error) {
	playerID := s.playerID
	if playerID == "" {
		playerID = update.ReceivingPlayerID
	}

	mapUtil, err := protocol.NewMapUtil(update.Map, playerID)
	if errors.Is(err, protocol.ErrPlayerNotOnMap) {
		s.logger.Debug("Skipping tick", "tick", update.GameTick, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	decision := s.bot.OnTick(mapUtil)
	if err := s.send(protocol.NewRegisterMove(update.GameID, update.GameTick, decision.Direction, playerID)); err != nil {
		return nil, err
	}
	return &decision, nil
}

func (s *Session) onGameResult(event *protocol.GameResult) {
	ranks := make([]results.Rank, 0, len(event.PlayerRanks))
	for _, rank := range event.PlayerRanks {
		s.logger.Info("Result", "rank", rank.Rank, "name", rank.PlayerName, "points", rank.Points, "alive", rank.Alive)
		ranks = append(ranks, results.Rank{
			PlayerName: rank.PlayerName,
			PlayerID:   rank.PlayerID,
			Rank:       rank.Rank,
			Points:     rank.Points,
			Alive:      rank.Alive,
		})
	}

	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveGameResult(s.runID, event.GameID, ranks); err != nil {
		s.logger.Error("Failed to save game result", "game", event.GameID, "error", err)
	}
}

func (s *Session) onTournamentEnded(event *protocol.TournamentEnded) {
	s.logger.Info("Tournament ended", "tournament", event.TournamentName, "winner", event.PlayerWinnerID)

	standings := make([]results.Standing, 0, len(event.GameResult))
	for _, points := range event.GameResult {
		s.logger.Info("Standing", "name", points.Name, "points", points.Points)
		standings = append(standings, results.Standing{
			PlayerName: points.Name,
			PlayerID:   points.PlayerID,
			Points:     points.Points,
		})
	}

	if s.recorder == nil {
		return
	}
	err := s.recorder.SaveTournamentResult(s.runID, event.TournamentID, event.TournamentName, event.PlayerWinnerID, standings)
	if err != nil {
		s.logger.Error("Failed to save tournament result", "tournament", event.TournamentID, "error", err)
	}
}
