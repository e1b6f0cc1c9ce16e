package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MapUpdateEventType          = "se.cygni.snake.api.event.MapUpdateEvent"
	GameStartingEventType       = "se.cygni.snake.api.event.GameStartingEvent"
	GameEndedEventType          = "se.cygni.snake.api.event.GameEndedEvent"
	GameResultEventType         = "se.cygni.snake.api.event.GameResultEvent"
	GameLinkEventType           = "se.cygni.snake.api.event.GameLinkEvent"
	SnakeDeadEventType          = "se.cygni.snake.api.event.SnakeDeadEvent"
	TournamentEndedEventType    = "se.cygni.snake.api.event.TournamentEndedEvent"
	PlayerRegisteredType        = "se.cygni.snake.api.response.PlayerRegistered"
	HeartBeatResponseType       = "se.cygni.snake.api.response.HeartBeatResponse"
	InvalidPlayerNameType       = "se.cygni.snake.api.exception.InvalidPlayerName"
	NoActiveTournamentType      = "se.cygni.snake.api.exception.NoActiveTournamentException"
	InvalidMessageExceptionType = "se.cygni.snake.api.exception.InvalidMessage"
)

// ErrUnknownMessage is returned by DecodeEvent for a type it does not know.
var ErrUnknownMessage = errors.New("unknown message type")

// GameEvent is any message the server pushes to a player, plus SessionClosed
// which the client synthesizes when the connection ends. Dispatch on it with a
// type switch over the pointer types below.
type GameEvent interface {
	isGameEvent()
}

type MapUpdate struct {
	GameID            string `json:"gameId"`
	GameTick          int64  `json:"gameTick"`
	ReceivingPlayerID string `json:"receivingPlayerId"`
	Map               Map    `json:"map"`
}

type PlayerRegistered struct {
	GameID            string       `json:"gameId"`
	Name              string       `json:"name"`
	GameSettings      GameSettings `json:"gameSettings"`
	GameMode          string       `json:"gameMode"`
	ReceivingPlayerID string       `json:"receivingPlayerId"`
}

type SnakeDead struct {
	PlayerID    string `json:"playerId"`
	DeathReason string `json:"deathReason"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	GameID      string `json:"gameId"`
	GameTick    int64  `json:"gameTick"`
}

type PlayerRank struct {
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId"`
	Rank       int    `json:"rank"`
	Points     int    `json:"points"`
	Alive      bool   `json:"alive"`
}

type GameResult struct {
	GameID      string       `json:"gameId"`
	PlayerRanks []PlayerRank `json:"playerRanks"`
}

type GameEnded struct {
	PlayerWinnerID   string `json:"playerWinnerId"`
	PlayerWinnerName string `json:"playerWinnerName"`
	GameID           string `json:"gameId"`
	GameTick         int64  `json:"gameTick"`
	Map              Map    `json:"map"`
}

type GameStarting struct {
	GameID       string       `json:"gameId"`
	NoofPlayers  int          `json:"noofPlayers"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	GameSettings GameSettings `json:"gameSettings"`
}

type PlayerPoints struct {
	Name     string `json:"name"`
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

type TournamentEnded struct {
	PlayerWinnerID string         `json:"playerWinnerId"`
	GameID         string         `json:"gameId"`
	GameResult     []PlayerPoints `json:"gameResult"`
	TournamentName string         `json:"tournamentName"`
	TournamentID   string         `json:"tournamentId"`
}

type GameLink struct {
	GameID string `json:"gameId"`
	URL    string `json:"url"`
}

// SessionClosed never comes from the server. Err is nil for a clean close.
type SessionClosed struct {
	Err error `json:"-"`
}

type InvalidPlayerName struct {
	ReasonCode int `json:"reasonCode"`
}

type HeartBeatResponse struct {
	ReceivingPlayerID string `json:"receivingPlayerId"`
}

type NoActiveTournament struct{}

type InvalidMessage struct {
	ErrorMessage    string `json:"errorMessage"`
	ReceivedMessage string `json:"receivedMessage"`
}

func (*MapUpdate) isGameEvent()          {}
func (*PlayerRegistered) isGameEvent()   {}
func (*SnakeDead) isGameEvent()          {}
func (*GameResult) isGameEvent()         {}
func (*GameEnded) isGameEvent()          {}
func (*GameStarting) isGameEvent()       {}
func (*TournamentEnded) isGameEvent()    {}
func (*GameLink) isGameEvent()           {}
func (*SessionClosed) isGameEvent()      {}
func (*InvalidPlayerName) isGameEvent()  {}
func (*HeartBeatResponse) isGameEvent()  {}
func (*NoActiveTournament) isGameEvent() {}
func (*InvalidMessage) isGameEvent()     {}

var eventFactories = map[string]func() GameEvent{
	MapUpdateEventType:          func() GameEvent { return &MapUpdate{} },
	PlayerRegisteredType:        func() GameEvent { return &PlayerRegistered{} },
	SnakeDeadEventType:          func() GameEvent { return &SnakeDead{} },
	GameResultEventType:         func() GameEvent { return &GameResult{} },
	GameEndedEventType:          func() GameEvent { return &GameEnded{} },
	GameStartingEventType:       func() GameEvent { return &GameStarting{} },
	TournamentEndedEventType:    func() GameEvent { return &TournamentEnded{} },
	GameLinkEventType:           func() GameEvent { return &GameLink{} },
	InvalidPlayerNameType:       func() GameEvent { return &InvalidPlayerName{} },
	HeartBeatResponseType:       func() GameEvent { return &HeartBeatResponse{} },
	NoActiveTournamentType:      func() GameEvent { return &NoActiveTournament{} },
	InvalidMessageExceptionType: func() GameEvent { return &InvalidMessage{} },
}

// DecodeEvent parses one text frame from the server.
func DecodeEvent(data []byte) (GameEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode message envelope: %w", err)
	}

	newEvent, ok := eventFactories[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, envelope.Type)
	}

	event := newEvent()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", envelope.Type, err)
	}
	return event, nil
}
