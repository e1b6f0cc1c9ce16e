// Package protocol holds the JSON messages exchanged with a Cygni snake server.
// Every message carries a "type" field naming its Java class on the server.
package protocol

import (
	"runtime"

	"github.com/Mshel/flipper/internal/game"
)

const (
	RegisterPlayerType   = "se.cygni.snake.api.request.RegisterPlayer"
	StartGameType        = "se.cygni.snake.api.request.StartGame"
	RegisterMoveType     = "se.cygni.snake.api.request.RegisterMove"
	HeartBeatRequestType = "se.cygni.snake.api.request.HeartBeatRequest"
	ClientInfoType       = "se.cygni.snake.api.request.ClientInfo"
)

// GameSettings are proposed by the client when registering for a training game.
type GameSettings struct {
	MaxNoofPlayers                     int  `json:"maxNoofPlayers"`
	StartSnakeLength                   int  `json:"startSnakeLength"`
	TimeInMsPerTick                    int  `json:"timeInMsPerTick"`
	ObstaclesEnabled                   bool `json:"obstaclesEnabled"`
	FoodEnabled                        bool `json:"foodEnabled"`
	HeadToTailConsumes                 bool `json:"headToTailConsumes"`
	TailConsumeGrows                   bool `json:"tailConsumeGrows"`
	AddFoodLikelihood                  int  `json:"addFoodLikelihood"`
	RemoveFoodLikelihood               int  `json:"removeFoodLikelihood"`
	SpontaneousGrowthEveryNWorldTick   int  `json:"spontaneousGrowthEveryNWorldTick"`
	TrainingGame                       bool `json:"trainingGame"`
	PointsPerLength                    int  `json:"pointsPerLength"`
	PointsPerFood                      int  `json:"pointsPerFood"`
	PointsPerCausedDeath               int  `json:"pointsPerCausedDeath"`
	PointsPerNibble                    int  `json:"pointsPerNibble"`
	NoofRoundsTailProtectedAfterNibble int  `json:"noofRoundsTailProtectedAfterNibble"`
}

// TrainingWorld returns the server's default settings for a training game.
func TrainingWorld() GameSettings {
	return GameSettings{
		MaxNoofPlayers:                     5,
		StartSnakeLength:                   1,
		TimeInMsPerTick:                    250,
		ObstaclesEnabled:                   true,
		FoodEnabled:                        true,
		HeadToTailConsumes:                 true,
		TailConsumeGrows:                   false,
		AddFoodLikelihood:                  15,
		RemoveFoodLikelihood:               5,
		SpontaneousGrowthEveryNWorldTick:   3,
		TrainingGame:                       true,
		PointsPerLength:                    1,
		PointsPerFood:                      2,
		PointsPerCausedDeath:               5,
		PointsPerNibble:                    10,
		NoofRoundsTailProtectedAfterNibble: 3,
	}
}

type RegisterPlayer struct {
	Type         string       `json:"type"`
	PlayerName   string       `json:"playerName"`
	GameSettings GameSettings `json:"gameSettings"`
}

func NewRegisterPlayer(playerName string, settings GameSettings) RegisterPlayer {
	return RegisterPlayer{
		Type:         RegisterPlayerType,
		PlayerName:   playerName,
		GameSettings: settings,
	}
}

type StartGame struct {
	Type              string `json:"type"`
	ReceivingPlayerID string `json:"receivingPlayerId,omitempty"`
}

func NewStartGame(playerID string) StartGame {
	return StartGame{Type: StartGameType, ReceivingPlayerID: playerID}
}

type RegisterMove struct {
	Type              string         `json:"type"`
	GameID            string         `json:"gameId"`
	GameTick          int64          `json:"gameTick"`
	Direction         game.Direction `json:"direction"`
	ReceivingPlayerID string         `json:"receivingPlayerId"`
}

func NewRegisterMove(gameID string, gameTick int64, direction game.Direction, playerID string) RegisterMove {
	return RegisterMove{
		Type:              RegisterMoveType,
		GameID:            gameID,
		GameTick:          gameTick,
		Direction:         direction,
		ReceivingPlayerID: playerID,
	}
}

type HeartBeatRequest struct {
	Type              string `json:"type"`
	ReceivingPlayerID string `json:"receivingPlayerId"`
}

func NewHeartBeatRequest(playerID string) HeartBeatRequest {
	return HeartBeatRequest{Type: HeartBeatRequestType, ReceivingPlayerID: playerID}
}

type ClientInfo struct {
	Type                   string `json:"type"`
	Language               string `json:"language"`
	LanguageVersion        string `json:"languageVersion"`
	OperatingSystem        string `json:"operatingSystem"`
	OperatingSystemVersion string `json:"operatingSystemVersion"`
	ClientVersion          string `json:"clientVersion"`
}

func NewClientInfo(clientVersion string) ClientInfo {
	return ClientInfo{
		Type:                   ClientInfoType,
		Language:               "Go",
		LanguageVersion:        runtime.Version(),
		OperatingSystem:        runtime.GOOS,
		OperatingSystemVersion: runtime.GOARCH,
		ClientVersion:          clientVersion,
	}
}
