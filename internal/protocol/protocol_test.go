package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Mshel/flipper/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapUpdateJSON = `{
	"type": "se.cygni.snake.api.event.MapUpdateEvent",
	"gameId": "game-1",
	"gameTick": 7,
	"receivingPlayerId": "me",
	"timestamp": 1500000000000,
	"map": {
		"width": 5,
		"height": 4,
		"worldTick": 7,
		"snakeInfos": [
			{"name": "Flipper", "points": 3, "positions": [7, 8, 13], "tailProtectedForGameTicks": 0, "id": "me"},
			{"name": "Other", "points": 1, "positions": [], "tailProtectedForGameTicks": 0, "id": "dead"}
		],
		"foodPositions": [0],
		"obstaclePositions": [19]
	}
}`

func TestDecodeMapUpdate(t *testing.T) {
	event, err := DecodeEvent([]byte(mapUpdateJSON))
	require.NoError(t, err)

	update, ok := event.(*MapUpdate)
	require.True(t, ok, "got %T", event)
	assert.Equal(t, "game-1", update.GameID)
	assert.Equal(t, int64(7), update.GameTick)
	assert.Equal(t, "me", update.ReceivingPlayerID)
	assert.Equal(t, 5, update.Map.Width)
	assert.Len(t, update.Map.SnakeInfos, 2)
	assert.Equal(t, []int{19}, update.Map.ObstaclePositions)
}

func TestDecodeEveryEventType(t *testing.T) {
	tests := []struct {
		payload string
		check   func(t *testing.T, event GameEvent)
	}{
		{
			payload: `{"type":"se.cygni.snake.api.response.PlayerRegistered","gameId":"g","name":"Flipper","gameMode":"TRAINING","receivingPlayerId":"me","gameSettings":{"maxNoofPlayers":5}}`,
			check: func(t *testing.T, event GameEvent) {
				registered := event.(*PlayerRegistered)
				assert.Equal(t, "me", registered.ReceivingPlayerID)
				assert.Equal(t, "TRAINING", registered.GameMode)
				assert.Equal(t, 5, registered.GameSettings.MaxNoofPlayers)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.event.SnakeDeadEvent","playerId":"p2","deathReason":"CollisionWithWall","x":3,"y":4,"gameId":"g","gameTick":12}`,
			check: func(t *testing.T, event GameEvent) {
				dead := event.(*SnakeDead)
				assert.Equal(t, "CollisionWithWall", dead.DeathReason)
				assert.Equal(t, 4, dead.Y)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.event.GameResultEvent","gameId":"g","playerRanks":[{"playerName":"Flipper","playerId":"me","rank":1,"points":12,"alive":true}]}`,
			check: func(t *testing.T, event GameEvent) {
				result := event.(*GameResult)
				require.Len(t, result.PlayerRanks, 1)
				assert.Equal(t, PlayerRank{PlayerName: "Flipper", PlayerID: "me", Rank: 1, Points: 12, Alive: true}, result.PlayerRanks[0])
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.event.GameEndedEvent","playerWinnerId":"me","playerWinnerName":"Flipper","gameId":"g","gameTick":99,"map":{"width":3,"height":3}}`,
			check: func(t *testing.T, event GameEvent) {
				ended := event.(*GameEnded)
				assert.Equal(t, "Flipper", ended.PlayerWinnerName)
				assert.Equal(t, 3, ended.Map.Height)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.event.GameStartingEvent","gameId":"g","noofPlayers":5,"width":46,"height":34}`,
			check: func(t *testing.T, event GameEvent) {
				starting := event.(*GameStarting)
				assert.Equal(t, 46, starting.Width)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.event.TournamentEndedEvent","playerWinnerId":"me","gameId":"g","tournamentName":"Cup","tournamentId":"t","gameResult":[{"name":"Flipper","playerId":"me","points":40}]}`,
			check: func(t *testing.T, event GameEvent) {
				ended := event.(*TournamentEnded)
				assert.Equal(t, "Cup", ended.TournamentName)
				assert.Equal(t, 40, ended.GameResult[0].Points)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.event.GameLinkEvent","gameId":"g","url":"http://snake.cygni.se/#/viewgame/g"}`,
			check: func(t *testing.T, event GameEvent) {
				assert.Equal(t, "http://snake.cygni.se/#/viewgame/g", event.(*GameLink).URL)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.exception.InvalidPlayerName","reasonCode":2}`,
			check: func(t *testing.T, event GameEvent) {
				assert.Equal(t, 2, event.(*InvalidPlayerName).ReasonCode)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.response.HeartBeatResponse","receivingPlayerId":"me"}`,
			check: func(t *testing.T, event GameEvent) {
				assert.Equal(t, "me", event.(*HeartBeatResponse).ReceivingPlayerID)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.exception.NoActiveTournamentException"}`,
			check: func(t *testing.T, event GameEvent) {
				assert.IsType(t, &NoActiveTournament{}, event)
			},
		},
		{
			payload: `{"type":"se.cygni.snake.api.exception.InvalidMessage","errorMessage":"bad","receivedMessage":"{}"}`,
			check: func(t *testing.T, event GameEvent) {
				assert.Equal(t, "bad", event.(*InvalidMessage).ErrorMessage)
			},
		},
	}

	for _, tt := range tests {
		event, err := DecodeEvent([]byte(tt.payload))
		require.NoError(t, err, tt.payload)
		tt.check(t, event)
	}
}

func TestDecodeUnknownAndMalformed(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"se.cygni.snake.api.event.Something"}`))
	assert.True(t, errors.Is(err, ErrUnknownMessage))

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownMessage))

	_, err = DecodeEvent([]byte(`{"type":"se.cygni.snake.api.event.MapUpdateEvent","gameTick":"soon"}`))
	assert.Error(t, err)
}

func TestMapBoardAndMapUtil(t *testing.T) {
	event, err := DecodeEvent([]byte(mapUpdateJSON))
	require.NoError(t, err)
	m := event.(*MapUpdate).Map

	assert.Equal(t, game.Coordinate{X: 2, Y: 1}, m.Coordinate(7))
	assert.Equal(t, 13, m.Position(game.Coordinate{X: 3, Y: 2}))

	board := m.Board()
	assert.Equal(t, game.TileFood, board.TileAt(game.Coordinate{X: 0, Y: 0}))
	assert.Equal(t, game.TileObstacle, board.TileAt(game.Coordinate{X: 4, Y: 3}))
	assert.Equal(t, game.TileSnakeHead, board.TileAt(game.Coordinate{X: 2, Y: 1}))
	assert.Equal(t, game.TileSnakeBody, board.TileAt(game.Coordinate{X: 3, Y: 1}))
	assert.Equal(t, game.TileSnakeTail, board.TileAt(game.Coordinate{X: 3, Y: 2}))

	mapUtil, err := NewMapUtil(m, "me")
	require.NoError(t, err)
	assert.Equal(t, game.Coordinate{X: 2, Y: 1}, mapUtil.MyPosition())
	assert.True(t, mapUtil.CanIMoveInDirection(game.Up))
	assert.False(t, mapUtil.CanIMoveInDirection(game.Right))

	_, err = NewMapUtil(m, "dead")
	assert.True(t, errors.Is(err, ErrPlayerNotOnMap))
	_, err = NewMapUtil(m, "nobody")
	assert.True(t, errors.Is(err, ErrPlayerNotOnMap))
}

func TestRegisterMoveJSON(t *testing.T) {
	payload, err := json.Marshal(NewRegisterMove("game-1", 7, game.Left, "me"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "se.cygni.snake.api.request.RegisterMove",
		"gameId": "game-1",
		"gameTick": 7,
		"direction": "LEFT",
		"receivingPlayerId": "me"
	}`, string(payload))
}

func TestRegisterPlayerJSON(t *testing.T) {
	payload, err := json.Marshal(NewRegisterPlayer("Flipper", TrainingWorld()))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, RegisterPlayerType, decoded["type"])
	assert.Equal(t, "Flipper", decoded["playerName"])
	settings := decoded["gameSettings"].(map[string]any)
	assert.Equal(t, true, settings["trainingGame"])
	assert.Equal(t, float64(250), settings["timeInMsPerTick"])
}
