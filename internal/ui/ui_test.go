package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/Mshel/flipper/internal/config"
	"github.com/Mshel/flipper/internal/game"
	"github.com/Mshel/flipper/internal/protocol"
	"github.com/Mshel/flipper/internal/results"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap() protocol.Map {
	return protocol.Map{
		Width:  10,
		Height: 10,
		SnakeInfos: []protocol.SnakeInfo{
			{Name: "Flipper", Points: 3, Positions: []int{55, 56}, ID: "me"},
			{Name: "Other", Points: 7, Positions: []int{11, 12, 13}, ID: "other"},
		},
		FoodPositions:     []int{58, 99},
		ObstaclePositions: []int{0},
	}
}

func TestHubSubscribeStartsWithCurrentFrame(t *testing.T) {
	hub := NewHub()
	hub.Observe(&protocol.PlayerRegistered{ReceivingPlayerID: "me"}, nil)

	frames, cancel := hub.Subscribe()
	defer cancel()

	frame := <-frames
	assert.Equal(t, "me", frame.PlayerID)
	assert.Equal(t, "Registered, waiting for game", frame.Status)
}

func TestHubFoldsEvents(t *testing.T) {
	hub := NewHub()
	frames, cancel := hub.Subscribe()
	defer cancel()
	<-frames

	decision := &game.Decision{Direction: game.Left}
	hub.Observe(&protocol.PlayerRegistered{ReceivingPlayerID: "me"}, nil)
	hub.Observe(&protocol.GameStarting{GameID: "g1"}, nil)
	hub.Observe(&protocol.MapUpdate{GameID: "g1", GameTick: 4, Map: testMap()}, decision)

	<-frames
	<-frames
	frame := <-frames
	assert.Equal(t, "g1", frame.GameID)
	assert.Equal(t, int64(4), frame.Tick)
	assert.Equal(t, "me", frame.PlayerID)
	assert.Equal(t, "Playing", frame.Status)
	assert.Same(t, decision, frame.Decision)

	hub.Observe(&protocol.GameEnded{PlayerWinnerName: "Other", Map: testMap()}, nil)
	hub.Observe(&protocol.GameResult{PlayerRanks: []protocol.PlayerRank{{PlayerName: "Other", Rank: 1}}}, nil)
	<-frames
	frame = <-frames
	assert.True(t, frame.GameOver)
	assert.Equal(t, "Other", frame.Winner)
	assert.Len(t, frame.Ranks, 1)

	// A new game clears the previous one but keeps the player.
	hub.Observe(&protocol.GameStarting{GameID: "g2"}, nil)
	frame = <-frames
	assert.False(t, frame.GameOver)
	assert.Empty(t, frame.Ranks)
	assert.Equal(t, "me", frame.PlayerID)
}

func TestHubDropsFramesForSlowViewers(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < frameBuffer*4; i++ {
			hub.Observe(&protocol.MapUpdate{GameTick: int64(i), Map: testMap()}, nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Observe blocked on a viewer that never reads")
	}
	assert.Equal(t, int64(frameBuffer*4-1), hub.Current().Tick)
}

func TestHubCloseReleasesViewers(t *testing.T) {
	hub := NewHub()
	frames, cancel := hub.Subscribe()
	<-frames

	hub.Close()
	frame, ok := <-frames
	require.True(t, ok)
	assert.True(t, frame.Closed)
	_, ok = <-frames
	assert.False(t, ok)

	// Cancelling after Close must not close the channel twice.
	cancel()

	late, _ := hub.Subscribe()
	frame, ok = <-late
	require.True(t, ok)
	assert.True(t, frame.Closed)
	_, ok = <-late
	assert.False(t, ok)
}

func TestGameViewRendersFrame(t *testing.T) {
	model := NewGameModel(nil, "Flipper", 120, 30)

	decision := &game.Decision{
		Direction:       game.Right,
		BorderDirection: game.Down,
		Feasible:        []game.Direction{game.Up, game.Right},
		Scores:          map[game.Direction]int{game.Up: 12, game.Right: 40},
	}
	updated, cmd := model.Update(FrameMsg{PlayerID: "me", Tick: 9, Map: testMap(), Decision: decision, Status: "Playing"})
	assert.NotNil(t, cmd)

	view := updated.View()
	assert.Contains(t, view, "Tick: 9")
	assert.Contains(t, view, "Direction: ▶ RIGHT")
	assert.Contains(t, view, "RIGHT 40")
	// Head at (5,5), food at (8,5) and (9,9).
	assert.Contains(t, view, "Nearest food: 3")
	// 100 cells less the obstacle and both snakes.
	assert.Contains(t, view, "Reachable: 94")
	assert.Contains(t, view, "1. ")
	assert.Contains(t, view, "Other: 7")
}

func TestGameViewGameOverFlow(t *testing.T) {
	var model tea.Model = NewGameModel(nil, "Flipper", 100, 40)

	model, _ = model.Update(FrameMsg{
		PlayerID: "me",
		Map:      testMap(),
		GameOver: true,
		Winner:   "Flipper",
		Ranks:    []protocol.PlayerRank{{PlayerName: "Flipper", PlayerID: "me", Rank: 1, Points: 9, Alive: true}},
	})
	assert.Equal(t, StateGameOver, model.(GameViewModel).gameState)
	assert.Contains(t, model.View(), "W I N N E R")
	assert.Contains(t, model.View(), "Flipper")

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, model.(GameViewModel).gameOverState.SelectedButton)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ShowResultsMsg{}, cmd())

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StatePlaying, model.(GameViewModel).gameState)
}

func TestGameViewWaitsForMap(t *testing.T) {
	var model tea.Model = NewGameModel(nil, "Flipper", 80, 20)
	model, _ = model.Update(FrameMsg{Status: "Connecting"})
	assert.Contains(t, model.View(), "Connecting...")

	model, _ = model.Update(SessionEndedMsg{})
	assert.Contains(t, model.View(), "Session ended...")
}

func TestListenForFramesEndsWithSession(t *testing.T) {
	frames := make(chan Frame, 1)
	model := NewGameModel(frames, "Flipper", 80, 20)

	frames <- Frame{Tick: 3}
	assert.Equal(t, FrameMsg{Tick: 3}, model.Init()())

	close(frames)
	assert.Equal(t, SessionEndedMsg{}, model.Init()())
}

type fakeHistory struct {
	records []results.GameRecord
	err     error
	names   []string
}

func (h *fakeHistory) GetPlayerResults(playerName string, limit, offset int) ([]results.GameRecord, error) {
	h.names = append(h.names, playerName)
	if offset >= len(h.records) {
		return nil, h.err
	}
	return h.records[offset:min(len(h.records), offset+limit)], h.err
}

func (h *fakeHistory) GetPlayerSummary(playerName string) (results.Summary, error) {
	return results.Summary{Games: len(h.records), Wins: 1, BestScore: 20, AvgPoints: 7.5}, h.err
}

func TestResultsViewLoadsAndPages(t *testing.T) {
	history := &fakeHistory{}
	for i := 0; i < resultsPageSize+3; i++ {
		history.records = append(history.records, results.GameRecord{GameID: "game", Rank: 2, Points: i, CreatedAt: time.Now()})
	}

	var model tea.Model = NewResultsModel(history, "Flipper", 120, 40)
	assert.Equal(t, []string{"Flipper"}, history.names)
	assert.Contains(t, model.View(), "Games: 13")
	assert.Contains(t, model.View(), "page 1")

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 1, model.(ResultsModel).page)
	assert.Len(t, model.(ResultsModel).records, 3)

	// The last page is short so there is nothing further.
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 1, model.(ResultsModel).page)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, model.(ResultsModel).page)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestResultsViewErrors(t *testing.T) {
	model := NewResultsModel(nil, "Flipper", 80, 20)
	assert.Contains(t, model.View(), errNoHistory.Error())

	model = NewResultsModel(&fakeHistory{err: errors.New("disk on fire")}, "Flipper", 80, 20)
	assert.Contains(t, model.View(), "disk on fire")
}

func TestIntroShowsSession(t *testing.T) {
	cfg := config.Default()
	cfg.GameMode = config.Tournament
	cfg.ServerHost = "snake.example"
	cfg.ServerPort = 8080

	view := NewIntroModel(NewSessionInfo(cfg, true), 120, 40).View()
	assert.Contains(t, view, "TOURNAMENT")
	assert.Contains(t, view, "ws://snake.example:8080/tournament")
	assert.Contains(t, view, "Flipper")
	assert.Contains(t, view, "built-in")
	assert.Contains(t, view, "recording")
	assert.NotContains(t, view, "not recording")

	cfg.StrategyScript = "bots/edge.lua"
	view = NewIntroModel(NewSessionInfo(cfg, false), 120, 40).View()
	assert.Contains(t, view, "bots/edge.lua")
	assert.Contains(t, view, "Past results (not recording)")
}

func TestIntroMenu(t *testing.T) {
	var model tea.Model = NewIntroModel(SessionInfo{SnakeName: "Flipper"}, 100, 30)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, IntroSubmitMsg(0), cmd())

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, model.View(), "▶ Past results")
	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, IntroSubmitMsg(1), cmd())

	// The menu wraps around.
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, model.(IntroModel).cursor)
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, model.(IntroModel).cursor)
}

func TestControllerTransitions(t *testing.T) {
	var model tea.Model = NewControllerModel(nil, &fakeHistory{}, SessionInfo{SnakeName: "Flipper", Mode: config.Training}, 100, 30)
	assert.Equal(t, IntroScreen, model.(ControllerModel).CurrentScreen)

	model, _ = model.Update(IntroSubmitMsg(0))
	assert.Equal(t, GameScreen, model.(ControllerModel).CurrentScreen)

	model, _ = model.Update(ShowResultsMsg{})
	assert.Equal(t, ResultsScreen, model.(ControllerModel).CurrentScreen)
	assert.Contains(t, model.View(), "PAST RESULTS")

	// q is typed into the name field instead of quitting.
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		assert.NotEqual(t, tea.Quit(), cmd())
	}

	model, _ = model.Update(BackMsg{})
	assert.Equal(t, IntroScreen, model.(ControllerModel).CurrentScreen)

	// Frames reach the game view while the intro is showing.
	model, _ = model.Update(FrameMsg{Tick: 11, PlayerID: "me", Map: testMap()})
	assert.Equal(t, int64(11), model.(ControllerModel).GameModel.(GameViewModel).frame.Tick)

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestConnectionLimiter(t *testing.T) {
	limiter := newConnectionLimiter(2)

	count, ok := limiter.acquire("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, count)
	_, ok = limiter.acquire("10.0.0.1")
	assert.True(t, ok)

	count, ok = limiter.acquire("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 3, count)
	assert.Equal(t, 2, limiter.count("10.0.0.1"))

	_, ok = limiter.acquire("10.0.0.2")
	assert.True(t, ok)

	limiter.release("10.0.0.1")
	limiter.release("10.0.0.1")
	assert.Equal(t, 0, limiter.count("10.0.0.1"))
	_, tracked := limiter.counts["10.0.0.1"]
	assert.False(t, tracked)
}
