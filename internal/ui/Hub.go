package ui

import (
	"sync"

	"github.com/Mshel/flipper/internal/game"
	"github.com/Mshel/flipper/internal/protocol"
	"github.com/charmbracelet/log"
)

// frameBuffer is how many frames a slow viewer may fall behind before
// frames are dropped for it.
const frameBuffer = 16

// Frame is everything a view needs to draw one moment of the game.
type Frame struct {
	GameID   string
	PlayerID string
	Tick     int64
	Map      protocol.Map
	Decision *game.Decision

	Status   string
	Link     string
	Winner   string
	Ranks    []protocol.PlayerRank
	GameOver bool
	Closed   bool
}

// Hub turns session events into frames and fans them out to any number of
// viewers. It implements client.Observer.
type Hub struct {
	mu          sync.Mutex
	current     Frame
	subscribers map[chan Frame]struct{}
	closed      bool
}

func NewHub() *Hub {
	return &Hub{
		current:     Frame{Status: "Connecting"},
		subscribers: make(map[chan Frame]struct{}),
	}
}

// Observe folds one event into the current frame and broadcasts it.
func (h *Hub) Observe(event protocol.GameEvent, decision *game.Decision) {
	h.mu.Lock()
	defer h.mu.Unlock()

	frame := h.current
	switch event := event.(type) {
	case *protocol.PlayerRegistered:
		frame.PlayerID = event.ReceivingPlayerID
		frame.Status = "Registered, waiting for game"
	case *protocol.GameStarting:
		frame = Frame{PlayerID: frame.PlayerID, GameID: event.GameID, Status: "Game starting"}
	case *protocol.GameLink:
		frame.Link = event.URL
	case *protocol.MapUpdate:
		frame.GameID = event.GameID
		frame.Tick = event.GameTick
		frame.Map = event.Map
		frame.Decision = decision
		frame.Status = "Playing"
		if decision == nil {
			frame.Status = "Spectating"
		}
	case *protocol.SnakeDead:
		if event.PlayerID == frame.PlayerID {
			frame.Status = "Died: " + event.DeathReason
		}
	case *protocol.GameEnded:
		frame.GameOver = true
		frame.Winner = event.PlayerWinnerName
		frame.Map = event.Map
		frame.Status = "Game ended"
	case *protocol.GameResult:
		frame.Ranks = event.PlayerRanks
	case *protocol.TournamentEnded:
		frame.GameOver = true
		frame.Status = "Tournament " + event.TournamentName + " ended"
	case *protocol.SessionClosed:
		frame.Status = "Disconnected"
	default:
		return
	}

	h.current = frame
	h.broadcast(frame)
}

// broadcast must be called with mu held.
func (h *Hub) broadcast(frame Frame) {
	for ch := range h.subscribers {
		select {
		case ch <- frame:
		default:
			log.Debug("Dropping frame for slow viewer", "tick", frame.Tick)
		}
	}
}

// Subscribe returns a channel that starts with the current frame. The
// channel is closed by cancel or by Close.
func (h *Hub) Subscribe() (<-chan Frame, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Frame, frameBuffer)
	ch <- h.current
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Current returns the latest frame.
func (h *Hub) Current() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Close marks the session as over and releases every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.current.Closed = true
	h.broadcast(h.current)
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
