package game

import "github.com/charmbracelet/log"

// InitialDirection stands in for the previous move on a game's first tick.
const InitialDirection = Down

// Bot owns the only state kept between ticks: the last direction sent.
// It is not safe for concurrent use; one goroutine drives it per game.
type Bot struct {
	BotStrategy   Strategy
	lastDirection Direction
}

func NewBot(strategy Strategy) *Bot {
	if strategy == nil {
		strategy = DefaultStrategy{}
	}
	return &Bot{
		BotStrategy:   strategy,
		lastDirection: InitialDirection,
	}
}

// OnTick decides this tick's move and remembers it for the next one.
func (b *Bot) OnTick(m *MapUtil) Decision {
	decision := b.BotStrategy.NextDirection(m, b.lastDirection)
	b.lastDirection = decision.Direction

	log.Debug("Turning", "direction", decision.Direction, "position", m.MyPosition(), "feasible", decision.Feasible)
	return decision
}

func (b *Bot) LastDirection() Direction {
	return b.lastDirection
}

// Reset forgets the previous move, for a new game on the same connection.
func (b *Bot) Reset() {
	b.lastDirection = InitialDirection
}
