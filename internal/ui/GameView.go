package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Mshel/flipper/internal/game"
	"github.com/Mshel/flipper/internal/protocol"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// --- Internal Game States for GameViewModel ---

type GameState int

const (
	StatePlaying GameState = iota
	StateGameOver
)

var (
	voidColor    = "233"
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	wallStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("172")).Render("▒")
	voidStyle = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Render(" ")
	foodStyle = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color("10")).Render("•")

	headRunes = map[game.Direction]string{
		game.Up:    "▲",
		game.Down:  "▼",
		game.Left:  "◀",
		game.Right: "▶",
	}

	// Our snake is always the first color.
	snakeColors = []string{"87", "205", "214", "141", "203", "118", "227", "45"}
)

const (
	mapViewPercentage  = 0.70
	statusPanelPadding = 4

	// reachableLimit caps the flood fill; the largest server maps are smaller.
	reachableLimit = 4096
)

// FrameMsg carries a new frame from the hub.
type FrameMsg Frame

// SessionEndedMsg means the hub has no more frames.
type SessionEndedMsg struct{}

// ShowResultsMsg asks the controller for the results screen.
type ShowResultsMsg struct{}

// --- GameViewModel Definition ---

type GameViewModel struct {
	frames       <-chan Frame
	frame        Frame
	snakeName    string
	ended        bool
	ScreenWidth  int
	ScreenHeight int

	gameState     GameState
	gameOverState GameOverState
}

func NewGameModel(frames <-chan Frame, snakeName string, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		frames:       frames,
		snakeName:    snakeName,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StatePlaying,
		gameOverState: GameOverState{
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
		},
	}
}

// --- Init/Update/View Methods ---

func (m GameViewModel) Init() tea.Cmd {
	return m.listenForFrames()
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.gameOverState.ScreenWidth, m.gameOverState.ScreenHeight = msg.Width, msg.Height
		return m, nil

	case FrameMsg:
		wasOver := m.frame.GameOver
		m.frame = Frame(msg)
		if m.frame.GameOver && !wasOver {
			log.Debug("Game over, showing results", "game", m.frame.GameID)
			m.gameState = StateGameOver
			m.gameOverState.SelectedButton = 0
		}
		if !m.frame.GameOver {
			m.gameState = StatePlaying
		}
		return m, m.listenForFrames()

	case SessionEndedMsg:
		m.ended = true
		return m, nil

	case tea.KeyMsg:
		if m.gameState != StateGameOver {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.gameState = StatePlaying
		case "left", "h":
			m.gameOverState.SelectedButton = max(0, m.gameOverState.SelectedButton-1)
		case "right", "l":
			m.gameOverState.SelectedButton = min(1, m.gameOverState.SelectedButton+1)
		case "enter":
			// 0: Exit, 1: Results
			if m.gameOverState.SelectedButton == 0 {
				return m, tea.Quit
			}
			return m, func() tea.Msg { return ShowResultsMsg{} }
		}
		return m, nil
	}

	return m, nil
}

func (m GameViewModel) View() string {
	if m.gameState == StateGameOver {
		return m.gameOverState.RenderGameOverScreen(m.frame, m.snakeName)
	}

	if m.frame.Map.Width == 0 {
		status := m.frame.Status
		if m.ended {
			status = "Session ended"
		}
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, status+"...")
	}

	mapWidth := int(float64(m.ScreenWidth) * mapViewPercentage)
	statusPanelWidth := max(0, m.ScreenWidth-mapWidth-statusPanelPadding)

	mapContent := m.renderMap(mapWidth, m.ScreenHeight)
	statusContent := m.renderStatusPanel()

	return lipgloss.JoinHorizontal(lipgloss.Top,
		mapViewStyle.Width(mapWidth).Height(m.ScreenHeight).Render(mapContent),
		statusPanelStyle.Width(statusPanelWidth).Height(m.ScreenHeight).Render(statusContent),
	)
}

// snakeColor picks a stable color per snake, ours first.
func (m GameViewModel) snakeColor(index int, id string) string {
	if id == m.frame.PlayerID {
		return snakeColors[0]
	}
	return snakeColors[1+index%(len(snakeColors)-1)]
}

// myHead is our head on the current map, if we are alive.
func (m GameViewModel) myHead() (game.Coordinate, bool) {
	snake, ok := m.frame.Map.SnakeByID(m.frame.PlayerID)
	if !ok || !snake.IsAlive() {
		return game.Coordinate{}, false
	}
	return m.frame.Map.Coordinate(snake.Positions[0]), true
}

func (m GameViewModel) renderMap(width int, height int) string {
	var sb strings.Builder

	gameMap := m.frame.Map
	board := gameMap.Board()

	owners := make(map[int]string, len(gameMap.SnakeInfos))
	for i, snake := range gameMap.SnakeInfos {
		for _, position := range snake.Positions {
			owners[position] = m.snakeColor(i, snake.ID)
		}
	}

	center := game.Coordinate{X: gameMap.Width / 2, Y: gameMap.Height / 2}
	if head, ok := m.myHead(); ok {
		center = head
	}

	effectiveViewportW := min(gameMap.Width, width)
	effectiveViewportH := min(gameMap.Height, height)

	startCol := max(0, center.X-effectiveViewportW/2)
	if startCol+effectiveViewportW > gameMap.Width {
		startCol = max(0, gameMap.Width-effectiveViewportW)
	}
	endCol := min(gameMap.Width, startCol+effectiveViewportW)

	startRow := max(0, center.Y-effectiveViewportH/2)
	if startRow+effectiveViewportH > gameMap.Height {
		startRow = max(0, gameMap.Height-effectiveViewportH)
	}
	endRow := min(gameMap.Height, startRow+effectiveViewportH)

	for row := startRow; row < endRow; row++ {
		for col := startCol; col < endCol; col++ {
			c := game.Coordinate{X: col, Y: row}
			colorStyle := lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color(owners[gameMap.Position(c)]))

			switch board.TileAt(c) {
			case game.TileObstacle:
				sb.WriteString(wallStyle)
			case game.TileFood:
				sb.WriteString(foodStyle)
			case game.TileSnakeHead:
				headRune := "◆"
				if head, ok := m.myHead(); ok && head == c && m.frame.Decision != nil {
					headRune = headRunes[m.frame.Decision.Direction]
				}
				sb.WriteString(colorStyle.Bold(true).Render(headRune))
			case game.TileSnakeBody:
				sb.WriteString(colorStyle.Render("█"))
			case game.TileSnakeTail:
				sb.WriteString(colorStyle.Render("▪"))
			default:
				sb.WriteString(voidStyle)
			}
		}
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(sb.String())
}

// nearestFood returns the Manhattan distance from our head to the closest food.
func (m GameViewModel) nearestFood() (int, bool) {
	head, ok := m.myHead()
	if !ok || len(m.frame.Map.FoodPositions) == 0 {
		return 0, false
	}

	nearest := -1
	for _, position := range m.frame.Map.FoodPositions {
		distance := game.GetManhattanDistance(head, m.frame.Map.Coordinate(position))
		if nearest < 0 || distance < nearest {
			nearest = distance
		}
	}
	return nearest, true
}

// renderStatusPanel draws the bot's reasoning for this tick and the scoreboard.
func (m GameViewModel) renderStatusPanel() string {
	var statusContent strings.Builder
	bold := lipgloss.NewStyle().Bold(true)

	statusContent.WriteString(bold.Render("--- Flipper ---") + "\n")
	colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(snakeColors[0]))
	statusContent.WriteString(fmt.Sprintf("%s%s\n", colorStyle.Render("● "), m.snakeName))
	statusContent.WriteString(fmt.Sprintf("Status: %s\n", m.frame.Status))
	statusContent.WriteString(fmt.Sprintf("Tick: %d\n", m.frame.Tick))

	if decision := m.frame.Decision; decision != nil {
		statusContent.WriteString(fmt.Sprintf("Direction: %s %s\n", headRunes[decision.Direction], decision.Direction))
		statusContent.WriteString(fmt.Sprintf("Border rule: %s\n", decision.BorderDirection))
		statusContent.WriteString(fmt.Sprintf("Feasible: %v\n", decision.Feasible))
		for _, direction := range game.Directions {
			if score, ok := decision.Scores[direction]; ok {
				statusContent.WriteString(fmt.Sprintf("  space %-5s %d\n", direction, score))
			}
		}
	}
	if distance, ok := m.nearestFood(); ok {
		statusContent.WriteString(fmt.Sprintf("Nearest food: %d\n", distance))
	}
	if mapUtil, err := protocol.NewMapUtil(m.frame.Map, m.frame.PlayerID); err == nil {
		statusContent.WriteString(fmt.Sprintf("Reachable: %d\n", mapUtil.ReachableArea(reachableLimit)))
	}

	statusContent.WriteString("\n" + bold.Render("--- Snakes ---") + "\n")

	snakes := make([]protocol.SnakeInfo, len(m.frame.Map.SnakeInfos))
	copy(snakes, m.frame.Map.SnakeInfos)
	sort.SliceStable(snakes, func(i, j int) bool {
		return snakes[i].Points > snakes[j].Points
	})

	for i, snake := range snakes {
		marker := "● "
		if !snake.IsAlive() {
			marker = "✗ "
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.snakeColor(indexOf(m.frame.Map.SnakeInfos, snake.ID), snake.ID)))
		statusContent.WriteString(fmt.Sprintf("%d. %s%s: %d\n", i+1, style.Render(marker), snake.Name, snake.Points))
	}

	if m.frame.Link != "" {
		statusContent.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.frame.Link) + "\n")
	}

	statusContent.WriteString("\n" + bold.Render("--- Controls ---") + "\n")
	statusContent.WriteString("Q / Ctrl+C: Quit\n")

	return statusContent.String()
}

func indexOf(snakes []protocol.SnakeInfo, id string) int {
	for i, snake := range snakes {
		if snake.ID == id {
			return i
		}
	}
	return 0
}

func (m GameViewModel) listenForFrames() tea.Cmd {
	frames := m.frames
	return func() tea.Msg {
		frame, ok := <-frames
		if !ok {
			return SessionEndedMsg{}
		}
		return FrameMsg(frame)
	}
}
