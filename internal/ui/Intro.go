package ui

import (
	"fmt"
	"strings"

	"github.com/Mshel/flipper/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SessionInfo describes the running client on the start screen.
type SessionInfo struct {
	SnakeName string
	Mode      config.GameMode
	Server    string
	Recording bool
	Strategy  string
}

// NewSessionInfo summarizes cfg. recording is whether results are stored.
func NewSessionInfo(cfg config.Config, recording bool) SessionInfo {
	strategy := "built-in"
	if cfg.StrategyScript != "" {
		strategy = cfg.StrategyScript
	}
	return SessionInfo{
		SnakeName: cfg.SnakeName,
		Mode:      cfg.GameMode,
		Server:    cfg.URL(),
		Recording: recording,
		Strategy:  strategy,
	}
}

type menuEntry struct {
	label  string
	choice IntroSubmitMsg
}

var introMenu = []menuEntry{
	{label: "Follow the game", choice: 0},
	{label: "Past results", choice: 1},
}

// IntroModel is the start screen: who we are, where we play, and a menu.
type IntroModel struct {
	info   SessionInfo
	cursor int
	width  int
	height int
}

func NewIntroModel(info SessionInfo, w, h int) IntroModel {
	return IntroModel{info: info, width: w, height: h}
}

func (m IntroModel) Init() tea.Cmd { return nil }

func (m IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k", "shift+tab":
			m.cursor = (m.cursor + len(introMenu) - 1) % len(introMenu)
		case "down", "j", "tab":
			m.cursor = (m.cursor + 1) % len(introMenu)
		case "enter", " ":
			choice := introMenu[m.cursor].choice
			return m, func() tea.Msg { return choice }
		}
	}
	return m, nil
}

var flipperAscii = `
 ███████ ██      ██ ██████  ██████  ███████ ██████
 ██      ██      ██ ██   ██ ██   ██ ██      ██   ██
 █████   ██      ██ ██████  ██████  █████   ██████
 ██      ██      ██ ██      ██      ██      ██   ██
 ██      ███████ ██ ██      ██      ███████ ██   ██
        ▪████████████████████████████████◀
`

var (
	asciiStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("87"))

	sessionCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 2).
				MarginTop(1)

	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	recordingOn    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("recording")
	recordingOff   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("off")

	menuItemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	menuSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("87")).Bold(true)
	hintStyle         = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

func (m IntroModel) renderSessionCard() string {
	results := recordingOff
	if m.info.Recording {
		results = recordingOn
	}

	rows := [][2]string{
		{"Snake", m.info.SnakeName},
		{"Mode", string(m.info.Mode)},
		{"Server", m.info.Server},
		{"Strategy", m.info.Strategy},
		{"Results", results},
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(cardLabelStyle.Render(row[0]) + row[1])
	}
	return sessionCardStyle.Render(sb.String())
}

func (m IntroModel) renderMenu() string {
	lines := make([]string, len(introMenu))
	for i, entry := range introMenu {
		label := entry.label
		if entry.choice == 1 && !m.info.Recording {
			label += " (not recording)"
		}
		if i == m.cursor {
			lines[i] = menuSelectedStyle.Render(fmt.Sprintf("▶ %s", label))
			continue
		}
		lines[i] = menuItemStyle.Render(label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m IntroModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		asciiStyle.Render(flipperAscii),
		m.renderSessionCard(),
		"",
		m.renderMenu(),
		hintStyle.Render("↑/↓ choose · enter open · q quit"),
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
