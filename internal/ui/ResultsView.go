package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/flipper/internal/results"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const resultsPageSize = 10

var errNoHistory = errors.New("results are not being recorded")

var (
	focusedColor = lipgloss.Color("205")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// ResultHistory reads stored games. *results.ResultStore implements it.
type ResultHistory interface {
	GetPlayerResults(playerName string, limit, offset int) ([]results.GameRecord, error)
	GetPlayerSummary(playerName string) (results.Summary, error)
}

// BackMsg returns to the intro screen.
type BackMsg struct{}

// ResultsModel looks up past games for a snake name.
type ResultsModel struct {
	nameInput textinput.Model
	history   ResultHistory
	records   []results.GameRecord
	summary   results.Summary
	err       error
	page      int
	width     int
	height    int
}

func NewResultsModel(history ResultHistory, snakeName string, w, h int) ResultsModel {
	ti := textinput.New()
	ti.Placeholder = "Snake name"
	ti.SetValue(snakeName)
	ti.Focus()
	ti.CharLimit = 20
	ti.PromptStyle = focusedStyle
	ti.TextStyle = focusedStyle

	return ResultsModel{
		nameInput: ti,
		history:   history,
		width:     w,
		height:    h,
	}.load()
}

// load fetches the current page for the name in the input.
func (m ResultsModel) load() ResultsModel {
	if m.history == nil {
		m.err = errNoHistory
		return m
	}

	name := strings.TrimSpace(m.nameInput.Value())
	m.records, m.err = m.history.GetPlayerResults(name, resultsPageSize, m.page*resultsPageSize)
	if m.err != nil {
		return m
	}
	m.summary, m.err = m.history.GetPlayerSummary(name)
	return m
}

func (m ResultsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }
		case "enter":
			m.page = 0
			return m.load(), nil
		case "pgdown":
			if len(m.records) == resultsPageSize {
				m.page++
				return m.load(), nil
			}
			return m, nil
		case "pgup":
			if m.page > 0 {
				m.page--
				return m.load(), nil
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m ResultsModel) recordsTable() table.Model {
	columns := []table.Column{
		{Title: "Played", Width: 16},
		{Title: "Game", Width: 12},
		{Title: "Rank", Width: 5},
		{Title: "Points", Width: 7},
		{Title: "Alive", Width: 6},
	}

	rows := make([]table.Row, 0, len(m.records))
	for _, record := range m.records {
		alive := "no"
		if record.Alive {
			alive = "yes"
		}
		gameID := record.GameID
		if len(gameID) > 12 {
			gameID = gameID[:12]
		}
		rows = append(rows, table.Row{
			record.CreatedAt.Format("2006-01-02 15:04"),
			gameID,
			strconv.Itoa(record.Rank),
			strconv.Itoa(record.Points),
			alive,
		})
	}

	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(resultsPageSize+1),
		table.WithStyles(tableStyles),
	)
}

func (m ResultsModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Bold(true).Render("PAST RESULTS")))
	b.WriteString("\n\n")
	b.WriteString(center(m.nameInput.View()))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(center(errorStyle.Render(m.err.Error())))
	} else {
		summary := fmt.Sprintf("Games: %d   Wins: %d   Best: %d   Average: %.1f",
			m.summary.Games, m.summary.Wins, m.summary.BestScore, m.summary.AvgPoints)
		b.WriteString(center(summary))
		b.WriteString("\n\n")
		b.WriteString(center(m.recordsTable().View()))
		b.WriteString("\n")
		b.WriteString(center(helpStyle.Render(fmt.Sprintf("page %d", m.page+1))))
	}

	b.WriteString("\n\n")
	b.WriteString(center(helpStyle.Render("(enter to search, pgup/pgdown to page, esc to go back, ctrl+c to quit)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
