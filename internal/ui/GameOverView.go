package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// GameOverState holds the local state for rendering the game over screen.
type GameOverState struct {
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int
}

// Styles for Game Over/Results
var (
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Padding(0, 3).
			Margin(1, 1).
			Bold(true)

	selectedButtonStyle = buttonStyle.
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("15"))

	tableStyles = func() table.Styles {
		styles := table.DefaultStyles()
		styles.Header = styles.Header.
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236"))
		styles.Selected = styles.Selected.Foreground(lipgloss.Color("87")).Bold(true)
		return styles
	}()
)

// ranksTable lays the final ranks out as a table with our row highlighted.
func ranksTable(frame Frame) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Snake", Width: 16},
		{Title: "Points", Width: 8},
		{Title: "Alive", Width: 6},
	}

	rows := make([]table.Row, 0, len(frame.Ranks))
	cursor := 0
	for i, rank := range frame.Ranks {
		alive := "no"
		if rank.Alive {
			alive = "yes"
		}
		rows = append(rows, table.Row{strconv.Itoa(rank.Rank), rank.PlayerName, strconv.Itoa(rank.Points), alive})
		if rank.PlayerID == frame.PlayerID {
			cursor = i
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, len(rows))+1),
		table.WithStyles(tableStyles),
	)
	t.SetCursor(cursor)
	return t
}

// RenderGameOverScreen draws the winner, the final ranks and buttons.
func (g *GameOverState) RenderGameOverScreen(frame Frame, snakeName string) string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9")).
		Padding(1, 5).
		Align(lipgloss.Center)

	title := messageStyle.Render("G A M E   O V E R")
	if frame.Winner != "" && frame.Winner == snakeName {
		title = messageStyle.Foreground(lipgloss.Color("10")).Render("W I N N E R")
	}

	stats := fmt.Sprintf("%s\nWinner: %s\n", frame.Status, frame.Winner)

	ranks := lipgloss.NewStyle().Faint(true).Render("Waiting for results...")
	if len(frame.Ranks) > 0 {
		ranks = ranksTable(frame).View()
	}

	exitButton := buttonStyle.Render("EXIT")
	resultsButton := buttonStyle.Render("PAST RESULTS")
	if g.SelectedButton == 0 {
		exitButton = selectedButtonStyle.Render("EXIT")
	} else {
		resultsButton = selectedButtonStyle.Render("PAST RESULTS")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, exitButton, resultsButton)
	help := lipgloss.NewStyle().Faint(true).Render("ESC to see the final board")

	content := lipgloss.JoinVertical(lipgloss.Center, title, stats, ranks, buttons, help)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}
