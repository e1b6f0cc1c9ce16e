// Package ui renders a running game in the terminal, locally or over SSH.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	IntroScreen Screen = iota
	GameScreen
	ResultsScreen
)

// IntroSubmitMsg is the intro menu entry picked: 0 to watch, 1 for results.
type IntroSubmitMsg int

type ControllerModel struct {
	CurrentScreen Screen

	IntroModel   tea.Model
	GameModel    tea.Model
	ResultsModel tea.Model

	history      ResultHistory
	snakeName    string
	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(frames <-chan Frame, history ResultHistory, info SessionInfo, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(info, screenWidth, screenHeight),
		GameModel:  NewGameModel(frames, info.SnakeName, screenWidth, screenHeight),

		history:      history,
		snakeName:    info.SnakeName,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// Init starts listening for frames right away so the game screen is current
// whenever it is opened.
func (m ControllerModel) Init() tea.Cmd {
	return tea.Batch(m.IntroModel.Init(), m.GameModel.Init())
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case GameScreen:
		return m.GameModel.View()
	case ResultsScreen:
		if m.ResultsModel != nil {
			return m.ResultsModel.View()
		}
		return "Loading results..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// q is a valid character in the results name field.
			if m.CurrentScreen != ResultsScreen {
				return m, tea.Quit
			}
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		m.GameModel, _ = m.GameModel.Update(msg)
		if m.ResultsModel != nil {
			m.ResultsModel, _ = m.ResultsModel.Update(msg)
		}
		return m, nil

	case IntroSubmitMsg:
		if msg == 0 {
			m.CurrentScreen = GameScreen
			return m, nil
		}
		return m.showResults()

	case ShowResultsMsg:
		return m.showResults()

	case BackMsg:
		m.CurrentScreen = IntroScreen
		return m, m.IntroModel.Init()

	case FrameMsg, SessionEndedMsg:
		// Frames keep flowing to the game view whatever screen is showing.
		m.GameModel, cmd = m.GameModel.Update(msg)
		return m, cmd

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
			cmds = append(cmds, cmd)
		case GameScreen:
			m.GameModel, cmd = m.GameModel.Update(msg)
			cmds = append(cmds, cmd)
		case ResultsScreen:
			if m.ResultsModel != nil {
				m.ResultsModel, cmd = m.ResultsModel.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// showResults reloads the results screen so it reflects newly stored games.
func (m ControllerModel) showResults() (tea.Model, tea.Cmd) {
	m.CurrentScreen = ResultsScreen
	m.ResultsModel = NewResultsModel(m.history, m.snakeName, m.ScreenWidth, m.ScreenHeight)
	return m, m.ResultsModel.Init()
}
