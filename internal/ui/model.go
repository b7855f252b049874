package ui

import (
	"context"
	"os"

	"github.com/nconklindev/sheetrelay/internal/inspect"
	"github.com/nconklindev/sheetrelay/internal/relay"
	"github.com/nconklindev/sheetrelay/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateMenu state = iota
	stateFilePicker
	stateProcessing
)

// Runner performs relay requests. *relay.Relay satisfies it.
type Runner interface {
	Do(ctx context.Context, d relay.Direction, file *types.SelectedFile, progress chan<- float64) relay.Outcome
	BaseURL() string
}

type Model struct {
	state      state
	ctx        context.Context
	runner     Runner
	directions []relay.Direction
	cursor     int
	selected   map[string]*types.SelectedFile
	page       *relay.Page
	summaries  map[string]*types.ResultSummary
	filepicker filepicker.Model
	active     relay.Direction
	width      int
	height     int
	progress   progress.Model
	progressCh chan float64
	resultCh   chan outcomeMsg
}

type outcomeMsg struct {
	outcome relay.Outcome
	summary *types.ResultSummary
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel returns the menu screen backed by runner.
func InitialModel(ctx context.Context, runner Runner) Model {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	return Model{
		state:      stateMenu,
		ctx:        ctx,
		runner:     runner,
		directions: relay.Directions(),
		selected:   make(map[string]*types.SelectedFile),
		page:       relay.NewPage(),
		summaries:  make(map[string]*types.ResultSummary),
		filepicker: fp,
		progress:   progress.New(progress.WithGradient("#FF8C42", "#FF9F5A")),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Page exposes the current screen state.
func (m Model) Page() *relay.Page {
	return m.page
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, help and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateMenu:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.directions)-1 {
					m.cursor++
				}
			case "f":
				return m.openPicker()
			case "x":
				delete(m.selected, m.directions[m.cursor].Key)
			case "enter":
				return m.runAction()
			}
			return m, nil

		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "tab":
				m.state = stateMenu
				return m, nil
			}

		case stateProcessing:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case outcomeMsg:
		msg.outcome.Apply(m.page)
		if msg.summary != nil {
			m.summaries[msg.outcome.Direction] = msg.summary
		}
		m.state = stateMenu
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressCh, m.resultCh))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressCh, m.resultCh)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selected[m.active.Key] = types.NewSelectedFile(path)
			m.state = stateMenu
			return m, nil
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) openPicker() (Model, tea.Cmd) {
	m.active = m.directions[m.cursor]
	m.filepicker.AllowedTypes = m.active.AllowedTypes
	m.state = stateFilePicker
	return m, m.filepicker.Init()
}

// runAction sends the selected file for the highlighted direction. With no
// file selected the relay reports the missing input without a request.
func (m Model) runAction() (Model, tea.Cmd) {
	m.active = m.directions[m.cursor]
	m.state = stateProcessing
	m.progressCh = make(chan float64, 100)
	m.resultCh = make(chan outcomeMsg, 1)

	ctx := m.ctx
	runner := m.runner
	direction := m.active
	file := m.selected[direction.Key]
	progressCh := m.progressCh
	resultCh := m.resultCh

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				out := runner.Do(ctx, direction, file, progressCh)

				var summary *types.ResultSummary
				if out.Link != nil {
					// A summary is informative only; failures leave it empty.
					summary, _ = inspect.Summarize(out.Link.Path)
				}

				resultCh <- outcomeMsg{outcome: out, summary: summary}

				close(progressCh)
				close(resultCh)
			}()

			return waitForProgressMsg{}
		},
		m.progress.SetPercent(0),
	)

	return m, cmd
}

func waitForProgress(progressCh chan float64, resultCh chan outcomeMsg) tea.Cmd {
	return func() tea.Msg {
		if progressCh == nil {
			return nil
		}

		p, ok := <-progressCh
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultCh
			if ok {
				return res
			}
			return nil
		}

		return progressMsg(p)
	}
}
