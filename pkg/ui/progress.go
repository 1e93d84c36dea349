// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/CLAV88/office-addin/pkg/setup"
)

type stageStartedMsg struct {
	index int
}

type runFinishedMsg struct {
	notes []string
	err   error
}

// setupProgressModel renders the setup pipeline as a step list with a
// spinner on the running stage
type setupProgressModel struct {
	spinner spinner.Model
	stages  []string
	current int // index of the running stage
	done    bool
	err     error
	notes   []string
	cancel  context.CancelFunc
}

func newSetupProgress(stages []string, cancel context.CancelFunc) setupProgressModel {
	theme := config.CurrentTheme
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.GetPrimaryColor())

	return setupProgressModel{
		spinner: s,
		stages:  stages,
		current: -1,
		cancel:  cancel,
	}
}

func (m setupProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m setupProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if SetupProgressKeyBindings().Contains(msg.String()) != nil {
			m.cancel()
			return m, nil
		}

	case stageStartedMsg:
		m.current = msg.index
		return m, nil

	case runFinishedMsg:
		m.done = true
		m.err = msg.err
		m.notes = msg.notes
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m setupProgressModel) View() string {
	theme := config.CurrentTheme
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(theme.GetPrimaryColor()).
		Bold(true).
		Render("Office Add-in setup")
	b.WriteString(title + "\n\n")

	for i, name := range m.stages {
		var indicator string
		switch {
		case m.done && m.err != nil && i == m.current:
			indicator = theme.ErrorIndicator()
		case m.done && m.err == nil, i < m.current:
			indicator = theme.CompleteIndicator()
		case i == m.current:
			indicator = m.spinner.View()
		default:
			indicator = theme.PendingIndicator()
		}
		fmt.Fprintf(&b, "  %s %s\n", indicator, name)
	}

	switch {
	case m.done && m.err != nil:
		b.WriteString("\n" + theme.ErrorMessage(m.err.Error()) + "\n")
	case m.done && len(m.notes) > 0:
		b.WriteString("\n" + theme.WarningStyle().Bold(true).Render("Manual steps required:") + "\n")
		for _, note := range m.notes {
			b.WriteString("\n" + theme.WarningStyle().Render(note) + "\n")
		}
	case m.done:
		b.WriteString("\n" + theme.SuccessMessage("Setup complete") + "\n")
	default:
		b.WriteString("\n" + SetupProgressKeyBindings().RenderInline(theme.SubtleStyle()) + "\n")
	}

	return b.String()
}

// RunSetupProgress drives the pipeline under a step-progress TUI. The
// pipeline runs in a goroutine; stage transitions and completion arrive
// as messages. Esc cancels the run through the pipeline's context.
func RunSetupProgress(ctx context.Context, p *setup.Pipeline) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newSetupProgress(p.StageNames(), cancel)
	prog := tea.NewProgram(m)

	p.Quiet = true
	p.StageStarted = func(index, total int, name string) {
		prog.Send(stageStartedMsg{index: index})
	}

	go func() {
		notes, err := p.Run(ctx)
		prog.Send(runFinishedMsg{notes: notes, err: err})
	}()

	finalModel, err := prog.Run()
	if err != nil {
		return err
	}

	final := finalModel.(setupProgressModel)
	return final.err
}
