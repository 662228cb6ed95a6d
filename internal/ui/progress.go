// Package ui renders generation progress and finished artifacts in the
// terminal.
package ui

import (
	"context"
	"fmt"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/edugen/internal/ui/components"
	"github.com/abhisek/edugen/internal/ui/theme"
)

const barWidth = 40

// WorkFunc performs a generation, reporting percentages to onProgress.
type WorkFunc func(ctx context.Context, onProgress func(percent int)) error

// progressMsg carries a percentage reported by the work.
type progressMsg int

// doneMsg is sent once the work returns.
type doneMsg struct {
	err error
}

// progressModel shows a spinner and a progress bar until the work is done.
type progressModel struct {
	label       string
	spinner     spinner.Model
	percent     int
	done        bool
	err         error
	interrupted bool
}

func newProgressModel(label string) progressModel {
	return progressModel{
		label: label,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Spinner),
		),
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.percent = max(m.percent, int(msg))
		return m, nil

	case doneMsg:
		m.done = true
		m.err = msg.err
		if msg.err == nil {
			m.percent = 100
		}
		return m, tea.Quit

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m progressModel) render() string {
	switch {
	case m.done && m.err != nil:
		return theme.Failure.Render("✗ "+m.label) + "\n"
	case m.done:
		return theme.Answer.Render("✓ "+m.label) + "\n"
	case m.interrupted:
		return theme.Hint.Render("canceling...") + "\n"
	}
	bar := components.NewProgressBar("", m.percent, true, barWidth)
	return fmt.Sprintf("%s %s\n%s\n", m.spinner.View(), theme.Label.Render(m.label), bar.View())
}

// RunWithProgress runs work while showing its progress on stderr. Progress
// updates are dropped rather than delayed when the display falls behind, so
// the work never blocks on rendering. Interrupting the display cancels the
// work. The display is best effort: its own failures are ignored and the
// work's result is returned.
func RunWithProgress(ctx context.Context, label string, work WorkFunc, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithOutput(os.Stderr), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(newProgressModel(label), opts...)

	updates := make(chan int, 16)
	onProgress := func(pct int) {
		select {
		case updates <- pct:
		default:
		}
	}

	go func() {
		for {
			select {
			case pct := <-updates:
				p.Send(progressMsg(pct))
			case <-ctx.Done():
				return
			}
		}
	}()

	result := make(chan error, 1)
	go func() {
		err := work(ctx, onProgress)
		result <- err
		p.Send(doneMsg{err: err})
	}()

	final, _ := p.Run()
	if m, ok := final.(progressModel); !ok || !m.done {
		cancel()
	}
	return <-result
}
