package report

import (
	"fmt"
	"io"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type accountDoneMsg struct {
	result domain.PostResult
}

type postingDoneMsg struct{}

// progressModel lists accounts as they finish, above a spinner counting
// the ones still running.
type progressModel struct {
	spinner  spinner.Model
	styles   styles
	total    int
	done     []domain.PostResult
	finished bool
}

func newProgressModel(total int) progressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return progressModel{spinner: s, styles: newStyles(), total: total}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case accountDoneMsg:
		m.done = append(m.done, msg.result)
		return m, nil
	case postingDoneMsg:
		m.finished = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m progressModel) View() string {
	if m.finished {
		return ""
	}

	lines := make([]string, 0, len(m.done)+1)
	for _, result := range m.done {
		lines = append(lines, resultHead(result, m.styles))
	}
	lines = append(lines, fmt.Sprintf("%s Posting %d/%d", m.spinner.View(), len(m.done), m.total))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// ShowProgress runs post while output shows each account as it finishes.
// post receives the callback to report results with; it may be called from
// several goroutines. The view is cleared once post returns, and
// ShowProgress does not return before post does.
func ShowProgress(output io.Writer, total int, post func(progress func(domain.PostResult))) error {
	p := tea.NewProgram(
		newProgressModel(total),
		tea.WithInput(nil),
		tea.WithOutput(output),
		// Interrupts cancel the caller's context instead, so every account
		// still gets a result.
		tea.WithoutSignalHandler(),
	)

	posted := make(chan struct{})
	go func() {
		defer close(posted)
		post(func(result domain.PostResult) {
			p.Send(accountDoneMsg{result: result})
		})
		p.Send(postingDoneMsg{})
	}()

	_, err := p.Run()
	<-posted
	return err
}
