package tui

import (
	"fmt"
	"os"
	"strings"

	pb "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/katharostech/cast2gif/progress"
)

// countersMsg delivers a progress snapshot to the model.
type countersMsg progress.Counters

// doneMsg tells the model the conversion finished.
type doneMsg struct{}

// Model is the Bubble Tea model for conversion progress.
type Model struct {
	bar      pb.Model
	counters progress.Counters
	done     bool
	cancel   func()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case countersMsg:
		m.counters = progress.Counters(msg)
		return m, nil

	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	c := m.counters

	var percent float64
	if c.Total > 0 {
		percent = float64(c.Sequenced) / float64(c.Total)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("cast2gif"))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString("\n\n")
	b.WriteString(LabelStyle.Render("sampled") + ValueStyle.Render(fmt.Sprintf("%d", c.Total)) + "\n")
	b.WriteString(LabelStyle.Render("rendered") + ValueStyle.Render(fmt.Sprintf("%d", c.Rasterized)) + "\n")
	b.WriteString(LabelStyle.Render("sequenced") + ValueStyle.Render(fmt.Sprintf("%d", c.Sequenced)) + "\n")
	if m.done {
		b.WriteString("\n" + DoneStyle.Render("done") + "\n")
	}
	return b.String()
}

// Program runs the progress TUI alongside a conversion job.
type Program struct {
	p    *tea.Program
	done chan struct{}
}

// Run starts the TUI on stderr, leaving stdout free for piped output.
// cancel is invoked when the user interrupts from inside the TUI.
func Run(cancel func()) *Program {
	m := Model{
		bar:    pb.New(pb.WithDefaultGradient()),
		cancel: cancel,
	}
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	prog := &Program{p: p, done: make(chan struct{})}
	go func() {
		_, _ = p.Run()
		close(prog.done)
	}()
	return prog
}

// Observer returns the progress observer feeding this TUI. Safe to call
// from the aggregator goroutine.
func (p *Program) Observer() progress.Observer {
	return func(c progress.Counters) {
		p.p.Send(countersMsg(c))
	}
}

// Finish tells the TUI the job is over and waits for it to shut down.
func (p *Program) Finish() {
	p.p.Send(doneMsg{})
	<-p.done
}
