package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type scanMsg struct {
	report Report
	err    error
}

type tickMsg time.Time

// model polls the directory and animates a progress bar.
type model struct {
	ctx      context.Context
	dir      string
	expected int
	interval time.Duration

	bar    progress.Model
	report Report
	err    error
	done   bool
}

func newModel(ctx context.Context, dir string, expected int, interval time.Duration) model {
	return model{
		ctx:      ctx,
		dir:      dir,
		expected: expected,
		interval: interval,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		report:   Report{Dir: dir, Expected: expected},
	}
}

func (m model) scan() tea.Msg {
	r, err := Check(m.ctx, m.dir, m.expected)
	return scanMsg{report: r, err: err}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return m.scan
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-8, 80), 10)
	case tickMsg:
		return m, m.scan
	case scanMsg:
		m.report, m.err = msg.report, msg.err
		cmd := m.bar.SetPercent(m.report.Percent())
		if m.report.Complete() {
			m.done = true
			return m, tea.Sequence(cmd, tea.Quit)
		}
		return m, tea.Batch(cmd, m.tick())
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(Render(m.report))
	b.WriteString("\n\n  ")
	b.WriteString(m.bar.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %v", m.err)))
		b.WriteString("\n")
	}
	if !m.done {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  refreshing every %v, q to quit", m.interval)))
		b.WriteString("\n")
	}
	return b.String()
}

// Watch shows a live view until the download completes or the user quits.
func Watch(ctx context.Context, dir string, expected int, interval time.Duration) error {
	p := tea.NewProgram(newModel(ctx, dir, expected, interval), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
