package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/runner"
)

type viewerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Detail key.Binding
	Quit   key.Binding
}

func (k viewerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Detail, k.Quit}
}

func (k viewerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultViewerKeys = viewerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Detail: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "detail")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// reportModel lets the user browse verdicts after a run.
type reportModel struct {
	keys     viewerKeys
	help     help.Model
	ruleset  string
	file     string
	report   runner.Report
	selected int
	expanded bool
}

func newReportModel(cc *config.ChiselContext, report runner.Report) *reportModel {
	m := &reportModel{
		keys:   defaultViewerKeys,
		help:   help.New(),
		report: report,
	}
	if cc != nil {
		m.ruleset = cc.Ruleset
		m.file = cc.File
	}
	return m
}

func (m *reportModel) Init() tea.Cmd {
	return nil
}

func (m *reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
				m.expanded = false
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.report.Verdicts)-1 {
				m.selected++
				m.expanded = false
			}
		case key.Matches(msg, m.keys.Detail):
			m.expanded = !m.expanded
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *reportModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("chisel"))
	fmt.Fprintf(&b, " %s  %s\n\n", m.ruleset, m.file)

	if len(m.report.Verdicts) == 0 {
		b.WriteString("No checks configured.\n")
	}
	for i, v := range m.report.Verdicts {
		line := styledStatus(v.Name, v.Passed)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + v.Name))
			b.WriteString(strings.TrimPrefix(line, v.Name))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
		if i == m.selected && m.expanded {
			b.WriteString(detailStyle.Render(detailText(v.Detail, v.Passed)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.report.Overall {
		b.WriteString(goodStyle.Render("all checks passed"))
	} else {
		b.WriteString(badStyle.Render(fmt.Sprintf("%d of %d checks failed",
			len(m.report.Failed()), len(m.report.Verdicts))))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func detailText(detail string, passed bool) string {
	switch {
	case detail != "":
		return detail
	case passed:
		return "requirements met"
	default:
		return "requirements not met"
	}
}

func runViewer(cc *config.ChiselContext, report runner.Report, out io.Writer) error {
	p := tea.NewProgram(newReportModel(cc, report), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
