// Package ui implements the interactive terminal picker used by the formats
// command. Non-interactive callers should check Interactive first and fall
// back to plain output.
package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// Interactive reports whether stdout is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

type model struct {
	title  string
	items  []string
	cursor int
	choice int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			m.choice = -1
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			m.choice = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+item) + "\n")
		} else {
			b.WriteString("  " + item + "\n")
		}
	}
	b.WriteString("\n" + hintStyle.Render("up/down to move, enter to select, q to quit") + "\n")
	return b.String()
}

// Select presents items and returns the chosen index. Returns an error when
// the user aborts or there is nothing to pick from.
func Select(title string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	res, err := tea.NewProgram(model{title: title, items: items, choice: -1}).Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}

	final, ok := res.(model)
	if !ok || final.choice < 0 {
		return -1, fmt.Errorf("selection aborted")
	}
	return final.choice, nil
}
