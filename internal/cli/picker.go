package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/railsmith/railsmith/pkg/backup"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BackupListModel - Interactive backup selection
// =============================================================================

// BackupListModel is the bubbletea model for interactive backup selection.
type BackupListModel struct {
	Entries  []backup.Entry
	Cursor   int
	Selected *backup.Entry
	Height   int
	Offset   int
}

// NewBackupListModel creates a new backup list model.
func NewBackupListModel(entries []backup.Entry) BackupListModel {
	return BackupListModel{
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m BackupListModel) Init() tea.Cmd {
	return nil
}

func (m BackupListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			entry := m.Entries[m.Cursor]
			m.Selected = &entry
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BackupListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Backup"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		label := e.Label
		if label == "" {
			label = e.ID[:8]
		}
		line := fmt.Sprintf("%s%s", cursor, style.Render(label))
		detail := fmt.Sprintf("  %s · %d notes · %d rails · %d walls",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Notes, e.Rails, e.Walls)
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(detail))
		b.WriteString("\n")
	}

	if len(m.Entries) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d", m.Cursor+1, len(m.Entries))))
	}

	return b.String()
}

// pickBackup runs the interactive picker and returns the chosen entry,
// or nil when the user quit without selecting.
func pickBackup(entries []backup.Entry) (*backup.Entry, error) {
	model := NewBackupListModel(entries)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(BackupListModel); ok {
		return m.Selected, nil
	}
	return nil, nil
}
