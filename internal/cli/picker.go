package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/labelforge/labelforge/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// workbookEntry is one selectable file in the picker.
type workbookEntry struct {
	Name string
	Size int64
}

// WorkbookListModel is the bubbletea model for interactive workbook selection.
type WorkbookListModel struct {
	Entries  []workbookEntry
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewWorkbookListModel creates a new workbook list model.
func NewWorkbookListModel(entries []workbookEntry) WorkbookListModel {
	return WorkbookListModel{
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m WorkbookListModel) Init() tea.Cmd {
	return nil
}

func (m WorkbookListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			m.Selected = m.Entries[m.Cursor].Name
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

func (m WorkbookListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Workbook"))
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
		b.WriteString(cursor + style.Render(e.Name))
		b.WriteString("  " + listDimStyle.Render(formatSize(e.Size)))
		b.WriteString("\n")
	}

	return b.String()
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// listWorkbooks returns the workbook files in dir, sorted by name.
func listWorkbooks(dir string) ([]workbookEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []workbookEntry
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".xlsx" && ext != ".xls" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, workbookEntry{Name: entry.Name(), Size: info.Size()})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// pickWorkbook shows the interactive picker over the workbooks in dir and
// returns the chosen path. Returns an error if the directory has no
// workbooks or the user quits without selecting.
func pickWorkbook(dir string) (string, error) {
	entries, err := listWorkbooks(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New(errors.ErrCodeFileNotFound, "no workbooks found in %s", dir)
	}

	model, err := tea.NewProgram(NewWorkbookListModel(entries)).Run()
	if err != nil {
		return "", err
	}

	final, ok := model.(WorkbookListModel)
	if !ok || final.Selected == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no workbook selected")
	}
	return filepath.Join(dir, final.Selected), nil
}
