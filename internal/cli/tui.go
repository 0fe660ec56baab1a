package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// packEntry is one selectable archive in the picker.
type packEntry struct {
	Path string
	Size int64
}

// PackListModel is the bubbletea model for interactive archive selection.
type PackListModel struct {
	Entries  []packEntry
	Cursor   int
	Selected *packEntry
}

// NewPackListModel creates a new pack list model.
func NewPackListModel(entries []packEntry) PackListModel {
	return PackListModel{Entries: entries}
}

func (m PackListModel) Init() tea.Cmd {
	return nil
}

func (m PackListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Entries[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PackListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Asset Pack"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, e := range m.Entries {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-40s  %s", cursor, filepath.Base(e.Path),
			listDimStyle.Render(formatSize(e.Size)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// resolvePackPath turns a user-supplied path into a concrete archive path.
// A file path is returned as-is. A directory with exactly one archive
// resolves to it; a directory with several opens an interactive picker.
func resolvePackPath(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "stat %s", arg)
	}
	if !info.IsDir() {
		return arg, nil
	}

	entries, err := listPacks(arg)
	if err != nil {
		return "", err
	}
	switch len(entries) {
	case 0:
		return "", errors.New(errors.ErrCodeNotFound, "no %s files in %s", packExtension, arg)
	case 1:
		return entries[0].Path, nil
	}

	model, err := tea.NewProgram(NewPackListModel(entries)).Run()
	if err != nil {
		return "", err
	}
	selected := model.(PackListModel).Selected
	if selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no archive selected")
	}
	return selected.Path, nil
}

// listPacks collects the archives directly inside dir, sorted by name.
func listPacks(dir string) ([]packEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []packEntry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), packExtension) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, packEntry{
			Path: filepath.Join(dir, de.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// formatSize renders a byte count for the picker.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
