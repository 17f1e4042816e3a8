package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/libyal-go/fsntfs"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserModel struct {
	prof    *profile
	vol     *fsntfs.Volume
	cleanup func()
	err     error

	dirs      []*fsntfs.FileEntry
	path      []string
	items     []itemInfo
	selected  int
	detail    string
	pathInput textinput.Model
	state     browserState
}

type itemInfo struct {
	name string
	size uint64
	dir  bool
}

type browserState int

const (
	stateBrowse browserState = iota
	stateDetail
	stateGotoPath
)

func newBrowserModel(prof *profile) *browserModel {
	return &browserModel{prof: prof, state: stateBrowse}
}

type loadedMsg struct {
	err     error
	vol     *fsntfs.Volume
	cleanup func()
	root    *fsntfs.FileEntry
	items   []itemInfo
}

type enteredMsg struct {
	err   error
	dir   *fsntfs.FileEntry
	name  string
	items []itemInfo
}

type leftMsg struct {
	err   error
	items []itemInfo
}

type detailMsg struct {
	err    error
	detail string
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadVolume
}

func (m *browserModel) loadVolume() tea.Msg {
	vol, cleanup, err := openVolume(m.prof)
	if err != nil {
		return loadedMsg{err: err}
	}
	root, err := vol.RootDirectory()
	if err != nil {
		cleanup()
		return loadedMsg{err: err}
	}
	items, err := listEntries(root)
	if err != nil {
		cleanup()
		return loadedMsg{err: err}
	}
	return loadedMsg{vol: vol, cleanup: cleanup, root: root, items: items}
}

// listEntries derives each child just long enough to read its metadata.
func listEntries(dir *fsntfs.FileEntry) ([]itemInfo, error) {
	n, err := dir.SubEntryCount()
	if err != nil {
		return nil, err
	}
	items := make([]itemInfo, 0, n)
	for i := 0; i < n; i++ {
		sub, err := dir.SubEntry(i)
		if err != nil {
			return nil, err
		}
		item, err := describeItem(sub)
		sub.Close()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func describeItem(sub *fsntfs.FileEntry) (itemInfo, error) {
	name, err := sub.Name()
	if err != nil {
		return itemInfo{}, err
	}
	size, err := sub.Size()
	if err != nil {
		return itemInfo{}, err
	}
	subCount, err := sub.SubEntryCount()
	if err != nil {
		return itemInfo{}, err
	}
	return itemInfo{name: name, size: size, dir: subCount > 0}, nil
}

func (m *browserModel) enterSelected() tea.Msg {
	item := m.items[m.selected]
	dir := m.dirs[len(m.dirs)-1]
	sub, err := dir.SubEntryByName(item.name)
	if err != nil {
		return enteredMsg{err: err}
	}
	items, err := listEntries(sub)
	if err != nil {
		sub.Close()
		return enteredMsg{err: err}
	}
	return enteredMsg{dir: sub, name: item.name, items: items}
}

func (m *browserModel) leaveDir() tea.Msg {
	last := m.dirs[len(m.dirs)-1]
	if err := last.Close(); err != nil {
		return leftMsg{err: err}
	}
	parent := m.dirs[len(m.dirs)-2]
	items, err := listEntries(parent)
	if err != nil {
		return leftMsg{err: err}
	}
	return leftMsg{items: items}
}

func (m *browserModel) showDetail() tea.Msg {
	item := m.items[m.selected]
	dir := m.dirs[len(m.dirs)-1]
	sub, err := dir.SubEntryByName(item.name)
	if err != nil {
		return detailMsg{err: err}
	}
	defer sub.Close()

	detail, err := describeEntry(sub)
	if err != nil {
		return detailMsg{err: err}
	}
	return detailMsg{detail: detail}
}

func (m *browserModel) showDetailForPath() tea.Msg {
	path := strings.ReplaceAll(m.pathInput.Value(), "/", "\\")
	if !strings.HasPrefix(path, "\\") {
		path = "\\" + path
	}
	entry, err := m.vol.FileEntryByPath(path)
	if err != nil {
		return detailMsg{err: err}
	}
	defer entry.Close()

	detail, err := describeEntry(entry)
	if err != nil {
		return detailMsg{err: err}
	}
	return detailMsg{detail: detail}
}

func describeEntry(e *fsntfs.FileEntry) (string, error) {
	var b strings.Builder

	name, err := e.Name()
	if err != nil {
		return "", err
	}
	size, err := e.Size()
	if err != nil {
		return "", err
	}
	fileRef, err := e.FileReference()
	if err != nil {
		return "", err
	}
	flags, err := e.AttributeFlags()
	if err != nil {
		return "", err
	}
	created, err := e.CreationTime()
	if err != nil {
		return "", err
	}
	modified, err := e.ModificationTime()
	if err != nil {
		return "", err
	}

	fmt.Fprintf(&b, "Name:            %s\n", name)
	fmt.Fprintf(&b, "Size:            %d\n", size)
	fmt.Fprintf(&b, "File reference:  0x%016x\n", fileRef)
	fmt.Fprintf(&b, "Attribute flags: 0x%08x\n", flags)
	if !created.IsZero() {
		fmt.Fprintf(&b, "Created:         %s\n", created.Format("2006-01-02 15:04:05 MST"))
	}
	if !modified.IsZero() {
		fmt.Fprintf(&b, "Modified:        %s\n", modified.Format("2006-01-02 15:04:05 MST"))
	}

	attrCount, err := e.AttributeCount()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "\nAttributes (%d):\n", attrCount)
	for i := 0; i < attrCount; i++ {
		attr, err := e.Attribute(i)
		if err != nil {
			return "", err
		}
		attrType, terr := attr.Type()
		attrName, nerr := attr.Name()
		dataSize, derr := attr.DataSize()
		attr.Close()
		if terr != nil {
			return "", terr
		}
		if nerr != nil {
			return "", nerr
		}
		if derr != nil {
			return "", derr
		}
		line := fmt.Sprintf("  %-24s", attrType)
		if attrName != "" {
			line += " " + attrName
		}
		fmt.Fprintf(&b, "%s %d bytes\n", line, dataSize)
	}

	return b.String(), nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateGotoPath {
			switch msg.String() {
			case "ctrl+c":
				if m.cleanup != nil {
					m.cleanup()
				}
				return m, tea.Quit
			case "enter":
				return m, m.showDetailForPath
			case "esc":
				m.state = stateBrowse
				return m, nil
			}
			var cmd tea.Cmd
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			if m.cleanup != nil {
				m.cleanup()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.items)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateBrowse && m.selected < len(m.items) {
				if m.items[m.selected].dir {
					return m, m.enterSelected
				}
				return m, m.showDetail
			}

		case "d":
			if m.state == stateBrowse && m.selected < len(m.items) {
				return m, m.showDetail
			}

		case "/":
			if m.state == stateBrowse {
				ti := textinput.New()
				ti.Placeholder = `\Windows\notepad.exe`
				ti.Prompt = "path: "
				ti.Width = 60
				ti.Focus()
				m.pathInput = ti
				m.state = stateGotoPath
			}

		case "esc", "backspace":
			switch m.state {
			case stateDetail:
				m.state = stateBrowse
				m.detail = ""
				m.err = nil
			case stateBrowse:
				if len(m.dirs) > 1 {
					return m, m.leaveDir
				}
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.vol = msg.vol
		m.cleanup = msg.cleanup
		m.dirs = []*fsntfs.FileEntry{msg.root}
		m.path = nil
		m.items = msg.items
		m.selected = 0

	case enteredMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.dirs = append(m.dirs, msg.dir)
		m.path = append(m.path, msg.name)
		m.items = msg.items
		m.selected = 0

	case leftMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.dirs = m.dirs[:len(m.dirs)-1]
		m.path = m.path[:len(m.path)-1]
		m.items = msg.items
		m.selected = 0

	case detailMsg:
		m.detail = msg.detail
		m.err = msg.err
		m.state = stateDetail
	}

	return m, nil
}

func (m *browserModel) View() string {
	if m.err != nil && m.state != stateDetail {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.vol == nil {
		return "Opening volume..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("NTFS Browser"))
	b.WriteString(" \\")
	b.WriteString(strings.Join(m.path, "\\"))
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		if len(m.items) == 0 {
			b.WriteString(helpStyle.Render("(empty directory)"))
			b.WriteString("\n")
		}
		for i, item := range m.items {
			line := m.formatItem(item)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • d detail • / go to path • esc up • q quit"))

	case stateDetail:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(detailStyle.Render(m.detail))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))

	case stateGotoPath:
		b.WriteString(m.pathInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter show • esc back"))
	}

	return b.String()
}

func (m *browserModel) formatItem(item itemInfo) string {
	if item.dir {
		return dirStyle.Render(item.name+"\\") + fmt.Sprintf("  %d", item.size)
	}
	return fileStyle.Render(item.name) + fmt.Sprintf("  %d", item.size)
}

func runInteractive(prof *profile) error {
	p := tea.NewProgram(newBrowserModel(prof), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
