// Package tui is the terminal viewer for stored CSV files.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"csvapi/internal/model"
)

const requestTimeout = 15 * time.Second

// FilesPort is the viewer-facing subset of the HTTP client.
type FilesPort interface {
	ListFiles(ctx context.Context) ([]model.FileRecord, error)
	Content(ctx context.Context, id string) (string, error)
}

type fileItem struct {
	id   string
	name string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.id }
func (i fileItem) FilterValue() string { return i.name }

type filesLoadedMsg struct {
	files []model.FileRecord
	err   error
}

type contentLoadedMsg struct {
	id   string
	text string
	err  error
}

type focus int

const (
	focusList focus = iota
	focusContent
)

// Model is the Bubble Tea model: a file list on the left and the selected file's content on the right.
// Content is fetched again on every selection change.
type Model struct {
	ctx      context.Context
	api      FilesPort
	list     list.Model
	viewport viewport.Model
	selected *fileItem
	content  string
	focus    focus
	status   string
	ready    bool
}

// New creates the viewer model. ctx bounds every request the viewer makes.
func New(ctx context.Context, api FilesPort) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Files"
	l.SetShowHelp(false)
	l.SetStatusBarItemName("file", "files")
	return Model{
		ctx:      ctx,
		api:      api,
		list:     l,
		viewport: viewport.New(0, 0),
		status:   "Loading files...",
	}
}

func (m Model) Init() tea.Cmd { return m.loadFiles() }

func (m Model) loadFiles() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()
		files, err := m.api.ListFiles(ctx)
		return filesLoadedMsg{files: files, err: err}
	}
}

func (m Model) loadContent(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, requestTimeout)
		defer cancel()
		text, err := m.api.Content(ctx, id)
		return contentLoadedMsg{id: id, text: text, err: err}
	}
}

// Selected returns the id and name of the selected file, if any.
func (m Model) Selected() (id, name string, ok bool) {
	if m.selected == nil {
		return "", "", false
	}
	return m.selected.id, m.selected.name, true
}

// Content returns the text loaded into the content pane.
func (m Model) Content() string { return m.content }

func (m *Model) setContent(text string) {
	m.content = text
	m.viewport.SetContent(text)
	m.viewport.GotoTop()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.resize(msg.Width, msg.Height)
		return m, nil

	case filesLoadedMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.files))
		for _, f := range msg.files {
			items = append(items, fileItem{id: f.FileID, name: f.FileName})
		}
		cmd := m.list.SetItems(items)
		m.status = fmt.Sprintf("%d files", len(items))
		if len(items) == 0 {
			m.selected = nil
			m.setContent("No files uploaded yet.")
			return m, cmd
		}
		fetch := m.selectCurrent()
		return m, tea.Batch(cmd, fetch)

	case contentLoadedMsg:
		if m.selected == nil || msg.id != m.selected.id {
			return m, nil
		}
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.setContent("")
			return m, nil
		}
		m.status = m.selected.name
		m.setContent(msg.text)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			if m.focus == focusList {
				m.focus = focusContent
			} else {
				m.focus = focusList
			}
			return m, nil
		case "r":
			m.status = "Loading files..."
			return m, m.loadFiles()
		case "enter":
			if m.focus == focusList {
				fetch := m.selectCurrent()
				return m, fetch
			}
		}
		if m.focus == focusContent {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	before := m.list.Index()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if it, ok := m.list.SelectedItem().(fileItem); ok && (m.list.Index() != before || m.selected == nil || m.selected.id != it.id) {
		fetch := m.selectCurrent()
		return m, tea.Batch(cmd, fetch)
	}
	return m, cmd
}

// selectCurrent records the highlighted item as the selection and fetches its content.
func (m *Model) selectCurrent() tea.Cmd {
	it, ok := m.list.SelectedItem().(fileItem)
	if !ok {
		return nil
	}
	m.selected = &it
	m.status = "Loading " + it.name + "..."
	return m.loadContent(it.id)
}

func (m *Model) resize(width, height int) {
	lw, lh := listBoxStyle.GetFrameSize()
	cw, ch := contentBoxStyle.GetFrameSize()
	bodyHeight := max(3, height-2) // header + status

	listWidth := max(20, width/3)
	m.list.SetSize(listWidth, max(1, bodyHeight-lh))
	m.viewport.Width = max(10, width-listWidth-lw-cw)
	m.viewport.Height = max(1, bodyHeight-ch)
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("CSV Viewer")
	if m.selected != nil {
		header += "  " + dimStyle.Render(m.selected.name)
	}

	listBox, contentBox := listBoxStyle, contentBoxStyle
	if m.focus == focusList {
		listBox = listBox.BorderForeground(activeBorder)
	} else {
		contentBox = contentBox.BorderForeground(activeBorder)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		listBox.Render(m.list.View()),
		contentBox.Render(m.viewport.View()),
	)
	status := statusStyle.Render(m.status) + dimStyle.Render("  tab: switch pane  r: reload  q: quit")
	return header + "\n" + body + "\n" + status
}

var (
	activeBorder    = lipgloss.Color("12")
	headerStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	listBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	contentBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
