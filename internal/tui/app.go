package tui

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/pinsync/internal/config"
	"github.com/user/pinsync/internal/db"
)

const resultLimit = 200

type model struct {
	cfg         *config.Config
	store       *db.Store
	searchInput textinput.Model
	list        list.Model
	width       int
	height      int
	searching   bool
	status      string
	err         error
	open        func(target string) error
}

type bookmarkItem struct {
	bookmark db.Bookmark
}

func (b bookmarkItem) Title() string {
	return b.bookmark.Description
}

func (b bookmarkItem) Description() string {
	if b.bookmark.Tags != "" {
		return fmt.Sprintf("%s  [%s]", b.bookmark.URL, b.bookmark.Tags)
	}
	return b.bookmark.URL
}

func (b bookmarkItem) FilterValue() string {
	return b.bookmark.Description + " " + b.bookmark.Tags
}

func initialModel(cfg *config.Config) model {
	ti := textinput.New()
	ti.Placeholder = "Search bookmarks..."
	ti.CharLimit = 256
	ti.Width = 50

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "pinsync"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return model{
		cfg:         cfg,
		searchInput: ti,
		list:        l,
		open:        openExternal,
	}
}

type initMsg struct {
	store     *db.Store
	bookmarks []db.Bookmark
	err       error
}

type searchMsg struct {
	bookmarks []db.Bookmark
	err       error
}

func (m model) Init() tea.Cmd {
	return m.initStore
}

func (m model) initStore() tea.Msg {
	store, err := db.NewStore(m.cfg.DBPath())
	if err != nil {
		return initMsg{err: err}
	}

	bookmarks, err := store.List(context.Background(), resultLimit)
	if err != nil {
		return initMsg{store: store, err: err}
	}

	return initMsg{store: store, bookmarks: bookmarks}
}

func (m model) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if m.store == nil {
			return searchMsg{err: fmt.Errorf("store not initialized")}
		}

		bookmarks, err := m.store.Search(context.Background(), query, resultLimit)
		return searchMsg{bookmarks: bookmarks, err: err}
	}
}

func (m model) selected() (db.Bookmark, bool) {
	item, ok := m.list.SelectedItem().(bookmarkItem)
	return item.bookmark, ok
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.searching {
				return m, tea.Quit
			}
		case "esc":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
				return m, nil
			}
		case "/":
			if !m.searching {
				m.searching = true
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		case "enter":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
				return m, m.doSearch(m.searchInput.Value())
			}
		case "g":
			if !m.searching {
				m.list.Select(0)
				return m, nil
			}
		case "G":
			if !m.searching {
				if n := len(m.list.Items()); n > 0 {
					m.list.Select(n - 1)
				}
				return m, nil
			}
		case "o":
			if !m.searching {
				if b, ok := m.selected(); ok {
					m.status = openStatus(m.open(b.URL), b.URL)
				}
				return m, nil
			}
		case "f":
			if !m.searching {
				if b, ok := m.selected(); ok {
					dir := filepath.Dir(b.Path)
					m.status = openStatus(m.open(dir), dir)
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-6)
		m.searchInput.Width = msg.Width - 20

	case initMsg:
		m.store = msg.store
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.list.SetItems(bookmarksToItems(msg.bookmarks))

	case searchMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.list.SetItems(bookmarksToItems(msg.bookmarks))
	}

	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func openStatus(err error, target string) string {
	if err != nil {
		return fmt.Sprintf("could not open %s: %v", target, err)
	}
	return "opened " + target
}

func bookmarksToItems(bookmarks []db.Bookmark) []list.Item {
	items := make([]list.Item, 0, len(bookmarks))
	for _, b := range bookmarks {
		items = append(items, bookmarkItem{bookmark: b})
	}
	return items
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var b strings.Builder

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		searchStyle.Render(m.searchInput.View()), "  ", statusStyle.Render(m.status)))
	b.WriteString("\n\n")

	b.WriteString(m.list.View())

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	help := "[j/k]nav [g/G]top/end [/]search [o]pen url [f]older [q]uit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func openExternal(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", target)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	return cmd.Start()
}

// Run starts the bookmark browser.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(model); ok && m.store != nil {
		m.store.Close()
	}
	return err
}
