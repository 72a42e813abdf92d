// Package ui implements the interactive terminal interface: a downloads
// tab where URLs are queued for extraction and a library tab listing saved
// videos. Each queued URL runs through the pipeline as its own tea.Cmd, so
// extractions proceed concurrently and independently.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"streamdock/internal/extract"
	"streamdock/internal/library"
	"streamdock/internal/media"
)

type tab int

const (
	tabDownloads tab = iota
	tabLibrary
)

type itemStatus int

const (
	statusProcessing itemStatus = iota
	statusReady
	statusFailed
	statusSaved
)

// queueItem is one submitted URL and its extraction state.
type queueItem struct {
	url    string
	status itemStatus
	video  *media.ExtractedVideo
	errMsg string
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	readyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	savedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// Model is the bubbletea model for the whole TUI.
type Model struct {
	pipeline *extract.Pipeline
	store    *library.Store

	input   textinput.Model
	spin    spinner.Model
	tab     tab
	typing  bool // input focused (downloads tab only)
	queue   []queueItem
	videos  []media.LibraryVideo
	cursor  int
	footer  string
	errText string
}

// New builds the initial model.
func New(pipeline *extract.Pipeline, store *library.Store) Model {
	input := textinput.New()
	input.Placeholder = "Paste a video page URL and press enter"
	input.CharLimit = 2048
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		pipeline: pipeline,
		store:    store,
		input:    input,
		spin:     spin,
		typing:   true,
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(pipeline *extract.Pipeline, store *library.Store) error {
	_, err := tea.NewProgram(New(pipeline, store), tea.WithAltScreen()).Run()
	return err
}

type extractDoneMsg struct {
	index int
	video *media.ExtractedVideo
	err   error
}

type libraryLoadedMsg struct {
	videos []media.LibraryVideo
	err    error
}

type savedMsg struct {
	index int
	err   error
}

type deletedMsg struct {
	err error
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.loadLibrary())
}

func (m Model) loadLibrary() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		videos, err := store.List()
		return libraryLoadedMsg{videos: videos, err: err}
	}
}

func (m Model) extractCmd(index int, url string) tea.Cmd {
	pipeline := m.pipeline
	return func() tea.Msg {
		video, err := pipeline.Extract(context.Background(), url)
		return extractDoneMsg{index: index, video: video, err: err}
	}
}

func (m Model) saveCmd(index int) tea.Cmd {
	store := m.store
	video := m.queue[index].video
	return func() tea.Msg {
		_, err := store.Add(media.LibraryVideo{
			Title:     video.Title,
			URL:       video.PlaybackURL(),
			Thumbnail: video.Thumbnail,
			Source:    video.Source,
		})
		return savedMsg{index: index, err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return deletedMsg{err: store.Delete(id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case extractDoneMsg:
		if msg.index >= 0 && msg.index < len(m.queue) {
			item := &m.queue[msg.index]
			if msg.err != nil {
				item.status = statusFailed
				item.errMsg = msg.err.Error()
			} else {
				item.status = statusReady
				item.video = msg.video
			}
		}
		return m, nil

	case libraryLoadedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.videos = msg.videos
		if m.cursor >= len(m.videos) {
			m.cursor = 0
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		if msg.index >= 0 && msg.index < len(m.queue) {
			m.queue[msg.index].status = statusSaved
		}
		m.footer = "Saved to library"
		return m, m.loadLibrary()

	case deletedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.footer = "Deleted"
		return m, m.loadLibrary()
	}

	if m.typing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.tab == tabDownloads {
			m.tab = tabLibrary
			m.typing = false
			m.input.Blur()
			m.cursor = 0
			return m, m.loadLibrary()
		}
		m.tab = tabDownloads
		m.typing = true
		m.input.Focus()
		m.cursor = 0
		return m, textinput.Blink
	}

	if m.tab == tabDownloads {
		return m.handleDownloadsKey(msg)
	}
	return m.handleLibraryKey(msg)
}

func (m Model) handleDownloadsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing {
		switch msg.String() {
		case "enter":
			url := strings.TrimSpace(m.input.Value())
			if url == "" {
				return m, nil
			}
			m.queue = append(m.queue, queueItem{url: url, status: statusProcessing})
			m.input.SetValue("")
			m.footer = ""
			return m, tea.Batch(m.extractCmd(len(m.queue)-1, url), m.spin.Tick)
		case "esc":
			if len(m.queue) > 0 {
				m.typing = false
				m.input.Blur()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "i":
		m.typing = true
		m.input.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.queue)-1 {
			m.cursor++
		}
	case "s":
		if m.cursor < len(m.queue) && m.queue[m.cursor].status == statusReady {
			return m, m.saveCmd(m.cursor)
		}
	}
	return m, nil
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.videos)-1 {
			m.cursor++
		}
	case "d":
		if m.cursor < len(m.videos) {
			return m, m.deleteCmd(m.videos[m.cursor].ID)
		}
	case "r":
		return m, m.loadLibrary()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("streamdock"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.tab == tabDownloads {
		b.WriteString(m.renderDownloads())
	} else {
		b.WriteString(m.renderLibrary())
	}

	if m.errText != "" {
		b.WriteString("\n" + failedStyle.Render(m.errText))
	}
	if m.footer != "" {
		b.WriteString("\n" + dimStyle.Render(m.footer))
	}
	b.WriteString("\n" + dimStyle.Render(m.helpLine()))

	return b.String()
}

func (m Model) renderTabs() string {
	downloads := "Downloads"
	lib := fmt.Sprintf("Library (%d)", len(m.videos))
	if m.tab == tabDownloads {
		return activeTabStyle.Render(downloads) + dimStyle.Render("  "+lib)
	}
	return dimStyle.Render(downloads+"  ") + activeTabStyle.Render(lib)
}

func (m Model) renderDownloads() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.queue) == 0 {
		b.WriteString(dimStyle.Render("No URLs queued yet."))
		return b.String()
	}

	for i, item := range m.queue {
		prefix := "  "
		if !m.typing && i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + m.renderQueueItem(item) + "\n")
	}
	return b.String()
}

func (m Model) renderQueueItem(item queueItem) string {
	switch item.status {
	case statusProcessing:
		return fmt.Sprintf("%s %s %s", m.spin.View(), item.url, dimStyle.Render("extracting..."))
	case statusReady:
		return fmt.Sprintf("%s %s", readyStyle.Render("ready"), item.video.Title)
	case statusSaved:
		return fmt.Sprintf("%s %s", savedStyle.Render("saved"), item.video.Title)
	default:
		return fmt.Sprintf("%s %s %s", failedStyle.Render("failed"), item.url, dimStyle.Render(item.errMsg))
	}
}

func (m Model) renderLibrary() string {
	if len(m.videos) == 0 {
		return dimStyle.Render("Library is empty. Extract a video and press s to save it.")
	}

	var b strings.Builder
	for i, v := range m.videos {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		line := v.Title
		if v.WatchProgress > 0 {
			line += dimStyle.Render(fmt.Sprintf("  [%.0f%%]", v.WatchProgress*100))
		}
		if len(v.Tags) > 0 {
			line += dimStyle.Render("  #" + strings.Join(v.Tags, " #"))
		}
		b.WriteString(prefix + line + "\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	if m.tab == tabLibrary {
		return "tab: downloads • j/k: move • d: delete • r: refresh • q: quit"
	}
	if m.typing {
		return "enter: extract • esc: browse queue • tab: library • ctrl+c: quit"
	}
	return "s: save to library • i: edit URL • j/k: move • tab: library • q: quit"
}
