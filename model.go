package main

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"memovox/internal/audio"
	"memovox/internal/config"
	"memovox/internal/memo"
	"memovox/internal/player"
	"memovox/internal/record"
)

// Application state
type AppState int

const (
	StateViewing AppState = iota
	StateRecording
	StateRenaming
	StateSearching
)

// How far left/right arrows move the playback cursor.
const skipSeconds = 5.0

// memoItem adapts a memo for the bubbles list.
type memoItem struct {
	memo    *memo.Memo
	active  bool
	playing bool
}

func (i memoItem) Title() string {
	return truncateText(i.memo.Title, 30)
}

func (i memoItem) Description() string {
	desc := fmt.Sprintf("%s · %s", formatSeconds(i.memo.Duration), i.memo.CreatedAt.Format("15:04:05"))
	if i.active {
		if i.playing {
			desc += " · ▶ playing"
		} else {
			desc += " · ⏸ paused"
		}
	}
	return desc
}

func (i memoItem) FilterValue() string {
	return i.memo.Title
}

// Placeholder item for the empty list
type placeholderItem struct{}

func (p placeholderItem) Title() string       { return "No memos yet. Press SPACE to record your first one!" }
func (p placeholderItem) Description() string { return "" }
func (p placeholderItem) FilterValue() string { return "" }

// Truncate text to specified length
func truncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength-3] + "..."
}

// Format seconds as mm:ss
func formatSeconds(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Key bindings
type keyMap struct {
	Record   key.Binding
	Select   key.Binding
	SkipBack key.Binding
	SkipFwd  key.Binding
	Speed    key.Binding
	Mode     key.Binding
	Search   key.Binding
	Rename   key.Binding
	Delete   key.Binding
	Export   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Escape   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Select, k.Speed, k.Mode, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Select, k.SkipBack, k.SkipFwd, k.Up, k.Down},
		{k.Speed, k.Mode, k.Search, k.Rename, k.Delete, k.Export},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Record: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "record/stop"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "play/pause"),
	),
	SkipBack: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "back 5s"),
	),
	SkipFwd: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "fwd 5s"),
	),
	Speed: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "speed"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "loop mode"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Rename: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "export"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
	),
}

// Model represents the application state
type Model struct {
	// Core components
	cfg     *config.Config
	store   *memo.Store
	ctrl    *player.Controller
	session *record.Session
	events  <-chan player.Event

	state AppState
	query string

	// UI components
	memoList  list.Model
	textInput textinput.Model
	help      help.Model

	// Visualization while recording (cosmetic, not derived from audio)
	waveform       []float32
	recordingPulse int

	// User notifications
	notification   string
	notificationAt time.Time

	// Dimensions
	width  int
	height int
}

// Initialize the application
func initialModel(cfg *config.Config, store *memo.Store, ctrl *player.Controller, session *record.Session, events <-chan player.Event) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter memo name..."
	ti.CharLimit = 50
	ti.Width = 30

	h := help.New()
	h.Width = 80

	memoList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	memoList.Title = "MEMOS"
	memoList.Styles.Title = titleStyle
	memoList.SetShowHelp(false)
	memoList.SetSize(44, 15)
	memoList.SetFilteringEnabled(false) // search is our own filter

	m := Model{
		cfg:       cfg,
		store:     store,
		ctrl:      ctrl,
		session:   session,
		events:    events,
		state:     StateViewing,
		memoList:  memoList,
		textInput: ti,
		help:      h,
	}
	m.refreshItems()
	return m
}

// Tea program messages
type tickMsg time.Time
type playerEventMsg player.Event

// Tick command for elapsed time and animations
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listenEvents waits for the next playback handle notification.
func listenEvents(events <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		return playerEventMsg(<-events)
	}
}

// Initialize the program
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), listenEvents(m.events))
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.memoList.SetSize(44, msg.Height-14)

	case tea.KeyMsg:
		switch m.state {
		case StateRenaming, StateSearching:
			return m.handleTextInput(msg)
		default:
			return m.handleMainKeys(msg)
		}

	case tickMsg:
		if m.session.Active() {
			m.recordingPulse = (m.recordingPulse + 1) % 20
			m.updateWaveform()
		}
		if !m.notificationAt.IsZero() && time.Since(m.notificationAt) > 3*time.Second {
			m.notification = ""
			m.notificationAt = time.Time{}
		}
		cmds = append(cmds, tick())

	case playerEventMsg:
		ev := player.Event(msg)
		m.ctrl.Dispatch(ev)
		if ev.Kind == player.EventEnded || ev.Kind == player.EventPlayStateChanged {
			m.refreshItems()
		}
		cmds = append(cmds, listenEvents(m.events))
	}

	return m, tea.Batch(cmds...)
}

// Handle text input for renaming and searching
func (m Model) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, keys.Enter):
		if m.state == StateRenaming {
			if sel := m.selectedMemo(); sel != nil && m.textInput.Value() != "" {
				m.store.Rename(sel.ID, m.textInput.Value())
			}
		}
		m.state = StateViewing
		m.textInput.Reset()
		m.refreshItems()

	case key.Matches(msg, keys.Escape):
		if m.state == StateSearching {
			m.query = ""
		}
		m.state = StateViewing
		m.textInput.Reset()
		m.refreshItems()

	default:
		m.textInput, cmd = m.textInput.Update(msg)
		if m.state == StateSearching {
			// Recompute the filter on every query change.
			m.query = m.textInput.Value()
			m.refreshItems()
		}
	}

	return m, cmd
}

// Handle main keyboard input
func (m Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, keys.Record):
		if m.session.Active() {
			m.stopRecording()
		} else {
			m.startRecording()
		}

	case key.Matches(msg, keys.Select):
		// The capture device owns the audio host while recording; playback
		// stays paused until the session stops.
		if m.session.Active() {
			break
		}
		if sel := m.selectedMemo(); sel != nil {
			if err := m.ctrl.Select(sel.ID); err != nil {
				m.showNotification("Playback failed")
			}
			m.refreshItems()
		}

	case key.Matches(msg, keys.SkipBack):
		if !m.session.Active() {
			m.ctrl.Skip(-skipSeconds)
		}

	case key.Matches(msg, keys.SkipFwd):
		if !m.session.Active() {
			m.ctrl.Skip(skipSeconds)
		}

	case key.Matches(msg, keys.Speed):
		m.ctrl.CycleRate()

	case key.Matches(msg, keys.Mode):
		m.ctrl.CycleMode()

	case key.Matches(msg, keys.Search):
		m.state = StateSearching
		m.textInput.Placeholder = "Search memos..."
		m.textInput.SetValue(m.query)
		m.textInput.Focus()

	case key.Matches(msg, keys.Rename):
		if sel := m.selectedMemo(); sel != nil {
			m.state = StateRenaming
			m.textInput.Placeholder = "Enter memo name..."
			m.textInput.SetValue(sel.Title)
			m.textInput.Focus()
		}

	case key.Matches(msg, keys.Delete):
		if sel := m.selectedMemo(); sel != nil {
			m.ctrl.Delete(sel.ID)
			m.refreshItems()
			m.showNotification("Memo deleted")
		}

	case key.Matches(msg, keys.Export):
		if sel := m.selectedMemo(); sel != nil {
			m.exportMemo(sel)
		}

	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		var cmd tea.Cmd
		m.memoList, cmd = m.memoList.Update(msg)
		cmds = append(cmds, cmd)

	case key.Matches(msg, keys.Escape):
		if m.query != "" {
			m.query = ""
			m.refreshItems()
		}
	}

	return m, tea.Batch(cmds...)
}

// selectedMemo returns the memo under the list cursor, or nil.
func (m *Model) selectedMemo() *memo.Memo {
	item, ok := m.memoList.SelectedItem().(memoItem)
	if !ok {
		return nil
	}
	return item.memo
}

// refreshItems rebuilds the visible list from the store and current query.
func (m *Model) refreshItems() {
	filtered := memo.Filter(m.store.All(), m.query)
	items := make([]list.Item, 0, len(filtered))
	for _, mm := range filtered {
		items = append(items, memoItem{
			memo:    mm,
			active:  mm.ID == m.ctrl.ActiveID(),
			playing: mm.ID == m.ctrl.ActiveID() && m.ctrl.IsPlaying(),
		})
	}
	if len(items) == 0 && m.query == "" {
		m.memoList.SetShowStatusBar(false)
		m.memoList.SetItems([]list.Item{placeholderItem{}})
		return
	}
	m.memoList.SetShowStatusBar(true)
	m.memoList.SetItems(items)
}

// Start recording, pausing any playback
func (m *Model) startRecording() {
	if err := m.session.Start(); err != nil {
		zap.L().Warn("could not start recording", zap.Error(err))
		m.showNotification("Microphone unavailable")
		return
	}
	m.state = StateRecording
	m.recordingPulse = 0
}

// Stop recording and finalize the new memo
func (m *Model) stopRecording() {
	m.state = StateViewing
	newMemo, err := m.session.Stop()
	if err != nil {
		zap.L().Error("finalize failed", zap.Error(err))
		m.showNotification("Recording failed")
		return
	}
	if newMemo == nil {
		return
	}
	// The new memo becomes active but stays paused.
	if err := m.ctrl.Activate(newMemo.ID); err != nil {
		m.showNotification("Recorded, but memo failed to load")
	}
	m.refreshItems()
	m.memoList.Select(0)
	m.showNotification(fmt.Sprintf("Saved %q (%s)", newMemo.Title, formatSeconds(newMemo.Duration)))
}

// Export the memo as a WAV file
func (m *Model) exportMemo(sel *memo.Memo) {
	name := strings.ReplaceAll(strings.TrimSpace(sel.Title), " ", "_")
	if name == "" {
		name = "memo"
	}
	filename := fmt.Sprintf("%s_%s.wav", name, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(m.cfg.Export.Directory, filename)

	if err := audio.ExportWAV(sel, path); err != nil {
		zap.L().Error("export failed", zap.String("id", sel.ID), zap.Error(err))
		m.showNotification(fmt.Sprintf("Export failed: %v", err))
		return
	}
	m.showNotification("Exported " + filename)
}

// Update waveform bars while recording. Purely decorative.
func (m *Model) updateWaveform() {
	samples := make([]float32, 50)
	for i := range samples {
		samples[i] = rand.Float32()
	}
	m.waveform = samples
}

// Show notification to user
func (m *Model) showNotification(message string) {
	m.notification = message
	m.notificationAt = time.Now()
}
