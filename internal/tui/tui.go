// Package tui provides a Bubble Tea terminal user interface for podcast-segmenter.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/podcast-segmenter/internal/config"
	"github.com/handiism/podcast-segmenter/internal/pipeline"
	"go.uber.org/zap"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   pipeline.ProgressLevel
}

const maxLogs = 10

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	errLog    *zap.SugaredLogger
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	driver  *pipeline.Driver
	events  chan pipeline.ProgressEvent
	current pipeline.Progress
	summary pipeline.Summary

	// Options
	playlist bool
	coverArt bool
	frames   bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model starting from settings. The show input
// is pre-filled with settings.Shows.
func NewModel(settings *config.Settings, errLog *zap.SugaredLogger) Model {
	ti := textinput.New()
	ti.Placeholder = "the-encore, tshiko"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.SetValue(strings.Join(settings.Shows, ", "))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		errLog:    errLog,
		ctx:       ctx,
		cancel:    cancel,
		playlist:  settings.CreatePlaylist,
		coverArt:  settings.SaveCoverArt,
		frames:    settings.Codec == config.CodecFrames,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one pipeline event.
	ProgressMsg struct {
		Event pipeline.ProgressEvent
	}

	// RunDoneMsg is sent when the pipeline returns.
	RunDoneMsg struct {
		Summary pipeline.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && len(config.SplitShows(m.textInput.Value())) > 0 {
				return m.start()
			}

		// Option keys are consumed here so the text input never sees them.
		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
				return m, nil
			}

		case "ctrl+a":
			if m.state == StateInput {
				m.coverArt = !m.coverArt
				return m, nil
			}

		case "ctrl+f":
			if m.state == StateInput {
				m.frames = !m.frames
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.driver = nil
				m.current = pipeline.Progress{}
				m.summary = pipeline.Summary{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, waitForEvent(m.events))
		if msg.Event.Level == pipeline.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case RunDoneMsg:
		m.summary = msg.Summary
		if m.driver != nil {
			m.current = m.driver.Progress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.driver != nil && m.state == StateRunning {
			m.current = m.driver.Progress()
			cmds = append(cmds, m.progress.SetPercent(showPercent(m.current)), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start applies the toggled options and launches the pipeline.
func (m Model) start() (tea.Model, tea.Cmd) {
	settings := *m.settings
	settings.Shows = config.SplitShows(m.textInput.Value())
	settings.CreatePlaylist = m.playlist
	settings.SaveCoverArt = m.coverArt
	if m.frames {
		settings.Codec = config.CodecFrames
	} else {
		settings.Codec = config.CodecFFmpeg
	}

	events := make(chan pipeline.ProgressEvent, 64)
	m.events = events
	m.driver = pipeline.NewDriver(&settings, m.errLog, func(event pipeline.ProgressEvent) {
		events <- event
	})
	m.state = StateRunning
	m.textInput.Blur()

	return m, tea.Batch(
		runDriver(m.ctx, m.driver, settings.Shows, events),
		waitForEvent(events),
		m.tickProgress(),
		m.spinner.Tick,
	)
}

// runDriver runs the pipeline and closes events once it returns.
func runDriver(ctx context.Context, driver *pipeline.Driver, shows []string, events chan pipeline.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		summary, err := driver.Run(ctx, shows)
		close(events)
		return RunDoneMsg{Summary: summary, Err: err}
	}
}

// waitForEvent delivers the next pipeline event. It returns nil after the
// channel is closed, ending the listen loop.
func waitForEvent(events <-chan pipeline.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func showPercent(p pipeline.Progress) float64 {
	if p.ShowsTotal == 0 {
		return 0
	}
	done := float64(p.ShowsDone)
	if p.BytesTotal > 0 && p.ShowsDone < p.ShowsTotal {
		done += 0.5 * float64(p.BytesReceived) / float64(p.BytesTotal)
	}
	return min(done/float64(p.ShowsTotal), 1)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Podcast Segmenter"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download podcast episodes and cut them into segments"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter show slugs (comma separated):"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Create playlist (ctrl+p)\n", checkbox(m.playlist))
	fmt.Fprintf(&b, "  %s Save cover art (ctrl+a)\n", checkbox(m.coverArt))
	fmt.Fprintf(&b, "  %s Split without ffmpeg (ctrl+f)\n", checkbox(m.frames))
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+v)\n", checkbox(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s | Segment length: %dms", m.settings.OutputFolder, m.settings.SegmentLengthMs)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Show %d of %d", min(m.current.ShowsDone+1, m.current.ShowsTotal), m.current.ShowsTotal)))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Episodes: %d | Segments: %d | Current download: %.2f MB",
		m.current.EpisodesDone,
		m.current.SegmentsWritten,
		float64(m.current.BytesReceived)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Run complete\n\n"+
			"Shows: %d (%d failed)\n"+
			"Episodes: %d (%d failed)\n"+
			"Segments: %d",
		m.summary.ShowsProcessed, m.summary.ShowsFailed,
		m.summary.EpisodesDownloaded, m.summary.EpisodesFailed,
		m.summary.SegmentsWritten,
	)) + "\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", m.err.Error())
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "✗"
		case pipeline.LevelWarning:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case pipeline.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+p: playlist • ctrl+a: cover art • ctrl+f: codec • ctrl+v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, errLog *zap.SugaredLogger) error {
	p := tea.NewProgram(NewModel(settings, errLog), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
