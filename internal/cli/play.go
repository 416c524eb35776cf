package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mlindner/coursemap/pkg/observability"
	"github.com/mlindner/coursemap/pkg/transcript"
	"github.com/mlindner/coursemap/pkg/transcript/sync"
)

// seekStep is the jump distance for arrow-key seeking (seconds).
const seekStep = 5.0

// newPlayCmd creates the play command for terminal transcript playback.
func newPlayCmd() *cobra.Command {
	var startAt float64

	cmd := &cobra.Command{
		Use:   "play [transcript.vtt|transcript.json]",
		Short: "Follow a transcript in the terminal",
		Long: `Follow a transcript in the terminal.

The play command loads a transcript (WebVTT or JSON) and highlights the
active segment in real time, the same way the web player keeps the
transcript panel in step with the video.

Keys:
  space   pause / resume
  ←/→     seek 5 seconds
  q       quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args[0], startAt)
		},
	}

	cmd.Flags().Float64Var(&startAt, "start-at", 0, "start position in seconds")

	return cmd
}

func runPlay(cmd *cobra.Command, input string, startAt float64) error {
	tr, err := transcript.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load transcript %s: %w", input, err)
	}
	if len(tr.Segments) == 0 {
		return fmt.Errorf("transcript %s has no segments", input)
	}

	clock := sync.NewPlaybackClock(startAt)
	var program *tea.Program

	engine, err := sync.NewEngine(clock, tr.Segments, sync.Callbacks{
		OnActiveChange: func(index int) {
			program.Send(activeMsg(index))
		},
		OnTimeUpdate: func(t float64) {
			program.Send(timeMsg(t))
		},
	})
	if err != nil {
		return fmt.Errorf("start sync engine: %w", err)
	}
	defer engine.Destroy()

	m := newPlayModel(tr, engine, clock, startAt)
	program = tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run player: %w", err)
	}
	return nil
}

// =============================================================================
// Messages
// =============================================================================

// activeMsg carries a new active segment index from the engine.
type activeMsg int

// timeMsg carries the latest sampled playback time.
type timeMsg float64

// =============================================================================
// Model
// =============================================================================

// Playback view styles
var (
	playActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	playNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	playDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	playTimeStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// playModel is the bubbletea model for terminal transcript playback.
type playModel struct {
	transcript transcript.Transcript
	engine     *sync.Engine
	clock      *sync.PlaybackClock

	active  int
	now     float64
	playing bool
	height  int
}

func newPlayModel(tr transcript.Transcript, engine *sync.Engine, clock *sync.PlaybackClock, startAt float64) playModel {
	return playModel{
		transcript: tr,
		engine:     engine,
		clock:      clock,
		active:     sync.NoActiveSegment,
		now:        startAt,
		playing:    true,
		height:     15,
	}
}

func (m playModel) Init() tea.Cmd {
	return func() tea.Msg {
		observability.Playback().OnPlay(m.transcript.VideoID)
		m.engine.Play()
		return nil
	}
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activeMsg:
		m.active = int(msg)
	case timeMsg:
		m.now = float64(msg)
	case tea.WindowSizeMsg:
		m.height = msg.Height - 5
		if m.height < 5 {
			m.height = 5
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			observability.Playback().OnDestroy(m.transcript.VideoID)
			m.engine.Destroy()
			return m, tea.Quit
		case " ":
			if m.playing {
				observability.Playback().OnPause(m.transcript.VideoID, m.now)
				m.clock.Pause()
				m.engine.Pause()
			} else {
				observability.Playback().OnPlay(m.transcript.VideoID)
				m.clock.Resume()
				m.engine.Play()
			}
			m.playing = !m.playing
		case "left":
			m.seek(m.now - seekStep)
		case "right":
			m.seek(m.now + seekStep)
		}
	}
	return m, nil
}

func (m *playModel) seek(t float64) {
	if t < 0 {
		t = 0
	}
	observability.Playback().OnSeek(m.transcript.VideoID, t)
	m.clock.SeekTo(t)
	m.engine.SeekTo(t)
	m.now = t
}

func (m playModel) View() string {
	var b strings.Builder

	title := m.transcript.VideoID
	if title == "" {
		title = "transcript"
	}
	status := "playing"
	if !m.playing {
		status = "paused"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(playTimeStyle.Render(fmt.Sprintf("  %s  %s", formatClock(m.now), status)))
	b.WriteString("\n")
	b.WriteString(playDimStyle.Render("space pause/resume  ←/→ seek  q quit"))
	b.WriteString("\n\n")

	start, end := m.window()
	for i := start; i < end; i++ {
		seg := m.transcript.Segments[i]
		line := fmt.Sprintf("%s  %s", formatClock(seg.StartTime), seg.Text)
		switch {
		case i == m.active:
			b.WriteString(playActiveStyle.Render("▸ " + line))
		case i < m.active:
			b.WriteString(playDimStyle.Render("  " + line))
		default:
			b.WriteString(playNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// window returns the segment range to display, centered on the active line.
func (m playModel) window() (int, int) {
	n := len(m.transcript.Segments)
	if n <= m.height {
		return 0, n
	}
	start := m.active - m.height/2
	if start < 0 {
		start = 0
	}
	if start+m.height > n {
		start = n - m.height
	}
	return start, start + m.height
}

// formatClock renders seconds as m:ss.
func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
