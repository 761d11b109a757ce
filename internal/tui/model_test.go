package tui_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/alkime/pomodoro/internal/synth"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/alkime/pomodoro/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// outputChecker provides helpers for testing teatest output.
type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 20 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

func (o outputChecker) checkString(t *testing.T, tm *teatest.TestModel, substrs ...string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(buf []byte) bool {
		for _, s := range substrs {
			if !bytes.Contains(buf, []byte(s)) {
				return false
			}
		}

		return true
	}, teatest.WithCheckInterval(o.intervl), teatest.WithDuration(o.timeout))
}

type recordingPlayer struct {
	mu     sync.Mutex
	played []string
}

func (p *recordingPlayer) Play(buf *synth.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.played = append(p.played, buf.Name)
}

func (p *recordingPlayer) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.played...)
}

type fixture struct {
	tm       *teatest.TestModel
	timer    *timer.Timer
	player   *recordingPlayer
	canceled bool
}

func newFixture(t *testing.T, settings timer.Settings, interval time.Duration) *fixture {
	t.Helper()

	cache := synth.NewCache(0)
	player := &recordingPlayer{}

	tmr, err := timer.New(settings, cache, player)
	require.NoError(t, err)

	f := &fixture{timer: tmr, player: player}
	model := tui.New(tui.Options{
		Timer:        tmr,
		Sounds:       cache,
		Player:       player,
		Cancel:       func() { f.canceled = true },
		TickInterval: interval,
	})

	f.tm = teatest.NewTestModel(t, model, teatest.WithInitialTermSize(100, 40))

	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func (f *fixture) quit(t *testing.T) {
	t.Helper()

	f.tm.Send(key("q"))
	f.tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestTimerScreen_InitialView(t *testing.T) {
	f := newFixture(t, timer.DefaultSettings(), time.Second)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "WORK", "25:00", "Session 1 of 4", "Metronome", "Start")

	f.quit(t)
	assert.True(t, f.canceled, "quit cancels the app context")
}

func TestTimerScreen_RunsThroughWorkPhase(t *testing.T) {
	settings := timer.Settings{WorkSeconds: 3, ShortBreakSeconds: 2, LongBreakSeconds: 4, SessionsBeforeLongBreak: 2}
	f := newFixture(t, settings, 10*time.Millisecond)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "00:03", "Start")

	f.tm.Send(key("space"))
	checker.checkString(t, f.tm, "SHORT BREAK", "00:02", "Session 2 of 2", "Start")

	f.quit(t)

	assert.Equal(t, []string{"Metronome", "Metronome", synth.BellPreset}, f.player.names())
	assert.Equal(t, timer.ShortBreak, f.timer.Phase())
	assert.False(t, f.timer.Running())
	assert.Equal(t, 2, f.timer.TimeLeft(), "no tick survives the phase change")
}

func TestTimerScreen_PauseStopsCountdown(t *testing.T) {
	f := newFixture(t, timer.DefaultSettings(), 5*time.Millisecond)
	checker := defaultChecker()

	f.tm.Send(key("space"))
	checker.checkString(t, f.tm, "Pause", "24:5")

	f.tm.Send(key("space"))
	checker.checkString(t, f.tm, "Start")

	f.quit(t)

	assert.Less(t, f.timer.TimeLeft(), 1500)
	assert.False(t, f.timer.Running())
	assert.Equal(t, timer.Work, f.timer.Phase())
}

func TestTimerScreen_SkipAndReset(t *testing.T) {
	f := newFixture(t, timer.DefaultSettings(), time.Second)
	checker := defaultChecker()

	f.tm.Send(key("s"))
	checker.checkString(t, f.tm, "SHORT BREAK", "05:00", "Session 2 of 4")

	f.tm.Send(key("r"))
	f.tm.Send(key("s"))
	checker.checkString(t, f.tm, "WORK", "25:00")

	f.quit(t)

	assert.Equal(t, 1, f.timer.SessionCount())
	assert.Equal(t, []string{synth.BellPreset, synth.BellPreset}, f.player.names())
}

func TestPicker_PreviewAndSelect(t *testing.T) {
	f := newFixture(t, timer.DefaultSettings(), time.Second)
	checker := defaultChecker()

	f.tm.Send(key("p"))
	checker.checkString(t, f.tm, "Tick sound", "Mechanical Clock", "Sonar")

	// Metronome -> Drip -> Typewriter
	f.tm.Send(key("down"))
	f.tm.Send(key("down"))
	f.tm.Send(key("enter"))
	checker.checkString(t, f.tm, "Tick:", "Typewriter")

	f.quit(t)

	assert.Equal(t, "Typewriter", f.timer.TickPreset())
	assert.Equal(t, []string{"Drip", "Typewriter"}, f.player.names())
}

func TestPicker_EscapeKeepsPreset(t *testing.T) {
	f := newFixture(t, timer.DefaultSettings(), time.Second)
	checker := defaultChecker()

	f.tm.Send(key("p"))
	checker.checkString(t, f.tm, "Tick sound")

	f.tm.Send(key("up"))
	f.tm.Send(key("esc"))
	checker.checkString(t, f.tm, "Tick:", "Metronome")

	f.quit(t)

	assert.Equal(t, "Metronome", f.timer.TickPreset())
	assert.Equal(t, []string{"Woodblock"}, f.player.names())
}
