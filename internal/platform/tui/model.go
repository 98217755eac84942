package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/profile"
	"github.com/vovakirdan/tui-flappy/internal/replay"
)

// Options configures a game session.
type Options struct {
	Player    string
	Config    config.FlappyConfig
	Runtime   core.RuntimeConfig
	Ads       continuation.AdPlayer
	Profiles  *profile.Service // nil plays without persistence
	Logger    *log.Logger
	RecordDir string // Recordings are written here when set
}

var errNoAdPlayer = errors.New("tui: no ad player configured")

// AdResultMsg carries the outcome of an ad playback back into the loop.
type AdResultMsg struct {
	Request   uint64
	Kind      continuation.AdKind
	Completed bool
	Err       error
}

// Model is the Bubble Tea model for one player's game session.
type Model struct {
	opts    Options
	game    *flappy.Game
	screen  *core.Screen
	sched   *Scheduler
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	session *session

	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
}

// session holds the pieces that outlive a single Update call.
type session struct {
	ctx        context.Context
	cancel     context.CancelFunc
	ent        *profile.Entitlements
	dispatcher *notify.Dispatcher
	recorder   *replay.Recorder
	adPlaying  bool
	closed     bool
}

// NewModel creates a model and starts the first attempt.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Player == "" {
		opts.Player = "player"
	}

	counters := continuation.Counters{Lives: opts.Config.Continuation.MaxLives}
	ent := profile.NewEntitlements(time.Time{}, 0, nil)
	var dispatcher *notify.Dispatcher
	if opts.Profiles != nil {
		p, err := opts.Profiles.Load(opts.Player)
		if err != nil {
			opts.Logger.Error("could not load profile, playing with defaults", "player", opts.Player, "err", err)
		} else {
			counters = p.Counters
			ent = opts.Profiles.Entitlements(p)
		}
		dispatcher = notify.New(opts.Player, opts.Profiles, opts.Logger, notify.DefaultBufferSize)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	m := Model{
		opts:       opts,
		game:       flappy.New(opts.Config, flappy.NewMachine(opts.Config, counters, ent, opts.Logger)),
		screen:     core.NewScreen(opts.Runtime.ScreenW, playfieldHeight(opts.Runtime.ScreenH)),
		sched:      NewScheduler(opts.Runtime.TickRate),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		inputFrame: core.NewInputFrame(),
		session: &session{
			ctx:        ctx,
			cancel:     cancel,
			ent:        ent,
			dispatcher: dispatcher,
		},
	}
	m.startAttempt()
	return m
}

// playfieldHeight leaves one row for the status bar.
func playfieldHeight(h int) int {
	if h > 2 {
		return h - 1
	}
	return h
}

func (m *Model) runtime() core.RuntimeConfig {
	rc := m.opts.Runtime
	rc.ScreenH = playfieldHeight(rc.ScreenH)
	return rc
}

// startAttempt resets the game, abandoning any attempt in progress.
func (m *Model) startAttempt() {
	m.sealRecording()
	m.publish(m.game.Reset(m.runtime()))
	m.gameState = m.game.State()
	if m.opts.RecordDir != "" {
		s := m.session
		m.session.recorder = replay.NewRecorder(m.opts.Player, m.game, m.runtime(), s.ent.IsAdFree(), s.ent.Passes())
	}
	m.opts.Logger.Debug("attempt started", "player", m.opts.Player, "seed", m.opts.Runtime.Seed)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.sched.Start()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
		m.game.UpdateScreenSize(msg.Width, playfieldHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case AdResultMsg:
		return m.handleAdResult(msg)

	case spinner.TickMsg:
		if !m.session.adPlaying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.abandon()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.abandon()
			m.backToMenu = true
			m.sched.Stop()
			return m, nil
		}

	case core.ActionRestart:
		if m.game.Over() || m.gameState.Paused {
			m.opts.Runtime.Seed = time.Now().UnixNano()
			m.startAttempt()
			m.inputFrame.Clear()
			return m, m.sched.Start()
		}

	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if !m.sched.Accept(msg) {
		return m, nil
	}

	if r := m.session.recorder; r != nil {
		r.Frame(m.inputFrame)
	}
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	cmd := m.apply(result.Effects)
	if m.game.Suspended() || m.game.Over() {
		m.sched.Stop()
		return m, cmd
	}
	return m, tea.Batch(cmd, m.sched.Next())
}

// handleAdResult resumes the loop once an ad has resolved.
func (m Model) handleAdResult(msg AdResultMsg) (tea.Model, tea.Cmd) {
	m.session.adPlaying = false
	completed := msg.Completed && msg.Err == nil
	m.opts.Logger.Info("ad finished", "player", m.opts.Player, "kind", msg.Kind, "completed", completed, "err", msg.Err)
	if r := m.session.recorder; r != nil {
		r.AdOutcome(completed)
	}

	cmd := m.apply(m.game.ResolveAd(msg.Request, msg.Completed, msg.Err))
	m.gameState = m.game.State()
	if m.game.Suspended() || m.game.Over() {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.sched.Start())
}

// apply routes effects to the collaborators and returns follow-up commands.
func (m *Model) apply(effects []continuation.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case continuation.PlayAd:
			m.session.adPlaying = true
			cmds = append(cmds, m.playAd(e), m.spinner.Tick)
		case continuation.ConsumeRevivePass:
			m.session.ent.SpendPass()
		case continuation.AttemptComplete:
			m.opts.Logger.Info("attempt complete",
				"player", m.opts.Player,
				"score", e.Score,
				"coins", e.Coins,
				"route", e.Route,
				"abandoned", e.Abandoned,
			)
			if !e.Abandoned {
				m.sealRecording()
			}
		}
	}
	m.publish(effects)
	return tea.Batch(cmds...)
}

func (m *Model) publish(effects []continuation.Effect) {
	if d := m.session.dispatcher; d != nil && len(effects) > 0 {
		d.Publish(effects)
	}
}

// playAd runs the ad player off the loop, bounded by the configured timeout.
func (m *Model) playAd(ad continuation.PlayAd) tea.Cmd {
	player := m.opts.Ads
	timeout := m.opts.Config.Continuation.AdTimeout
	parent := m.session.ctx
	return func() tea.Msg {
		if player == nil {
			return AdResultMsg{Request: ad.Request, Kind: ad.Kind, Err: errNoAdPlayer}
		}
		completed, err := continuation.PlayBounded(parent, player, ad.Kind, timeout)
		return AdResultMsg{Request: ad.Request, Kind: ad.Kind, Completed: completed, Err: err}
	}
}

// abandon ends an attempt still in progress.
func (m *Model) abandon() {
	if m.game.Over() {
		return
	}
	m.sealRecording()
	m.publish(m.game.Abandon())
	m.gameState = m.game.State()
}

// sealRecording writes the current recording, if any.
func (m *Model) sealRecording() {
	r := m.session.recorder
	if r == nil {
		return
	}
	m.session.recorder = nil
	if r.Len() == 0 {
		return
	}
	rec := r.Finish(m.game)
	name := fmt.Sprintf("%s_%s.fpr", m.opts.Player, time.Now().Format("20060102_150405.000"))
	path := filepath.Join(m.opts.RecordDir, name)
	if err := rec.SaveFile(path); err != nil {
		m.opts.Logger.Error("could not save recording", "path", path, "err", err)
		return
	}
	m.opts.Logger.Info("recording saved", "path", path, "frames", len(rec.Frames))
}

// Close stops background work and flushes pending notifications.
// The model must not be used afterwards.
func (m Model) Close() {
	s := m.session
	if s.closed {
		return
	}
	s.closed = true
	m.abandon()
	s.cancel()
	if s.dispatcher != nil {
		s.dispatcher.Close()
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot failed", "err", err)
	}
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) statusLine() string {
	if m.session.adPlaying {
		return m.spinner.View() + statusStyle.Render(" ad playing, the game resumes when it ends")
	}
	offer := m.game.Machine().Stage() == continuation.StageOffer
	return statusStyle.Render(m.help.View(m.keys.helpFor(m.game.State(), offer)))
}

// Game returns the underlying game.
func (m Model) Game() *flappy.Game {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single session.
func Run(opts Options) error {
	model := NewModel(opts)
	defer model.Close()

	p := tea.NewProgram(
		quitOnBack{model},
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// quitOnBack ends a standalone session when the player asks for the menu.
type quitOnBack struct {
	Model
}

func (q quitOnBack) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := q.Model.Update(msg)
	m := next.(Model)
	if m.BackToMenu() {
		return quitOnBack{m}, tea.Quit
	}
	return quitOnBack{m}, cmd
}
