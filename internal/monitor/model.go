package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/ipcam/internal/logging"
	"github.com/muurk/ipcam/internal/ui"
	"github.com/muurk/ipcam/pkg/ipcam"
)

// DefaultInterval is the poll interval when none is given
const DefaultInterval = 2 * time.Second

// zoomStep is how far one +/- key press moves the zoom level
const zoomStep = 10

// Setting keys the dashboard tracks for its toggles
const (
	settingTorch       = "torch"
	settingFocus       = "focus"
	settingRecording   = "video_recording"
	settingNightVision = "night_vision"
	settingOverlay     = "overlay"
	settingMotion      = "motion_detect"
	settingZoom        = "zoom"
)

// Camera is the part of *ipcam.Client the monitor drives
type Camera interface {
	Update(ctx context.Context) error
	Available() bool
	BaseURL() string
	CurrentSettings() map[string]ipcam.Value
	EnabledSensors() []string
	SensorValue(name string) (ipcam.Value, bool)
	SensorUnit(name string) (string, bool)

	Torch(ctx context.Context, on bool) (bool, error)
	Focus(ctx context.Context, on bool) (bool, error)
	Record(ctx context.Context, record bool, tag string) (bool, error)
	SetNightVision(ctx context.Context, on bool) (bool, error)
	SetOverlay(ctx context.Context, on bool) (bool, error)
	SetMotionDetect(ctx context.Context, on bool) (bool, error)
	SetZoom(ctx context.Context, zoom int) (bool, error)
}

// Message types for async operations
type tickMsg time.Time

type refreshDoneMsg struct {
	settings  map[string]ipcam.Value
	sensors   []ui.Row
	available bool
	err       error
	at        time.Time
}

type commandDoneMsg struct {
	label   string
	setting string
	value   ipcam.Value
	ok      bool
	err     error
}

// toggle is one on/off camera switch bound to a key
type toggle struct {
	label   string
	setting string
	set     func(ctx context.Context, cam Camera, on bool) (bool, error)
}

var toggles = map[string]toggle{
	"torch": {"Torch", settingTorch, func(ctx context.Context, cam Camera, on bool) (bool, error) {
		return cam.Torch(ctx, on)
	}},
	"focus": {"Focus", settingFocus, func(ctx context.Context, cam Camera, on bool) (bool, error) {
		return cam.Focus(ctx, on)
	}},
	"record": {"Recording", settingRecording, func(ctx context.Context, cam Camera, on bool) (bool, error) {
		return cam.Record(ctx, on, "")
	}},
	"night": {"Night vision", settingNightVision, func(ctx context.Context, cam Camera, on bool) (bool, error) {
		return cam.SetNightVision(ctx, on)
	}},
	"overlay": {"Overlay", settingOverlay, func(ctx context.Context, cam Camera, on bool) (bool, error) {
		return cam.SetOverlay(ctx, on)
	}},
	"motion": {"Motion detection", settingMotion, func(ctx context.Context, cam Camera, on bool) (bool, error) {
		return cam.SetMotionDetect(ctx, on)
	}},
}

// Model is the live camera dashboard.
//
// It refreshes the camera every interval and runs key-bound commands.
// Every request runs as a tea.Cmd and at most one is outstanding; ticks
// that arrive while a request is in flight are skipped.
type Model struct {
	ctx      context.Context
	camera   Camera
	name     string
	interval time.Duration

	// Last refresh
	settings    map[string]ipcam.Value
	sensors     []ui.Row
	available   bool
	lastUpdate  time.Time
	lastErr     error
	message     string
	busy        bool
	commanded   map[string]ipcam.Value // values set from this dashboard, used until the camera reports them
	refreshSeen bool

	// UI state
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

// NewModel creates a dashboard for cam. name labels the camera in the title.
// The model starts busy because Init always issues the first refresh.
func NewModel(ctx context.Context, cam Camera, name string, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:       ctx,
		camera:    cam,
		name:      name,
		interval:  interval,
		available: true,
		busy:      true,
		commanded: make(map[string]ipcam.Value),
		spinner:   s,
		help:      help.New(),
		keys:      defaultKeyMap(),
	}
}

// Init starts the spinner, the first refresh and the poll timer
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh(), m.tick())
}

// Busy reports whether a camera request is in flight
func (m Model) Busy() bool {
	return m.busy
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh fetches both snapshots and reads the views off the client inside
// the command, so the Update loop never touches the client directly.
func (m Model) refresh() tea.Cmd {
	cam := m.camera
	ctx := m.ctx
	return func() tea.Msg {
		err := cam.Update(ctx)
		msg := refreshDoneMsg{
			settings:  cam.CurrentSettings(),
			available: cam.Available(),
			err:       err,
			at:        time.Now(),
		}
		for _, name := range cam.EnabledSensors() {
			value, ok := cam.SensorValue(name)
			if !ok {
				continue
			}
			unit, _ := cam.SensorUnit(name)
			msg.sensors = append(msg.sensors, ui.Row{Key: name, Value: strings.TrimSpace(value.String() + " " + unit)})
		}
		return msg
	}
}

func (m Model) runToggle(t toggle) (Model, tea.Cmd) {
	on := !m.switchState(t.setting)
	cam := m.camera
	ctx := m.ctx
	m.busy = true
	m.message = fmt.Sprintf("%s %s...", t.label, onOff(on))
	return m, func() tea.Msg {
		ok, err := t.set(ctx, cam, on)
		return commandDoneMsg{label: t.label, setting: t.setting, value: ipcam.Bool(on), ok: ok, err: err}
	}
}

func (m Model) runZoom(delta int) (Model, tea.Cmd) {
	zoom := m.zoomLevel() + delta
	if zoom < 0 {
		zoom = 0
	}
	if zoom > 100 {
		zoom = 100
	}
	cam := m.camera
	ctx := m.ctx
	m.busy = true
	m.message = fmt.Sprintf("Zoom %d...", zoom)
	return m, func() tea.Msg {
		ok, err := cam.SetZoom(ctx, zoom)
		return commandDoneMsg{label: "Zoom", setting: settingZoom, value: ipcam.Number(float64(zoom)), ok: ok, err: err}
	}
}

// switchState returns the last known on/off state of a setting
func (m Model) switchState(setting string) bool {
	if v, ok := m.commanded[setting]; ok {
		return v.Kind == ipcam.KindBool && v.Bool
	}
	if v, ok := m.settings[setting]; ok {
		return v.Kind == ipcam.KindBool && v.Bool
	}
	return false
}

func (m Model) zoomLevel() int {
	if v, ok := m.commanded[settingZoom]; ok {
		return int(v.Number)
	}
	if v, ok := m.settings[settingZoom]; ok && v.Kind == ipcam.KindNumber {
		return int(v.Number)
	}
	return 0
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.busy {
			return m, m.tick()
		}
		m.busy = true
		return m, tea.Batch(m.refresh(), m.tick())

	case refreshDoneMsg:
		m.busy = false
		m.refreshSeen = true
		m.available = msg.available
		m.lastErr = msg.err
		if msg.err != nil {
			logging.Debug("Monitor refresh failed", zap.String("camera", m.name), zap.Error(msg.err))
			return m, nil
		}
		m.settings = msg.settings
		m.sensors = msg.sensors
		m.lastUpdate = msg.at
		// Drop commanded values the camera now reports itself
		for setting, v := range m.commanded {
			if reported, ok := m.settings[setting]; ok && reported.Equal(v) {
				delete(m.commanded, setting)
			}
		}
		return m, nil

	case commandDoneMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.lastErr = msg.err
			m.message = ""
			return m, nil
		case !msg.ok:
			m.lastErr = nil
			m.message = fmt.Sprintf("%s: camera did not acknowledge", msg.label)
			return m, nil
		}
		m.lastErr = nil
		m.commanded[msg.setting] = msg.value
		m.message = fmt.Sprintf("%s %s", msg.label, msg.value)
		logging.Info("Monitor command", zap.String("camera", m.name), zap.String("setting", msg.setting), zap.Stringer("value", msg.value))
		m.busy = true
		return m, m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var (
		action string
		zoom   int
	)
	switch {
	case key.Matches(msg, m.keys.Torch):
		action = "torch"
	case key.Matches(msg, m.keys.Focus):
		action = "focus"
	case key.Matches(msg, m.keys.Record):
		action = "record"
	case key.Matches(msg, m.keys.NightVision):
		action = "night"
	case key.Matches(msg, m.keys.Overlay):
		action = "overlay"
	case key.Matches(msg, m.keys.Motion):
		action = "motion"
	case key.Matches(msg, m.keys.ZoomIn):
		zoom = zoomStep
	case key.Matches(msg, m.keys.ZoomOut):
		zoom = -zoomStep
	default:
		return m, nil
	}

	if m.busy {
		m.message = "Request in progress, try again"
		return m, nil
	}
	if zoom != 0 {
		return m.runZoom(zoom)
	}
	return m.runToggle(toggles[action])
}

// View renders the dashboard
func (m Model) View() string {
	title := titleStyle.Render("IP WEBCAM")
	if m.name != "" {
		title += " " + titleStyle.Render(m.name)
	}
	if m.busy {
		title += " " + m.spinner.View()
	}

	state := onlineStyle.Render("● online")
	if !m.available {
		state = offlineStyle.Render("● offline")
	}
	subtitle := subtitleStyle.Render(m.camera.BaseURL())

	var body string
	if !m.refreshSeen {
		body = statusStyle.Render("Connecting...")
	} else {
		settingsRows := make(map[string]string, len(m.settings))
		for k, v := range m.settings {
			settingsRows[k] = v.String()
		}
		for k, v := range m.commanded {
			settingsRows[k] = v.String()
		}
		settings := ui.RenderTable("Settings", ui.RowsFromMap(settingsRows))
		sensors := ui.RenderTable("Sensors", m.sensors)
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(strings.TrimRight(settings, "\n")),
			" ",
			boxStyle.Render(strings.TrimRight(sensors, "\n")),
		)
	}

	var status string
	switch {
	case m.lastErr != nil:
		status = errorStyle.Render("✗ " + ipcam.GetShortErrorMessage(m.lastErr))
	case m.message != "":
		status = statusStyle.Render(m.message)
	}
	if !m.lastUpdate.IsZero() {
		updated := statusStyle.Render("updated " + m.lastUpdate.Format("15:04:05"))
		if status != "" {
			status += "  " + updated
		} else {
			status = updated
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title+"  "+state,
		subtitle,
		"",
		body,
		"",
		status,
		helpStyle.Render(m.help.View(m.keys)),
	)
}

// Run starts the dashboard in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, cam Camera, name string, interval time.Duration) error {
	p := tea.NewProgram(NewModel(ctx, cam, name, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

func onOff(on bool) string {
	return ipcam.Bool(on).String()
}
