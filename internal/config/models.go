package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Defaults applied when a camera entry leaves a field unset
const (
	DefaultPort           = 8080
	DefaultTimeoutSeconds = 10
	DefaultRefreshSeconds = 2
	DefaultFormat         = "detailed"
)

// Registry represents the entire user configuration file.
// It stores connection parameters for named cameras and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Cameras     map[string]*Camera `yaml:"cameras,omitempty"` // Keyed by user-chosen name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Camera holds how to reach one IP Webcam instance.
// Passwords are NEVER stored - they come from IPCAM_PASSWORD, --password or a prompt.
type Camera struct {
	Host           string    `yaml:"host"`
	Port           int       `yaml:"port,omitempty"`
	Username       string    `yaml:"username,omitempty"`
	SSL            *bool     `yaml:"ssl,omitempty"` // nil means the default (HTTPS)
	SkipVerify     bool      `yaml:"skip_verify,omitempty"`
	TimeoutSeconds int       `yaml:"timeout_seconds,omitempty"`
	LastSeen       time.Time `yaml:"last_seen,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultCamera  string `yaml:"default_camera,omitempty"`
	Format         string `yaml:"format,omitempty"`          // detailed, compact or json
	RefreshSeconds int    `yaml:"refresh_seconds,omitempty"` // watch/monitor poll interval
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Cameras:     make(map[string]*Camera),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		Format:         DefaultFormat,
		RefreshSeconds: DefaultRefreshSeconds,
	}
}

// UseSSL reports whether the camera is reached over HTTPS
func (c *Camera) UseSSL() bool {
	return c.SSL == nil || *c.SSL
}

// EffectivePort returns the configured port or 8080
func (c *Camera) EffectivePort() int {
	if c.Port <= 0 {
		return DefaultPort
	}
	return c.Port
}

// Timeout returns the per-request timeout
func (c *Camera) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the poll interval used by watch and the monitor
func (p *Preferences) RefreshInterval() time.Duration {
	if p == nil || p.RefreshSeconds <= 0 {
		return DefaultRefreshSeconds * time.Second
	}
	return time.Duration(p.RefreshSeconds) * time.Second
}

// GetCamera retrieves a camera by name.
// Returns nil if the camera doesn't exist in the registry.
func (r *Registry) GetCamera(name string) *Camera {
	return r.Cameras[name]
}

// SetCamera adds or replaces a camera entry.
// The first camera added becomes the default.
func (r *Registry) SetCamera(name string, cam *Camera) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("camera name cannot be empty")
	}
	if cam == nil || strings.TrimSpace(cam.Host) == "" {
		return fmt.Errorf("camera %q: host is required", name)
	}
	if cam.Port < 0 || cam.Port > 65535 {
		return fmt.Errorf("camera %q: invalid port %d", name, cam.Port)
	}

	if r.Cameras == nil {
		r.Cameras = make(map[string]*Camera)
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}

	r.Cameras[name] = cam
	if r.Preferences.DefaultCamera == "" {
		r.Preferences.DefaultCamera = name
	}
	return nil
}

// RemoveCamera deletes a camera entry and reports whether it existed.
// Removing the default camera clears the default.
func (r *Registry) RemoveCamera(name string) bool {
	if _, ok := r.Cameras[name]; !ok {
		return false
	}
	delete(r.Cameras, name)
	if r.Preferences != nil && r.Preferences.DefaultCamera == name {
		r.Preferences.DefaultCamera = ""
	}
	return true
}

// CameraNames returns the registered camera names in sorted order
func (r *Registry) CameraNames() []string {
	names := make([]string, 0, len(r.Cameras))
	for name := range r.Cameras {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TouchCamera records a successful contact with the camera
func (r *Registry) TouchCamera(name string) {
	if cam := r.Cameras[name]; cam != nil {
		cam.LastSeen = time.Now()
	}
}

// ResolveCamera returns the named camera, or the default one when name is empty.
func (r *Registry) ResolveCamera(name string) (string, *Camera, error) {
	if name == "" && r.Preferences != nil {
		name = r.Preferences.DefaultCamera
	}
	if name == "" {
		return "", nil, fmt.Errorf("no camera selected: pass --host or --camera, or add one with 'camera add'")
	}
	cam := r.GetCamera(name)
	if cam == nil {
		return "", nil, fmt.Errorf("camera %q is not registered", name)
	}
	return name, cam, nil
}
