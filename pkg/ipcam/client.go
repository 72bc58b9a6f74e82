package ipcam

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPort is the port IP Webcam listens on out of the box
	DefaultPort = 8080

	// DefaultTimeout is the default per-request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultQuality is the video quality used when none is given
	DefaultQuality = 100

	// successMarker is the substring the camera puts in the body of a successful command
	successMarker = "Ok"
)

// HTTPDoer is the subset of *http.Client used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one Android phone running the IP Webcam server.
//
// Connection parameters are set once after NewClient. Update replaces the
// status and sensor snapshots; every other read works on the last snapshot
// without network I/O.
type Client struct {
	httpClient HTTPDoer
	host       string
	port       int
	username   string
	password   string
	timeout    time.Duration
	ssl        bool
	logger     *zap.Logger

	// mu guards the snapshots and the availability flag
	mu        sync.RWMutex
	status    *Status
	sensors   Sensors
	available bool
}

// NewClient creates a client for the camera at host:port.
// httpClient is used as-is and never closed; nil means http.DefaultClient.
// A zero port selects DefaultPort.
func NewClient(httpClient HTTPDoer, host string, port int) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if port == 0 {
		port = DefaultPort
	}
	return &Client{
		httpClient: httpClient,
		host:       host,
		port:       port,
		timeout:    DefaultTimeout,
		ssl:        true,
		logger:     zap.NewNop(),
		available:  true,
	}
}

// SetAuth sets HTTP Basic Auth credentials. They are only sent when both are non-empty.
func (c *Client) SetAuth(username, password string) {
	c.username = username
	c.password = password
}

// SetTimeout sets the per-request timeout. Zero disables it.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SetSSL selects https/rtsps (true) or http/rtsp (false)
func (c *Client) SetSSL(ssl bool) {
	c.ssl = ssl
}

// SetLogger sets the logger used for request tracing
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// Host returns the camera host
func (c *Client) Host() string { return c.host }

// Port returns the camera port
func (c *Client) Port() int { return c.port }

// SSL reports whether secure schemes are used
func (c *Client) SSL() bool { return c.ssl }

func (c *Client) hasAuth() bool {
	return c.username != "" && c.password != ""
}

func (c *Client) hostPort() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// BaseURL returns the base URL for endpoints, e.g. "http://192.168.1.20:8080"
func (c *Client) BaseURL() string {
	scheme := "http"
	if c.ssl {
		scheme = "https"
	}
	return scheme + "://" + c.hostPort()
}

// MJPEGURL returns the MJPEG video stream URL
func (c *Client) MJPEGURL() string {
	return c.BaseURL() + "/video"
}

// ImageURL returns the snapshot image URL
func (c *Client) ImageURL() string {
	return c.BaseURL() + "/shot.jpg"
}

// AudioWAVURL returns the URL Waveform audio can be streamed from
func (c *Client) AudioWAVURL() string {
	return c.BaseURL() + "/audio.wav"
}

// AudioAACURL returns the URL AAC audio can be streamed from
func (c *Client) AudioAACURL() string {
	return c.BaseURL() + "/audio.aac"
}

// AudioOpusURL returns the URL Opus audio can be streamed from
func (c *Client) AudioOpusURL() string {
	return c.BaseURL() + "/audio.opus"
}

// RTSPURL returns the RTSP URL for a pair of codecs. Empty codecs select
// DefaultVideoCodec and DefaultAudioCodec. Credentials are embedded when set.
func (c *Client) RTSPURL(video VideoCodec, audio AudioCodec) string {
	if video == "" {
		video = DefaultVideoCodec
	}
	if audio == "" {
		audio = DefaultAudioCodec
	}

	u := url.URL{
		Scheme: "rtsp",
		Host:   c.hostPort(),
		Path:   fmt.Sprintf("/%s_%s.sdp", video, audio),
	}
	if c.ssl {
		u.Scheme = "rtsps"
	}
	if c.hasAuth() {
		u.User = url.UserPassword(c.username, c.password)
	}
	return u.String()
}

// H264URL returns the RTSP URL for h264 video with PCM audio
func (c *Client) H264URL() string {
	return c.RTSPURL(VideoH264, AudioPCM)
}

// Available reports whether the last request reached the camera.
// It only turns false after a connection failure; HTTP errors still count as reachable.
func (c *Client) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

func (c *Client) setAvailable(available bool) {
	c.mu.Lock()
	c.available = available
	c.mu.Unlock()
}

// request performs a single GET of path and returns the body
func (c *Client) request(ctx context.Context, path string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := c.BaseURL() + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewCannotConnectError("failed to create request", err, c.host)
	}
	if c.hasAuth() {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setAvailable(false)
		c.logger.Debug("camera request failed",
			zap.String("url", reqURL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, NewCannotConnectError("GET "+path+" failed", err, c.host)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("camera request",
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.setAvailable(true)
		return nil, NewUnauthorizedError(c.host)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.setAvailable(true)
		return nil, NewHTTPError(resp.StatusCode, c.host)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.setAvailable(false)
		return nil, NewCannotConnectError("failed to read response body", err, c.host)
	}

	c.setAvailable(true)
	return body, nil
}

// command performs a request whose plain-text reply contains "Ok" on success
func (c *Client) command(ctx context.Context, path string) (bool, error) {
	body, err := c.request(ctx, path)
	if err != nil {
		return false, err
	}
	return strings.Contains(string(body), successMarker), nil
}

// Update fetches fresh status and sensor snapshots.
//
// Each successfully decoded body replaces its snapshot wholesale, even when
// empty. If the sensor fetch fails the new status snapshot is kept.
func (c *Client) Update(ctx context.Context) error {
	body, err := c.request(ctx, "/status.json?show_avail=1")
	if err != nil {
		return err
	}
	status, err := ParseStatus(body)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()

	body, err = c.request(ctx, "/sensors.json")
	if err != nil {
		return err
	}
	sensors, err := ParseSensors(body)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sensors = sensors
	c.mu.Unlock()

	c.logger.Debug("camera snapshots refreshed",
		zap.String("host", c.host),
		zap.Int("settings", len(status.CurVals)),
		zap.Int("sensors", len(sensors)),
	)
	return nil
}

// HasStatus reports whether a status snapshot has been fetched
func (c *Client) HasStatus() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status != nil
}

// HasSensors reports whether a sensor snapshot has been fetched
func (c *Client) HasSensors() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sensors != nil
}

// StatusSnapshot returns the last status snapshot, or nil before the first Update.
// Snapshots are replaced, never modified, so the result is safe to read.
func (c *Client) StatusSnapshot() *Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// SensorSnapshot returns the last sensor snapshot, or nil before the first Update
func (c *Client) SensorSnapshot() Sensors {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sensors
}

// CurrentSettings returns every current setting coerced with ParseValue
func (c *Client) CurrentSettings() map[string]Value {
	status := c.StatusSnapshot()
	settings := make(map[string]Value)
	if status == nil {
		return settings
	}
	for key, val := range status.CurVals {
		settings[key] = ParseValue(val)
	}
	return settings
}

// EnabledSettings returns the sorted names of all current settings
func (c *Client) EnabledSettings() []string {
	status := c.StatusSnapshot()
	if status == nil {
		return []string{}
	}
	return sortedKeys(status.CurVals)
}

// EnabledSensors returns the sorted names of all reported sensors
func (c *Client) EnabledSensors() []string {
	return sortedKeys(c.SensorSnapshot())
}

// AvailableSettings returns the allowed values of every setting, coerced with ParseValue
func (c *Client) AvailableSettings() map[string][]Value {
	status := c.StatusSnapshot()
	available := make(map[string][]Value)
	if status == nil {
		return available
	}
	for key, vals := range status.Avail {
		list := make([]Value, len(vals))
		for i, val := range vals {
			list[i] = ParseValue(val)
		}
		available[key] = list
	}
	return available
}

// SensorValues returns all values of a sensor's most recent reading
func (c *Client) SensorValues(name string) ([]Value, bool) {
	sensor := c.SensorSnapshot()[name]
	reading, ok := sensor.Latest()
	if !ok || len(reading.Values) == 0 {
		return nil, false
	}
	return reading.Values, true
}

// SensorValue returns the current value of a sensor: the primary (first)
// value of its most recent reading. Use SensorValues for multi-axis sensors.
func (c *Client) SensorValue(name string) (Value, bool) {
	values, ok := c.SensorValues(name)
	if !ok {
		return Value{}, false
	}
	return values[0], true
}

// SensorUnit returns the unit a sensor reports its values in. It reports
// false for unknown or malformed sensors and for entries without a unit.
func (c *Client) SensorUnit(name string) (string, bool) {
	sensor := c.SensorSnapshot()[name]
	if sensor == nil || sensor.Unit == nil {
		return "", false
	}
	return *sensor.Unit, true
}

// ChangeSetting sets a camera setting. Booleans are sent as "on"/"off",
// everything else in its natural string form. It reports whether the camera
// acknowledged the change.
func (c *Client) ChangeSetting(ctx context.Context, key string, value any) (bool, error) {
	payload := settingPayload(value)
	path := fmt.Sprintf("/settings/%s?set=%s", url.PathEscape(key), url.QueryEscape(payload))
	return c.command(ctx, path)
}

func settingPayload(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "on"
		}
		return "off"
	case Value:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Torch switches the torch (flash LED) on or off
func (c *Client) Torch(ctx context.Context, on bool) (bool, error) {
	if on {
		return c.command(ctx, "/enabletorch")
	}
	return c.command(ctx, "/disabletorch")
}

// Focus enables or disables camera autofocus
func (c *Client) Focus(ctx context.Context, on bool) (bool, error) {
	if on {
		return c.command(ctx, "/focus")
	}
	return c.command(ctx, "/nofocus")
}

// Record starts or stops video recording. A non-empty tag is attached to a
// new recording; it is ignored when stopping.
func (c *Client) Record(ctx context.Context, record bool, tag string) (bool, error) {
	if !record {
		return c.command(ctx, "/stopvideo?force=1")
	}
	path := "/startvideo?force=1"
	if tag != "" {
		path += "&tag=" + url.PathEscape(tag)
	}
	return c.command(ctx, path)
}

// SetFrontFacingCamera switches between the front and back camera
func (c *Client) SetFrontFacingCamera(ctx context.Context, on bool) (bool, error) {
	return c.ChangeSetting(ctx, "ffc", on)
}

// SetNightVision enables or disables night vision
func (c *Client) SetNightVision(ctx context.Context, on bool) (bool, error) {
	return c.ChangeSetting(ctx, "night_vision", on)
}

// SetOverlay enables or disables the video overlay
func (c *Client) SetOverlay(ctx context.Context, on bool) (bool, error) {
	return c.ChangeSetting(ctx, "overlay", on)
}

// SetGPSActive enables or disables GPS
func (c *Client) SetGPSActive(ctx context.Context, on bool) (bool, error) {
	return c.ChangeSetting(ctx, "gps_active", on)
}

// SetQuality sets the video quality
func (c *Client) SetQuality(ctx context.Context, quality int) (bool, error) {
	return c.ChangeSetting(ctx, "quality", quality)
}

// SetMotionDetect enables or disables motion detection
func (c *Client) SetMotionDetect(ctx context.Context, on bool) (bool, error) {
	return c.ChangeSetting(ctx, "motion_detect", on)
}

// SetOrientation sets the video orientation; see AllowedOrientations
func (c *Client) SetOrientation(ctx context.Context, orientation string) (bool, error) {
	if err := ValidateOrientation(orientation); err != nil {
		return false, err
	}
	return c.ChangeSetting(ctx, "orientation", orientation)
}

// SetZoom sets the zoom level
func (c *Client) SetZoom(ctx context.Context, zoom int) (bool, error) {
	return c.command(ctx, fmt.Sprintf("/settings/ptz?zoom=%d", zoom))
}

// SetSceneMode sets the scene mode. The mode must be one the camera reported
// in its last status snapshot, so Update has to succeed first.
func (c *Client) SetSceneMode(ctx context.Context, sceneMode string) (bool, error) {
	if err := ValidateSceneMode(sceneMode, c.AvailableSettings()["scenemode"]); err != nil {
		return false, err
	}
	return c.ChangeSetting(ctx, "scenemode", sceneMode)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
