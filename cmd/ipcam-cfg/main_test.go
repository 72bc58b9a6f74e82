package main

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/muurk/ipcam/internal/config"
)

const statusBody = `{"curvals": {"torch": "off", "quality": "49", "scenemode": "auto"},
 "avail": {"scenemode": ["auto", "night"], "torch": ["on", "off"]}}`

const sensorsBody = `{"battery_level": {"unit": "%", "data": [[1700000000000, [55.0]]]}}`

// fakeCamera emulates the IP Webcam HTTP API and records request URIs
type fakeCamera struct {
	mu       sync.Mutex
	requests []string
	agents   []string
}

func (f *fakeCamera) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	f.agents = append(f.agents, r.UserAgent())
	f.mu.Unlock()

	switch r.URL.Path {
	case "/status.json":
		w.Write([]byte(statusBody))
	case "/sensors.json":
		w.Write([]byte(sensorsBody))
	default:
		w.Write([]byte("Ok"))
	}
}

func (f *fakeCamera) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// resetFlags restores every flag to its default so commands can run repeatedly
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv(PasswordEnvVar, "")
	t.Setenv("IPCAM_LOG_LEVEL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func startCamera(t *testing.T) (*fakeCamera, []string) {
	t.Helper()
	cam := &fakeCamera{}
	server := httptest.NewServer(cam)
	t.Cleanup(server.Close)

	u, _ := url.Parse(server.URL)
	host, port, _ := net.SplitHostPort(u.Host)
	return cam, []string{"--host", host, "--port", port, "--ssl=false"}
}

func TestTorchCommand_JSON(t *testing.T) {
	cam, conn := startCamera(t)

	out, err := run(t, append([]string{"torch", "on", "--format", "json"}, conn...)...)
	if err != nil {
		t.Fatalf("torch on: %v\n%s", err, out)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result["acknowledged"] != true {
		t.Errorf("acknowledged = %v, want true", result["acknowledged"])
	}
	if got := cam.seen(); len(got) != 1 || got[0] != "/enabletorch" {
		t.Errorf("requests = %v, want [/enabletorch]", got)
	}
	if !strings.HasPrefix(cam.agents[0], "ipcam-cfg/") {
		t.Errorf("User-Agent = %q", cam.agents[0])
	}
}

func TestStatusCommand_JSON(t *testing.T) {
	_, conn := startCamera(t)

	out, err := run(t, append([]string{"status", "--format", "json", "--available"}, conn...)...)
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}

	var result struct {
		Settings  map[string]any   `json:"settings"`
		Available map[string][]any `json:"available"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.Settings["quality"] != float64(49) || result.Settings["torch"] != false {
		t.Errorf("settings = %v", result.Settings)
	}
	if len(result.Available["scenemode"]) != 2 {
		t.Errorf("available = %v", result.Available)
	}
}

func TestCommands_RequestPaths(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"record", "start", "--tag", "drive way"}, "/startvideo?force=1&tag=drive%20way"},
		{[]string{"record", "stop"}, "/stopvideo?force=1"},
		{[]string{"zoom", "30"}, "/settings/ptz?zoom=30"},
		{[]string{"quality", "80"}, "/settings/quality?set=80"},
		{[]string{"orientation", "portrait"}, "/settings/orientation?set=portrait"},
		{[]string{"night-vision", "on"}, "/settings/night_vision?set=on"},
		{[]string{"ffc", "off"}, "/settings/ffc?set=off"},
		{[]string{"gps", "on"}, "/settings/gps_active?set=on"},
		{[]string{"set", "photo_size", "1920x1080"}, "/settings/photo_size?set=1920x1080"},
		{[]string{"focus", "off"}, "/nofocus"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cam, conn := startCamera(t)
			out, err := run(t, append(append(tt.args, "--format", "compact"), conn...)...)
			if err != nil {
				t.Fatalf("%v: %v\n%s", tt.args, err, out)
			}
			got := cam.seen()
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("requests = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestSetCommand_SendsValueAsTyped(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"0.50", "/settings/k?set=0.50"},
		{"007", "/settings/k?set=007"},
		{"1e3", "/settings/k?set=1e3"},
		{"inf", "/settings/k?set=inf"},
		{"on", "/settings/k?set=on"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cam, conn := startCamera(t)
			if out, err := run(t, append([]string{"set", "k", tt.value, "--format", "compact"}, conn...)...); err != nil {
				t.Fatalf("set k %s: %v\n%s", tt.value, err, out)
			}
			if got := cam.seen(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("requests = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestSceneModeCommand_ValidatesAgainstCamera(t *testing.T) {
	cam, conn := startCamera(t)

	if _, err := run(t, append([]string{"scenemode", "sunset", "--format", "compact"}, conn...)...); err == nil {
		t.Fatal("sunset is not offered by the camera and should be rejected")
	}
	for _, req := range cam.seen() {
		if strings.HasPrefix(req, "/settings/scenemode") {
			t.Errorf("rejected scene mode should not be sent: %v", cam.seen())
		}
	}

	if _, err := run(t, append([]string{"scenemode", "night", "--format", "compact"}, conn...)...); err != nil {
		t.Fatalf("scenemode night: %v", err)
	}
	got := cam.seen()
	if got[len(got)-1] != "/settings/scenemode?set=night" {
		t.Errorf("last request = %s", got[len(got)-1])
	}
}

func TestArgumentValidation_NoRequest(t *testing.T) {
	tests := [][]string{
		{"torch", "maybe"},
		{"quality", "101"},
		{"orientation", "sideways"},
		{"zoom", "far"},
		{"record", "pause"},
		{"urls", "--video", "vp9"},
	}

	for _, args := range tests {
		cam, conn := startCamera(t)
		if _, err := run(t, append(args, conn...)...); err == nil {
			t.Errorf("%v should fail", args)
		}
		if got := cam.seen(); len(got) != 0 {
			t.Errorf("%v sent requests %v", args, got)
		}
	}
}

func TestSensorCommand(t *testing.T) {
	_, conn := startCamera(t)

	out, err := run(t, append([]string{"sensor", "battery_level", "--format", "compact"}, conn...)...)
	if err != nil {
		t.Fatalf("sensor: %v", err)
	}
	if strings.TrimSpace(out) != "55 %" {
		t.Errorf("output = %q, want 55 %%", out)
	}

	if _, err := run(t, append([]string{"sensor", "light"}, conn...)...); err == nil {
		t.Error("unknown sensor should fail")
	}
}

func TestURLsCommand(t *testing.T) {
	out, err := run(t, "urls", "--host", "10.0.0.5", "--username", "admin", "--password", "pw", "--video", "h264", "--audio", "aac", "--format", "json")
	if err != nil {
		t.Fatalf("urls: %v", err)
	}

	var urls map[string]string
	if err := json.Unmarshal([]byte(out), &urls); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if urls["rtsp"] != "rtsps://admin:pw@10.0.0.5:8080/h264_aac.sdp" {
		t.Errorf("rtsp = %s", urls["rtsp"])
	}
	if urls["mjpeg"] != "https://10.0.0.5:8080/video" {
		t.Errorf("mjpeg = %s", urls["mjpeg"])
	}
}

func TestCameraRegistryCommands(t *testing.T) {
	registry := filepath.Join(t.TempDir(), "config.yaml")
	cam, conn := startCamera(t)

	// conn is [--host h --port p --ssl=false]
	add := append([]string{"camera", "add", "door", "--registry", registry}, conn...)
	if out, err := run(t, add...); err != nil {
		t.Fatalf("camera add: %v\n%s", err, out)
	}

	reg, err := config.LoadRegistryFrom(registry)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	saved := reg.GetCamera("door")
	if saved == nil || saved.UseSSL() || reg.Preferences.DefaultCamera != "door" {
		t.Fatalf("saved camera = %+v, default = %q", saved, reg.Preferences.DefaultCamera)
	}

	// Commands use the default camera when no --host is given
	if out, err := run(t, "torch", "off", "--registry", registry, "--format", "compact"); err != nil {
		t.Fatalf("torch via registry: %v\n%s", err, out)
	}
	if got := cam.seen(); len(got) != 1 || got[0] != "/disabletorch" {
		t.Errorf("requests = %v", got)
	}

	reg, _ = config.LoadRegistryFrom(registry)
	if reg.GetCamera("door").LastSeen.IsZero() {
		t.Error("successful command should update LastSeen")
	}

	out, err := run(t, "camera", "list", "--registry", registry)
	if err != nil || !strings.Contains(out, "door *") {
		t.Errorf("camera list = %q, %v", out, err)
	}

	if _, err := run(t, "camera", "remove", "door", "--registry", registry, "--yes"); err != nil {
		t.Fatalf("camera remove: %v", err)
	}
	reg, _ = config.LoadRegistryFrom(registry)
	if reg.GetCamera("door") != nil {
		t.Error("camera should be removed")
	}

	if _, err := run(t, "status", "--registry", registry); err == nil {
		t.Error("status without any camera should fail")
	}
}

func TestCameraRemove_Declined(t *testing.T) {
	registry := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := run(t, "camera", "add", "door", "--host", "10.0.0.5", "--registry", registry); err != nil {
		t.Fatalf("camera add: %v", err)
	}

	// run() feeds empty stdin, which declines
	out, err := run(t, "camera", "remove", "door", "--registry", registry)
	if err != nil || !strings.Contains(out, "Cancelled") {
		t.Errorf("remove = %q, %v", out, err)
	}
	reg, _ := config.LoadRegistryFrom(registry)
	if reg.GetCamera("door") == nil {
		t.Error("declined removal should keep the camera")
	}
}

func TestWatchPlain(t *testing.T) {
	cam, conn := startCamera(t)

	out, err := run(t, append([]string{"watch", "--count", "1", "--interval", "1", "--format", "compact"}, conn...)...)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !strings.Contains(out, "quality") || !strings.Contains(out, "battery_level") {
		t.Errorf("watch output missing data:\n%s", out)
	}
	if got := cam.seen(); len(got) != 2 {
		t.Errorf("one refresh should fetch status and sensors, got %v", got)
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil || info["version"] == "" {
		t.Errorf("version output = %q, %v", out, err)
	}
}
