package ipcam

import (
	"context"
	"strings"
	"testing"
)

func TestFormat_BeforeUpdate(t *testing.T) {
	client := NewClient(nil, "1.2.3.4", 8080)

	if got := client.FormatSettings(true); got != "No status fetched yet\n" {
		t.Errorf("FormatSettings() = %q", got)
	}
	if got := client.FormatSensors(); got != "No sensors fetched yet\n" {
		t.Errorf("FormatSensors() = %q", got)
	}
	if got := client.FormatSensor("battery_level"); got != "(no data)" {
		t.Errorf("FormatSensor() = %q", got)
	}
}

func TestFormatSettings(t *testing.T) {
	client, _ := newTestClient(t, cameraHandler(t, nil))
	if err := client.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	plain := client.FormatSettings(false)
	if !strings.HasPrefix(plain, "=== Current Settings ===\n") {
		t.Errorf("missing heading:\n%s", plain)
	}
	if !strings.Contains(plain, "quality       49\n") {
		t.Errorf("settings should be aligned:\n%s", plain)
	}
	if strings.Index(plain, "night_vision") > strings.Index(plain, "torch") {
		t.Errorf("settings should be sorted:\n%s", plain)
	}
	if strings.Contains(plain, "[") {
		t.Errorf("allowed values should be hidden:\n%s", plain)
	}

	full := client.FormatSettings(true)
	if !strings.Contains(full, "scenemode     auto  [auto, night, sunset]") {
		t.Errorf("allowed values should be listed:\n%s", full)
	}
}

func TestFormatSensors(t *testing.T) {
	client, _ := newTestClient(t, cameraHandler(t, nil))
	if err := client.Update(context.Background()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"battery_level", "55 %"},
		{"accel", "0.1, 9.8, 0.3 m/s²"},
		{"light", "(no data)"},
		{"broken", "(no data)"},
	}
	for _, tt := range tests {
		if got := client.FormatSensor(tt.name); got != tt.want {
			t.Errorf("FormatSensor(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}

	all := client.FormatSensors()
	if !strings.HasPrefix(all, "=== Sensors ===\n") || !strings.Contains(all, "battery_level  55 %\n") {
		t.Errorf("FormatSensors() =\n%s", all)
	}
}

func TestFormatURLs(t *testing.T) {
	client := NewClient(nil, "1.2.3.4", 8080)
	client.SetSSL(false)

	out := client.FormatURLs(VideoJPEG, AudioULaw)
	for _, want := range []string{
		"MJPEG:      http://1.2.3.4:8080/video",
		"Snapshot:   http://1.2.3.4:8080/shot.jpg",
		"RTSP:       rtsp://1.2.3.4:8080/jpeg_ulaw.sdp",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatURLs() missing %q:\n%s", want, out)
		}
	}
}
