package ipcam

import (
	"fmt"
	"strings"
)

// FormatSettings returns an aligned, sorted listing of current settings.
// When withAvailable is set, the allowed values are listed after each setting.
func (c *Client) FormatSettings(withAvailable bool) string {
	if !c.HasStatus() {
		return "No status fetched yet\n"
	}

	settings := c.CurrentSettings()
	available := c.AvailableSettings()
	names := c.EnabledSettings()

	var b strings.Builder
	b.WriteString("=== Current Settings ===\n")
	width := maxLen(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("%-*s  %s", width, name, settings[name]))
		if withAvailable {
			if allowed := available[name]; len(allowed) > 0 {
				b.WriteString(fmt.Sprintf("  [%s]", joinValues(allowed)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSensors returns an aligned, sorted listing of sensor readings
func (c *Client) FormatSensors() string {
	if !c.HasSensors() {
		return "No sensors fetched yet\n"
	}

	names := c.EnabledSensors()
	var b strings.Builder
	b.WriteString("=== Sensors ===\n")
	width := maxLen(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("%-*s  %s\n", width, name, c.FormatSensor(name)))
	}
	return b.String()
}

// FormatSensor renders a sensor's latest values with their unit, e.g. "55 %"
func (c *Client) FormatSensor(name string) string {
	values, ok := c.SensorValues(name)
	if !ok {
		return "(no data)"
	}
	text := joinValues(values)
	if unit, _ := c.SensorUnit(name); unit != "" {
		text += " " + unit
	}
	return text
}

// FormatURLs returns the stream and snapshot URLs of the camera
func (c *Client) FormatURLs(video VideoCodec, audio AudioCodec) string {
	var b strings.Builder
	b.WriteString("=== Stream URLs ===\n")
	b.WriteString(fmt.Sprintf("Base:       %s\n", c.BaseURL()))
	b.WriteString(fmt.Sprintf("MJPEG:      %s\n", c.MJPEGURL()))
	b.WriteString(fmt.Sprintf("Snapshot:   %s\n", c.ImageURL()))
	b.WriteString(fmt.Sprintf("Audio WAV:  %s\n", c.AudioWAVURL()))
	b.WriteString(fmt.Sprintf("Audio AAC:  %s\n", c.AudioAACURL()))
	b.WriteString(fmt.Sprintf("Audio Opus: %s\n", c.AudioOpusURL()))
	b.WriteString(fmt.Sprintf("RTSP:       %s\n", c.RTSPURL(video, audio)))
	return b.String()
}

func joinValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func maxLen(names []string) int {
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	return width
}
