package ipcam

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus([]byte(mockStatusResponse))
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}

	if status.CurVals["quality"] != "49" {
		t.Errorf("curvals quality = %q, want 49", status.CurVals["quality"])
	}
	if got := status.Avail["scenemode"]; len(got) != 3 || got[1] != "night" {
		t.Errorf("avail scenemode = %v", got)
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"array", "[]"},
		{"object value", `{"curvals": {"a": {"b": 1}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatus([]byte(tt.body))
			if !IsParseError(err) {
				t.Errorf("ParseStatus(%s) error = %v, want parse error", tt.body, err)
			}
		})
	}
}

func TestParseSensors(t *testing.T) {
	sensors, err := ParseSensors([]byte(mockSensorsResponse))
	if err != nil {
		t.Fatalf("ParseSensors() error = %v", err)
	}

	battery := sensors["battery_level"]
	if battery == nil {
		t.Fatal("battery_level should be decoded")
	}
	if len(battery.Data) != 2 {
		t.Errorf("battery_level has %d readings, want 2", len(battery.Data))
	}
	latest, ok := battery.Latest()
	if !ok || latest.Timestamp != 1700000001000 || latest.Values[0] != Number(55) {
		t.Errorf("Latest() = %+v, %v", latest, ok)
	}

	if _, present := sensors["broken"]; !present {
		t.Error("malformed sensor should be kept as a key")
	}
	if sensors["broken"] != nil {
		t.Error("malformed sensor should decode to nil")
	}
}

func TestParseSensors_NullEntry(t *testing.T) {
	sensors, err := ParseSensors([]byte(`{"proximity": null}`))
	if err != nil {
		t.Fatalf("ParseSensors() error = %v", err)
	}
	if s, present := sensors["proximity"]; !present || s != nil {
		t.Errorf("proximity = %v, %v; want nil, true", s, present)
	}
}

func TestReading_Malformed(t *testing.T) {
	tests := []string{
		`[1]`,
		`[1, 2, 3]`,
		`["ts", [1]]`,
		`[1, 5]`,
		`{}`,
	}

	for _, body := range tests {
		var r Reading
		if err := json.Unmarshal([]byte(body), &r); err == nil {
			t.Errorf("Unmarshal(%s) should fail", body)
		}
	}
}

func TestReading_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Reading{Timestamp: 5, Values: []Value{Number(1), Text("x")}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `[5,[1,"x"]]` {
		t.Errorf("Marshal() = %s", data)
	}
}
