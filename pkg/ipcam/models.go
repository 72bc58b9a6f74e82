package ipcam

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the snapshot returned by GET /status.json?show_avail=1
type Status struct {
	// CurVals holds the current value of every setting, as text
	CurVals map[string]string `json:"curvals"`

	// Avail holds the allowed values of every setting, in device order
	Avail map[string][]string `json:"avail"`
}

// Sensors is the snapshot returned by GET /sensors.json, keyed by sensor name.
// A sensor entry the camera sent in an unexpected shape is stored as nil.
type Sensors map[string]*Sensor

// Sensor is one sensor node: a unit and a time series of readings.
// Unit is nil when the camera sent no unit key.
type Sensor struct {
	Unit *string   `json:"unit"`
	Data []Reading `json:"data"`
}

// Reading is a single [timestamp, [values...]] data point
type Reading struct {
	Timestamp float64
	Values    []Value
}

// Latest returns the most recent reading
func (s *Sensor) Latest() (Reading, bool) {
	if s == nil || len(s.Data) == 0 {
		return Reading{}, false
	}
	return s.Data[len(s.Data)-1], true
}

// UnmarshalJSON decodes the two-element array form used by the camera
func (r *Reading) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("reading has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Timestamp); err != nil {
		return fmt.Errorf("reading timestamp: %w", err)
	}
	if err := json.Unmarshal(pair[1], &r.Values); err != nil {
		return fmt.Errorf("reading values: %w", err)
	}
	return nil
}

// MarshalJSON encodes the reading back into the camera's array form
func (r Reading) MarshalJSON() ([]byte, error) {
	values := r.Values
	if values == nil {
		values = []Value{}
	}
	return json.Marshal([]any{r.Timestamp, values})
}

// deviceString accepts any JSON scalar and keeps its textual form.
// The camera sends settings as strings, but older builds emit bare numbers.
type deviceString string

func (s *deviceString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = deviceString(str)
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*s = ""
	case bool:
		*s = deviceString(strconv.FormatBool(t))
	case float64:
		*s = deviceString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported setting value %s", string(data))
	}
	return nil
}

// ParseStatus decodes a status.json body. A JSON null yields an empty snapshot.
func ParseStatus(data []byte) (*Status, error) {
	var wire struct {
		CurVals map[string]deviceString   `json:"curvals"`
		Avail   map[string][]deviceString `json:"avail"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, NewParseError("failed to parse status response", err)
	}

	status := &Status{
		CurVals: make(map[string]string, len(wire.CurVals)),
		Avail:   make(map[string][]string, len(wire.Avail)),
	}
	for key, val := range wire.CurVals {
		status.CurVals[key] = string(val)
	}
	for key, vals := range wire.Avail {
		list := make([]string, len(vals))
		for i, val := range vals {
			list[i] = string(val)
		}
		status.Avail[key] = list
	}
	return status, nil
}

// ParseSensors decodes a sensors.json body. Entries that do not match the
// expected {unit, data} shape are kept as nil so they still show up as enabled.
func ParseSensors(data []byte) (Sensors, error) {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, NewParseError("failed to parse sensors response", err)
	}

	sensors := make(Sensors, len(wire))
	for name, raw := range wire {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			sensors[name] = nil
			continue
		}
		var sensor Sensor
		if err := json.Unmarshal(raw, &sensor); err != nil {
			sensors[name] = nil
			continue
		}
		sensors[name] = &sensor
	}
	return sensors, nil
}
