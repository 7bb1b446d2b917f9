package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Device is a single device record as returned by GET /devices.
type Device struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	UUID             UUID      `json:"uuid"`
	Status           Status    `json:"status,omitempty"`
	StatusInterval   *float64  `json:"status_interval,omitempty"`
	ConnectionHealth *float64  `json:"connection_health,omitempty"`
	BatteryPowered   bool      `json:"battery_powered"`
	BatteryLevel     *float64  `json:"battery_level,omitempty"`
	Version          Version   `json:"version"`
	LastSeen         Timestamp `json:"last_seen"`
}

// StatusField is one key/value pair of a device status.
type StatusField struct {
	Key   string
	Value interface{}
}

// Status is a device status mapping that keeps the key order of the payload.
type Status []StatusField

// Get returns the value for key.
func (s Status) Get(key string) (interface{}, bool) {
	for _, f := range s {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (s *Status) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("status: expected object")
	}
	var out Status
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("status: expected key, got %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("status %s: %w", key, err)
		}
		out = append(out, StatusField{Key: key, Value: value})
	}
	*s = out
	return nil
}

// MarshalJSON encodes the status as a JSON object in field order.
func (s Status) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Version is a firmware version; the hub sends either a string or a number.
type Version string

// UnmarshalJSON accepts strings and bare numbers.
func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Version(s)
		return nil
	}
	*v = Version(data)
	return nil
}

// Timestamp is a last-seen time as written by the hub, in local time.
type Timestamp string

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// Time parses the timestamp. The hub writes local wall-clock times.
func (t Timestamp) Time() (time.Time, error) {
	s := strings.TrimSpace(string(t))
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
