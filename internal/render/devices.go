package render

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/nrfsmart/nrfdash/internal/types"
)

// NotAvailable is shown for absent values.
const NotAvailable = "N/A"

// DeviceRow is the render model of one device table row.
type DeviceRow struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	ActionKey     string   `json:"action_key"`
	Status        []string `json:"status"`
	Connection    string   `json:"connection"`
	Battery       string   `json:"battery"`
	UUIDColon     string   `json:"uuid_colon"`
	UUIDHex       string   `json:"uuid_hex"`
	UUIDCanonical string   `json:"uuid_canonical,omitempty"`
	Version       string   `json:"version"`
	LastSeen      string   `json:"last_seen"`
}

// DeviceTable is the render model of the whole device table, header excluded.
type DeviceTable struct {
	Rows      []DeviceRow `json:"rows"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SortDevices returns a copy of devices ordered by ascending id.
func SortDevices(devices []types.Device) []types.Device {
	sorted := make([]types.Device, len(devices))
	copy(sorted, devices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Devices builds a table with one row per device, sorted by id.
func Devices(devices []types.Device, now time.Time) DeviceTable {
	sorted := SortDevices(devices)
	rows := make([]DeviceRow, 0, len(sorted))
	for _, d := range sorted {
		rows = append(rows, Device(d, now))
	}
	return DeviceTable{Rows: rows, UpdatedAt: now}
}

// Device derives the row for a single device.
func Device(d types.Device, now time.Time) DeviceRow {
	return DeviceRow{
		ID:            d.ID,
		Name:          d.Name,
		Type:          d.Type,
		ActionKey:     d.UUID.DOM(),
		Status:        StatusLines(d),
		Connection:    ConnectionHealth(d.ConnectionHealth),
		Battery:       Battery(d.BatteryPowered, d.BatteryLevel),
		UUIDColon:     d.UUID.Colon(),
		UUIDHex:       d.UUID.HexBraces(),
		UUIDCanonical: d.UUID.Canonical(),
		Version:       string(d.Version),
		LastSeen:      LastSeen(d.LastSeen, now),
	}
}

// StatusLines renders the bulleted status list: the report interval first,
// then every status field in payload order.
func StatusLines(d types.Device) []string {
	lines := make([]string, 0, len(d.Status)+1)
	interval := NotAvailable
	if d.StatusInterval != nil && *d.StatusInterval > 0 {
		interval = formatNumber(*d.StatusInterval) + "s"
	}
	lines = append(lines, "status_interval: "+interval)

	for _, f := range d.Status {
		if f.Key == "power" {
			state := "off"
			if truthy(f.Value) {
				state = "on"
			}
			lines = append(lines, "power: "+state)
			continue
		}
		lines = append(lines, f.Key+": "+scalar(f.Value))
	}
	return lines
}

// ConnectionHealth renders a [0,1] ratio as a whole percentage.
// Absent and zero both render as N/A.
func ConnectionHealth(h *float64) string {
	if h == nil || *h == 0 {
		return NotAvailable
	}
	return strconv.FormatFloat(math.Round(*h*100), 'f', -1, 64) + "%"
}

// Battery renders a [0,255] level as round(level/2.55) percent.
func Battery(powered bool, level *float64) string {
	if !powered || level == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(math.Round(*level/2.55), 'f', -1, 64) + "%"
}

// LastSeen renders the relative age of a hub timestamp.
func LastSeen(ts types.Timestamp, now time.Time) string {
	t, err := ts.Time()
	if err != nil {
		return NotAvailable
	}
	return FormatElapsed(t, now)
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	default:
		return true
	}
}

func scalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case float64:
		return formatNumber(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
