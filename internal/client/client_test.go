package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/nrfsmart/nrfdash/internal/types"
	"github.com/rs/zerolog"
)

type staticAuth string

func (a staticAuth) Authorization() string { return string(a) }

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", staticAuth("Basic VVNFUjpzZWNyZXQ="), 2*time.Second, zerolog.Nop())
}

func TestDevicesSendsBasicAuth(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "USER" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet || r.URL.Path != "/devices" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`[{"id": 1, "name": "Lamp", "uuid": [1, 2]}]`))
	}))

	devices, err := c.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 1 || devices[0].Name != "Lamp" || devices[0].UUID.Path() != "1-2" {
		t.Errorf("unexpected devices: %+v", devices)
	}
}

func TestDevicesStatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized Access", http.StatusUnauthorized)
	}))

	_, err := c.Devices(context.Background())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 status error, got %v", err)
	}
	if errors.Is(err, ErrUnreachable) {
		t.Error("status error must not be classified as unreachable")
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, staticAuth(""), time.Second, zerolog.Nop())
	_, err := c.Devices(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestRenameDevice(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/devices/1-2/name" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
	}))

	if err := c.RenameDevice(context.Background(), types.UUID{1, 2}, "Kitchen"); err != nil {
		t.Fatalf("RenameDevice: %v", err)
	}
	if gotBody["name"] != "Kitchen" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestRemoveDeviceFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/devices/3-4" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("expected empty body, got %q", body)
		}
		http.Error(w, "Unable to parse UUID", http.StatusBadRequest)
	}))

	err := c.RemoveDevice(context.Background(), types.UUID{3, 4})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest || se.Body != "Unable to parse UUID" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLogsGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(`[{"timestamp": 1700000000.5, "severity": "WARNING", "message": "low battery"}]`))
	zw.Close()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/plain")
		w.Write(buf.Bytes())
	}))

	entries, err := c.Logs(context.Background())
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(entries) != 1 || entries[0].Severity != "WARNING" || entries[0].Message != "low battery" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestDeviceParams(t *testing.T) {
	var putBody map[string]interface{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/devices/5-6/brightness":
			w.Write([]byte(`128`))
		case r.Method == http.MethodPut && r.URL.Path == "/devices/5-6/brightness":
			json.NewDecoder(r.Body).Decode(&putBody)
		case r.Method == http.MethodPost && r.URL.Path == "/restart":
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()
	id := types.UUID{5, 6}

	value, err := c.DeviceParam(ctx, id, "brightness")
	if err != nil || string(value) != "128" {
		t.Fatalf("DeviceParam = %s, %v", value, err)
	}
	if err := c.SetDeviceParam(ctx, id, "brightness", "200"); err != nil {
		t.Fatalf("SetDeviceParam: %v", err)
	}
	if putBody["value"] != "200" {
		t.Errorf("put body = %v", putBody)
	}
	if err := c.Restart(ctx); err != nil {
		t.Fatalf("Restart: %v", err)
	}
}

func TestDevicesBadResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not": "a list"}`)
	}))

	_, err := c.Devices(context.Background())
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("err = %v, want ErrBadResponse", err)
	}
	if errors.Is(err, ErrUnreachable) {
		t.Error("decode failure must not be reported as unreachable")
	}
}
