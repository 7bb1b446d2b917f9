package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/nrfsmart/nrfdash/internal/types"
	"github.com/rs/zerolog"
)

// ErrUnreachable wraps transport failures (connection refused, DNS, timeouts).
var ErrUnreachable = errors.New("server not reachable")

// ErrBadResponse wraps 200 responses whose body could not be decoded.
var ErrBadResponse = errors.New("malformed response")

// StatusError is returned when the hub answers with an unexpected status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP error %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: HTTP error %d - %s", e.Method, e.Path, e.Code, e.Body)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Authorizer supplies the Authorization header value for each request.
type Authorizer interface {
	Authorization() string
}

// Client talks to the hub's device-management API
type Client struct {
	baseURL string
	auth    Authorizer
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a hub API client
func NewClient(baseURL string, auth Authorizer, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		http: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "client").Logger(),
	}
}

// Devices fetches the full device list. Any status other than 200 is an error.
func (c *Client) Devices(ctx context.Context) ([]types.Device, error) {
	var devices []types.Device
	if err := c.getJSON(ctx, "/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Device fetches a single device.
func (c *Client) Device(ctx context.Context, id types.UUID) (types.Device, error) {
	var device types.Device
	err := c.getJSON(ctx, "/devices/"+id.Path(), &device)
	return device, err
}

// Logs fetches the hub's log buffer.
func (c *Client) Logs(ctx context.Context) ([]types.LogEntry, error) {
	var entries []types.LogEntry
	if err := c.getJSON(ctx, "/logs", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RenameDevice sets a new display name for a device.
func (c *Client) RenameDevice(ctx context.Context, id types.UUID, name string) error {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/devices/"+id.Path()+"/name", body)
	if err != nil {
		return err
	}
	return expectOK(resp)
}

// RemoveDevice deletes a device from the hub.
func (c *Client) RemoveDevice(ctx context.Context, id types.UUID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/devices/"+id.Path(), []byte{})
	if err != nil {
		return err
	}
	return expectOK(resp)
}

// DeviceParam reads a single device parameter. The value is returned raw.
func (c *Client) DeviceParam(ctx context.Context, id types.UUID, param string) (json.RawMessage, error) {
	var value json.RawMessage
	if err := c.getJSON(ctx, "/devices/"+id.Path()+"/"+param, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// SetDeviceParam writes a single device parameter.
func (c *Client) SetDeviceParam(ctx context.Context, id types.UUID, param string, value interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"value": value})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/devices/"+id.Path()+"/"+param, body)
	if err != nil {
		return err
	}
	return expectOK(resp)
}

// Restart asks the hub to restart its services.
func (c *Client) Restart(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/restart", nil)
	if err != nil {
		return err
	}
	return expectOK(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	body, err := decodedBody(resp)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrBadResponse, path, err)
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: failed to decode response: %v", ErrBadResponse, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.auth != nil {
		if h := c.auth.Authorization(); h != "" {
			req.Header.Set("Authorization", h)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("hub request")

	return resp, nil
}

// decodedBody undoes gzip encoding the transport did not already strip.
// The hub gzips /logs and labels it text/plain.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	if resp.Uncompressed || !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.NopCloser(resp.Body), nil
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip body: %w", err)
	}
	return zr, nil
}

func expectOK(resp *http.Response) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		Method: resp.Request.Method,
		Path:   resp.Request.URL.Path,
		Code:   resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}
