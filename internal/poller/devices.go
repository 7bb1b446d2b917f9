package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nrfsmart/nrfdash/internal/client"
	"github.com/nrfsmart/nrfdash/internal/render"
	"github.com/nrfsmart/nrfdash/internal/session"
	"github.com/nrfsmart/nrfdash/internal/types"
	"github.com/rs/zerolog"
)

// DeviceAPI is the part of the hub API the device poller needs.
type DeviceAPI interface {
	Devices(ctx context.Context) ([]types.Device, error)
	RenameDevice(ctx context.Context, id types.UUID, name string) error
	RemoveDevice(ctx context.Context, id types.UUID) error
}

// Prompter asks the user for input before a device mutation.
type Prompter interface {
	// PromptName returns the new name, or ok=false if the user cancelled.
	PromptName(id types.UUID) (name string, ok bool)
	// Confirm returns true if the user accepted message.
	Confirm(message string) bool
}

// ErrCancelled is returned when the user declines a prompt.
var ErrCancelled = errors.New("cancelled by user")

// DevicePoller fetches the device list and keeps the rendered table.
type DevicePoller struct {
	api    DeviceAPI
	banner *session.Banner
	logger zerolog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	table render.DeviceTable
}

// NewDevicePoller creates a device poller reporting errors on banner.
func NewDevicePoller(api DeviceAPI, banner *session.Banner, logger zerolog.Logger) *DevicePoller {
	return &DevicePoller{
		api:    api,
		banner: banner,
		logger: logger.With().Str("component", "device-poller").Logger(),
		now:    time.Now,
	}
}

// FetchAndPopulate fetches the device list and replaces the table.
// It returns false if the fetch failed; the banner says why.
func (p *DevicePoller) FetchAndPopulate(ctx context.Context) bool {
	return p.Populate(ctx) == nil
}

// Populate is FetchAndPopulate returning the underlying error.
func (p *DevicePoller) Populate(ctx context.Context) error {
	devices, err := p.api.Devices(ctx)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Debug().Err(err).Msg("Device fetch abandoned")
			return err
		}
		switch {
		case errors.Is(err, client.ErrUnreachable):
			p.banner.Set(session.MsgUnreachable)
		case errors.Is(err, client.ErrBadResponse):
			p.banner.Set(session.MsgBadResponse)
			p.logger.Warn().Err(err).Msg("Device list could not be decoded")
			return err
		default:
			p.banner.Set(session.MsgLoginFailed)
		}
		p.logger.Debug().Err(err).Msg("Device fetch failed")
		return err
	}

	p.banner.Clear()
	table := render.Devices(devices, p.now())

	p.mu.Lock()
	p.table = table
	p.mu.Unlock()

	p.logger.Debug().Int("device_count", len(table.Rows)).Msg("Device table updated")
	return nil
}

// Table returns the current table.
func (p *DevicePoller) Table() render.DeviceTable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rows := make([]render.DeviceRow, len(p.table.Rows))
	copy(rows, p.table.Rows)
	return render.DeviceTable{Rows: rows, UpdatedAt: p.table.UpdatedAt}
}

// Reset drops the rendered table.
func (p *DevicePoller) Reset() {
	p.mu.Lock()
	p.table = render.DeviceTable{}
	p.mu.Unlock()
}

// RenameDevice prompts for a new name of the device with the given action
// key (comma-joined UUID) and renames it. On success the table is re-fetched.
// Failures are logged only; the banner is left alone.
func (p *DevicePoller) RenameDevice(ctx context.Context, actionKey string, prompt Prompter) error {
	id, err := types.ParseDOM(actionKey)
	if err != nil {
		return p.mutationFailed("rename", actionKey, err)
	}
	name, ok := prompt.PromptName(id)
	if !ok {
		return ErrCancelled
	}
	if err := p.api.RenameDevice(ctx, id, name); err != nil {
		return p.mutationFailed("rename", id.Path(), err)
	}
	p.logger.Info().Str("uuid", id.Path()).Str("name", name).Msg("Device renamed")
	p.FetchAndPopulate(ctx)
	return nil
}

// RemoveDevice asks for confirmation and deletes the device. On success the
// table is re-fetched.
func (p *DevicePoller) RemoveDevice(ctx context.Context, actionKey string, prompt Prompter) error {
	id, err := types.ParseDOM(actionKey)
	if err != nil {
		return p.mutationFailed("remove", actionKey, err)
	}
	if !prompt.Confirm(RemoveConfirmation(id)) {
		return ErrCancelled
	}
	if err := p.api.RemoveDevice(ctx, id); err != nil {
		return p.mutationFailed("remove", id.Path(), err)
	}
	p.logger.Info().Str("uuid", id.Path()).Msg("Device removed")
	p.FetchAndPopulate(ctx)
	return nil
}

// RemoveConfirmation is the question asked before removing a device.
func RemoveConfirmation(id types.UUID) string {
	return fmt.Sprintf("Do you want to remove Device %s ?", id.Path())
}

func (p *DevicePoller) mutationFailed(op, id string, err error) error {
	p.logger.Error().
		Err(err).
		Str("op", op).
		Str("uuid", id).
		Msg("Device mutation failed")
	return fmt.Errorf("%s device %s: %w", op, id, err)
}
