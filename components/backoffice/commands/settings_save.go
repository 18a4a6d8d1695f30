package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
)

// SaveSettingsInput persists one settings screen's payload.
type SaveSettingsInput struct {
	Screen  string `json:"screen"`
	Payload any    `json:"payload"`
	Actor   backoffice.ActorContext
}

type settingsService interface {
	SaveScreen(ctx context.Context, code string, payload any) error
}

// SaveSettingsCommand wraps Service.SaveScreen, which validates the payload
// against the screen schema before any request is issued.
type SaveSettingsCommand struct {
	service   settingsService
	telemetry Telemetry
}

// NewSaveSettingsCommand creates a command instance.
func NewSaveSettingsCommand(service settingsService, telemetry Telemetry) *SaveSettingsCommand {
	return &SaveSettingsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveSettingsInput] = (*SaveSettingsCommand)(nil)

// Execute delegates to the back-office service.
func (c *SaveSettingsCommand) Execute(ctx context.Context, msg SaveSettingsInput) error {
	if c.service == nil {
		return errors.New("save settings command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.SaveScreen(ctx, msg.Screen, msg.Payload); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.settings.save", map[string]any{"screen": msg.Screen})
	return nil
}
