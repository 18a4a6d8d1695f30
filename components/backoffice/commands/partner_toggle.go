package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
)

// TogglePartnerInput flips a partner's active flag.
type TogglePartnerInput struct {
	PartnerID string `json:"partner_id"`
	Actor     backoffice.ActorContext
}

type partnerService interface {
	TogglePartner(ctx context.Context, id string) error
	SetPartnerRate(ctx context.Context, id string, rate float64) error
}

// TogglePartnerCommand wraps Service.TogglePartner.
type TogglePartnerCommand struct {
	service   partnerService
	telemetry Telemetry
}

// NewTogglePartnerCommand creates a command instance.
func NewTogglePartnerCommand(service partnerService, telemetry Telemetry) *TogglePartnerCommand {
	return &TogglePartnerCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TogglePartnerInput] = (*TogglePartnerCommand)(nil)

// Execute delegates to the back-office service.
func (c *TogglePartnerCommand) Execute(ctx context.Context, msg TogglePartnerInput) error {
	if c.service == nil {
		return errors.New("toggle partner command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.TogglePartner(ctx, msg.PartnerID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.partner.toggle", map[string]any{"partner_id": msg.PartnerID})
	return nil
}

// SetPartnerRateInput updates a partner's commission rate.
type SetPartnerRateInput struct {
	PartnerID string  `json:"partner_id"`
	Rate      float64 `json:"rate"`
	Actor     backoffice.ActorContext
}

// SetPartnerRateCommand wraps Service.SetPartnerRate.
type SetPartnerRateCommand struct {
	service   partnerService
	telemetry Telemetry
}

// NewSetPartnerRateCommand creates a command instance.
func NewSetPartnerRateCommand(service partnerService, telemetry Telemetry) *SetPartnerRateCommand {
	return &SetPartnerRateCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetPartnerRateInput] = (*SetPartnerRateCommand)(nil)

// Execute delegates to the back-office service.
func (c *SetPartnerRateCommand) Execute(ctx context.Context, msg SetPartnerRateInput) error {
	if c.service == nil {
		return errors.New("set partner rate command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.SetPartnerRate(ctx, msg.PartnerID, msg.Rate); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.partner.rate", map[string]any{
		"partner_id": msg.PartnerID,
		"rate":       msg.Rate,
	})
	return nil
}
