package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
)

// RemoveReferralInput deletes a referral record.
type RemoveReferralInput struct {
	ReferralID string `json:"referral_id"`
	Actor      backoffice.ActorContext
}

type referralService interface {
	RemoveReferral(ctx context.Context, id string) error
	SetReferralStatus(ctx context.Context, id string, status backoffice.ReferralStatus) error
}

// RemoveReferralCommand wraps Service.RemoveReferral.
type RemoveReferralCommand struct {
	service   referralService
	telemetry Telemetry
}

// NewRemoveReferralCommand creates a command instance.
func NewRemoveReferralCommand(service referralService, telemetry Telemetry) *RemoveReferralCommand {
	return &RemoveReferralCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveReferralInput] = (*RemoveReferralCommand)(nil)

// Execute delegates to the back-office service.
func (c *RemoveReferralCommand) Execute(ctx context.Context, msg RemoveReferralInput) error {
	if c.service == nil {
		return errors.New("remove referral command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.RemoveReferral(ctx, msg.ReferralID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.referral.remove", map[string]any{"referral_id": msg.ReferralID})
	return nil
}

// SetReferralStatusInput transitions a referral.
type SetReferralStatusInput struct {
	ReferralID string                    `json:"referral_id"`
	Status     backoffice.ReferralStatus `json:"status"`
	Actor      backoffice.ActorContext
}

// SetReferralStatusCommand wraps Service.SetReferralStatus.
type SetReferralStatusCommand struct {
	service   referralService
	telemetry Telemetry
}

// NewSetReferralStatusCommand creates a command instance.
func NewSetReferralStatusCommand(service referralService, telemetry Telemetry) *SetReferralStatusCommand {
	return &SetReferralStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetReferralStatusInput] = (*SetReferralStatusCommand)(nil)

// Execute delegates to the back-office service.
func (c *SetReferralStatusCommand) Execute(ctx context.Context, msg SetReferralStatusInput) error {
	if c.service == nil {
		return errors.New("set referral status command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.SetReferralStatus(ctx, msg.ReferralID, msg.Status); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.referral.status", map[string]any{
		"referral_id": msg.ReferralID,
		"status":      string(msg.Status),
	})
	return nil
}
