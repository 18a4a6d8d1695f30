package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
)

// CreateLeadInput registers a new inquiry. When Created is non-nil the
// server-assigned record is written there.
type CreateLeadInput struct {
	Lead    backoffice.Lead `json:"lead"`
	Actor   backoffice.ActorContext
	Created *backoffice.Lead `json:"-"`
}

type leadCreateService interface {
	CreateLead(ctx context.Context, lead backoffice.Lead) (backoffice.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

// CreateLeadCommand wraps Service.CreateLead.
type CreateLeadCommand struct {
	service   leadCreateService
	telemetry Telemetry
}

// NewCreateLeadCommand creates a command instance.
func NewCreateLeadCommand(service leadCreateService, telemetry Telemetry) *CreateLeadCommand {
	return &CreateLeadCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateLeadInput] = (*CreateLeadCommand)(nil)

// Execute delegates to the back-office service.
func (c *CreateLeadCommand) Execute(ctx context.Context, msg CreateLeadInput) error {
	if c.service == nil {
		return errors.New("create lead command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	created, err := c.service.CreateLead(ctx, msg.Lead)
	if err != nil {
		return err
	}
	if msg.Created != nil {
		*msg.Created = created
	}
	c.telemetry.Record(ctx, "commands.lead.create", map[string]any{
		"lead_id": created.ID,
		"source":  created.Source,
	})
	return nil
}

// DeleteLeadInput removes a lead.
type DeleteLeadInput struct {
	LeadID string `json:"lead_id"`
	Actor  backoffice.ActorContext
}

// DeleteLeadCommand wraps Service.DeleteLead.
type DeleteLeadCommand struct {
	service   leadCreateService
	telemetry Telemetry
}

// NewDeleteLeadCommand creates a command instance.
func NewDeleteLeadCommand(service leadCreateService, telemetry Telemetry) *DeleteLeadCommand {
	return &DeleteLeadCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteLeadInput] = (*DeleteLeadCommand)(nil)

// Execute delegates to the back-office service.
func (c *DeleteLeadCommand) Execute(ctx context.Context, msg DeleteLeadInput) error {
	if c.service == nil {
		return errors.New("delete lead command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.DeleteLead(ctx, msg.LeadID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.lead.delete", map[string]any{"lead_id": msg.LeadID})
	return nil
}
