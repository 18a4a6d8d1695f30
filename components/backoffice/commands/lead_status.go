package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/collection"
)

// SetLeadStatusInput moves one lead to a new pipeline stage.
type SetLeadStatusInput struct {
	LeadID string                `json:"lead_id"`
	Status backoffice.LeadStatus `json:"status"`
	Actor  backoffice.ActorContext
}

type leadStatusService interface {
	SetLeadStatus(ctx context.Context, id string, status backoffice.LeadStatus) error
	BulkSetLeadStatus(ctx context.Context, ids []string, status backoffice.LeadStatus) (collection.BulkResult, error)
}

// SetLeadStatusCommand wraps Service.SetLeadStatus so transports can drive
// status changes without linking directly against the service.
type SetLeadStatusCommand struct {
	service   leadStatusService
	telemetry Telemetry
}

// NewSetLeadStatusCommand creates a command instance.
func NewSetLeadStatusCommand(service leadStatusService, telemetry Telemetry) *SetLeadStatusCommand {
	return &SetLeadStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetLeadStatusInput] = (*SetLeadStatusCommand)(nil)

// Execute delegates to the back-office service.
func (c *SetLeadStatusCommand) Execute(ctx context.Context, msg SetLeadStatusInput) error {
	if c.service == nil {
		return errors.New("set lead status command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.SetLeadStatus(ctx, msg.LeadID, msg.Status); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.lead.status", map[string]any{
		"lead_id": msg.LeadID,
		"status":  string(msg.Status),
	})
	return nil
}

// BulkSetLeadStatusInput moves many leads to the same stage at once. When
// Result is non-nil the per-id outcome is written there.
type BulkSetLeadStatusInput struct {
	LeadIDs []string              `json:"lead_ids"`
	Status  backoffice.LeadStatus `json:"status"`
	Actor   backoffice.ActorContext
	Result  *collection.BulkResult `json:"-"`
}

// BulkSetLeadStatusCommand applies one status to a batch of leads.
type BulkSetLeadStatusCommand struct {
	service   leadStatusService
	telemetry Telemetry
}

// NewBulkSetLeadStatusCommand creates a command instance.
func NewBulkSetLeadStatusCommand(service leadStatusService, telemetry Telemetry) *BulkSetLeadStatusCommand {
	return &BulkSetLeadStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[BulkSetLeadStatusInput] = (*BulkSetLeadStatusCommand)(nil)

// Execute delegates to the back-office service and records the batch outcome.
func (c *BulkSetLeadStatusCommand) Execute(ctx context.Context, msg BulkSetLeadStatusInput) error {
	if c.service == nil {
		return errors.New("bulk lead status command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	result, err := c.service.BulkSetLeadStatus(ctx, msg.LeadIDs, msg.Status)
	if msg.Result != nil {
		*msg.Result = result
	}
	c.telemetry.Record(ctx, "commands.lead.bulk_status", map[string]any{
		"requested": len(msg.LeadIDs),
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})
	return err
}
