package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
)

// PayCommissionInput marks a commission as paid out.
type PayCommissionInput struct {
	CommissionID string `json:"commission_id"`
	Actor        backoffice.ActorContext
}

type commissionService interface {
	MarkCommissionPaid(ctx context.Context, id string) error
}

// PayCommissionCommand wraps Service.MarkCommissionPaid.
type PayCommissionCommand struct {
	service   commissionService
	telemetry Telemetry
}

// NewPayCommissionCommand creates a command instance.
func NewPayCommissionCommand(service commissionService, telemetry Telemetry) *PayCommissionCommand {
	return &PayCommissionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PayCommissionInput] = (*PayCommissionCommand)(nil)

// Execute delegates to the back-office service.
func (c *PayCommissionCommand) Execute(ctx context.Context, msg PayCommissionInput) error {
	if c.service == nil {
		return errors.New("pay commission command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.MarkCommissionPaid(ctx, msg.CommissionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.commission.paid", map[string]any{"commission_id": msg.CommissionID})
	return nil
}
