package commands

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
)

type activityService interface {
	CreateActivity(ctx context.Context, activity backoffice.Activity) (backoffice.Activity, error)
	CompleteActivity(ctx context.Context, id string) error
	CancelActivity(ctx context.Context, id string) error
	RescheduleActivity(ctx context.Context, id string, due time.Time) error
}

// CreateActivityInput schedules a follow-up for a lead. When Created is
// non-nil the server-assigned record is written there.
type CreateActivityInput struct {
	Activity backoffice.Activity `json:"activity"`
	Actor    backoffice.ActorContext
	Created  *backoffice.Activity `json:"-"`
}

// CreateActivityCommand wraps Service.CreateActivity.
type CreateActivityCommand struct {
	service   activityService
	telemetry Telemetry
}

// NewCreateActivityCommand creates a command instance.
func NewCreateActivityCommand(service activityService, telemetry Telemetry) *CreateActivityCommand {
	return &CreateActivityCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateActivityInput] = (*CreateActivityCommand)(nil)

// Execute delegates to the back-office service.
func (c *CreateActivityCommand) Execute(ctx context.Context, msg CreateActivityInput) error {
	if c.service == nil {
		return errors.New("create activity command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	created, err := c.service.CreateActivity(ctx, msg.Activity)
	if err != nil {
		return err
	}
	if msg.Created != nil {
		*msg.Created = created
	}
	c.telemetry.Record(ctx, "commands.activity.create", map[string]any{
		"activity_id": created.ID,
		"lead_id":     created.LeadID,
		"kind":        created.Kind,
	})
	return nil
}

// CompleteActivityInput marks a follow-up done.
type CompleteActivityInput struct {
	ActivityID string `json:"activity_id"`
	Actor      backoffice.ActorContext
}

// CompleteActivityCommand wraps Service.CompleteActivity.
type CompleteActivityCommand struct {
	service   activityService
	telemetry Telemetry
}

// NewCompleteActivityCommand creates a command instance.
func NewCompleteActivityCommand(service activityService, telemetry Telemetry) *CompleteActivityCommand {
	return &CompleteActivityCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CompleteActivityInput] = (*CompleteActivityCommand)(nil)

// Execute delegates to the back-office service.
func (c *CompleteActivityCommand) Execute(ctx context.Context, msg CompleteActivityInput) error {
	if c.service == nil {
		return errors.New("complete activity command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.CompleteActivity(ctx, msg.ActivityID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.activity.complete", map[string]any{"activity_id": msg.ActivityID})
	return nil
}

// CancelActivityInput cancels a scheduled follow-up.
type CancelActivityInput struct {
	ActivityID string `json:"activity_id"`
	Actor      backoffice.ActorContext
}

// CancelActivityCommand wraps Service.CancelActivity.
type CancelActivityCommand struct {
	service   activityService
	telemetry Telemetry
}

// NewCancelActivityCommand creates a command instance.
func NewCancelActivityCommand(service activityService, telemetry Telemetry) *CancelActivityCommand {
	return &CancelActivityCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CancelActivityInput] = (*CancelActivityCommand)(nil)

// Execute delegates to the back-office service.
func (c *CancelActivityCommand) Execute(ctx context.Context, msg CancelActivityInput) error {
	if c.service == nil {
		return errors.New("cancel activity command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.CancelActivity(ctx, msg.ActivityID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.activity.cancel", map[string]any{"activity_id": msg.ActivityID})
	return nil
}

// RescheduleActivityInput moves a follow-up's due date.
type RescheduleActivityInput struct {
	ActivityID string    `json:"activity_id"`
	DueAt      time.Time `json:"due_at"`
	Actor      backoffice.ActorContext
}

// RescheduleActivityCommand wraps Service.RescheduleActivity.
type RescheduleActivityCommand struct {
	service   activityService
	telemetry Telemetry
}

// NewRescheduleActivityCommand creates a command instance.
func NewRescheduleActivityCommand(service activityService, telemetry Telemetry) *RescheduleActivityCommand {
	return &RescheduleActivityCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RescheduleActivityInput] = (*RescheduleActivityCommand)(nil)

// Execute delegates to the back-office service.
func (c *RescheduleActivityCommand) Execute(ctx context.Context, msg RescheduleActivityInput) error {
	if c.service == nil {
		return errors.New("reschedule activity command requires service")
	}
	ctx = backoffice.ContextWithActor(ctx, msg.Actor)
	if err := c.service.RescheduleActivity(ctx, msg.ActivityID, msg.DueAt); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "commands.activity.reschedule", map[string]any{"activity_id": msg.ActivityID})
	return nil
}
