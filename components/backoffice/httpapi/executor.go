package httpapi

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/backoffice/commands"
	"github.com/haulware/backoffice/components/collection"
)

// Service is the mutation surface the commands wrap.
type Service interface {
	SetLeadStatus(ctx context.Context, id string, status backoffice.LeadStatus) error
	BulkSetLeadStatus(ctx context.Context, ids []string, status backoffice.LeadStatus) (collection.BulkResult, error)
	CreateLead(ctx context.Context, lead backoffice.Lead) (backoffice.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	TogglePartner(ctx context.Context, id string) error
	SetPartnerRate(ctx context.Context, id string, rate float64) error
	MarkCommissionPaid(ctx context.Context, id string) error
	CreateActivity(ctx context.Context, activity backoffice.Activity) (backoffice.Activity, error)
	CompleteActivity(ctx context.Context, id string) error
	CancelActivity(ctx context.Context, id string) error
	RescheduleActivity(ctx context.Context, id string, due time.Time) error
	RemoveReferral(ctx context.Context, id string) error
	SetReferralStatus(ctx context.Context, id string, status backoffice.ReferralStatus) error
	SaveScreen(ctx context.Context, code string, payload any) error
	ServerExport(ctx context.Context, resource string, params collection.Params) ([]byte, error)
}

// Executor is the narrow command surface transports invoke.
type Executor interface {
	SetLeadStatus(ctx context.Context, msg commands.SetLeadStatusInput) error
	BulkSetLeadStatus(ctx context.Context, msg commands.BulkSetLeadStatusInput) error
	CreateLead(ctx context.Context, msg commands.CreateLeadInput) error
	DeleteLead(ctx context.Context, msg commands.DeleteLeadInput) error
	TogglePartner(ctx context.Context, msg commands.TogglePartnerInput) error
	PayCommission(ctx context.Context, msg commands.PayCommissionInput) error
	CompleteActivity(ctx context.Context, msg commands.CompleteActivityInput) error
	CancelActivity(ctx context.Context, msg commands.CancelActivityInput) error
	RemoveReferral(ctx context.Context, msg commands.RemoveReferralInput) error
	SaveSettings(ctx context.Context, msg commands.SaveSettingsInput) error
	ExportCSV(ctx context.Context, msg commands.ExportCSVInput) error
}

// CommandExecutor bundles the shared commands behind the Executor interface.
type CommandExecutor struct {
	SetLeadStatusCmd     gocommand.Commander[commands.SetLeadStatusInput]
	BulkSetLeadStatusCmd gocommand.Commander[commands.BulkSetLeadStatusInput]
	CreateLeadCmd        gocommand.Commander[commands.CreateLeadInput]
	DeleteLeadCmd        gocommand.Commander[commands.DeleteLeadInput]
	TogglePartnerCmd     gocommand.Commander[commands.TogglePartnerInput]
	PayCommissionCmd     gocommand.Commander[commands.PayCommissionInput]
	CompleteActivityCmd  gocommand.Commander[commands.CompleteActivityInput]
	CancelActivityCmd    gocommand.Commander[commands.CancelActivityInput]
	RemoveReferralCmd    gocommand.Commander[commands.RemoveReferralInput]
	SaveSettingsCmd      gocommand.Commander[commands.SaveSettingsInput]
	ExportCSVCmd         gocommand.Commander[commands.ExportCSVInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) SetLeadStatus(ctx context.Context, msg commands.SetLeadStatusInput) error {
	return e.SetLeadStatusCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) BulkSetLeadStatus(ctx context.Context, msg commands.BulkSetLeadStatusInput) error {
	return e.BulkSetLeadStatusCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) CreateLead(ctx context.Context, msg commands.CreateLeadInput) error {
	return e.CreateLeadCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) DeleteLead(ctx context.Context, msg commands.DeleteLeadInput) error {
	return e.DeleteLeadCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) TogglePartner(ctx context.Context, msg commands.TogglePartnerInput) error {
	return e.TogglePartnerCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) PayCommission(ctx context.Context, msg commands.PayCommissionInput) error {
	return e.PayCommissionCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) CompleteActivity(ctx context.Context, msg commands.CompleteActivityInput) error {
	return e.CompleteActivityCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) CancelActivity(ctx context.Context, msg commands.CancelActivityInput) error {
	return e.CancelActivityCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) RemoveReferral(ctx context.Context, msg commands.RemoveReferralInput) error {
	return e.RemoveReferralCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) SaveSettings(ctx context.Context, msg commands.SaveSettingsInput) error {
	return e.SaveSettingsCmd.Execute(ctx, msg)
}

func (e *CommandExecutor) ExportCSV(ctx context.Context, msg commands.ExportCSVInput) error {
	return e.ExportCSVCmd.Execute(ctx, msg)
}

// NewCommandExecutor wires every command against the provided service.
func NewCommandExecutor(service Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		SetLeadStatusCmd:     commands.NewSetLeadStatusCommand(service, telemetry),
		BulkSetLeadStatusCmd: commands.NewBulkSetLeadStatusCommand(service, telemetry),
		CreateLeadCmd:        commands.NewCreateLeadCommand(service, telemetry),
		DeleteLeadCmd:        commands.NewDeleteLeadCommand(service, telemetry),
		TogglePartnerCmd:     commands.NewTogglePartnerCommand(service, telemetry),
		PayCommissionCmd:     commands.NewPayCommissionCommand(service, telemetry),
		CompleteActivityCmd:  commands.NewCompleteActivityCommand(service, telemetry),
		CancelActivityCmd:    commands.NewCancelActivityCommand(service, telemetry),
		RemoveReferralCmd:    commands.NewRemoveReferralCommand(service, telemetry),
		SaveSettingsCmd:      commands.NewSaveSettingsCommand(service, telemetry),
		ExportCSVCmd:         commands.NewExportCSVCommand(service, telemetry),
	}
}
