// Package queries exposes the read side of the back-office service as
// go-command queriers.
package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	backoffice "github.com/haulware/backoffice/components/backoffice"
)

type auditService interface {
	AuditLog(ctx context.Context, query backoffice.AuditQuery) ([]backoffice.AuditEntry, error)
}

// AuditLogQuery fetches audit entries matching a filter.
type AuditLogQuery struct {
	service auditService
}

// NewAuditLogQuery builds the query.
func NewAuditLogQuery(service auditService) *AuditLogQuery {
	return &AuditLogQuery{service: service}
}

var _ gocommand.Querier[backoffice.AuditQuery, []backoffice.AuditEntry] = (*AuditLogQuery)(nil)

// Query returns the matching audit entries, newest first.
func (q *AuditLogQuery) Query(ctx context.Context, query backoffice.AuditQuery) ([]backoffice.AuditEntry, error) {
	return q.service.AuditLog(ctx, query)
}

type screenService interface {
	FetchScreen(ctx context.Context, code string, out any) error
}

// ScreenQuery fetches one settings screen's stored payload.
type ScreenQuery struct {
	service screenService
}

// NewScreenQuery builds the query.
func NewScreenQuery(service screenService) *ScreenQuery {
	return &ScreenQuery{service: service}
}

var _ gocommand.Querier[string, map[string]any] = (*ScreenQuery)(nil)

// Query returns the screen payload keyed by its schema fields.
func (q *ScreenQuery) Query(ctx context.Context, code string) (map[string]any, error) {
	var payload map[string]any
	if err := q.service.FetchScreen(ctx, code, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ReportInput scopes the conversion report to a lead and commission window.
type ReportInput struct {
	Leads       backoffice.LeadQuery
	Commissions backoffice.CommissionQuery
}

type reportService interface {
	LoadLeads(ctx context.Context, query backoffice.LeadQuery) error
	LoadCommissions(ctx context.Context, query backoffice.CommissionQuery) error
	BuildReport(ctx context.Context, builder *backoffice.ReportBuilder) (backoffice.Report, error)
}

// ReportQuery loads the scoped collections and builds the conversion report.
type ReportQuery struct {
	service reportService
	builder *backoffice.ReportBuilder
}

// NewReportQuery builds the query around a shared report builder.
func NewReportQuery(service reportService, builder *backoffice.ReportBuilder) *ReportQuery {
	return &ReportQuery{service: service, builder: builder}
}

var _ gocommand.Querier[ReportInput, backoffice.Report] = (*ReportQuery)(nil)

// Query refreshes leads and commissions for the window and aggregates them.
func (q *ReportQuery) Query(ctx context.Context, input ReportInput) (backoffice.Report, error) {
	if err := q.service.LoadLeads(ctx, input.Leads); err != nil {
		return backoffice.Report{}, err
	}
	if err := q.service.LoadCommissions(ctx, input.Commissions); err != nil {
		return backoffice.Report{}, err
	}
	return q.service.BuildReport(ctx, q.builder)
}
