package queries

import (
	"context"
	"errors"
	"testing"

	backoffice "github.com/haulware/backoffice/components/backoffice"
)

type stubAuditService struct {
	calls int
	last  backoffice.AuditQuery
}

func (s *stubAuditService) AuditLog(_ context.Context, query backoffice.AuditQuery) ([]backoffice.AuditEntry, error) {
	s.calls++
	s.last = query
	return []backoffice.AuditEntry{{ID: "a1", Action: "lead.status"}}, nil
}

type stubScreenService struct {
	calls int
	err   error
}

func (s *stubScreenService) FetchScreen(_ context.Context, code string, out any) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if payload, ok := out.(*map[string]any); ok {
		*payload = map[string]any{"code": code, "base_rate_per_hour": 120.0}
	}
	return nil
}

type stubReportService struct {
	leadCalls       int
	commissionCalls int
	buildCalls      int
	loadErr         error
}

func (s *stubReportService) LoadLeads(context.Context, backoffice.LeadQuery) error {
	s.leadCalls++
	return s.loadErr
}

func (s *stubReportService) LoadCommissions(context.Context, backoffice.CommissionQuery) error {
	s.commissionCalls++
	return nil
}

func (s *stubReportService) BuildReport(context.Context, *backoffice.ReportBuilder) (backoffice.Report, error) {
	s.buildCalls++
	return backoffice.Report{Funnel: backoffice.FunnelReport{Total: 6}}, nil
}

func TestAuditLogQuery(t *testing.T) {
	service := &stubAuditService{}
	query := NewAuditLogQuery(service)
	entries, err := query.Query(context.Background(), backoffice.AuditQuery{Limit: 5, Actor: "ops"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 || service.last.Actor != "ops" {
		t.Fatalf("filter not forwarded: calls=%d last=%+v", service.calls, service.last)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestScreenQuery(t *testing.T) {
	service := &stubScreenService{}
	query := NewScreenQuery(service)
	payload, err := query.Query(context.Background(), "pricing.tariffs")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if payload["code"] != "pricing.tariffs" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestScreenQueryPropagatesError(t *testing.T) {
	service := &stubScreenService{err: errors.New("backend down")}
	query := NewScreenQuery(service)
	if _, err := query.Query(context.Background(), "pricing.tariffs"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReportQueryLoadsBeforeBuilding(t *testing.T) {
	service := &stubReportService{}
	query := NewReportQuery(service, nil)
	report, err := query.Query(context.Background(), ReportInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.leadCalls != 1 || service.commissionCalls != 1 || service.buildCalls != 1 {
		t.Fatalf("unexpected call counts: %+v", service)
	}
	if report.Funnel.Total != 6 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestReportQueryStopsOnLoadFailure(t *testing.T) {
	service := &stubReportService{loadErr: errors.New("backend down")}
	query := NewReportQuery(service, nil)
	if _, err := query.Query(context.Background(), ReportInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if service.buildCalls != 0 {
		t.Fatalf("report built despite load failure")
	}
}
