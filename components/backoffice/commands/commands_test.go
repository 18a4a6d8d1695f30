package commands

import (
	"context"
	"testing"
	"time"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/collection"
)

type stubService struct {
	statusCalls     int
	bulkCalls       int
	createCalls     int
	deleteCalls     int
	toggleCalls     int
	rateCalls       int
	payCalls        int
	completeCalls   int
	cancelCalls     int
	rescheduleCalls int
	removeCalls     int
	refStatusCalls  int
	saveCalls       int

	exportCalls int

	lastActor  backoffice.ActorContext
	lastScreen string
	bulkResult collection.BulkResult
}

func (s *stubService) SetLeadStatus(ctx context.Context, _ string, _ backoffice.LeadStatus) error {
	s.statusCalls++
	s.lastActor = backoffice.ActorFrom(ctx)
	return nil
}

func (s *stubService) BulkSetLeadStatus(context.Context, []string, backoffice.LeadStatus) (collection.BulkResult, error) {
	s.bulkCalls++
	return s.bulkResult, nil
}

func (s *stubService) CreateLead(_ context.Context, lead backoffice.Lead) (backoffice.Lead, error) {
	s.createCalls++
	lead.ID = "l-new"
	return lead, nil
}

func (s *stubService) DeleteLead(context.Context, string) error {
	s.deleteCalls++
	return nil
}

func (s *stubService) TogglePartner(context.Context, string) error {
	s.toggleCalls++
	return nil
}

func (s *stubService) SetPartnerRate(context.Context, string, float64) error {
	s.rateCalls++
	return nil
}

func (s *stubService) MarkCommissionPaid(context.Context, string) error {
	s.payCalls++
	return nil
}

func (s *stubService) CreateActivity(_ context.Context, activity backoffice.Activity) (backoffice.Activity, error) {
	activity.ID = "a-new"
	return activity, nil
}

func (s *stubService) CompleteActivity(context.Context, string) error {
	s.completeCalls++
	return nil
}

func (s *stubService) CancelActivity(context.Context, string) error {
	s.cancelCalls++
	return nil
}

func (s *stubService) RescheduleActivity(context.Context, string, time.Time) error {
	s.rescheduleCalls++
	return nil
}

func (s *stubService) RemoveReferral(context.Context, string) error {
	s.removeCalls++
	return nil
}

func (s *stubService) SetReferralStatus(context.Context, string, backoffice.ReferralStatus) error {
	s.refStatusCalls++
	return nil
}

func (s *stubService) SaveScreen(_ context.Context, code string, _ any) error {
	s.saveCalls++
	s.lastScreen = code
	return nil
}

func (s *stubService) ServerExport(_ context.Context, resource string, _ collection.Params) ([]byte, error) {
	s.exportCalls++
	return []byte("Id,Name\n"), nil
}

type stubTelemetry struct {
	calls  int
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.calls++
	s.events = append(s.events, event)
}

func TestSetLeadStatusCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewSetLeadStatusCommand(service, telemetry)
	input := SetLeadStatusInput{
		LeadID: "l1",
		Status: backoffice.LeadQualified,
		Actor:  backoffice.ActorContext{ActorID: "dispatch@haulware.test"},
	}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.statusCalls != 1 {
		t.Fatalf("expected status call")
	}
	if service.lastActor.ActorID != "dispatch@haulware.test" {
		t.Fatalf("actor not propagated, got %q", service.lastActor.ActorID)
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestSetLeadStatusCommandRequiresService(t *testing.T) {
	cmd := NewSetLeadStatusCommand(nil, nil)
	if err := cmd.Execute(context.Background(), SetLeadStatusInput{}); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestBulkSetLeadStatusCommandWritesResult(t *testing.T) {
	service := &stubService{bulkResult: collection.BulkResult{Succeeded: []string{"l1", "l2"}}}
	cmd := NewBulkSetLeadStatusCommand(service, nil)
	var result collection.BulkResult
	input := BulkSetLeadStatusInput{
		LeadIDs: []string{"l1", "l2"},
		Status:  backoffice.LeadContacted,
		Result:  &result,
	}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(result.Succeeded) != 2 {
		t.Fatalf("result not written, got %v", result)
	}
}

func TestCreateLeadCommandWritesCreated(t *testing.T) {
	service := &stubService{}
	cmd := NewCreateLeadCommand(service, nil)
	var created backoffice.Lead
	input := CreateLeadInput{
		Lead:    backoffice.Lead{Name: "Carol Move"},
		Created: &created,
	}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if created.ID != "l-new" {
		t.Fatalf("created lead not written, got %+v", created)
	}
}

func TestDeleteLeadCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewDeleteLeadCommand(service, nil)
	if err := cmd.Execute(context.Background(), DeleteLeadInput{LeadID: "l1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.deleteCalls != 1 {
		t.Fatalf("expected delete call")
	}
}

func TestTogglePartnerCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewTogglePartnerCommand(service, nil)
	if err := cmd.Execute(context.Background(), TogglePartnerInput{PartnerID: "p1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.toggleCalls != 1 {
		t.Fatalf("expected toggle call")
	}
}

func TestSetPartnerRateCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSetPartnerRateCommand(service, nil)
	if err := cmd.Execute(context.Background(), SetPartnerRateInput{PartnerID: "p1", Rate: 0.12}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.rateCalls != 1 {
		t.Fatalf("expected rate call")
	}
}

func TestPayCommissionCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewPayCommissionCommand(service, nil)
	if err := cmd.Execute(context.Background(), PayCommissionInput{CommissionID: "c1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.payCalls != 1 {
		t.Fatalf("expected pay call")
	}
}

func TestActivityCommands(t *testing.T) {
	service := &stubService{}
	if err := NewCompleteActivityCommand(service, nil).Execute(context.Background(), CompleteActivityInput{ActivityID: "a1"}); err != nil {
		t.Fatalf("complete returned error: %v", err)
	}
	if err := NewCancelActivityCommand(service, nil).Execute(context.Background(), CancelActivityInput{ActivityID: "a1"}); err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}
	if err := NewRescheduleActivityCommand(service, nil).Execute(context.Background(), RescheduleActivityInput{
		ActivityID: "a1",
		DueAt:      time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("reschedule returned error: %v", err)
	}
	if service.completeCalls != 1 || service.cancelCalls != 1 || service.rescheduleCalls != 1 {
		t.Fatalf("unexpected call counts: %+v", service)
	}

	var created backoffice.Activity
	if err := NewCreateActivityCommand(service, nil).Execute(context.Background(), CreateActivityInput{
		Activity: backoffice.Activity{LeadID: "l1", Kind: "survey"},
		Created:  &created,
	}); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if created.ID != "a-new" {
		t.Fatalf("created activity not written")
	}
}

func TestReferralCommands(t *testing.T) {
	service := &stubService{}
	if err := NewRemoveReferralCommand(service, nil).Execute(context.Background(), RemoveReferralInput{ReferralID: "r1"}); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if err := NewSetReferralStatusCommand(service, nil).Execute(context.Background(), SetReferralStatusInput{
		ReferralID: "r1",
		Status:     backoffice.ReferralConverted,
	}); err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if service.removeCalls != 1 || service.refStatusCalls != 1 {
		t.Fatalf("unexpected call counts: %+v", service)
	}
}

func TestExportCSVCommandWritesBlob(t *testing.T) {
	service := &stubService{}
	cmd := NewExportCSVCommand(service, nil)
	var blob []byte
	input := ExportCSVInput{Resource: "leads", Blob: &blob}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.exportCalls != 1 {
		t.Fatalf("expected export call")
	}
	if string(blob) != "Id,Name\n" {
		t.Fatalf("blob not written, got %q", blob)
	}
}

func TestExportCSVCommandRequiresResource(t *testing.T) {
	service := &stubService{}
	cmd := NewExportCSVCommand(service, nil)
	if err := cmd.Execute(context.Background(), ExportCSVInput{}); err == nil {
		t.Fatalf("expected error for missing resource")
	}
	if service.exportCalls != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestSaveSettingsCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSaveSettingsCommand(service, nil)
	input := SaveSettingsInput{
		Screen:  backoffice.ScreenTariffs,
		Payload: backoffice.TariffSettings{BaseRatePerHour: 120, Currency: "USD"},
	}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.saveCalls != 1 || service.lastScreen != backoffice.ScreenTariffs {
		t.Fatalf("unexpected save state: %+v", service)
	}
}
