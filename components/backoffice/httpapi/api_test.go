package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/backoffice/commands"
	"github.com/haulware/backoffice/components/collection"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
	hook  func(msg T)
}

func (s *stubCommander[T]) Execute(_ context.Context, msg T) error {
	s.last = msg
	s.calls++
	if s.hook != nil {
		s.hook(msg)
	}
	return s.err
}

func TestHandleSetLeadStatus(t *testing.T) {
	status := &stubCommander[commands.SetLeadStatusInput]{}
	api := &Handlers{SetLeadStatus: status}
	payload := commands.SetLeadStatusInput{LeadID: "l1", Status: backoffice.LeadQualified}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/leads/status", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleSetLeadStatus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if status.last.LeadID != "l1" {
		t.Fatalf("expected lead id propagation")
	}
}

func TestHandleSetLeadStatusBadPayload(t *testing.T) {
	api := &Handlers{SetLeadStatus: &stubCommander[commands.SetLeadStatusInput]{}}
	req := httptest.NewRequest(http.MethodPost, "/leads/status", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	api.HandleSetLeadStatus(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleBulkSetLeadStatus(t *testing.T) {
	bulk := &stubCommander[commands.BulkSetLeadStatusInput]{
		hook: func(msg commands.BulkSetLeadStatusInput) {
			*msg.Result = collection.BulkResult{Succeeded: msg.LeadIDs}
		},
	}
	api := &Handlers{BulkSetLeadStatus: bulk}
	payload := commands.BulkSetLeadStatusInput{LeadIDs: []string{"l1", "l2"}, Status: backoffice.LeadContacted}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/leads/bulk-status", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleBulkSetLeadStatus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result collection.BulkResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Succeeded) != 2 {
		t.Fatalf("expected succeeded ids in response, got %+v", result)
	}
}

func TestHandleBulkSetLeadStatusPartialFailure(t *testing.T) {
	bulk := &stubCommander[commands.BulkSetLeadStatusInput]{
		err: errors.New("one update failed"),
		hook: func(msg commands.BulkSetLeadStatusInput) {
			*msg.Result = collection.BulkResult{
				Succeeded: []string{"l1"},
				Failed:    []string{"l2"},
			}
		},
	}
	api := &Handlers{BulkSetLeadStatus: bulk}
	payload := commands.BulkSetLeadStatusInput{LeadIDs: []string{"l1", "l2"}, Status: backoffice.LeadContacted}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/leads/bulk-status", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleBulkSetLeadStatus(rec, req)
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207, got %d", rec.Code)
	}
}

func TestHandleCreateLead(t *testing.T) {
	create := &stubCommander[commands.CreateLeadInput]{
		hook: func(msg commands.CreateLeadInput) {
			msg.Created.ID = "l-new"
		},
	}
	api := &Handlers{CreateLead: create}
	payload := commands.CreateLeadInput{Lead: backoffice.Lead{Name: "Carol Move"}}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleCreateLead(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created backoffice.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID != "l-new" {
		t.Fatalf("expected server-assigned id in response")
	}
}

func TestHandleTogglePartner(t *testing.T) {
	toggle := &stubCommander[commands.TogglePartnerInput]{}
	api := &Handlers{TogglePartner: toggle}
	req := httptest.NewRequest(http.MethodPost, "/partners/p1/toggle", nil)
	rec := httptest.NewRecorder()
	api.HandleTogglePartner(rec, req, "p1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if toggle.last.PartnerID != "p1" {
		t.Fatalf("expected partner id propagation")
	}
}

func TestHandleRemoveReferral(t *testing.T) {
	remove := &stubCommander[commands.RemoveReferralInput]{}
	api := &Handlers{RemoveReferral: remove}
	req := httptest.NewRequest(http.MethodDelete, "/referrals/r1", nil)
	rec := httptest.NewRecorder()
	api.HandleRemoveReferral(rec, req, "r1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if remove.last.ReferralID != "r1" {
		t.Fatalf("expected referral id propagation")
	}
}

func TestHandleSaveSettingsValidationFailure(t *testing.T) {
	save := &stubCommander[commands.SaveSettingsInput]{err: errors.New("schema violation")}
	api := &Handlers{SaveSettings: save}
	req := httptest.NewRequest(http.MethodPut, "/settings/pricing.tariffs", bytes.NewReader([]byte(`{"base_rate_per_hour": -1}`)))
	rec := httptest.NewRecorder()
	api.HandleSaveSettings(rec, req, "pricing.tariffs")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if save.last.Screen != "pricing.tariffs" {
		t.Fatalf("expected screen propagation")
	}
}
