package httpapi

import (
	"encoding/json"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/haulware/backoffice/components/backoffice/commands"
	"github.com/haulware/backoffice/components/collection"
)

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	SetLeadStatus     gocommand.Commander[commands.SetLeadStatusInput]
	BulkSetLeadStatus gocommand.Commander[commands.BulkSetLeadStatusInput]
	CreateLead        gocommand.Commander[commands.CreateLeadInput]
	TogglePartner     gocommand.Commander[commands.TogglePartnerInput]
	PayCommission     gocommand.Commander[commands.PayCommissionInput]
	CompleteActivity  gocommand.Commander[commands.CompleteActivityInput]
	RemoveReferral    gocommand.Commander[commands.RemoveReferralInput]
	SaveSettings      gocommand.Commander[commands.SaveSettingsInput]
}

func (h *Handlers) HandleSetLeadStatus(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetLeadStatusInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.SetLeadStatus.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleBulkSetLeadStatus(w http.ResponseWriter, r *http.Request) {
	var payload commands.BulkSetLeadStatusInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var result collection.BulkResult
	payload.Result = &result
	if err := h.BulkSetLeadStatus.Execute(r.Context(), payload); err != nil {
		// Partial failure still reports the per-id outcome.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMultiStatus)
		_ = json.NewEncoder(w).Encode(result)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (h *Handlers) HandleCreateLead(w http.ResponseWriter, r *http.Request) {
	var payload commands.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var created = payload.Lead
	payload.Created = &created
	if err := h.CreateLead.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

func (h *Handlers) HandleTogglePartner(w http.ResponseWriter, r *http.Request, partnerID string) {
	input := commands.TogglePartnerInput{PartnerID: partnerID}
	if err := h.TogglePartner.Execute(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandlePayCommission(w http.ResponseWriter, r *http.Request, commissionID string) {
	input := commands.PayCommissionInput{CommissionID: commissionID}
	if err := h.PayCommission.Execute(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleCompleteActivity(w http.ResponseWriter, r *http.Request, activityID string) {
	input := commands.CompleteActivityInput{ActivityID: activityID}
	if err := h.CompleteActivity.Execute(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRemoveReferral(w http.ResponseWriter, r *http.Request, referralID string) {
	input := commands.RemoveReferralInput{ReferralID: referralID}
	if err := h.RemoveReferral.Execute(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleSaveSettings(w http.ResponseWriter, r *http.Request, screen string) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := commands.SaveSettingsInput{Screen: screen, Payload: payload}
	if err := h.SaveSettings.Execute(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusOK)
}
