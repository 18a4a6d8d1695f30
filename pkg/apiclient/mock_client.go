package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/collection"
)

// MockData seeds deterministic backend state for tests or local demos.
type MockData struct {
	Leads       []backoffice.Lead
	Partners    []backoffice.Partner
	Referrals   []backoffice.Referral
	Commissions []backoffice.Commission
	Activities  []backoffice.Activity
	Audit       []backoffice.AuditEntry
	Settings    map[string][]byte
}

// MockClient implements backoffice.Client against in-memory fixtures. Writes
// mutate the fixtures so optimistic flows behave like a real backend.
type MockClient struct {
	mu   sync.RWMutex
	data MockData

	// FailPatch and FailDelete inject errors per "resource/id" key.
	FailPatch  map[string]error
	FailDelete map[string]error
}

// NewMockClient builds a mock backend from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	if data.Settings == nil {
		data.Settings = map[string][]byte{}
	}
	return &MockClient{
		data:       data,
		FailPatch:  map[string]error{},
		FailDelete: map[string]error{},
	}
}

var _ backoffice.Client = (*MockClient)(nil)

// DefaultMockData returns a plausible moving-company dataset for demos.
func DefaultMockData() MockData {
	now := time.Now().UTC()
	paid := now.AddDate(0, -1, 0)
	return MockData{
		Leads: []backoffice.Lead{
			{ID: "l-101", Name: "Alice Hartman", Phone: "555-0101", Source: "web", Branch: "north", Status: backoffice.LeadNew, Estimate: 1250, CreatedAt: now.Add(-36 * time.Hour)},
			{ID: "l-102", Name: "Bob Chen", Phone: "555-0102", Source: "google", Branch: "north", Status: backoffice.LeadContacted, Estimate: 3400, CreatedAt: now.Add(-3 * 24 * time.Hour)},
			{ID: "l-103", Name: "Carla Diaz", Source: "partner", Branch: "south", Status: backoffice.LeadQualified, Estimate: 2100, CreatedAt: now.Add(-5 * 24 * time.Hour)},
			{ID: "l-104", Name: "Dan Okafor", Source: "web", Branch: "south", Status: backoffice.LeadConverted, Estimate: 4800, CreatedAt: now.Add(-9 * 24 * time.Hour)},
			{ID: "l-105", Name: "Eve Saunders", Source: "yard-sign", Branch: "north", Status: backoffice.LeadLost, Estimate: 900, CreatedAt: now.Add(-12 * 24 * time.Hour)},
		},
		Partners: []backoffice.Partner{
			{ID: "p-1", Name: "Realty One", Active: true, CommissionRate: 0.10, CreatedAt: now.AddDate(0, -8, 0)},
			{ID: "p-2", Name: "StoreSafe Storage", Active: true, CommissionRate: 0.08, CreatedAt: now.AddDate(0, -4, 0)},
			{ID: "p-3", Name: "Sunset Apartments", Active: false, CommissionRate: 0.12, CreatedAt: now.AddDate(-1, 0, 0)},
		},
		Referrals: []backoffice.Referral{
			{ID: "r-1", PartnerID: "p-1", LeadID: "l-103", Status: backoffice.ReferralPending, CreatedAt: now.Add(-4 * 24 * time.Hour)},
			{ID: "r-2", PartnerID: "p-1", LeadID: "l-104", Status: backoffice.ReferralConverted, CreatedAt: now.Add(-9 * 24 * time.Hour)},
		},
		Commissions: []backoffice.Commission{
			{ID: "c-1", PartnerID: "p-1", Amount: 480, Status: backoffice.CommissionPaid, Period: paid.Format("2006-01"), PaidAt: &paid},
			{ID: "c-2", PartnerID: "p-2", Amount: 168, Status: backoffice.CommissionCalculated, Period: now.Format("2006-01")},
		},
		Activities: []backoffice.Activity{
			{ID: "a-1", LeadID: "l-101", Kind: "call", Status: backoffice.ActivityScheduled, DueAt: now.Add(4 * time.Hour)},
			{ID: "a-2", LeadID: "l-102", Kind: "survey", Status: backoffice.ActivityScheduled, DueAt: now.Add(26 * time.Hour)},
			{ID: "a-3", LeadID: "l-103", Kind: "estimate", Status: backoffice.ActivityOverdue, DueAt: now.Add(-20 * time.Hour)},
		},
		Audit: []backoffice.AuditEntry{
			{ID: "e-1", Actor: "dispatch@haulware.test", Action: "lead.status", Entity: "lead", EntityID: "l-103", Details: map[string]any{"status": "qualified"}, CreatedAt: now.Add(-30 * time.Minute)},
			{ID: "e-2", Actor: "finance@haulware.test", Action: "commission.paid", Entity: "commission", EntityID: "c-1", CreatedAt: now.Add(-3 * time.Hour)},
		},
	}
}

func mockKey(resource, id string) string { return resource + "/" + id }

// ListLeads returns leads matching the status/source/branch filters.
func (c *MockClient) ListLeads(_ context.Context, params collection.Params) ([]backoffice.Lead, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backoffice.Lead, 0, len(c.data.Leads))
	for _, lead := range c.data.Leads {
		if status := params["status"]; status != "" && string(lead.Status) != status {
			continue
		}
		if source := params["source"]; source != "" && lead.Source != source {
			continue
		}
		if branch := params["branch"]; branch != "" && lead.Branch != branch {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

// CreateLead appends a lead with a generated id.
func (c *MockClient) CreateLead(_ context.Context, lead backoffice.Lead) (backoffice.Lead, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lead.ID = fmt.Sprintf("l-%d", 100+len(c.data.Leads)+1)
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	c.data.Leads = append(c.data.Leads, lead)
	return lead, nil
}

// PatchLead applies the intent and returns the stored copy.
func (c *MockClient) PatchLead(_ context.Context, id string, fields collection.Intent) (*backoffice.Lead, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailPatch[mockKey("leads", id)]; err != nil {
		return nil, err
	}
	for i := range c.data.Leads {
		if c.data.Leads[i].ID == id {
			c.data.Leads[i] = backoffice.ApplyLeadIntent(c.data.Leads[i], fields)
			copied := c.data.Leads[i]
			return &copied, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "lead " + id + " not found"}
}

// DeleteLead removes the lead.
func (c *MockClient) DeleteLead(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailDelete[mockKey("leads", id)]; err != nil {
		return err
	}
	for i := range c.data.Leads {
		if c.data.Leads[i].ID == id {
			c.data.Leads = append(c.data.Leads[:i], c.data.Leads[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListPartners returns partners, honoring the active filter.
func (c *MockClient) ListPartners(_ context.Context, params collection.Params) ([]backoffice.Partner, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backoffice.Partner, 0, len(c.data.Partners))
	for _, partner := range c.data.Partners {
		if params["active"] == "true" && !partner.Active {
			continue
		}
		out = append(out, partner)
	}
	return out, nil
}

// PatchPartner applies the intent and returns the stored copy.
func (c *MockClient) PatchPartner(_ context.Context, id string, fields collection.Intent) (*backoffice.Partner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailPatch[mockKey("partners", id)]; err != nil {
		return nil, err
	}
	for i := range c.data.Partners {
		if c.data.Partners[i].ID == id {
			c.data.Partners[i] = backoffice.ApplyPartnerIntent(c.data.Partners[i], fields)
			copied := c.data.Partners[i]
			return &copied, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "partner " + id + " not found"}
}

// ListReferrals returns referrals, honoring status/partner filters.
func (c *MockClient) ListReferrals(_ context.Context, params collection.Params) ([]backoffice.Referral, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backoffice.Referral, 0, len(c.data.Referrals))
	for _, referral := range c.data.Referrals {
		if status := params["status"]; status != "" && string(referral.Status) != status {
			continue
		}
		if partnerID := params["partner_id"]; partnerID != "" && referral.PartnerID != partnerID {
			continue
		}
		out = append(out, referral)
	}
	return out, nil
}

// PatchReferral applies the intent and returns the stored copy.
func (c *MockClient) PatchReferral(_ context.Context, id string, fields collection.Intent) (*backoffice.Referral, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailPatch[mockKey("referrals", id)]; err != nil {
		return nil, err
	}
	for i := range c.data.Referrals {
		if c.data.Referrals[i].ID == id {
			c.data.Referrals[i] = backoffice.ApplyReferralIntent(c.data.Referrals[i], fields)
			copied := c.data.Referrals[i]
			return &copied, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "referral " + id + " not found"}
}

// DeleteReferral removes the referral.
func (c *MockClient) DeleteReferral(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailDelete[mockKey("referrals", id)]; err != nil {
		return err
	}
	for i := range c.data.Referrals {
		if c.data.Referrals[i].ID == id {
			c.data.Referrals = append(c.data.Referrals[:i], c.data.Referrals[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListCommissions returns commissions, honoring status/partner filters.
func (c *MockClient) ListCommissions(_ context.Context, params collection.Params) ([]backoffice.Commission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backoffice.Commission, 0, len(c.data.Commissions))
	for _, commission := range c.data.Commissions {
		if status := params["status"]; status != "" && string(commission.Status) != status {
			continue
		}
		if partnerID := params["partner_id"]; partnerID != "" && commission.PartnerID != partnerID {
			continue
		}
		out = append(out, commission)
	}
	return out, nil
}

// PatchCommission applies the intent and returns the stored copy.
func (c *MockClient) PatchCommission(_ context.Context, id string, fields collection.Intent) (*backoffice.Commission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailPatch[mockKey("commissions", id)]; err != nil {
		return nil, err
	}
	for i := range c.data.Commissions {
		if c.data.Commissions[i].ID == id {
			c.data.Commissions[i] = backoffice.ApplyCommissionIntent(c.data.Commissions[i], fields)
			copied := c.data.Commissions[i]
			return &copied, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "commission " + id + " not found"}
}

// ListActivities returns activities, honoring status/lead filters.
func (c *MockClient) ListActivities(_ context.Context, params collection.Params) ([]backoffice.Activity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backoffice.Activity, 0, len(c.data.Activities))
	for _, activity := range c.data.Activities {
		if status := params["status"]; status != "" && string(activity.Status) != status {
			continue
		}
		if leadID := params["lead_id"]; leadID != "" && activity.LeadID != leadID {
			continue
		}
		out = append(out, activity)
	}
	return out, nil
}

// CreateActivity appends an activity with a generated id.
func (c *MockClient) CreateActivity(_ context.Context, activity backoffice.Activity) (backoffice.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	activity.ID = fmt.Sprintf("a-%d", len(c.data.Activities)+1)
	if activity.Status == "" {
		activity.Status = backoffice.ActivityScheduled
	}
	c.data.Activities = append(c.data.Activities, activity)
	return activity, nil
}

// PatchActivity applies the intent and returns the stored copy.
func (c *MockClient) PatchActivity(_ context.Context, id string, fields collection.Intent) (*backoffice.Activity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailPatch[mockKey("activities", id)]; err != nil {
		return nil, err
	}
	for i := range c.data.Activities {
		if c.data.Activities[i].ID == id {
			c.data.Activities[i] = backoffice.ApplyActivityIntent(c.data.Activities[i], fields)
			copied := c.data.Activities[i]
			return &copied, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "activity " + id + " not found"}
}

// DeleteActivity removes the activity.
func (c *MockClient) DeleteActivity(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.FailDelete[mockKey("activities", id)]; err != nil {
		return err
	}
	for i := range c.data.Activities {
		if c.data.Activities[i].ID == id {
			c.data.Activities = append(c.data.Activities[:i], c.data.Activities[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListAuditEntries returns the audit fixtures, honoring actor/entity filters.
func (c *MockClient) ListAuditEntries(_ context.Context, params collection.Params) ([]backoffice.AuditEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backoffice.AuditEntry, 0, len(c.data.Audit))
	for _, entry := range c.data.Audit {
		if actor := params["actor"]; actor != "" && entry.Actor != actor {
			continue
		}
		if entity := params["entity"]; entity != "" && entry.Entity != entity {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// FetchSettings loads the stored settings JSON into out.
func (c *MockClient) FetchSettings(_ context.Context, screen string, out any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stored, ok := c.data.Settings[screen]
	if !ok {
		return nil
	}
	return decodeBody(stored, out)
}

// SaveSettings stores the settings payload as JSON.
func (c *MockClient) SaveSettings(_ context.Context, screen string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("apiclient: encode settings: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Settings[screen] = data
	return nil
}

// ExportCSV renders the filtered leads as CSV; other resources are served the
// same way the backend would, from current state.
func (c *MockClient) ExportCSV(ctx context.Context, resource string, params collection.Params) ([]byte, error) {
	switch resource {
	case "leads":
		leads, err := c.ListLeads(ctx, params)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := backoffice.ExportLeadsCSV(&buf, leads); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "commissions":
		commissions, err := c.ListCommissions(ctx, params)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := backoffice.ExportCommissionsCSV(&buf, commissions); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, &APIError{Status: 404, Message: "export " + resource + " not supported"}
	}
}
