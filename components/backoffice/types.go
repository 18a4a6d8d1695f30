// Package backoffice is the domain layer of the moving-company back-office:
// typed records for each screen, remote collection views over them, and the
// analytics/settings/export surfaces built on top.
package backoffice

import (
	"context"
	"time"

	"github.com/haulware/backoffice/components/collection"
)

// LeadStatus is the sales pipeline stage of a lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// LeadStages lists pipeline stages in funnel order.
func LeadStages() []LeadStatus {
	return []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadConverted}
}

// Valid reports whether the status is a known pipeline stage.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost:
		return true
	}
	return false
}

// Lead is an incoming moving inquiry.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	Source    string     `json:"source,omitempty"`
	Branch    string     `json:"branch,omitempty"`
	Status    LeadStatus `json:"status"`
	Estimate  float64    `json:"estimate"`
	CreatedAt time.Time  `json:"created_at"`
}

// Partner is a referral partner (realtor, storage company, ...).
type Partner struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Active         bool      `json:"active"`
	CommissionRate float64   `json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReferralStatus tracks what became of a partner referral.
type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralConverted ReferralStatus = "converted"
	ReferralExpired   ReferralStatus = "expired"
)

// Referral links a partner to the lead they sent over.
type Referral struct {
	ID        string         `json:"id"`
	PartnerID string         `json:"partner_id"`
	LeadID    string         `json:"lead_id"`
	Status    ReferralStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// CommissionStatus is the payout lifecycle of a commission.
type CommissionStatus string

const (
	CommissionPending    CommissionStatus = "pending"
	CommissionCalculated CommissionStatus = "calculated"
	CommissionPaid       CommissionStatus = "paid"
)

// Commission is an amount owed to a partner for a period. The amount is an
// inert value computed upstream; this layer only round-trips it.
type Commission struct {
	ID        string           `json:"id"`
	PartnerID string           `json:"partner_id"`
	Amount    float64          `json:"amount"`
	Status    CommissionStatus `json:"status"`
	Period    string           `json:"period"`
	PaidAt    *time.Time       `json:"paid_at,omitempty"`
}

// ActivityStatus is the scheduling state of a follow-up activity.
type ActivityStatus string

const (
	ActivityScheduled ActivityStatus = "scheduled"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
	ActivityOverdue   ActivityStatus = "overdue"
)

// Activity is a follow-up task attached to a lead (call, survey, estimate).
type Activity struct {
	ID          string         `json:"id"`
	LeadID      string         `json:"lead_id"`
	Kind        string         `json:"kind"`
	Status      ActivityStatus `json:"status"`
	DueAt       time.Time      `json:"due_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

// AuditEntry is a read-only record of who changed what.
type AuditEntry struct {
	ID        string         `json:"id"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Branch is an operating location of the company.
type Branch struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	City   string `json:"city,omitempty"`
	Active bool   `json:"active"`
}

// DateRange bounds list queries; zero values mean unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) apply(params collection.Params) {
	if !r.From.IsZero() {
		params["from"] = r.From.Format(time.DateOnly)
	}
	if !r.To.IsZero() {
		params["to"] = r.To.Format(time.DateOnly)
	}
}

// LeadQuery filters the leads collection.
type LeadQuery struct {
	Range  DateRange
	Status LeadStatus
	Source string
	Branch string
}

// Params encodes the query as opaque list parameters.
func (q LeadQuery) Params() collection.Params {
	params := collection.Params{}
	q.Range.apply(params)
	if q.Status != "" {
		params["status"] = string(q.Status)
	}
	if q.Source != "" {
		params["source"] = q.Source
	}
	if q.Branch != "" {
		params["branch"] = q.Branch
	}
	return params
}

// PartnerQuery filters the partners collection.
type PartnerQuery struct {
	ActiveOnly bool
}

// Params encodes the query as opaque list parameters.
func (q PartnerQuery) Params() collection.Params {
	params := collection.Params{}
	if q.ActiveOnly {
		params["active"] = "true"
	}
	return params
}

// ReferralQuery filters the referrals collection.
type ReferralQuery struct {
	Status    ReferralStatus
	PartnerID string
}

// Params encodes the query as opaque list parameters.
func (q ReferralQuery) Params() collection.Params {
	params := collection.Params{}
	if q.Status != "" {
		params["status"] = string(q.Status)
	}
	if q.PartnerID != "" {
		params["partner_id"] = q.PartnerID
	}
	return params
}

// CommissionQuery filters the commissions collection.
type CommissionQuery struct {
	Range     DateRange
	Status    CommissionStatus
	PartnerID string
}

// Params encodes the query as opaque list parameters.
func (q CommissionQuery) Params() collection.Params {
	params := collection.Params{}
	q.Range.apply(params)
	if q.Status != "" {
		params["status"] = string(q.Status)
	}
	if q.PartnerID != "" {
		params["partner_id"] = q.PartnerID
	}
	return params
}

// ActivityQuery filters the activities collection.
type ActivityQuery struct {
	Range  DateRange
	Status ActivityStatus
	LeadID string
}

// Params encodes the query as opaque list parameters.
func (q ActivityQuery) Params() collection.Params {
	params := collection.Params{}
	q.Range.apply(params)
	if q.Status != "" {
		params["status"] = string(q.Status)
	}
	if q.LeadID != "" {
		params["lead_id"] = q.LeadID
	}
	return params
}

// AuditQuery filters the audit log.
type AuditQuery struct {
	Range  DateRange
	Actor  string
	Entity string
	Limit  int
}

// Params encodes the query as opaque list parameters.
func (q AuditQuery) Params() collection.Params {
	params := collection.Params{}
	q.Range.apply(params)
	if q.Actor != "" {
		params["actor"] = q.Actor
	}
	if q.Entity != "" {
		params["entity"] = q.Entity
	}
	return params
}

// LeadAPI is the transport behind the leads screen.
type LeadAPI interface {
	ListLeads(ctx context.Context, params collection.Params) ([]Lead, error)
	CreateLead(ctx context.Context, lead Lead) (Lead, error)
	PatchLead(ctx context.Context, id string, fields collection.Intent) (*Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

// PartnerAPI is the transport behind the partners screen.
type PartnerAPI interface {
	ListPartners(ctx context.Context, params collection.Params) ([]Partner, error)
	PatchPartner(ctx context.Context, id string, fields collection.Intent) (*Partner, error)
}

// ReferralAPI is the transport behind the referrals screen.
type ReferralAPI interface {
	ListReferrals(ctx context.Context, params collection.Params) ([]Referral, error)
	PatchReferral(ctx context.Context, id string, fields collection.Intent) (*Referral, error)
	DeleteReferral(ctx context.Context, id string) error
}

// CommissionAPI is the transport behind the commissions screen.
type CommissionAPI interface {
	ListCommissions(ctx context.Context, params collection.Params) ([]Commission, error)
	PatchCommission(ctx context.Context, id string, fields collection.Intent) (*Commission, error)
}

// ActivityAPI is the transport behind the activities screen.
type ActivityAPI interface {
	ListActivities(ctx context.Context, params collection.Params) ([]Activity, error)
	CreateActivity(ctx context.Context, activity Activity) (Activity, error)
	PatchActivity(ctx context.Context, id string, fields collection.Intent) (*Activity, error)
	DeleteActivity(ctx context.Context, id string) error
}

// AuditAPI reads the audit log.
type AuditAPI interface {
	ListAuditEntries(ctx context.Context, params collection.Params) ([]AuditEntry, error)
}

// SettingsAPI round-trips settings screens. Payloads are typed structs on
// this side and opaque JSON to the backend.
type SettingsAPI interface {
	FetchSettings(ctx context.Context, screen string, out any) error
	SaveSettings(ctx context.Context, screen string, payload any) error
}

// ExportAPI fetches backend-produced CSV exports as blobs.
type ExportAPI interface {
	ExportCSV(ctx context.Context, resource string, params collection.Params) ([]byte, error)
}

// Client is the union transport required by the Service.
type Client interface {
	LeadAPI
	PartnerAPI
	ReferralAPI
	CommissionAPI
	ActivityAPI
	AuditAPI
	SettingsAPI
	ExportAPI
}
