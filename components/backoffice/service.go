package backoffice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haulware/backoffice/components/collection"
)

var (
	errMissingClient               = errors.New("backoffice: client is required")
	errPartnerDeleteUnsupported    = errors.New("backoffice: partners cannot be deleted")
	errCommissionDeleteUnsupported = errors.New("backoffice: commissions cannot be deleted")
)

// Options configures the back-office Service. Every collaborator is provided
// via interface so applications can swap implementations.
type Options struct {
	Client    Client
	Telemetry Telemetry
	Events    *collection.Broadcaster
	Audit     AuditFeed
	Screens   *ScreenRegistry
	Validator SettingsValidator
}

// Service owns one remote collection view per screen and exposes the typed
// operations the surfaces (CLI, HTTP, report) drive.
type Service struct {
	opts Options

	leads       *collection.View[Lead]
	partners    *collection.View[Partner]
	referrals   *collection.View[Referral]
	commissions *collection.View[Commission]
	activities  *collection.View[Activity]
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) (*Service, error) {
	if opts.Client == nil {
		return nil, errMissingClient
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Events == nil {
		opts.Events = collection.NewBroadcaster()
	}
	if opts.Audit == nil {
		opts.Audit = APIAuditFeed{API: opts.Client}
	}
	if opts.Screens == nil {
		opts.Screens = NewScreenRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}

	s := &Service{opts: opts}
	var err error
	if s.leads, err = collection.NewView(collection.Options[Lead]{
		Resource:  "leads",
		Source:    leadSource{api: opts.Client},
		Identify:  func(l Lead) string { return l.ID },
		Apply:     ApplyLeadIntent,
		Telemetry: opts.Telemetry,
		Events:    opts.Events,
	}); err != nil {
		return nil, err
	}
	if s.partners, err = collection.NewView(collection.Options[Partner]{
		Resource:  "partners",
		Source:    partnerSource{api: opts.Client},
		Identify:  func(p Partner) string { return p.ID },
		Apply:     ApplyPartnerIntent,
		Telemetry: opts.Telemetry,
		Events:    opts.Events,
	}); err != nil {
		return nil, err
	}
	if s.referrals, err = collection.NewView(collection.Options[Referral]{
		Resource:  "referrals",
		Source:    referralSource{api: opts.Client},
		Identify:  func(r Referral) string { return r.ID },
		Apply:     ApplyReferralIntent,
		Telemetry: opts.Telemetry,
		Events:    opts.Events,
	}); err != nil {
		return nil, err
	}
	if s.commissions, err = collection.NewView(collection.Options[Commission]{
		Resource:  "commissions",
		Source:    commissionSource{api: opts.Client},
		Identify:  func(c Commission) string { return c.ID },
		Apply:     ApplyCommissionIntent,
		Telemetry: opts.Telemetry,
		Events:    opts.Events,
	}); err != nil {
		return nil, err
	}
	if s.activities, err = collection.NewView(collection.Options[Activity]{
		Resource:  "activities",
		Source:    activitySource{api: opts.Client},
		Identify:  func(a Activity) string { return a.ID },
		Apply:     ApplyActivityIntent,
		Telemetry: opts.Telemetry,
		Events:    opts.Events,
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Events exposes the broadcaster for transports (WebSocket/SSE).
func (s *Service) Events() *collection.Broadcaster {
	return s.opts.Events
}

// Screens exposes the settings-screen registry.
func (s *Service) Screens() *ScreenRegistry {
	return s.opts.Screens
}

// Leads returns the leads collection view.
func (s *Service) Leads() *collection.View[Lead] { return s.leads }

// Partners returns the partners collection view.
func (s *Service) Partners() *collection.View[Partner] { return s.partners }

// Referrals returns the referrals collection view.
func (s *Service) Referrals() *collection.View[Referral] { return s.referrals }

// Commissions returns the commissions collection view.
func (s *Service) Commissions() *collection.View[Commission] { return s.commissions }

// Activities returns the activities collection view.
func (s *Service) Activities() *collection.View[Activity] { return s.activities }

// LoadLeads fetches the leads collection for the query.
func (s *Service) LoadLeads(ctx context.Context, query LeadQuery) error {
	return s.leads.Load(ctx, query.Params())
}

// LoadPartners fetches the partners collection for the query.
func (s *Service) LoadPartners(ctx context.Context, query PartnerQuery) error {
	return s.partners.Load(ctx, query.Params())
}

// LoadReferrals fetches the referrals collection for the query.
func (s *Service) LoadReferrals(ctx context.Context, query ReferralQuery) error {
	return s.referrals.Load(ctx, query.Params())
}

// LoadCommissions fetches the commissions collection for the query.
func (s *Service) LoadCommissions(ctx context.Context, query CommissionQuery) error {
	return s.commissions.Load(ctx, query.Params())
}

// LoadActivities fetches the activities collection for the query.
func (s *Service) LoadActivities(ctx context.Context, query ActivityQuery) error {
	return s.activities.Load(ctx, query.Params())
}

// SetLeadStatus advances a lead through the pipeline optimistically.
func (s *Service) SetLeadStatus(ctx context.Context, id string, status LeadStatus) error {
	if !status.Valid() {
		return fmt.Errorf("backoffice: unknown lead status %q", status)
	}
	if err := s.leads.Mutate(ctx, id, collection.Intent{"status": string(status)}); err != nil {
		return err
	}
	s.record(ctx, "backoffice.lead.status", map[string]any{"lead_id": id, "status": string(status)})
	return nil
}

// BulkSetLeadStatus applies one status to many leads concurrently.
func (s *Service) BulkSetLeadStatus(ctx context.Context, ids []string, status LeadStatus) (collection.BulkResult, error) {
	if !status.Valid() {
		return collection.BulkResult{}, fmt.Errorf("backoffice: unknown lead status %q", status)
	}
	result, err := s.leads.BulkMutate(ctx, ids, collection.Intent{"status": string(status)})
	s.record(ctx, "backoffice.lead.bulk_status", map[string]any{
		"count":  len(ids),
		"failed": len(result.Failed),
		"status": string(status),
	})
	return result, err
}

// CreateLead posts a new lead and refreshes the collection so server-side
// defaults (id, timestamps) are picked up.
func (s *Service) CreateLead(ctx context.Context, lead Lead) (Lead, error) {
	if lead.Name == "" {
		return Lead{}, errors.New("backoffice: lead name is required")
	}
	created, err := s.opts.Client.CreateLead(ctx, lead)
	if err != nil {
		return Lead{}, err
	}
	if err := s.leads.Reload(ctx); err != nil {
		return created, err
	}
	s.record(ctx, "backoffice.lead.create", map[string]any{"lead_id": created.ID})
	return created, nil
}

// DeleteLead removes a lead optimistically.
func (s *Service) DeleteLead(ctx context.Context, id string) error {
	if err := s.leads.Remove(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "backoffice.lead.delete", map[string]any{"lead_id": id})
	return nil
}

// TogglePartner flips a partner's active flag optimistically.
func (s *Service) TogglePartner(ctx context.Context, id string) error {
	partner, ok := s.partners.Item(id)
	if !ok {
		s.record(ctx, "backoffice.partner.toggle_missing", map[string]any{"partner_id": id})
		return nil
	}
	if err := s.partners.Mutate(ctx, id, collection.Intent{"active": !partner.Active}); err != nil {
		return err
	}
	s.record(ctx, "backoffice.partner.toggle", map[string]any{"partner_id": id, "active": !partner.Active})
	return nil
}

// SetPartnerRate updates a partner's commission rate.
func (s *Service) SetPartnerRate(ctx context.Context, id string, rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("backoffice: commission rate %v out of range", rate)
	}
	if err := s.partners.Mutate(ctx, id, collection.Intent{"commission_rate": rate}); err != nil {
		return err
	}
	s.record(ctx, "backoffice.partner.rate", map[string]any{"partner_id": id, "rate": rate})
	return nil
}

// SetReferralStatus transitions a referral.
func (s *Service) SetReferralStatus(ctx context.Context, id string, status ReferralStatus) error {
	if err := s.referrals.Mutate(ctx, id, collection.Intent{"status": string(status)}); err != nil {
		return err
	}
	s.record(ctx, "backoffice.referral.status", map[string]any{"referral_id": id, "status": string(status)})
	return nil
}

// RemoveReferral deletes a referral optimistically.
func (s *Service) RemoveReferral(ctx context.Context, id string) error {
	if err := s.referrals.Remove(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "backoffice.referral.remove", map[string]any{"referral_id": id})
	return nil
}

// MarkCommissionPaid transitions a commission to paid.
func (s *Service) MarkCommissionPaid(ctx context.Context, id string) error {
	if err := s.commissions.Mutate(ctx, id, collection.Intent{"status": string(CommissionPaid)}); err != nil {
		return err
	}
	s.record(ctx, "backoffice.commission.paid", map[string]any{"commission_id": id})
	return nil
}

// CompleteActivity marks an activity done.
func (s *Service) CompleteActivity(ctx context.Context, id string) error {
	if err := s.activities.Mutate(ctx, id, collection.Intent{"status": string(ActivityCompleted)}); err != nil {
		return err
	}
	s.record(ctx, "backoffice.activity.complete", map[string]any{"activity_id": id})
	return nil
}

// CancelActivity cancels a scheduled activity.
func (s *Service) CancelActivity(ctx context.Context, id string) error {
	if err := s.activities.Mutate(ctx, id, collection.Intent{"status": string(ActivityCancelled)}); err != nil {
		return err
	}
	s.record(ctx, "backoffice.activity.cancel", map[string]any{"activity_id": id})
	return nil
}

// RescheduleActivity moves an activity's due date.
func (s *Service) RescheduleActivity(ctx context.Context, id string, due time.Time) error {
	if due.IsZero() {
		return errors.New("backoffice: due date is required")
	}
	intent := collection.Intent{
		"due_at": due.UTC().Format(time.RFC3339),
		"status": string(ActivityScheduled),
	}
	if err := s.activities.Mutate(ctx, id, intent); err != nil {
		return err
	}
	s.record(ctx, "backoffice.activity.reschedule", map[string]any{"activity_id": id})
	return nil
}

// CreateActivity posts a new follow-up and refreshes the collection.
func (s *Service) CreateActivity(ctx context.Context, activity Activity) (Activity, error) {
	if activity.LeadID == "" {
		return Activity{}, errors.New("backoffice: activity lead id is required")
	}
	created, err := s.opts.Client.CreateActivity(ctx, activity)
	if err != nil {
		return Activity{}, err
	}
	if err := s.activities.Reload(ctx); err != nil {
		return created, err
	}
	s.record(ctx, "backoffice.activity.create", map[string]any{"activity_id": created.ID})
	return created, nil
}

// AuditLog fetches recent audit entries.
func (s *Service) AuditLog(ctx context.Context, query AuditQuery) ([]AuditEntry, error) {
	entries, err := s.opts.Audit.Recent(ctx, query)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "backoffice.audit.list", map[string]any{"count": len(entries)})
	return entries, nil
}

// FetchScreen loads one settings screen's payload into out.
func (s *Service) FetchScreen(ctx context.Context, code string, out any) error {
	if _, ok := s.opts.Screens.Definition(code); !ok {
		return fmt.Errorf("backoffice: unknown settings screen %q", code)
	}
	return s.opts.Client.FetchSettings(ctx, code, out)
}

// SaveScreen validates the payload against the screen schema and PATCHes it.
// Validation failures never reach the network.
func (s *Service) SaveScreen(ctx context.Context, code string, payload any) error {
	def, ok := s.opts.Screens.Definition(code)
	if !ok {
		return fmt.Errorf("backoffice: unknown settings screen %q", code)
	}
	if err := s.opts.Validator.Validate(def, payload); err != nil {
		return err
	}
	if err := s.opts.Client.SaveSettings(ctx, code, payload); err != nil {
		return err
	}
	s.record(ctx, "backoffice.settings.save", map[string]any{"screen": code})
	return nil
}

// Tariffs fetches the pricing tariff settings.
func (s *Service) Tariffs(ctx context.Context) (TariffSettings, error) {
	var settings TariffSettings
	err := s.FetchScreen(ctx, ScreenTariffs, &settings)
	return settings, err
}

// SaveTariffs validates and persists pricing tariffs.
func (s *Service) SaveTariffs(ctx context.Context, settings TariffSettings) error {
	return s.SaveScreen(ctx, ScreenTariffs, settings)
}

// CrewRules fetches the crew rules settings.
func (s *Service) CrewRules(ctx context.Context) (CrewSettings, error) {
	var settings CrewSettings
	err := s.FetchScreen(ctx, ScreenCrewRules, &settings)
	return settings, err
}

// SaveCrewRules validates and persists crew rules.
func (s *Service) SaveCrewRules(ctx context.Context, settings CrewSettings) error {
	return s.SaveScreen(ctx, ScreenCrewRules, settings)
}

// MobileApp fetches the mobile app settings.
func (s *Service) MobileApp(ctx context.Context) (MobileAppSettings, error) {
	var settings MobileAppSettings
	err := s.FetchScreen(ctx, ScreenMobileApp, &settings)
	return settings, err
}

// SaveMobileApp validates and persists mobile app settings.
func (s *Service) SaveMobileApp(ctx context.Context, settings MobileAppSettings) error {
	return s.SaveScreen(ctx, ScreenMobileApp, settings)
}

// Notifications fetches the notification template settings.
func (s *Service) Notifications(ctx context.Context) (NotificationSettings, error) {
	var settings NotificationSettings
	err := s.FetchScreen(ctx, ScreenNotifications, &settings)
	return settings, err
}

// SaveNotifications validates and persists notification templates.
func (s *Service) SaveNotifications(ctx context.Context, settings NotificationSettings) error {
	return s.SaveScreen(ctx, ScreenNotifications, settings)
}

// Branches fetches the branch settings.
func (s *Service) Branches(ctx context.Context) (BranchSettings, error) {
	var settings BranchSettings
	err := s.FetchScreen(ctx, ScreenBranches, &settings)
	return settings, err
}

// SaveBranches validates and persists branch settings.
func (s *Service) SaveBranches(ctx context.Context, settings BranchSettings) error {
	return s.SaveScreen(ctx, ScreenBranches, settings)
}

// ServerExport fetches a backend-produced CSV blob.
func (s *Service) ServerExport(ctx context.Context, resource string, params collection.Params) ([]byte, error) {
	blob, err := s.opts.Client.ExportCSV(ctx, resource, params)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "backoffice.export.server", map[string]any{"resource": resource, "bytes": len(blob)})
	return blob, nil
}

// BuildReport assembles conversion analytics from the current lead and
// commission snapshots.
func (s *Service) BuildReport(ctx context.Context, builder *ReportBuilder) (Report, error) {
	if builder == nil {
		var err error
		builder, err = NewReportBuilder(nil, nil)
		if err != nil {
			return Report{}, err
		}
	}
	report, err := builder.Build(s.leads.Items(), s.commissions.Items())
	if err != nil {
		return Report{}, err
	}
	s.record(ctx, "backoffice.report.build", map[string]any{"leads": report.Funnel.Total})
	return report, nil
}

func (s *Service) record(ctx context.Context, event string, payload map[string]any) {
	if actor := ActorFrom(ctx); actor.ActorID != "" {
		payload["actor"] = actor.ActorID
	}
	s.opts.Telemetry.Record(ctx, event, payload)
}
