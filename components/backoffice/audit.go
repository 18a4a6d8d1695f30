package backoffice

import (
	"context"
	"time"
)

// AuditFeed fetches recent audit entries for the audit log screen.
type AuditFeed interface {
	Recent(ctx context.Context, query AuditQuery) ([]AuditEntry, error)
}

// APIAuditFeed reads the audit log from the operations backend.
type APIAuditFeed struct {
	API AuditAPI
}

// Recent lists audit entries, applying the query limit client-side.
func (f APIAuditFeed) Recent(ctx context.Context, query AuditQuery) ([]AuditEntry, error) {
	entries, err := f.API.ListAuditEntries(ctx, query.Params())
	if err != nil {
		return nil, err
	}
	if query.Limit > 0 && query.Limit < len(entries) {
		entries = entries[:query.Limit]
	}
	return append([]AuditEntry{}, entries...), nil
}

// StaticAuditFeed returns fixed entries useful for demos/tests.
type StaticAuditFeed struct {
	Entries []AuditEntry
}

// Recent returns up to query.Limit entries from the static list.
func (f StaticAuditFeed) Recent(_ context.Context, query AuditQuery) ([]AuditEntry, error) {
	if query.Limit <= 0 || query.Limit >= len(f.Entries) {
		return append([]AuditEntry{}, f.Entries...), nil
	}
	return append([]AuditEntry{}, f.Entries[:query.Limit]...), nil
}

// DefaultAuditFeed provides placeholder entries for the demo server.
func DefaultAuditFeed() AuditFeed {
	now := time.Now().UTC()
	return StaticAuditFeed{
		Entries: []AuditEntry{
			{ID: "a1", Actor: "dispatch@haulware.test", Action: "lead.status", Entity: "lead", EntityID: "l-204", Details: map[string]any{"status": "qualified"}, CreatedAt: now.Add(-7 * time.Minute)},
			{ID: "a2", Actor: "ops@haulware.test", Action: "partner.toggle", Entity: "partner", EntityID: "p-12", Details: map[string]any{"active": false}, CreatedAt: now.Add(-34 * time.Minute)},
			{ID: "a3", Actor: "finance@haulware.test", Action: "commission.paid", Entity: "commission", EntityID: "c-88", CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "a4", Actor: "ops@haulware.test", Action: "settings.save", Entity: "settings", EntityID: "pricing.tariffs", CreatedAt: now.Add(-5 * time.Hour)},
		},
	}
}
