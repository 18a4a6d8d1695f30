package backoffice

import (
	"encoding/json"
	"time"

	"github.com/haulware/backoffice/components/collection"
)

// Intent appliers mirror the server's PATCH semantics on the local copy so
// the optimistic render matches what a successful write would produce.
// Unknown fields are ignored; the payload stays opaque end to end.

func ApplyLeadIntent(lead Lead, intent collection.Intent) Lead {
	if status, ok := stringField(intent, "status"); ok {
		lead.Status = LeadStatus(status)
	}
	if source, ok := stringField(intent, "source"); ok {
		lead.Source = source
	}
	if branch, ok := stringField(intent, "branch"); ok {
		lead.Branch = branch
	}
	if estimate, ok := numberField(intent, "estimate"); ok {
		lead.Estimate = estimate
	}
	return lead
}

func ApplyPartnerIntent(partner Partner, intent collection.Intent) Partner {
	if active, ok := boolField(intent, "active"); ok {
		partner.Active = active
	}
	if rate, ok := numberField(intent, "commission_rate"); ok {
		partner.CommissionRate = rate
	}
	return partner
}

func ApplyReferralIntent(referral Referral, intent collection.Intent) Referral {
	if status, ok := stringField(intent, "status"); ok {
		referral.Status = ReferralStatus(status)
	}
	return referral
}

func ApplyCommissionIntent(commission Commission, intent collection.Intent) Commission {
	if status, ok := stringField(intent, "status"); ok {
		commission.Status = CommissionStatus(status)
		if commission.Status == CommissionPaid && commission.PaidAt == nil {
			now := time.Now().UTC()
			commission.PaidAt = &now
		}
	}
	return commission
}

func ApplyActivityIntent(activity Activity, intent collection.Intent) Activity {
	if status, ok := stringField(intent, "status"); ok {
		activity.Status = ActivityStatus(status)
		if activity.Status == ActivityCompleted && activity.CompletedAt == nil {
			now := time.Now().UTC()
			activity.CompletedAt = &now
		}
	}
	if due, ok := timeField(intent, "due_at"); ok {
		activity.DueAt = due
	}
	if notes, ok := stringField(intent, "notes"); ok {
		activity.Notes = notes
	}
	return activity
}

func stringField(intent collection.Intent, key string) (string, bool) {
	value, ok := intent[key].(string)
	return value, ok
}

func boolField(intent collection.Intent, key string) (bool, bool) {
	value, ok := intent[key].(bool)
	return value, ok
}

// numberField accepts the numeric shapes a JSON decode can produce.
func numberField(intent collection.Intent, key string) (float64, bool) {
	switch value := intent[key].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	}
	return 0, false
}

func timeField(intent collection.Intent, key string) (time.Time, bool) {
	switch value := intent[key].(type) {
	case time.Time:
		return value, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(time.DateOnly, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
