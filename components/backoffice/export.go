package backoffice

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ettle/strcase"
)

// Client-side CSV export of the currently filtered collection. This is a pure
// formatting operation; backend-produced exports go through ExportAPI instead.

func writeCSV(w io.Writer, columns []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	headers := make([]string, len(columns))
	for i, column := range columns {
		headers[i] = strcase.ToCase(column, strcase.TitleCase, ' ')
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("backoffice: write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("backoffice: write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("backoffice: flush csv: %w", err)
	}
	return nil
}

// ExportLeadsCSV serializes leads in display order.
func ExportLeadsCSV(w io.Writer, leads []Lead) error {
	columns := []string{"id", "name", "phone", "email", "source", "branch", "status", "estimate", "created_at"}
	rows := make([][]string, len(leads))
	for i, lead := range leads {
		rows[i] = []string{
			lead.ID,
			lead.Name,
			lead.Phone,
			lead.Email,
			lead.Source,
			lead.Branch,
			string(lead.Status),
			strconv.FormatFloat(lead.Estimate, 'f', 2, 64),
			lead.CreatedAt.Format(time.RFC3339),
		}
	}
	return writeCSV(w, columns, rows)
}

// ExportCommissionsCSV serializes commissions with formatted amounts.
func ExportCommissionsCSV(w io.Writer, commissions []Commission) error {
	columns := []string{"id", "partner_id", "period", "status", "amount", "paid_at"}
	rows := make([][]string, len(commissions))
	for i, commission := range commissions {
		paidAt := ""
		if commission.PaidAt != nil {
			paidAt = commission.PaidAt.Format(time.RFC3339)
		}
		rows[i] = []string{
			commission.ID,
			commission.PartnerID,
			commission.Period,
			string(commission.Status),
			strconv.FormatFloat(commission.Amount, 'f', 2, 64),
			paidAt,
		}
	}
	return writeCSV(w, columns, rows)
}

// ExportActivitiesCSV serializes activities.
func ExportActivitiesCSV(w io.Writer, activities []Activity) error {
	columns := []string{"id", "lead_id", "kind", "status", "due_at", "completed_at", "notes"}
	rows := make([][]string, len(activities))
	for i, activity := range activities {
		completedAt := ""
		if activity.CompletedAt != nil {
			completedAt = activity.CompletedAt.Format(time.RFC3339)
		}
		rows[i] = []string{
			activity.ID,
			activity.LeadID,
			activity.Kind,
			string(activity.Status),
			activity.DueAt.Format(time.RFC3339),
			completedAt,
			activity.Notes,
		}
	}
	return writeCSV(w, columns, rows)
}

// ExportAuditCSV serializes audit entries without the free-form details.
func ExportAuditCSV(w io.Writer, entries []AuditEntry) error {
	columns := []string{"id", "actor", "action", "entity", "entity_id", "created_at"}
	rows := make([][]string, len(entries))
	for i, entry := range entries {
		rows[i] = []string{
			entry.ID,
			entry.Actor,
			entry.Action,
			entry.Entity,
			entry.EntityID,
			entry.CreatedAt.Format(time.RFC3339),
		}
	}
	return writeCSV(w, columns, rows)
}
