package backoffice

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportLeadsCSV(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	leads := []Lead{
		{ID: "l1", Name: "Alice Moving", Phone: "555-0101", Source: "web", Status: LeadNew, Estimate: 1200.5, CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportLeadsCSV(&buf, leads))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"Id", "Name", "Phone", "Email", "Source", "Branch", "Status", "Estimate", "Created At"}, records[0])
	assert.Equal(t, "l1", records[1][0])
	assert.Equal(t, "1200.50", records[1][7])
	assert.Equal(t, "2026-08-01T09:30:00Z", records[1][8])
}

func TestExportCommissionsCSVPaidAt(t *testing.T) {
	paid := time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)
	commissions := []Commission{
		{ID: "c1", PartnerID: "p1", Period: "2026-07", Status: CommissionPaid, Amount: 340, PaidAt: &paid},
		{ID: "c2", PartnerID: "p1", Period: "2026-08", Status: CommissionPending, Amount: 120},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCommissionsCSV(&buf, commissions))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2026-07-15T10:00:00Z", records[1][5])
	assert.Equal(t, "", records[2][5])
}

func TestExportActivitiesCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportActivitiesCSV(&buf, nil))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestExportAuditCSV(t *testing.T) {
	entries := []AuditEntry{
		{ID: "e1", Actor: "dispatch@haulware.test", Action: "lead.status", Entity: "leads", EntityID: "l1", CreatedAt: time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportAuditCSV(&buf, entries))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "lead.status", records[1][2])
}
