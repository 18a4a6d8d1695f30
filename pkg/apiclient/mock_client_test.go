package apiclient

import (
	"context"
	"errors"
	"strings"
	"testing"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/collection"
)

func TestMockClientFilters(t *testing.T) {
	client := NewMockClient(DefaultMockData())

	leads, err := client.ListLeads(context.Background(), collection.Params{"status": "new"})
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	for _, lead := range leads {
		if lead.Status != backoffice.LeadNew {
			t.Fatalf("filter leaked lead %+v", lead)
		}
	}

	partners, err := client.ListPartners(context.Background(), collection.Params{"active": "true"})
	if err != nil {
		t.Fatalf("list partners: %v", err)
	}
	for _, partner := range partners {
		if !partner.Active {
			t.Fatalf("filter leaked partner %+v", partner)
		}
	}
}

func TestMockClientPatchPersists(t *testing.T) {
	client := NewMockClient(DefaultMockData())

	lead, err := client.PatchLead(context.Background(), "l-101", collection.Intent{"status": "contacted"})
	if err != nil {
		t.Fatalf("patch lead: %v", err)
	}
	if lead.Status != backoffice.LeadContacted {
		t.Fatalf("patch not applied: %+v", lead)
	}

	leads, _ := client.ListLeads(context.Background(), collection.Params{"status": "contacted"})
	found := false
	for _, l := range leads {
		if l.ID == "l-101" {
			found = true
		}
	}
	if !found {
		t.Fatalf("patched lead not visible in listing")
	}
}

func TestMockClientFailureInjection(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	client.FailPatch["leads/l-101"] = errors.New("backend down")

	if _, err := client.PatchLead(context.Background(), "l-101", collection.Intent{"status": "lost"}); err == nil {
		t.Fatalf("expected injected error")
	}

	leads, _ := client.ListLeads(context.Background(), collection.Params{"status": "new"})
	found := false
	for _, l := range leads {
		if l.ID == "l-101" {
			found = true
		}
	}
	if !found {
		t.Fatalf("failed patch should not mutate fixture state")
	}
}

func TestMockClientPatchUnknownIsNotFound(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	_, err := client.PatchLead(context.Background(), "ghost", collection.Intent{"status": "lost"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMockClientSettingsRoundTrip(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	in := backoffice.TariffSettings{BaseRatePerHour: 150, Currency: "USD"}
	if err := client.SaveSettings(context.Background(), backoffice.ScreenTariffs, in); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	var out backoffice.TariffSettings
	if err := client.FetchSettings(context.Background(), backoffice.ScreenTariffs, &out); err != nil {
		t.Fatalf("fetch settings: %v", err)
	}
	if out.BaseRatePerHour != 150 {
		t.Fatalf("round trip lost data: %+v", out)
	}
}

func TestMockClientExportCSV(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	blob, err := client.ExportCSV(context.Background(), "leads", nil)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if !strings.HasPrefix(string(blob), "Id,Name") {
		t.Fatalf("unexpected csv header: %q", string(blob[:40]))
	}
	if _, err := client.ExportCSV(context.Background(), "ghosts", nil); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown resource, got %v", err)
	}
}

func TestMockClientWorksWithService(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	service, err := backoffice.NewService(backoffice.Options{Client: client})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := service.LoadLeads(context.Background(), backoffice.LeadQuery{}); err != nil {
		t.Fatalf("load leads: %v", err)
	}
	if service.Leads().Len() == 0 {
		t.Fatalf("expected seeded leads")
	}
	if err := service.SetLeadStatus(context.Background(), "l-101", backoffice.LeadContacted); err != nil {
		t.Fatalf("set status: %v", err)
	}
	lead, _ := service.Leads().Item("l-101")
	if lead.Status != backoffice.LeadContacted {
		t.Fatalf("status not applied: %+v", lead)
	}
}
