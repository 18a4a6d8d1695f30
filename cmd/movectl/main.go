package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/backoffice/queries"
	"github.com/haulware/backoffice/pkg/apiclient"
	"github.com/haulware/backoffice/pkg/config"
	"github.com/haulware/backoffice/pkg/session"
	"github.com/haulware/backoffice/pkg/telemetry"
)

type cli struct {
	ConfigDir string `type:"path" help:"Config directory (defaults to XDG config dir)."`
	Server    string `help:"Override the API base URL."`
	LogLevel  string `help:"Override the log level (debug, info, warn, error)."`
	Mock      bool   `help:"Run against the built-in mock backend instead of a live server."`
	Actor     string `env:"USER" help:"Actor recorded on mutations."`
	Branch    string `help:"Branch recorded on mutations."`

	Login  loginCmd  `cmd:"" help:"Store an API token for subsequent commands."`
	Logout logoutCmd `cmd:"" help:"Clear the stored API token."`

	Leads       leadsCmd       `cmd:"" help:"Inspect and update sales leads."`
	Partners    partnersCmd    `cmd:"" help:"Inspect and update referral partners."`
	Referrals   referralsCmd   `cmd:"" help:"Inspect and remove partner referrals."`
	Commissions commissionsCmd `cmd:"" help:"Inspect and pay partner commissions."`
	Activities  activitiesCmd  `cmd:"" help:"Inspect and complete follow-up activities."`
	Audit       auditCmd       `cmd:"" help:"Read the audit log."`
	Screens     screensCmd     `cmd:"" help:"Inspect and save settings screens."`
	Report      reportCmd      `cmd:"" help:"Render the conversion report."`
}

// app carries the wiring every command needs.
type app struct {
	cli   *cli
	cfg   config.Config
	store *session.FileStore
	out   io.Writer
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Name("movectl"),
		kong.Description("Back-office CLI for the moving-company operations backend."),
		kong.UsageOnError(),
	)

	a, err := newApp(root)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(a))
}

func newApp(root *cli) (*app, error) {
	dir := root.ConfigDir
	if dir == "" {
		dir = session.DefaultConfigDir()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if root.Server != "" {
		cfg.BaseURL = root.Server
	}
	if root.LogLevel != "" {
		cfg.LogLevel = root.LogLevel
	}
	return &app{
		cli:   root,
		cfg:   cfg,
		store: session.NewFileStore(dir),
		out:   os.Stdout,
	}, nil
}

func (a *app) context() context.Context {
	actor := backoffice.ActorContext{ActorID: a.cli.Actor, Branch: a.cli.Branch}
	return backoffice.ContextWithActor(context.Background(), actor)
}

func (a *app) client() (backoffice.Client, error) {
	if a.cli.Mock {
		return apiclient.NewMockClient(apiclient.DefaultMockData()), nil
	}
	return apiclient.New(apiclient.Config{
		BaseURL:    a.cfg.BaseURL,
		Tokens:     a.store,
		HTTPClient: &http.Client{Timeout: a.cfg.Timeout},
	})
}

func (a *app) service() (*backoffice.Service, error) {
	client, err := a.client()
	if err != nil {
		return nil, err
	}
	logger := telemetry.NewLogger(os.Stderr, a.cfg.LogLevel)
	svc, err := backoffice.NewService(backoffice.Options{
		Client:    client,
		Telemetry: telemetry.NewLogRecorder(logger),
	})
	if err != nil {
		return nil, err
	}
	if a.cfg.ScreenManifest != "" {
		if _, err := svc.Screens().LoadManifestFile(a.cfg.ScreenManifest); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

type loginCmd struct {
	Token string `arg:"" required:"" help:"API token issued by the operations backend."`
}

func (cmd *loginCmd) Run(a *app) error {
	if err := a.store.Save(cmd.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "token stored at %s\n", a.store.Path())
	return nil
}

type logoutCmd struct{}

func (cmd *logoutCmd) Run(a *app) error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "session cleared")
	return nil
}

type leadsCmd struct {
	List      leadsListCmd      `cmd:"" default:"withargs" help:"List leads."`
	SetStatus leadsSetStatusCmd `cmd:"" name:"set-status" help:"Move a lead to a new pipeline stage."`
	Export    leadsExportCmd    `cmd:"" help:"Export the filtered leads as CSV."`
}

type leadFilters struct {
	Status string `help:"Filter by pipeline stage."`
	Source string `help:"Filter by acquisition source."`
	Branch string `help:"Filter by branch."`
	From   string `help:"Start date (YYYY-MM-DD)."`
	To     string `help:"End date (YYYY-MM-DD)."`
}

func (f leadFilters) query() (backoffice.LeadQuery, error) {
	query := backoffice.LeadQuery{
		Status: backoffice.LeadStatus(f.Status),
		Source: f.Source,
		Branch: f.Branch,
	}
	if f.Status != "" && !query.Status.Valid() {
		return query, fmt.Errorf("movectl: unknown lead status %q", f.Status)
	}
	var err error
	if query.Range, err = parseRange(f.From, f.To); err != nil {
		return query, err
	}
	return query, nil
}

type leadsListCmd struct {
	leadFilters
}

func (cmd *leadsListCmd) Run(a *app) error {
	query, err := cmd.query()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	if err := svc.LoadLeads(a.context(), query); err != nil {
		return err
	}
	now := time.Now()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSOURCE\tESTIMATE\tAGE")
	for _, lead := range svc.Leads().Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			lead.ID, lead.Name, lead.Status, lead.Source,
			backoffice.FormatCurrency(lead.Estimate),
			backoffice.FormatAgo(lead.CreatedAt, now))
	}
	return w.Flush()
}

type leadsSetStatusCmd struct {
	ID     string `arg:"" help:"Lead id."`
	Status string `arg:"" help:"Target stage (new, contacted, qualified, converted, lost)."`
}

func (cmd *leadsSetStatusCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	ctx := a.context()
	if err := svc.LoadLeads(ctx, backoffice.LeadQuery{}); err != nil {
		return err
	}
	if err := svc.SetLeadStatus(ctx, cmd.ID, backoffice.LeadStatus(cmd.Status)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "lead %s moved to %s\n", cmd.ID, cmd.Status)
	return nil
}

type leadsExportCmd struct {
	leadFilters
	Out string `default:"leads.csv" type:"path" help:"Output file path."`
}

func (cmd *leadsExportCmd) Run(a *app) error {
	query, err := cmd.query()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	if err := svc.LoadLeads(a.context(), query); err != nil {
		return err
	}
	file, err := os.Create(cmd.Out)
	if err != nil {
		return fmt.Errorf("movectl: create %s: %w", cmd.Out, err)
	}
	defer file.Close()
	if err := backoffice.ExportLeadsCSV(file, svc.Leads().Items()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d leads to %s\n", svc.Leads().Len(), cmd.Out)
	return nil
}

type partnersCmd struct {
	List   partnersListCmd   `cmd:"" default:"withargs" help:"List referral partners."`
	Toggle partnersToggleCmd `cmd:"" help:"Flip a partner's active flag."`
}

type partnersListCmd struct {
	Active bool `help:"Only show active partners."`
}

func (cmd *partnersListCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	if err := svc.LoadPartners(a.context(), backoffice.PartnerQuery{ActiveOnly: cmd.Active}); err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tRATE")
	for _, partner := range svc.Partners().Items() {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
			partner.ID, partner.Name, partner.Active,
			backoffice.FormatPercent(partner.CommissionRate))
	}
	return w.Flush()
}

type partnersToggleCmd struct {
	ID string `arg:"" help:"Partner id."`
}

func (cmd *partnersToggleCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	ctx := a.context()
	if err := svc.LoadPartners(ctx, backoffice.PartnerQuery{}); err != nil {
		return err
	}
	if err := svc.TogglePartner(ctx, cmd.ID); err != nil {
		return err
	}
	partner, ok := svc.Partners().Item(cmd.ID)
	if !ok {
		fmt.Fprintf(a.out, "partner %s not found\n", cmd.ID)
		return nil
	}
	fmt.Fprintf(a.out, "partner %s active=%t\n", cmd.ID, partner.Active)
	return nil
}

type referralsCmd struct {
	List   referralsListCmd   `cmd:"" default:"withargs" help:"List referrals."`
	Remove referralsRemoveCmd `cmd:"" help:"Remove a referral."`
}

type referralsListCmd struct {
	Status  string `help:"Filter by referral status."`
	Partner string `help:"Filter by partner id."`
}

func (cmd *referralsListCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	query := backoffice.ReferralQuery{
		Status:    backoffice.ReferralStatus(cmd.Status),
		PartnerID: cmd.Partner,
	}
	if err := svc.LoadReferrals(a.context(), query); err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPARTNER\tLEAD\tSTATUS")
	for _, referral := range svc.Referrals().Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", referral.ID, referral.PartnerID, referral.LeadID, referral.Status)
	}
	return w.Flush()
}

type referralsRemoveCmd struct {
	ID string `arg:"" help:"Referral id."`
}

func (cmd *referralsRemoveCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	ctx := a.context()
	if err := svc.LoadReferrals(ctx, backoffice.ReferralQuery{}); err != nil {
		return err
	}
	if err := svc.RemoveReferral(ctx, cmd.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "referral %s removed\n", cmd.ID)
	return nil
}

type commissionsCmd struct {
	List commissionsListCmd `cmd:"" default:"withargs" help:"List commissions."`
	Pay  commissionsPayCmd  `cmd:"" help:"Mark a commission paid."`
}

type commissionsListCmd struct {
	Status  string `help:"Filter by payout status."`
	Partner string `help:"Filter by partner id."`
}

func (cmd *commissionsListCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	query := backoffice.CommissionQuery{
		Status:    backoffice.CommissionStatus(cmd.Status),
		PartnerID: cmd.Partner,
	}
	if err := svc.LoadCommissions(a.context(), query); err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPARTNER\tPERIOD\tSTATUS\tAMOUNT")
	for _, commission := range svc.Commissions().Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			commission.ID, commission.PartnerID, commission.Period, commission.Status,
			backoffice.FormatCurrency(commission.Amount))
	}
	return w.Flush()
}

type commissionsPayCmd struct {
	ID string `arg:"" help:"Commission id."`
}

func (cmd *commissionsPayCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	ctx := a.context()
	if err := svc.LoadCommissions(ctx, backoffice.CommissionQuery{}); err != nil {
		return err
	}
	if err := svc.MarkCommissionPaid(ctx, cmd.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "commission %s marked paid\n", cmd.ID)
	return nil
}

type activitiesCmd struct {
	List     activitiesListCmd     `cmd:"" default:"withargs" help:"List follow-up activities."`
	Complete activitiesCompleteCmd `cmd:"" help:"Mark an activity done."`
}

type activitiesListCmd struct {
	Status string `help:"Filter by scheduling status."`
	Lead   string `help:"Filter by lead id."`
}

func (cmd *activitiesListCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	query := backoffice.ActivityQuery{
		Status: backoffice.ActivityStatus(cmd.Status),
		LeadID: cmd.Lead,
	}
	if err := svc.LoadActivities(a.context(), query); err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEAD\tKIND\tSTATUS\tDUE")
	for _, activity := range svc.Activities().Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			activity.ID, activity.LeadID, activity.Kind, activity.Status,
			activity.DueAt.Format(time.RFC3339))
	}
	return w.Flush()
}

type activitiesCompleteCmd struct {
	ID string `arg:"" help:"Activity id."`
}

func (cmd *activitiesCompleteCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	ctx := a.context()
	if err := svc.LoadActivities(ctx, backoffice.ActivityQuery{}); err != nil {
		return err
	}
	if err := svc.CompleteActivity(ctx, cmd.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "activity %s completed\n", cmd.ID)
	return nil
}

type auditCmd struct {
	Tail auditTailCmd `cmd:"" default:"withargs" help:"Show recent audit entries."`
}

type auditTailCmd struct {
	Limit  int    `default:"20" help:"Maximum entries to show."`
	Actor  string `help:"Filter by actor."`
	Entity string `help:"Filter by entity type."`
}

func (cmd *auditTailCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	entries, err := queries.NewAuditLogQuery(svc).Query(a.context(), backoffice.AuditQuery{
		Limit:  cmd.Limit,
		Actor:  cmd.Actor,
		Entity: cmd.Entity,
	})
	if err != nil {
		return err
	}
	now := time.Now()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tENTITY")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\n",
			backoffice.FormatAgo(entry.CreatedAt, now),
			entry.Actor, entry.Action, entry.Entity, entry.EntityID)
	}
	return w.Flush()
}

type screensCmd struct {
	List screensListCmd `cmd:"" default:"withargs" help:"List settings screens."`
	Show screensShowCmd `cmd:"" help:"Print one screen's stored payload as JSON."`
	Save screensSaveCmd `cmd:"" help:"Validate and save a screen payload from a JSON file."`
}

type screensListCmd struct{}

func (cmd *screensListCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tTITLE\tCATEGORY")
	for _, def := range svc.Screens().Definitions() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Code, def.Title, def.Category)
	}
	return w.Flush()
}

type screensShowCmd struct {
	Code string `arg:"" help:"Screen code (e.g. pricing.tariffs)."`
}

func (cmd *screensShowCmd) Run(a *app) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	payload, err := queries.NewScreenQuery(svc).Query(a.context(), cmd.Code)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

type screensSaveCmd struct {
	Code string `arg:"" help:"Screen code."`
	File string `arg:"" type:"path" help:"JSON file with the payload."`
}

func (cmd *screensSaveCmd) Run(a *app) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("movectl: read %s: %w", cmd.File, err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("movectl: parse %s: %w", cmd.File, err)
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	if err := svc.SaveScreen(a.context(), cmd.Code, payload); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "screen %s saved\n", cmd.Code)
	return nil
}

type reportCmd struct {
	Render reportRenderCmd `cmd:"" default:"withargs" help:"Render the conversion report to HTML."`
}

type reportRenderCmd struct {
	leadFilters
	Out string `default:"report.html" type:"path" help:"Output file path."`
}

func (cmd *reportRenderCmd) Run(a *app) error {
	query, err := cmd.query()
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	builder, err := backoffice.NewReportBuilder(nil, nil)
	if err != nil {
		return err
	}
	report, err := queries.NewReportQuery(svc, builder).Query(a.context(), queries.ReportInput{
		Leads:       query,
		Commissions: backoffice.CommissionQuery{Range: query.Range},
	})
	if err != nil {
		return err
	}
	file, err := os.Create(cmd.Out)
	if err != nil {
		return fmt.Errorf("movectl: create %s: %w", cmd.Out, err)
	}
	defer file.Close()
	if err := builder.Render(report, file); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "report written to %s (%d leads, %s conversion)\n",
		cmd.Out, report.Funnel.Total, backoffice.FormatPercent(report.Funnel.ConversionRate))
	return nil
}

func parseRange(from, to string) (backoffice.DateRange, error) {
	var r backoffice.DateRange
	var err error
	if from != "" {
		if r.From, err = time.Parse(time.DateOnly, from); err != nil {
			return r, fmt.Errorf("movectl: parse --from: %w", err)
		}
	}
	if to != "" {
		if r.To, err = time.Parse(time.DateOnly, to); err != nil {
			return r, fmt.Errorf("movectl: parse --to: %w", err)
		}
	}
	return r, nil
}
