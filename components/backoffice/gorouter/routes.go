package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	router "github.com/goliatone/go-router"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/backoffice/commands"
	"github.com/haulware/backoffice/components/backoffice/httpapi"
	"github.com/haulware/backoffice/components/collection"
)

// ActorResolver converts a router.Context into a backoffice.ActorContext.
type ActorResolver func(router.Context) backoffice.ActorContext

// Config wires go-router with the back-office service, commands, and events.
type Config[T any] struct {
	Router        router.Router[T]
	Service       *backoffice.Service
	API           httpapi.Executor
	Report        *backoffice.ReportBuilder
	ActorResolver ActorResolver
	BasePath      string
	Routes        RouteConfig
}

// RouteConfig customizes the relative paths used for back-office endpoints.
type RouteConfig struct {
	Leads         string
	LeadStatus    string
	LeadBulk      string
	Partners      string
	PartnerToggle string
	Referrals     string
	ReferralID    string
	Commissions   string
	CommissionPay string
	Activities    string
	ActivityDone  string
	Audit         string
	Screens       string
	ScreenCode    string
	Report        string
	ExportLeads   string
	ExportServer  string
	WebSocket     string
}

// Register mounts back-office routes (JSON, REST, report HTML, WebSocket) on
// a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Service == nil {
		return errors.New("gorouter: service is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/backoffice"
	}
	actorResolver := cfg.ActorResolver
	if actorResolver == nil {
		actorResolver = defaultActorResolver
	}

	group := cfg.Router.Group(base)

	registerCollections(group, cfg.Service, routes)
	registerSettings(group, cfg.Service, cfg.API, actorResolver, routes)

	if cfg.API != nil {
		registerMutations(group, cfg.API, actorResolver, routes)
	}

	group.Get(routes.Report, router.WrapHandler(func(ctx router.Context) error {
		builder := cfg.Report
		if builder == nil {
			var err error
			builder, err = backoffice.NewReportBuilder(nil, nil)
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
		}
		report, err := cfg.Service.BuildReport(ctx.Context(), builder)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		var buf bytes.Buffer
		if err := builder.Render(report, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.ExportLeads, router.WrapHandler(func(ctx router.Context) error {
		if err := cfg.Service.LoadLeads(ctx.Context(), leadQueryFrom(ctx)); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		var buf bytes.Buffer
		if err := backoffice.ExportLeadsCSV(&buf, cfg.Service.Leads().Items()); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/csv")
		ctx.SetHeader("Content-Disposition", `attachment; filename="leads.csv"`)
		return ctx.Send(buf.Bytes())
	}))

	if cfg.API != nil {
		group.Get(routes.ExportServer, router.WrapHandler(func(ctx router.Context) error {
			var blob []byte
			input := commands.ExportCSVInput{
				Resource: ctx.Param("resource"),
				Actor:    actorResolver(ctx),
				Blob:     &blob,
			}
			if err := cfg.API.ExportCSV(ctx.Context(), input); err != nil {
				return respondError(ctx, http.StatusBadGateway, err)
			}
			ctx.SetHeader("Content-Type", "text/csv")
			ctx.SetHeader("Content-Disposition", `attachment; filename="`+input.Resource+`.csv"`)
			return ctx.Send(blob)
		}))
	}

	registerWebSocket(group, cfg.Service.Events(), routes.WebSocket)

	return nil
}

func registerCollections[T any](r router.Router[T], service *backoffice.Service, routes RouteConfig) {
	r.Get(routes.Leads, router.WrapHandler(func(ctx router.Context) error {
		if err := service.LoadLeads(ctx.Context(), leadQueryFrom(ctx)); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, service.Leads().Items())
	}))

	r.Get(routes.Partners, router.WrapHandler(func(ctx router.Context) error {
		query := backoffice.PartnerQuery{ActiveOnly: ctx.Query("active") == "true"}
		if err := service.LoadPartners(ctx.Context(), query); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, service.Partners().Items())
	}))

	r.Get(routes.Referrals, router.WrapHandler(func(ctx router.Context) error {
		query := backoffice.ReferralQuery{
			Status:    backoffice.ReferralStatus(ctx.Query("status")),
			PartnerID: ctx.Query("partner_id"),
		}
		if err := service.LoadReferrals(ctx.Context(), query); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, service.Referrals().Items())
	}))

	r.Get(routes.Commissions, router.WrapHandler(func(ctx router.Context) error {
		query := backoffice.CommissionQuery{
			Range:     dateRangeFrom(ctx),
			Status:    backoffice.CommissionStatus(ctx.Query("status")),
			PartnerID: ctx.Query("partner_id"),
		}
		if err := service.LoadCommissions(ctx.Context(), query); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, service.Commissions().Items())
	}))

	r.Get(routes.Activities, router.WrapHandler(func(ctx router.Context) error {
		query := backoffice.ActivityQuery{
			Range:  dateRangeFrom(ctx),
			Status: backoffice.ActivityStatus(ctx.Query("status")),
			LeadID: ctx.Query("lead_id"),
		}
		if err := service.LoadActivities(ctx.Context(), query); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, service.Activities().Items())
	}))

	r.Get(routes.Audit, router.WrapHandler(func(ctx router.Context) error {
		query := backoffice.AuditQuery{
			Range:  dateRangeFrom(ctx),
			Actor:  ctx.Query("actor"),
			Entity: ctx.Query("entity"),
		}
		entries, err := service.AuditLog(ctx.Context(), query)
		if err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, entries)
	}))
}

func registerSettings[T any](r router.Router[T], service *backoffice.Service, api httpapi.Executor, resolver ActorResolver, routes RouteConfig) {
	r.Get(routes.Screens, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, service.Screens().Definitions())
	}))

	r.Get(routes.ScreenCode, router.WrapHandler(func(ctx router.Context) error {
		code := ctx.Param("code")
		var payload map[string]any
		if err := service.FetchScreen(ctx.Context(), code, &payload); err != nil {
			return respondError(ctx, http.StatusNotFound, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if api == nil {
		return
	}
	r.Put(routes.ScreenCode, router.WrapHandler(func(ctx router.Context) error {
		code := ctx.Param("code")
		var payload map[string]any
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.SaveSettingsInput{Screen: code, Payload: payload, Actor: resolver(ctx)}
		if err := api.SaveSettings(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))
}

func registerMutations[T any](r router.Router[T], api httpapi.Executor, resolver ActorResolver, routes RouteConfig) {
	r.Post(routes.Leads, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.CreateLeadInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Actor = resolver(ctx)
		created := payload.Lead
		payload.Created = &created
		if err := api.CreateLead(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusCreated, created)
	}))

	r.Post(routes.LeadStatus, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetLeadStatusInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.LeadID = ctx.Param("id")
		payload.Actor = resolver(ctx)
		if err := api.SetLeadStatus(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.LeadBulk, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.BulkSetLeadStatusInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Actor = resolver(ctx)
		var result collection.BulkResult
		payload.Result = &result
		if err := api.BulkSetLeadStatus(ctx.Context(), payload); err != nil {
			return ctx.JSON(http.StatusMultiStatus, result)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Post(routes.PartnerToggle, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("partner id is required"))
		}
		input := commands.TogglePartnerInput{PartnerID: id, Actor: resolver(ctx)}
		if err := api.TogglePartner(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "toggled"})
	}))

	r.Post(routes.CommissionPay, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("commission id is required"))
		}
		input := commands.PayCommissionInput{CommissionID: id, Actor: resolver(ctx)}
		if err := api.PayCommission(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "paid"})
	}))

	r.Post(routes.ActivityDone, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("activity id is required"))
		}
		input := commands.CompleteActivityInput{ActivityID: id, Actor: resolver(ctx)}
		if err := api.CompleteActivity(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "completed"})
	}))

	r.Delete(routes.ReferralID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("referral id is required"))
		}
		input := commands.RemoveReferralInput{ReferralID: id, Actor: resolver(ctx)}
		if err := api.RemoveReferral(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))
}

func registerWebSocket[T any](r router.Router[T], events *collection.Broadcaster, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		stream, cancel := events.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-stream:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultActorResolver(ctx router.Context) backoffice.ActorContext {
	var actor backoffice.ActorContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		actor.ActorID = v
	}
	if actor.ActorID == "" {
		actor.ActorID = strings.TrimSpace(ctx.Header("X-Actor"))
	}
	if v, ok := ctx.Locals("branch").(string); ok {
		actor.Branch = v
	}
	if actor.Branch == "" {
		actor.Branch = strings.TrimSpace(ctx.Header("X-Branch"))
	}
	return actor
}

func leadQueryFrom(ctx router.Context) backoffice.LeadQuery {
	return backoffice.LeadQuery{
		Range:  dateRangeFrom(ctx),
		Status: backoffice.LeadStatus(ctx.Query("status")),
		Source: ctx.Query("source"),
		Branch: ctx.Query("branch"),
	}
}

func dateRangeFrom(ctx router.Context) backoffice.DateRange {
	var r backoffice.DateRange
	if from := ctx.Query("from"); from != "" {
		if t, err := time.Parse(time.DateOnly, from); err == nil {
			r.From = t
		}
	}
	if to := ctx.Query("to"); to != "" {
		if t, err := time.Parse(time.DateOnly, to); err == nil {
			r.To = t
		}
	}
	return r
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Leads == "" {
		routes.Leads = "/leads"
	}
	if routes.LeadStatus == "" {
		routes.LeadStatus = "/leads/:id/status"
	}
	if routes.LeadBulk == "" {
		routes.LeadBulk = "/leads/bulk-status"
	}
	if routes.Partners == "" {
		routes.Partners = "/partners"
	}
	if routes.PartnerToggle == "" {
		routes.PartnerToggle = "/partners/:id/toggle"
	}
	if routes.Referrals == "" {
		routes.Referrals = "/referrals"
	}
	if routes.ReferralID == "" {
		routes.ReferralID = "/referrals/:id"
	}
	if routes.Commissions == "" {
		routes.Commissions = "/commissions"
	}
	if routes.CommissionPay == "" {
		routes.CommissionPay = "/commissions/:id/pay"
	}
	if routes.Activities == "" {
		routes.Activities = "/activities"
	}
	if routes.ActivityDone == "" {
		routes.ActivityDone = "/activities/:id/complete"
	}
	if routes.Audit == "" {
		routes.Audit = "/audit"
	}
	if routes.Screens == "" {
		routes.Screens = "/screens"
	}
	if routes.ScreenCode == "" {
		routes.ScreenCode = "/screens/:code"
	}
	if routes.Report == "" {
		routes.Report = "/report"
	}
	if routes.ExportLeads == "" {
		routes.ExportLeads = "/export/leads.csv"
	}
	if routes.ExportServer == "" {
		routes.ExportServer = "/export/server/:resource"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
