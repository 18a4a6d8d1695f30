package backoffice

// Typed settings structs, one per settings screen. Values are inert
// configuration round-tripped through the backend; no business rule is
// computed here. Each screen has a stable code used by the settings API and
// the screen registry.

const (
	ScreenTariffs       = "pricing.tariffs"
	ScreenCrewRules     = "crew.rules"
	ScreenMobileApp     = "mobile.app"
	ScreenNotifications = "notifications.templates"
	ScreenBranches      = "company.branches"
)

// TariffSettings configures the pricing tariff screen.
type TariffSettings struct {
	BaseRatePerHour   float64 `json:"base_rate_per_hour"`
	PricePerKm        float64 `json:"price_per_km"`
	MinimumHours      float64 `json:"minimum_hours"`
	WeekendMultiplier float64 `json:"weekend_multiplier"`
	PackingFlatFee    float64 `json:"packing_flat_fee"`
	Currency          string  `json:"currency"`
}

// CrewSettings configures crew assignment rules.
type CrewSettings struct {
	MinCrewSize        int     `json:"min_crew_size"`
	MaxCrewSize        int     `json:"max_crew_size"`
	OvertimeAfterHours float64 `json:"overtime_after_hours"`
	AllowSoloJobs      bool    `json:"allow_solo_jobs"`
}

// MobileAppSettings configures the field crew mobile app.
type MobileAppSettings struct {
	MinVersion   string          `json:"min_version"`
	ForceUpdate  bool            `json:"force_update"`
	FeatureFlags map[string]bool `json:"feature_flags,omitempty"`
}

// NotificationTemplate is one outbound message template.
type NotificationTemplate struct {
	Code    string `json:"code"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Enabled bool   `json:"enabled"`
}

// NotificationSettings configures customer notification templates.
type NotificationSettings struct {
	SenderName string                 `json:"sender_name"`
	ReplyTo    string                 `json:"reply_to,omitempty"`
	Templates  []NotificationTemplate `json:"templates"`
}

// BranchSettings configures the company's operating branches.
type BranchSettings struct {
	DefaultBranch string   `json:"default_branch"`
	Branches      []Branch `json:"branches"`
}

// DefaultScreenDefinitions describes the built-in settings screens with the
// schemas their payloads must satisfy before a save is attempted.
func DefaultScreenDefinitions() []ScreenDefinition {
	return []ScreenDefinition{
		{
			Code:        ScreenTariffs,
			Title:       "Pricing Tariffs",
			Description: "Hourly rates, distance pricing, and surcharges.",
			Category:    "pricing",
			Schema: map[string]any{
				"type":     "object",
				"required": []any{"base_rate_per_hour", "currency"},
				"properties": map[string]any{
					"base_rate_per_hour": map[string]any{"type": "number", "exclusiveMinimum": 0},
					"price_per_km":       map[string]any{"type": "number", "minimum": 0},
					"minimum_hours":      map[string]any{"type": "number", "minimum": 0},
					"weekend_multiplier": map[string]any{"type": "number", "minimum": 1},
					"packing_flat_fee":   map[string]any{"type": "number", "minimum": 0},
					"currency":           map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
				},
			},
		},
		{
			Code:        ScreenCrewRules,
			Title:       "Crew Rules",
			Description: "Crew sizing and overtime thresholds.",
			Category:    "operations",
			Schema: map[string]any{
				"type":     "object",
				"required": []any{"min_crew_size", "max_crew_size"},
				"properties": map[string]any{
					"min_crew_size":        map[string]any{"type": "integer", "minimum": 1},
					"max_crew_size":        map[string]any{"type": "integer", "minimum": 1},
					"overtime_after_hours": map[string]any{"type": "number", "minimum": 0},
					"allow_solo_jobs":      map[string]any{"type": "boolean"},
				},
			},
		},
		{
			Code:        ScreenMobileApp,
			Title:       "Mobile App",
			Description: "Field crew app version gates and feature flags.",
			Category:    "mobile",
			Schema: map[string]any{
				"type":     "object",
				"required": []any{"min_version"},
				"properties": map[string]any{
					"min_version":   map[string]any{"type": "string", "minLength": 1},
					"force_update":  map[string]any{"type": "boolean"},
					"feature_flags": map[string]any{"type": "object"},
				},
			},
		},
		{
			Code:        ScreenNotifications,
			Title:       "Notification Templates",
			Description: "Customer-facing email/SMS templates.",
			Category:    "messaging",
			Schema: map[string]any{
				"type":     "object",
				"required": []any{"sender_name"},
				"properties": map[string]any{
					"sender_name": map[string]any{"type": "string", "minLength": 1},
					"reply_to":    map[string]any{"type": "string"},
					"templates": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []any{"code"},
							"properties": map[string]any{
								"code":    map[string]any{"type": "string", "minLength": 1},
								"subject": map[string]any{"type": "string"},
								"body":    map[string]any{"type": "string"},
								"enabled": map[string]any{"type": "boolean"},
							},
						},
					},
				},
			},
		},
		{
			Code:        ScreenBranches,
			Title:       "Branches",
			Description: "Operating locations and the default branch.",
			Category:    "company",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"default_branch": map[string]any{"type": "string"},
					"branches": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "name"},
							"properties": map[string]any{
								"id":     map[string]any{"type": "string", "minLength": 1},
								"name":   map[string]any{"type": "string", "minLength": 1},
								"city":   map[string]any{"type": "string"},
								"active": map[string]any{"type": "boolean"},
							},
						},
					},
				},
			},
		},
	}
}
