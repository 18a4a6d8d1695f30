// Package apiclient talks to the moving-company operations backend over REST
// and adapts its responses to the back-office domain types.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	backoffice "github.com/haulware/backoffice/components/backoffice"
	"github.com/haulware/backoffice/components/collection"
	"github.com/haulware/backoffice/pkg/session"
)

// Config configures the HTTP back-office client.
type Config struct {
	BaseURL    string
	Tokens     session.TokenSource
	HTTPClient *http.Client
}

// HTTPClient implements backoffice.Client against the operations backend.
type HTTPClient struct {
	baseURL string
	tokens  session.TokenSource
	client  *http.Client
}

// New builds a client capable of hitting the live backend.
func New(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("apiclient: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		tokens:  cfg.Tokens,
		client:  httpClient,
	}, nil
}

var _ backoffice.Client = (*HTTPClient)(nil)

// ListLeads fetches the filtered leads collection.
func (c *HTTPClient) ListLeads(ctx context.Context, params collection.Params) ([]backoffice.Lead, error) {
	var leads []backoffice.Lead
	if err := c.do(ctx, http.MethodGet, "/leads", params, nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// CreateLead registers a new inquiry and returns the server copy.
func (c *HTTPClient) CreateLead(ctx context.Context, lead backoffice.Lead) (backoffice.Lead, error) {
	var created backoffice.Lead
	if err := c.do(ctx, http.MethodPost, "/leads", nil, lead, &created); err != nil {
		return backoffice.Lead{}, err
	}
	return created, nil
}

// PatchLead sends a partial update. A nil result means the backend replied
// without a body; the optimistic copy stands.
func (c *HTTPClient) PatchLead(ctx context.Context, id string, fields collection.Intent) (*backoffice.Lead, error) {
	return patchRecord[backoffice.Lead](ctx, c, "/leads/"+url.PathEscape(id), fields)
}

// DeleteLead removes a lead.
func (c *HTTPClient) DeleteLead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/leads/"+url.PathEscape(id), nil, nil, nil)
}

// ListPartners fetches referral partners.
func (c *HTTPClient) ListPartners(ctx context.Context, params collection.Params) ([]backoffice.Partner, error) {
	var partners []backoffice.Partner
	if err := c.do(ctx, http.MethodGet, "/partners", params, nil, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

// PatchPartner sends a partial update.
func (c *HTTPClient) PatchPartner(ctx context.Context, id string, fields collection.Intent) (*backoffice.Partner, error) {
	return patchRecord[backoffice.Partner](ctx, c, "/partners/"+url.PathEscape(id), fields)
}

// ListReferrals fetches partner referrals.
func (c *HTTPClient) ListReferrals(ctx context.Context, params collection.Params) ([]backoffice.Referral, error) {
	var referrals []backoffice.Referral
	if err := c.do(ctx, http.MethodGet, "/referrals", params, nil, &referrals); err != nil {
		return nil, err
	}
	return referrals, nil
}

// PatchReferral sends a partial update.
func (c *HTTPClient) PatchReferral(ctx context.Context, id string, fields collection.Intent) (*backoffice.Referral, error) {
	return patchRecord[backoffice.Referral](ctx, c, "/referrals/"+url.PathEscape(id), fields)
}

// DeleteReferral removes a referral.
func (c *HTTPClient) DeleteReferral(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/referrals/"+url.PathEscape(id), nil, nil, nil)
}

// ListCommissions fetches partner commissions.
func (c *HTTPClient) ListCommissions(ctx context.Context, params collection.Params) ([]backoffice.Commission, error) {
	var commissions []backoffice.Commission
	if err := c.do(ctx, http.MethodGet, "/commissions", params, nil, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

// PatchCommission sends a partial update.
func (c *HTTPClient) PatchCommission(ctx context.Context, id string, fields collection.Intent) (*backoffice.Commission, error) {
	return patchRecord[backoffice.Commission](ctx, c, "/commissions/"+url.PathEscape(id), fields)
}

// ListActivities fetches follow-up activities.
func (c *HTTPClient) ListActivities(ctx context.Context, params collection.Params) ([]backoffice.Activity, error) {
	var activities []backoffice.Activity
	if err := c.do(ctx, http.MethodGet, "/activities", params, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// CreateActivity schedules a follow-up and returns the server copy.
func (c *HTTPClient) CreateActivity(ctx context.Context, activity backoffice.Activity) (backoffice.Activity, error) {
	var created backoffice.Activity
	if err := c.do(ctx, http.MethodPost, "/activities", nil, activity, &created); err != nil {
		return backoffice.Activity{}, err
	}
	return created, nil
}

// PatchActivity sends a partial update.
func (c *HTTPClient) PatchActivity(ctx context.Context, id string, fields collection.Intent) (*backoffice.Activity, error) {
	return patchRecord[backoffice.Activity](ctx, c, "/activities/"+url.PathEscape(id), fields)
}

// DeleteActivity removes an activity.
func (c *HTTPClient) DeleteActivity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/activities/"+url.PathEscape(id), nil, nil, nil)
}

// ListAuditEntries fetches the audit log.
func (c *HTTPClient) ListAuditEntries(ctx context.Context, params collection.Params) ([]backoffice.AuditEntry, error) {
	var entries []backoffice.AuditEntry
	if err := c.do(ctx, http.MethodGet, "/audit", params, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchSettings loads one settings screen's payload into out.
func (c *HTTPClient) FetchSettings(ctx context.Context, screen string, out any) error {
	return c.do(ctx, http.MethodGet, "/settings/"+url.PathEscape(screen), nil, nil, out)
}

// SaveSettings persists one settings screen's payload.
func (c *HTTPClient) SaveSettings(ctx context.Context, screen string, payload any) error {
	return c.do(ctx, http.MethodPatch, "/settings/"+url.PathEscape(screen), nil, payload, nil)
}

// ExportCSV fetches a backend-produced CSV blob.
func (c *HTTPClient) ExportCSV(ctx context.Context, resource string, params collection.Params) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/export/"+url.PathEscape(resource), params, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: http request: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read export: %w", err)
	}
	return blob, nil
}

func patchRecord[T any](ctx context.Context, c *HTTPClient, path string, fields collection.Intent) (*T, error) {
	req, err := c.newRequest(ctx, http.MethodPatch, path, nil, fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: http request: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var record T
	if err := decodeBody(body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params collection.Params, payload any, target any) error {
	req, err := c.newRequest(ctx, method, path, params, payload)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: http request: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read response: %w", err)
	}
	return decodeBody(body, target)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, params collection.Params, payload any) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		values := url.Values{}
		for key, value := range params {
			values.Set(key, value)
		}
		endpoint += "?" + values.Encode()
	}
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			if errors.Is(err, session.ErrNoToken) {
				return nil, ErrNoSession
			}
			return nil, fmt.Errorf("apiclient: resolve token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Responses arrive either bare or wrapped in a {"data": ...} envelope.
func decodeBody(body []byte, target any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return fmt.Errorf("apiclient: decode envelope: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var wrapped struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil && wrapped.Error.Message != "" {
		wrapped.Error.Status = resp.StatusCode
		return wrapped.Error
	}
	if len(bytes.TrimSpace(body)) > 0 {
		apiErr.Message = string(bytes.TrimSpace(body))
	}
	return apiErr
}
