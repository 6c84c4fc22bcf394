// internal/client/marketing.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appErrors "github.com/unclebandit/smsleopard-console/internal/errors"
	"github.com/unclebandit/smsleopard-console/internal/model"
)

// MarketingAPI is the upstream campaign platform consumed by the console.
// Create and edit deliberately disagree on audience handling: creation
// excludes targetGroups from the payload and sets them with a separate
// targets call, while an update embeds them directly. Both shapes are
// upstream contract and must not be unified here.
type MarketingAPI interface {
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	CreateCampaign(ctx context.Context, c model.Campaign) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, c model.Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
	SetCampaignTargets(ctx context.Context, groups []string) error
	ListGroups(ctx context.Context) ([]model.Group, error)
	ListShops(ctx context.Context) ([]model.Shop, error)
	Health(ctx context.Context) (string, error)
}

// Client is the HTTP implementation of MarketingAPI.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the common {success, ...} response wrapper.
type envelope struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	Error     string           `json:"error,omitempty"`
	Campaign  *model.Campaign  `json:"campaign,omitempty"`
	Campaigns []model.Campaign `json:"campaigns,omitempty"`
	Groups    []model.Group    `json:"groups,omitempty"`
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do runs one request. A non-nil body is JSON-encoded with the required
// Content-Type header. A non-2xx status or success=false maps to an
// APIError carrying the server-reported message.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, appErrors.NewAPIError(resp.StatusCode, "")
		}
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		return nil, appErrors.NewAPIError(resp.StatusCode, env.message())
	}
	return &env, nil
}

func (c *Client) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/marketing/campaigns", nil)
	if err != nil {
		return nil, err
	}
	return env.Campaigns, nil
}

func (c *Client) CreateCampaign(ctx context.Context, campaign model.Campaign) (*model.Campaign, error) {
	// The create payload never carries targetGroups.
	campaign.TargetGroups = nil
	env, err := c.do(ctx, http.MethodPost, "/api/marketing/campaign", campaign)
	if err != nil {
		return nil, err
	}
	return env.Campaign, nil
}

// updatePayload forces the targetGroups key onto the wire even when the
// selection is empty: an edit must preserve "explicitly none" as
// distinct from an omitted field.
type updatePayload struct {
	model.Campaign
	TargetGroups []string `json:"targetGroups"`
}

func (c *Client) UpdateCampaign(ctx context.Context, id string, campaign model.Campaign) error {
	groups := campaign.TargetGroups
	if groups == nil {
		groups = []string{}
	}
	campaign.TargetGroups = nil
	_, err := c.do(ctx, http.MethodPut, "/api/marketing/campaign/"+id, updatePayload{Campaign: campaign, TargetGroups: groups})
	return err
}

func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/marketing/campaign/"+id, nil)
	return err
}

func (c *Client) SetCampaignTargets(ctx context.Context, groups []string) error {
	payload := map[string][]string{"targetGroups": groups}
	_, err := c.do(ctx, http.MethodPut, "/api/marketing/campaign/targets", payload)
	return err
}

func (c *Client) ListGroups(ctx context.Context) ([]model.Group, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/marketing/groups", nil)
	if err != nil {
		return nil, err
	}
	return env.Groups, nil
}

// ListShops returns the shop/product catalog. Unlike the marketing
// endpoints this one responds with a bare array.
func (c *Client) ListShops(ctx context.Context) ([]model.Shop, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/shops", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, appErrors.NewAPIError(resp.StatusCode, "")
	}
	var shops []model.Shop
	if err := json.NewDecoder(resp.Body).Decode(&shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// Health reports the upstream connection state for the status poller.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "disconnected", nil
	}
	var body struct {
		Connection string `json:"connection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Connection == "" {
		return "connected", nil
	}
	return body.Connection, nil
}

var _ MarketingAPI = (*Client)(nil)
