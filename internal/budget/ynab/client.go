// Package ynab talks to the YNAB API v1 budget categories endpoints.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ipcynab/internal/budget"
	"ipcynab/internal/core"
)

const DefaultBaseURL = "https://api.ynab.com"

var (
	_ budget.CategoryStore   = (*Client)(nil)
	_ budget.CategoryUpdater = (*Client)(nil)
)

// ClientConfig represents the configuration for the YNAB client.
type ClientConfig struct {
	BaseURL     string
	AccessToken string
	BudgetID    string
	Timeout     time.Duration // Default: 30 seconds
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	budgetID    string
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     base,
		accessToken: cfg.AccessToken,
		budgetID:    cfg.BudgetID,
	}
}

// GetCategory implements budget.CategoryReader.
func (c *Client) GetCategory(ctx context.Context, id string) (core.CategoryState, error) {
	var resp categoryResponse
	if err := c.do(ctx, http.MethodGet, id, nil, &resp); err != nil {
		return core.CategoryState{}, err
	}
	cat := resp.Data.Category
	if cat.Deleted {
		return core.CategoryState{}, fmt.Errorf("category %s is deleted: %w", id, core.ErrNotFound)
	}

	if cat.GoalTarget == nil {
		return core.CategoryState{}, fmt.Errorf("category %s has no goal target: %w", id, core.ErrInvalidAmount)
	}

	state := core.CategoryState{ID: id, Name: cat.Name, TargetMillicents: *cat.GoalTarget}
	if state.Name == "" {
		state.Name = "Unknown Category"
	}
	if cat.Note != nil {
		state.Notes = *cat.Note
	}
	return state, nil
}

func (c *Client) SetCategoryTarget(ctx context.Context, id string, millicents int64) error {
	return c.patch(ctx, id, patchCategory{GoalTarget: &millicents})
}

func (c *Client) SetCategoryNotes(ctx context.Context, id string, notes string) error {
	return c.patch(ctx, id, patchCategory{Note: &notes})
}

// UpdateCategory sends target and notes in one PATCH.
func (c *Client) UpdateCategory(ctx context.Context, id string, millicents int64, notes string) error {
	return c.patch(ctx, id, patchCategory{GoalTarget: &millicents, Note: &notes})
}

func (c *Client) patch(ctx context.Context, id string, body patchCategory) error {
	if err := c.do(ctx, http.MethodPatch, id, patchRequest{Category: body}, nil); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Patched YNAB category", "category_id", id)
	return nil
}

func (c *Client) do(ctx context.Context, method, categoryID string, in, out any) error {
	endpoint := fmt.Sprintf("%s/v1/budgets/%s/categories/%s",
		c.baseURL, url.PathEscape(c.budgetID), url.PathEscape(categoryID))

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", core.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", core.ErrServiceUnavailable, err)
	}
	return nil
}

// parseError maps a non-2xx response to the budgeting error taxonomy.
func parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(raw))
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error.Detail != "" {
		detail = er.Error.Detail
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		kind = core.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		kind = core.ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		kind = core.ErrServiceUnavailable
	case resp.StatusCode == http.StatusBadRequest:
		kind = core.ErrInvalidAmount
	default:
		kind = core.ErrServiceUnavailable
	}
	if detail == "" {
		return fmt.Errorf("%w: status %d", kind, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d: %s", kind, resp.StatusCode, detail)
}
