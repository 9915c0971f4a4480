// Package ine reads price index series from the INE Tempus3 JSON API.
package ine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"ipcynab/internal/core"
	"ipcynab/internal/stats"
)

const (
	DefaultBaseURL = "https://servicios.ine.es"

	// MonthlyVariationSeries publishes the monthly percent change of the CPI.
	MonthlyVariationSeries = "IPC251858"
	// GeneralIndexSeries publishes the CPI general index level.
	GeneralIndexSeries = "IPC251852"
)

var _ stats.Source = (*Client)(nil)

type Config struct {
	BaseURL string
	Series  string
	Timeout time.Duration // Default: 30 seconds
}

// Client fetches one series.
type Client struct {
	httpClient *http.Client
	baseURL    string
	series     string
}

type seriesResponse struct {
	COD    string      `json:"COD"`
	Nombre string      `json:"Nombre"`
	Data   []dataPoint `json:"Data"`
}

type dataPoint struct {
	Fecha json.RawMessage `json:"Fecha"`
	Valor *float64        `json:"Valor"`
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	series := cfg.Series
	if series == "" {
		series = MonthlyVariationSeries
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		series:     series,
	}
}

// Series returns the series code the client reads.
func (c *Client) Series() string { return c.series }

// FetchIndexReadings implements stats.Source.
func (c *Client) FetchIndexReadings(ctx context.Context, window int) ([]core.IndexReading, error) {
	if window < 1 {
		window = 1
	}
	q := url.Values{}
	q.Set("nult", fmt.Sprintf("%d", window))
	q.Set("tip", "A")
	endpoint := fmt.Sprintf("%s/wstempus/js/ES/DATOS_SERIE/%s?%s", c.baseURL, url.PathEscape(c.series), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: series %s returned %d: %s",
			core.ErrSourceUnavailable, c.series, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload seriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode series %s: %v", core.ErrSourceUnavailable, c.series, err)
	}

	readings := make([]core.IndexReading, 0, len(payload.Data))
	for _, d := range payload.Data {
		if d.Valor == nil {
			continue
		}
		period, err := parseFecha(d.Fecha)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidReading, err)
		}
		value, err := core.PercentFromFloat(*d.Valor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidReading, err)
		}
		readings = append(readings, core.IndexReading{Period: period, Value: value})
	}
	sort.SliceStable(readings, func(i, j int) bool { return readings[i].Period < readings[j].Period })

	slog.DebugContext(ctx, "Fetched INE series",
		"series", c.series,
		"requested", window,
		"received", len(readings))

	return readings, nil
}

// parseFecha accepts the friendly "2025-01-01T00:00:00" form and epoch
// milliseconds, returning a YYYY-MM period label.
func parseFecha(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		datePart, _, _ := strings.Cut(s, "T")
		t, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", s, err)
		}
		return t.Format("2006-01"), nil
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return "", fmt.Errorf("parse date %s: unsupported format", string(raw))
	}
	// Epoch dates are local midnight in Madrid, which is the previous day in UTC.
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		madrid = time.FixedZone("CET", 3600)
	}
	return time.UnixMilli(ms).In(madrid).Format("2006-01"), nil
}
