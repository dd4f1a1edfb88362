package dashboardapi

import (
	"context"
	"dashpulse/config"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client talks to the trading bot's dashboard backend over HTTP.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		baseURL: cfg.API.BaseURL,
	}
}

// TradeStatus describes the lifecycle state of a trade.
type TradeStatus string

const (
	TradeStatusPending TradeStatus = "pending"
	TradeStatusFilled  TradeStatus = "filled"
	TradeStatusFailed  TradeStatus = "failed"
)

// TradeRecord is a single executed or attempted trade. Immutable once received.
type TradeRecord struct {
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Status    TradeStatus     `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// Snapshot is the bulk dashboard state returned by /api/dashboard-data.
type Snapshot struct {
	CurrentPrice decimal.Decimal `json:"current_price"`
	Balance      decimal.Decimal `json:"balance"`
	BotStatus    string          `json:"bot_status"`
	RecentTrades []TradeRecord   `json:"recent_trades"`
}

// Analytics is the payload returned by /api/analytics-data. The chart
// structures are opaque to the engine; they are handed to the render target
// as-is.
type Analytics struct {
	PerformanceChart json.RawMessage `json:"performance_chart"`
	RevenueData      json.RawMessage `json:"revenue_data"`
}

// GetDashboardData fetches the bulk state snapshot.
func (c *Client) GetDashboardData(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.getJSON(ctx, "/api/dashboard-data", &snap); err != nil {
		return nil, fmt.Errorf("get dashboard data: %w", err)
	}
	return &snap, nil
}

// GetTradeHistory fetches the full trade history for the trades view.
func (c *Client) GetTradeHistory(ctx context.Context) ([]TradeRecord, error) {
	var trades []TradeRecord
	if err := c.getJSON(ctx, "/api/trade-history", &trades); err != nil {
		return nil, fmt.Errorf("get trade history: %w", err)
	}
	return trades, nil
}

// GetAnalytics fetches chart data for the analytics view.
func (c *Client) GetAnalytics(ctx context.Context) (*Analytics, error) {
	var analytics Analytics
	if err := c.getJSON(ctx, "/api/analytics-data", &analytics); err != nil {
		return nil, fmt.Errorf("get analytics: %w", err)
	}
	return &analytics, nil
}

// GetSettings fetches the bot's server-side settings as a name/value mapping.
func (c *Client) GetSettings(ctx context.Context) (map[string]string, error) {
	var settings map[string]string
	if err := c.getJSON(ctx, "/api/settings", &settings); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	return nil
}
