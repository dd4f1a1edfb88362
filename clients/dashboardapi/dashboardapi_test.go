package dashboardapi

import (
	"context"
	"dashpulse/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Defaults()
	cfg.API.BaseURL = server.URL
	return NewClient(zap.NewNop(), cfg), server
}

func TestGetDashboardData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dashboard-data" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"current_price": 123.456,
			"balance": 42.5,
			"bot_status": "running",
			"recent_trades": [
				{"symbol": "SOL/USDC", "side": "buy", "price": 101.5, "quantity": 2, "status": "filled", "timestamp": "2025-06-01T12:00:00Z"}
			]
		}`))
	})

	snap, err := client.GetDashboardData(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !snap.CurrentPrice.Equal(decimal.NewFromFloat(123.456)) {
		t.Errorf("unexpected price: %s", snap.CurrentPrice)
	}
	if !snap.Balance.Equal(decimal.NewFromFloat(42.5)) {
		t.Errorf("unexpected balance: %s", snap.Balance)
	}
	if snap.BotStatus != "running" {
		t.Errorf("unexpected status: %s", snap.BotStatus)
	}
	if len(snap.RecentTrades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(snap.RecentTrades))
	}
	if snap.RecentTrades[0].Symbol != "SOL/USDC" {
		t.Errorf("unexpected symbol: %s", snap.RecentTrades[0].Symbol)
	}
	if snap.RecentTrades[0].Status != TradeStatusFilled {
		t.Errorf("unexpected trade status: %s", snap.RecentTrades[0].Status)
	}
}

func TestGetTradeHistory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/trade-history" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"symbol": "SOL/USDC", "side": "buy", "price": 100, "quantity": 1, "status": "filled", "timestamp": "2025-06-01T12:00:00Z"},
			{"symbol": "SOL/USDC", "side": "sell", "price": 110, "quantity": 1, "status": "pending", "timestamp": "2025-06-01T13:00:00Z"}
		]`))
	})

	trades, err := client.GetTradeHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[1].Side != "sell" {
		t.Errorf("unexpected side: %s", trades[1].Side)
	}
}

func TestGetSettings(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"strategy": "analyst", "max_positions": "20"}`))
	})

	settings, err := client.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings["strategy"] != "analyst" {
		t.Errorf("unexpected settings: %v", settings)
	}
}

func TestGetAnalytics(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"performance_chart": [1, 2, 3], "revenue_data": {"total": 12.5}}`))
	})

	analytics, err := client.GetAnalytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(analytics.PerformanceChart) != "[1, 2, 3]" {
		t.Errorf("unexpected chart payload: %s", analytics.PerformanceChart)
	}
}

func TestGetDashboardData_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.GetDashboardData(context.Background()); err == nil {
		t.Fatal("expected error on server failure")
	}
}

func TestGetDashboardData_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current_price": `))
	})

	if _, err := client.GetDashboardData(context.Background()); err == nil {
		t.Fatal("expected error on malformed body")
	}
}
