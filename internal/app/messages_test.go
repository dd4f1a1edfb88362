package app

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecodeInbound_PriceUpdate(t *testing.T) {
	msg, err := DecodeInbound([]byte(`{"type":"price_update","price":"45123.50"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != MessagePrice {
		t.Fatalf("expected price kind, got %s", msg.Kind)
	}
	if !msg.Price.Equal(decimal.RequireFromString("45123.50")) {
		t.Errorf("expected price 45123.50, got %v", msg.Price)
	}
}

func TestDecodeInbound_TradeUpdate(t *testing.T) {
	raw := `{"type":"trade_update","trade":{"symbol":"BTC-USD","side":"buy","price":"45000","quantity":"0.5","status":"filled","timestamp":"2026-08-01T12:00:00Z"}}`
	msg, err := DecodeInbound([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != MessageTrade {
		t.Fatalf("expected trade kind, got %s", msg.Kind)
	}
	if msg.Trade.Symbol != "BTC-USD" || msg.Trade.Side != "buy" {
		t.Errorf("unexpected trade: %+v", msg.Trade)
	}
	if !msg.Trade.Quantity.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("expected quantity 0.5, got %v", msg.Trade.Quantity)
	}
}

func TestDecodeInbound_BalanceUpdate(t *testing.T) {
	msg, err := DecodeInbound([]byte(`{"type":"balance_update","balance":"10250.75"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != MessageBalance {
		t.Fatalf("expected balance kind, got %s", msg.Kind)
	}
	if !msg.Balance.Equal(decimal.RequireFromString("10250.75")) {
		t.Errorf("expected balance 10250.75, got %v", msg.Balance)
	}
}

func TestDecodeInbound_StatusUpdate(t *testing.T) {
	msg, err := DecodeInbound([]byte(`{"type":"status_update","status":"running"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != MessageStatus || msg.Status != "running" {
		t.Errorf("expected running status, got %+v", msg)
	}
}

func TestDecodeInbound_UnknownTypeNoError(t *testing.T) {
	msg, err := DecodeInbound([]byte(`{"type":"heartbeat","seq":42}`))
	if err != nil {
		t.Fatalf("unexpected error for unknown type: %v", err)
	}
	if msg.Kind != MessageUnknown {
		t.Errorf("expected unknown kind, got %s", msg.Kind)
	}
}

func TestDecodeInbound_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{"type":`},
		{"price missing payload", `{"type":"price_update"}`},
		{"trade missing payload", `{"type":"trade_update"}`},
		{"balance missing payload", `{"type":"balance_update"}`},
		{"status missing payload", `{"type":"status_update"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeInbound([]byte(tc.raw)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
