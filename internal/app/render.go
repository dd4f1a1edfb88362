package app

import (
	"dashpulse/clients/dashboardapi"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RenderTarget is the surface the engine pushes UI state to. The engine only
// issues side-effect calls against it and never reads state back.
type RenderTarget interface {
	SetActiveView(view View)
	SetThemeTokens(theme Theme) // always a concrete light/dark value, never auto
	SetLayoutClass(layout Layout)
	RenderTradeRow(trade dashboardapi.TradeRecord)
	RenderPrice(price decimal.Decimal)
	RenderBalance(balance decimal.Decimal)
	RenderBotStatus(status string)
	ShowNotification(n Notification)
	DismissNotification(id string)
}

// ThemeSignal reports the system color-scheme preference, used to resolve the
// auto theme. Subscribe returns a cancel func that stops future callbacks.
type ThemeSignal interface {
	Current() Theme
	Subscribe(fn func(Theme)) (cancel func())
}

// StaticThemeSignal is a ThemeSignal with a fixed value that never changes.
type StaticThemeSignal struct {
	Theme Theme
}

func (s StaticThemeSignal) Current() Theme {
	return s.Theme
}

func (s StaticThemeSignal) Subscribe(fn func(Theme)) func() {
	return func() {}
}

// LogRenderTarget logs every render call. It stands in for a real UI when the
// engine runs headless.
type LogRenderTarget struct {
	logger *zap.Logger
}

func NewLogRenderTarget(logger *zap.Logger) *LogRenderTarget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogRenderTarget{logger: logger}
}

func (r *LogRenderTarget) SetActiveView(view View) {
	r.logger.Info("render: active view", zap.String("view", string(view)))
}

func (r *LogRenderTarget) SetThemeTokens(theme Theme) {
	r.logger.Info("render: theme tokens", zap.String("theme", string(theme)))
}

func (r *LogRenderTarget) SetLayoutClass(layout Layout) {
	r.logger.Info("render: layout class", zap.String("layout", string(layout)))
}

func (r *LogRenderTarget) RenderTradeRow(trade dashboardapi.TradeRecord) {
	r.logger.Info("render: trade row",
		zap.String("symbol", trade.Symbol),
		zap.String("side", trade.Side),
		zap.String("price", trade.Price.String()),
		zap.String("quantity", trade.Quantity.String()),
	)
}

func (r *LogRenderTarget) RenderPrice(price decimal.Decimal) {
	r.logger.Info("render: price", zap.String("price", price.String()))
}

func (r *LogRenderTarget) RenderBalance(balance decimal.Decimal) {
	r.logger.Info("render: balance", zap.String("balance", balance.String()))
}

func (r *LogRenderTarget) RenderBotStatus(status string) {
	r.logger.Info("render: bot status", zap.String("status", status))
}

func (r *LogRenderTarget) ShowNotification(n Notification) {
	r.logger.Info("render: show notification",
		zap.String("id", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.String("message", n.Message),
	)
}

func (r *LogRenderTarget) DismissNotification(id string) {
	r.logger.Info("render: dismiss notification", zap.String("id", id))
}
