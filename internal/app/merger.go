package app

import (
	"dashpulse/clients/dashboardapi"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ActivityWindowCap bounds the recent activity window.
const ActivityWindowCap = 10

// Merger folds inbound messages and poll snapshots into the in-memory view
// state: three latest-value cells and a bounded newest-first trade window.
// It is single-writer (engine dispatch loop only) and never blocks.
type Merger struct {
	logger *zap.Logger
	render RenderTarget
	queue  *NotificationQueue

	window     []dashboardapi.TradeRecord // newest first
	price      decimal.Decimal
	hasPrice   bool
	balance    decimal.Decimal
	hasBalance bool
	botStatus  string
}

func NewMerger(logger *zap.Logger, render RenderTarget, queue *NotificationQueue) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{
		logger: logger,
		render: render,
		queue:  queue,
	}
}

// ApplyMessage merges a decoded live-channel message. Scalar cells are
// overwritten wholesale; trade events prepend to the window.
func (m *Merger) ApplyMessage(msg InboundMessage) {
	switch msg.Kind {
	case MessagePrice:
		m.setPrice(msg.Price)
	case MessageBalance:
		m.setBalance(msg.Balance)
	case MessageStatus:
		m.setStatus(msg.Status)
	case MessageTrade:
		if m.prependTrade(msg.Trade) && m.queue != nil {
			m.queue.Enqueue(
				fmt.Sprintf("New %s trade: %s", msg.Trade.Side, msg.Trade.Symbol),
				NotificationInfo,
				0,
			)
		}
	case MessageUnknown:
		m.logger.Debug("ignoring unknown message kind")
	}
}

// ApplySnapshot merges a full poll snapshot. All scalars are overwritten.
// Only the newest trade from the snapshot is prepended, matching the event
// path: the bulk endpoint surfaces recent trades, not a backfill feed.
func (m *Merger) ApplySnapshot(snap *dashboardapi.Snapshot) {
	if snap == nil {
		return
	}

	m.setPrice(snap.CurrentPrice)
	m.setBalance(snap.Balance)
	m.setStatus(snap.BotStatus)

	if len(snap.RecentTrades) > 0 {
		m.prependTrade(snap.RecentTrades[0])
	}
}

// prependTrade inserts a trade at the head of the window and evicts beyond
// capacity. A record identical to the current head is skipped, so repeated
// polls reporting the same newest trade do not stack duplicates. Reports
// whether the trade was inserted.
func (m *Merger) prependTrade(trade dashboardapi.TradeRecord) bool {
	if len(m.window) > 0 && sameTrade(m.window[0], trade) {
		return false
	}

	m.window = append([]dashboardapi.TradeRecord{trade}, m.window...)
	if len(m.window) > ActivityWindowCap {
		m.window = m.window[:ActivityWindowCap]
	}

	if m.render != nil {
		m.render.RenderTradeRow(trade)
	}
	return true
}

func sameTrade(a, b dashboardapi.TradeRecord) bool {
	return a.Symbol == b.Symbol &&
		a.Side == b.Side &&
		a.Status == b.Status &&
		a.Price.Equal(b.Price) &&
		a.Quantity.Equal(b.Quantity) &&
		a.Timestamp.Equal(b.Timestamp)
}

func (m *Merger) setPrice(price decimal.Decimal) {
	m.price = price
	m.hasPrice = true
	if m.render != nil {
		m.render.RenderPrice(price)
	}
}

func (m *Merger) setBalance(balance decimal.Decimal) {
	m.balance = balance
	m.hasBalance = true
	if m.render != nil {
		m.render.RenderBalance(balance)
	}
}

func (m *Merger) setStatus(status string) {
	m.botStatus = status
	if m.render != nil {
		m.render.RenderBotStatus(status)
	}
}

// Window returns a copy of the recent activity window, newest first.
func (m *Merger) Window() []dashboardapi.TradeRecord {
	out := make([]dashboardapi.TradeRecord, len(m.window))
	copy(out, m.window)
	return out
}

// CurrentPrice returns the latest price cell and whether one has been set.
func (m *Merger) CurrentPrice() (decimal.Decimal, bool) {
	return m.price, m.hasPrice
}

// Balance returns the latest balance cell and whether one has been set.
func (m *Merger) Balance() (decimal.Decimal, bool) {
	return m.balance, m.hasBalance
}

// BotStatus returns the latest bot status; empty until first update.
func (m *Merger) BotStatus() string {
	return m.botStatus
}
