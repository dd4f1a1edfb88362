package app

import (
	"sync"
	"time"

	"dashpulse/clients/dashboardapi"

	"github.com/shopspring/decimal"
)

// recordingRender captures every render call for assertions.
type recordingRender struct {
	views     []View
	themes    []Theme
	layouts   []Layout
	trades    []dashboardapi.TradeRecord
	prices    []decimal.Decimal
	balances  []decimal.Decimal
	statuses  []string
	shown     []Notification
	dismissed []string
}

func (r *recordingRender) SetActiveView(view View) { r.views = append(r.views, view) }

func (r *recordingRender) SetThemeTokens(theme Theme) { r.themes = append(r.themes, theme) }

func (r *recordingRender) SetLayoutClass(layout Layout) { r.layouts = append(r.layouts, layout) }

func (r *recordingRender) RenderTradeRow(trade dashboardapi.TradeRecord) {
	r.trades = append(r.trades, trade)
}

func (r *recordingRender) RenderPrice(price decimal.Decimal) {
	r.prices = append(r.prices, price)
}

func (r *recordingRender) RenderBalance(balance decimal.Decimal) {
	r.balances = append(r.balances, balance)
}

func (r *recordingRender) RenderBotStatus(status string) {
	r.statuses = append(r.statuses, status)
}

func (r *recordingRender) ShowNotification(n Notification) { r.shown = append(r.shown, n) }

func (r *recordingRender) DismissNotification(id string) { r.dismissed = append(r.dismissed, id) }

// serialDispatch serializes ops under a mutex so tests can exercise timer
// expiries without racing the assertions.
type serialDispatch struct {
	mu sync.Mutex
}

func (s *serialDispatch) dispatch(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f()
}

// run executes test code under the same serialization as dispatched ops.
func (s *serialDispatch) run(f func()) {
	s.dispatch(f)
}

// memStore is an in-memory PrefStore.
type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *memStore) Set(key, value string) {
	s.values[key] = value
}

// fakeSignal is a controllable ThemeSignal.
type fakeSignal struct {
	current Theme
	fns     map[int]func(Theme)
	next    int
	cancels int
}

func newFakeSignal(current Theme) *fakeSignal {
	return &fakeSignal{
		current: current,
		fns:     make(map[int]func(Theme)),
	}
}

func (f *fakeSignal) Current() Theme {
	return f.current
}

func (f *fakeSignal) Subscribe(fn func(Theme)) func() {
	id := f.next
	f.next++
	f.fns[id] = fn
	return func() {
		if _, ok := f.fns[id]; ok {
			delete(f.fns, id)
			f.cancels++
		}
	}
}

func (f *fakeSignal) fire(t Theme) {
	f.current = t
	for _, fn := range f.fns {
		fn(t)
	}
}

func (f *fakeSignal) subscribers() int {
	return len(f.fns)
}

// fakeAlerter records mirrored alerts on a channel.
type fakeAlerter struct {
	ch chan string
}

func newFakeAlerter() *fakeAlerter {
	return &fakeAlerter{ch: make(chan string, 8)}
}

func (f *fakeAlerter) SendAlert(message string) {
	f.ch <- message
}

func mkTrade(symbol, side, price string) dashboardapi.TradeRecord {
	return dashboardapi.TradeRecord{
		Symbol:    symbol,
		Side:      side,
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.RequireFromString("1"),
		Status:    dashboardapi.TradeStatusFilled,
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}
