package app

import (
	"context"
	"runtime"
	"time"

	"dashpulse/clients"
	"dashpulse/clients/dashboardapi"
	"dashpulse/clients/livechannel"
	"dashpulse/config"

	"go.uber.org/zap"
)

// Engine is the dashboard runtime. All state mutation happens on its single
// dispatch loop: live-channel frames, poll results, timer expiries, and user
// actions are all funneled through the ops channel, so the merger, queue, and
// preference controller never need their own locking.
type Engine struct {
	logger *zap.Logger
	cfg    *config.Config
	c      *clients.Clients
	render RenderTarget
	signal ThemeSignal

	ops chan func()

	store     PrefStore
	queue     *NotificationQueue
	merger    *Merger
	scheduler *RefreshScheduler
	prefs     *PrefController

	viewLoads    map[View]bool
	analytics    *dashboardapi.Analytics
	botSettings  map[string]string
	channelState livechannel.State
	pollInflight bool
	pollCount    uint64
	startTime    time.Time

	ctx context.Context
}

func NewEngine(
	logger *zap.Logger,
	cfg *config.Config,
	c *clients.Clients,
	render RenderTarget,
	signal ThemeSignal,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		logger:    logger,
		cfg:       cfg,
		c:         c,
		render:    render,
		signal:    signal,
		ops:       make(chan func(), 128),
		viewLoads: make(map[View]bool),
	}

	e.store = NewFilePrefStore(logger, cfg.Prefs.FilePath)
	e.queue = NewNotificationQueue(logger, render, alerterFor(c), cfg.Notifications.DefaultTTL, e.do)
	e.merger = NewMerger(logger, render, e.queue)
	e.scheduler = NewRefreshScheduler(logger, e.refreshTick)
	e.prefs = NewPrefController(
		logger,
		e.store,
		render,
		&dispatchedSignal{signal: signal, dispatch: e.do},
		e.scheduler,
		e.loadView,
	)

	return e
}

func alerterFor(c *clients.Clients) NotificationAlerter {
	if c == nil || c.Discord == nil || !c.Discord.Enabled() {
		return nil
	}
	return c.Discord
}

// dispatchedSignal wraps a ThemeSignal so subscription callbacks run on the
// engine loop instead of whatever goroutine the signal fires from.
type dispatchedSignal struct {
	signal   ThemeSignal
	dispatch func(func())
}

func (d *dispatchedSignal) Current() Theme {
	return d.signal.Current()
}

func (d *dispatchedSignal) Subscribe(fn func(Theme)) func() {
	return d.signal.Subscribe(func(t Theme) {
		d.dispatch(func() { fn(t) })
	})
}

// do posts an op to the dispatch loop. Ops are dropped with a warning rather
// than blocking the caller if the loop falls far behind.
func (e *Engine) do(f func()) {
	select {
	case e.ops <- f:
	default:
		e.logger.Warn("dispatch queue full, dropping op")
	}
}

// Run drives the engine until ctx is canceled: restore preferences, start the
// live channel, and loop over frames, state changes, poll ticks, and
// dispatched ops.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	e.startTime = time.Now()

	var statusSrv *statusServer
	if e.cfg.StatusServer.Enabled {
		statusSrv = newStatusServer(e.logger, e.cfg.StatusServer.Port, e)
		statusSrv.Start()
	}

	e.prefs.Initialize()

	go e.c.Live.Run(ctx)

	pollTicker := time.NewTicker(e.cfg.Poll.Interval)
	defer pollTicker.Stop()

	e.logger.Info("engine running",
		zap.Duration("poll_interval", e.cfg.Poll.Interval),
		zap.String("live_channel", e.cfg.LiveChannel.URL),
	)

	for {
		select {
		case <-ctx.Done():
			e.shutdown(statusSrv)
			return nil

		case f := <-e.ops:
			f()

		case raw := <-e.c.Live.Frames():
			e.handleFrame(raw)

		case state := <-e.c.Live.States():
			e.handleState(state)

		case <-pollTicker.C:
			e.startPoll()
		}
	}
}

func (e *Engine) shutdown(statusSrv *statusServer) {
	e.logger.Info("engine shutting down")

	e.scheduler.Stop()
	e.queue.Stop()
	e.c.Live.Close()

	if statusSrv != nil {
		statusSrv.Stop()
	}
	if e.c.Discord != nil {
		if err := e.c.Discord.Close(); err != nil {
			e.logger.Warn("failed to close discord session", zap.Error(err))
		}
	}
}

// handleFrame decodes and merges one live-channel frame. Malformed frames are
// dropped with a log line; unknown message types are ignored silently apart
// from a debug line.
func (e *Engine) handleFrame(raw []byte) {
	msg, err := DecodeInbound(raw)
	if err != nil {
		e.logger.Warn("dropping malformed frame", zap.Error(err))
		return
	}
	e.merger.ApplyMessage(msg)
}

// handleState reacts to live-channel lifecycle transitions. Entering the
// degraded state surfaces an error notification; recovering to open after
// degradation surfaces the recovery.
func (e *Engine) handleState(state livechannel.State) {
	prev := e.channelState
	e.channelState = state

	e.logger.Info("live channel state",
		zap.String("from", prev.String()),
		zap.String("to", state.String()),
	)

	switch {
	case state == livechannel.StateDegraded && prev != livechannel.StateDegraded:
		e.queue.Enqueue("Live channel degraded, polling fallback active", NotificationError, 0)
	case state == livechannel.StateOpen && prev == livechannel.StateDegraded:
		e.queue.Enqueue("Live channel restored", NotificationSuccess, 0)
	}
}

// startPoll kicks off one snapshot fetch unless the previous one is still in
// flight. The poll cadence is fixed and independent of channel health.
func (e *Engine) startPoll() {
	if e.pollInflight {
		e.logger.Debug("skipping poll, previous still in flight")
		return
	}
	e.pollInflight = true

	go func() {
		snap, err := e.c.Dashboard.GetDashboardData(e.ctx)
		e.do(func() {
			e.pollInflight = false
			e.pollCount++
			if err != nil {
				e.logger.Warn("poll failed", zap.Error(err))
				return
			}
			e.merger.ApplySnapshot(snap)
		})
	}()
}

// refreshTick is the scheduler callback for the user-configured refresh. A
// failed fetch logs and leaves the schedule armed.
func (e *Engine) refreshTick() {
	go func() {
		snap, err := e.c.Dashboard.GetDashboardData(e.ctx)
		e.do(func() {
			if err != nil {
				e.logger.Warn("scheduled refresh failed", zap.Error(err))
				return
			}
			e.merger.ApplySnapshot(snap)
			e.queue.Enqueue("Dashboard refreshed", NotificationSuccess, 0)
		})
	}()
}

// loadView fetches the data backing a view. At most one load per view runs at
// a time; fetch errors surface as error notifications but never unwind the
// view switch itself.
func (e *Engine) loadView(view View) {
	if e.viewLoads[view] {
		e.logger.Debug("view load already in flight", zap.String("view", string(view)))
		return
	}
	e.viewLoads[view] = true

	switch view {
	case ViewDashboard:
		go func() {
			snap, err := e.c.Dashboard.GetDashboardData(e.ctx)
			e.do(func() {
				delete(e.viewLoads, view)
				if err != nil {
					e.loadFailed(view, err)
					return
				}
				e.merger.ApplySnapshot(snap)
			})
		}()

	case ViewTrades:
		go func() {
			trades, err := e.c.Dashboard.GetTradeHistory(e.ctx)
			e.do(func() {
				delete(e.viewLoads, view)
				if err != nil {
					e.loadFailed(view, err)
					return
				}
				for _, trade := range trades {
					e.render.RenderTradeRow(trade)
				}
			})
		}()

	case ViewAnalytics:
		go func() {
			analytics, err := e.c.Dashboard.GetAnalytics(e.ctx)
			e.do(func() {
				delete(e.viewLoads, view)
				if err != nil {
					e.loadFailed(view, err)
					return
				}
				e.analytics = analytics
			})
		}()

	case ViewSettings:
		go func() {
			settings, err := e.c.Dashboard.GetSettings(e.ctx)
			e.do(func() {
				delete(e.viewLoads, view)
				if err != nil {
					e.loadFailed(view, err)
					return
				}
				e.botSettings = settings
			})
		}()
	}
}

func (e *Engine) loadFailed(view View, err error) {
	e.logger.Warn("view data load failed",
		zap.String("view", string(view)),
		zap.Error(err),
	)
	e.queue.Enqueue("Failed to load "+string(view)+" data", NotificationError, 0)
}

// User-facing actions. Each posts onto the dispatch loop so callers on any
// goroutine stay safe.

func (e *Engine) SwitchTheme(theme Theme) {
	e.do(func() { e.prefs.SwitchTheme(theme) })
}

func (e *Engine) SwitchView(view View) {
	e.do(func() { e.prefs.SwitchView(view) })
}

func (e *Engine) SwitchLayout(layout Layout) {
	e.do(func() { e.prefs.SwitchLayout(layout) })
}

func (e *Engine) SetRefreshRate(seconds uint) {
	e.do(func() { e.prefs.SetRefreshRate(seconds) })
}

func (e *Engine) DismissNotification(id string) {
	e.do(func() { e.queue.Dismiss(id) })
}

// EngineStats is a point-in-time snapshot of engine health.
type EngineStats struct {
	Uptime string `json:"uptime"`

	ChannelState    string `json:"channel_state"`
	ChannelMessages uint64 `json:"channel_messages"`
	ChannelRecon    uint64 `json:"channel_reconnects"`

	WindowLen int `json:"window_len"`
	WindowCap int `json:"window_cap"`

	Polls               uint64 `json:"polls"`
	RefreshRateSeconds  uint   `json:"refresh_rate_seconds"`
	ActiveNotifications int    `json:"active_notifications"`
	DiscordEnabled      bool   `json:"discord_enabled"`

	Preferences Preferences `json:"preferences"`

	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
}

// Stats gathers a snapshot via the dispatch loop. Falls back to a partial
// snapshot if the loop does not answer in time.
func (e *Engine) Stats() EngineStats {
	reply := make(chan EngineStats, 1)
	e.do(func() { reply <- e.snapshotStats() })

	select {
	case s := <-reply:
		return s
	case <-time.After(2 * time.Second):
		return EngineStats{Uptime: time.Since(e.startTime).Round(time.Second).String()}
	}
}

func (e *Engine) snapshotStats() EngineStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	live := e.c.Live.Stats()

	return EngineStats{
		Uptime: time.Since(e.startTime).Round(time.Second).String(),

		ChannelState:    live.State.String(),
		ChannelMessages: live.MessageCount,
		ChannelRecon:    live.Reconnects,

		WindowLen: len(e.merger.Window()),
		WindowCap: ActivityWindowCap,

		Polls:               e.pollCount,
		RefreshRateSeconds:  e.scheduler.Rate(),
		ActiveNotifications: e.queue.Len(),
		DiscordEnabled:      e.c.Discord != nil && e.c.Discord.Enabled(),

		Preferences: e.prefs.Preferences(),

		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  mem.HeapAlloc,
		NumGC:      mem.NumGC,
		GoVersion:  runtime.Version(),
	}
}
