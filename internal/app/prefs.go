package app

import (
	"strconv"

	"go.uber.org/zap"
)

// Theme is a color scheme selection. Auto follows the system signal.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ParseTheme reports whether s names a known theme.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark, ThemeAuto:
		return Theme(s), true
	}
	return "", false
}

// Layout is a dashboard arrangement mode.
type Layout string

const (
	LayoutGrid    Layout = "grid"
	LayoutList    Layout = "list"
	LayoutCompact Layout = "compact"
)

func ParseLayout(s string) (Layout, bool) {
	switch Layout(s) {
	case LayoutGrid, LayoutList, LayoutCompact:
		return Layout(s), true
	}
	return "", false
}

// View is a top-level dashboard section.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewTrades    View = "trades"
	ViewAnalytics View = "analytics"
	ViewSettings  View = "settings"
)

func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewDashboard, ViewTrades, ViewAnalytics, ViewSettings:
		return View(s), true
	}
	return "", false
}

// Preferences is the in-memory image of the persisted user preferences.
type Preferences struct {
	Theme          Theme  `json:"theme"`
	Layout         Layout `json:"layout"`
	ActiveView     View   `json:"active_view"`
	RefreshSeconds uint   `json:"refresh_seconds"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          ThemeLight,
		Layout:         LayoutGrid,
		ActiveView:     ViewDashboard,
		RefreshSeconds: 0,
	}
}

// PrefController owns the preference lifecycle: restoring saved selections at
// startup and applying user selections, each applied to the render target
// first and then written through to the store. Single-writer, driven from the
// engine dispatch loop.
type PrefController struct {
	logger    *zap.Logger
	store     PrefStore
	render    RenderTarget
	signal    ThemeSignal
	scheduler *RefreshScheduler
	loadView  func(View)

	prefs       Preferences
	unsubscribe func()
}

func NewPrefController(
	logger *zap.Logger,
	store PrefStore,
	render RenderTarget,
	signal ThemeSignal,
	scheduler *RefreshScheduler,
	loadView func(View),
) *PrefController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loadView == nil {
		loadView = func(View) {}
	}
	return &PrefController{
		logger:    logger,
		store:     store,
		render:    render,
		signal:    signal,
		scheduler: scheduler,
		loadView:  loadView,
		prefs:     DefaultPreferences(),
	}
}

// Initialize restores saved preferences, falling back to defaults for any
// that are missing or unrecognized, and applies each through the same path
// as a live user selection.
func (p *PrefController) Initialize() {
	p.prefs = DefaultPreferences()

	theme := p.prefs.Theme
	if v, ok := p.store.Get(PrefKeyTheme); ok {
		if parsed, valid := ParseTheme(v); valid {
			theme = parsed
		} else {
			p.logger.Warn("saved theme unrecognized, using default", zap.String("value", v))
		}
	}
	p.SwitchTheme(theme)

	layout := p.prefs.Layout
	if v, ok := p.store.Get(PrefKeyLayout); ok {
		if parsed, valid := ParseLayout(v); valid {
			layout = parsed
		} else {
			p.logger.Warn("saved layout unrecognized, using default", zap.String("value", v))
		}
	}
	p.SwitchLayout(layout)

	view := p.prefs.ActiveView
	if v, ok := p.store.Get(PrefKeyView); ok {
		if parsed, valid := ParseView(v); valid {
			view = parsed
		} else {
			p.logger.Warn("saved view unrecognized, using default", zap.String("value", v))
		}
	}
	// Clear the sentinel so restoring the default view still counts as a
	// change and triggers the initial data load.
	p.prefs.ActiveView = ""
	p.SwitchView(view)

	seconds := p.prefs.RefreshSeconds
	if v, ok := p.store.Get(PrefKeyRefreshRate); ok {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			seconds = uint(parsed)
		} else {
			p.logger.Warn("saved refresh rate unrecognized, using default", zap.String("value", v))
		}
	}
	p.SetRefreshRate(seconds)
}

// SwitchTheme applies a theme selection. Auto resolves through the system
// signal and tracks future signal changes; an explicit theme stops tracking
// the signal entirely. The persisted value is the user's selection, so auto
// survives restarts as auto.
func (p *PrefController) SwitchTheme(theme Theme) {
	switch theme {
	case ThemeAuto:
		p.cancelSignal()
		resolved := p.signal.Current()
		if resolved != ThemeLight && resolved != ThemeDark {
			resolved = ThemeLight
		}
		p.render.SetThemeTokens(resolved)
		p.unsubscribe = p.signal.Subscribe(func(t Theme) {
			if t != ThemeLight && t != ThemeDark {
				return
			}
			p.render.SetThemeTokens(t)
		})
	case ThemeLight, ThemeDark:
		p.cancelSignal()
		p.render.SetThemeTokens(theme)
	default:
		p.logger.Warn("ignoring unknown theme", zap.String("theme", string(theme)))
		return
	}

	p.prefs.Theme = theme
	p.store.Set(PrefKeyTheme, string(theme))
}

func (p *PrefController) cancelSignal() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// SwitchView activates a dashboard section. The section's data load only
// runs when the view actually changed, so repeated switches to the current
// view are cheap no-ops apart from the render call.
func (p *PrefController) SwitchView(view View) {
	if _, valid := ParseView(string(view)); !valid {
		p.logger.Warn("ignoring unknown view", zap.String("view", string(view)))
		return
	}

	changed := view != p.prefs.ActiveView

	p.render.SetActiveView(view)
	p.prefs.ActiveView = view
	p.store.Set(PrefKeyView, string(view))

	if changed {
		p.loadView(view)
	}
}

// SwitchLayout applies a dashboard layout mode.
func (p *PrefController) SwitchLayout(layout Layout) {
	if _, valid := ParseLayout(string(layout)); !valid {
		p.logger.Warn("ignoring unknown layout", zap.String("layout", string(layout)))
		return
	}

	p.render.SetLayoutClass(layout)
	p.prefs.Layout = layout
	p.store.Set(PrefKeyLayout, string(layout))
}

// SetRefreshRate arms the periodic refresh at the given interval in seconds
// and persists it. Zero disarms.
func (p *PrefController) SetRefreshRate(seconds uint) {
	if p.scheduler != nil {
		p.scheduler.SetRate(seconds)
	}
	p.prefs.RefreshSeconds = seconds
	p.store.Set(PrefKeyRefreshRate, strconv.FormatUint(uint64(seconds), 10))
}

// Preferences returns the current in-memory preference image.
func (p *PrefController) Preferences() Preferences {
	return p.prefs
}
