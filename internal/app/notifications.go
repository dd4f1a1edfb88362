package app

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationKind classifies user-visible notifications.
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient user-visible message. It is removed when its
// TTL elapses or when explicitly dismissed, whichever comes first.
type Notification struct {
	ID        string
	Message   string
	Kind      NotificationKind
	CreatedAt time.Time
	TTL       time.Duration
}

// NotificationAlerter mirrors a notification to an out-of-band channel.
// Satisfied by the Discord alerter.
type NotificationAlerter interface {
	SendAlert(message string)
}

// NotificationQueue holds the active notifications. It is single-writer: all
// mutation happens on the engine dispatch loop, with timer expiries routed
// back through the dispatch func.
type NotificationQueue struct {
	logger     *zap.Logger
	render     RenderTarget
	alerter    NotificationAlerter
	dispatch   func(func())
	defaultTTL time.Duration

	active map[string]*queuedNotification
}

type queuedNotification struct {
	notification Notification
	expiry       *time.Timer
}

func NewNotificationQueue(
	logger *zap.Logger,
	render RenderTarget,
	alerter NotificationAlerter,
	defaultTTL time.Duration,
	dispatch func(func()),
) *NotificationQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Second
	}
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}

	return &NotificationQueue{
		logger:     logger,
		render:     render,
		alerter:    alerter,
		dispatch:   dispatch,
		defaultTTL: defaultTTL,
		active:     make(map[string]*queuedNotification),
	}
}

// Enqueue adds a notification and schedules its removal after ttl (the
// default TTL when ttl <= 0). Error notifications are additionally mirrored
// to the alerter. Returns the notification ID for Dismiss.
func (q *NotificationQueue) Enqueue(message string, kind NotificationKind, ttl time.Duration) string {
	if ttl <= 0 {
		ttl = q.defaultTTL
	}

	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}

	entry := &queuedNotification{notification: n}
	entry.expiry = time.AfterFunc(ttl, func() {
		q.dispatch(func() { q.expire(n.ID) })
	})
	q.active[n.ID] = entry

	if q.render != nil {
		q.render.ShowNotification(n)
	}

	if kind == NotificationError && q.alerter != nil {
		go q.alerter.SendAlert(message)
	}

	return n.ID
}

// Dismiss removes a notification immediately and cancels its pending expiry
// so the removal cannot fire twice. Unknown IDs are a no-op.
func (q *NotificationQueue) Dismiss(id string) {
	entry, ok := q.active[id]
	if !ok {
		return
	}

	entry.expiry.Stop()
	delete(q.active, id)

	if q.render != nil {
		q.render.DismissNotification(id)
	}
}

// expire removes a notification whose TTL elapsed. If it was dismissed in the
// meantime the entry is already gone and this is a no-op.
func (q *NotificationQueue) expire(id string) {
	if _, ok := q.active[id]; !ok {
		return
	}

	delete(q.active, id)

	if q.render != nil {
		q.render.DismissNotification(id)
	}
}

// Active returns the notifications currently shown.
func (q *NotificationQueue) Active() []Notification {
	out := make([]Notification, 0, len(q.active))
	for _, entry := range q.active {
		out = append(out, entry.notification)
	}
	return out
}

// Len returns the number of active notifications.
func (q *NotificationQueue) Len() int {
	return len(q.active)
}

// Stop cancels all pending expiries. Used on shutdown.
func (q *NotificationQueue) Stop() {
	for id, entry := range q.active {
		entry.expiry.Stop()
		delete(q.active, id)
	}
}
