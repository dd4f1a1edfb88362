package app

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestEnqueue_DefaultTTL(t *testing.T) {
	render := &recordingRender{}
	q := NewNotificationQueue(zap.NewNop(), render, nil, time.Minute, nil)

	id := q.Enqueue("hello", NotificationInfo, 0)

	if id == "" {
		t.Fatal("expected non-empty notification id")
	}
	if len(render.shown) != 1 {
		t.Fatalf("expected notification shown, got %d", len(render.shown))
	}
	if render.shown[0].TTL != time.Minute {
		t.Errorf("expected default TTL %v, got %v", time.Minute, render.shown[0].TTL)
	}
	if q.Len() != 1 {
		t.Errorf("expected one active notification, got %d", q.Len())
	}
}

func TestExpiry_RemovesAfterTTL(t *testing.T) {
	sd := &serialDispatch{}
	render := &recordingRender{}
	q := NewNotificationQueue(zap.NewNop(), render, nil, time.Minute, sd.dispatch)

	var id string
	sd.run(func() { id = q.Enqueue("short lived", NotificationInfo, 30*time.Millisecond) })

	time.Sleep(150 * time.Millisecond)

	sd.run(func() {
		if q.Len() != 0 {
			t.Errorf("expected notification expired, %d still active", q.Len())
		}
		if len(render.dismissed) != 1 || render.dismissed[0] != id {
			t.Errorf("expected dismiss of %s, got %v", id, render.dismissed)
		}
	})
}

func TestDismiss_CancelsExpiry(t *testing.T) {
	sd := &serialDispatch{}
	render := &recordingRender{}
	q := NewNotificationQueue(zap.NewNop(), render, nil, time.Minute, sd.dispatch)

	sd.run(func() {
		id := q.Enqueue("dismiss me", NotificationInfo, 50*time.Millisecond)
		q.Dismiss(id)
	})

	time.Sleep(150 * time.Millisecond)

	sd.run(func() {
		if q.Len() != 0 {
			t.Errorf("expected no active notifications, got %d", q.Len())
		}
		// The canceled expiry must not produce a second dismissal.
		if len(render.dismissed) != 1 {
			t.Errorf("expected exactly one dismissal, got %d", len(render.dismissed))
		}
	})
}

func TestDismiss_UnknownIDNoOp(t *testing.T) {
	render := &recordingRender{}
	q := NewNotificationQueue(zap.NewNop(), render, nil, time.Minute, nil)

	q.Dismiss("no-such-id")

	if len(render.dismissed) != 0 {
		t.Errorf("expected no dismissals, got %d", len(render.dismissed))
	}
}

func TestEnqueue_ErrorKindMirrorsToAlerter(t *testing.T) {
	alerter := newFakeAlerter()
	q := NewNotificationQueue(zap.NewNop(), &recordingRender{}, alerter, time.Minute, nil)

	q.Enqueue("something broke", NotificationError, 0)

	select {
	case msg := <-alerter.ch:
		if msg != "something broke" {
			t.Errorf("expected alert %q, got %q", "something broke", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for mirrored alert")
	}
}

func TestEnqueue_InfoKindNotMirrored(t *testing.T) {
	alerter := newFakeAlerter()
	q := NewNotificationQueue(zap.NewNop(), &recordingRender{}, alerter, time.Minute, nil)

	q.Enqueue("just info", NotificationInfo, 0)

	select {
	case msg := <-alerter.ch:
		t.Errorf("unexpected alert for info notification: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStop_CancelsAll(t *testing.T) {
	q := NewNotificationQueue(zap.NewNop(), &recordingRender{}, nil, time.Minute, nil)

	q.Enqueue("a", NotificationInfo, 0)
	q.Enqueue("b", NotificationInfo, 0)
	q.Stop()

	if q.Len() != 0 {
		t.Errorf("expected empty queue after Stop, got %d", q.Len())
	}
}
