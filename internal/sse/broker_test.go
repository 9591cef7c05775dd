package sse

import (
	"strings"
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before event arrived")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestSubscribePublish(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.Publish(Event{Type: "ping", Data: map[string]string{"hello": "world"}})

	msg := recvEvent(t, ch)
	if !strings.HasPrefix(msg, "event: ping\n") {
		t.Errorf("msg = %q", msg)
	}
	if !strings.Contains(msg, `"hello":"world"`) {
		t.Errorf("payload missing: %q", msg)
	}
	if !strings.HasSuffix(msg, "\n\n") {
		t.Errorf("missing event terminator: %q", msg)
	}
}

func TestDocumentEvents(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()

	for _, tc := range []struct {
		kind string
		want string
	}{
		{"created", "document.created"},
		{"updated", "document.updated"},
		{"deleted", "document.deleted"},
	} {
		b.PublishDocumentEvent(tc.kind, "a.jams")
		msg := recvEvent(t, ch)
		if !strings.Contains(msg, "event: "+tc.want+"\n") {
			t.Errorf("kind %s: msg = %q", tc.kind, msg)
		}
		if !strings.Contains(msg, `"path":"a.jams"`) {
			t.Errorf("kind %s: path missing: %q", tc.kind, msg)
		}
		if tc.kind == "created" {
			// The first document event also triggers a stats broadcast.
			stats := recvEvent(t, ch)
			if !strings.Contains(stats, "event: stats.updated\n") {
				t.Errorf("expected stats.updated, got %q", stats)
			}
		}
	}
}

func TestStatsThrottled(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()

	b.PublishDocumentEvent("created", "a.jams")
	b.PublishDocumentEvent("updated", "a.jams")
	b.PublishDocumentEvent("deleted", "a.jams")

	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, recvEvent(t, ch))
	}

	stats := 0
	for _, msg := range got {
		if strings.Contains(msg, "stats.updated") {
			stats++
		}
	}
	// Only the first document event within the throttle window emits stats.
	if stats != 1 {
		t.Errorf("stats events = %d, want 1 (messages: %q)", stats, got)
	}
}

func TestClientCount(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Errorf("initial count = %d", n)
	}

	a := b.Subscribe()
	c := b.Subscribe()
	if n := b.ClientCount(); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	b.Unsubscribe(a)
	if n := b.ClientCount(); n != 1 {
		t.Errorf("count after unsubscribe = %d, want 1", n)
	}
	b.Unsubscribe(c)
}

func TestCloseIsSafe(t *testing.T) {
	b := NewBroker(0)
	ch := b.Subscribe()

	b.Close()
	b.Close() // idempotent

	// Subscriber channels are closed on shutdown.
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel, got message")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after Close")
	}

	// Post-close operations are no-ops, not panics.
	b.Publish(Event{Type: "late"})
	b.PublishDocumentEvent("created", "x.jams")
	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("count after close = %d", n)
	}
	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}
