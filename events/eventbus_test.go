package events

import (
	"testing"
	"time"
)

// Test 1: Subscribers receive published events
func TestPublishSubscribe(t *testing.T) {
	eb := NewEventBus()
	id, ch := eb.Subscribe()
	if !eb.HasSubscriber(id) {
		t.Fatalf("subscriber not registered")
	}

	eb.Publish(NewBlockSealed(1, "00abc", 42, 3))

	select {
	case ev := <-ch:
		if ev.Type() != EventBlockSealed {
			t.Fatalf("got event type %s, want %s", ev.Type(), EventBlockSealed)
		}
		sealed := ev.(*BlockSealed)
		if sealed.Index != 1 || sealed.Nonce != 42 {
			t.Fatalf("event fields wrong: %+v", sealed)
		}
	case <-time.After(time.Second):
		t.Fatalf("event never delivered")
	}
}

// Test 2: Unsubscribe closes the channel and removes the subscriber
func TestUnsubscribe(t *testing.T) {
	eb := NewEventBus()
	id, ch := eb.Subscribe()

	if !eb.Unsubscribe(id) {
		t.Fatalf("Unsubscribe returned false for live subscriber")
	}
	if eb.HasSubscriber(id) {
		t.Fatalf("subscriber still registered")
	}
	if _, open := <-ch; open {
		t.Fatalf("channel not closed")
	}
	if eb.Unsubscribe(id) {
		t.Fatalf("Unsubscribe returned true for unknown subscriber")
	}
}

// Test 3: A full subscriber channel never blocks the publisher
func TestPublish_DropsWhenFull(t *testing.T) {
	eb := NewEventBus()
	_, ch := eb.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			eb.Publish(NewMiningProgress(1, uint64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publisher blocked on full subscriber channel")
	}

	if len(ch) != cap(ch) {
		t.Fatalf("expected full channel, got %d/%d", len(ch), cap(ch))
	}
}

// Test 4: Subscription counting
func TestGetTotalSubscriptions(t *testing.T) {
	eb := NewEventBus()
	if eb.GetTotalSubscriptions() != 0 {
		t.Fatalf("fresh bus has subscribers")
	}
	id1, _ := eb.Subscribe()
	eb.Subscribe()
	if eb.GetTotalSubscriptions() != 2 {
		t.Fatalf("want 2 subscribers, got %d", eb.GetTotalSubscriptions())
	}
	eb.Unsubscribe(id1)
	if eb.GetTotalSubscriptions() != 1 {
		t.Fatalf("want 1 subscriber, got %d", eb.GetTotalSubscriptions())
	}
}
