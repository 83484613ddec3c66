package bus

import (
	"testing"
	"time"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev := <-sub.Ch():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe(TopicStateSaved)
	defer b.Unsubscribe(sub)

	b.Publish(TopicStateSaved, 42)

	ev := receive(t, sub)
	if ev.Topic != TopicStateSaved {
		t.Errorf("topic: got %q", ev.Topic)
	}
	if ev.Payload != 42 {
		t.Errorf("payload: got %v", ev.Payload)
	}
}

func TestPrefixMatching(t *testing.T) {
	b := New()
	quotaSub := b.Subscribe("quota.")
	allSub := b.Subscribe("")
	defer b.Unsubscribe(quotaSub)
	defer b.Unsubscribe(allSub)

	b.Publish(TopicQuotaWarning, nil)
	b.Publish(TopicStateChanged, nil)

	if ev := receive(t, quotaSub); ev.Topic != TopicQuotaWarning {
		t.Errorf("quota sub got %q", ev.Topic)
	}
	select {
	case ev := <-quotaSub.Ch():
		t.Errorf("quota sub should not see %q", ev.Topic)
	default:
	}

	if ev := receive(t, allSub); ev.Topic != TopicQuotaWarning {
		t.Errorf("all sub first event: %q", ev.Topic)
	}
	if ev := receive(t, allSub); ev.Topic != TopicStateChanged {
		t.Errorf("all sub second event: %q", ev.Topic)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe("")
	b.Unsubscribe(sub)

	if _, ok := <-sub.Ch(); ok {
		t.Error("channel should be closed after unsubscribe")
	}
	if got := b.SubscriberCount(); got != 0 {
		t.Errorf("subscriber count: got %d", got)
	}

	// Double unsubscribe must not panic.
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)
}

func TestPublishNeverBlocks(t *testing.T) {
	b := New()
	sub := b.Subscribe("")
	defer b.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Nothing drains the subscription; publishes past the buffer are
		// dropped instead of blocking.
		for i := 0; i < defaultBufferSize*2; i++ {
			b.Publish(TopicStateChanged, i)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
