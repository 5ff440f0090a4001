package metadata

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nerrad567/flotilla/internal/infrastructure/logging"
)

// chanPublisher delivers every publish to a channel so tests can wait
// for the asynchronous loop without sleeping.
type chanPublisher struct {
	msgs chan publishedMsg
	err  error
}

type publishedMsg struct {
	topic   string
	payload []byte
}

func newChanPublisher() *chanPublisher {
	return &chanPublisher{msgs: make(chan publishedMsg, 16)}
}

func (p *chanPublisher) Publish(topic string, payload []byte, _ byte, _ bool) error {
	p.msgs <- publishedMsg{topic: topic, payload: payload}
	return p.err
}

func (p *chanPublisher) next(t *testing.T) publishedMsg {
	t.Helper()
	select {
	case msg := <-p.msgs:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for publish")
		return publishedMsg{}
	}
}

func startRefresher(t *testing.T, publisher Publisher, queueSize int) *Refresher {
	t.Helper()

	r := New(publisher, 1, queueSize, logging.Default())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	t.Cleanup(func() {
		cancel()
		r.Stop()
	})

	return r
}

func TestRefresher_PublishesRequest(t *testing.T) {
	publisher := newChanPublisher()
	r := startRefresher(t, publisher, 8)

	r.Enqueue("kitchen.yaml")

	msg := publisher.next(t)
	if msg.topic != "flotilla/metadata/request" {
		t.Errorf("unexpected topic %q", msg.topic)
	}

	var req struct {
		Configuration string `json:"configuration"`
	}
	if err := json.Unmarshal(msg.payload, &req); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if req.Configuration != "kitchen.yaml" {
		t.Errorf("unexpected configuration %q", req.Configuration)
	}
}

func TestRefresher_EmptyConfigurationIgnored(t *testing.T) {
	publisher := newChanPublisher()
	r := startRefresher(t, publisher, 8)

	r.Enqueue("")

	if r.PendingCount() != 0 {
		t.Error("empty configuration must not be queued")
	}
}

func TestRefresher_DeduplicatesPending(t *testing.T) {
	publisher := newChanPublisher()

	// Not started, so submissions stay queued and duplicates are
	// visible in the pending count.
	r := New(publisher, 1, 8, logging.Default())

	r.Enqueue("kitchen.yaml")
	r.Enqueue("kitchen.yaml")
	r.Enqueue("garage.yaml")

	if got := r.PendingCount(); got != 2 {
		t.Errorf("expected 2 pending, got %d", got)
	}
}

func TestRefresher_FullQueueDrops(t *testing.T) {
	publisher := newChanPublisher()

	r := New(publisher, 1, 1, logging.Default())

	r.Enqueue("a.yaml")
	r.Enqueue("b.yaml")
	r.Enqueue("c.yaml")

	// Only the first fits; the overflow submissions are dropped and
	// removed from pending so they can be retried next cycle.
	if got := r.PendingCount(); got != 1 {
		t.Errorf("expected 1 pending, got %d", got)
	}
}

func TestRefresher_StopWithoutContextCancel(t *testing.T) {
	publisher := newChanPublisher()

	// Stop must terminate the loop on its own. The startup error paths
	// in cmd/flotilla reach the deferred Stop while the signal context
	// is still live.
	r := New(publisher, 1, 8, logging.Default())
	r.Start(context.Background())

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return with an uncancelled parent context")
	}
}

func TestRefresher_ResubmitAfterPublish(t *testing.T) {
	publisher := newChanPublisher()
	r := startRefresher(t, publisher, 8)

	r.Enqueue("kitchen.yaml")
	publisher.next(t)

	// Wait for pending to clear, then the same configuration may be
	// requested again.
	deadline := time.Now().Add(2 * time.Second)
	for r.PendingCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("pending set never cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	r.Enqueue("kitchen.yaml")
	publisher.next(t)
}
