package feed

import (
	"context"
	"sync"
)

// Subscription is a live registration on a broker topic.
type Subscription struct {
	broker Broker
	topic  string
	qos    byte

	// refreshTopic is the request topic a Refresh publishes to.
	// Empty when the feed has no request channel.
	refreshTopic string

	once     sync.Once
	unsubErr error
}

// Refresh asks the publisher to re-emit its current state. The next
// emission arrives through the subscription's handler as usual.
func (s *Subscription) Refresh(ctx context.Context) error {
	if s.refreshTopic == "" {
		return ErrRefreshUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.broker.Publish(s.refreshTopic, []byte("{}"), s.qos, false)
}

// Unsubscribe releases the topic. Only the first call reaches the
// broker; repeat calls return the first call's result.
func (s *Subscription) Unsubscribe() error {
	s.once.Do(func() {
		s.unsubErr = s.broker.Unsubscribe(s.topic)
	})
	return s.unsubErr
}
