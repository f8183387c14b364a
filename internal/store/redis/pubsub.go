package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BoardEventsChannel returns the pub/sub channel carrying realtime events for
// one board room. Every server process subscribes for its locally connected
// clients, so fanout reaches all instances of a multi-process deployment.
func BoardEventsChannel(boardID uuid.UUID) string {
	return "board:" + boardID.String() + ":events"
}

func (s *Store) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Store.Publish: %w", err)
	}
	return nil
}

// Subscribe returns a channel of raw payloads published to the given channel
// and a cleanup func. The channel closes when ctx is done or cleanup is
// called.
func (s *Store) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := s.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.Store.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}
