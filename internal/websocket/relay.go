package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/vikasavnish/hunterbot/internal/models"
)

const publishTimeout = 2 * time.Second

// Relay fans notifications out through a Redis channel so every server
// instance broadcasts them to its own hub.
type Relay struct {
	ctx     context.Context
	client  *redis.Client
	channel string
	hub     *Hub
	log     zerolog.Logger
}

// NewRelay creates a relay over an existing Redis client. Publishes are
// abandoned once ctx ends.
func NewRelay(ctx context.Context, client *redis.Client, channel string, hub *Hub, log zerolog.Logger) *Relay {
	return &Relay{
		ctx:     ctx,
		client:  client,
		channel: channel,
		hub:     hub,
		log:     log,
	}
}

// Publish sends msg to the Redis channel. If Redis rejects it the message is
// broadcast locally instead.
func (r *Relay) Publish(msg models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error().Err(err).Str("type", msg.Type).Msg("encode notification")
		return
	}

	ctx, cancel := context.WithTimeout(r.ctx, publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		r.log.Warn().Err(err).Str("channel", r.channel).Msg("redis publish failed, broadcasting locally")
		r.hub.Broadcast(msg)
	}
}

// Run forwards messages from the Redis channel to the hub until ctx ends
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	ch := sub.Channel()
	r.log.Info().Str("channel", r.channel).Msg("notification relay subscribed")

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg models.Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				r.log.Warn().Err(err).Msg("discarding malformed notification")
				continue
			}
			r.hub.Broadcast(msg)
		}
	}
}
