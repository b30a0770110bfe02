package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"quizzler/internal/domain"
	"quizzler/internal/infra/memory"
)

const scoreboardChannel = "quizzler:scoreboard"

// Notifier fans scoreboard snapshots out through Redis pub/sub so every
// instance sharing the channel sees every update, including its own. Local
// delivery reuses the in-process hub: the subscription goroutine bridges
// incoming messages into it.
type Notifier struct {
	client *redis.Client
	hub    *memory.Hub
	pubsub *redis.PubSub
	logger *slog.Logger
}

func NewNotifier(ctx context.Context, client *redis.Client, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Notifier{
		client: client,
		hub:    memory.NewHub(),
		pubsub: client.Subscribe(ctx, scoreboardChannel),
		logger: logger,
	}
	go n.bridge(ctx)
	return n
}

func (n *Notifier) Publish(ctx context.Context, scoreboard domain.Scoreboard) {
	payload, err := json.Marshal(scoreboard)
	if err != nil {
		n.logger.Warn("marshal scoreboard snapshot failed", "error", err)
		return
	}
	if err := n.client.Publish(ctx, scoreboardChannel, payload).Err(); err != nil {
		n.logger.Warn("publish scoreboard snapshot failed", "error", err)
		// Keep local subscribers alive even when Redis is unreachable.
		n.hub.Publish(ctx, scoreboard)
	}
}

func (n *Notifier) Subscribe(ctx context.Context) (<-chan domain.Scoreboard, func()) {
	return n.hub.Subscribe(ctx)
}

// Close stops the pub/sub bridge.
func (n *Notifier) Close() error {
	return n.pubsub.Close()
}

func (n *Notifier) bridge(ctx context.Context) {
	for msg := range n.pubsub.Channel() {
		var scoreboard domain.Scoreboard
		if err := json.Unmarshal([]byte(msg.Payload), &scoreboard); err != nil {
			n.logger.Warn("drop malformed scoreboard message", "error", err)
			continue
		}
		n.hub.Publish(ctx, scoreboard)
	}
}
