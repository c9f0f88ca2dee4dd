package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Publisher fans paymentUpdate events out over a pub/sub channel; the
// storefront's socket gateway relays them to the user's browser.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	return &Publisher{rdb: rdb, channel: channel}
}

type paymentUpdateEvent struct {
	Event string               `json:"event"`
	Data  domain.PaymentUpdate `json:"data"`
}

func (p *Publisher) PublishPaymentUpdate(ctx context.Context, update domain.PaymentUpdate) error {
	payload, err := json.Marshal(paymentUpdateEvent{Event: "paymentUpdate", Data: update})
	if err != nil {
		return fmt.Errorf("marshal payment update: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish payment update: %w", err)
	}
	return nil
}
