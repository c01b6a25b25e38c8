package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	"github.com/Harish01234/vahanseva/internal/domain/types"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/metrics"
	"github.com/Harish01234/vahanseva/pkg/rabbit"
)

const (
	RideExchange = "ride_topic"

	KeyRideAssigned = "ride.assigned"
	keyStatusPrefix = "ride.status."
)

// RideBroker publishes ride lifecycle events to the ride topic exchange.
type RideBroker struct {
	client *rabbit.RabbitMQ
}

func NewRideBroker(client *rabbit.RabbitMQ) (*RideBroker, error) {
	if err := client.Channel.ExchangeDeclare(
		RideExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("ride broker: declare exchange: %w", err)
	}

	return &RideBroker{client: client}, nil
}

func (b *RideBroker) PublishRideAssigned(ctx context.Context, msg models.RideAssignedMessage) error {
	const op = "RideBroker.PublishRideAssigned"

	body, err := json.Marshal(msg)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_ride_assigned")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	return b.publish(ctx, op, KeyRideAssigned, body)
}

func (b *RideBroker) PublishRideStatus(ctx context.Context, msg models.RideStatusMessage) error {
	const op = "RideBroker.PublishRideStatus"

	body, err := json.Marshal(msg)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_ride_status")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	key := keyStatusPrefix + msg.RideID.String()
	return b.publish(ctx, op, key, body)
}

func (b *RideBroker) publish(ctx context.Context, op, key string, body []byte) error {
	if err := b.client.EnsureConnection(ctx); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionRabbitConnectionClosed)
		return wrap.Error(ctx, fmt.Errorf("%s: connection unavailable: %w", op, err))
	}

	err := b.client.Channel.PublishWithContext(
		ctx,
		RideExchange,
		key,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	metrics.RecordRabbitMQPublish(types.ServiceName, key, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish: %w", op, err))
	}

	return nil
}
