package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"perkakas/internal/models"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	// CatalogQueue receives every catalog event.
	CatalogQueue = "catalog_events"

	RoutingProductCreated = "product.created"
	RoutingCatalogSeeded  = "catalog.seeded"
)

// Event is the envelope published for catalog changes.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Product    *models.Product `json:"product,omitempty"`
	Inserted   *int            `json:"inserted,omitempty"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the catalog queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", zap.String("queue", CatalogQueue))

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		CatalogQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", CatalogQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishProductCreated announces a newly created product.
func (c *Client) PublishProductCreated(product models.Product) error {
	return c.publish(RoutingProductCreated, Event{
		Type:       RoutingProductCreated,
		OccurredAt: time.Now().UTC(),
		Product:    &product,
	})
}

// PublishCatalogSeeded announces that seeding inserted products.
func (c *Client) PublishCatalogSeeded(inserted int) error {
	return c.publish(RoutingCatalogSeeded, Event{
		Type:       RoutingCatalogSeeded,
		OccurredAt: time.Now().UTC(),
		Inserted:   &inserted,
	})
}

func (c *Client) publish(routingKey string, event Event) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}

	// default exchange routes by queue name, the event kind travels as Type
	err = c.channel.Publish(
		"",
		CatalogQueue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Type:         routingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", routingKey, err)
	}

	c.logger.Debug("catalog event published", zap.String("type", routingKey), zap.ByteString("body", body))
	return nil
}

// ConsumeCatalogEvents starts a goroutine that hands every catalog event to
// handler. Messages are acked when handler returns nil and requeued otherwise.
func (c *Client) ConsumeCatalogEvents(handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		CatalogQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()
	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(Event) error) {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		// undecodable messages would loop forever if requeued
		c.logger.Error("dropping malformed catalog event", zap.Uint64("tag", msg.DeliveryTag), zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("error nacking message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if err := handler(event); err != nil {
		c.logger.Warn("error processing catalog event", zap.Uint64("tag", msg.DeliveryTag), zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error("error nacking message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("error acking message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}

// LogEvent is a handler that records each catalog event in the log.
func LogEvent(logger *zap.Logger) func(Event) error {
	return func(event Event) error {
		fields := []zap.Field{zap.String("type", event.Type), zap.Time("occurred_at", event.OccurredAt)}
		if event.Product != nil {
			fields = append(fields, zap.String("product_id", event.Product.ID))
		}
		if event.Inserted != nil {
			fields = append(fields, zap.Int("inserted", *event.Inserted))
		}
		logger.Info("catalog event received", fields...)
		return nil
	}
}
