package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/catalog-graph/internal/util"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// ConvertQueue receives conversion jobs.
const ConvertQueue = "convert_queue"

// Dial connects to RabbitMQ, retrying while the broker starts up.
func Dial(ctx context.Context, url string) (*amqp091.Connection, error) {
	conn, err := util.RetryWithContext(ctx, 5, time.Second, func(context.Context) (*amqp091.Connection, error) {
		conn, err := amqp091.Dial(url)
		if err != nil {
			logger.Warn("[Queue] Failed to connect to RabbitMQ, retrying", "err", err)
		}
		return conn, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// SetupQueues declares every queue together with its _dlq dead-letter queue
// and its _retry queue, which hands messages back after ten seconds.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	for _, name := range queueNames {
		for _, q := range queueDeclarations(name) {
			if _, err := ch.QueueDeclare(q.name, true, false, false, false, q.args); err != nil {
				return fmt.Errorf("failed to declare queue %s: %w", q.name, err)
			}
		}
	}
	return nil
}

type queueDeclaration struct {
	name string
	args amqp091.Table
}

func queueDeclarations(name string) []queueDeclaration {
	return []queueDeclaration{
		{name: name},
		{name: name + "_dlq"},
		{
			name: name + "_retry",
			args: amqp091.Table{
				"x-message-ttl":             int32(10000),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		},
	}
}

// Publisher is the publishing side of an AMQP channel.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

func PublishFIFO(ch Publisher, queueName string, data []byte) error {
	return ch.Publish("", queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}
