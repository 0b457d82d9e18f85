package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует уведомления в durable-очередь RabbitMQ
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
	log     Logger
}

// NewPublisher подключается к брокеру и объявляет очередь уведомлений
func NewPublisher(url, queue string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare queue %s: %v", ErrConnect, queue, err)
	}

	return &Publisher{conn: conn, channel: ch, queue: queue, log: log}, nil
}

// Publish отправляет сообщение. Ошибка возвращается вызывающему,
// бронирование от неё не откатывается
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.OccurredAt,
		Type:         string(msg.Template),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Error("Notification: publish %s for booking=%d failed: %v", msg.Template, msg.BookingID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("Notification: published %s for booking=%d", msg.Template, msg.BookingID)
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher пишет уведомления в лог. Используется, когда RabbitMQ выключен
type LogPublisher struct {
	log Logger
}

// NewLogPublisher создает публикатор, пишущий в лог
func NewLogPublisher(log Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish логирует сообщение
func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.log.Info("Notification: %s booking=%d session=%d email=%s", msg.Template, msg.BookingID, msg.SessionID, msg.ClientEmail)
	return nil
}

// Close ничего не делает
func (p *LogPublisher) Close() error {
	return nil
}
