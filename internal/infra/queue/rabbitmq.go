package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.leads"
	QueueName    = "q.lead_deliveries"
	DLQName      = "q.lead_deliveries.dlq"
	DLXName      = "ex.leads.dlx" // Dead Letter Exchange
	RoutingKey   = "k.delivery"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(user, pass, host, port string) (*RabbitMQ, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// setupTopology declara exchange, fila principal e DLQ.
// Mensagens rejeitadas (Nack sem requeue) caem na DLQ para
// inspeção manual em vez de sumirem.
func setupTopology(ch *amqp.Channel) error {
	// 1. Dead Letter Exchange + DLQ
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("falha ao declarar DLX: %w", err)
	}

	dlq, err := ch.QueueDeclare(DLQName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("falha ao declarar DLQ: %w", err)
	}

	if err := ch.QueueBind(dlq.Name, RoutingKey, DLXName, false, nil); err != nil {
		return fmt.Errorf("falha ao vincular DLQ: %w", err)
	}

	// 2. Exchange e fila principal, apontando para a DLX
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("falha ao declarar exchange: %w", err)
	}

	q, err := ch.QueueDeclare(QueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	})
	if err != nil {
		return fmt.Errorf("falha ao declarar fila: %w", err)
	}

	if err := ch.QueueBind(q.Name, RoutingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("falha ao vincular fila: %w", err)
	}

	return nil
}
