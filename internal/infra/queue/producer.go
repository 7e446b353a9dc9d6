package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadDeliveryPayload é a mensagem que atravessa a fila: o webhook
// recebido, já com um ID de evento atribuído na borda HTTP.
type LeadDeliveryPayload struct {
	EventID     string `json:"event_id"`
	Phone       string `json:"phone"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Source      string `json:"source,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Responsible string `json:"responsible,omitempty"`
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{Conn: conn, Ch: ch}
}

// PublishDelivery publica o pedido de criação de lead na fila.
// Mensagem persistente: sobrevive a restart do broker.
func (p *Producer) PublishDelivery(ctx context.Context, payload LeadDeliveryPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar payload: %w", err)
	}

	err = p.Ch.PublishWithContext(
		ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    payload.EventID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("erro ao publicar na fila: %w", err)
	}

	log.Printf("📤 Evento %s publicado na fila (telefone %s)", payload.EventID, payload.Phone)
	return nil
}
