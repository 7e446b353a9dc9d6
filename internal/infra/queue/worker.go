package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// LeadCreator é o contrato do worker com o fluxo de criação.
type LeadCreator interface {
	Execute(ctx context.Context, input usecase.CreateLeadInput) (*usecase.CreateLeadOutput, error)
}

// AlertSender avisa o operador quando uma entrega falha de vez.
type AlertSender interface {
	SendDeliveryAlert(phone, errKind, detail string) error
}

// MetadataResolver traduz os nomes que chegam no webhook (responsável,
// campos de email/comentário) para os IDs numéricos do CRM.
type MetadataResolver interface {
	FieldID(entity, name string) (int, error)
	UserID(name string) (int, error)
}

// Nomes dos campos de lead que o webhook enriquece, como aparecem
// na conta do CRM (o lookup não diferencia maiúsculas).
const (
	emailFieldName   = "Email"
	commentFieldName = "Comentário"
)

type Worker struct {
	Channel  *amqp.Channel
	Flow     LeadCreator
	Alerts   AlertSender      // opcional
	Metadata MetadataResolver // opcional; sem ele o webhook vira só um relay de telefone
}

func NewWorker(ch *amqp.Channel, flow LeadCreator, alerts AlertSender, metadata MetadataResolver) *Worker {
	return &Worker{
		Channel:  ch,
		Flow:     flow,
		Alerts:   alerts,
		Metadata: metadata,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadDeliveryPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Evento %s: criando lead para %s", payload.EventID, payload.Phone)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Entrega %s falhou: %s", payload.EventID, err)
				// Sem retry de passos (decisão do fluxo): vai para a DLQ
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Evento %s entregue ao CRM", payload.EventID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload LeadDeliveryPayload) error {
	// IDs parciais de falhas são logados e registrados pelo próprio usecase
	_, err := w.Flow.Execute(ctx, w.buildInput(payload))
	if err == nil {
		middleware.RecordLeadDelivered()
		return nil
	}

	middleware.RecordCRMError(amocrm.ErrorKind(err))

	if w.Alerts != nil {
		if mailErr := w.Alerts.SendDeliveryAlert(payload.Phone, amocrm.ErrorKind(err), err.Error()); mailErr != nil {
			log.Printf("⚠️ Erro ao enviar alerta por email: %v", mailErr)
		}
	}

	return err
}

// buildInput resolve os nomes do payload em IDs via cache de metadados.
// Nome que o cache não conhece é descartado com aviso; o fluxo segue
// com os valores estáticos da configuração.
func (w *Worker) buildInput(payload LeadDeliveryPayload) usecase.CreateLeadInput {
	input := usecase.CreateLeadInput{
		Phone:       payload.Phone,
		ContactName: payload.Name,
		Source:      payload.Source,
	}

	if w.Metadata == nil {
		return input
	}

	if payload.Responsible != "" {
		if userID, err := w.Metadata.UserID(payload.Responsible); err == nil {
			input.ResponsibleUserID = userID
		} else {
			log.Printf("⚠️ Responsável %q não resolvido: %v", payload.Responsible, err)
		}
	}

	if payload.Email != "" {
		if fieldID, err := w.Metadata.FieldID("leads", emailFieldName); err == nil {
			input.CustomFields = append(input.CustomFields, amocrm.LeadFieldValue{FieldID: fieldID, Value: payload.Email})
		} else {
			log.Printf("⚠️ Campo de email não resolvido: %v", err)
		}
	}

	if payload.Comment != "" {
		if fieldID, err := w.Metadata.FieldID("leads", commentFieldName); err == nil {
			input.CustomFields = append(input.CustomFields, amocrm.LeadFieldValue{FieldID: fieldID, Value: payload.Comment})
		} else {
			log.Printf("⚠️ Campo de comentário não resolvido: %v", err)
		}
	}

	return input
}
