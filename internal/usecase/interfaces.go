package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/amocrm"
)

// CRMClient é o contrato que o fluxo de criação exige do AmoCRM.
type CRMClient interface {
	CreateContact(ctx context.Context, input amocrm.CreateContactInput) (int, error)
	CreateLead(ctx context.Context, input amocrm.CreateLeadInput) (int, error)
	LinkContact(ctx context.Context, leadID, contactID int) error
}

// DeliveryJournal registra o desfecho de cada tentativa.
// Os CLIs rodam sem journal (nil); o webhookd sempre injeta um.
type DeliveryJournal interface {
	Record(ctx context.Context, d *entity.Delivery) error
	CountByPhone(ctx context.Context, phone string) (int, error)
}
