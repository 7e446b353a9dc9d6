package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// DeliveryRepository guarda o histórico de envios de leads ao CRM.
// Só insere e conta: o registro de uma tentativa nunca é alterado.
type DeliveryRepository struct {
	DB *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

func (r *DeliveryRepository) Record(ctx context.Context, d *entity.Delivery) error {
	query := `
		INSERT INTO lead_deliveries (id, phone, contact_id, lead_id, stage, error_kind, error_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		d.ID,
		d.Phone,
		nullInt(d.ContactID),
		nullInt(d.LeadID),
		d.Stage,
		nullString(d.ErrorKind),
		nullString(d.ErrorText),
		d.CreatedAt,
	)

	return err
}

// CountByPhone conta quantas entregas já foram feitas para um telefone.
// Invocações repetidas criam leads duplicados de propósito; este
// contador é como o operador enxerga isso.
func (r *DeliveryRepository) CountByPhone(ctx context.Context, phone string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM lead_deliveries WHERE phone = $1`,
		phone,
	).Scan(&count)

	return count, err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
