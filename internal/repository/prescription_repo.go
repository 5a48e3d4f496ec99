package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"rx-line/internal/domain"
)

// PrescriptionRepository define el contrato de persistencia para los registros de auditoría.
type PrescriptionRepository interface {
	Create(ctx context.Context, p domain.Prescription) (domain.Prescription, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Prescription, error)
}

// PgPrescriptionRepository implementa PrescriptionRepository usando pgxpool.
type PgPrescriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPgPrescriptionRepository(pool *pgxpool.Pool) *PgPrescriptionRepository {
	return &PgPrescriptionRepository{pool: pool}
}

// Create inserta la fila con las tres banderas de workflow en false.
func (r *PgPrescriptionRepository) Create(ctx context.Context, p domain.Prescription) (domain.Prescription, error) {
	const query = `
		INSERT INTO prescriptions (
			user_name,
			user_id,
			prescription_image_url,
			online_guidance_time,
			medicine_delivery_time,
			prescription_checked,
			guidance_executed,
			delivery_executed
		) VALUES ($1, $2, $3, $4, $5, false, false, false)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.UserName,
		p.UserID,
		p.PrescriptionImageURL,
		p.OnlineGuidanceTime,
		p.MedicineDeliveryTime,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return domain.Prescription{}, err
	}
	p.PrescriptionChecked = false
	p.GuidanceExecuted = false
	p.DeliveryExecuted = false
	return p, nil
}

func (r *PgPrescriptionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Prescription, error) {
	switch {
	case limit <= 0:
		limit = 50
	case limit > 200:
		limit = 200
	}
	const query = `
		SELECT id, user_name, user_id, prescription_image_url, online_guidance_time,
		       medicine_delivery_time, prescription_checked, guidance_executed,
		       delivery_executed, created_at
		FROM prescriptions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Prescription, 0, limit)
	for rows.Next() {
		var p domain.Prescription
		if err := rows.Scan(
			&p.ID,
			&p.UserName,
			&p.UserID,
			&p.PrescriptionImageURL,
			&p.OnlineGuidanceTime,
			&p.MedicineDeliveryTime,
			&p.PrescriptionChecked,
			&p.GuidanceExecuted,
			&p.DeliveryExecuted,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
