package visit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no visit matches the lookup.
var ErrNotFound = errors.New("visit not found")

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, diagnosis_id, date,
	heart_rate, respiratory_rate, saturation, temperature,
	cardiac_auscultation, evolution, additional_guidance,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO visit (
			id, diagnosis_id, date,
			heart_rate, respiratory_rate, saturation, temperature,
			cardiac_auscultation, evolution, additional_guidance
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		v.ID, v.DiagnosisID, v.Date,
		v.HeartRate, v.RespiratoryRate, v.Saturation, v.Temperature,
		v.CardiacAuscultation, v.Evolution, v.AdditionalGuidance,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return scanVisit(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM visit WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, v *Visit) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE visit SET
			date=$2, heart_rate=$3, respiratory_rate=$4, saturation=$5, temperature=$6,
			cardiac_auscultation=$7, evolution=$8, additional_guidance=$9,
			updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.Date, v.HeartRate, v.RespiratoryRate, v.Saturation, v.Temperature,
		v.CardiacAuscultation, v.Evolution, v.AdditionalGuidance,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM visit WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByDiagnosis(ctx context.Context, diagnosisID uuid.UUID) ([]*Visit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM visit WHERE diagnosis_id = $1 ORDER BY date DESC`, diagnosisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		v := &Visit{}
		if err := rows.Scan(&v.ID, &v.DiagnosisID, &v.Date,
			&v.HeartRate, &v.RespiratoryRate, &v.Saturation, &v.Temperature,
			&v.CardiacAuscultation, &v.Evolution, &v.AdditionalGuidance,
			&v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func scanVisit(row pgx.Row) (*Visit, error) {
	v := &Visit{}
	err := row.Scan(&v.ID, &v.DiagnosisID, &v.Date,
		&v.HeartRate, &v.RespiratoryRate, &v.Saturation, &v.Temperature,
		&v.CardiacAuscultation, &v.Evolution, &v.AdditionalGuidance,
		&v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
