package diagnosis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no diagnosis matches the lookup.
var ErrNotFound = errors.New("diagnosis not found")

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, patient_id, start_date, discharge_date, doctor, anamnesis, diagnosis,
	heart_rate, respiratory_rate, saturation, temperature,
	cardiac_auscultation, evolution, medications, additional_guidance,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Diagnosis) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnosis (
			id, patient_id, start_date, discharge_date, doctor, anamnesis, diagnosis,
			heart_rate, respiratory_rate, saturation, temperature,
			cardiac_auscultation, evolution, medications, additional_guidance
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		d.ID, d.PatientID, d.StartDate, d.DischargeDate, d.Doctor, d.Anamnesis, d.Diagnosis,
		d.HeartRate, d.RespiratoryRate, d.Saturation, d.Temperature,
		d.CardiacAuscultation, d.Evolution, d.Medications, d.AdditionalGuidance,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return scanDiagnosis(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM diagnosis WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Diagnosis) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE diagnosis SET
			start_date=$2, discharge_date=$3, doctor=$4, anamnesis=$5, diagnosis=$6,
			heart_rate=$7, respiratory_rate=$8, saturation=$9, temperature=$10,
			cardiac_auscultation=$11, evolution=$12, medications=$13, additional_guidance=$14,
			updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.StartDate, d.DischargeDate, d.Doctor, d.Anamnesis, d.Diagnosis,
		d.HeartRate, d.RespiratoryRate, d.Saturation, d.Temperature,
		d.CardiacAuscultation, d.Evolution, d.Medications, d.AdditionalGuidance,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM diagnosis WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Diagnosis, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM diagnosis`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count diagnoses: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM diagnosis ORDER BY start_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	diagnoses, err := collectDiagnoses(rows)
	if err != nil {
		return nil, 0, err
	}
	return diagnoses, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnosis, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM diagnosis WHERE patient_id = $1 ORDER BY start_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDiagnoses(rows)
}

func scanDiagnosis(row pgx.Row) (*Diagnosis, error) {
	d := &Diagnosis{}
	err := row.Scan(&d.ID, &d.PatientID, &d.StartDate, &d.DischargeDate, &d.Doctor, &d.Anamnesis, &d.Diagnosis,
		&d.HeartRate, &d.RespiratoryRate, &d.Saturation, &d.Temperature,
		&d.CardiacAuscultation, &d.Evolution, &d.Medications, &d.AdditionalGuidance,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func collectDiagnoses(rows pgx.Rows) ([]*Diagnosis, error) {
	var diagnoses []*Diagnosis
	for rows.Next() {
		d := &Diagnosis{}
		if err := rows.Scan(&d.ID, &d.PatientID, &d.StartDate, &d.DischargeDate, &d.Doctor, &d.Anamnesis, &d.Diagnosis,
			&d.HeartRate, &d.RespiratoryRate, &d.Saturation, &d.Temperature,
			&d.CardiacAuscultation, &d.Evolution, &d.Medications, &d.AdditionalGuidance,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		diagnoses = append(diagnoses, d)
	}
	return diagnoses, rows.Err()
}
