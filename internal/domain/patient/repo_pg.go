package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no patient matches the lookup.
var ErrNotFound = errors.New("patient not found")

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, name, cpf, birth_date, phone, email, address, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, name, cpf, birth_date, phone, email, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.CPF, p.BirthDate, p.Phone, p.Email, p.Address,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByCPF(ctx context.Context, cpf string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM patient WHERE cpf = $1`, cpf))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patient SET
			name=$2, cpf=$3, birth_date=$4, phone=$5, email=$6, address=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.CPF, p.BirthDate, p.Phone, p.Email, p.Address,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM patient ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	patients, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM patient ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPatients(rows)
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return total, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	p := &Patient{}
	err := row.Scan(&p.ID, &p.Name, &p.CPF, &p.BirthDate, &p.Phone, &p.Email, &p.Address,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectPatients(rows pgx.Rows) ([]*Patient, error) {
	var patients []*Patient
	for rows.Next() {
		p := &Patient{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CPF, &p.BirthDate, &p.Phone, &p.Email, &p.Address,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}
