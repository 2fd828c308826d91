package diagnosis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, d *Diagnosis) error {
	if d.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if d.StartDate.IsZero() {
		return fmt.Errorf("startDate is required")
	}
	if d.DischargeDate != nil && d.DischargeDate.Before(d.StartDate) {
		return fmt.Errorf("dischargeDate cannot precede startDate")
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Diagnosis) error {
	if d.StartDate.IsZero() {
		return fmt.Errorf("startDate is required")
	}
	if d.DischargeDate != nil && d.DischargeDate.Before(d.StartDate) {
		return fmt.Errorf("dischargeDate cannot precede startDate")
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Diagnosis, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnosis, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
