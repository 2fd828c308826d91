package visit

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

func (s *Service) Create(ctx context.Context, v *Visit) error {
	if v.DiagnosisID == uuid.Nil {
		return fmt.Errorf("diagnosisId is required")
	}
	if v.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return s.repo.Create(ctx, v)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, v *Visit) error {
	if v.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return s.repo.Update(ctx, v)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByDiagnosis(ctx context.Context, diagnosisID uuid.UUID) ([]*Visit, error) {
	return s.repo.ListByDiagnosis(ctx, diagnosisID)
}
