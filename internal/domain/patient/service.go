package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.CPF = strings.TrimSpace(p.CPF)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.CPF == "" {
		return fmt.Errorf("cpf is required")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birthDate is required")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCPF(ctx context.Context, cpf string) (*Patient, error) {
	return s.repo.GetByCPF(ctx, cpf)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.CPF = strings.TrimSpace(p.CPF)
	if p.Name == "" || p.CPF == "" {
		return fmt.Errorf("name and cpf are required")
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListAll(ctx context.Context) ([]*Patient, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
