package customers

import (
	"context"
	"strings"

	catshared "github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters catshared.ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, shared.NewValidationError("id", "must be positive")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, customer Customer) (Customer, error) {
	if err := s.validate(customer); err != nil {
		return Customer{}, err
	}
	return s.repo.Create(ctx, customer)
}

func (s *Service) Update(ctx context.Context, id int64, customer Customer) error {
	if id <= 0 {
		return shared.NewValidationError("id", "must be positive")
	}
	if err := s.validate(customer); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, customer)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.NewValidationError("id", "must be positive")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(c Customer) error {
	if strings.TrimSpace(c.Code) == "" {
		return shared.NewValidationError("code", "is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewValidationError("name", "is required")
	}
	return nil
}
