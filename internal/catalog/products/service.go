package products

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

func (s *Service) List(ctx context.Context, filters catshared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.NewValidationError("id", "must be positive")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id int64, product Product) error {
	if id <= 0 {
		return shared.NewValidationError("id", "must be positive")
	}
	if err := s.validate(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, product)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.NewValidationError("id", "must be positive")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Code) == "" {
		return shared.NewValidationError("code", "is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewValidationError("name", "is required")
	}
	if p.Price < 0 {
		return shared.NewValidationError("price", "must not be negative")
	}
	if p.Cost < 0 {
		return shared.NewValidationError("cost", "must not be negative")
	}
	if p.MinStock < 0 {
		return shared.NewValidationError("min_stock", "must not be negative")
	}
	if p.MaxStock <= p.MinStock {
		return shared.NewValidationError("max_stock", "must be greater than min stock")
	}
	if p.ReorderPoint < 0 {
		return shared.NewValidationError("reorder_point", "must not be negative")
	}
	return nil
}
