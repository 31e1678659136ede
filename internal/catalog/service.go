package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/pkg/db/models"
	pkgerrors "github.com/sajpos/counter-backend/pkg/errors"
)

// Service exposes the read side of the catalog consumed by the terminal UI.
type Service interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	ListModifiers(ctx context.Context) ([]models.Modifier, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service over the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) ListModifiers(ctx context.Context) ([]models.Modifier, error) {
	modifiers, err := s.repo.ListModifiers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list modifiers")
	}
	return modifiers, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
