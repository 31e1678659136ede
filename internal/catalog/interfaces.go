package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/pkg/db/models"
)

// Repository defines persistence operations for catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	FindProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListModifiers(ctx context.Context) ([]models.Modifier, error)
	FindModifiersByIDs(ctx context.Context, ids []int64) ([]models.Modifier, error)
	CountProducts(ctx context.Context) (int64, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	CreateModifier(ctx context.Context, modifier *models.Modifier) (*models.Modifier, error)
	AttachModifiers(ctx context.Context, productID int64, modifierIDs []int64) error
}

// ProductFilters narrows product listings; zero values mean no filter.
type ProductFilters struct {
	CategoryID      *int64
	IncludeInactive bool
}
