package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	var categories []models.Category
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("display_order ASC, id ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Preload("Modifiers")
	if filters.CategoryID != nil {
		q = q.Where("category_id = ?", *filters.CategoryID)
	}
	if !filters.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("display_order ASC, id ASC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Modifiers").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListModifiers(ctx context.Context) ([]models.Modifier, error) {
	var modifiers []models.Modifier
	err := r.db.WithContext(ctx).Order("id ASC").Find(&modifiers).Error
	if err != nil {
		return nil, err
	}
	return modifiers, nil
}

func (r *repository) FindModifiersByIDs(ctx context.Context, ids []int64) ([]models.Modifier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var modifiers []models.Modifier
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&modifiers).Error
	if err != nil {
		return nil, err
	}
	return modifiers, nil
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Modifiers").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) CreateModifier(ctx context.Context, modifier *models.Modifier) (*models.Modifier, error) {
	if err := r.db.WithContext(ctx).Create(modifier).Error; err != nil {
		return nil, err
	}
	return modifier, nil
}

func (r *repository) AttachModifiers(ctx context.Context, productID int64, modifierIDs []int64) error {
	if len(modifierIDs) == 0 {
		return nil
	}
	type productModifier struct {
		ProductID  int64 `gorm:"column:product_id"`
		ModifierID int64 `gorm:"column:modifier_id"`
	}
	rows := make([]productModifier, 0, len(modifierIDs))
	for _, id := range modifierIDs {
		rows = append(rows, productModifier{ProductID: productID, ModifierID: id})
	}
	return r.db.WithContext(ctx).Table("product_modifiers").Create(&rows).Error
}
