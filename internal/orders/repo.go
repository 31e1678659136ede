package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Modifiers").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, filters Filters) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx).Preload("Items.Modifiers")
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		q = q.Where("type = ?", *filters.Type)
	}
	if filters.Date != nil {
		d := *filters.Date
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		q = q.Where("created_at >= ? AND created_at < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}
	err := q.Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateOrder(ctx context.Context, id int64, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// UpdateOrderFromStatus applies updates only while the order still holds
// the expected status, so racing transitions resolve to one winner. Zero
// rows affected means the order moved on (or is gone).
func (r *repository) UpdateOrderFromStatus(ctx context.Context, id int64, from enums.OrderStatus, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) DeleteOrder(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Order{}).Error
}

// NextOrderNumber draws the next sequence value for the given day in one
// atomic statement, so racing terminals can never observe the same value.
func (r *repository) NextOrderNumber(ctx context.Context, day string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (day, last_seq) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = order_counters.last_seq + 1
		RETURNING last_seq
	`, day).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
