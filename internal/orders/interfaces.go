package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, filters Filters) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id int64, updates map[string]any) (int64, error)
	UpdateOrderFromStatus(ctx context.Context, id int64, from enums.OrderStatus, updates map[string]any) (int64, error)
	DeleteOrder(ctx context.Context, id int64) error
	NextOrderNumber(ctx context.Context, day string) (int64, error)
}

// Filters narrows order listings; nil fields mean no filter on that
// dimension. Date matches the calendar day the order was created.
type Filters struct {
	Date   *time.Time
	Status *enums.OrderStatus
	Type   *enums.OrderType
}
