package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/sajpos/counter-backend/pkg/db/models"
)

// Repository defines persistence operations for the payments table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindPaymentByOrderID(ctx context.Context, orderID int64) (*models.Payment, error)
}
