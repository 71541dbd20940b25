package employees

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quotelane/quotelane-backend/pkg/db/models"
)

// Repository defines persistence operations for employees.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountQuotesReferencing(ctx context.Context, id uuid.UUID) (int64, error)
	AccrueCommission(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}
