package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quotelane/quotelane-backend/pkg/config"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/security"
)

// Service defines employee management operations plus the narrow lookups
// other domains depend on (directory checks, commission accrual).
type Service interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// AccrueCommission credits the employee's accumulated commission. When
	// tx is non-nil the write joins that transaction.
	AccrueCommission(ctx context.Context, tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error
}

type service struct {
	repo      Repository
	passwords config.PasswordConfig
}

// NewService builds an employee service.
func NewService(repo Repository, passwords config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employees repository required")
	}
	return &service{repo: repo, passwords: passwords}, nil
}

func (s *service) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	employee := &models.Employee{
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Address:           input.Address,
		IsSalesAssociate:  input.Roles.SalesAssociate,
		IsQuoteManager:    input.Roles.QuoteManager,
		IsPurchaseManager: input.Roles.PurchaseManager,
		IsAdmin:           input.Roles.Admin,
	}
	created, err := s.repo.Create(ctx, employee)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return employee, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	employee, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return employee, nil
}

func (s *service) List(ctx context.Context) ([]models.Employee, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		updates["email"] = email
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwords)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Roles != nil {
		updates["is_sales_associate"] = input.Roles.SalesAssociate
		updates["is_quote_manager"] = input.Roles.QuoteManager
		updates["is_purchase_manager"] = input.Roles.PurchaseManager
		updates["is_admin"] = input.Roles.Admin
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable field supplied")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update employee")
	}
	return s.Get(ctx, id)
}

// Delete removes an employee unless any quote still references them as its
// sales associate.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountQuotesReferencing(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referencing quotes")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "employee is referenced by existing quotes").
			WithDetails(map[string]any{"quote_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete employee")
	}
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) AccrueCommission(ctx context.Context, tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "commission amount must not be negative")
	}
	if amount.IsZero() {
		return nil
	}
	if err := s.repo.WithTx(tx).AccrueCommission(ctx, id, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accrue commission")
	}
	return nil
}
