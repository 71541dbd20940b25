package customers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/quotelane/quotelane-backend/pkg/db"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
)

// Service exposes read-only access to the legacy customer directory. The
// directory is an external system: no writes, and no referential integrity is
// enforced between quotes and the customers they name.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
}

type service struct {
	lazy *db.LazyClient
}

// NewService builds a customer directory service over the lazy connection.
func NewService(lazy *db.LazyClient) (Service, error) {
	if lazy == nil {
		return nil, fmt.Errorf("legacy directory client required")
	}
	return &service{lazy: lazy}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Customer, error) {
	conn, err := s.lazy.DB(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeExternal, err, "legacy directory unavailable")
	}

	var customer models.Customer
	err = conn.WithContext(ctx).
		Where("id = ?", id).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeExternal, err, "query legacy directory")
	}
	return &customer, nil
}

func (s *service) List(ctx context.Context) ([]models.Customer, error) {
	conn, err := s.lazy.DB(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeExternal, err, "legacy directory unavailable")
	}

	var customers []models.Customer
	err = conn.WithContext(ctx).
		Order("name ASC").
		Find(&customers).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeExternal, err, "query legacy directory")
	}
	return customers, nil
}
