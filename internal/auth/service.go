package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/quotelane/quotelane-backend/pkg/auth"
	"github.com/quotelane/quotelane-backend/pkg/auth/session"
	"github.com/quotelane/quotelane-backend/pkg/config"
	"github.com/quotelane/quotelane-backend/pkg/db/models"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

type employeeFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
}

type sessionManager interface {
	Create(ctx context.Context, sessionID string) error
	Revoke(ctx context.Context, sessionID string) error
}

type service struct {
	employees employeeFinder
	sessions  sessionManager
	jwtCfg    config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(employees employeeFinder, sessions sessionManager, jwtCfg config.JWTConfig) (Service, error) {
	if employees == nil {
		return nil, fmt.Errorf("employee finder is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		employees: employees,
		sessions:  sessions,
		jwtCfg:    jwtCfg,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	employee, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	roles := pkgauth.RoleSet{
		SalesAssociate:  employee.IsSalesAssociate,
		QuoteManager:    employee.IsQuoteManager,
		PurchaseManager: employee.IsPurchaseManager,
		Admin:           employee.IsAdmin,
	}

	sessionID := session.NewSessionID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		EmployeeID: employee.ID,
		Name:       employee.Name,
		Email:      employee.Email,
		Roles:      roles,
		JTI:        sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Create(ctx, sessionID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register session")
	}

	return &LoginResponse{
		AccessToken: token,
		Employee: EmployeeSummary{
			ID:    employee.ID,
			Name:  employee.Name,
			Email: employee.Email,
			Roles: roles,
		},
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Employee, error) {
	input := strings.TrimSpace(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	employee, err := s.employees.GetByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup employee")
	}

	valid, err := security.VerifyPassword(password, employee.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return employee, nil
}
