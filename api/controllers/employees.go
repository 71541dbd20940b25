package controllers

import (
	"net/http"

	"github.com/quotelane/quotelane-backend/api/responses"
	"github.com/quotelane/quotelane-backend/api/validators"
	"github.com/quotelane/quotelane-backend/internal/employees"
	pkgauth "github.com/quotelane/quotelane-backend/pkg/auth"
	pkgerrors "github.com/quotelane/quotelane-backend/pkg/errors"
	"github.com/quotelane/quotelane-backend/pkg/logger"
)

type createEmployeeRequest struct {
	Name              string  `json:"name" validate:"required"`
	Email             string  `json:"email" validate:"required,email"`
	Password          string  `json:"password" validate:"required,min=8"`
	Address           *string `json:"address"`
	IsSalesAssociate  bool    `json:"is_sales_associate"`
	IsQuoteManager    bool    `json:"is_quote_manager"`
	IsPurchaseManager bool    `json:"is_purchase_manager"`
	IsAdmin           bool    `json:"is_admin"`
}

type updateEmployeeRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Password          *string `json:"password"`
	Address           *string `json:"address"`
	IsSalesAssociate  *bool   `json:"is_sales_associate"`
	IsQuoteManager    *bool   `json:"is_quote_manager"`
	IsPurchaseManager *bool   `json:"is_purchase_manager"`
	IsAdmin           *bool   `json:"is_admin"`
}

func (r createEmployeeRequest) toInput() employees.CreateEmployeeInput {
	return employees.CreateEmployeeInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Address:  r.Address,
		Roles: pkgauth.RoleSet{
			SalesAssociate:  r.IsSalesAssociate,
			QuoteManager:    r.IsQuoteManager,
			PurchaseManager: r.IsPurchaseManager,
			Admin:           r.IsAdmin,
		},
	}
}

func (r updateEmployeeRequest) toInput() employees.UpdateEmployeeInput {
	input := employees.UpdateEmployeeInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Address:  r.Address,
	}
	if r.IsSalesAssociate != nil || r.IsQuoteManager != nil || r.IsPurchaseManager != nil || r.IsAdmin != nil {
		roles := pkgauth.RoleSet{}
		if r.IsSalesAssociate != nil {
			roles.SalesAssociate = *r.IsSalesAssociate
		}
		if r.IsQuoteManager != nil {
			roles.QuoteManager = *r.IsQuoteManager
		}
		if r.IsPurchaseManager != nil {
			roles.PurchaseManager = *r.IsPurchaseManager
		}
		if r.IsAdmin != nil {
			roles.Admin = *r.IsAdmin
		}
		input.Roles = &roles
	}
	return input
}

// EmployeeCreate registers a new employee account.
func EmployeeCreate(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		var body createEmployeeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, employee)
	}
}

// EmployeeGet returns a single employee by id.
func EmployeeGet(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		employeeID, err := validators.UUIDParam(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.Get(r.Context(), employeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

// EmployeeList returns every employee.
func EmployeeList(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// EmployeeUpdate applies a partial update to an employee record.
func EmployeeUpdate(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		employeeID, err := validators.UUIDParam(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.Update(r.Context(), employeeID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

// EmployeeDelete removes an employee not referenced by any quote.
func EmployeeDelete(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
			return
		}

		employeeID, err := validators.UUIDParam(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), employeeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
