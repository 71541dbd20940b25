package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleSet carries the four independent role flags attached to an employee.
// Admin substitutes for every other role during authorization; that rule
// lives in the capability helpers here so call sites never re-derive it.
type RoleSet struct {
	SalesAssociate  bool `json:"is_sales_associate"`
	QuoteManager    bool `json:"is_quote_manager"`
	PurchaseManager bool `json:"is_purchase_manager"`
	Admin           bool `json:"is_admin"`
}

// CanCreateQuotes reports whether the holder may open new quotes.
func (r RoleSet) CanCreateQuotes() bool {
	return r.SalesAssociate || r.Admin
}

// CanEditDraft reports whether the holder may edit a draft quote they own.
func (r RoleSet) CanEditDraft() bool {
	return r.SalesAssociate || r.Admin
}

// CanSanction reports whether the holder may approve finalized quotes.
func (r RoleSet) CanSanction() bool {
	return r.QuoteManager || r.Admin
}

// CanConvertPurchaseOrders reports whether the holder may submit sanctioned
// quotes to order processing and confirm their completion.
func (r RoleSet) CanConvertPurchaseOrders() bool {
	return r.PurchaseManager || r.Admin
}

// CanManageEmployees reports whether the holder may administer staff.
func (r RoleSet) CanManageEmployees() bool {
	return r.Admin
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	EmployeeID uuid.UUID
	Name       string
	Email      string
	Roles      RoleSet
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Roles      RoleSet   `json:"roles"`
	jwt.RegisteredClaims
}
