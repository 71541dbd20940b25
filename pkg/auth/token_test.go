package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quotelane/quotelane-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "quotelane-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	employeeID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		EmployeeID: employeeID,
		Name:       "Ada",
		Email:      "ada@example.com",
		Roles:      RoleSet{SalesAssociate: true},
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.EmployeeID != employeeID {
		t.Fatalf("employee id mismatch: %s", claims.EmployeeID)
	}
	if !claims.Roles.SalesAssociate || claims.Roles.Admin {
		t.Fatalf("roles mismatch: %+v", claims.Roles)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		EmployeeID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature validation error")
	}
}

func TestMintRequiresEmployeeID(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRoleSetAdminImpliesEverything(t *testing.T) {
	admin := RoleSet{Admin: true}
	if !admin.CanCreateQuotes() || !admin.CanSanction() || !admin.CanConvertPurchaseOrders() || !admin.CanManageEmployees() {
		t.Fatal("admin should substitute for every role")
	}

	associate := RoleSet{SalesAssociate: true}
	if associate.CanSanction() || associate.CanConvertPurchaseOrders() || associate.CanManageEmployees() {
		t.Fatal("associate gained capabilities it should not have")
	}
	if !associate.CanCreateQuotes() || !associate.CanEditDraft() {
		t.Fatal("associate lost its own capabilities")
	}
}
