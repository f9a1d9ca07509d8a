package security

import (
	"restaurant_api/internal/domain/model"
	"restaurant_api/internal/platform/config"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func setup(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: 7 * 24 * time.Hour,
	}
	InitJWT()
}

func decode(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return config.AppConfig.JWTKey, nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	return claims
}

func TestGenerateTokenClaims(t *testing.T) {
	setup(t)

	user := &model.User{
		ID:       "user-1",
		Username: "chef",
		Email:    "chef",
		Name:     "Chef",
	}
	tokenString, err := GenerateToken(user, model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if tokenString == "" {
		t.Fatal("expected non-empty token")
	}

	claims := decode(t, tokenString)
	if got := claims["fullName"]; got != "Chef" {
		t.Errorf("fullName claim = %v, want Chef", got)
	}
	if got := claims["id"]; got != "user-1" {
		t.Errorf("id claim = %v, want user-1", got)
	}
	if got := claims["email"]; got != "chef" {
		t.Errorf("email claim = %v, want chef", got)
	}
	if got := claims["role"]; got != "Admin" {
		t.Errorf("role claim = %v, want Admin", got)
	}
}

func TestGenerateTokenExpiresInSevenDays(t *testing.T) {
	setup(t)

	tokenString, err := GenerateToken(&model.User{ID: "u", Username: "u"}, model.RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims := decode(t, tokenString)
	exp, err := claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("missing exp claim: %v", err)
	}

	want := time.Now().UTC().Add(7 * 24 * time.Hour)
	diff := exp.Time.Sub(want)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry off by %v, want ~now+7d", diff)
	}
}

func TestGenerateTokenRejectsTampering(t *testing.T) {
	setup(t)

	tokenString, err := GenerateToken(&model.User{ID: "u", Username: "u"}, model.RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, err = jwt.Parse(tokenString+"x", func(token *jwt.Token) (interface{}, error) {
		return config.AppConfig.JWTKey, nil
	})
	if err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestClaimGetters(t *testing.T) {
	claims := jwt.MapClaims{"id": "user-1", "role": "Customer"}

	id, err := GetUserIDFromClaims(claims)
	if err != nil || id != "user-1" {
		t.Errorf("GetUserIDFromClaims = (%q, %v), want (user-1, nil)", id, err)
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil || role != "Customer" {
		t.Errorf("GetUserRoleFromClaims = (%q, %v), want (Customer, nil)", role, err)
	}

	if _, err := GetUserIDFromClaims(jwt.MapClaims{}); err == nil {
		t.Error("expected error for missing id claim")
	}
	if _, err := GetUserRoleFromClaims(jwt.MapClaims{"role": 42}); err == nil {
		t.Error("expected error for non-string role claim")
	}
}
