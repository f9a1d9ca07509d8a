package security

import (
	"errors"
	"restaurant_api/internal/domain/model"
	"restaurant_api/internal/platform/config"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken mints a signed bearer token for a verified user. The username
// doubles as the email claim, and expiry is issuance plus the configured
// lifetime (7 days by default). Pure computation, no side effects.
func GenerateToken(user *model.User, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"fullName": user.Name,
		"id":       user.ID,
		"email":    user.Username,
		"role":     role,
		"exp":      now.Add(config.AppConfig.JWTExp).Unix(),
		"iat":      now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, can be used in middleware or services
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["id"].(string)
	if !ok {
		return "", errors.New("id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
