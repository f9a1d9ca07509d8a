package middleware

import (
	"context"
	"net/http"
	"restaurant_api/internal/common"
	"restaurant_api/internal/common/security"
	"restaurant_api/internal/domain/model"
	"strings"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// Authenticator requires a verified bearer token and stashes its identity
// claims in the request context. The Verifier middleware must have run first.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		switch {
		case err != nil && (token == nil || strings.Contains(err.Error(), "token not found")):
			common.RespondWithError(w, http.StatusUnauthorized, "Bearer token required")
			return
		case err != nil:
			common.RespondWithError(w, http.StatusUnauthorized, "Token rejected: "+err.Error())
			return
		case token == nil:
			common.RespondWithError(w, http.StatusUnauthorized, "Token rejected")
			return
		}

		userID, idErr := security.GetUserIDFromClaims(claims)
		role, roleErr := security.GetUserRoleFromClaims(claims)
		if idErr != nil || roleErr != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Token claims incomplete")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly gates menu mutations; it assumes Authenticator already ran.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}
