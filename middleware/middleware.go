package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/logging"
	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/policy"
	"github.com/HarshalBhogawade/project-management-backend/utils"
)

type contextKey string

const callerKey contextKey = "caller"

// JWTAuthMiddleware validates the bearer token and stores the resulting
// Caller in the request context. Handlers read it back with
// CallerFromContext; nothing downstream touches the token again.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			unauthorized(w, "authorization header missing")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			unauthorized(w, "bearer token missing")
			return
		}

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
			unauthorized(w, "invalid token")
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		caller := policy.Caller{ID: id, Role: models.Role(claims.Role)}
		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext returns the authenticated caller stored by
// JWTAuthMiddleware.
func CallerFromContext(ctx context.Context) (policy.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(policy.Caller)
	return caller, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
