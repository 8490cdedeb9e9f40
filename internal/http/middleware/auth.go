package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Tyno1/bitescout-api/internal/types/users"
	"github.com/Tyno1/bitescout-api/internal/utils/jwt"
	"github.com/Tyno1/bitescout-api/internal/utils/response"
)

type contextKey string

const ActorKey contextKey = "actor"

// Actor is the authenticated identity a request acts as. Handlers pass it
// explicitly into operations so authorization is a function of
// (actor, resource) rather than ambient state.
type Actor struct {
	ID   string
	Role users.Role
}

// IsModeration reports whether the actor may toggle verification flags.
func (a Actor) IsModeration() bool {
	return a.Role == users.RoleAdmin || a.Role == users.RoleModerator
}

// AuthMiddleware validates the bearer token and puts the Actor into the
// request context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("Authorization header required")))
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("Invalid authorization header format")))
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("Token not provided")))
				return
			}

			userID, role, err := jwt.ParseToken(token, jwtSecret)
			if err != nil {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("Invalid token")))
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, Actor{ID: userID, Role: role})
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		})
	}
}

// GetActorFromContext extracts the actor from the request context.
func GetActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(Actor)
	return actor, ok
}
