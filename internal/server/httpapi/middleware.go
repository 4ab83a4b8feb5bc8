package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/auth"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

type ctxKey int

const actorKey ctxKey = iota

// authenticate verifies the bearer token and resolves it to a stored user.
// Handlers behind it can rely on actorFrom returning a verified actor.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			// a valid token for a deleted user is still unauthorized
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) *models.User {
	actor, _ := r.Context().Value(actorKey).(*models.User)
	return actor
}
