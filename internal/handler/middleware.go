package handler

import (
	"net/http"
	"strings"

	"github.com/melodia-app/backend/internal/auth"
)

// RequireAuth guards a route with a Bearer access token. The verified user
// ID is placed on the request context for the handler.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, auth.ErrUnauthorized)
			return
		}

		userID, err := h.tokens.VerifyAccessToken(token)
		if err != nil {
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}
