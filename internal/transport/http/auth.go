package http

import (
	"context"
	"net/http"
	"strings"
)

const userIDKey = contextKey("userID")

// authenticate verifies the bearer token and stores the caller's user id in
// the request context. Browser websocket clients cannot set headers, so a
// "token" query parameter is accepted as a fallback.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if token == "" {
			s.respondError(w, http.StatusUnauthorized, "missing access token")
			return
		}

		userID, err := s.tokens.Parse(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimPrefix(header, prefix)
}

func userIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}

	return ""
}
