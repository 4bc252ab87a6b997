package http

import (
	"log/slog"
	"net/http"
	"time"
)

// logRequest writes one line when a request arrives and one when it
// finishes, both tagged with the request id so the two can be correlated.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.log.With(
			slog.String("request_id", requestIDFrom(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
		)
		log.Info("request started")

		ww := newResponseWriterWrapper(w)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Info("request completed",
			slog.Int("status", ww.statusCode),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
