package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/jhansen/wardbook/internal/handlers/render"
)

type errorLogger interface {
	Error(msg string, args ...any)
}

// RecoverMiddleware turns handler panics into a 500 instead of killing the server
func RecoverMiddleware(l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.Error(
						"panic in handler",
						"uri", r.RequestURI,
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
