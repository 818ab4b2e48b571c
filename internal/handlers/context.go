package handlers

import (
	"context"

	"github.com/jhansen/wardbook/internal/handlers/middleware"
	"github.com/jhansen/wardbook/internal/models"
)

// UserFromContext returns the user the auth middleware stored for this request
func UserFromContext(ctx context.Context) (models.User, bool) {
	return middleware.UserFromContext(ctx)
}
