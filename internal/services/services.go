// Package services holds the job board's business rules. Each service works
// against repositories.Store and returns errors from models.
package services

import (
	"errors"

	"go.opentelemetry.io/otel"

	"senior-house/internal/models"
)

var tracer = otel.Tracer("senior-house/services")

// mapNotFound swaps a repository sentinel for its domain error.
func mapNotFound(err, repoErr, domainErr error) error {
	if errors.Is(err, repoErr) {
		return domainErr
	}
	return err
}

func userRef(u models.User) models.UserRef {
	return models.UserRef{ID: u.ID, Nickname: u.Nickname, Role: u.Role}
}
