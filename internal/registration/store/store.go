// Package store persists registration sessions between wizard requests.
package store

import (
	"context"
	"time"

	"memberportal/internal/registration/models"
	id "memberportal/pkg/domain"
)

// Store is the registration session persistence contract. FindByID returns
// sentinel.ErrNotFound for unknown and expired sessions alike.
type Store interface {
	Save(ctx context.Context, s *models.RegistrationSession) error
	FindByID(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error)
	Delete(ctx context.Context, regID id.RegistrationID) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
