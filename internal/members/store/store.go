// Package store persists the member directory.
package store

import (
	"context"

	"memberportal/internal/members/models"
	id "memberportal/pkg/domain"
)

// Store returns sentinel.ErrNotFound for missing members and
// sentinel.ErrConflict when a membership number is already taken by someone
// else. Save upserts on identity number.
type Store interface {
	Save(ctx context.Context, m *models.Member) error
	FindByID(ctx context.Context, memberID id.MemberID) (*models.Member, error)
	FindByIDNumber(ctx context.Context, idNumber string) (*models.Member, error)
	List(ctx context.Context, f models.Filter) ([]*models.Member, int, error)
}
