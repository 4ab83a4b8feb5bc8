// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user with the given ID or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns the user with the given email or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Delete removes a user by ID. Returns common.ErrorNotFound if no row
	// was removed.
	Delete(ctx context.Context, id string) error
}
