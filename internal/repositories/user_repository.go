package repositories

import "cuero/internal/models"

// UserRepository defines the interface for admin-account data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
