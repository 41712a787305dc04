package store

import (
	"context"
	"database/sql"

	"shop-backoffice/internal/models"
)

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("user %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("user %q", username)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Phone, user.Address).
		Scan(&user.ID, &user.CreatedAt)
}

// GetAdminByID retrieves an admin by ID
func (s *Store) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("admin %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetAdminByUsername retrieves an admin by username
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("admin %q", username)
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
