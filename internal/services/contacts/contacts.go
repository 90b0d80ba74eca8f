// Package contacts exposes the ownership-checked contact lookup used
// when wiring a transaction to the party it settles with.
package contacts

import (
	"context"
	"database/sql"
	"errors"

	"renovest/internal/apperr"
	"renovest/internal/models"
	"renovest/pkg/utils"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) FindOne(ctx context.Context, userID, contactID int) (*models.Contact, error) {
	c := &models.Contact{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, email, phone, company, created_at, updated_at FROM contacts WHERE id = ? AND user_id = ?",
		contactID, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("contact %d", contactID)
		}
		return nil, utils.ErrorHandler(err, "failed to fetch contact")
	}
	return c, nil
}
