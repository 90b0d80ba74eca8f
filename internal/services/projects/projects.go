// Package projects exposes the ownership-checked project lookup the
// transaction engine depends on. Project CRUD itself lives with the
// outer HTTP layer and is not part of this service.
package projects

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

func (s *Service) FindOne(ctx context.Context, userID, projectID int) (*models.Project, error) {
	p := &models.Project{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, address, status, created_at, updated_at FROM projects WHERE id = ? AND user_id = ?",
		projectID, userID,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Address, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("project %d", projectID)
		}
		return nil, utils.ErrorHandler(err, "failed to fetch project")
	}
	return p, nil
}
