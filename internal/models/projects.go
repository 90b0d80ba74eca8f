package models

import "database/sql"

type ProjectStatus string

const (
	ProjectStatusPlanned    ProjectStatus = "PLANNED"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
)

type Project struct {
	ID        int           `json:"id,omitempty" db:"id,omitempty"`
	UserID    int           `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name      string        `json:"name,omitempty" db:"name,omitempty"`
	Address   string        `json:"address,omitempty" db:"address,omitempty"`
	Status    ProjectStatus `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt sql.NullTime  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullTime  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
