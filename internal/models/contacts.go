package models

import "database/sql"

type Contact struct {
	ID        int          `json:"id,omitempty" db:"id,omitempty"`
	UserID    int          `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name      string       `json:"name,omitempty" db:"name,omitempty"`
	Email     string       `json:"email,omitempty" db:"email,omitempty"`
	Phone     string       `json:"phone,omitempty" db:"phone,omitempty"`
	Company   string       `json:"company,omitempty" db:"company,omitempty"`
	CreatedAt sql.NullTime `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
