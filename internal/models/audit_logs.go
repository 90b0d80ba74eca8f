package models

import "database/sql"

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

type AuditLog struct {
	ID         int          `json:"id,omitempty" db:"id,omitempty"`
	UserID     int          `json:"user_id,omitempty" db:"user_id,omitempty"`
	Action     AuditAction  `json:"action,omitempty" db:"action,omitempty"`
	EntityName string       `json:"entity_name,omitempty" db:"entity_name,omitempty"`
	EntityID   int          `json:"entity_id,omitempty" db:"entity_id,omitempty"`
	Changes    string       `json:"changes,omitempty" db:"changes,omitempty"`
	CreatedAt  sql.NullTime `json:"created_at,omitempty" db:"created_at,omitempty"`
}
