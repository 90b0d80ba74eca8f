package models

import "database/sql"

// Attachment records reference their owner polymorphically by
// owner_type/owner_id instead of a foreign key, so one table serves
// transactions, projects and tasks alike.
type AttachmentOwnerType string

const (
	AttachmentOwnerTransaction AttachmentOwnerType = "TRANSACTION"
	AttachmentOwnerProject     AttachmentOwnerType = "PROJECT"
)

type Attachment struct {
	ID        int                 `json:"id,omitempty" db:"id,omitempty"`
	OwnerType AttachmentOwnerType `json:"owner_type,omitempty" db:"owner_type,omitempty"`
	OwnerID   int                 `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	FileKey   string              `json:"file_key,omitempty" db:"file_key,omitempty"`
	CreatedAt sql.NullTime        `json:"created_at,omitempty" db:"created_at,omitempty"`
}
