// Package attachments owns the polymorphic attachment records tied to
// transactions (and other entities) by owner type and id. Storage
// upload/presigning happens elsewhere; this service only keeps the
// association rows consistent inside the caller's unit of work.
package attachments

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"renovest/internal/models"
	"renovest/pkg/utils"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// CreateFor records one attachment row per storage key for the owner.
func (s *Service) CreateFor(ctx context.Context, tx *sql.Tx, ownerType models.AttachmentOwnerType, ownerID int, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO attachments (owner_type, owner_id, file_key) VALUES (?, ?, ?)")
	if err != nil {
		return utils.ErrorHandler(err, "failed to prepare attachment statement")
	}
	defer stmt.Close()

	for _, key := range keys {
		// A blank key means the client wants the server to issue one.
		if key == "" {
			key = GenerateKey(string(ownerType)[:3])
		}
		if _, err := stmt.ExecContext(ctx, ownerType, ownerID, key); err != nil {
			return utils.ErrorHandler(err, "failed to create attachment record")
		}
	}
	return nil
}

// RemoveAllFor drops every attachment record of one owner.
func (s *Service) RemoveAllFor(ctx context.Context, tx *sql.Tx, ownerType models.AttachmentOwnerType, ownerID int) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM attachments WHERE owner_type = ? AND owner_id = ?", ownerType, ownerID); err != nil {
		return utils.ErrorHandler(err, "failed to remove attachment records")
	}
	return nil
}

// GenerateKey builds a collision-resistant storage key for uploads,
// e.g. "TRA20240115093045-0421".
func GenerateKey(prefix string) string {
	suffix := fmt.Sprintf("%04d", rand.Intn(10000))
	return fmt.Sprintf("%s%s-%s", prefix, time.Now().Format("20060102150405"), suffix)
}
