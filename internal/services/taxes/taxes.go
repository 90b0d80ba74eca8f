// Package taxes maintains the many-to-many association between
// transactions and tax records. Both calls run on the caller's
// *sql.Tx so they commit or roll back with the owning operation.
package taxes

import (
	"context"
	"database/sql"
	"errors"

	"renovest/internal/apperr"
	"renovest/pkg/utils"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Attach links the given tax ids to a transaction. A tax id that does
// not exist fails the whole call with ErrNotFound.
func (s *Service) Attach(ctx context.Context, tx *sql.Tx, transactionID int, taxIDs []int) error {
	if len(taxIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO transaction_taxes (transaction_id, tax_id) VALUES (?, ?)")
	if err != nil {
		return utils.ErrorHandler(err, "failed to prepare tax association statement")
	}
	defer stmt.Close()

	for _, taxID := range taxIDs {
		var exists bool
		err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM taxes WHERE id = ?)", taxID).Scan(&exists)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return utils.ErrorHandler(err, "failed to check tax existence")
		}
		if !exists {
			return apperr.NotFoundf("tax %d", taxID)
		}
		if _, err := stmt.ExecContext(ctx, transactionID, taxID); err != nil {
			return utils.ErrorHandler(err, "failed to attach tax")
		}
	}
	return nil
}

// DetachAll removes every tax association of one transaction.
func (s *Service) DetachAll(ctx context.Context, tx *sql.Tx, transactionID int) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM transaction_taxes WHERE transaction_id = ?", transactionID); err != nil {
		return utils.ErrorHandler(err, "failed to detach taxes")
	}
	return nil
}
