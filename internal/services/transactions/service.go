// Package transactions implements the financial-transaction series
// engine: creating a recurring booking as a parent/child row set, and
// mutating or deleting it with scope semantics (one row vs. the whole
// series) under optimistic concurrency control. Every multi-row write
// runs inside one database transaction together with its tax,
// attachment and audit side effects.
package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"renovest/internal/apperr"
	"renovest/internal/models"
	txrepo "renovest/internal/repositories/transactions"
	"renovest/internal/services/recurrence"
	"renovest/pkg/utils"
)

const entityTransaction = "transaction"

type ProjectFinder interface {
	FindOne(ctx context.Context, userID, projectID int) (*models.Project, error)
}

type ContactFinder interface {
	FindOne(ctx context.Context, userID, contactID int) (*models.Contact, error)
}

type TaxAssociator interface {
	Attach(ctx context.Context, tx *sql.Tx, transactionID int, taxIDs []int) error
	DetachAll(ctx context.Context, tx *sql.Tx, transactionID int) error
}

type AttachmentAssociator interface {
	CreateFor(ctx context.Context, tx *sql.Tx, ownerType models.AttachmentOwnerType, ownerID int, keys []string) error
	RemoveAllFor(ctx context.Context, tx *sql.Tx, ownerType models.AttachmentOwnerType, ownerID int) error
}

type AuditLogger interface {
	LogCreate(ctx context.Context, tx *sql.Tx, userID int, entityName string, entityID int, entity any) error
	LogUpdate(ctx context.Context, tx *sql.Tx, userID int, entityName string, entityID int, before, after any) error
	LogDelete(ctx context.Context, tx *sql.Tx, userID int, entityName string, entityID int, entity any) error
}

type Service struct {
	repo        *txrepo.Repository
	projects    ProjectFinder
	contacts    ContactFinder
	taxes       TaxAssociator
	attachments AttachmentAssociator
	audit       AuditLogger
}

func NewService(repo *txrepo.Repository, projects ProjectFinder, contacts ContactFinder,
	taxes TaxAssociator, attachments AttachmentAssociator, audit AuditLogger) *Service {
	return &Service{
		repo:        repo,
		projects:    projects,
		contacts:    contacts,
		taxes:       taxes,
		attachments: attachments,
		audit:       audit,
	}
}

type CreateInput struct {
	UserID         int
	ProjectID      int
	ContactID      int
	Title          string
	Category       string
	Type           models.TransactionType
	Status         models.TransactionStatus
	Recurrence     models.Recurrence
	Amount         decimal.Decimal
	StartDate      time.Time
	EndDate        *time.Time
	PaymentDate    *time.Time
	ExpenseType    *string
	TaxIDs         []int
	AttachmentKeys []string
}

type UpdateInput struct {
	ID          int
	UserID      int
	ProjectID   int
	Version     int
	Scope       models.UpdateScope
	RootVersion *int

	Title       string
	Category    string
	Status      models.TransactionStatus
	Amount      decimal.Decimal
	ExpenseType *string
	StartDate   time.Time
	EndDate     *time.Time
	PaymentDate *time.Time

	// nil leaves the association untouched; a non-nil (even empty)
	// list replaces it wholesale on every targeted row.
	TaxIDs         *[]int
	AttachmentKeys *[]string
}

type DeleteInput struct {
	ID        int
	UserID    int
	ProjectID int
	Scope     models.UpdateScope
}

// Create materializes a booking as one row per recurrence segment, all
// children pointing at the first-created row, and returns that first
// row re-fetched with its relations. The row set, tax and attachment
// associations and the audit entry commit as one unit; any failure
// leaves nothing behind.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Transaction, error) {
	if _, err := s.projects.FindOne(ctx, in.UserID, in.ProjectID); err != nil {
		return nil, err
	}
	if _, err := s.contacts.FindOne(ctx, in.UserID, in.ContactID); err != nil {
		return nil, err
	}
	if err := recurrence.ValidateDates(in.Type, in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	end := in.StartDate
	if in.EndDate != nil {
		end = *in.EndDate
	}
	segments := recurrence.Split(in.StartDate, end, in.Recurrence)
	if len(segments) == 0 {
		return nil, apperr.Validationf("date range %s to %s produces no billing segment",
			in.StartDate.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}

	rootID, err := s.createInTx(ctx, tx, in, segments)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to commit transaction series")
	}

	created, err := s.repo.FindOne(ctx, in.UserID, in.ProjectID, rootID)
	if err != nil {
		return nil, fmt.Errorf("re-reading created transaction %d: %w", rootID, apperr.ErrInternal)
	}

	utils.Logger.Infof("created transaction series %d (%d segments) in project %d", rootID, len(segments), in.ProjectID)
	return created, nil
}

func (s *Service) createInTx(ctx context.Context, tx *sql.Tx, in CreateInput, segments []recurrence.Segment) (int, error) {
	var rootID int
	var root *models.Transaction

	for i, seg := range segments {
		row := &models.Transaction{
			ProjectID:   in.ProjectID,
			ContactID:   in.ContactID,
			Title:       in.Title,
			Category:    in.Category,
			Type:        in.Type,
			Status:      in.Status,
			Recurrence:  in.Recurrence,
			ExpenseType: in.ExpenseType,
			Amount:      in.Amount,
			StartDate:   seg.Start,
			PaymentDate: in.PaymentDate,
		}
		// An open-ended one-time booking stays open-ended; a recurring
		// row always carries its segment's close date.
		if in.EndDate != nil || in.Recurrence == models.RecurrenceRecurring {
			segEnd := seg.End
			row.EndDate = &segEnd
		}
		if i > 0 {
			parentID := rootID
			row.ParentID = &parentID
		}

		if err := s.repo.Create(ctx, tx, row); err != nil {
			return 0, err
		}
		if i == 0 {
			rootID = row.ID
			root = row
		}

		if len(in.TaxIDs) > 0 {
			if err := s.taxes.Attach(ctx, tx, row.ID, in.TaxIDs); err != nil {
				return 0, err
			}
		}
		if len(in.AttachmentKeys) > 0 {
			if err := s.attachments.CreateFor(ctx, tx, models.AttachmentOwnerTransaction, row.ID, in.AttachmentKeys); err != nil {
				return 0, err
			}
		}
	}

	if err := s.audit.LogCreate(ctx, tx, in.UserID, entityTransaction, rootID, root); err != nil {
		return 0, err
	}
	return rootID, nil
}

// Update mutates the clicked row (scope ONE) or its whole series
// (scope ALL). Shared descriptive fields propagate to every targeted
// row and each row's version advances by exactly one; only a scope-ONE
// update touches the row's own date window. The version checks run as
// conditional UPDATEs inside the same transaction as the writes, so a
// racing writer surfaces as ErrConflict with nothing persisted.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*models.Transaction, error) {
	switch in.Scope {
	case models.ScopeOne:
	case models.ScopeAll:
		if in.RootVersion == nil {
			return nil, fmt.Errorf("root version is required for scope ALL: %w", apperr.ErrInvalidRequest)
		}
	default:
		return nil, fmt.Errorf("unknown scope %q: %w", in.Scope, apperr.ErrInvalidRequest)
	}

	clicked, err := s.repo.FindOne(ctx, in.UserID, in.ProjectID, in.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.updateInTx(ctx, tx, clicked, in); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to commit transaction update")
	}

	updated, err := s.repo.FindOne(ctx, in.UserID, in.ProjectID, in.ID)
	if err != nil {
		return nil, fmt.Errorf("re-reading updated transaction %d: %w", in.ID, apperr.ErrInternal)
	}
	return updated, nil
}

func (s *Service) updateInTx(ctx context.Context, tx *sql.Tx, clicked *models.Transaction, in UpdateInput) error {
	var targets []*models.Transaction

	switch in.Scope {
	case models.ScopeOne:
		targets = []*models.Transaction{clicked}
	case models.ScopeAll:
		series, err := s.repo.FindSeriesForUpdate(ctx, tx, clicked.RootID())
		if err != nil {
			return err
		}
		root := seriesRoot(series, clicked.RootID())
		if root == nil {
			return fmt.Errorf("series root %d vanished: %w", clicked.RootID(), apperr.ErrInternal)
		}
		if root.Version != *in.RootVersion {
			return apperr.ErrConflict
		}
		targets = series
	}

	for _, row := range targets {
		before := *row

		row.Title = in.Title
		row.Category = in.Category
		row.Status = in.Status
		row.Amount = in.Amount
		row.ExpenseType = in.ExpenseType
		row.PaymentDate = in.PaymentDate

		expected := row.Version
		includeDates := in.Scope == models.ScopeOne
		if includeDates {
			// The caller's version is the concurrency token for a
			// single-row update; the series lock covers scope ALL.
			expected = in.Version
			row.StartDate = in.StartDate
			row.EndDate = in.EndDate
		}

		if err := s.repo.Save(ctx, tx, row, expected, includeDates); err != nil {
			return err
		}

		if in.TaxIDs != nil {
			if err := s.taxes.DetachAll(ctx, tx, row.ID); err != nil {
				return err
			}
			if err := s.taxes.Attach(ctx, tx, row.ID, *in.TaxIDs); err != nil {
				return err
			}
		}
		if in.AttachmentKeys != nil {
			if err := s.attachments.RemoveAllFor(ctx, tx, models.AttachmentOwnerTransaction, row.ID); err != nil {
				return err
			}
			if err := s.attachments.CreateFor(ctx, tx, models.AttachmentOwnerTransaction, row.ID, *in.AttachmentKeys); err != nil {
				return err
			}
		}

		if err := s.audit.LogUpdate(ctx, tx, in.UserID, entityTransaction, row.ID, &before, row); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the clicked row (scope ONE) or the whole series
// (scope ALL), cleaning up each row's tax and attachment associations
// in the same transaction. The targeted rows are locked first so a
// concurrent series update serializes against the delete instead of
// interleaving with it; no caller-supplied version is required.
func (s *Service) Delete(ctx context.Context, in DeleteInput) error {
	if in.Scope != models.ScopeOne && in.Scope != models.ScopeAll {
		return fmt.Errorf("unknown scope %q: %w", in.Scope, apperr.ErrInvalidRequest)
	}

	clicked, err := s.repo.FindOne(ctx, in.UserID, in.ProjectID, in.ID)
	if err != nil {
		return err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}

	if err := s.deleteInTx(ctx, tx, clicked, in); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return utils.ErrorHandler(err, "failed to commit transaction delete")
	}

	utils.Logger.Infof("deleted transaction %d (scope %s) in project %d", in.ID, in.Scope, in.ProjectID)
	return nil
}

func (s *Service) deleteInTx(ctx context.Context, tx *sql.Tx, clicked *models.Transaction, in DeleteInput) error {
	var targets []*models.Transaction

	switch in.Scope {
	case models.ScopeOne:
		row, err := s.repo.FindOneForUpdate(ctx, tx, clicked.ID)
		if err != nil {
			return err
		}
		targets = []*models.Transaction{row}
	case models.ScopeAll:
		series, err := s.repo.FindSeriesForUpdate(ctx, tx, clicked.RootID())
		if err != nil {
			return err
		}
		targets = series
	}

	// Children go first so the root's self-reference never dangles.
	for _, row := range targets {
		if row.ParentID == nil {
			continue
		}
		if err := s.deleteRow(ctx, tx, in.UserID, row); err != nil {
			return err
		}
	}
	for _, row := range targets {
		if row.ParentID != nil {
			continue
		}
		if err := s.deleteRow(ctx, tx, in.UserID, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) deleteRow(ctx context.Context, tx *sql.Tx, userID int, row *models.Transaction) error {
	if err := s.audit.LogDelete(ctx, tx, userID, entityTransaction, row.ID, row); err != nil {
		return err
	}
	if err := s.attachments.RemoveAllFor(ctx, tx, models.AttachmentOwnerTransaction, row.ID); err != nil {
		return err
	}
	if err := s.taxes.DetachAll(ctx, tx, row.ID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tx, row.ID)
}

func seriesRoot(series []*models.Transaction, rootID int) *models.Transaction {
	for _, row := range series {
		if row.ID == rootID {
			return row
		}
	}
	return nil
}
