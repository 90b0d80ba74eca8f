// Package transactions is the persistence gateway for transaction
// rows. Write methods take the caller's *sql.Tx so every row of a
// series and its companion side effects commit or roll back together;
// reads are ownership-scoped to the authenticated user's projects.
package transactions

import (
	"context"
	"database/sql"
	"errors"

	"renovest/internal/apperr"
	"renovest/internal/models"
	"renovest/pkg/utils"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to start transaction")
	}
	return tx, nil
}

const columns = `id, project_id, contact_id, parent_id, title, category, type, status, recurrence,
	expense_type, amount, start_date, end_date, payment_date, version, created_at, updated_at`

func scanRow(row interface{ Scan(dest ...any) error }, t *models.Transaction) error {
	return row.Scan(&t.ID, &t.ProjectID, &t.ContactID, &t.ParentID, &t.Title, &t.Category,
		&t.Type, &t.Status, &t.Recurrence, &t.ExpenseType, &t.Amount, &t.StartDate,
		&t.EndDate, &t.PaymentDate, &t.Version, &t.CreatedAt, &t.UpdatedAt)
}

// Create persists one row with version 0 and fills in its id.
// ProjectID, ContactID and ParentID are plain references; the caller
// is responsible for having checked them.
func (r *Repository) Create(ctx context.Context, q Querier, t *models.Transaction) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO transactions
			(project_id, contact_id, parent_id, title, category, type, status, recurrence,
			 expense_type, amount, start_date, end_date, payment_date, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		t.ProjectID, t.ContactID, t.ParentID, t.Title, t.Category, t.Type, t.Status,
		t.Recurrence, t.ExpenseType, t.Amount, t.StartDate, t.EndDate, t.PaymentDate)
	if err != nil {
		return utils.ErrorHandler(err, "failed to insert transaction")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return utils.ErrorHandler(err, "failed to read inserted transaction id")
	}
	t.ID = int(id)
	t.Version = 0
	return nil
}

// Save writes the row's mutable fields with a conditional
// UPDATE ... WHERE version = ?, so the version check holds at the SQL
// level even against a writer that raced past an earlier read. Zero
// affected rows means the caller lost the race and surfaces as
// ErrConflict. includeDates controls whether the row's own date window
// is overwritten: a scope-ALL update propagates shared fields only.
// On success the row's version is advanced to expectedVersion+1.
func (r *Repository) Save(ctx context.Context, q Querier, t *models.Transaction, expectedVersion int, includeDates bool) error {
	var (
		res sql.Result
		err error
	)
	if includeDates {
		res, err = q.ExecContext(ctx, `
			UPDATE transactions
			SET title = ?, category = ?, status = ?, expense_type = ?, amount = ?,
				payment_date = ?, start_date = ?, end_date = ?, version = version + 1
			WHERE id = ? AND version = ?`,
			t.Title, t.Category, t.Status, t.ExpenseType, t.Amount,
			t.PaymentDate, t.StartDate, t.EndDate, t.ID, expectedVersion)
	} else {
		res, err = q.ExecContext(ctx, `
			UPDATE transactions
			SET title = ?, category = ?, status = ?, expense_type = ?, amount = ?,
				payment_date = ?, version = version + 1
			WHERE id = ? AND version = ?`,
			t.Title, t.Category, t.Status, t.ExpenseType, t.Amount,
			t.PaymentDate, t.ID, expectedVersion)
	}
	if err != nil {
		return utils.ErrorHandler(err, "failed to update transaction")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return utils.ErrorHandler(err, "failed to read affected rows")
	}
	if affected == 0 {
		return apperr.ErrConflict
	}
	t.Version = expectedVersion + 1
	return nil
}

func (r *Repository) Delete(ctx context.Context, q Querier, id int) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return utils.ErrorHandler(err, "failed to delete transaction")
	}
	return nil
}

// FindOne loads one ownership-checked row with its contact, taxes and
// attachments eagerly attached. Parent/children are a separate concern
// (FindSeriesForUpdate).
func (r *Repository) FindOne(ctx context.Context, userID, projectID, id int) (*models.Transaction, error) {
	t := &models.Transaction{}
	row := r.db.QueryRowContext(ctx, `
		SELECT t.`+joinColumns()+`
		FROM transactions t
		JOIN projects p ON t.project_id = p.id
		WHERE t.id = ? AND t.project_id = ? AND p.user_id = ?`,
		id, projectID, userID)
	if err := scanRow(row, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, utils.ErrorHandler(err, "failed to fetch transaction")
	}

	if err := r.loadRelations(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) loadRelations(ctx context.Context, t *models.Transaction) error {
	contact := &models.Contact{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, email, phone, company, created_at, updated_at FROM contacts WHERE id = ?",
		t.ContactID,
	).Scan(&contact.ID, &contact.UserID, &contact.Name, &contact.Email, &contact.Phone,
		&contact.Company, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return utils.ErrorHandler(err, "failed to fetch transaction contact")
	}
	if err == nil {
		t.Contact = contact
	}

	taxRows, err := r.db.QueryContext(ctx, `
		SELECT x.id, x.name, x.rate
		FROM taxes x
		JOIN transaction_taxes tt ON tt.tax_id = x.id
		WHERE tt.transaction_id = ?`, t.ID)
	if err != nil {
		return utils.ErrorHandler(err, "failed to fetch transaction taxes")
	}
	defer taxRows.Close()
	for taxRows.Next() {
		var tax models.Tax
		if err := taxRows.Scan(&tax.ID, &tax.Name, &tax.Rate); err != nil {
			return utils.ErrorHandler(err, "failed to scan tax")
		}
		t.Taxes = append(t.Taxes, tax)
	}
	if err := taxRows.Err(); err != nil {
		return utils.ErrorHandler(err, "failed to read transaction taxes")
	}

	attRows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_type, owner_id, file_key, created_at
		FROM attachments
		WHERE owner_type = ? AND owner_id = ?`,
		models.AttachmentOwnerTransaction, t.ID)
	if err != nil {
		return utils.ErrorHandler(err, "failed to fetch transaction attachments")
	}
	defer attRows.Close()
	for attRows.Next() {
		var a models.Attachment
		if err := attRows.Scan(&a.ID, &a.OwnerType, &a.OwnerID, &a.FileKey, &a.CreatedAt); err != nil {
			return utils.ErrorHandler(err, "failed to scan attachment")
		}
		t.Attachments = append(t.Attachments, a)
	}
	if err := attRows.Err(); err != nil {
		return utils.ErrorHandler(err, "failed to read transaction attachments")
	}

	return nil
}

// DefaultListOrder is the ordering FindMany applies when the caller
// has no sorting preference.
const DefaultListOrder = "t.start_date DESC, t.id DESC"

// FindMany lists a project's transactions for one user with a
// page/limit window. orderBy must be a pre-validated expression such
// as DefaultListOrder; it is interpolated, never caller input.
func (r *Repository) FindMany(ctx context.Context, userID, projectID, limit, offset int, orderBy string) ([]models.Transaction, error) {
	if orderBy == "" {
		orderBy = DefaultListOrder
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.`+joinColumns()+`
		FROM transactions t
		JOIN projects p ON t.project_id = p.id
		WHERE t.project_id = ? AND p.user_id = ?
		ORDER BY `+orderBy+`
		LIMIT ? OFFSET ?`,
		projectID, userID, limit, offset)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list transactions")
	}
	defer rows.Close()

	var list []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanRow(rows, &t); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan transaction")
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to read transactions")
	}
	return list, nil
}

// FindOneForUpdate re-reads one row inside the caller's transaction
// with a row lock, without relations.
func (r *Repository) FindOneForUpdate(ctx context.Context, q Querier, id int) (*models.Transaction, error) {
	t := &models.Transaction{}
	row := q.QueryRowContext(ctx, `
		SELECT `+columns+`
		FROM transactions
		WHERE id = ?
		FOR UPDATE`, id)
	if err := scanRow(row, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, utils.ErrorHandler(err, "failed to lock transaction")
	}
	return t, nil
}

// FindSeriesForUpdate loads the whole series (root row plus every row
// whose parent is the root) inside the caller's transaction, locking
// the rows so concurrent series writers serialize. Rows come back in
// ascending start-date order.
func (r *Repository) FindSeriesForUpdate(ctx context.Context, q Querier, rootID int) ([]*models.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+columns+`
		FROM transactions
		WHERE id = ? OR parent_id = ?
		ORDER BY start_date ASC, id ASC
		FOR UPDATE`,
		rootID, rootID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to lock transaction series")
	}
	defer rows.Close()

	var series []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		if err := scanRow(rows, t); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan series row")
		}
		series = append(series, t)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to read transaction series")
	}
	if len(series) == 0 {
		return nil, apperr.ErrNotFound
	}
	return series, nil
}

// joinColumns prefixes the shared column list for aliased selects.
func joinColumns() string {
	return `id, t.project_id, t.contact_id, t.parent_id, t.title, t.category, t.type, t.status, t.recurrence,
	t.expense_type, t.amount, t.start_date, t.end_date, t.payment_date, t.version, t.created_at, t.updated_at`
}
