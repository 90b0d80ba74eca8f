package transactions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"renovest/internal/apperr"
	"renovest/internal/models"
)

var txColumns = []string{
	"id", "project_id", "contact_id", "parent_id", "title", "category", "type", "status",
	"recurrence", "expense_type", "amount", "start_date", "end_date", "payment_date",
	"version", "created_at", "updated_at",
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateAssignsIDAndVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(42, 1))

	repo := NewRepository(db)
	row := &models.Transaction{
		ProjectID:  1,
		ContactID:  2,
		Title:      "Rent office container",
		Type:       models.TransactionTypeExpense,
		Status:     models.TransactionStatusToInvoice,
		Recurrence: models.RecurrenceRecurring,
		Amount:     decimal.NewFromInt(1000),
		StartDate:  date(2024, time.January, 15),
		Version:    7, // must be reset, new rows always start at 0
	}
	if err := repo.Create(context.Background(), db, row); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if row.ID != 42 {
		t.Errorf("ID = %d, want 42", row.ID)
	}
	if row.Version != 0 {
		t.Errorf("Version = %d, want 0", row.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSaveBumpsVersionByOne(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRepository(db)
	row := &models.Transaction{ID: 5, Title: "Updated", Amount: decimal.NewFromInt(50), Version: 3}
	if err := repo.Save(context.Background(), db, row, 3, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if row.Version != 4 {
		t.Errorf("Version = %d, want 4", row.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSaveStaleVersionIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// Zero affected rows means another writer got there first.
	mock.ExpectExec("UPDATE transactions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(db)
	row := &models.Transaction{ID: 5, Title: "Updated", Amount: decimal.NewFromInt(50), Version: 2}
	err = repo.Save(context.Background(), db, row, 2, true)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if row.Version != 2 {
		t.Errorf("Version must stay untouched on conflict, got %d", row.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFindOneNotOwnedIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT t.id").WillReturnError(sql.ErrNoRows)

	repo := NewRepository(db)
	_, err = repo.FindOne(context.Background(), 1, 2, 3)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindSeriesForUpdateReturnsWholeSeries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(txColumns).
		AddRow(10, 1, 2, nil, "Rent", "rent", "EXPENSE", "TO_INVOICE", "RECURRING",
			nil, "1000.00", date(2024, time.January, 15), date(2024, time.February, 15), nil, 0, time.Now(), time.Now()).
		AddRow(11, 1, 2, 10, "Rent", "rent", "EXPENSE", "TO_INVOICE", "RECURRING",
			nil, "1000.00", date(2024, time.February, 15), date(2024, time.March, 15), nil, 0, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(10, 10).
		WillReturnRows(rows)

	repo := NewRepository(db)
	series, err := repo.FindSeriesForUpdate(context.Background(), db, 10)
	if err != nil {
		t.Fatalf("FindSeriesForUpdate failed: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(series))
	}
	if series[0].ID != 10 || series[0].ParentID != nil {
		t.Errorf("first row should be the root, got %+v", series[0])
	}
	if series[1].ParentID == nil || *series[1].ParentID != 10 {
		t.Errorf("child row should point at the root, got %+v", series[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFindSeriesForUpdateEmptyIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(99, 99).
		WillReturnRows(sqlmock.NewRows(txColumns))

	repo := NewRepository(db)
	_, err = repo.FindSeriesForUpdate(context.Background(), db, 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
