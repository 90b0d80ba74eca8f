package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeExpense TransactionType = "EXPENSE"
	TransactionTypeRevenue TransactionType = "REVENUE"
)

type Recurrence string

const (
	RecurrenceOneTime   Recurrence = "ONE_TIME"
	RecurrenceRecurring Recurrence = "RECURRING"
)

type TransactionStatus string

const (
	TransactionStatusToInvoice TransactionStatus = "TO_INVOICE"
	TransactionStatusInvoiced  TransactionStatus = "INVOICED"
)

// UpdateScope is the blast radius of an update or delete: the clicked
// row only, or the whole series the row belongs to.
type UpdateScope string

const (
	ScopeOne UpdateScope = "ONE"
	ScopeAll UpdateScope = "ALL"
)

// Transaction is one billing row. A recurring booking is stored as a
// series: a root row (parent_id NULL) plus one child row per monthly
// segment, all pointing directly at the root.
type Transaction struct {
	ID          int               `json:"id,omitempty" db:"id,omitempty"`
	ProjectID   int               `json:"project_id,omitempty" db:"project_id,omitempty"`
	ContactID   int               `json:"contact_id,omitempty" db:"contact_id,omitempty"`
	ParentID    *int              `json:"parent_id,omitempty" db:"parent_id,omitempty"`
	Title       string            `json:"title,omitempty" db:"title,omitempty"`
	Category    string            `json:"category,omitempty" db:"category,omitempty"`
	Type        TransactionType   `json:"type,omitempty" db:"type,omitempty"`
	Status      TransactionStatus `json:"status,omitempty" db:"status,omitempty"`
	Recurrence  Recurrence        `json:"recurrence,omitempty" db:"recurrence,omitempty"`
	ExpenseType *string           `json:"expense_type,omitempty" db:"expense_type,omitempty"`
	Amount      decimal.Decimal   `json:"amount,omitempty" db:"amount,omitempty"`
	StartDate   time.Time         `json:"start_date,omitempty" db:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty" db:"end_date,omitempty"`
	PaymentDate *time.Time        `json:"payment_date,omitempty" db:"payment_date,omitempty"`
	Version     int               `json:"version" db:"version"`
	CreatedAt   sql.NullTime      `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt   sql.NullTime      `json:"updated_at,omitempty" db:"updated_at,omitempty"`

	Contact     *Contact     `json:"contact,omitempty"`
	Taxes       []Tax        `json:"taxes,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// RootID resolves the series root for a row: its parent, or the row
// itself when it has none.
func (t *Transaction) RootID() int {
	if t.ParentID != nil {
		return *t.ParentID
	}
	return t.ID
}
