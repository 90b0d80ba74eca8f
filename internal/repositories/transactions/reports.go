package transactions

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"renovest/internal/models"
	"renovest/pkg/utils"
)

// Read-only report aggregates over the caller's projects. These sit
// outside the concurrency-sensitive write path.

type TypeTotal struct {
	Type  models.TransactionType `json:"type"`
	Total decimal.Decimal        `json:"total"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type ProjectStatusTotal struct {
	Status models.ProjectStatus `json:"status"`
	Total  decimal.Decimal      `json:"total"`
}

type MonthTotal struct {
	Month   string          `json:"month"`
	Expense decimal.Decimal `json:"expense"`
	Revenue decimal.Decimal `json:"revenue"`
}

type UpcomingExpense struct {
	ID          int             `json:"id"`
	ProjectID   int             `json:"project_id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	OwnerEmail  string          `json:"owner_email,omitempty"`
	OwnerName   string          `json:"owner_name,omitempty"`
}

func (r *Repository) TotalsByYear(ctx context.Context, userID, year int) ([]TypeTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.type, COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		JOIN projects p ON t.project_id = p.id
		WHERE p.user_id = ? AND YEAR(t.start_date) = ?
		GROUP BY t.type`,
		userID, year)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to aggregate totals by year")
	}
	defer rows.Close()

	var totals []TypeTotal
	for rows.Next() {
		var tt TypeTotal
		if err := rows.Scan(&tt.Type, &tt.Total); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan yearly total")
		}
		totals = append(totals, tt)
	}
	return totals, rows.Err()
}

func (r *Repository) TotalsByCategory(ctx context.Context, userID, year int) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.category, COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		JOIN projects p ON t.project_id = p.id
		WHERE p.user_id = ? AND YEAR(t.start_date) = ? AND t.type = ?
		GROUP BY t.category
		ORDER BY total DESC`,
		userID, year, models.TransactionTypeExpense)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to aggregate totals by category")
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan category total")
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (r *Repository) TotalsByProjectStatus(ctx context.Context, userID int) ([]ProjectStatusTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.status, COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		JOIN projects p ON t.project_id = p.id
		WHERE p.user_id = ?
		GROUP BY p.status`,
		userID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to aggregate totals by project status")
	}
	defer rows.Close()

	var totals []ProjectStatusTotal
	for rows.Next() {
		var pt ProjectStatusTotal
		if err := rows.Scan(&pt.Status, &pt.Total); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan project status total")
		}
		totals = append(totals, pt)
	}
	return totals, rows.Err()
}

// MonthlyHistory returns expense/revenue sums per month for the last
// twelve months, oldest first.
func (r *Repository) MonthlyHistory(ctx context.Context, userID int) ([]MonthTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(t.start_date, '%Y-%m') AS month,
			COALESCE(SUM(CASE WHEN t.type = 'EXPENSE' THEN t.amount ELSE 0 END), 0) AS expense,
			COALESCE(SUM(CASE WHEN t.type = 'REVENUE' THEN t.amount ELSE 0 END), 0) AS revenue
		FROM transactions t
		JOIN projects p ON t.project_id = p.id
		WHERE p.user_id = ? AND t.start_date >= DATE_SUB(CURDATE(), INTERVAL 12 MONTH)
		GROUP BY month
		ORDER BY month ASC`,
		userID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to aggregate monthly history")
	}
	defer rows.Close()

	var history []MonthTotal
	for rows.Next() {
		var mt MonthTotal
		if err := rows.Scan(&mt.Month, &mt.Expense, &mt.Revenue); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan monthly total")
		}
		history = append(history, mt)
	}
	return history, rows.Err()
}

// UpcomingUnpaidExpenses lists TO_INVOICE expenses whose payment date
// falls within the next `days` days. A zero userID widens the query to
// every owner, which the reminder cron uses to build its digest.
func (r *Repository) UpcomingUnpaidExpenses(ctx context.Context, userID, days int) ([]UpcomingExpense, error) {
	query := `
		SELECT t.id, t.project_id, t.title, t.amount, t.payment_date, u.email, u.first_name
		FROM transactions t
		JOIN projects p ON t.project_id = p.id
		JOIN users u ON p.user_id = u.id
		WHERE t.type = 'EXPENSE' AND t.status = 'TO_INVOICE'
			AND t.payment_date IS NOT NULL
			AND t.payment_date BETWEEN CURDATE() AND DATE_ADD(CURDATE(), INTERVAL ? DAY)`
	args := []any{days}
	if userID != 0 {
		query += " AND p.user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY t.payment_date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list upcoming unpaid expenses")
	}
	defer rows.Close()

	var upcoming []UpcomingExpense
	for rows.Next() {
		var e UpcomingExpense
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Title, &e.Amount, &e.PaymentDate, &e.OwnerEmail, &e.OwnerName); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan upcoming expense")
		}
		upcoming = append(upcoming, e)
	}
	return upcoming, rows.Err()
}
