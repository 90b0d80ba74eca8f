package cron

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	txrepo "renovest/internal/repositories/transactions"
	"renovest/pkg/utils"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs every 6 hours: sweep attachment records whose owning
	// transaction no longer exists.
	_, err := c.AddFunc("0 */6 * * *", func() {
		if err := SweepOrphanedAttachments(db); err != nil {
			utils.Logger.Errorf("Cron job failed to sweep orphaned attachments: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule attachment sweep job: %v", err)
	}

	// Runs daily at midnight: remind owners about unpaid expenses
	// falling due within the week.
	_, err = c.AddFunc("0 0 * * *", func() {
		if err := SendUpcomingExpenseReminders(db); err != nil {
			utils.Logger.Errorf("Cron job failed to send expense reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule expense reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (attachment sweep every 6h, expense reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Remove attachment records left behind by out-of-band deletions
// -------------------------------------------------------------
func SweepOrphanedAttachments(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		DELETE a FROM attachments a
		LEFT JOIN transactions t ON a.owner_id = t.id
		WHERE a.owner_type = 'TRANSACTION' AND t.id IS NULL
	`)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		utils.Logger.Infof("Swept %d orphaned attachment records", rowsAffected)
	}
	return nil
}

// -------------------------------------------------------------
// Send daily reminders about unpaid expenses due within 7 days
// (email sends run concurrently)
// -------------------------------------------------------------
func SendUpcomingExpenseReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	repo := txrepo.NewRepository(db)
	upcoming, err := repo.UpcomingUnpaidExpenses(ctx, 0, 7)
	if err != nil {
		return err
	}

	// Sized to the full batch so a run where every send fails still
	// drains instead of blocking wg.Wait forever.
	var wg sync.WaitGroup
	errChan := make(chan error, len(upcoming))

	for _, expense := range upcoming {
		wg.Add(1)
		go func(e txrepo.UpcomingExpense) {
			defer wg.Done()

			if err := utils.SendExpenseReminderEmail(
				e.OwnerEmail,
				e.OwnerName,
				e.Title,
				e.Amount.StringFixed(2),
				e.PaymentDate,
			); err != nil {
				errChan <- err
				return
			}

			utils.Logger.Infof("📧 Sent expense reminder to %s — €%s for '%s' due %s",
				e.OwnerEmail, e.Amount.StringFixed(2), e.Title, e.PaymentDate.Format("2006-01-02"))
		}(expense)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	utils.Logger.Info("✅ Finished sending expense reminder emails.")
	return nil
}
