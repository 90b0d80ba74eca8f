package reports

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"renovest/internal/api/handlers"
	"renovest/internal/repositories/sqlconnect"
	txrepo "renovest/internal/repositories/transactions"
	"renovest/pkg/utils"
)

var (
	initOnce sync.Once
	repo     *txrepo.Repository
)

func repository() *txrepo.Repository {
	initOnce.Do(func() {
		repo = txrepo.NewRepository(sqlconnect.DB)
	})
	return repo
}

// FUNC TO GET REVENUE/EXPENSE TOTALS FOR A YEAR
func GetYearTotals(w http.ResponseWriter, r *http.Request) {
	if sqlconnect.DB == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		utils.WriteError(w, "invalid year", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	totals, err := repository().TotalsByYear(ctx, userID, year)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"year":   year,
		"data":   totals,
	})
}

// FUNC TO GET EXPENSE TOTALS PER CATEGORY FOR A YEAR
func GetCategoryTotals(w http.ResponseWriter, r *http.Request) {
	if sqlconnect.DB == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		utils.WriteError(w, "invalid year", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	totals, err := repository().TotalsByCategory(ctx, userID, year)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"year":   year,
		"data":   totals,
	})
}

// FUNC TO GET TOTALS GROUPED BY PROJECT STATUS
func GetProjectStatusTotals(w http.ResponseWriter, r *http.Request) {
	if sqlconnect.DB == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	totals, err := repository().TotalsByProjectStatus(ctx, userID)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   totals,
	})
}

// FUNC TO GET THE LAST 12 MONTHS OF EXPENSE/REVENUE HISTORY
func GetMonthlyHistory(w http.ResponseWriter, r *http.Request) {
	if sqlconnect.DB == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	history, err := repository().MonthlyHistory(ctx, userID)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   history,
	})
}

// FUNC TO GET UPCOMING UNPAID EXPENSES
func GetUpcomingExpenses(w http.ResponseWriter, r *http.Request) {
	if sqlconnect.DB == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	days := 30
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		days = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	upcoming, err := repository().UpcomingUnpaidExpenses(ctx, userID, days)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(upcoming),
		"data":   upcoming,
	})
}
