package routers

import (
	"net/http"
	"renovest/internal/api/handlers/reports"
)

func reportsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /reports/totals/year/{year}", reports.GetYearTotals)

	mux.HandleFunc("GET /reports/totals/categories/{year}", reports.GetCategoryTotals)

	mux.HandleFunc("GET /reports/totals/project-status", reports.GetProjectStatusTotals)

	mux.HandleFunc("GET /reports/history/monthly", reports.GetMonthlyHistory)

	mux.HandleFunc("GET /reports/expenses/upcoming", reports.GetUpcomingExpenses)

	return mux
}
