package routers

import (
	"net/http"
	"renovest/internal/api/handlers/transactions"
)

func transactionsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /transactions/", transactions.CreateTransactionHandler)

	mux.HandleFunc("GET /transactions/{id}", transactions.GetTransactionById)

	mux.HandleFunc("GET /transactions/project/{projectId}", transactions.GetProjectTransactions)

	mux.HandleFunc("PATCH /transactions/{id}", transactions.UpdateTransactionHandler)

	mux.HandleFunc("DELETE /transactions/{id}", transactions.DeleteTransactionHandler)

	return mux
}
