package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	tRouter := transactionsRouter()
	mux.Handle("/transactions/", tRouter)

	rRouter := reportsRouter()
	mux.Handle("/reports/", rRouter)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}
