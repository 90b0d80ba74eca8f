package transactions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"renovest/internal/api/handlers"
	"renovest/internal/models"
	"renovest/internal/repositories/sqlconnect"
	txrepo "renovest/internal/repositories/transactions"
	"renovest/internal/services/attachments"
	"renovest/internal/services/audit"
	"renovest/internal/services/contacts"
	"renovest/internal/services/projects"
	"renovest/internal/services/taxes"
	txservice "renovest/internal/services/transactions"
	"renovest/pkg/utils"
)

var (
	initOnce sync.Once
	svc      *txservice.Service
	repo     *txrepo.Repository
)

func initServices() {
	db := sqlconnect.DB
	repo = txrepo.NewRepository(db)
	svc = txservice.NewService(
		repo,
		projects.NewService(db),
		contacts.NewService(db),
		taxes.NewService(),
		attachments.NewService(),
		audit.NewService(),
	)
}

func service() *txservice.Service {
	initOnce.Do(initServices)
	return svc
}

func repository() *txrepo.Repository {
	initOnce.Do(initServices)
	return repo
}

type createRequest struct {
	ProjectID      int             `json:"project_id"`
	ContactID      int             `json:"contact_id"`
	Title          string          `json:"title"`
	Category       string          `json:"category"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Recurrence     string          `json:"recurrence"`
	ExpenseType    *string         `json:"expense_type"`
	Amount         decimal.Decimal `json:"amount"`
	StartDate      string          `json:"start_date"`
	EndDate        *string         `json:"end_date"`
	PaymentDate    *string         `json:"payment_date"`
	TaxIDs         []int           `json:"tax_ids"`
	AttachmentKeys []string        `json:"attachment_keys"`
}

// FUNC TO CREATE A TRANSACTION SERIES
func CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
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

	var req createRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Title == "" || req.ProjectID == 0 || req.ContactID == 0 {
		utils.WriteError(w, "project_id, contact_id and title are required", http.StatusBadRequest)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}

	startDate, err := handlers.ParseDate(req.StartDate)
	if err != nil {
		utils.WriteError(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := handlers.ParseOptionalDate(req.EndDate)
	if err != nil {
		utils.WriteError(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	paymentDate, err := handlers.ParseOptionalDate(req.PaymentDate)
	if err != nil {
		utils.WriteError(w, "invalid payment_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	txType, recurrenceKind, status, ok := parseClassification(req.Type, req.Recurrence, req.Status)
	if !ok {
		utils.WriteError(w, "invalid type, recurrence or status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := service().Create(ctx, txservice.CreateInput{
		UserID:         userID,
		ProjectID:      req.ProjectID,
		ContactID:      req.ContactID,
		Title:          req.Title,
		Category:       req.Category,
		Type:           txType,
		Status:         status,
		Recurrence:     recurrenceKind,
		Amount:         req.Amount,
		StartDate:      startDate,
		EndDate:        endDate,
		PaymentDate:    paymentDate,
		ExpenseType:    req.ExpenseType,
		TaxIDs:         req.TaxIDs,
		AttachmentKeys: req.AttachmentKeys,
	})
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"data":   created,
	})
}

// FUNC TO GET ONE TRANSACTION BY ID
func GetTransactionById(w http.ResponseWriter, r *http.Request) {
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

	transactionID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}
	projectID, err := strconv.Atoi(r.URL.Query().Get("projectId"))
	if err != nil {
		utils.WriteError(w, "projectId query parameter is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	transaction, err := repository().FindOne(ctx, userID, projectID, transactionID)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   transaction,
	})
}

// FUNC TO GET ALL TRANSACTIONS OF A PROJECT
func GetProjectTransactions(w http.ResponseWriter, r *http.Request) {
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

	projectID, err := strconv.Atoi(r.PathValue("projectId"))
	if err != nil {
		utils.WriteError(w, "invalid project ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit
	orderBy := utils.AddSorting(r, txrepo.DefaultListOrder)

	list, err := repository().FindMany(ctx, userID, projectID, limit, offset, orderBy)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	if len(list) == 0 {
		utils.WriteJSON(w, map[string]interface{}{
			"status":  "success",
			"message": "no transaction found for this project",
			"data":    []models.Transaction{},
		})
		return
	}

	utils.WriteJSON(w, struct {
		Status   string               `json:"status"`
		Count    int                  `json:"count"`
		Page     int                  `json:"page"`
		PageSize int                  `json:"page_size"`
		Data     []models.Transaction `json:"data"`
	}{
		Status:   "success",
		Count:    len(list),
		Page:     page,
		PageSize: limit,
		Data:     list,
	})
}

type updateRequest struct {
	ProjectID      int             `json:"project_id"`
	Version        int             `json:"version"`
	Scope          string          `json:"scope"`
	RootVersion    *int            `json:"root_version"`
	Title          string          `json:"title"`
	Category       string          `json:"category"`
	Status         string          `json:"status"`
	ExpenseType    *string         `json:"expense_type"`
	Amount         decimal.Decimal `json:"amount"`
	StartDate      string          `json:"start_date"`
	EndDate        *string         `json:"end_date"`
	PaymentDate    *string         `json:"payment_date"`
	TaxIDs         *[]int          `json:"tax_ids"`
	AttachmentKeys *[]string       `json:"attachment_keys"`
}

// FUNC TO UPDATE A TRANSACTION (SCOPE ONE OR ALL)
func UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
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

	transactionID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}

	var req updateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}

	startDate, err := handlers.ParseDate(req.StartDate)
	if err != nil {
		utils.WriteError(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := handlers.ParseOptionalDate(req.EndDate)
	if err != nil {
		utils.WriteError(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	paymentDate, err := handlers.ParseOptionalDate(req.PaymentDate)
	if err != nil {
		utils.WriteError(w, "invalid payment_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	status := models.TransactionStatus(req.Status)
	if status != models.TransactionStatusToInvoice && status != models.TransactionStatusInvoiced {
		utils.WriteError(w, "invalid status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := service().Update(ctx, txservice.UpdateInput{
		ID:             transactionID,
		UserID:         userID,
		ProjectID:      req.ProjectID,
		Version:        req.Version,
		Scope:          models.UpdateScope(req.Scope),
		RootVersion:    req.RootVersion,
		Title:          req.Title,
		Category:       req.Category,
		Status:         status,
		Amount:         req.Amount,
		ExpenseType:    req.ExpenseType,
		StartDate:      startDate,
		EndDate:        endDate,
		PaymentDate:    paymentDate,
		TaxIDs:         req.TaxIDs,
		AttachmentKeys: req.AttachmentKeys,
	})
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   updated,
	})
}

// FUNC TO DELETE A TRANSACTION (SCOPE ONE OR ALL)
func DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
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

	transactionID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}
	projectID, err := strconv.Atoi(r.URL.Query().Get("projectId"))
	if err != nil {
		utils.WriteError(w, "projectId query parameter is required", http.StatusBadRequest)
		return
	}
	scope := models.UpdateScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = models.ScopeOne
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := service().Delete(ctx, txservice.DeleteInput{
		ID:        transactionID,
		UserID:    userID,
		ProjectID: projectID,
		Scope:     scope,
	}); err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "transaction deleted",
	})
}

func parseClassification(txType, recurrenceKind, status string) (models.TransactionType, models.Recurrence, models.TransactionStatus, bool) {
	t := models.TransactionType(txType)
	if t != models.TransactionTypeExpense && t != models.TransactionTypeRevenue {
		return "", "", "", false
	}

	rec := models.Recurrence(recurrenceKind)
	if rec == "" {
		rec = models.RecurrenceOneTime
	}
	if rec != models.RecurrenceOneTime && rec != models.RecurrenceRecurring {
		return "", "", "", false
	}

	st := models.TransactionStatus(status)
	if st == "" {
		st = models.TransactionStatusToInvoice
	}
	if st != models.TransactionStatusToInvoice && st != models.TransactionStatusInvoiced {
		return "", "", "", false
	}
	return t, rec, st, true
}
