package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/pagination"
	"ledger/internal/response"
	"ledger/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	CategoryID  uint                   `json:"categoryId" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      decimal.Decimal        `json:"amount"`
	Date        string                 `json:"date"`
	Description string                 `json:"description" binding:"max=200"`
	AccountType string                 `json:"accountType" binding:"max=20"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
// All fields are optional; absent fields are left unchanged.
type UpdateTransactionRequest struct {
	CategoryID  *uint                   `json:"categoryId"`
	Type        *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Amount      *decimal.Decimal        `json:"amount"`
	Date        *string                 `json:"date"`
	Description *string                 `json:"description" binding:"omitempty,max=200"`
	AccountType *string                 `json:"accountType" binding:"omitempty,max=20"`
}

// listTransactionsQuery holds the query parameters for listing transactions.
type listTransactionsQuery struct {
	pagination.PageRequest
	Type       string `form:"type"`
	CategoryID *uint  `form:"categoryId"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
}

// parseOptionalDate parses a "2006-01-02" query value, nil when empty.
func parseOptionalDate(value string) (*models.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return &d, nil
}

// GetTransactions lists the user's transactions
// @Summary     List transactions
// @Description List the user's transactions with optional filters and pagination
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by type (income/expense)"
// @Param       categoryId query int false "Filter by category"
// @Param       startDate query string false "Inclusive start date (2006-01-02)"
// @Param       endDate query string false "Inclusive end date (2006-01-02)"
// @Param       page query int false "Page number (1-based)"
// @Param       limit query int false "Page size"
// @Success     200 {object} response.Envelope "Page of transactions"
// @Failure     401 {object} response.Envelope "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{CategoryID: query.CategoryID}
	switch query.Type {
	case string(models.TransactionTypeIncome):
		t := models.TransactionTypeIncome
		filter.Type = &t
	case string(models.TransactionTypeExpense):
		t := models.TransactionTypeExpense
		filter.Type = &t
	}
	if filter.StartDate, err = parseOptionalDate(query.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.EndDate, err = parseOptionalDate(query.EndDate); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "ok", gin.H{
		"transactions": result.Data,
		"pagination":   result.Pagination,
	})
}

// GetTransactionByID returns a single transaction
// @Summary     Get transaction
// @Description Get one of the user's transactions by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} response.Envelope "Transaction details"
// @Failure     404 {object} response.Envelope "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "ok", gin.H{"transaction": transaction})
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a new income or expense transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} response.Envelope "Transaction created"
// @Failure     400 {object} response.Envelope "Invalid input"
// @Failure     404 {object} response.Envelope "Category not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date models.Date
	if req.Date != "" {
		parsed, parseErr := models.ParseDate(req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		date = parsed
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID,
		req.CategoryID,
		req.Type,
		req.Amount,
		date,
		req.Description,
		req.AccountType,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount, "categoryId": req.CategoryID})

	response.Created(c, "created", gin.H{"transaction": transaction})
}

// UpdateTransaction handles a partial transaction update
// @Summary     Update transaction
// @Description Update one of the user's transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} response.Envelope "Updated transaction"
// @Failure     400 {object} response.Envelope "Invalid input"
// @Failure     404 {object} response.Envelope "Transaction or category not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.TransactionPatch{
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		AccountType: req.AccountType,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := models.ParseDate(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		patch.Date = &parsed
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	response.OK(c, "updated", gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Description Delete one of the user's transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} response.Envelope "Transaction deleted"
// @Failure     404 {object} response.Envelope "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	response.OK(c, "deleted", nil)
}

// GetStatistics returns aggregate totals and the per-category breakdown
// @Summary     Transaction statistics
// @Description Income/expense totals, balance, and per-category sums over an optional date range
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "Inclusive start date (2006-01-02)"
// @Param       endDate query string false "Inclusive end date (2006-01-02)"
// @Success     200 {object} response.Envelope "Statistics"
// @Failure     401 {object} response.Envelope "Unauthorized"
// @Router      /transactions/statistics [get]
func (h *TransactionHandler) GetStatistics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseOptionalDate(c.Query("startDate"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseOptionalDate(c.Query("endDate"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.transactionService.GetStatistics(userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, "ok", gin.H{
		"summary":       stats.Summary,
		"categoryStats": stats.CategoryStats,
	})
}
