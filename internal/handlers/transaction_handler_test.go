package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/pagination"
	"ledger/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	getUserTransactionsFn func(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(userID, transactionID uint) (*models.Transaction, error)
	createTransactionFn   func(userID, categoryID uint, transactionType models.TransactionType, amount decimal.Decimal, date models.Date, description, accountType string) (*models.Transaction, error)
	updateTransactionFn   func(userID, transactionID uint, patch services.TransactionPatch) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID uint) error
	getStatisticsFn       func(userID uint, startDate, endDate *models.Date) (*services.Statistics, error)
}

func (m *mockTransactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) CreateTransaction(userID, categoryID uint, transactionType models.TransactionType, amount decimal.Decimal, date models.Date, description, accountType string) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, categoryID, transactionType, amount, date, description, accountType)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID uint, patch services.TransactionPatch) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, patch)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetStatistics(userID uint, startDate, endDate *models.Date) (*services.Statistics, error) {
	if m.getStatisticsFn != nil {
		return m.getStatisticsFn(userID, startDate, endDate)
	}
	return &services.Statistics{CategoryStats: []services.CategoryStat{}}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/statistics", handler.GetStatistics)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.POST("/transactions", handler.CreateTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("returns 200 with page", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ uint, _ pagination.PageRequest, _ services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				resp := pagination.NewPageResponse([]models.Transaction{
					{Base: models.Base{ID: 1}, Type: "expense"},
					{Base: models.Base{ID: 2}, Type: "income"},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := envelopeData(t, rec)
		transactions := data["transactions"].([]interface{})
		if len(transactions) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(transactions))
		}
		meta := data["pagination"].(map[string]interface{})
		if meta["total"] != float64(2) {
			t.Errorf("expected total 2, got %v", meta["total"])
		}
	})

	t.Run("passes filters through", func(t *testing.T) {
		var capturedFilter services.TransactionFilter
		var capturedPage pagination.PageRequest
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				capturedFilter = filter
				capturedPage = page
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		doRequest(r, "GET", "/transactions?type=expense&categoryId=7&startDate=2026-01-01&endDate=2026-01-31&page=2&limit=10", "")

		if capturedFilter.Type == nil || *capturedFilter.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense filter, got %v", capturedFilter.Type)
		}
		if capturedFilter.CategoryID == nil || *capturedFilter.CategoryID != 7 {
			t.Errorf("expected category filter 7, got %v", capturedFilter.CategoryID)
		}
		if capturedFilter.StartDate == nil || capturedFilter.StartDate.Format(models.DateFormat) != "2026-01-01" {
			t.Errorf("expected start date 2026-01-01, got %v", capturedFilter.StartDate)
		}
		if capturedFilter.EndDate == nil || capturedFilter.EndDate.Format(models.DateFormat) != "2026-01-31" {
			t.Errorf("expected end date 2026-01-31, got %v", capturedFilter.EndDate)
		}
		if capturedPage.Page != 2 || capturedPage.Limit != 10 {
			t.Errorf("expected page 2 limit 10, got %+v", capturedPage)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?startDate=January", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, txID uint) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: txID}, Description: "Lunch"}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := envelopeData(t, rec)
		tx := data["transaction"].(map[string]interface{})
		if tx["description"] != "Lunch" {
			t.Errorf("expected description Lunch, got %v", tx["description"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, _ uint) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertEnvelopeCode(t, rec, http.StatusNotFound)
	})
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_, categoryID uint, txType models.TransactionType, amount decimal.Decimal, _ models.Date, description, _ string) (*models.Transaction, error) {
				return &models.Transaction{
					Base:        models.Base{ID: 1},
					CategoryID:  categoryID,
					Type:        txType,
					Amount:      amount,
					Description: description,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"categoryId":3,"type":"expense","amount":"25.50","date":"2026-08-01","description":"Lunch"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		data := envelopeData(t, rec)
		tx := data["transaction"].(map[string]interface{})
		if tx["description"] != "Lunch" {
			t.Errorf("expected description Lunch, got %v", tx["description"])
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"type":"expense","amount":"5.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"categoryId":3,"type":"transfer","amount":"5.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid amount", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_, _ uint, _ models.TransactionType, _ decimal.Decimal, _ models.Date, _, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidAmount
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"categoryId":3,"type":"expense","amount":"0"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"categoryId":3,"type":"expense","amount":"5.00","date":"tomorrow"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when category missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_, _ uint, _ models.TransactionType, _ decimal.Decimal, _ models.Date, _, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"categoryId":999,"type":"expense","amount":"5.00"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("returns 200 and passes patch", func(t *testing.T) {
		var captured services.TransactionPatch
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, txID uint, patch services.TransactionPatch) (*models.Transaction, error) {
				captured = patch
				return &models.Transaction{Base: models.Base{ID: txID}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/1", `{"amount":"33.33","description":"Dinner"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Amount == nil || !captured.Amount.Equal(decimal.RequireFromString("33.33")) {
			t.Errorf("expected amount 33.33 in patch, got %v", captured.Amount)
		}
		if captured.Description == nil || *captured.Description != "Dinner" {
			t.Errorf("expected description Dinner in patch, got %v", captured.Description)
		}
		if captured.Type != nil {
			t.Errorf("expected absent type to stay nil, got %v", *captured.Type)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, _ uint, _ services.TransactionPatch) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/999", `{"description":"Ghost"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_, _ uint) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetStatistics(t *testing.T) {
	t.Run("returns 200 with summary and breakdown", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getStatisticsFn: func(_ uint, _, _ *models.Date) (*services.Statistics, error) {
				return &services.Statistics{
					Summary: services.Summary{
						TotalIncome:  decimal.RequireFromString("100.00"),
						TotalExpense: decimal.RequireFromString("50.50"),
						Balance:      decimal.RequireFromString("49.50"),
					},
					CategoryStats: []services.CategoryStat{
						{Type: "expense", CategoryID: 1, CategoryName: "餐饮", Total: decimal.RequireFromString("50.50"), Count: 2},
					},
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/statistics", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := envelopeData(t, rec)
		summary := data["summary"].(map[string]interface{})
		if summary["balance"] != "49.5" {
			t.Errorf("expected balance 49.5, got %v", summary["balance"])
		}
		stats := data["categoryStats"].([]interface{})
		if len(stats) != 1 {
			t.Errorf("expected 1 category stat, got %d", len(stats))
		}
	})

	t.Run("passes date range", func(t *testing.T) {
		var capturedStart, capturedEnd *models.Date
		txSvc := &mockTransactionService{
			getStatisticsFn: func(_ uint, startDate, endDate *models.Date) (*services.Statistics, error) {
				capturedStart, capturedEnd = startDate, endDate
				return &services.Statistics{CategoryStats: []services.CategoryStat{}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		doRequest(r, "GET", "/transactions/statistics?startDate=2026-01-01&endDate=2026-01-31", "")

		if capturedStart == nil || capturedStart.Format(models.DateFormat) != "2026-01-01" {
			t.Errorf("expected start date 2026-01-01, got %v", capturedStart)
		}
		if capturedEnd == nil || capturedEnd.Format(models.DateFormat) != "2026-01-31" {
			t.Errorf("expected end date 2026-01-31, got %v", capturedEnd)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/statistics?endDate=soon", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
