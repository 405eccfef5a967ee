package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/fin_consistency_engine/internal/core/domain"
	"github.com/SscSPs/fin_consistency_engine/internal/core/services"
	"github.com/SscSPs/fin_consistency_engine/internal/dto"
	"github.com/SscSPs/fin_consistency_engine/internal/handlers"
	"github.com/SscSPs/fin_consistency_engine/internal/platform/config"
	"github.com/SscSPs/fin_consistency_engine/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	companyID = "company-1"
	userID    = "user-1"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config
	token  string
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:            "test-secret-key-that-is-long-enough",
		JWTIssuer:            "fce-test",
		IsProduction:         true,
		SalesDefaultCategory: "sales",
	}

	store := memory.NewStore()
	container := services.NewServiceContainer(suite.cfg, memory.NewRepositoryProvider(store),
		services.WithClock(func() time.Time { return fixedNow }))

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, container)
	suite.token = suite.generateTestToken(userID)
}

// generateTestToken creates a signed JWT for the configured secret and issuer.
func (suite *HandlerTestSuite) generateTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    suite.cfg.JWTIssuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.cfg.JWTSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func companyPath(format string, args ...any) string {
	return fmt.Sprintf("/api/v1/companies/%s", companyID) + fmt.Sprintf(format, args...)
}

func (suite *HandlerTestSuite) createAccount(name string, typ domain.AccountType, initial string) dto.AccountResponse {
	w := suite.do(http.MethodPost, companyPath("/accounts"), map[string]any{
		"name": name, "accountType": typ, "currencyCode": "USD", "initialBalance": initial,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var acc dto.AccountResponse
	suite.decode(w, &acc)
	return acc
}

func (suite *HandlerTestSuite) createTransaction(accountID, amount string, status domain.TransactionStatus, date time.Time) dto.TransactionResponse {
	w := suite.do(http.MethodPost, companyPath("/transactions"), map[string]any{
		"date": date, "description": "invoice", "amount": amount, "type": "income",
		"account": accountID, "status": status, "category": "consulting",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var txn dto.TransactionResponse
	suite.decode(w, &txn)
	return txn
}

func (suite *HandlerTestSuite) accountBalance(accountID string) decimal.Decimal {
	w := suite.do(http.MethodGet, companyPath("/accounts/%s", accountID), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var acc dto.AccountResponse
	suite.decode(w, &acc)
	return acc.Balance
}

func (suite *HandlerTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestRequiresBearerToken() {
	req, _ := http.NewRequest(http.MethodGet, companyPath("/accounts"), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestTransactionLifecycleMovesBalance() {
	acc := suite.createAccount("Operating", domain.Bank, "1000")

	txn := suite.createTransaction(acc.AccountID, "200", domain.StatusCompleted, fixedNow)
	suite.True(decimal.NewFromInt(1200).Equal(suite.accountBalance(acc.AccountID)))

	w := suite.do(http.MethodPut, companyPath("/transactions/%s", txn.TransactionID), map[string]any{"amount": "150"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.True(decimal.NewFromInt(1150).Equal(suite.accountBalance(acc.AccountID)))

	w = suite.do(http.MethodPut, companyPath("/transactions/%s", txn.TransactionID), map[string]any{"status": "pending"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.True(decimal.NewFromInt(1000).Equal(suite.accountBalance(acc.AccountID)))

	w = suite.do(http.MethodPut, companyPath("/transactions/%s", txn.TransactionID), map[string]any{"status": "completed"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodDelete, companyPath("/transactions/%s", txn.TransactionID), nil)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.True(decimal.NewFromInt(1000).Equal(suite.accountBalance(acc.AccountID)))

	w = suite.do(http.MethodGet, companyPath("/accounts/%s/drift", acc.AccountID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var drift domain.BalanceDrift
	suite.decode(w, &drift)
	suite.True(drift.Drift.IsZero())
}

func (suite *HandlerTestSuite) TestRecomputeBalance() {
	acc := suite.createAccount("Operating", domain.Bank, "50")
	suite.createTransaction(acc.AccountID, "25.5", domain.StatusCompleted, fixedNow)

	w := suite.do(http.MethodPost, companyPath("/accounts/%s/recompute", acc.AccountID), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var recomputed dto.AccountResponse
	suite.decode(w, &recomputed)
	suite.True(decimal.RequireFromString("75.5").Equal(recomputed.Balance))
}

func (suite *HandlerTestSuite) TestErrorMapping() {
	acc := suite.createAccount("Operating", domain.Bank, "0")

	suite.Run("malformed body", func() {
		w := suite.do(http.MethodPost, companyPath("/transactions"), map[string]any{"amount": "10"})
		suite.Equal(http.StatusBadRequest, w.Code)
	})
	suite.Run("non-positive amount", func() {
		w := suite.do(http.MethodPost, companyPath("/transactions"), map[string]any{
			"date": fixedNow, "description": "x", "amount": "-5", "type": "expense", "account": acc.AccountID, "status": "pending",
		})
		suite.Equal(http.StatusBadRequest, w.Code)
	})
	suite.Run("unknown account", func() {
		w := suite.do(http.MethodPost, companyPath("/transactions"), map[string]any{
			"date": fixedNow, "description": "x", "amount": "5", "type": "expense", "account": "missing", "status": "pending",
		})
		suite.Equal(http.StatusNotFound, w.Code)
	})
	suite.Run("other company", func() {
		w := suite.do(http.MethodGet, "/api/v1/companies/company-2/accounts/"+acc.AccountID, nil)
		suite.Equal(http.StatusNotFound, w.Code)
	})
	suite.Run("bad page token", func() {
		w := suite.do(http.MethodGet, companyPath("/transactions?nextToken=%s", "not-a-token"), nil)
		suite.Equal(http.StatusBadRequest, w.Code)
	})
}

func (suite *HandlerTestSuite) TestListTransactionsPaginates() {
	acc := suite.createAccount("Operating", domain.Bank, "0")
	older := suite.createTransaction(acc.AccountID, "1", domain.StatusPending, fixedNow.AddDate(0, 0, -2))
	newer := suite.createTransaction(acc.AccountID, "2", domain.StatusPending, fixedNow.AddDate(0, 0, -1))

	w := suite.do(http.MethodGet, companyPath("/transactions?limit=1"), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var first dto.ListTransactionsResponse
	suite.decode(w, &first)
	suite.Require().Len(first.Transactions, 1)
	suite.Equal(newer.TransactionID, first.Transactions[0].TransactionID)
	suite.Require().NotNil(first.NextToken)

	w = suite.do(http.MethodGet, companyPath("/transactions?limit=1&nextToken=%s", *first.NextToken), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var second dto.ListTransactionsResponse
	suite.decode(w, &second)
	suite.Require().Len(second.Transactions, 1)
	suite.Equal(older.TransactionID, second.Transactions[0].TransactionID)
	suite.Nil(second.NextToken)
}

func (suite *HandlerTestSuite) TestBudgetTotalsFollowItems() {
	w := suite.do(http.MethodPost, companyPath("/budgets"), map[string]any{
		"name": "FY25", "type": "annual", "startDate": fixedNow, "endDate": fixedNow.AddDate(1, 0, 0),
		"status": "active", "totalBudget": "500",
		"items": []map[string]any{{"name": "Rent", "amount": "300"}, {"name": "Ads", "amount": "100"}},
	})
	suite.Equal(http.StatusBadRequest, w.Code, "items must add up to the supplied total")

	w = suite.do(http.MethodPost, companyPath("/budgets"), map[string]any{
		"name": "FY25", "type": "annual", "startDate": fixedNow, "endDate": fixedNow.AddDate(1, 0, 0),
		"status": "active", "totalBudget": "400",
		"items": []map[string]any{{"name": "Rent", "amount": "300"}, {"name": "Ads", "amount": "100.005"}},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var budget dto.BudgetResponse
	suite.decode(w, &budget)
	suite.True(decimal.RequireFromString("400.005").Equal(budget.TotalBudget))

	w = suite.do(http.MethodPut, companyPath("/budgets/%s/items", budget.BudgetID), map[string]any{
		"name": "Travel", "amount": "50", "spent": "20",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &budget)
	suite.Len(budget.Items, 3)
	suite.True(decimal.RequireFromString("450.005").Equal(budget.TotalBudget))
	suite.True(decimal.NewFromInt(20).Equal(budget.TotalSpent))
}

func (suite *HandlerTestSuite) TestScheduleCreateAndAdvance() {
	acc := suite.createAccount("Operating", domain.Bank, "0")
	start := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)

	w := suite.do(http.MethodPost, companyPath("/recurring"), map[string]any{
		"name": "Rent", "frequency": "monthly", "startDate": start, "amount": "900",
		"type": "expense", "account": acc.AccountID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var schedule dto.RecurringScheduleResponse
	suite.decode(w, &schedule)
	suite.True(start.Equal(schedule.NextDueDate))
	suite.Equal(domain.ScheduleActive, schedule.Status)

	w = suite.do(http.MethodPost, companyPath("/recurring/%s/advance", schedule.ScheduleID), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &schedule)
	suite.True(time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC).Equal(schedule.NextDueDate))
}

func (suite *HandlerTestSuite) TestSaleMirror() {
	sale := map[string]any{"id": "sale-1", "date": fixedNow, "total": "80", "status": "completed", "customerName": "Acme"}

	suite.Run("no account to mirror into is accepted with a warning", func() {
		w := suite.do(http.MethodPost, companyPath("/sales"), sale)
		suite.Equal(http.StatusAccepted, w.Code)
		var resp dto.SaleMirrorResponse
		suite.decode(w, &resp)
		suite.NotEmpty(resp.Warning)
		suite.Nil(resp.Transaction)
	})

	acc := suite.createAccount("Till", domain.Cash, "0")

	suite.Run("invalid sale is rejected", func() {
		for _, total := range []string{"0", "-5", "10.00001"} {
			bad := map[string]any{"id": "sale-bad", "date": fixedNow, "total": total, "status": "completed"}
			w := suite.do(http.MethodPost, companyPath("/sales"), bad)
			suite.Equal(http.StatusBadRequest, w.Code, "total %s: %s", total, w.Body.String())
		}
		suite.True(suite.accountBalance(acc.AccountID).IsZero())
	})

	w := suite.do(http.MethodPost, companyPath("/sales"), sale)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.SaleMirrorResponse
	suite.decode(w, &resp)
	suite.Require().NotNil(resp.Transaction)
	suite.Equal(acc.AccountID, resp.Transaction.AccountID)
	suite.Equal("sales", resp.Transaction.CategoryID)
	suite.Equal("Sale sale-1 - Acme", resp.Transaction.Description)
	suite.True(decimal.NewFromInt(80).Equal(suite.accountBalance(acc.AccountID)))

	sale["status"] = "refunded"
	w = suite.do(http.MethodPut, companyPath("/sales"), sale)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.True(suite.accountBalance(acc.AccountID).IsZero())

	w = suite.do(http.MethodDelete, companyPath("/sales/%s", "sale-1"), nil)
	suite.Equal(http.StatusOK, w.Code)
	w = suite.do(http.MethodDelete, companyPath("/sales/%s", "sale-1"), nil)
	suite.Equal(http.StatusOK, w.Code, "deleting an unmirrored sale is a no-op")
	suite.True(suite.accountBalance(acc.AccountID).IsZero())
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
