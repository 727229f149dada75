package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"household-ledger/internal/client"
	"household-ledger/internal/config"
	"household-ledger/internal/database"
	"household-ledger/internal/dto"
	"household-ledger/internal/events"
	"household-ledger/internal/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type ServerTestSuite struct {
	suite.Suite
	handler   http.Handler
	publisher *events.MemoryPublisher
	cancel    context.CancelFunc
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}

	return &config.Config{
		Server: config.ServerConfig{
			Host:             "127.0.0.1",
			Port:             "0",
			Environment:      "testing",
			CORSAllowOrigins: []string{"*"},
		},
		JWT: config.JWTConfig{
			AccessTokenDuration: time.Hour,
			PrivateKey:          privateKey,
			PublicKey:           publicKey,
			Issuer:              "household-ledger-test",
		},
		Security: config.SecurityConfig{
			BCryptCost:         bcrypt.MinCost,
			RateLimitPerSecond: 1000,
			RateLimitBurst:     1000,
			PasswordMinLength:  4,
		},
		Report: config.ReportConfig{
			Title:          "Household Ledger Report",
			CurrencySymbol: "₹",
		},
	}
}

func (s *ServerTestSuite) SetupTest() {
	db := database.SetupTestDB(s.T())
	s.Require().NoError(db.SeedCategories())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.publisher = events.NewMemoryPublisher()

	srv := New(ctx, Deps{
		Config:    testConfig(s.T()),
		DB:        db.DB,
		Publisher: s.publisher,
		Metrics:   services.NewPrometheusMetricsWith(prometheus.NewRegistry()),
		Logger:    slog.New(slog.DiscardHandler),
	})
	s.handler = srv.Handler()
}

func (s *ServerTestSuite) TearDownTest() {
	s.cancel()
}

func (s *ServerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func (s *ServerTestSuite) setupAdmin(name, password string) string {
	rec := s.do(http.MethodPost, "/api/v1/setup", "", dto.SetupRequest{
		Name:            name,
		Password:        password,
		ConfirmPassword: password,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.LoginResponse
	s.decode(rec, &resp)
	return resp.AccessToken
}

func (s *ServerTestSuite) login(name, password string) string {
	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Name: name, Password: password})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.LoginResponse
	s.decode(rec, &resp)
	return resp.AccessToken
}

func (s *ServerTestSuite) categoryID(token, txType, name string) string {
	rec := s.do(http.MethodGet, "/api/v1/categories?type="+txType, token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp dto.CategoryListResponse
	s.decode(rec, &resp)
	for _, c := range resp.Categories {
		if c.Name == name {
			return c.ID.String()
		}
	}
	s.FailNow("category not found", name)
	return ""
}

func (s *ServerTestSuite) addTransaction(token, txType, amount, categoryID, date string) {
	rec := s.do(http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"type":            txType,
		"amount":          amount,
		"categoryId":      categoryID,
		"transactionDate": date,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *ServerTestSuite) TestSetupFlow() {
	rec := s.do(http.MethodGet, "/api/v1/setup", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	var status dto.SetupStatusResponse
	s.decode(rec, &status)
	s.True(status.NeedsSetup)

	s.NotEmpty(s.setupAdmin("Meera", "secret1"))

	rec = s.do(http.MethodGet, "/api/v1/setup", "", nil)
	s.decode(rec, &status)
	s.False(status.NeedsSetup)

	rec = s.do(http.MethodPost, "/api/v1/setup", "", dto.SetupRequest{
		Name: "Intruder", Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "SETUP_001")
}

func (s *ServerTestSuite) TestSetupPasswordMismatch() {
	rec := s.do(http.MethodPost, "/api/v1/setup", "", dto.SetupRequest{
		Name: "Meera", Password: "secret1", ConfirmPassword: "secret2",
	})

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "VALIDATION_006")
}

func (s *ServerTestSuite) TestLoginRejectsWrongPassword() {
	s.setupAdmin("Meera", "secret1")

	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Name: "Meera", Password: "wrong"})

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "AUTH_001")
}

func (s *ServerTestSuite) TestTransactionAmountPrecision() {
	admin := s.setupAdmin("Meera", "secret1")
	food := s.categoryID(admin, "debit", "Food")

	s.addTransaction(admin, "debit", "0.01", food, "2025-03-01")

	rec := s.do(http.MethodPost, "/api/v1/transactions", admin, map[string]any{
		"type":            "debit",
		"amount":          "0.004",
		"categoryId":      food,
		"transactionDate": "2025-03-01",
	})
	s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), "TRANSACTION_002")

	rec = s.do(http.MethodGet, "/api/v1/transactions", admin, nil)
	var history dto.ListTransactionsResponse
	s.decode(rec, &history)
	s.Require().Equal(1, history.Count)
	s.Equal("0.01", history.Transactions[0].Amount.StringFixed(2))
}

func (s *ServerTestSuite) TestRoleScopedAccess() {
	admin := s.setupAdmin("Meera", "secret1")

	rec := s.do(http.MethodPost, "/api/v1/members", admin, dto.CreateMemberRequest{Name: "Ravi", Password: "ravi1"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	member := s.login("Ravi", "ravi1")

	salary := s.categoryID(admin, "credit", "Salary")
	food := s.categoryID(member, "debit", "Food")

	s.addTransaction(admin, "credit", "1000", salary, "2025-01-05")
	s.addTransaction(member, "debit", "300", food, "2025-01-20")
	s.addTransaction(member, "debit", "200", food, "2025-02-01")

	// Members only see their own rows.
	rec = s.do(http.MethodGet, "/api/v1/transactions?memberId=all", member, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var history dto.ListTransactionsResponse
	s.decode(rec, &history)
	s.Equal(2, history.Count)

	rec = s.do(http.MethodGet, "/api/v1/transactions", admin, nil)
	s.decode(rec, &history)
	s.Equal(3, history.Count)
	s.Equal("2025-02-01", history.Transactions[0].TransactionDate)
	s.Equal("Ravi", history.Transactions[0].MemberName)

	rec = s.do(http.MethodGet, "/api/v1/members", member, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(rec.Body.String(), "AUTH_005")

	// A member cannot delete someone else's transaction.
	adminRow := history.Transactions[2]
	s.Equal("credit", adminRow.Type)
	rec = s.do(http.MethodDelete, "/api/v1/transactions/"+adminRow.ID.String(), member, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/reports/overview?year=2025", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var overview dto.OverviewResponse
	s.decode(rec, &overview)
	s.True(overview.Summary.Balance.Equal(decimal.NewFromInt(500)))
	s.True(overview.Monthly.Months[0].Debit.Equal(decimal.NewFromInt(300)))
	s.Require().Len(overview.DebitBreakdown, 1)
	s.Equal("Food", overview.DebitBreakdown[0].Name)

	rec = s.do(http.MethodGet, "/api/v1/dashboard", member, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var dashboard dto.DashboardResponse
	s.decode(rec, &dashboard)
	s.True(dashboard.Summary.Debit.Equal(decimal.NewFromInt(500)))
	s.True(dashboard.Summary.Credit.IsZero())

	s.Contains(s.publisher.Types(), events.TransactionCreated)
}

func (s *ServerTestSuite) TestReportExport() {
	admin := s.setupAdmin("Meera", "secret1")
	salary := s.categoryID(admin, "credit", "Salary")
	s.addTransaction(admin, "credit", "1234567", salary, "2025-03-10")

	rec := s.do(http.MethodGet, "/api/v1/reports/export?year=2025", admin, nil)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Header().Get("Content-Type"), "text/html")
	s.Contains(rec.Header().Get("Content-Disposition"), "household-ledger-2025.html")
	s.Contains(rec.Header().Get("Content-Security-Policy"), "style-src 'unsafe-inline'")
	s.Contains(rec.Body.String(), "₹1,234,567")
}

func (s *ServerTestSuite) TestLogoutRevokesToken() {
	admin := s.setupAdmin("Meera", "secret1")

	rec := s.do(http.MethodGet, "/api/v1/auth/session", admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/auth/logout", admin, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/auth/session", admin, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	// A second logout with the same token still succeeds.
	rec = s.do(http.MethodPost, "/api/v1/auth/logout", admin, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestDeletedMemberTokenStopsWorking() {
	admin := s.setupAdmin("Meera", "secret1")
	name := gofakeit.FirstName()

	rec := s.do(http.MethodPost, "/api/v1/members", admin, dto.CreateMemberRequest{Name: name, Password: "pass1"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.MemberResponse
	s.decode(rec, &created)

	member := s.login(name, "pass1")

	rec = s.do(http.MethodDelete, "/api/v1/members/"+created.ID.String(), admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/dashboard", member, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/nope", "", nil)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "SYSTEM_007")
	s.NotEmpty(rec.Header().Get("X-Trace-ID"))
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "", nil)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestClientAgainstServer() {
	ts := httptest.NewServer(s.handler)
	defer ts.Close()

	ctx := context.Background()
	api := client.New(ts.URL, 5*time.Second, slog.New(slog.DiscardHandler))

	needsSetup, err := api.SetupStatus(ctx)
	s.Require().NoError(err)
	s.True(needsSetup)

	_, err = api.Setup(ctx, dto.SetupRequest{Name: "Meera", Password: "secret1", ConfirmPassword: "secret1"})
	s.Require().NoError(err)

	sess, err := api.VerifyLogin(ctx, "Meera", "secret1")
	s.Require().NoError(err)
	s.True(sess.IsAdmin())

	authed := api.WithToken(sess.Token)
	categories, err := authed.Categories(ctx, "debit")
	s.Require().NoError(err)
	s.NotEmpty(categories)

	_, err = authed.Members(ctx)
	s.NoError(err)

	var buf strings.Builder
	name, err := authed.ExportReport(ctx, dto.ReportQuery{Year: 2025}, &buf)
	s.Require().NoError(err)
	s.Equal(fmt.Sprintf("household-ledger-%d.html", 2025), name)
	s.Contains(buf.String(), "<html")

	_, err = api.Dashboard(ctx)
	s.True(client.IsUnauthorized(err))
}
