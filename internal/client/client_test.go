package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"household-ledger/internal/dto"
	apperrors "household-ledger/internal/errors"
	"household-ledger/internal/models"
	"household-ledger/internal/session"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	ctx     context.Context
	mux     *http.ServeMux
	server  *httptest.Server
	client  *Client
	lastReq *http.Request
	body    []byte
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastReq = r
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		s.body = buf.Bytes()
		s.mux.ServeHTTP(w, r)
	}))
	s.client = New(s.server.URL+"/", time.Second, nil)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) respond(pattern string, status int, payload any) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func (s *ClientTestSuite) loginResponse(role string) dto.LoginResponse {
	return dto.LoginResponse{
		TokenResponse: dto.TokenResponse{AccessToken: gofakeit.UUID(), TokenType: "Bearer"},
		Member: dto.MemberResponse{
			ID:   uuid.New(),
			Name: gofakeit.FirstName(),
			Role: role,
		},
	}
}

func (s *ClientTestSuite) TestVerifyLogin_BuildsSession() {
	login := s.loginResponse(models.RoleAdmin)
	s.respond("POST /api/v1/auth/login", http.StatusOK, login)

	sess, err := s.client.VerifyLogin(s.ctx, "Asha", "secret")

	s.Require().NoError(err)
	s.Equal(login.Member.ID, sess.MemberID())
	s.Equal(login.AccessToken, sess.Token)
	s.True(sess.IsAdmin())

	var sent dto.LoginRequest
	s.Require().NoError(json.Unmarshal(s.body, &sent))
	s.Equal("Asha", sent.Name)
	s.Equal("secret", sent.Password)
	s.Equal("application/json", s.lastReq.Header.Get("Content-Type"))
}

func (s *ClientTestSuite) TestVerifyLogin_RemoteErrorEnvelope() {
	s.respond("POST /api/v1/auth/login", http.StatusUnauthorized,
		apperrors.NewErrorResponse(apperrors.AuthInvalidCredentials, "trace-1"))

	_, err := s.client.VerifyLogin(s.ctx, "Asha", "wrong")

	var remote *RemoteError
	s.Require().ErrorAs(err, &remote)
	s.Equal(http.StatusUnauthorized, remote.StatusCode)
	s.Equal(string(apperrors.AuthInvalidCredentials), remote.Code)
	s.Equal("Incorrect name or password", remote.Message)
	s.Equal("trace-1", remote.TraceID)
	s.True(IsUnauthorized(err))
	s.False(IsForbidden(err))
}

func (s *ClientTestSuite) TestRemoteError_PlainEchoMessage() {
	s.respond("GET /api/v1/dashboard", http.StatusNotFound, map[string]string{"message": "Not Found"})

	_, err := s.client.Dashboard(s.ctx)

	var remote *RemoteError
	s.Require().ErrorAs(err, &remote)
	s.Equal(http.StatusNotFound, remote.StatusCode)
	s.Equal("Not Found", remote.Error())
}

func (s *ClientTestSuite) TestRemoteError_UnreadableBody() {
	s.mux.HandleFunc("GET /api/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := s.client.Dashboard(s.ctx)

	s.EqualError(err, "Bad Gateway")
}

func (s *ClientTestSuite) TestTokenIsSent() {
	s.respond("GET /api/v1/auth/session", http.StatusOK, dto.SessionResponse{IsAdmin: true})

	resp, err := s.client.WithToken("abc").Session(s.ctx)

	s.Require().NoError(err)
	s.True(resp.IsAdmin)
	s.Equal("Bearer abc", s.lastReq.Header.Get("Authorization"))
}

func (s *ClientTestSuite) TestWithTokenDoesNotMutateOriginal() {
	authed := s.client.WithToken("abc")

	s.Empty(s.client.Token())
	s.Equal("abc", authed.Token())
}

func (s *ClientTestSuite) TestLogout() {
	s.respond("POST /api/v1/auth/logout", http.StatusOK, map[string]string{"message": "Logout successful"})

	s.Require().NoError(s.client.Logout(s.ctx, "abc"))
	s.Equal("Bearer abc", s.lastReq.Header.Get("Authorization"))

	s.ErrorIs(s.client.Logout(s.ctx, ""), ErrNotLoggedIn)
}

func (s *ClientTestSuite) TestManagerRoundTrip() {
	login := s.loginResponse(models.RoleMember)
	s.respond("POST /api/v1/auth/login", http.StatusOK, login)
	s.respond("POST /api/v1/auth/logout", http.StatusOK, map[string]string{})

	manager := session.NewManager(s.client, session.NewMemoryStore(), nil)

	sess, err := manager.Login(s.ctx, login.Member.Name, "pw12")
	s.Require().NoError(err)
	s.Equal(login.AccessToken, sess.Token)
	s.Equal(sess, manager.Restore())

	s.Require().NoError(manager.Logout(s.ctx))
	s.Equal("Bearer "+login.AccessToken, s.lastReq.Header.Get("Authorization"))
	s.Nil(manager.Restore())
}

func (s *ClientTestSuite) TestTransactions_EncodesQuery() {
	s.respond("GET /api/v1/transactions", http.StatusOK, dto.ListTransactionsResponse{Count: 0})

	_, err := s.client.Transactions(s.ctx, dto.TransactionQuery{
		MemberID: "all",
		Year:     2025,
		Type:     models.TransactionTypeDebit,
	})

	s.Require().NoError(err)
	q := s.lastReq.URL.Query()
	s.Equal("all", q.Get("memberId"))
	s.Equal("2025", q.Get("year"))
	s.Equal("debit", q.Get("type"))
	s.False(q.Has("limit"))
	s.False(q.Has("startDate"))
}

func (s *ClientTestSuite) TestCreateTransaction() {
	category := uuid.New()
	s.respond("POST /api/v1/transactions", http.StatusCreated, dto.TransactionResponse{
		ID:           uuid.New(),
		Type:         models.TransactionTypeDebit,
		Amount:       decimal.NewFromInt(300),
		CategoryName: "Food",
	})

	resp, err := s.client.CreateTransaction(s.ctx, dto.CreateTransactionRequest{
		Type:       models.TransactionTypeDebit,
		Amount:     decimal.NewFromInt(300),
		CategoryID: &category,
	})

	s.Require().NoError(err)
	s.Equal("Food", resp.CategoryName)
	s.True(resp.Amount.Equal(decimal.NewFromInt(300)))

	var sent dto.CreateTransactionRequest
	s.Require().NoError(json.Unmarshal(s.body, &sent))
	s.Equal(category, *sent.CategoryID)
}

func (s *ClientTestSuite) TestDeleteMember() {
	id := uuid.New()
	s.respond("DELETE /api/v1/members/{id}", http.StatusOK, map[string]string{"message": "deleted"})

	s.Require().NoError(s.client.DeleteMember(s.ctx, id))
	s.Equal("/api/v1/members/"+id.String(), s.lastReq.URL.Path)
}

func (s *ClientTestSuite) TestDeleteMember_Forbidden() {
	s.respond("DELETE /api/v1/members/{id}", http.StatusForbidden,
		apperrors.NewErrorResponse(apperrors.AuthInsufficientPermission, ""))

	err := s.client.DeleteMember(s.ctx, uuid.New())

	s.True(IsForbidden(err))
}

func (s *ClientTestSuite) TestExportReport() {
	s.mux.HandleFunc("GET /api/v1/reports/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `inline; filename="household-ledger-2025.html"`)
		_, _ = w.Write([]byte("<!DOCTYPE html><title>report</title>"))
	})

	var buf bytes.Buffer
	name, err := s.client.ExportReport(s.ctx, dto.ReportQuery{Year: 2025, MemberID: "all"}, &buf)

	s.Require().NoError(err)
	s.Equal("household-ledger-2025.html", name)
	s.Contains(buf.String(), "<title>report</title>")
	s.Equal("2025", s.lastReq.URL.Query().Get("year"))
}

func (s *ClientTestSuite) TestSetupStatus() {
	s.respond("GET /api/v1/setup", http.StatusOK, dto.SetupStatusResponse{NeedsSetup: true})

	needs, err := s.client.SetupStatus(s.ctx)

	s.Require().NoError(err)
	s.True(needs)
}

func (s *ClientTestSuite) TestTransportFailure() {
	s.server.Close()

	_, err := s.client.Dashboard(s.ctx)

	s.ErrorContains(err, "failed to reach ledger API")
}
