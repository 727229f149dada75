package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"household-ledger/internal/dto"
	"household-ledger/internal/session"

	"github.com/google/uuid"
)

// SetupStatus reports whether the household still needs its first admin.
func (c *Client) SetupStatus(ctx context.Context) (bool, error) {
	var resp dto.SetupStatusResponse
	if err := c.do(ctx, http.MethodGet, "/setup", nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.NeedsSetup, nil
}

// Setup creates the first admin and logs them in.
func (c *Client) Setup(ctx context.Context, req dto.SetupRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/setup", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges a name and password for an access token.
func (c *Client) Login(ctx context.Context, name, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	req := dto.LoginRequest{Name: name, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyLogin logs in and returns a session carrying the access token.
func (c *Client) VerifyLogin(ctx context.Context, name, password string) (*session.Session, error) {
	resp, err := c.Login(ctx, name, password)
	if err != nil {
		return nil, err
	}
	return session.New(resp.Member.ID, resp.Member.Name, resp.Member.Role, resp.AccessToken), nil
}

// Logout revokes token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotLoggedIn
	}
	return c.WithToken(token).do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Session returns the member the client's token belongs to.
func (c *Client) Session(ctx context.Context) (*dto.SessionResponse, error) {
	var resp dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Categories lists categories usable for transactionType, or all when empty.
func (c *Client) Categories(ctx context.Context, transactionType string) ([]dto.CategoryResponse, error) {
	q := url.Values{}
	setString(q, "type", transactionType)

	var resp dto.CategoryListResponse
	if err := c.do(ctx, http.MethodGet, "/categories", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) Members(ctx context.Context) ([]dto.MemberResponse, error) {
	var resp dto.MemberListResponse
	if err := c.do(ctx, http.MethodGet, "/members", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

func (c *Client) CreateMember(ctx context.Context, req dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	var resp dto.MemberResponse
	if err := c.do(ctx, http.MethodPost, "/members", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetPassword(ctx context.Context, memberID uuid.UUID, password string) error {
	path := fmt.Sprintf("/members/%s/password", memberID)
	return c.do(ctx, http.MethodPut, path, nil, dto.ResetPasswordRequest{Password: password}, nil)
}

func (c *Client) DeleteMember(ctx context.Context, memberID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/members/"+memberID.String(), nil, nil, nil)
}

// Transactions lists transactions matching query.
func (c *Client) Transactions(ctx context.Context, query dto.TransactionQuery) (*dto.ListTransactionsResponse, error) {
	q := url.Values{}
	setString(q, "memberId", query.MemberID)
	setString(q, "startDate", query.StartDate)
	setString(q, "endDate", query.EndDate)
	setInt(q, "year", query.Year)
	setString(q, "type", query.Type)
	setInt(q, "limit", query.Limit)

	var resp dto.ListTransactionsResponse
	if err := c.do(ctx, http.MethodGet, "/transactions", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+id.String(), nil, nil, nil)
}

// Dashboard returns the all-time summary for the client's session.
func (c *Client) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var resp dto.DashboardResponse
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Overview returns the chart data for one year.
func (c *Client) Overview(ctx context.Context, query dto.ReportQuery) (*dto.OverviewResponse, error) {
	var resp dto.OverviewResponse
	if err := c.do(ctx, http.MethodGet, "/reports/overview", reportValues(query), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportReport streams the printable HTML report into w and returns the
// file name suggested by the server.
func (c *Client) ExportReport(ctx context.Context, query dto.ReportQuery, w io.Writer) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/reports/export", reportValues(query), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}

	return attachmentName(resp.Header.Get("Content-Disposition")), nil
}

func reportValues(query dto.ReportQuery) url.Values {
	q := url.Values{}
	setInt(q, "year", query.Year)
	setString(q, "memberId", query.MemberID)
	return q
}

func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
