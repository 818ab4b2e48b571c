package wardclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is the account behind the current session
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// LoginResult reports either a completed login or an email code
// challenge the caller has to answer with VerifyCode.
type LoginResult struct {
	AccessToken       string `json:"accessToken"`
	User              *User  `json:"user"`
	RequiresEmailCode bool   `json:"requiresEmailCode"`
	OTPID             string `json:"otpId"`
	Email             string `json:"email"`
}

type Member struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Birthdate string    `json:"birthdate"`
	Household string    `json:"household"`
	CreatedAt time.Time `json:"createdAt"`
}

type MemberInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Birthdate string `json:"birthdate,omitempty"`
	Household string `json:"household,omitempty"`
}

type BudgetCategory struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	FiscalYear int             `json:"fiscalYear"`
	Allocated  decimal.Decimal `json:"allocated"`
}

type BudgetSummary struct {
	Category  BudgetCategory  `json:"category"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Login starts a session. When the device is not trusted the result
// carries an email code challenge instead of a token.
func (c *Client) Login(ctx context.Context, username string, password string, rememberDevice bool) (*LoginResult, error) {
	body := map[string]any{
		"username":       username,
		"password":       password,
		"rememberDevice": rememberDevice,
		"deviceId":       c.DeviceID(),
	}

	result, err := PostJSON[LoginResult](ctx, c, "/api/login", body)
	if err != nil {
		return nil, err
	}
	if result != nil && result.AccessToken != "" {
		c.tokens.Set(result.AccessToken)
	}
	return result, nil
}

// VerifyCode answers the email code challenge from Login
func (c *Client) VerifyCode(ctx context.Context, otpID string, code string, rememberDevice bool) (*LoginResult, error) {
	body := map[string]any{
		"otpId":          otpID,
		"code":           code,
		"rememberDevice": rememberDevice,
		"deviceId":       c.DeviceID(),
	}

	result, err := PostJSON[LoginResult](ctx, c, "/api/login/verify", body)
	if err != nil {
		return nil, err
	}
	if result != nil && result.AccessToken != "" {
		c.tokens.Set(result.AccessToken)
	}
	return result, nil
}

// Logout ends the session on the server and drops the local token
func (c *Client) Logout(ctx context.Context) error {
	// the local session ends no matter what the server answers
	defer c.tokens.Clear()

	resp, err := c.send(ctx, http.MethodPost, "/api/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Me returns the logged in user, or nil when there is no session
func (c *Client) Me(ctx context.Context) (*User, error) {
	return Get[User](ctx, c, "/api/me", NilOn401())
}

func (c *Client) Members(ctx context.Context) (*[]Member, error) {
	return Get[[]Member](ctx, c, "/api/members")
}

func (c *Client) CreateMember(ctx context.Context, input MemberInput) (*Member, error) {
	return PostJSON[Member](ctx, c, "/api/members", input)
}

func (c *Client) BudgetSummary(ctx context.Context, fiscalYear int) (*[]BudgetSummary, error) {
	path := "/api/budget/summary"
	if fiscalYear > 0 {
		path = fmt.Sprintf("%s?year=%d", path, fiscalYear)
	}
	return Get[[]BudgetSummary](ctx, c, path)
}
