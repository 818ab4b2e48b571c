package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/logger"
	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/repository"
	"github.com/jhansen/wardbook/internal/service/auth/tokenmanager"
)

const (
	defaultRefreshCookieName = "refreshtoken"
	defaultCodeTTL           = 10 * time.Minute
	defaultCodeAttempts      = 5
	codeDigits               = 6
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// CodeSender delivers the second factor login code to the user
type CodeSender interface {
	SendLoginCode(ctx context.Context, email string, code string) error
}

type Config struct {
	// Hasher to use during login, defaults to BcryptHasher
	Hasher PasswordHasher

	// Name of the httpOnly cookie carrying the refresh token
	RefreshCookieName string

	// Login code lifetime and verify attempts
	CodeTTL      time.Duration
	CodeAttempts int
}

// LoginResult is what a login or code verification yields
// Either Pair and User are set, or RequiresEmailCode with the challenge info
type LoginResult struct {
	Pair models.TokenPair
	User models.User

	RequiresEmailCode bool
	OTPID             uuid.UUID
	Email             string // masked, safe to show to the caller
}

type AuthService struct {
	token   *tokenmanager.TokenManager
	hasher  PasswordHasher
	storage repository.Storage
	sender  CodeSender
	logger  logger.Logger

	refreshCookieName string
	codeTTL           time.Duration
	codeAttempts      int
}

func NewService(cfg Config, tm *tokenmanager.TokenManager, storage repository.Storage, sender CodeSender, log logger.Logger) (*AuthService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if cfg.RefreshCookieName == "" {
		cfg.RefreshCookieName = defaultRefreshCookieName
	}
	if cfg.CodeTTL == 0 {
		cfg.CodeTTL = defaultCodeTTL
	}
	if cfg.CodeAttempts == 0 {
		cfg.CodeAttempts = defaultCodeAttempts
	}

	return &AuthService{
		token:             tm,
		hasher:            hasher,
		storage:           storage,
		sender:            sender,
		logger:            log,
		refreshCookieName: cfg.RefreshCookieName,
		codeTTL:           cfg.CodeTTL,
		codeAttempts:      cfg.CodeAttempts,
	}, nil
}

// Register creates a user account and logs it in
func (s *AuthService) Register(ctx context.Context, username string, email string, role string, password string) (models.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, username, email, role, hash)
	if err != nil {
		return models.TokenPair{}, err
	}

	pair, err := s.token.GeneratePair(ctx, user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// Login checks the password and either issues tokens right away (device is
// remembered) or creates an email code challenge
func (s *AuthService) Login(ctx context.Context, username string, password string, deviceID string) (LoginResult, error) {
	user, err := s.storage.User().GetUserByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return LoginResult{}, apperrors.ErrUserNotFound
	}

	if deviceID != "" {
		trusted, err := s.storage.Device().IsTrusted(ctx, user.ID, deviceID)
		if err != nil {
			return LoginResult{}, fmt.Errorf("device lookup failed. Err: %w", err)
		}
		if trusted {
			// Touch last_seen while we are at it
			if _, err := s.storage.Device().Trust(ctx, user.ID, deviceID); err != nil {
				s.logger.Warn("Failed to touch trusted device", "error", err.Error())
			}

			pair, err := s.token.GeneratePair(ctx, user)
			if err != nil {
				return LoginResult{}, fmt.Errorf("token could not be generated. Err: %w", err)
			}
			return LoginResult{Pair: pair, User: user}, nil
		}
	}

	return s.challengeWithCode(ctx, user)
}

// VerifyCode finishes a login started with an email code challenge
func (s *AuthService) VerifyCode(ctx context.Context, otpID uuid.UUID, code string, rememberDevice bool, deviceID string) (LoginResult, error) {
	stored, err := s.storage.LoginCode().Get(ctx, otpID)
	if err != nil {
		return LoginResult{}, err
	}

	if stored.UsedAt != nil {
		return LoginResult{}, apperrors.ErrLoginCodeNotFound
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return LoginResult{}, apperrors.ErrLoginCodeExpired
	}

	// Burn an attempt before comparing so guessing is bounded
	if _, err := s.storage.LoginCode().DecrementAttempts(ctx, otpID); err != nil {
		return LoginResult{}, err
	}

	if stored.Code != code {
		return LoginResult{}, apperrors.ErrLoginCodeMismatch
	}

	if err := s.storage.LoginCode().MarkUsed(ctx, otpID); err != nil {
		return LoginResult{}, err
	}

	user, err := s.storage.User().GetUserByID(ctx, stored.UserID)
	if err != nil {
		return LoginResult{}, err
	}

	if rememberDevice && deviceID != "" {
		if _, err := s.storage.Device().Trust(ctx, user.ID, deviceID); err != nil {
			s.logger.Warn("Failed to remember device", "error", err.Error())
		}
	}

	pair, err := s.token.GeneratePair(ctx, user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return LoginResult{Pair: pair, User: user}, nil
}

// Refresh rotates the refresh token and issues a fresh pair
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, models.User, error) {
	token, err := s.token.UseRefresh(ctx, refresh)
	if err != nil {
		return models.TokenPair{}, models.User{}, err
	}

	user, err := s.storage.User().GetUserByID(ctx, token.UserID)
	if err != nil {
		return models.TokenPair{}, models.User{}, err
	}

	pair, err := s.token.GeneratePair(ctx, user)
	if err != nil {
		return models.TokenPair{}, models.User{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, user, nil
}

// Logout revokes the refresh token
// Idempotent: logging out with a dead token is still a logout
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	_, err := s.storage.Refresh().MarkUsed(ctx, refresh)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrRefreshTokenIsUsed),
		errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		return nil
	default:
		return err
	}
}

// Authenticate resolves the request's bearer token to a user
func (s *AuthService) Authenticate(ctx context.Context, r *http.Request) (models.User, error) {
	header := r.Header.Get("Authorization")
	access, found := strings.CutPrefix(header, "Bearer ")
	if !found || access == "" {
		return models.User{}, errors.New("no bearer token in request")
	}

	userID, err := s.token.ParseAccess(ctx, access)
	if err != nil {
		return models.User{}, err
	}

	return s.storage.User().GetUserByID(ctx, userID)
}

// SetRefreshCookie attaches the refresh token as an httpOnly cookie
func (s *AuthService) SetRefreshCookie(w http.ResponseWriter, refresh models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.refreshCookieName,
		Value:    refresh.Value,
		Path:     "/",
		MaxAge:   int(time.Until(refresh.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie expires the refresh cookie
func (s *AuthService) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadRefreshToken extracts the refresh token from the request cookie
func (s *AuthService) ReadRefreshToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err != nil {
		return "", fmt.Errorf("refresh cookie not found: %w", apperrors.ErrRefreshTokenNotFound)
	}
	return cookie.Value, nil
}

func (s *AuthService) challengeWithCode(ctx context.Context, user models.User) (LoginResult, error) {
	code, err := generateCode()
	if err != nil {
		return LoginResult{}, fmt.Errorf("login code could not be generated. Err: %w", err)
	}

	now := time.Now().Truncate(time.Second)
	stored := models.LoginCode{
		ID:           uuid.New(),
		UserID:       user.ID,
		Code:         code,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.codeTTL),
		AttemptsLeft: s.codeAttempts,
	}
	if err := s.storage.LoginCode().Save(ctx, stored); err != nil {
		return LoginResult{}, err
	}

	if s.sender != nil {
		if err := s.sender.SendLoginCode(ctx, user.Email, code); err != nil {
			return LoginResult{}, fmt.Errorf("login code could not be sent. Err: %w", err)
		}
	}

	return LoginResult{
		RequiresEmailCode: true,
		OTPID:             stored.ID,
		Email:             maskEmail(user.Email),
	}, nil
}

// generateCode returns a random numeric code with leading zeroes kept
func generateCode() (string, error) {
	max := big.NewInt(1)
	for range codeDigits {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

// maskEmail hides most of the local part: "brother.j@example.org" -> "b*******j@example.org"
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 2 {
		return email
	}

	local := email[:at]
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + email[at:]
}
