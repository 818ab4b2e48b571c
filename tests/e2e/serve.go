package e2e

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/jhansen/wardbook/internal/handlers"
	"github.com/jhansen/wardbook/internal/logger"
	"github.com/jhansen/wardbook/internal/repository/postgres"
	"github.com/jhansen/wardbook/internal/service/activity"
	"github.com/jhansen/wardbook/internal/service/auth"
	"github.com/jhansen/wardbook/internal/service/auth/tokenmanager"
	"github.com/jhansen/wardbook/internal/service/budget"
	"github.com/jhansen/wardbook/internal/service/calling"
	"github.com/jhansen/wardbook/internal/service/interview"
	"github.com/jhansen/wardbook/internal/service/meeting"
	"github.com/jhansen/wardbook/internal/service/member"
	"github.com/jhansen/wardbook/internal/service/report"
	"github.com/jhansen/wardbook/internal/testutil"
)

// CodeSender captures login codes so tests can read them instead of mail
type CodeSender struct {
	mu        sync.Mutex
	LastEmail string
	LastCode  string
}

func (s *CodeSender) SendLoginCode(ctx context.Context, email string, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastEmail = email
	s.LastCode = code
	return nil
}

// Code returns the last captured login code
func (s *CodeSender) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastCode
}

type Services struct {
	AuthService *auth.AuthService
	Sender      *CodeSender
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
		require.NoError(t, err, "token manager should be created without errors")

		sender := &CodeSender{}
		as, err := auth.NewService(auth.Config{}, tokenManager, storage, sender, nil)
		require.NoError(t, err, "auth service starting error", err)

		router := handlers.NewRouter(handlers.RouterConfig{
			AuthService:      as,
			MemberService:    member.NewService(storage.Member()),
			CallingService:   calling.NewService(storage.Calling(), storage.Member()),
			MeetingService:   meeting.NewService(storage.Meeting()),
			BudgetService:    budget.NewService(storage.Budget()),
			InterviewService: interview.NewService(storage.Interview(), storage.Member()),
			ActivityService:  activity.NewService(storage.Activity()),
			ReportService:    report.NewService(storage.Member(), storage.Budget()),
			AllowedOrigins:   []string{"http://localhost"},
			Logger:           logger.NewNoOpLogger(),
		})

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			Sender:      sender,
		})
	})
}
