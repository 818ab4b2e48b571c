package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jhansen/wardbook/internal/db"
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
	"github.com/jhansen/wardbook/internal/service/notifier"
	"github.com/jhansen/wardbook/internal/service/report"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Login codes go over SMTP when a relay is configured, to the log otherwise
	var sender auth.CodeSender
	if c.SMTPAddr != "" {
		sender = notifier.NewMailer(notifier.Config{
			Addr:       c.SMTPAddr,
			User:       c.SMTPUser,
			Password:   c.SMTPPassword,
			From:       c.SMTPFrom,
			SubjPrefix: "[Wardbook]",
		}, log)
	} else {
		sender = notifier.LogSender{Logger: log}
	}

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage, sender, log)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	mux := handlers.NewRouter(handlers.RouterConfig{
		AuthService:      authService,
		MemberService:    member.NewService(storage.Member()),
		CallingService:   calling.NewService(storage.Calling(), storage.Member()),
		MeetingService:   meeting.NewService(storage.Meeting()),
		BudgetService:    budget.NewService(storage.Budget()),
		InterviewService: interview.NewService(storage.Interview(), storage.Member()),
		ActivityService:  activity.NewService(storage.Activity()),
		ReportService:    report.NewService(storage.Member(), storage.Budget()),
		AllowedOrigins:   c.AllowedOrigins,
		Logger:           log,
	})

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
