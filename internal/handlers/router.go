package handlers

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/jhansen/wardbook/internal/handlers/middleware"
	"github.com/jhansen/wardbook/internal/logger"
	"github.com/jhansen/wardbook/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// RouterConfig carries everything the HTTP surface needs
type RouterConfig struct {
	AuthService      authService
	MemberService    memberService
	CallingService   callingService
	MeetingService   meetingService
	BudgetService    budgetService
	InterviewService interviewService
	ActivityService  activityService
	ReportService    reportService

	// Origins allowed to call the API with credentials
	AllowedOrigins []string

	Logger logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuth(cfg.AuthService)
	memberHandler := NewMember(cfg.MemberService)
	callingHandler := NewCalling(cfg.CallingService)
	meetingHandler := NewMeeting(cfg.MeetingService)
	budgetHandler := NewBudget(cfg.BudgetService)
	interviewHandler := NewInterviews(cfg.InterviewService)
	activityHandler := NewActivities(cfg.ActivityService)
	reportHandler := NewReports(cfg.ReportService, cfg.Logger)

	authMiddleware := middleware.AuthMiddleware(cfg.AuthService)
	withAuth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	withRoles := func(h http.HandlerFunc, roles ...string) http.Handler {
		return authMiddleware(middleware.RequireRole(roles...)(h))
	}

	api := http.NewServeMux()

	api.Handle("POST /login", http.HandlerFunc(authHandler.Login))
	api.Handle("POST /login/verify", http.HandlerFunc(authHandler.Verify))
	api.Handle("POST /auth/refresh", http.HandlerFunc(authHandler.Refresh))
	api.Handle("POST /logout", http.HandlerFunc(authHandler.Logout))
	api.Handle("GET /me", withAuth(authHandler.Me))

	api.Handle("GET /members", withAuth(memberHandler.List))
	api.Handle("GET /members/{id}", withAuth(memberHandler.Get))
	api.Handle("POST /members", withRoles(memberHandler.Create, models.RoleClerk))
	api.Handle("PUT /members/{id}", withRoles(memberHandler.Update, models.RoleClerk))
	api.Handle("DELETE /members/{id}", withRoles(memberHandler.Delete, models.RoleClerk))

	api.Handle("GET /callings", withAuth(callingHandler.List))
	api.Handle("GET /callings/{id}", withAuth(callingHandler.Get))
	api.Handle("POST /callings", withRoles(callingHandler.Create, models.RoleLeader))
	api.Handle("POST /callings/{id}/status", withRoles(callingHandler.SetStatus, models.RoleLeader))

	api.Handle("GET /meetings", withAuth(meetingHandler.List))
	api.Handle("GET /meetings/{id}", withAuth(meetingHandler.Get))
	api.Handle("POST /meetings", withRoles(meetingHandler.Create, models.RoleClerk, models.RoleLeader))
	api.Handle("PUT /meetings/{id}", withRoles(meetingHandler.Update, models.RoleClerk, models.RoleLeader))
	api.Handle("DELETE /meetings/{id}", withRoles(meetingHandler.Delete, models.RoleClerk, models.RoleLeader))

	api.Handle("GET /budget/categories", withAuth(budgetHandler.ListCategories))
	api.Handle("POST /budget/categories", withRoles(budgetHandler.CreateCategory, models.RoleClerk))
	api.Handle("GET /budget/expenses", withAuth(budgetHandler.ListExpenses))
	api.Handle("POST /budget/expenses", withAuth(budgetHandler.CreateExpense))
	api.Handle("POST /budget/expenses/{id}/approve", withRoles(budgetHandler.ApproveExpense, models.RoleLeader))
	api.Handle("POST /budget/expenses/{id}/reimburse", withRoles(budgetHandler.ReimburseExpense, models.RoleClerk))
	api.Handle("GET /budget/summary", withAuth(budgetHandler.Summary))

	api.Handle("GET /interviews", withRoles(interviewHandler.List, models.RoleLeader))
	api.Handle("POST /interviews", withRoles(interviewHandler.Create, models.RoleLeader))
	api.Handle("POST /interviews/{id}/complete", withRoles(interviewHandler.Complete, models.RoleLeader))
	api.Handle("POST /interviews/{id}/cancel", withRoles(interviewHandler.Cancel, models.RoleLeader))

	api.Handle("GET /activities", withAuth(activityHandler.List))
	api.Handle("GET /activities/{id}", withAuth(activityHandler.Get))
	api.Handle("POST /activities", withRoles(activityHandler.Create, models.RoleClerk, models.RoleLeader))
	api.Handle("PUT /activities/{id}", withRoles(activityHandler.Update, models.RoleClerk, models.RoleLeader))
	api.Handle("DELETE /activities/{id}", withRoles(activityHandler.Delete, models.RoleClerk, models.RoleLeader))

	api.Handle("GET /reports/members.csv", withRoles(reportHandler.Members, models.RoleClerk, models.RoleLeader))
	api.Handle("GET /reports/budget.csv", withRoles(reportHandler.Budget, models.RoleClerk, models.RoleLeader))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return chain(root,
		middleware.RecoverMiddleware(cfg.Logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(cfg.Logger),
		corsMiddleware,
	)
}
