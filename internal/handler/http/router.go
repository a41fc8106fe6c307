package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/rbac"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

type Handlers struct {
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Notification NotificationHandler
	Report       ReportHandler
	Employee     EmployeeHandler
	Permission   PermissionHandler
}

// NewLogger builds the ECS-formatted JSON logger shared by the request
// logger and the rest of the process.
func NewLogger(cfg RouterConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
}

func NewRouter(cfg RouterConfig, logger *slog.Logger, JWTService jwt.Service, authz rbac.Authorizer, limiter *middleware.KeyedRateLimiter, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	can := func(p user.Permission) func(http.Handler) http.Handler {
		return middleware.RequirePermission(authz, p)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// SSE authenticates through its own short-lived query token
		r.With(middleware.RateLimit(limiter)).Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RateLimit(limiter))

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionAttendanceCreate))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
					r.Post("/breaks/start", h.Attendance.StartBreak)
					r.Post("/breaks/end", h.Attendance.EndBreak)
				})

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionAttendanceViewOwn))
					r.Get("/me/today", h.Attendance.GetMyToday)
					r.Get("/me/history", h.Attendance.GetMyHistory)
				})

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.List)
					r.Get("/today", h.Attendance.GetTodayOverview)
					r.Get("/employees/{id}", h.Attendance.GetEmployeeAttendance)
				})

				r.With(can(user.PermissionAttendanceExport)).Get("/export", h.Report.ExportMonthlyAttendance)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.With(can(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionLeaveViewOwn))
					r.Get("/me", h.Leave.GetMyRequests)
					r.Get("/me/stats", h.Leave.GetMyStats)
				})

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionLeaveViewAll))
					r.Get("/", h.Leave.ListRequests)
					r.Get("/today", h.Leave.GetTodayOnLeave)
					r.Get("/{id}", h.Leave.GetRequest)
				})

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionLeaveApprove))
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Get("/sse-token", h.Notification.GetSSEToken)
				r.Patch("/read-all", h.Notification.MarkAllAsRead)
				r.Patch("/{id}/read", h.Notification.MarkAsRead)
			})

			r.Route("/employees", func(r chi.Router) {
				// Self or admin, checked in the handler
				r.Get("/{id}/stats", h.Report.GetEmployeeStats)

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionEmployeeViewAll))
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/{id}", h.Employee.GetEmployee)
				})

				r.Group(func(r chi.Router) {
					r.Use(can(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Patch("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeactivateEmployee)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(can(user.PermissionReportsView))
				r.Get("/dashboard", h.Report.GetDashboard)
				r.Get("/attendance", h.Report.GetMonthlyAttendanceReport)
			})

			// Role-gated rather than permission-gated so an admin cannot
			// revoke their own way out of this group
			r.Route("/admin/permissions", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", h.Permission.ListGrants)
				r.Put("/{role}/{permission}", h.Permission.Grant)
				r.Delete("/{role}/{permission}", h.Permission.Revoke)
			})
		})
	})
	return r
}
