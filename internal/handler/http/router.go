package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/handler/http/middleware"
	"github.com/peopleops-io/workforce-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	appEnv string,
	allowedOrigins []string,
	authHandler AuthHandler,
	timesheetHandler TimesheetHandler,
	leaveHandler LeaveHandler,
	masterHandler MasterHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/timesheet", func(r chi.Router) {
				r.Post("/punch-in", timesheetHandler.PunchIn)
				r.Post("/punch-out", timesheetHandler.PunchOut)
				r.Get("/sessions/active", timesheetHandler.ActiveSessions)

				// HR admin only: historical corrections
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(employee.CapabilityFull))
					r.Put("/sessions/{id}", timesheetHandler.UpdateSession)
					r.Delete("/sessions/{id}", timesheetHandler.DeleteSession)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.CreateRequest)
					r.Get("/my", leaveHandler.GetMyRequests)
					r.Get("/{id}", leaveHandler.GetRequest)

					// Approvers
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireCapability(employee.CapabilityDepartment))
						r.Put("/{id}", leaveHandler.UpdateRequest)
					})

					// HR admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireCapability(employee.CapabilityFull))
						r.Delete("/{id}", leaveHandler.DeleteRequest)
					})
				})

				r.Get("/balances", leaveHandler.GetBalances)
				r.Get("/statistics", leaveHandler.GetStatistics)
			})

			r.Route("/master", func(r chi.Router) {
				r.Get("/break-types", masterHandler.ListBreakTypes)
				r.Get("/leave-types", masterHandler.ListLeaveTypes)
				r.Get("/approval-statuses", masterHandler.ListApprovalStatuses)
				r.Get("/shifts", masterHandler.ListShifts)
			})
		})
	})
	return r
}
