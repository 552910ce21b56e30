package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/chronotrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	AllowedOrigins []string
	Env            string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	locationHandler LocationHandler,
	shiftHandler ShiftHandler,
	qrPassHandler QRPassHandler,
	eventHandler EventHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "chronotrack-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
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
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", attendanceHandler.Record)
				r.Get("/my", attendanceHandler.GetMyAttendance)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", attendanceHandler.List)
				})
			})

			r.Route("/qr", func(r chi.Router) {
				r.Post("/redeem", qrPassHandler.Redeem)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", qrPassHandler.Issue)
					r.Get("/{id}/image", qrPassHandler.Image)
				})
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/stream", eventHandler.Stream)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/recent", eventHandler.Recent)
				})
			})

			// Admin only
			r.Route("/locations", func(r chi.Router) {
				r.Get("/", locationHandler.List)
				r.Get("/{id}", locationHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", locationHandler.Create)
					r.Put("/{id}", locationHandler.Update)
					r.Delete("/{id}", locationHandler.Delete)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.ListWindows)
				r.Get("/{id}", shiftHandler.GetWindow)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", shiftHandler.CreateWindow)
					r.Put("/{id}", shiftHandler.UpdateWindow)
					r.Delete("/{id}", shiftHandler.DeleteWindow)
				})

				r.Route("/assignments", func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", shiftHandler.CreateAssignment)
					r.Get("/", shiftHandler.ListAssignments)
					r.Delete("/{id}", shiftHandler.DeleteAssignment)
				})
			})
		})
	})

	return r
}
