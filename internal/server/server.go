// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// DEPENDENCY INJECTION FLOW:
// New() assembles the entire chain in one place (the "composition root"):
//
//	sqlite.DB → services (auth, event, application, dashboard)
//	          → handlers (auth, dashboard, club, student, authority)
//	          → routes, grouped per role behind the authorization gate
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/handler"
	"github.com/sakif/campus-clubs/internal/middleware"
	"github.com/sakif/campus-clubs/internal/model"
	sqliteRepo "github.com/sakif/campus-clubs/internal/repository/sqlite"
	"github.com/sakif/campus-clubs/internal/service"
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy
// to add options without changing function signatures.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	DBPath        string // path to the SQLite database file
	SessionSecret string // HMAC key for session tokens, min 16 chars
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down we
// must close it to flush any pending writes and release the file lock —
// handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// IMPORT ALIAS:
// repository/sqlite is imported as `sqliteRepo` to avoid confusion with the
// sqlite driver package.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                                → login page (public)
//	GET  /signup                          → signup page (public)
//	POST /signup, POST /login, GET /logout
//	GET  /static/*                        → static files
//	GET  /dashboard/{role}                → role dashboards (gated)
//	GET/POST /club/...                    → club workflow (gated Club)
//	GET/POST /student/...                 → student workflow (gated Student)
//	POST /authority/action/{id}           → event review (gated Authority)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
// 1. RequestID — assigns a unique ID to each request (for tracing)
// 2. RealIP — extracts the real client IP from proxy headers
// 3. Logger — logs each request with timing info (needs the request ID)
// 4. Recoverer — catches panics and returns 500 instead of crashing
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// === Static files ===
	// StripPrefix removes "/static/" from the URL path before lookup, so
	// GET /static/css/style.css serves {StaticDir}/css/style.css.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Shared infrastructure ===
	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === Services ===
	// DEPENDENCY CHAIN:
	// s.db implements all three repository interfaces; each service
	// receives only the interfaces it needs, never the concrete DB.
	authService := service.NewAuthService(s.db, passwords, sessions, s.logger)
	eventService := service.NewEventService(s.db, s.logger)
	applicationService := service.NewApplicationService(s.db, s.db, s.db, s.logger)
	dashboardService := service.NewDashboardService(eventService, applicationService, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, sessions, renderer, s.logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, renderer, s.logger)
	clubHandler := handler.NewClubHandler(eventService, applicationService, renderer, s.logger)
	studentHandler := handler.NewStudentHandler(eventService, applicationService, renderer, s.logger)
	authorityHandler := handler.NewAuthorityHandler(eventService, renderer, s.logger)

	// === Public routes ===
	s.router.Get("/", authHandler.HandleLoginPage)
	s.router.Get("/signup", authHandler.HandleSignupPage)
	s.router.Post("/signup", authHandler.HandleSignup)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)

	// === Role-gated routes ===
	// AUTHORIZATION GATE:
	// RequireRole validates the session cookie and checks the role claim.
	// No session → redirect to the login page; wrong role → the 403 page.
	// Route groups keep one gate per role instead of a check in every
	// handler.
	requireStudent := auth.RequireRole(sessions, model.RoleStudent, renderer.Forbidden)
	requireClub := auth.RequireRole(sessions, model.RoleClub, renderer.Forbidden)
	requireAuthority := auth.RequireRole(sessions, model.RoleAuthority, renderer.Forbidden)

	s.router.Group(func(r chi.Router) {
		r.Use(requireStudent)
		r.Get("/dashboard/student", dashboardHandler.HandleStudent)
		r.Get("/student/events", studentHandler.HandleEvents)
		r.Get("/student/recruitments", studentHandler.HandleRecruitmentsPage)
		r.Get("/student/clubs", studentHandler.HandleClubsPage)
		r.Get("/student/applications", studentHandler.HandleApplications)
		r.Post("/student/apply-event", studentHandler.HandleApply)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(requireClub)
		r.Get("/dashboard/club", dashboardHandler.HandleClub)
		r.Get("/club/add-event", clubHandler.HandleAddEventPage)
		r.Get("/club/add-recruitment", clubHandler.HandleAddRecruitmentPage)
		r.Get("/club/request-permission", clubHandler.HandleRequestPermissionPage)
		r.Post("/club/request-permission", clubHandler.HandleRequestPermission)
		r.Get("/club/applications", clubHandler.HandleApplications)
		r.Post("/club/application/{id}/process", clubHandler.HandleProcessApplication)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(requireAuthority)
		r.Get("/dashboard/authority", dashboardHandler.HandleAuthority)
		r.Post("/authority/action/{id}", authorityHandler.HandleAction)
	})

	// Unmatched routes get the 404 page instead of chi's plain-text 404.
	s.router.NotFound(renderer.NotFound)

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases the file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even on a panic.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
