// Package server wires the application together: router, middleware,
// routes, and lifecycle. main.go stays minimal; this is the composition
// root where the dependency chain (DB → repositories → services →
// handlers) is assembled.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/numenot/myflix-api/internal/auth"
	"github.com/numenot/myflix-api/internal/handler"
	"github.com/numenot/myflix-api/internal/middleware"
	"github.com/numenot/myflix-api/internal/model"
	sqliteRepo "github.com/numenot/myflix-api/internal/repository/sqlite"
	"github.com/numenot/myflix-api/internal/service"
)

// Config holds server configuration, loaded once at startup in
// cmd/server/main.go. JWTSecret is the process-wide signing key — injected
// here, never read from a package-level variable, never rotated at runtime.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	StaticDir string // directory served under /static; empty disables it
	SeedPath  string // JSON catalog seed; empty skips seeding

	// AllowedOrigins is the CORS allow-list for browser clients. Empty
	// means any origin — the API is already gated per-request by the
	// bearer token, not by cookies, so a wildcard carries no CSRF risk.
	AllowedOrigins []string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown, after in-flight requests drain.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph and registers all routes.
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
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	if cfg.SeedPath != "" {
		if err := s.seedCatalog(cfg.SeedPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding catalog: %w", err)
		}
	}

	return s, nil
}

// Router exposes the configured router. Tests mount it directly without
// binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database. Only needed when Start is never called
// (tests); Start closes the database itself on the way out.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware, builds the services and handlers,
// and registers every route.
//
// Route map:
//
//	GET    /                                    welcome (public)
//	GET    /static/*                            static files (public)
//	POST   /login                               login (public)
//	POST   /users                               registration (public)
//	GET    /movies                              catalog (token)
//	GET    /movies/{title}                      catalog (token)
//	GET    /genres/{name}                       catalog (token)
//	GET    /directors/{name}                    catalog (token)
//	GET    /users/{username}                    profile (token + owner)
//	PUT    /users/{username}                    profile (token + owner)
//	DELETE /users/{username}                    profile (token + owner)
//	GET    /users/{username}/movies             favorites (token + owner)
//	POST   /users/{username}/movies/{movieID}   favorites (token + owner)
//	DELETE /users/{username}/movies/{movieID}   favorites (token + owner)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	userService := service.NewUserService(s.db, s.db, passwords, s.logger)
	movieService := service.NewMovieService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	movieHandler := handler.NewMovieHandler(movieService, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "Welcome to myFlix!")
	})

	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// Public routes — the only two operations reachable without a token.
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/users", userHandler.HandleRegister)

	// Everything else sits behind the token gate.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/movies", movieHandler.HandleList)
		r.Get("/movies/{title}", movieHandler.HandleGetByTitle)
		r.Get("/genres/{name}", movieHandler.HandleGetGenre)
		r.Get("/directors/{name}", movieHandler.HandleGetDirector)

		r.Get("/users/{username}", userHandler.HandleGet)
		r.Put("/users/{username}", userHandler.HandleUpdate)
		r.Delete("/users/{username}", userHandler.HandleDelete)

		r.Get("/users/{username}/movies", userHandler.HandleListFavorites)
		r.Post("/users/{username}/movies/{movieID}", userHandler.HandleAddFavorite)
		r.Delete("/users/{username}/movies/{movieID}", userHandler.HandleRemoveFavorite)
	})

	return nil
}

// seedCatalog loads the JSON catalog seed into the movies table. Already
// seeded titles are left untouched.
func (s *Server) seedCatalog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var movies []model.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	movieService := service.NewMovieService(s.db, s.logger)
	return movieService.Seed(context.Background(), movies)
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
