package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/inkwell-cms/inkwell-api/internal/api"
	apimiddleware "github.com/inkwell-cms/inkwell-api/internal/api/middleware"
	"github.com/inkwell-cms/inkwell-api/internal/config"
	"github.com/inkwell-cms/inkwell-api/internal/platform/embedding"
	"github.com/inkwell-cms/inkwell-api/internal/platform/postgres"
	"github.com/inkwell-cms/inkwell-api/internal/service/auth"
)

// application holds the server's long-lived dependencies.
type application struct {
	config     *config.Config
	logger     *slog.Logger
	db         *sql.DB
	jwtService auth.JWTService
	embedder   embedding.Generator
}

// newApplication connects to the database, applies pending migrations and
// constructs the application's services.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.ApplyMigrations(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("failed to close database after migration failure",
				slog.String("error", closeErr.Error()))
		}
		return nil, err
	}
	log.Info("database migrations applied")

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("failed to close database",
				slog.String("error", closeErr.Error()))
		}
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &application{
		config:     cfg,
		logger:     log,
		db:         db,
		jwtService: jwtService,
		embedder:   embedding.NewClient(cfg.Embedding),
	}, nil
}

// openDatabase opens and validates a connection pool for the application.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("database ping failed: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// routes creates and configures the application router with all routes and
// middleware.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	userHandler := api.NewUserHandler(postgres.NewUserStore(app.db, app.logger))
	contentHandler := api.NewContentHandler(postgres.NewContentStore(app.db, app.logger))
	documentHandler := api.NewDocumentHandler(
		postgres.NewDocumentStore(app.db, app.logger),
		app.embedder,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// User profile endpoints
			r.Post("/users", userHandler.Register)
			r.Get("/users/me", userHandler.GetMe)
			r.Delete("/users/me", userHandler.DeleteMe)

			// Content endpoints
			r.Post("/content", contentHandler.CreateContent)
			r.Get("/content", contentHandler.ListContent)
			r.Get("/content/{id}", contentHandler.GetContent)
			r.Put("/content/{id}", contentHandler.UpdateContent)
			r.Delete("/content/{id}", contentHandler.DeleteContent)

			// Document endpoints
			r.Post("/documents", documentHandler.CreateDocument)
			r.Get("/documents/search", documentHandler.SearchDocuments)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// close releases the application's long-lived resources.
func (app *application) close() {
	if err := app.db.Close(); err != nil {
		app.logger.Warn("failed to close database", slog.String("error", err.Error()))
	}
}
