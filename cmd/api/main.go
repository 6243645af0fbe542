package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"github.com/staffportal/backend/internal/accounts"
	"github.com/staffportal/backend/internal/auth"
	"github.com/staffportal/backend/internal/authz"
	"github.com/staffportal/backend/internal/config"
	"github.com/staffportal/backend/internal/models"
	"github.com/staffportal/backend/internal/privilege"
	"github.com/staffportal/backend/internal/repository"
	"github.com/staffportal/backend/internal/router"
	"github.com/staffportal/backend/migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	levels := make([]privilege.Level, len(cfg.Privilege.Levels))
	for i, l := range cfg.Privilege.Levels {
		levels[i] = privilege.Level(l)
	}
	ranking, err := privilege.NewRanking(levels)
	if err != nil {
		slog.Error("Invalid PRIVILEGE_LEVELS", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.PG.DSN)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL")

	if err := migrations.Up(cfg.PG.DSN); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations applied")

	userRepo := repository.NewUserRepo(pool)
	hasher := accounts.BcryptHasher{}

	if err := seedOwner(ctx, userRepo, hasher, ranking, cfg.Bootstrap); err != nil {
		slog.Error("Owner bootstrap failed", "error", err)
		os.Exit(1)
	}

	authSvc := auth.NewService(userRepo, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	authHandler := auth.NewHandler(authSvc, logger)

	accountsSvc := accounts.NewService(userRepo, authz.NewService(ranking), hasher, ranking, accounts.Config{
		StrictIssuerCheck: cfg.Accounts.StrictIssuerCheck,
		Projection: models.Projection{
			IncludePrivilege: cfg.Accounts.ExposePrivilege,
			IncludeRoles:     cfg.Accounts.ExposeRoles,
		},
	}, logger)
	usersHandler := accounts.NewHandler(accountsSvc, ranking, logger)

	mux := router.New(authHandler, usersHandler, authSvc)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	addr := "0.0.0.0:" + cfg.HTTP.Port
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}

// seedOwner provisions the top-level account directly in the store when
// configured and not yet present. The lifecycle operations can never
// assign the protected level, so this is its only entry path.
func seedOwner(ctx context.Context, repo *repository.UserRepo, hasher accounts.BcryptHasher, ranking *privilege.Ranking, cfg config.BootstrapConfig) error {
	if cfg.OwnerEmail == "" || cfg.OwnerPassword == "" {
		return nil
	}
	existing, err := repo.FindByEmailOrUsername(ctx, cfg.OwnerEmail, cfg.OwnerUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := hasher.Hash(ctx, cfg.OwnerPassword)
	if err != nil {
		return err
	}
	owner := &models.Account{
		ID:           uuid.New(),
		Email:        cfg.OwnerEmail,
		Username:     cfg.OwnerUsername,
		PasswordHash: hash,
		Privilege:    ranking.Highest(),
		Active:       true,
		Roles:        []string{},
	}
	if err := repo.Create(ctx, owner); err != nil {
		return err
	}
	slog.Info("Provisioned bootstrap owner account", "email", cfg.OwnerEmail)
	return nil
}
