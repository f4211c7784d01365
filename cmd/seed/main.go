package main

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/Bilalsajai1/envProject-sub000/internal/app"
	"github.com/Bilalsajai1/envProject-sub000/internal/platform/db"
)

// Seeds the reference data the application needs on first boot: the three
// stock environment types, the ADMIN profile and one administrator account.
// Safe to run repeatedly.
func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Error("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	for _, envType := range []struct{ code, label string }{
		{"EDITION", "Edition"},
		{"INTEGRATION", "Integration"},
		{"CLIENT", "Client"},
	} {
		if _, err := pool.Exec(ctx,
			`INSERT INTO environment_types (code, label, is_active) VALUES ($1, $2, TRUE)
			 ON CONFLICT (code) DO NOTHING`,
			envType.code, envType.label); err != nil {
			logger.Error("seed environment type", slog.String("code", envType.code), slog.Any("error", err))
			os.Exit(1)
		}
	}

	var profileID int64
	if err := pool.QueryRow(ctx,
		`INSERT INTO profiles (code, label, is_admin, is_active) VALUES ('ADMIN', 'Administrator', TRUE, TRUE)
		 ON CONFLICT (code) DO UPDATE SET is_admin = TRUE, is_active = TRUE
		 RETURNING id`).Scan(&profileID); err != nil {
		logger.Error("seed admin profile", slog.Any("error", err))
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash admin password", slog.Any("error", err))
		os.Exit(1)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO users (email, display_name, password_hash, profile_id, is_active)
		 VALUES ($1, 'Administrator', $2, $3, TRUE)
		 ON CONFLICT (email) DO UPDATE SET profile_id = EXCLUDED.profile_id, is_active = TRUE`,
		adminEmail, string(hash), profileID); err != nil {
		logger.Error("seed admin user", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("seed complete", slog.String("admin", adminEmail))
}
