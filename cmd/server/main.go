// Package main is the entry point for the Lectern server. It loads
// configuration, connects the backing stores and Google clients, wires
// together all plugins, and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lectern-app/lectern/internal/app"
	"github.com/lectern-app/lectern/internal/codestore"
	"github.com/lectern-app/lectern/internal/config"
	"github.com/lectern-app/lectern/internal/database"
	"github.com/lectern-app/lectern/internal/directory"
	"github.com/lectern-app/lectern/internal/gapi"
	"github.com/lectern-app/lectern/internal/mailer"
	"github.com/lectern-app/lectern/internal/plugins/auth"
	"github.com/lectern-app/lectern/internal/plugins/files"
	"github.com/lectern-app/lectern/internal/plugins/mail"
	"github.com/lectern-app/lectern/internal/plugins/roster"
	"github.com/lectern-app/lectern/internal/plugins/schedule"
	"github.com/lectern-app/lectern/internal/plugins/settlement"
	"github.com/lectern-app/lectern/internal/token"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	setupLogging(cfg)

	slog.Info("starting Lectern",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("directory", cfg.Directory),
	)

	ctx := context.Background()

	// --- Google Workspace Clients ---
	services, err := gapi.NewServices(ctx, cfg.Google)
	if err != nil {
		slog.Error("failed to create Google API clients", slog.Any("error", err))
		os.Exit(1)
	}
	sheet := gapi.NewSheet(services.Sheets, cfg.Google.SpreadsheetID)

	// --- Account Directory ---
	var dir directory.Directory
	switch cfg.Directory {
	case "mysql":
		db, err := database.NewMariaDB(cfg.Database)
		if err != nil {
			slog.Error("failed to connect to MariaDB", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()
		if err := database.RunMigrations(db, "migrations"); err != nil {
			slog.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
		dir = directory.NewMySQL(db)
		slog.Info("using MariaDB account directory")
	default:
		dir = directory.NewSheets(sheet)
		slog.Info("using Sheets account directory")
	}

	// --- Verification Code Store ---
	var codes codestore.Store
	if cfg.Redis.URL != "" {
		rdb, err := database.NewRedis(cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer rdb.Close()
		codes = codestore.NewRedis(rdb)
		slog.Info("using Redis verification code store")
	} else {
		codes = codestore.NewMemory()
		slog.Info("using in-process verification code store")
	}

	// --- Mail ---
	// Gmail OAuth is optional; without a client file the app sends
	// through SMTP only and the authorize endpoints report as
	// unconfigured.
	gmailAuth, err := gapi.NewGmailAuth(
		cfg.Google.OAuthClientFile,
		cfg.Google.TokenFile,
		cfg.Auth.SecretKey,
		cfg.BaseURL+"/oauth2/callback",
	)
	if err != nil {
		slog.Warn("gmail authorization unavailable", slog.Any("error", err))
		gmailAuth = nil
	}
	sender := mailer.NewAuto(mailer.NewGmail(gmailAuth), mailer.NewSMTP(cfg.SMTP))
	if !sender.Available() {
		// Verification codes would only ever reach the log. Tolerable
		// in development, startup failure in production.
		if cfg.IsProduction() {
			slog.Error("no mail transport configured: set SMTP_HOST or GOOGLE_OAUTH_CLIENT_FILE")
			os.Exit(1)
		}
		slog.Warn("no mail transport configured; verification codes will be logged only")
	}

	// --- Sessions and Auth ---
	codec := token.NewCodec(cfg.Auth.SecretKey, cfg.Auth.SessionTTL)
	sessions := auth.NewSessionStore(codec, cfg.IsProduction(), cfg.Auth.SessionTTL)
	authService := auth.NewService(dir, codes, sender, codec, cfg.Auth.CodeTTL)

	// --- Plugins ---
	handlers := app.Handlers{
		Auth:       auth.NewHandler(authService, sessions),
		Roster:     roster.NewHandler(roster.NewService(sheet)),
		Schedule:   schedule.NewHandler(schedule.NewService(gapi.NewCalendar(services.Calendar, cfg.Google.CalendarID))),
		Settlement: settlement.NewHandler(settlement.NewService(sheet)),
		Files:      files.NewHandler(files.NewService(gapi.NewDrive(services.Drive))),
	}
	if gmailAuth != nil {
		handlers.Mail = mail.NewHandler(mail.NewService(gmailAuth))
	}

	// --- Create Application ---
	application := app.New(cfg, sessions)
	application.RegisterRoutes(handlers)

	// --- Graceful Shutdown ---
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// setupLogging configures the global slog logger. Development uses text
// format for readability; production uses JSON for log aggregation.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler

	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	slog.SetDefault(slog.New(handler))
}
