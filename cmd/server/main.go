package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	auth "github.com/goliatone/go-auth-roles"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
)

type App struct {
	config *auth.EnvConfig
	bunDB  *bun.DB
	users  auth.Users
	srv    router.Server[*fiber.App]
	logger *auth.SlogLogger
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := auth.LoadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	app := &App{
		config: cfg,
		logger: auth.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))),
	}

	if err := WithPersistence(ctx, app); err != nil {
		return err
	}
	defer app.bunDB.Close()

	if err := WithSeedAdmin(ctx, app); err != nil {
		return err
	}

	WithHTTPServer(app)

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", "addr", cfg.ListenAddr)
		serveErr <- app.srv.Serve(cfg.ListenAddr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown", "error", err)
		return err
	}
	return nil
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := auth.OpenSQLite(app.config.DSN)
	if err != nil {
		return err
	}

	if err := auth.CreateSchema(ctx, db); err != nil {
		db.Close()
		return err
	}

	app.bunDB = db
	app.users = auth.NewUsersRepository(db)
	return nil
}

// WithSeedAdmin creates the admin account, registration refuses that role
func WithSeedAdmin(ctx context.Context, app *App) error {
	if app.config.AdminUsername == "" || app.config.AdminPassword == "" {
		return nil
	}

	hasher := auth.NewBcryptHasher(app.config.GetHashCost())
	user, err := auth.EnsureUser(ctx, app.users, hasher, app.config.AdminUsername, app.config.AdminPassword, auth.RoleAdmin)
	if err != nil {
		return err
	}

	app.logger.Info("admin account ready", "user_id", user.ID, "username", user.Username)
	return nil
}

func WithHTTPServer(app *App) {
	cfg := app.config

	tokens := auth.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		app.logger.With("component", "tokens"),
	)

	controller := auth.NewAuthController(cfg, app.users, tokens, auth.NewBcryptHasher(cfg.GetHashCost())).
		WithLogger(app.logger.With("component", "http"))

	srv := router.NewFiberAdapter(func(_ *fiber.App) *fiber.App {
		a := router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName: "go-auth-roles",
		}))
		a.Use(recover.New())
		a.Use(logger.New())
		return a
	})

	auth.RegisterRoutes(srv.Router().Group("/api"), controller)

	app.srv = srv
}
