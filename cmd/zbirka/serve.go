package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/redis/go-redis/v9"

	"github.com/erazemk/zbirka/internal/api"
	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/cache"
	"github.com/erazemk/zbirka/internal/db"
	"github.com/erazemk/zbirka/internal/store"
	"github.com/erazemk/zbirka/internal/web"
)

type serveCmd struct {
	dbPath    string
	addr      string
	logPath   string
	redisAddr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the web app and JSON API" }
func (*serveCmd) Usage() string {
	return `serve [flags]

  Serves the web app on / and the JSON API on /api/. The database is
  created on first run.

Flags:
  -d, -db <path>          SQLite database path (default: zbirka.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -r, -redis <host:port>  keep revoked tokens in Redis instead of the database
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "zbirka.sqlite3", "")
	f.StringVar(&c.dbPath, "d", "zbirka.sqlite3", "")
	f.StringVar(&c.addr, "addr", ":8080", "")
	f.StringVar(&c.addr, "a", ":8080", "")
	f.StringVar(&c.logPath, "log", "", "")
	f.StringVar(&c.logPath, "l", "", "")
	f.StringVar(&c.redisAddr, "redis", "", "")
	f.StringVar(&c.redisAddr, "r", "", "")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	closeLog, err := setupLogger(c.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	if err := c.run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *serveCmd) run(ctx context.Context) error {
	database, err := db.Open(c.dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", c.dbPath)

	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	var revoker auth.Revoker = store.Revocations{DB: database}
	if c.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: c.redisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		revoker = cache.NewRevocations(rdb)
		slog.Info("token revocations kept in redis", "addr", c.redisAddr)
	}

	apiRouter := api.NewRouter(database, jwtSecret, revoker)
	webRouter, err := web.NewRouter(database, jwtSecret, revoker)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              c.addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", c.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}
