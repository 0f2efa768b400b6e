// Package main is the entry point for the campus clubs server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main"
// package. The main package should be kept minimal — its job is to:
// 1. Read configuration (env vars, with a .env file for local dev)
// 2. Create dependencies (logger, server)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). This separation keeps the app testable.
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points. A
// project might have multiple executables (cmd/server, cmd/migrate, ...);
// each gets its own directory with its own main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/campus-clubs/internal/server"
)

func main() {
	// === 1. LOAD .env ===
	// godotenv reads KEY=VALUE pairs from a .env file into the process
	// environment. A missing file is fine — production sets real env vars
	// and has no .env; the file is a local-dev convenience.
	_ = godotenv.Load()

	// === 2. SET UP LOGGING ===
	// Log levels (least to most severe): Debug → Info → Warn → Error.
	// LOG_LEVEL=debug turns on everything; the default Info keeps the
	// request log readable.
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// === 3. READ CONFIGURATION ===
	port := 5000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// SESSION_SECRET signs every session token. There is no safe default —
	// a guessable secret lets anyone forge an Authority session. Generate
	// one with: openssl rand -hex 32
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET not set — refusing to start")
		os.Exit(1)
	}

	dbPath := "data/campus.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Ensure the data directory exists (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. RESOLVE FILE PATHS ===
	// The "web" directory sits at the project root; when running with
	// `go run ./cmd/server` the working directory is the project root, so
	// these relative paths resolve correctly.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// === 5. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		StaticDir:     staticDir,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server shuts down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
