// Package main is the entry point for the blogging API database migration
// tool. It applies the embedded schema against SQLite or PostgreSQL.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/config"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/repository/sqlstore"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Blogging API Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up":
		withDB(func(ctx context.Context, db *sqlstore.DB) error {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		})

	case "status":
		withDB(func(ctx context.Context, db *sqlstore.DB) error {
			if err := db.Health(ctx); err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
			fmt.Println("database reachable")
			return nil
		})

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func withDB(fn func(ctx context.Context, db *sqlstore.DB) error) {
	ctx := context.Background()
	cfg := config.MustLoad(os.Getenv("BLOG_CONFIG"))
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	db, err := sqlstore.NewDB(ctx, sqlstore.Config{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		BusyTimeout:     cfg.Database.BusyTimeout,
		JournalMode:     cfg.Database.JournalMode,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := fn(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Blogging API Migration Tool

Usage:
  blog-migrate <command>

Commands:
  up          Apply the embedded schema migrations
  status      Check database reachability
  version     Print version information
  help        Show this help message

Environment Variables:
  BLOG_CONFIG          Path to the YAML config file (optional)
  BLOG_DATABASE_DRIVER sqlite or postgres
  BLOG_DATABASE_PATH   SQLite database file

Examples:
  blog-migrate up
  blog-migrate status`)
}
