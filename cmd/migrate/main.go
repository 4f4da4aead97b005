// Command migrate applies goose SQL migrations.
//
// Usage:
//
//	migrate up|down|status
//
// Requires DATABASE_DSN environment variable to be set. The migrations
// directory defaults to ./migrations and can be overridden with
// MIGRATIONS_DIR.
package main

import (
	"context"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate up|down|status")
	}
	command := os.Args[1]

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "migrations"
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch command {
	case "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	default:
		log.Fatalf("unknown command %q (want up, down, or status)", command)
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}
