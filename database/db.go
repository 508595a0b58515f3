package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"avix/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var db *sql.DB

// InitDB opens the Postgres pool and verifies connectivity.
// The DSN comes from config and must never be logged; it contains secrets.
func InitDB() {
	conn, err := sql.Open("pgx", config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open Postgres: %v", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(30 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping Postgres: %v", err)
	}

	db = conn
}

// GetDB returns the shared Postgres pool.
func GetDB() *sql.DB {
	if db == nil {
		InitDB()
	}
	return db
}
