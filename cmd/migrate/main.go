package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/repository/postgres"
)

func main() {
	cfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// First, connect to postgres database to create the target database if needed
	if err := ensureDatabase(ctx, *cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to prepare database: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(*cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migration completed successfully!")
}

func ensureDatabase(ctx context.Context, cfg config.DatabaseConfig) error {
	admin := cfg
	admin.DBName = "postgres"
	postgresDB, err := sql.Open("postgres", postgres.DSN(admin))
	if err != nil {
		return err
	}
	defer postgresDB.Close()

	var exists bool
	err = postgresDB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}

	fmt.Printf("Database '%s' does not exist. Creating...\n", cfg.DBName)
	if _, err := postgresDB.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(cfg.DBName)); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	fmt.Printf("Database '%s' created successfully.\n", cfg.DBName)
	return nil
}
