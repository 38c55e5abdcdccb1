package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

// ensureDatabase creates the target database when it does not exist, using
// the "postgres" maintenance database with the same credentials.
func ensureDatabase(databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return errors.New("database name is empty in url")
	}

	u.Path = "/postgres"
	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping admin connection: %w", err)
	}

	var exists bool
	if err := db.QueryRow("SELECT true FROM pg_database WHERE datname = $1", dbName).Scan(&exists); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("create database %q: %w", dbName, err)
	}
	log.Printf("database: created %q", dbName)
	return nil
}

// findDir locates a repo-relative directory from cwd or its parent
// (binaries are sometimes run from bin/).
func findDir(parts ...string) string {
	cwd, _ := os.Getwd()
	for _, base := range []string{cwd, filepath.Join(cwd, "..")} {
		d := filepath.Join(append([]string{base}, parts...)...)
		if _, err := os.Stat(d); err == nil {
			abs, _ := filepath.Abs(d)
			return abs
		}
	}
	return ""
}

// MigrateUp creates the database if needed and applies pending SQL
// migrations from database/migrations (golang-migrate).
func MigrateUp(databaseURL string) error {
	if err := ensureDatabase(databaseURL); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	dir := findDir("database", "migrations")
	if dir == "" {
		return errors.New("migrations dir not found (tried cwd and parent)")
	}
	m, err := migrate.New("file://"+filepath.ToSlash(dir), databaseURL)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()
	err = m.Up()
	switch {
	case err == nil:
		log.Println("migrate: up ok")
	case errors.Is(err, migrate.ErrNoChange):
		log.Println("migrate: no pending migrations")
	default:
		return err
	}
	return nil
}

// CreateMigration writes an empty up/down pair in database/migrations.
func CreateMigration(name string) error {
	dir := findDir("database", "migrations")
	if dir == "" {
		cwd, _ := os.Getwd()
		dir = filepath.Join(cwd, "database", "migrations")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	base := fmt.Sprintf("%d_%s", time.Now().Unix(), name)
	if err := os.WriteFile(filepath.Join(dir, base+".up.sql"), []byte("-- migration up: "+name+"\n"), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, base+".down.sql"), []byte("-- migration down: "+name+"\n"), 0644)
}
