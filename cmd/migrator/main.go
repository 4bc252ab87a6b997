// Command migrator applies or rolls back the schema migrations.
//
//	migrator [up|down]
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/vecinoapp/favores-service/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	migrationsPath := envOr("MIGRATIONS_PATH", "./migrations")
	migrationsTable := envOr("MIGRATIONS_TABLE", "schema_migrations")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&x-migrations-table=%s",
		cfg.Postgres.Username,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Database,
		migrationsTable,
	)

	m, err := migrate.New("file://"+migrationsPath, connStr)
	if err != nil {
		return fmt.Errorf("can't create migration: %v", err)
	}

	var cmd string
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "down":
		if err := m.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				return errors.New("no migrations to roll back")
			}

			return fmt.Errorf("can't roll back migrations: %v", err)
		}

		fmt.Println("migrations rolled back successfully")
	case "up", "":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("no new migrations to apply")
				return nil
			}

			return fmt.Errorf("can't apply migrations: %v", err)
		}

		fmt.Println("migrations applied successfully")
	default:
		return fmt.Errorf("unknown command %q, want 'up' or 'down'", cmd)
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
