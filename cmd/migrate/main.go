// Command migrate applies the schema and reports which tables exist.
// Usage: go run ./cmd/migrate
package main

import (
	"fmt"
	"os"

	"github.com/sahilchouksey/learnhub-api/config"
	"github.com/sahilchouksey/learnhub-api/database"
	"github.com/sahilchouksey/learnhub-api/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	env := config.Read()

	log, err := utils.NewLogger(env.LOG_MODE)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := database.StartGORM(env, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return err
	}
	if err := store.HealthCheck(); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	tables, err := store.Tables()
	if err != nil {
		return err
	}
	migrator := store.GetDB().Migrator()
	for _, table := range tables {
		log.Info("table ready", "table", table, "exists", migrator.HasTable(table))
	}
	log.Info("all migrations completed", "tables", len(tables))
	return nil
}
