package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sahilchouksey/learnhub-api/config"
	"github.com/sahilchouksey/learnhub-api/database"
	"github.com/sahilchouksey/learnhub-api/utils"
)

func main() {
	demo := flag.Bool("demo", false, "also create a demo instructor, student and courses")
	flag.Parse()

	if err := run(*demo); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(demo bool) error {
	// Load environment variables
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

	return database.RunSeeds(context.Background(), store.GetDB(), log, database.SeedOptions{
		AdminName:     env.ADMIN_NAME,
		AdminEmail:    env.ADMIN_EMAIL,
		AdminPassword: env.ADMIN_PASSWORD,
		Demo:          demo,
	})
}
