package main

import (
	"studydesk/backend/internal/config"
	"studydesk/backend/internal/db"
	"studydesk/backend/internal/logger"
	"studydesk/backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal("open database", "path", cfg.DBPath, "error", err)
	}
	defer database.Close()

	applied, err := db.RunMigrations(database, migrations.Source(cfg.MigrationsDir))
	if err != nil {
		log.Fatal("run migrations", "applied", applied, "error", err)
	}
	if len(applied) == 0 {
		log.Info("schema already up to date", "path", cfg.DBPath)
		return
	}
	log.Info("migrations applied", "path", cfg.DBPath, "applied", applied)
}
