package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/repository"
	"github.com/noah-isme/school-api/pkg/config"
	"github.com/noah-isme/school-api/pkg/database"
	"github.com/noah-isme/school-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Log.Format = "console"
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	cli := commandLine{
		db:     db.DB,
		users:  repository.NewUserRepository(db),
		logger: logr,
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logr.Error("command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
