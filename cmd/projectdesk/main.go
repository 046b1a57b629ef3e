package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/projectdesk/projectdesk/db"
	"github.com/projectdesk/projectdesk/internal/auth"
	"github.com/projectdesk/projectdesk/internal/config"
	"github.com/projectdesk/projectdesk/internal/router"
	"github.com/projectdesk/projectdesk/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := auth.InitJWT(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL); err != nil {
		log.Fatalf("Failed to initialise JWT: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseDSN, cfg.DBDebug); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.SQLMigrations && cfg.DBDriver == "postgres" {
		if err := db.RunSQLMigrations(cfg.DatabaseDSN); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitMailer(cfg.Email)

	storage, err := services.NewLocalStorage(cfg.UploadDir)

	if err != nil {
		log.Fatalf("Failed to prepare upload storage: %v", err)
	}

	services.SetStorage(storage)

	r := router.NewRouter(cfg)

	log.Printf("Starting server on :%s", cfg.Port)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
