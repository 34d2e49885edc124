package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/database"
	"github.com/JustJay7/court-case-resolver/internal/server"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	srv, err := server.New(cfg, db, log)
	if err != nil {
		log.Fatal("Failed to initialize server", "error", err)
	}

	log.Info("Starting Court Case Resolver",
		"host", cfg.Host,
		"port", cfg.Port,
		"court", cfg.DefaultCourtName,
		"source_mode", cfg.SourceMode,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
