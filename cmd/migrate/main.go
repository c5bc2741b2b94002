package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"rakitin/internal/database"
	"rakitin/internal/logging"
	"rakitin/internal/supabase"
)

func main() {
	status := flag.Bool("status", false, "list pending migrations without applying them")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logger, err := logging.New(os.Getenv("ENVIRONMENT"), "info")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := supabase.NewDatabaseClient(dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrator := database.NewMigrator(db.DB(), logger)
	if *status {
		pending, err := migrator.Pending(ctx)
		if err != nil {
			logger.Fatal("failed to read migration status", zap.Error(err))
		}
		if len(pending) == 0 {
			fmt.Println("up to date")
			return
		}
		for _, name := range pending {
			fmt.Println("pending:", name)
		}
		return
	}

	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations completed")
}
