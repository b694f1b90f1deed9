package main

import (
	"log"
	"os"

	"ai-consultant-bot/internal/model"
	"ai-consultant-bot/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// 3. Pre-Migration: Extensions
	color.Yellow("Step 1: Setting up extensions...")
	if err := database.EnableVector(db); err != nil {
		color.Red("Warn: pgvector is unavailable (%v). The pgvector index backend will not work.", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		color.Red("Warn: Failed to enable uuid-ossp: %v. Continuing...", err)
	}

	// 4. AutoMigrate All Models
	color.Yellow("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.AllowedUser{},
		&model.MessageLog{},
		&model.KnowledgeChunk{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Post-Migration: Indexes
	color.Yellow("Step 3: Creating indexes...")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_messages_username_created_at ON messages (username, created_at);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("✅ Success: Database migration completed successfully via GORM.")
}
