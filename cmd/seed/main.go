// Command seed adds usernames to the allow-list: seed alice bob @carol
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"ai-consultant-bot/internal/entity"
	"ai-consultant-bot/internal/repository/unitofwork"
	"ai-consultant-bot/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	if len(os.Args) < 2 {
		log.Fatal("Usage: seed <username> [username...]")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	users := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).AllowedUserRepository()

	color.Cyan("Seeding allow-list...")
	for _, arg := range os.Args[1:] {
		username := strings.TrimPrefix(strings.TrimSpace(arg), "@")
		if username == "" {
			continue
		}
		if err := users.Create(ctx, &entity.AllowedUser{Username: username}); err != nil {
			color.Red("Error adding '%s': %v", username, err)
			continue
		}
		color.Green("Allowed: %s", username)
	}

	all, err := users.FindAll(ctx)
	if err != nil {
		color.Red("Error listing users: %v", err)
		os.Exit(1)
	}
	color.Yellow("Allow-list now has %d users", len(all))
}
