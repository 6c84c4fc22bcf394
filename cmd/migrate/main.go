//cmd/migrate/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/unclebandit/smsleopard-console/internal/db"
)

func main() {
	// Load .env — same DB_* variables as the server
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	db.Init()
	defer db.DB.Close()

	migrationFiles := []string{
		"migrations/001_composer_drafts.sql",
		"migrations/002_submission_audit.sql",
	}

	for _, file := range migrationFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		_, err = db.DB.Exec(string(content))
		if err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Applied: %s\n", file)
	}

	fmt.Println("Database migration completed successfully!")
}
