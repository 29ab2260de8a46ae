// Command migrate applies the schema to the configured database and
// exits. Deployments run it before rolling the API.
package main

import (
	"log"

	"github.com/flavorcraft/backend/config"
	"github.com/flavorcraft/backend/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations applied")
}
