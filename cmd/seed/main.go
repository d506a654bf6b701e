// Command main runs the database seeder for Alumlink.
package main

import (
	"flag"
	"log"
	"os"

	"alumlink/internal/config"
	"alumlink/internal/database"
	"alumlink/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numInstitutions := flag.Int("institutions", 8, "Number of institutions to create")
	numPending := flag.Int("pending", 10, "Number of pending link requests to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	superadminPassword := os.Getenv("SEED_SUPERADMIN_PASSWORD")
	if superadminPassword == "" {
		superadminPassword = "ChangeMeNow12!"
	}
	superadmin, err := s.EnsureSuperadmin("superadmin@alumlink.local", superadminPassword)
	if err != nil {
		log.Fatalf("Superadmin seeding failed: %v", err)
	}

	institutions, err := s.Institutions(*numInstitutions, superadmin.ID)
	if err != nil {
		log.Fatalf("Institution seeding failed: %v", err)
	}

	users, err := s.Users(*numUsers, institutions, superadmin)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	if err := s.PendingLinkRequests(*numPending, users); err != nil {
		log.Fatalf("Link request seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %d institutions, %d users", len(institutions), len(users))
}
