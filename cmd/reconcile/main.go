// Command main runs a one-shot hierarchy reconciliation sweep.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"alumlink/internal/config"
	"alumlink/internal/database"
	"alumlink/internal/repository"
	"alumlink/internal/service"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum duration for the sweep")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc := service.NewLinkService(
		repository.NewLinkRequestRepository(db),
		repository.NewUserRepository(db),
	)

	updated, err := svc.ReconcileAll(ctx)
	if err != nil {
		log.Fatalf("Reconciliation failed after %d updates: %v", updated, err)
	}
	log.Printf("Reconciliation complete: %d cached labels updated", updated)
}
