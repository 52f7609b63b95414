// seed inserts development sample data for local testing.
// Idempotent: skips all inserts if the dev manager (manager@example.com)
// already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"employee-reimbursement/backend/internal/config"
	"employee-reimbursement/backend/internal/db"
	employeedomain "employee-reimbursement/backend/internal/employee/domain"
	employeerepo "employee-reimbursement/backend/internal/employee/repository"
	ticketdomain "employee-reimbursement/backend/internal/ticket/domain"
	ticketrepo "employee-reimbursement/backend/internal/ticket/repository"
)

const (
	devManagerEmail  = "manager@example.com"
	devEmployeeEmail = "employee@example.com"
	devPassword      = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	employees := employeerepo.NewPostgresRepository(conn)
	tickets := ticketrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := employees.GetByEmail(ctx, devManagerEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (manager@example.com exists). Skipping.")
		os.Exit(0)
	}

	manager := &employeedomain.Employee{
		Email:    devManagerEmail,
		Password: devPassword,
		Role:     employeedomain.RoleManager,
	}
	if err := employees.Create(ctx, manager); err != nil {
		log.Fatalf("create dev manager: %v", err)
	}

	worker := &employeedomain.Employee{
		Email:    devEmployeeEmail,
		Password: devPassword,
		Role:     employeedomain.RoleEmployee,
	}
	if err := employees.Create(ctx, worker); err != nil {
		log.Fatalf("create dev employee: %v", err)
	}

	now := time.Now().UTC()
	samples := []*ticketdomain.Ticket{
		{
			ID:          uuid.NewString(),
			Reason:      "travel",
			Amount:      152.40,
			Description: "train to the client site",
			Status:      ticketdomain.StatusPending,
			RequestDate: now.Add(-48 * time.Hour),
			EmployeeID:  worker.ID,
		},
		{
			ID:          uuid.NewString(),
			Reason:      "meals",
			Amount:      23.75,
			Description: "lunch during the on-site visit",
			Status:      ticketdomain.StatusApproved,
			RequestDate: now.Add(-24 * time.Hour),
			EmployeeID:  worker.ID,
		},
		{
			ID:          uuid.NewString(),
			Reason:      "equipment",
			Amount:      899.99,
			Description: "replacement laptop dock",
			Status:      ticketdomain.StatusDenied,
			RequestDate: now.Add(-12 * time.Hour),
			EmployeeID:  worker.ID,
		},
	}
	for _, t := range samples {
		if err := tickets.Create(ctx, t); err != nil {
			log.Fatalf("create sample ticket: %v", err)
		}
	}

	log.Printf("Seeded %s, %s and %d sample tickets", devManagerEmail, devEmployeeEmail, len(samples))
}
