package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/config"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/user"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/repository"
	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/database"
)

const usage = `
Smart Healthcare - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run all SQL migrations
  status      Show database connection status
  seed        Seed the database with demo doctors and a demo patient

Flags:
  -migrations string   Path to migrations directory (default "migrations")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
  go run cmd/migrate/main.go seed
`

func main() {
	migrationsDir := flag.String("migrations", "migrations", "Path to migrations directory")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		runMigrationsUp(db, *migrationsDir)
	case "status":
		showStatus(db)
	case "seed":
		runSeed(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *sql.DB, migrationsDir string) {
	log.Println("Running migrations UP...")

	if err := database.ApplyMigrations(db, migrationsDir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully!")
}

func showStatus(db *sql.DB) {
	log.Println("Checking database status...")

	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	tables := []string{"users", "appointments", "notifications"}
	for _, table := range tables {
		exists, err := database.TableExists(db, table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.TableCount(db, table)
			log.Printf("Table %-15s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-15s does not exist", table)
		}
	}
}

type seedUser struct {
	email          string
	password       string
	name           string
	role           user.Role
	specialization string
}

func runSeed(db *sql.DB) {
	log.Println("Seeding database...")

	seeds := []seedUser{
		{"sarah.johnson@healthcare.dev", "Doctor@123", "Sarah Johnson", user.RoleDoctor, "Cardiology"},
		{"michael.chen@healthcare.dev", "Doctor@123", "Michael Chen", user.RoleDoctor, "Dermatology"},
		{"emily.davis@healthcare.dev", "Doctor@123", "Emily Davis", user.RoleDoctor, "Pediatrics"},
		{"demo.patient@healthcare.dev", "Patient@123", "Demo Patient", user.RolePatient, ""},
	}

	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created := 0
	for _, seed := range seeds {
		if _, err := repo.GetByEmail(ctx, seed.email); err == nil {
			log.Printf("User %s already exists, skipping", seed.email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), 12)
		if err != nil {
			log.Fatalf("Hashing failed: %v", err)
		}

		u := &user.User{
			ID:           uuid.New(),
			Email:        seed.email,
			PasswordHash: string(hash),
			Name:         seed.name,
			Role:         seed.role,
			CreatedAt:    time.Now().UTC(),
		}
		if seed.specialization != "" {
			u.Specialization = sql.NullString{String: seed.specialization, Valid: true}
		}

		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("Seeding failed for %s: %v", seed.email, err)
		}
		log.Printf("Created %s user: %s", seed.role, seed.email)
		created++
	}

	log.Printf("Seeding completed, %d users created", created)
}
