package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"userdir/internal/auth"
	"userdir/internal/config"
	"userdir/internal/db"
	apperrors "userdir/internal/errors"
	"userdir/internal/model"
	"userdir/internal/repository"
)

const defaultSeedSource = "seed/users.json"

// SeedUserData represents one entry in the seed source.
type SeedUserData struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	source := os.Getenv("SEED_SOURCE")
	if source == "" {
		source = defaultSeedSource
	}

	log.Printf("Loading users from: %s", source)
	entries, err := loadSeedUsers(source)
	if err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}
	log.Printf("Loaded %d entries", len(entries))

	userRepo := repository.NewUserRepository(gormDB)
	hasher := auth.NewPasswordHasher()
	ctx := context.Background()

	log.Println("Seeding users into database...")
	created, updated, skipped, err := seedUsers(ctx, userRepo, hasher, entries)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users updated: %d", updated)
	if skipped > 0 {
		log.Printf("  - Invalid entries skipped: %d", skipped)
	}
}

// loadSeedUsers reads seed entries from a local file or an http(s) URL.
func loadSeedUsers(source string) ([]SeedUserData, error) {
	var data []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch seed source: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}

	var entries []SeedUserData
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return entries, nil
}

// seedUsers upserts entries by email, hashing each secret before storage.
// Secrets are never logged.
func seedUsers(ctx context.Context, repo repository.UserRepository, hasher *auth.PasswordHasher, entries []SeedUserData) (created int, updated int, skipped int, err error) {
	for _, entry := range entries {
		if entry.Name == "" || entry.Email == "" || len(entry.Secret) < 6 || len(entry.Secret) > 72 {
			log.Printf("Skipping invalid entry: %q", entry.Email)
			skipped++
			continue
		}

		hash, err := hasher.Hash(entry.Secret)
		if err != nil {
			return created, updated, skipped, fmt.Errorf("error hashing secret for %s: %w", entry.Email, err)
		}

		existing, err := repo.FindByEmail(ctx, entry.Email)
		if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
			return created, updated, skipped, fmt.Errorf("error checking user %s: %w", entry.Email, err)
		}

		if existing != nil {
			// Update existing user with new name and credential
			existing.Name = entry.Name
			existing.PasswordHash = hash
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, skipped, fmt.Errorf("error updating user %s: %w", entry.Email, err)
			}
			updated++
		} else {
			// Create new user
			user := &model.User{
				Name:         entry.Name,
				Email:        entry.Email,
				PasswordHash: hash,
			}
			if err := repo.Create(ctx, user); err != nil {
				return created, updated, skipped, fmt.Errorf("error creating user %s: %w", entry.Email, err)
			}
			created++
		}
	}

	return created, updated, skipped, nil
}
