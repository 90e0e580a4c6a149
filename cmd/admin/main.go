// Package main provides operator management utilities for ReelCorps.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"reelcorps/internal/config"
	"reelcorps/internal/database"
	"reelcorps/internal/models"
	"reelcorps/internal/repository"
	"reelcorps/internal/service"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>                 - Promote user to admin")
		fmt.Println("  go run ./cmd/admin/main.go demote <user_id>                  - Demote user from admin")
		fmt.Println("  go run ./cmd/admin/main.go list-admins                       - List all admins")
		fmt.Println("  go run ./cmd/admin/main.go list-pending                      - List pending verification requests")
		fmt.Println("  go run ./cmd/admin/main.go verify <user_id>                  - Mark a member verified without a request")
		fmt.Println("  go run ./cmd/admin/main.go grant-credits <user_id> <amount>  - Top up a member's credit balance")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		requireArg(2, "promote <user_id>")
		setAdmin(db, os.Args[2], true)

	case "demote":
		requireArg(2, "demote <user_id>")
		setAdmin(db, os.Args[2], false)

	case "list-admins":
		listAdmins(db)

	case "list-pending":
		listPending(db)

	case "verify":
		requireArg(2, "verify <user_id>")
		verifyUser(db, os.Args[2])

	case "grant-credits":
		requireArg(3, "grant-credits <user_id> <amount>")
		grantCredits(cfg, db, os.Args[2], os.Args[3])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func requireArg(n int, usage string) {
	if len(os.Args) <= n {
		fmt.Printf("Usage: go run ./cmd/admin/main.go %s\n", usage)
		os.Exit(1)
	}
}

func loadUser(db *gorm.DB, userID string) *models.User {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}
	return &user
}

func setAdmin(db *gorm.DB, userID string, admin bool) {
	user := loadUser(db, userID)

	if user.IsAdmin == admin {
		fmt.Printf("User %s (ID: %d) already has is_admin=%v\n", user.Username, user.ID, admin)
		return
	}

	user.IsAdmin = admin
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	verb := "promoted"
	if !admin {
		verb = "demoted"
	}
	fmt.Printf("✅ Successfully %s %s (ID: %d)\n", verb, user.Username, user.ID)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range admins {
		fmt.Printf("ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
	}
	fmt.Println("─────────────────────────────────────")
}

func listPending(db *gorm.DB) {
	svc := service.NewVerificationService(
		repository.NewVerificationRepository(db), repository.NewUserRepository(db))

	requests, err := svc.ListPending(context.Background(), 100, 0)
	if err != nil {
		log.Fatalf("Failed to fetch pending requests: %v", err)
	}

	if len(requests) == 0 {
		fmt.Println("No pending verification requests")
		return
	}

	fmt.Println("\n📋 Pending Verification Requests:")
	fmt.Println("─────────────────────────────────────")
	for _, req := range requests {
		fmt.Printf("Request: %d | User: %d | Branch: %s | Years: %d | Doc: %s\n",
			req.ID, req.UserID, req.ServiceBranch, req.YearsOfService, req.DocumentRef)
	}
	fmt.Println("─────────────────────────────────────")
}

// verifyUser is the operator override for members verified out of band,
// bypassing the request queue entirely.
func verifyUser(db *gorm.DB, userID string) {
	user := loadUser(db, userID)

	if user.Role == models.RoleVerified {
		fmt.Printf("User %s (ID: %d) is already verified\n", user.Username, user.ID)
		return
	}

	user.Role = models.RoleVerified
	user.IsVerified = true
	if err := db.Save(user).Error; err != nil {
		log.Fatalf("Failed to verify user: %v", err)
	}

	fmt.Printf("✅ Marked %s (ID: %d) as a verified member\n", user.Username, user.ID)
}

func grantCredits(cfg *config.Config, db *gorm.DB, userID, rawAmount string) {
	user := loadUser(db, userID)

	amount, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil || amount <= 0 {
		fmt.Printf("Invalid amount %q: must be a positive integer\n", rawAmount)
		os.Exit(1)
	}

	svc := service.NewCreditService(
		repository.NewCreditRepository(db), repository.NewUserRepository(db),
		cfg.SignupBonusCredits, cfg.ReferralBonusCredits)

	entry, err := svc.AdminGrant(context.Background(), user.ID, amount, "CLI operator grant")
	if err != nil {
		log.Fatalf("Failed to grant credits: %v", err)
	}

	fmt.Printf("✅ Granted %d credits to %s (ID: %d), balance now %d\n",
		amount, user.Username, user.ID, entry.BalanceAfter)
}
