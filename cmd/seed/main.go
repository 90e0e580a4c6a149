// Command main runs the database seeder for ReelCorps.
package main

import (
	"flag"
	"log"
	"strings"

	"reelcorps/internal/config"
	"reelcorps/internal/database"
	"reelcorps/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 40, "Number of users to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, clean=%v\n", *numUsers, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if strings.EqualFold(cfg.Env, "production") {
		log.Fatal("Refusing to seed a production environment")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password1")
}
