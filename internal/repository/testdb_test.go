package repository

import (
	"testing"

	"reelcorps/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.VerificationRequest{},
		&models.Friendship{},
		&models.Script{},
		&models.Project{},
		&models.ForumPost{},
		&models.ForumComment{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.FestivalSubmission{},
		&models.CreditTransaction{},
		&models.GenerationJob{},
		&models.Poster{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "hashed",
		ReferralCode: "ref-" + username,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}
