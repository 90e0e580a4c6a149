package database

import "reelcorps/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
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
	}
}
