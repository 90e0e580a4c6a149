// Package seed provides helpers to create demo data for development
// environments. Never run against production.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"reelcorps/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configure the seeder.
type Options struct {
	NumUsers    int
	ShouldClean bool
}

// Run populates the database with a believable member base: a mix of public,
// pending and verified members, scripts, projects, forum threads and friend
// links. The shared demo password for every seeded account is "password1".
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.NumUsers <= 0 {
		opts.NumUsers = 40
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	users, err := seedUsers(db, r, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedScriptsAndProjects(db, r, users); err != nil {
		return fmt.Errorf("seed scripts/projects: %w", err)
	}
	if err := seedForum(db, r, users); err != nil {
		return fmt.Errorf("seed forum: %w", err)
	}
	if err := seedFriendships(db, r, users); err != nil {
		return fmt.Errorf("seed friendships: %w", err)
	}

	log.Printf("seeded %d users with scripts, projects, forum threads and friendships", len(users))
	return nil
}

func clean(db *gorm.DB) error {
	tables := []string{
		"credit_transactions", "generation_jobs", "festival_submissions",
		"messages", "conversation_participants", "conversations",
		"forum_comments", "forum_posts", "friendships", "posters",
		"projects", "scripts", "verification_requests", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

var serviceBranches = []string{
	"Army", "Navy", "Air Force", "Marine Corps", "Coast Guard", "Space Force", "National Guard",
}

func seedUsers(db *gorm.DB, r *rand.Rand, n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		if len(username) > 30 {
			username = username[:30]
		}

		user := models.User{
			Username:     username,
			Email:        fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Password:     string(hashed),
			Bio:          gofakeit.Sentence(12),
			Role:         models.RolePublic,
			Credits:      int64(r.Intn(200)),
			ReferralCode: gofakeit.LetterN(8),
		}

		// Roughly two thirds of the demo base are verified veterans.
		switch r.Intn(3) {
		case 0:
			user.Role = models.RolePending
		case 1, 2:
			user.Role = models.RoleVerified
			user.IsVerified = true
			user.ServiceBranch = serviceBranches[r.Intn(len(serviceBranches))]
			user.YearsOfService = 2 + r.Intn(20)
		}

		users = append(users, user)
	}

	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

var scriptFormats = []models.ScriptFormat{
	models.ScriptFormatFeature, models.ScriptFormatShort,
	models.ScriptFormatPilot, models.ScriptFormatDoc,
}

var projectStages = []models.ProjectStage{
	models.ProjectStageDevelopment, models.ProjectStagePreProduction,
	models.ProjectStageProduction, models.ProjectStagePost, models.ProjectStageReleased,
}

func seedScriptsAndProjects(db *gorm.DB, r *rand.Rand, users []models.User) error {
	for i := range users {
		if !users[i].IsVerifiedMember() {
			continue
		}
		for s := 0; s < 1+r.Intn(3); s++ {
			script := models.Script{
				AuthorID: users[i].ID,
				Title:    gofakeit.MovieName(),
				Logline:  gofakeit.Sentence(14),
				Content:  gofakeit.Paragraph(4, 6, 12, "\n\n"),
				Format:   scriptFormats[r.Intn(len(scriptFormats))],
				IsPublic: r.Intn(2) == 0,
			}
			if err := db.Create(&script).Error; err != nil {
				return err
			}
		}
		if r.Intn(2) == 0 {
			project := models.Project{
				CreatorID: users[i].ID,
				Title:     gofakeit.MovieName(),
				Synopsis:  gofakeit.Paragraph(1, 3, 10, "\n"),
				Stage:     projectStages[r.Intn(len(projectStages))],
				IsPublic:  r.Intn(3) != 0,
			}
			if err := db.Create(&project).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

var forumCategories = []models.ForumCategory{
	models.ForumCategoryGeneral, models.ForumCategoryCrewCall,
	models.ForumCategoryScreenwriting, models.ForumCategoryFestivals, models.ForumCategoryGear,
}

func seedForum(db *gorm.DB, r *rand.Rand, users []models.User) error {
	verified := verifiedOnly(users)
	if len(verified) < 2 {
		return nil
	}

	for i := 0; i < len(verified); i++ {
		if r.Intn(2) != 0 {
			continue
		}
		post := models.ForumPost{
			AuthorID: verified[i].ID,
			Category: forumCategories[r.Intn(len(forumCategories))],
			Title:    gofakeit.Question(),
			Body:     gofakeit.Paragraph(1, 4, 10, "\n"),
		}
		if err := db.Create(&post).Error; err != nil {
			return err
		}
		for c := 0; c < r.Intn(5); c++ {
			comment := models.ForumComment{
				PostID:   post.ID,
				AuthorID: verified[r.Intn(len(verified))].ID,
				Body:     gofakeit.Sentence(18),
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedFriendships(db *gorm.DB, r *rand.Rand, users []models.User) error {
	verified := verifiedOnly(users)
	for i := 0; i < len(verified); i++ {
		for j := i + 1; j < len(verified); j++ {
			if r.Intn(6) != 0 {
				continue
			}
			status := models.FriendshipStatusAccepted
			if r.Intn(4) == 0 {
				status = models.FriendshipStatusPending
			}
			friendship := models.Friendship{
				RequesterID: verified[i].ID,
				AddresseeID: verified[j].ID,
				Status:      status,
			}
			if err := db.Create(&friendship).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func verifiedOnly(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for i := range users {
		if users[i].IsVerifiedMember() {
			out = append(out, users[i])
		}
	}
	return out
}
