package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"reelcorps/internal/config"
	"reelcorps/internal/featureflags"
	"reelcorps/internal/festivals"
	"reelcorps/internal/models"
	"reelcorps/internal/repository"
	"reelcorps/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against an in-memory sqlite database. The
// metrics middleware is left nil so repeated setups never re-register
// Prometheus collectors.
func newTestServer(t *testing.T, rdb *redis.Client) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.VerificationRequest{}, &models.Friendship{},
		&models.Script{}, &models.Project{}, &models.ForumPost{}, &models.ForumComment{},
		&models.Conversation{}, &models.ConversationParticipant{}, &models.Message{},
		&models.FestivalSubmission{}, &models.CreditTransaction{},
		&models.GenerationJob{}, &models.Poster{},
	))

	catalog, err := festivals.Load()
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:             "test-secret-test-secret-test-secret",
		SignupBonusCredits:    25,
		ReferralBonusCredits:  50,
		PosterMaxUploadSizeMB: 8,
		PosterUploadDir:       t.TempDir(),
	}

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            rdb,
		userRepo:         repository.NewUserRepository(db),
		verificationRepo: repository.NewVerificationRepository(db),
		friendRepo:       repository.NewFriendRepository(db),
		scriptRepo:       repository.NewScriptRepository(db),
		projectRepo:      repository.NewProjectRepository(db),
		forumRepo:        repository.NewForumRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		submissionRepo:   repository.NewSubmissionRepository(db),
		creditRepo:       repository.NewCreditRepository(db),
		generationRepo:   repository.NewGenerationRepository(db),
		posterRepo:       repository.NewPosterRepository(db),
		featureFlags:     featureflags.NewManager(""),
		festivals:        catalog,
	}
	s.creditService = service.NewCreditService(
		s.creditRepo, s.userRepo, cfg.SignupBonusCredits, cfg.ReferralBonusCredits)
	s.verificationService = service.NewVerificationService(s.verificationRepo, s.userRepo)
	s.generationService = service.NewGenerationService(s.generationRepo, s.creditRepo)
	s.posterService = service.NewPosterService(s.posterRepo, cfg)

	return s
}

func newTestApp(s *Server) *fiber.App {
	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

// createUser inserts a member directly and returns it with a valid token.
// The password for every test account is "password1".
func createUser(t *testing.T, s *Server, username string, role models.Role) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Password:     string(hashed),
		Role:         role,
		IsVerified:   role == models.RoleVerified,
		ReferralCode: "ref-" + username,
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}
