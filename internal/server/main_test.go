package server

import (
	"testing"

	"alumlink/internal/config"
	"alumlink/internal/database"
	"alumlink/internal/models"
	"alumlink/internal/repository"
	"alumlink/internal/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-test-secret-test-secret!"

// newTestServer builds a Server over an in-memory SQLite database without
// registering Prometheus collectors (those are global and one-shot).
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	linkRepo := repository.NewLinkRequestRepository(db)
	instRepo := repository.NewInstitutionRepository(db)
	joinRepo := repository.NewJoinRequestRepository(db)

	s := &Server{
		config:   &config.Config{JWTSecret: testJWTSecret, Env: "test"},
		db:       db,
		userRepo: userRepo,
		linkRepo: linkRepo,
		instRepo: instRepo,
		joinRepo: joinRepo,
	}
	s.linkService = service.NewLinkService(linkRepo, userRepo)
	s.membershipService = service.NewMembershipService(joinRepo, instRepo, userRepo)
	s.userService = service.NewUserService(userRepo, instRepo)

	return s, db
}

// newTestApp returns a Fiber app that injects the given user ID the way
// AuthRequired would.
func newTestApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func mustCreateUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()
	if user.Password == "" {
		user.Password = "pw"
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", user.Username, err)
	}
	return user
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hashed)
}
