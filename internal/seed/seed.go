// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"alumlink/internal/hierarchy"
	"alumlink/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with demo institutions, users and link
// requests.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{"hierarchy_grants", "link_requests", "join_requests", "users", "institutions"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// EnsureSuperadmin creates the bootstrap superadmin account when missing.
func (s *Seeder) EnsureSuperadmin(email, password string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	superadmin := models.User{
		Name:     "Platform Superadmin",
		Username: "superadmin",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
	}
	if err := s.db.Create(&superadmin).Error; err != nil {
		return nil, err
	}
	log.Printf("Created superadmin %s", email)
	return &superadmin, nil
}

// Institutions creates n demo institutions.
func (s *Seeder) Institutions(n int, createdBy uint) ([]models.Institution, error) {
	types := []models.AdminType{models.AdminTypeInstitute, models.AdminTypeCorporate, models.AdminTypeSchool}

	institutions := make([]models.Institution, 0, n)
	for i := 0; i < n; i++ {
		inst := models.Institution{
			Name:            fmt.Sprintf("%s %s", gofakeit.City(), pick(s.rng, "University", "Institute", "College", "Academy")),
			Type:            types[s.rng.Intn(len(types))],
			CreatedByUserID: createdBy,
		}
		if err := s.db.Create(&inst).Error; err != nil {
			// Normalized names collide occasionally with faked data; skip.
			continue
		}
		institutions = append(institutions, inst)
	}
	return institutions, nil
}

// demoLabels are hierarchy labels spread across all classifier levels.
var demoLabels = []string{
	"Management", "Principal", "Director of Alumni Relations",
	"Head of Department", "HOD Electronics", "Placement Manager",
	"Faculty", "Assistant Professor", "Team Lead",
	"Alumni Coordinator", "Batch Representative",
}

// Users creates n demo users attached to random institutions. Roughly a third
// of them get a hierarchy label and an approved link request behind it.
func (s *Seeder) Users(n int, institutions []models.Institution, reviewer *models.User) ([]models.User, error) {
	password, err := bcrypt.GenerateFromPassword([]byte("DemoPassword12!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := strings.ToLower(gofakeit.Username())
		user := models.User{
			Name:     gofakeit.Name(),
			Username: fmt.Sprintf("%s%d", username, i),
			Email:    fmt.Sprintf("%s%d@%s", username, i, gofakeit.DomainName()),
			Password: string(password),
			Role:     models.RoleUser,
		}
		if len(institutions) > 0 && s.rng.Intn(2) == 0 {
			instID := institutions[s.rng.Intn(len(institutions))].ID
			user.InstitutionID = &instID
		}
		if err := s.db.Create(&user).Error; err != nil {
			continue
		}

		if s.rng.Intn(3) == 0 {
			if err := s.grantDemoHierarchy(&user, reviewer); err != nil {
				return nil, err
			}
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// grantDemoHierarchy files an approved link request for the user and writes
// the label through, mirroring what a real review does.
func (s *Seeder) grantDemoHierarchy(user *models.User, reviewer *models.User) error {
	label := demoLabels[s.rng.Intn(len(demoLabels))]
	reviewedAt := time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour)

	req := models.LinkRequest{
		SenderID:           user.ID,
		RequestedHierarchy: label,
		GrantedHierarchy:   label,
		Status:             models.LinkRequestApproved,
		ReviewedByUserID:   &reviewer.ID,
		ReviewedAt:         &reviewedAt,
		CreatedAt:          reviewedAt.Add(-24 * time.Hour),
	}
	if err := s.db.Create(&req).Error; err != nil {
		return err
	}

	if err := s.db.Model(user).Update("admin_hierarchy", label).Error; err != nil {
		return err
	}
	grant := models.HierarchyGrant{
		UserID:          user.ID,
		Level:           label,
		GrantedByUserID: reviewer.ID,
		GrantedAt:       reviewedAt,
	}
	if err := s.db.Create(&grant).Error; err != nil {
		return err
	}

	log.Printf("Granted %q (level %d) to %s", label, hierarchy.Classify(label), user.Username)
	return nil
}

// PendingLinkRequests files n pending requests from random users.
func (s *Seeder) PendingLinkRequests(n int, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		user := users[s.rng.Intn(len(users))]
		req := models.LinkRequest{
			SenderID:           user.ID,
			RequestedHierarchy: demoLabels[s.rng.Intn(len(demoLabels))],
			Status:             models.LinkRequestPending,
		}
		if err := s.db.Create(&req).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d pending link requests", n)
	return nil
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
