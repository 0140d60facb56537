package controllers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory database with all models migrated and
// installs it as the global DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Subject{},
		&models.Note{},
		&models.Order{},
		&models.Review{},
		&models.WishlistItem{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:           "test",
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	return db
}

// setupTestRouter creates a bare Gin engine in test mode
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware injects an account into the request context the same way
// the real auth middleware does
func mockAuthMiddleware(account *models.Account) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("account", account)
		c.Set("account_id", account.ID)
		c.Next()
	}
}

// createTestAccount inserts an account with a throwaway password hash
func createTestAccount(t *testing.T, db *gorm.DB, phone, name string) *models.Account {
	t.Helper()

	account := models.Account{
		Phone:        phone,
		PasswordHash: "not-a-real-hash",
		Name:         name,
		IsActive:     true,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return &account
}

// createTestSubject inserts a subject
func createTestSubject(t *testing.T, db *gorm.DB, name, code string) *models.Subject {
	t.Helper()

	subject := models.Subject{Name: name, Code: code}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("Failed to create test subject: %v", err)
	}
	return &subject
}

// testNote carries the knobs note fixtures vary on
type testNote struct {
	Title    string
	Price    float64
	Semester int
	Year     int
	Tags     string
	IsFree   bool
	Approved bool
	Views    int
}

// createTestNote inserts a note with sane defaults for anything unset
func createTestNote(t *testing.T, db *gorm.DB, seller *models.Account, subject *models.Subject, spec testNote) *models.Note {
	t.Helper()

	if spec.Semester == 0 {
		spec.Semester = 1
	}
	if spec.Year == 0 {
		spec.Year = 2024
	}

	note := models.Note{
		ID:          uuid.New(),
		SellerID:    seller.ID,
		SubjectID:   subject.ID,
		Title:       spec.Title,
		Description: "description of " + spec.Title,
		Price:       spec.Price,
		Semester:    spec.Semester,
		Year:        spec.Year,
		Tags:        spec.Tags,
		Views:       spec.Views,
		IsFree:      spec.IsFree,
		IsApproved:  spec.Approved,
	}
	if err := db.Create(&note).Error; err != nil {
		t.Fatalf("Failed to create test note: %v", err)
	}
	return &note
}
