package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupAuthTest(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:     "test",
		JWTSecret: testSecret,
	})
	return db
}

func signToken(t *testing.T, subject, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}

func TestParseAccessToken(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		token      string
		expectedID uint
		expectErr  bool
	}{
		{
			name:       "valid token",
			token:      signToken(t, "42", testSecret, future),
			expectedID: 42,
		},
		{
			name:      "wrong secret",
			token:     signToken(t, "42", "other-secret", future),
			expectErr: true,
		},
		{
			name:      "expired token",
			token:     signToken(t, "42", testSecret, time.Now().Add(-time.Minute)),
			expectErr: true,
		},
		{
			name:      "non-numeric subject",
			token:     signToken(t, "someone", testSecret, future),
			expectErr: true,
		},
		{
			name:      "garbage",
			token:     "not.a.token",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountID, err := ParseAccessToken(tt.token, testSecret)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedID, accountID)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupAuthTest(t)

	account := models.Account{Phone: "555", PasswordHash: "x", Name: "Tester", IsActive: true}
	db.Create(&account)
	disabled := models.Account{Phone: "666", PasswordHash: "x", Name: "Disabled", IsActive: false}
	db.Create(&disabled)

	router := gin.New()
	router.GET("/protected", RequireAuth(), func(c *gin.Context) {
		current, err := GetAccount(c)
		assert.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"account_id": current.ID})
	})

	future := time.Now().Add(time.Hour)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "valid token",
			header:         "Bearer " + signToken(t, fmt.Sprintf("%d", account.ID), testSecret, future),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret",
			header:         "Bearer " + signToken(t, fmt.Sprintf("%d", account.ID), "other-secret", future),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "account does not exist",
			header:         "Bearer " + signToken(t, "9999", testSecret, future),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "disabled account",
			header:         "Bearer " + signToken(t, fmt.Sprintf("%d", disabled.ID), testSecret, future),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupAuthTest(t)

	account := models.Account{Phone: "555", PasswordHash: "x", Name: "Tester", IsActive: true}
	db.Create(&account)

	router := gin.New()
	router.GET("/open", OptionalAuth(), func(c *gin.Context) {
		accountID, ok := GetAccountID(c)
		c.JSON(http.StatusOK, gin.H{"account_id": accountID, "authenticated": ok})
	})

	// Anonymous requests pass through
	req, _ := http.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// Garbage tokens are ignored rather than rejected
	req, _ = http.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// Valid tokens resolve the viewer
	token := signToken(t, fmt.Sprintf("%d", account.ID), testSecret, time.Now().Add(time.Hour))
	req, _ = http.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
