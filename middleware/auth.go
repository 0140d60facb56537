package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/models"
)

const (
	contextAccountKey   = "account"
	contextAccountIDKey = "account_id"
)

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ParseAccessToken validates a signed access token and returns the account ID
// stored in its subject claim.
func ParseAccessToken(tokenString, secret string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &AuthError{Code: "INVALID_TOKEN", Message: "Unexpected signing method"}
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, &AuthError{Code: "INVALID_TOKEN", Message: "Failed to validate token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, &AuthError{Code: "INVALID_TOKEN", Message: "Invalid token claims"}
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return 0, &AuthError{Code: "INVALID_TOKEN", Message: "Token has no subject"}
	}

	accountID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, &AuthError{Code: "INVALID_TOKEN", Message: "Token subject is not an account ID"}
	}

	return uint(accountID), nil
}

// resolveAccount validates the bearer token on the request and loads the
// matching active account. All failure modes collapse to a single error so
// callers cannot distinguish a bad token from a disabled account.
func resolveAccount(c *gin.Context) (*models.Account, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, &AuthError{Code: "MISSING_TOKEN", Message: "Authorization header is required"}
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, &AuthError{Code: "INVALID_TOKEN", Message: "Authorization header must be a bearer token"}
	}

	cfg := config.GetConfig()
	accountID, err := ParseAccessToken(parts[1], cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	var account models.Account
	db := config.GetDB()
	if err := db.First(&account, accountID).Error; err != nil {
		return nil, &AuthError{Code: "INVALID_TOKEN", Message: "Account no longer exists"}
	}
	if !account.IsActive {
		return nil, &AuthError{Code: "ACCOUNT_DISABLED", Message: "Account is disabled"}
	}

	return &account, nil
}

// RequireAuth is a middleware that rejects requests without a valid access token
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := resolveAccount(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or missing credentials",
				},
			})
			c.Abort()
			return
		}

		c.Set(contextAccountKey, account)
		c.Set(contextAccountIDKey, account.ID)
		c.Next()
	}
}

// OptionalAuth is a middleware that resolves the viewer when a valid token is
// present but lets anonymous requests through untouched
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if account, err := resolveAccount(c); err == nil {
			c.Set(contextAccountKey, account)
			c.Set(contextAccountIDKey, account.ID)
		}
		c.Next()
	}
}

// GetAccount extracts the authenticated account from the Gin context
func GetAccount(c *gin.Context) (*models.Account, error) {
	value, exists := c.Get(contextAccountKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_ACCOUNT", Message: "Account not found in context"}
	}

	account, ok := value.(*models.Account)
	if !ok {
		return nil, &AuthError{Code: "INVALID_ACCOUNT", Message: "Account is not in the expected format"}
	}

	return account, nil
}

// GetAccountID extracts the authenticated account ID from the Gin context.
// Returns (0, false) for anonymous requests.
func GetAccountID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(contextAccountIDKey)
	if !exists {
		return 0, false
	}

	accountID, ok := value.(uint)
	if !ok {
		return 0, false
	}

	return accountID, true
}
