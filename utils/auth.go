// utils/auth.go
package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken issues a local HS256 session token. Only used when no
// external identity provider is configured.
func GenerateToken(userID string) (string, error) {
	expiryHours := 24 // default
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			expiryHours = h
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	return token.SignedString([]byte(secret))
}

// VerifyLocalToken validates an HS256 token against JWT_SECRET and returns
// its subject.
func VerifyLocalToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// publicRoutes is the allow-list of method+path patterns reachable without
// a bearer token. Everything else under /api and /auth is protected.
var publicRoutes = []struct {
	Method string
	Path   string
	Prefix bool
}{
	{Method: http.MethodGet, Path: "/health"},
	{Method: http.MethodPost, Path: "/auth/login"},
	{Method: http.MethodGet, Path: "/api/services"},
	{Method: http.MethodGet, Path: "/api/testimonials"},
	{Method: http.MethodPost, Path: "/api/testimonials"},
	{Method: http.MethodGet, Path: "/api/settings/booking"},
	{Method: http.MethodPost, Path: "/api/appointments"},
	{Method: http.MethodGet, Path: "/api/appointments/availability"},
	{Method: http.MethodPost, Path: "/api/payments/initiate"},
	{Method: http.MethodGet, Path: "/api/payments/status/", Prefix: true},
	{Method: http.MethodPost, Path: "/api/payments/callback"},
	{Method: http.MethodPost, Path: "/api/contact"},
}

// IsPublicRoute classifies a request against the public allow-list.
func IsPublicRoute(method, path string) bool {
	for _, r := range publicRoutes {
		if r.Method != method {
			continue
		}
		if r.Prefix {
			if strings.HasPrefix(path, r.Path) {
				return true
			}
			continue
		}
		if path == r.Path {
			return true
		}
	}
	return false
}

// TokenVerifier checks a bearer token and returns the authenticated
// subject. Implemented by services.IdentityService.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// AuthGate lets public routes through and requires a valid bearer token for
// everything else. Verifier failures of any kind, including the provider
// being unreachable, are treated as an invalid token.
func AuthGate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublicRoute(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		subject, err := verifier.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set("userId", subject)
		c.Next()
	}
}
