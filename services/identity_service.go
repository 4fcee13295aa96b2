// services/identity_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"podocare-backend/models"
	"podocare-backend/utils"
	"strings"
	"time"

	"gorm.io/gorm"
)

// IdentityService fronts the external identity provider. Token
// verification prefers a local HS256 check when the provider's JWT secret
// is available and falls back to remote introspection; any failure counts
// as an invalid token. Sign-in falls back to the local users table when no
// provider is configured.
type IdentityService struct {
	db         *gorm.DB
	baseURL    string
	apiKey     string
	jwtSecret  string
	httpClient *http.Client
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{
		db:         db,
		baseURL:    strings.TrimRight(os.Getenv("IDENTITY_URL"), "/"),
		apiKey:     os.Getenv("IDENTITY_API_KEY"),
		jwtSecret:  os.Getenv("JWT_SECRET"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type Session struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
}

// SignIn exchanges credentials for a session.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if s.baseURL == "" {
		return s.localSignIn(email, password)
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	url := s.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("invalid credentials")
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: body.AccessToken,
		ExpiresIn:   body.ExpiresIn,
		UserID:      body.User.ID,
		Email:       body.User.Email,
	}, nil
}

func (s *IdentityService) localSignIn(email, password string) (*Session, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = true", email).First(&user).Error; err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login", &now)

	return &Session{
		AccessToken: token,
		ExpiresIn:   24 * 3600,
		UserID:      user.ID.String(),
		Email:       user.Email,
	}, nil
}

// VerifyToken implements utils.TokenVerifier.
func (s *IdentityService) VerifyToken(ctx context.Context, token string) (string, error) {
	if s.jwtSecret != "" {
		return utils.VerifyLocalToken(token)
	}
	if s.baseURL == "" {
		return "", errors.New("no identity provider configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", s.apiKey)

	// Fail closed: an unreachable provider verifies nothing.
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("invalid token")
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.ID == "" {
		return "", errors.New("token has no subject")
	}
	return body.ID, nil
}
