package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"livemusicnotes/internal/config"
	"livemusicnotes/internal/model"
)

// AuthService issues access tokens for authenticated users.
type AuthService struct {
	config *config.Config
	now    func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{config: cfg, now: time.Now}
}

// IssueAccessToken signs an HS256 token carrying the user id.
func (s *AuthService) IssueAccessToken(userID int64) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// NewAuthResponse issues a token for user and wraps both for the client.
func (s *AuthService) NewAuthResponse(user *model.User) (*model.AuthResponse, error) {
	token, err := s.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   s.config.AccessTokenMaxAge,
	}, nil
}
