package services

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/ports"
)

const tokenTTL = 24 * time.Hour

// TokenService mints the bearer tokens the front end stores after sign-in.
// The identity provider has already verified the email on the client side;
// this exchange attaches the server-side role to it.
type TokenService struct {
	userRepo   ports.UserRepository
	privateKey *rsa.PrivateKey
}

var _ ports.TokenService = (*TokenService)(nil)

func NewTokenService(userRepo ports.UserRepository, privateKey *rsa.PrivateKey) *TokenService {
	return &TokenService{
		userRepo:   userRepo,
		privateKey: privateKey,
	}
}

func (s *TokenService) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", domain.ErrNotFound)
	}

	claims := jwt.MapClaims{
		"sub":  user.Email,
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}
