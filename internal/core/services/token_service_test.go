package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roktoapp/donation-service/internal/core/domain"
	"github.com/roktoapp/donation-service/internal/core/services"
	"github.com/roktoapp/donation-service/test/mocks"
)

func TestIssueToken_CarriesEmailAndRole(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	userRepo := mocks.NewMockUserRepository()
	userRepo.SeedUser(&domain.User{
		ID:     "user-1",
		Email:  "vol@example.com",
		Name:   "Volunteer",
		Role:   domain.RoleVolunteer,
		Status: domain.UserActive,
	})
	svc := services.NewTokenService(userRepo, key)

	signed, err := svc.IssueToken(context.Background(), "vol@example.com")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "vol@example.com", claims["sub"])
	assert.Equal(t, "volunteer", claims["role"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Greater(t, time.Unix(int64(exp), 0), time.Now().Add(23*time.Hour))
}

func TestIssueToken_UnknownEmail(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	svc := services.NewTokenService(mocks.NewMockUserRepository(), key)

	_, err = svc.IssueToken(context.Background(), "stranger@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
