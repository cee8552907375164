package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/threeofkind/storefront/cmd/config"
	redisrepo "github.com/threeofkind/storefront/repository/redis"
)

// AuthApp resolves bearer tokens issued by the account service. Tokens are HS256 JWTs whose
// jti must still have a live session in Redis.
type AuthApp interface {
	ValidateToken(ctx context.Context, tokenString string) (uint64, error)
}

type authAppImpl struct {
	config    *config.Config
	redisRepo redisrepo.Repository
}

func NewAuthApp(config *config.Config, redisRepo redisrepo.Repository) AuthApp {
	return &authAppImpl{
		config:    config,
		redisRepo: redisRepo,
	}
}

func (s *authAppImpl) ValidateToken(ctx context.Context, tokenString string) (uint64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid claims")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in token")
	}

	if _, err := uuid.Parse(claims.ID); err != nil {
		return 0, fmt.Errorf("token missing jti")
	}

	sessionUserID, err := s.redisRepo.GetSession(ctx, claims.ID)
	if err != nil {
		return 0, fmt.Errorf("invalid or expired session")
	}
	if sessionUserID != userID {
		return 0, fmt.Errorf("token does not match user session")
	}

	return userID, nil
}
