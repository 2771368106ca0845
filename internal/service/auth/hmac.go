package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/config"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
)

const (
	minSecretLength = 32
	leeway          = 2 * time.Minute
)

// accessClaims is the wire form of an access token.
type accessClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

func (c *accessClaims) export() *Claims {
	out := &Claims{
		UserID:    c.UserID,
		TokenType: c.TokenType,
		Subject:   c.Subject,
		ID:        c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

// hmacTokens signs and checks HS256 access tokens.
type hmacTokens struct {
	key      []byte
	lifetime time.Duration
	clock    clock.Clock
}

var _ JWTService = (*hmacTokens)(nil)

// NewJWTService returns an HS256 JWTService using the wall clock.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return NewJWTServiceWithClock(cfg, clock.System())
}

// NewJWTServiceWithClock is NewJWTService reading time from clk.
func NewJWTServiceWithClock(cfg config.AuthConfig, clk clock.Clock) (JWTService, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret needs %d or more characters, got %d", minSecretLength, len(cfg.JWTSecret))
	}
	if cfg.TokenLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %d minutes", cfg.TokenLifetimeMinutes)
	}
	if clk == nil {
		clk = clock.System()
	}
	return &hmacTokens{
		key:      []byte(cfg.JWTSecret),
		lifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		clock:    clk,
	}, nil
}

func (s *hmacTokens) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	issued := s.clock.Now()
	claims := accessClaims{
		UserID:    userID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.lifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		logger.FromContext(ctx).Error("signing access token",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *hmacTokens) ValidateToken(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	log := logger.FromContext(ctx)

	now := s.clock.Now()
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		reason := parseFailure(err)
		log.Debug("token rejected", slog.String("reason", reason.Error()), slog.String("error", err.Error()))
		return nil, reason
	}

	switch {
	case claims.TokenType != TokenTypeAccess:
		log.Debug("token rejected", slog.String("reason", "token type"), slog.String("type", claims.TokenType))
		return nil, ErrWrongTokenType
	case claims.UserID == uuid.Nil:
		log.Debug("token rejected", slog.String("reason", "no user id"))
		return nil, ErrInvalidToken
	}
	return claims.export(), nil
}
