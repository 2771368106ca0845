package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/service/auth"
)

// MockJWTService is an auth.JWTService. The Fn fields take precedence;
// without them the canned Token/Err and Claims/ValidateErr are returned.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	Token string
	Err   error

	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// NewMockJWTServiceForUser accepts every token as an access token for userID.
func NewMockJWTServiceForUser(userID uuid.UUID) *MockJWTService {
	return &MockJWTService{Claims: &auth.Claims{
		UserID:    userID,
		TokenType: auth.TokenTypeAccess,
		Subject:   userID.String(),
	}}
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn == nil {
		return m.Token, m.Err
	}
	return m.GenerateTokenFn(ctx, userID)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn == nil {
		return m.Claims, m.ValidateErr
	}
	return m.ValidateTokenFn(ctx, token)
}
