package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/auth"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/repository"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// AuthService coordinates login and logout.
type AuthService struct {
	admins      repository.AdminRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	logger      *zap.Logger
}

// AuthDependencies encapsulates auth requirements.
type AuthDependencies struct {
	AdminRepo    repository.AdminRepository
	TokenManager *auth.TokenManager
	Revocations  auth.RevocationStore
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NewMemoryRevocations()
	}
	return &AuthService{admins: deps.AdminRepo, tokenMgr: deps.TokenManager, revocations: revocations, logger: logger}
}

// Login authenticates an account and returns a role-bearing token.
// Unknown email, wrong password and disabled accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	invalid := apperrors.NewUnauthorized("invalid credentials")

	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, "", time.Time{}, invalid
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", zap.Int64("account_id", admin.ID), zap.String("reason", "password"))
		return nil, "", time.Time{}, invalid
	}
	if !admin.Active {
		s.logger.Info("login rejected", zap.Int64("account_id", admin.ID), zap.String("reason", "inactive"))
		return nil, "", time.Time{}, invalid
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return admin, token, exp, nil
}

// Logout revokes the presented token until its own expiry.
func (s *AuthService) Logout(ctx context.Context, actor domain.Actor, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.NewUnauthorized("invalid token")
	}
	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revocations.Revoke(ctx, claims.ID, until); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("session closed", zap.Int64("account_id", actor.ID))
	return nil
}
