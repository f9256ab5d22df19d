package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmht/buzon-service/internal/auth"
	"github.com/fmht/buzon-service/internal/config"
	"github.com/fmht/buzon-service/internal/domain"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{BcryptCost: 4, JWTSecret: "test", AccessTokenTTLMinutes: 5}}
}

func TestAdminCreate(t *testing.T) {
	admins := defaultAdmins()
	svc := NewAdminService(testConfig(), AdminDependencies{AdminRepo: admins})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminActor, AdminCreateInput{Name: "Elena", Email: " Elena@FMHT.mx ", Password: "secreto-123", Role: "moderador"})
	require.NoError(t, err)
	assert.Equal(t, "elena@fmht.mx", created.Email)
	assert.Equal(t, domain.RoleModerator, created.Role)
	assert.True(t, created.Active)
	assert.NoError(t, auth.ComparePassword(created.PasswordHash, "secreto-123"))

	for name, in := range map[string]AdminCreateInput{
		"alias role":     {Email: "x@fmht.mx", Password: "secreto-123", Role: "moderator"},
		"uppercase role": {Email: "x@fmht.mx", Password: "secreto-123", Role: "Admin"},
		"short password": {Email: "x@fmht.mx", Password: "corta", Role: "admin"},
		"bad email":      {Email: "x", Password: "secreto-123", Role: "admin"},
	} {
		_, err := svc.Create(ctx, adminActor, in)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), name)
	}

	_, err = svc.Create(ctx, monitorActor, AdminCreateInput{Email: "y@fmht.mx", Password: "secreto-123", Role: "admin"})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAdminDelete_SelfDeletionRejectedForEveryRole(t *testing.T) {
	admins := defaultAdmins()
	svc := NewAdminService(testConfig(), AdminDependencies{AdminRepo: admins})
	ctx := context.Background()

	for _, actor := range []domain.Actor{adminActor, monitorActor, moderatorActor} {
		err := svc.Delete(ctx, actor, actor.ID)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), actor.Role)
	}
	assert.Len(t, admins.rows, 4)

	assert.True(t, apperrors.IsCode(svc.Delete(ctx, monitorActor, 3), "FORBIDDEN"))
	assert.True(t, apperrors.IsCode(svc.Delete(ctx, adminActor, 77), "NOT_FOUND"))
	require.NoError(t, svc.Delete(ctx, adminActor, 3))
	assert.Len(t, admins.rows, 3)
}

func TestAdminUpdate_SelfLockoutGuards(t *testing.T) {
	svc := NewAdminService(testConfig(), AdminDependencies{AdminRepo: defaultAdmins()})
	ctx := context.Background()

	_, err := svc.Update(ctx, adminActor, adminActor.ID, AdminUpdateInput{Role: ptr("monitor")})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	_, err = svc.Update(ctx, adminActor, adminActor.ID, AdminUpdateInput{Active: ptr(false)})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	updated, err := svc.Update(ctx, adminActor, 3, AdminUpdateInput{Role: ptr("monitor"), Active: ptr(false), Name: ptr("Carla R.")})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMonitor, updated.Role)
	assert.False(t, updated.Active)
	assert.Equal(t, "Carla R.", updated.Name)
}

func TestAdminGet_SelfOrAdmin(t *testing.T) {
	svc := NewAdminService(testConfig(), AdminDependencies{AdminRepo: defaultAdmins()})
	ctx := context.Background()

	self, err := svc.Get(ctx, moderatorActor, moderatorActor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carla", self.Name)

	_, err = svc.Get(ctx, moderatorActor, 1)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestChangePasswordAndLogin(t *testing.T) {
	admins := defaultAdmins()
	cfg := testConfig()
	adminSvc := NewAdminService(cfg, AdminDependencies{AdminRepo: admins})
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authSvc := NewAuthService(AuthDependencies{AdminRepo: admins, TokenManager: tokens})
	ctx := context.Background()

	hash, err := auth.HashPassword("inicial-123", 4)
	require.NoError(t, err)
	admins.rows[3].PasswordHash = hash

	err = adminSvc.ChangePassword(ctx, moderatorActor, "equivocada", "nueva-clave-1")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	require.NoError(t, adminSvc.ChangePassword(ctx, moderatorActor, "inicial-123", "nueva-clave-1"))

	account, token, _, err := authSvc.Login(ctx, "CARLA@fmht.mx", "nueva-clave-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), account.ID)
	claims, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, claims.Role)

	_, _, _, err = authSvc.Login(ctx, "carla@fmht.mx", "inicial-123")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	_, _, _, err = authSvc.Login(ctx, "nadie@fmht.mx", "x")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	admins.rows[4].PasswordHash = hash
	_, _, _, err = authSvc.Login(ctx, "dario@fmht.mx", "inicial-123")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"), "inactive account")
}

func TestLogoutRevokesToken(t *testing.T) {
	admins := defaultAdmins()
	cfg := testConfig()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	revocations := auth.NewMemoryRevocations()
	authSvc := NewAuthService(AuthDependencies{AdminRepo: admins, TokenManager: tokens, Revocations: revocations})
	ctx := context.Background()

	token, _, err := tokens.GenerateToken(moderatorActor.ID, moderatorActor.Role)
	require.NoError(t, err)
	claims, err := tokens.ParseToken(token)
	require.NoError(t, err)

	require.NoError(t, authSvc.Logout(ctx, moderatorActor, claims))
	revoked, err := revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = authSvc.Logout(ctx, moderatorActor, nil)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	admins := newFakeAdmins()
	svc := NewAdminService(testConfig(), AdminDependencies{AdminRepo: admins})
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, config.AuthConfig{}))
	assert.Empty(t, admins.rows)

	bootstrap := config.AuthConfig{BootstrapName: "Coordinación", BootstrapEmail: "coord@fmht.mx", BootstrapPassword: "cambiar-ya-1"}
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, bootstrap))
	require.Len(t, admins.rows, 1)
	for _, a := range admins.rows {
		assert.Equal(t, domain.RoleAdmin, a.Role)
	}

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, bootstrap))
	assert.Len(t, admins.rows, 1)
}
