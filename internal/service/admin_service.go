package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/access"
	"github.com/fmht/buzon-service/internal/auth"
	"github.com/fmht/buzon-service/internal/config"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/repository"
	"github.com/fmht/buzon-service/internal/textnorm"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// AdminService manages back-office accounts.
type AdminService struct {
	admins     repository.AdminRepository
	bcryptCost int
	logger     *zap.Logger
}

// AdminDependencies bundles collaborators.
type AdminDependencies struct {
	AdminRepo repository.AdminRepository
	Logger    *zap.Logger
}

// AdminCreateInput describes a new account.
type AdminCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AdminUpdateInput is a partial account edit.
type AdminUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Active   *bool
}

// AdminListFilter defines account listing params.
type AdminListFilter struct {
	Role   *string
	Active *bool
	Limit  int
	Offset int
}

// NewAdminService constructs the service.
func NewAdminService(cfg config.Config, deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{admins: deps.AdminRepo, bcryptCost: cfg.Auth.BcryptCost, logger: logger}
}

// List returns accounts.
func (s *AdminService) List(ctx context.Context, actor domain.Actor, filter AdminListFilter) ([]domain.Admin, error) {
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	repoFilter := repository.AdminFilter{Active: filter.Active, Limit: filter.Limit, Offset: filter.Offset}
	if filter.Role != nil {
		role, err := parseRole(*filter.Role)
		if err != nil {
			return nil, err
		}
		repoFilter.Role = &role
	}
	admins, err := s.admins.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return admins, nil
}

// Get returns an account. Any role may read its own account.
func (s *AdminService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "account", id)
	}
	if actor.ID != id {
		if err := access.AuthorizeManage(actor); err != nil {
			return nil, err
		}
	}
	return admin, nil
}

// Create adds an account.
func (s *AdminService) Create(ctx context.Context, actor domain.Actor, in AdminCreateInput) (*domain.Admin, error) {
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}
	name, email, err := accountIdentity(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("account created", zap.Int64("account_id", admin.ID), zap.String("role", string(role)), zap.Int64("actor_id", actor.ID))
	return admin, nil
}

// Update edits an account. Admins cannot demote or deactivate themselves.
func (s *AdminService) Update(ctx context.Context, actor domain.Actor, id int64, in AdminUpdateInput) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "account", id)
	}
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}

	if in.Role != nil {
		role, err := parseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		if actor.ID == id && role != admin.Role {
			return nil, apperrors.NewForbidden("you cannot change your own role")
		}
		admin.Role = role
	}
	if in.Active != nil {
		if actor.ID == id && !*in.Active {
			return nil, apperrors.NewForbidden("you cannot deactivate your own account")
		}
		admin.Active = *in.Active
	}
	if in.Name != nil || in.Email != nil {
		name, email := admin.Name, admin.Email
		if in.Name != nil {
			name = *in.Name
		}
		if in.Email != nil {
			email = *in.Email
		}
		admin.Name, admin.Email, err = accountIdentity(name, email)
		if err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		admin.PasswordHash, err = s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
	}

	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, lookupErr(err, "account", id)
	}
	return admin, nil
}

// Delete removes an account. Nobody may delete their own account.
func (s *AdminService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.admins.GetByID(ctx, id); err != nil {
		return lookupErr(err, "account", id)
	}
	if err := access.AuthorizeAccountDelete(actor, id); err != nil {
		return err
	}
	if err := s.admins.Delete(ctx, id); err != nil {
		return lookupErr(err, "account", id)
	}
	s.logger.Info("account deleted", zap.Int64("account_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

// ChangePassword replaces the caller's own password after verifying the current one.
func (s *AdminService) ChangePassword(ctx context.Context, actor domain.Actor, current, next string) error {
	admin, err := s.admins.GetByID(ctx, actor.ID)
	if err != nil {
		return lookupErr(err, "account", actor.ID)
	}
	if err := auth.ComparePassword(admin.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password is incorrect")
	}
	admin.PasswordHash, err = s.hash(next)
	if err != nil {
		return err
	}
	if err := s.admins.Update(ctx, admin); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// EnsureBootstrapAdmin creates the first admin account when none exist.
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context, cfg config.AuthConfig) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if strings.TrimSpace(cfg.BootstrapEmail) == "" || cfg.BootstrapPassword == "" {
		s.logger.Warn("no accounts exist and no bootstrap credentials are configured")
		return nil
	}

	name, email, err := accountIdentity(cfg.BootstrapName, cfg.BootstrapEmail)
	if err != nil {
		return err
	}
	hash, err := s.hash(cfg.BootstrapPassword)
	if err != nil {
		return err
	}
	admin := &domain.Admin{Name: name, Email: email, PasswordHash: hash, Role: domain.RoleAdmin, Active: true}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.Int64("account_id", admin.ID), zap.String("email", admin.Email))
	return nil
}

func (s *AdminService) hash(password string) (string, error) {
	if err := auth.ValidatePassword(password); err != nil {
		msg := "password must be between 8 and 72 bytes"
		if errors.Is(err, auth.ErrWeakPassword) {
			msg = "password must have at least 8 characters"
		}
		return "", apperrors.NewValidationError(msg, map[string]any{"field": "password"})
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}

func parseRole(raw string) (domain.AdminRole, error) {
	role, err := domain.ParseAdminRole(raw)
	if err != nil {
		return "", apperrors.NewValidationError("rol must be admin, monitor or moderador",
			map[string]any{"field": "rol", "value": raw})
	}
	return role, nil
}

func accountIdentity(name, email string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", "", apperrors.NewValidationError("correo is not a valid address", map[string]any{"field": "correo"})
	}
	name = textnorm.Clean(name)
	if name == "" {
		name = domain.DisplayNameFromEmail(email)
	}
	return name, email, nil
}
