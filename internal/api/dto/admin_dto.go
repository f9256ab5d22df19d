package dto

import (
	"time"

	"github.com/fmht/buzon-service/internal/domain"
)

// LoginRequest carries account credentials.
type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Account     AdminResponse `json:"administrador"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"password_actual"`
	NewPassword     string `json:"password_nuevo"`
}

// CreateAdminRequest adds an account.
type CreateAdminRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Password string `json:"password"`
	Role     string `json:"rol"`
}

// UpdateAdminRequest is a partial account edit.
type UpdateAdminRequest struct {
	Name     *string `json:"nombre"`
	Email    *string `json:"correo"`
	Password *string `json:"password"`
	Role     *string `json:"rol"`
	Active   *bool   `json:"activo"`
}

// AdminResponse describes an account. The password hash never leaves the service.
type AdminResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"nombre"`
	Email     string           `json:"correo"`
	Role      domain.AdminRole `json:"rol"`
	Active    bool             `json:"activo"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// StatusRequest creates or renames a status.
type StatusRequest struct {
	Name string `json:"nombre"`
}

// CategoryRequest creates or edits a category.
type CategoryRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}
