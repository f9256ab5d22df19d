package domain

import (
	"fmt"
	"time"
)

// AdminRole is the closed set of back-office roles.
type AdminRole string

const (
	RoleAdmin     AdminRole = "admin"
	RoleMonitor   AdminRole = "monitor"
	RoleModerator AdminRole = "moderador"
)

// AllAdminRoles lists every role.
var AllAdminRoles = []AdminRole{RoleAdmin, RoleMonitor, RoleModerator}

// ParseAdminRole accepts only the exact lowercase tokens.
func ParseAdminRole(raw string) (AdminRole, error) {
	switch AdminRole(raw) {
	case RoleAdmin, RoleMonitor, RoleModerator:
		return AdminRole(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Admin is a persisted back-office account.
type Admin struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         AdminRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   int64
	Role AdminRole
}

// Actor returns the request identity for this account.
func (a *Admin) Actor() Actor {
	return Actor{ID: a.ID, Role: a.Role}
}
