package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/domain"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

const (
	actorKey   = "auth_actor"
	accountKey = "auth_account"
	claimsKey  = "auth_claims"
)

// AccountLoader fetches accounts by id.
type AccountLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
}

// AuthMiddleware validates bearer tokens and loads the calling account.
type AuthMiddleware struct {
	tokens      *TokenManager
	accounts    AccountLoader
	revocations RevocationStore
}

// NewAuthMiddleware constructs middleware. A nil store falls back to an in-process one.
func NewAuthMiddleware(tokens *TokenManager, accounts AccountLoader, revocations RevocationStore) *AuthMiddleware {
	if revocations == nil {
		revocations = NewMemoryRevocations()
	}
	return &AuthMiddleware{tokens: tokens, accounts: accounts, revocations: revocations}
}

// Handle enforces authentication for protected routes.
// The role is read from the stored account, not the token, so role changes apply immediately.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	id, err := claims.AdminID()
	if err != nil {
		return apperrors.NewUnauthorized("invalid token subject")
	}
	if claims.ID == "" {
		return apperrors.NewUnauthorized("invalid token id")
	}
	revoked, err := m.revocations.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized("token revoked")
	}

	account, err := m.accounts.GetByID(c.UserContext(), id)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}
	if !account.Active {
		return apperrors.NewUnauthorized("account disabled")
	}
	if _, err := domain.ParseAdminRole(string(account.Role)); err != nil {
		return apperrors.NewForbidden("unknown role")
	}

	c.Locals(claimsKey, claims)
	c.Locals(accountKey, account)
	c.Locals(actorKey, account.Actor())
	return c.Next()
}

// ActorFromContext retrieves the authenticated actor.
func ActorFromContext(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(actorKey).(domain.Actor)
	return actor, ok
}

// AccountFromContext retrieves the authenticated account record.
func AccountFromContext(c *fiber.Ctx) (*domain.Admin, bool) {
	account, ok := c.Locals(accountKey).(*domain.Admin)
	return account, ok
}

// ClaimsFromContext retrieves the validated token claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}
