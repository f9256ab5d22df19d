package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/auth"
	"github.com/fmht/buzon-service/internal/domain"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func actorFrom(c *fiber.Ctx) (domain.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"param": name})
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// pagination reads page/page_size into limit/offset.
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid numeric filter", map[string]any{"field": key})
	}
	return &v, nil
}

// queryDate accepts YYYY-MM-DD or RFC3339.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	return parseDate(raw, key)
}

func parseDate(raw, field string) (*time.Time, error) {
	if t, err := time.Parse(dto.DateLayout, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	return nil, apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", map[string]any{"field": field})
}

func optionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	return parseDate(strings.TrimSpace(*raw), field)
}

// priorityFrom normalizes case; unknown values pass through for the service to reject.
func priorityFrom(raw *string) *domain.PriorityLevel {
	if raw == nil {
		return nil
	}
	if level, ok := domain.ParsePriorityLevel(*raw); ok {
		return &level
	}
	level := domain.PriorityLevel(*raw)
	return &level
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}
