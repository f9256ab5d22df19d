package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmht/buzon-service/internal/domain"
)

// SubmitterRepository persists citizens who file communications.
type SubmitterRepository interface {
	FindOrCreateByEmail(ctx context.Context, s *domain.Submitter) error
	GetByID(ctx context.Context, id int64) (*domain.Submitter, error)
	List(ctx context.Context, search *string, limit, offset int) ([]domain.Submitter, error)
}

type submitterRepository struct {
	pool *pgxpool.Pool
}

// NewSubmitterRepository instantiates the repository.
func NewSubmitterRepository(pool *pgxpool.Pool) SubmitterRepository {
	return &submitterRepository{pool: pool}
}

const submitterColumns = `id, nombre, correo, telefono, tipo_ciudadano, genero, rango_edad,
               es_confidencial, autoriza_contacto, fecha_registro`

// FindOrCreateByEmail returns the existing row for s.Email, inserting s when absent.
// An existing row is never modified. The no-op update makes RETURNING yield the row on conflict.
func (r *submitterRepository) FindOrCreateByEmail(ctx context.Context, s *domain.Submitter) error {
	query := `
        INSERT INTO ciudadanos (nombre, correo, telefono, tipo_ciudadano, genero, rango_edad, es_confidencial, autoriza_contacto)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (correo) DO UPDATE SET correo = EXCLUDED.correo
        RETURNING ` + submitterColumns
	return r.pool.QueryRow(ctx, query,
		s.Name,
		s.Email,
		s.Phone,
		s.Affiliation,
		s.Gender,
		s.AgeRange,
		s.Confidential,
		s.ContactAuthorized,
	).Scan(submitterDest(s)...)
}

func (r *submitterRepository) GetByID(ctx context.Context, id int64) (*domain.Submitter, error) {
	var s domain.Submitter
	if err := r.pool.QueryRow(ctx, `SELECT `+submitterColumns+` FROM ciudadanos WHERE id=$1`, id).Scan(submitterDest(&s)...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submitterRepository) List(ctx context.Context, search *string, limit, offset int) ([]domain.Submitter, error) {
	query := `SELECT ` + submitterColumns + ` FROM ciudadanos`
	args := []any{}
	if search != nil && strings.TrimSpace(*search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*search))+"%")
		query += " WHERE LOWER(nombre) LIKE $1 OR LOWER(correo) LIKE $1"
	}
	limit, offset = pageBounds(limit, offset, 50)
	query += fmt.Sprintf(" ORDER BY fecha_registro DESC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Submitter
	for rows.Next() {
		var s domain.Submitter
		if err := rows.Scan(submitterDest(&s)...); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func submitterDest(s *domain.Submitter) []any {
	return []any{
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Affiliation,
		&s.Gender,
		&s.AgeRange,
		&s.Confidential,
		&s.ContactAuthorized,
		&s.RegisteredAt,
	}
}
