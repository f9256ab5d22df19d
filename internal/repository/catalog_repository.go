package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmht/buzon-service/internal/domain"
)

// StatusRepository persists the configurable status catalog.
type StatusRepository interface {
	List(ctx context.Context) ([]domain.Status, error)
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
	Create(ctx context.Context, s *domain.Status) error
	Update(ctx context.Context, s *domain.Status) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository persists communication categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository constructs repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) List(ctx context.Context) ([]domain.Status, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nombre FROM estados ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var s domain.Status
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *statusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	var s domain.Status
	if err := r.pool.QueryRow(ctx, `SELECT id, nombre FROM estados WHERE id=$1`, id).Scan(&s.ID, &s.Name); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *statusRepository) Create(ctx context.Context, s *domain.Status) error {
	return r.pool.QueryRow(ctx, `INSERT INTO estados (nombre) VALUES ($1) RETURNING id`, s.Name).Scan(&s.ID)
}

func (r *statusRepository) Update(ctx context.Context, s *domain.Status) error {
	return execOne(ctx, r.pool, `UPDATE estados SET nombre=$1 WHERE id=$2`, s.Name, s.ID)
}

func (r *statusRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM estados WHERE id=$1`, id)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository constructs repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nombre, descripcion FROM categorias ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	if err := r.pool.QueryRow(ctx, `SELECT id, nombre, descripcion FROM categorias WHERE id=$1`, id).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return r.pool.QueryRow(ctx, `INSERT INTO categorias (nombre, descripcion) VALUES ($1,$2) RETURNING id`, c.Name, c.Description).Scan(&c.ID)
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return execOne(ctx, r.pool, `UPDATE categorias SET nombre=$1, descripcion=$2 WHERE id=$3`, c.Name, c.Description, c.ID)
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM categorias WHERE id=$1`, id)
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) error {
	cmd, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
