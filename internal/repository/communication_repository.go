package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmht/buzon-service/internal/domain"
)

// CommunicationFilter captures back-office search parameters.
type CommunicationFilter struct {
	Kind       *domain.CommunicationKind
	StatusID   *int64
	Priority   *domain.PriorityLevel
	CategoryID *int64
	Channel    *domain.Channel
	SearchTerm *string
	From       *time.Time
	To         *time.Time
	// AssignedTo keeps only communications whose latest tracking record is assigned to this admin.
	AssignedTo *int64
	Limit      int
	Offset     int
}

// CommunicationRepository encapsulates communication persistence.
type CommunicationRepository interface {
	Create(ctx context.Context, c *domain.Communication) error
	Update(ctx context.Context, c *domain.Communication) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Communication, error)
	GetPublicStatus(ctx context.Context, folio string) (*domain.PublicStatus, error)
	List(ctx context.Context, filter CommunicationFilter) ([]domain.CommunicationSummary, int, error)
	ListPublicRecognitions(ctx context.Context, limit, offset int) ([]domain.Communication, error)
}

type communicationRepository struct {
	pool *pgxpool.Pool
}

// NewCommunicationRepository instantiates repository.
func NewCommunicationRepository(pool *pgxpool.Pool) CommunicationRepository {
	return &communicationRepository{pool: pool}
}

const communicationColumns = `c.id, c.folio, c.tipo, c.id_ciudadano, c.id_categoria, c.descripcion,
               c.area_involucrada, c.fecha_recepcion, c.medio, c.es_publico`

// Create inserts the row; the folio and reception timestamp come back from the trigger.
func (r *communicationRepository) Create(ctx context.Context, c *domain.Communication) error {
	const query = `
        INSERT INTO comunicaciones (tipo, id_ciudadano, id_categoria, descripcion, area_involucrada, medio, es_publico, folio)
        VALUES ($1,$2,$3,$4,$5,$6,$7,'')
        RETURNING id, folio, fecha_recepcion`
	return r.pool.QueryRow(ctx, query,
		c.Kind,
		c.SubmitterID,
		c.CategoryID,
		c.Description,
		c.AreaInvolved,
		c.Channel,
		c.IsPublic,
	).Scan(&c.ID, &c.Folio, &c.ReceivedAt)
}

func (r *communicationRepository) Update(ctx context.Context, c *domain.Communication) error {
	const query = `
        UPDATE comunicaciones SET tipo=$1, id_categoria=$2, descripcion=$3, area_involucrada=$4, es_publico=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		c.Kind,
		c.CategoryID,
		c.Description,
		c.AreaInvolved,
		c.IsPublic,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *communicationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comunicaciones WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *communicationRepository) GetByID(ctx context.Context, id int64) (*domain.Communication, error) {
	query := `SELECT ` + communicationColumns + ` FROM comunicaciones c WHERE c.id=$1`
	var c domain.Communication
	if err := r.pool.QueryRow(ctx, query, id).Scan(communicationDest(&c)...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *communicationRepository) GetPublicStatus(ctx context.Context, folio string) (*domain.PublicStatus, error) {
	const query = `
        SELECT c.folio, c.tipo, c.fecha_recepcion, e.nombre, s.prioridad, s.fecha_actualizacion, s.fecha_resolucion
        FROM comunicaciones c
        LEFT JOIN LATERAL (
            SELECT id_estado, prioridad, fecha_actualizacion, fecha_resolucion FROM seguimientos
            WHERE id_comunicacion = c.id ORDER BY fecha_actualizacion DESC, id DESC LIMIT 1
        ) s ON TRUE
        LEFT JOIN estados e ON e.id = s.id_estado
        WHERE c.folio=$1`
	var st domain.PublicStatus
	if err := r.pool.QueryRow(ctx, query, folio).Scan(
		&st.Folio,
		&st.Kind,
		&st.ReceivedAt,
		&st.StatusName,
		&st.Priority,
		&st.UpdatedAt,
		&st.ResolvedOn,
	); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *communicationRepository) List(ctx context.Context, filter CommunicationFilter) ([]domain.CommunicationSummary, int, error) {
	from := `
        FROM comunicaciones c
        LEFT JOIN categorias cat ON cat.id = c.id_categoria
        LEFT JOIN LATERAL (
            SELECT id_estado, prioridad, id_admin_asignado, fecha_actualizacion FROM seguimientos
            WHERE id_comunicacion = c.id ORDER BY fecha_actualizacion DESC, id DESC LIMIT 1
        ) s ON TRUE
        LEFT JOIN estados e ON e.id = s.id_estado`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("c.tipo=$%d", len(args)))
	}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		clauses = append(clauses, fmt.Sprintf("s.id_estado=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("s.prioridad=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("c.id_categoria=$%d", len(args)))
	}
	if filter.Channel != nil {
		args = append(args, *filter.Channel)
		clauses = append(clauses, fmt.Sprintf("c.medio=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("s.id_admin_asignado=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("c.fecha_recepcion >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("c.fecha_recepcion <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(c.descripcion) LIKE %s OR LOWER(c.folio) LIKE %s OR LOWER(COALESCE(c.area_involucrada,'')) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset, 20)
	query := fmt.Sprintf(`SELECT %s, cat.nombre, e.nombre, s.prioridad, s.id_admin_asignado, s.fecha_actualizacion %s%s
        ORDER BY c.fecha_recepcion DESC, c.id DESC LIMIT %d OFFSET %d`, communicationColumns, from, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.CommunicationSummary
	for rows.Next() {
		var s domain.CommunicationSummary
		dest := append(communicationDest(&s.Communication),
			&s.CategoryName,
			&s.StatusName,
			&s.Priority,
			&s.AssignedAdminID,
			&s.TrackingUpdated,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	return result, total, rows.Err()
}

func (r *communicationRepository) ListPublicRecognitions(ctx context.Context, limit, offset int) ([]domain.Communication, error) {
	limit, offset = pageBounds(limit, offset, 20)
	query := fmt.Sprintf(`SELECT %s FROM comunicaciones c
        WHERE c.tipo=$1 AND c.es_publico
        ORDER BY c.fecha_recepcion DESC LIMIT %d OFFSET %d`, communicationColumns, limit, offset)
	rows, err := r.pool.Query(ctx, query, domain.KindRecognition)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Communication
	for rows.Next() {
		var c domain.Communication
		if err := rows.Scan(communicationDest(&c)...); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func communicationDest(c *domain.Communication) []any {
	return []any{
		&c.ID,
		&c.Folio,
		&c.Kind,
		&c.SubmitterID,
		&c.CategoryID,
		&c.Description,
		&c.AreaInvolved,
		&c.ReceivedAt,
		&c.Channel,
		&c.IsPublic,
	}
}

func pageBounds(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
