package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmht/buzon-service/internal/domain"
)

// TrackingRepository stores tracking records (seguimientos).
type TrackingRepository interface {
	Create(ctx context.Context, rec *domain.TrackingRecord) error
	Update(ctx context.Context, rec *domain.TrackingRecord) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.TrackingRecord, error)
	ListByCommunication(ctx context.Context, communicationID int64) ([]domain.TrackingRecord, error)
}

type trackingRepository struct {
	pool *pgxpool.Pool
}

// NewTrackingRepository builds repository.
func NewTrackingRepository(pool *pgxpool.Pool) TrackingRepository {
	return &trackingRepository{pool: pool}
}

const trackingColumns = `id, id_comunicacion, id_estado, id_admin_asignado, responsable,
               fecha_actualizacion, fecha_resolucion, notas, prioridad`

func (r *trackingRepository) Create(ctx context.Context, rec *domain.TrackingRecord) error {
	const query = `
        INSERT INTO seguimientos (id_comunicacion, id_estado, id_admin_asignado, responsable, fecha_resolucion, notas, prioridad)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, fecha_actualizacion`
	return r.pool.QueryRow(ctx, query,
		rec.CommunicationID,
		rec.StatusID,
		rec.AssignedAdminID,
		rec.Responsible,
		rec.ResolvedOn,
		rec.Notes,
		rec.Priority,
	).Scan(&rec.ID, &rec.UpdatedAt)
}

// Update writes every mutable column; fecha_actualizacion is refreshed by trigger.
func (r *trackingRepository) Update(ctx context.Context, rec *domain.TrackingRecord) error {
	const query = `
        UPDATE seguimientos SET id_estado=$1, id_admin_asignado=$2, responsable=$3, fecha_resolucion=$4,
            notas=$5, prioridad=$6
        WHERE id=$7
        RETURNING fecha_actualizacion`
	return r.pool.QueryRow(ctx, query,
		rec.StatusID,
		rec.AssignedAdminID,
		rec.Responsible,
		rec.ResolvedOn,
		rec.Notes,
		rec.Priority,
		rec.ID,
	).Scan(&rec.UpdatedAt)
}

func (r *trackingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM seguimientos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *trackingRepository) GetByID(ctx context.Context, id int64) (*domain.TrackingRecord, error) {
	var rec domain.TrackingRecord
	if err := r.pool.QueryRow(ctx, `SELECT `+trackingColumns+` FROM seguimientos WHERE id=$1`, id).Scan(trackingDest(&rec)...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *trackingRepository) ListByCommunication(ctx context.Context, communicationID int64) ([]domain.TrackingRecord, error) {
	query := `SELECT ` + trackingColumns + ` FROM seguimientos
        WHERE id_comunicacion=$1 ORDER BY fecha_actualizacion DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, communicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TrackingRecord
	for rows.Next() {
		var rec domain.TrackingRecord
		if err := rows.Scan(trackingDest(&rec)...); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func trackingDest(rec *domain.TrackingRecord) []any {
	return []any{
		&rec.ID,
		&rec.CommunicationID,
		&rec.StatusID,
		&rec.AssignedAdminID,
		&rec.Responsible,
		&rec.UpdatedAt,
		&rec.ResolvedOn,
		&rec.Notes,
		&rec.Priority,
	}
}
