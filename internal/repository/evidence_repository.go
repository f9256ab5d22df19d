package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmht/buzon-service/internal/domain"
)

// EvidenceRepository persists evidence file metadata.
type EvidenceRepository interface {
	Create(ctx context.Context, ev *domain.Evidence) error
	GetByID(ctx context.Context, id int64) (*domain.Evidence, error)
	ListByCommunication(ctx context.Context, communicationID int64) ([]domain.Evidence, error)
}

type evidenceRepository struct {
	pool *pgxpool.Pool
}

// NewEvidenceRepository constructs repository.
func NewEvidenceRepository(pool *pgxpool.Pool) EvidenceRepository {
	return &evidenceRepository{pool: pool}
}

func (r *evidenceRepository) Create(ctx context.Context, ev *domain.Evidence) error {
	const query = `
        INSERT INTO evidencias (id_comunicacion, ruta_archivo, nombre_original, tipo_mime, tamano_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, fecha_subida`
	return r.pool.QueryRow(ctx, query,
		ev.CommunicationID,
		ev.StorageKey,
		ev.OriginalName,
		ev.MIMEType,
		ev.SizeBytes,
	).Scan(&ev.ID, &ev.UploadedAt)
}

func (r *evidenceRepository) GetByID(ctx context.Context, id int64) (*domain.Evidence, error) {
	const query = `
        SELECT id, id_comunicacion, ruta_archivo, nombre_original, tipo_mime, tamano_bytes, fecha_subida
        FROM evidencias WHERE id=$1`
	var ev domain.Evidence
	if err := r.pool.QueryRow(ctx, query, id).Scan(evidenceDest(&ev)...); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *evidenceRepository) ListByCommunication(ctx context.Context, communicationID int64) ([]domain.Evidence, error) {
	const query = `
        SELECT id, id_comunicacion, ruta_archivo, nombre_original, tipo_mime, tamano_bytes, fecha_subida
        FROM evidencias WHERE id_comunicacion=$1 ORDER BY fecha_subida`
	rows, err := r.pool.Query(ctx, query, communicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Evidence
	for rows.Next() {
		var ev domain.Evidence
		if err := rows.Scan(evidenceDest(&ev)...); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}

func evidenceDest(ev *domain.Evidence) []any {
	return []any{
		&ev.ID,
		&ev.CommunicationID,
		&ev.StorageKey,
		&ev.OriginalName,
		&ev.MIMEType,
		&ev.SizeBytes,
		&ev.UploadedAt,
	}
}
