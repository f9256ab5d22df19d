package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/fmht/buzon-service/internal/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// OptionalInt64 tells an absent field apart from an explicit null.
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON records that the field was present.
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// CreateTrackingRequest appends a tracking record.
type CreateTrackingRequest struct {
	StatusID        int64   `json:"id_estado"`
	AssignedAdminID *int64  `json:"id_admin_asignado"`
	Responsible     string  `json:"responsable"`
	ResolvedOn      *string `json:"fecha_resolucion"`
	Notes           string  `json:"notas"`
	Priority        *string `json:"prioridad"`
}

// UpdateTrackingRequest is a partial tracking edit.
type UpdateTrackingRequest struct {
	StatusID        *int64        `json:"id_estado"`
	AssignedAdminID OptionalInt64 `json:"id_admin_asignado"`
	Responsible     *string       `json:"responsable"`
	ResolvedOn      *string       `json:"fecha_resolucion"`
	Notes           *string       `json:"notas"`
	Priority        *string       `json:"prioridad"`
}

// AssignRequest sets or clears the assignee.
type AssignRequest struct {
	AssignedAdminID *int64 `json:"id_admin_asignado"`
}

// TrackingResponse describes a tracking record.
type TrackingResponse struct {
	ID              int64                `json:"id"`
	CommunicationID int64                `json:"id_comunicacion"`
	StatusID        int64                `json:"id_estado"`
	AssignedAdminID *int64               `json:"id_admin_asignado"`
	Responsible     string               `json:"responsable"`
	UpdatedAt       time.Time            `json:"fecha_actualizacion"`
	ResolvedOn      *string              `json:"fecha_resolucion"`
	Notes           string               `json:"notas"`
	Priority        domain.PriorityLevel `json:"prioridad"`
}
