package dto

import (
	"time"

	"github.com/fmht/buzon-service/internal/domain"
)

// CreateCommunicationRequest is the public intake payload.
type CreateCommunicationRequest struct {
	Kind              string  `json:"tipo" form:"tipo"`
	Description       string  `json:"descripcion" form:"descripcion"`
	CategoryID        *int64  `json:"id_categoria" form:"id_categoria"`
	AreaInvolved      *string `json:"area_involucrada" form:"area_involucrada"`
	Channel           string  `json:"medio" form:"medio"`
	IsPublic          bool    `json:"es_publico" form:"es_publico"`
	Anonymous         bool    `json:"anonimo" form:"anonimo"`
	Email             *string `json:"correo" form:"correo"`
	Name              *string `json:"nombre" form:"nombre"`
	Phone             *string `json:"telefono" form:"telefono"`
	Affiliation       *string `json:"tipo_ciudadano" form:"tipo_ciudadano"`
	Gender            *string `json:"genero" form:"genero"`
	AgeRange          *string `json:"rango_edad" form:"rango_edad"`
	Confidential      bool    `json:"es_confidencial" form:"es_confidencial"`
	ContactAuthorized bool    `json:"autoriza_contacto" form:"autoriza_contacto"`
}

// UpdateCommunicationRequest is an administrative edit. id_categoria null clears the category.
type UpdateCommunicationRequest struct {
	Kind         *string       `json:"tipo"`
	CategoryID   OptionalInt64 `json:"id_categoria"`
	Description  *string       `json:"descripcion"`
	AreaInvolved *string       `json:"area_involucrada"`
	IsPublic     *bool         `json:"es_publico"`
}

// IntakeResponse is returned to the submitter after intake.
type IntakeResponse struct {
	ID         int64                    `json:"id"`
	Folio      string                   `json:"folio"`
	Kind       domain.CommunicationKind `json:"tipo"`
	ReceivedAt time.Time                `json:"fecha_recepcion"`
}

// CommunicationResponse is a communication without tracking state.
type CommunicationResponse struct {
	ID           int64                    `json:"id"`
	Folio        string                   `json:"folio"`
	Kind         domain.CommunicationKind `json:"tipo"`
	SubmitterID  *int64                   `json:"id_ciudadano"`
	CategoryID   *int64                   `json:"id_categoria"`
	Description  string                   `json:"descripcion"`
	AreaInvolved *string                  `json:"area_involucrada"`
	ReceivedAt   time.Time                `json:"fecha_recepcion"`
	Channel      domain.Channel           `json:"medio"`
	IsPublic     bool                     `json:"es_publico"`
}

// CommunicationSummaryResponse is a listing row.
type CommunicationSummaryResponse struct {
	CommunicationResponse
	CategoryName    *string               `json:"categoria"`
	StatusName      *string               `json:"estado"`
	Priority        *domain.PriorityLevel `json:"prioridad"`
	AssignedAdminID *int64                `json:"id_admin_asignado"`
	TrackingUpdated *time.Time            `json:"fecha_actualizacion"`
}

// CommunicationListResponse is one page of communications.
type CommunicationListResponse struct {
	Items  []CommunicationSummaryResponse `json:"items"`
	Total  int                            `json:"total"`
	Limit  int                            `json:"limit"`
	Offset int                            `json:"offset"`
}

// CommunicationDetailResponse is the back-office detail view.
type CommunicationDetailResponse struct {
	CommunicationResponse
	CategoryName    *string            `json:"categoria"`
	Submitter       *SubmitterResponse `json:"ciudadano"`
	SubmitterMasked bool               `json:"ciudadano_confidencial"`
	Tracking        []TrackingResponse `json:"seguimientos"`
	Evidence        []EvidenceResponse `json:"evidencias"`
}

// PublicStatusResponse is what a folio lookup reveals.
type PublicStatusResponse struct {
	Folio      string                   `json:"folio"`
	Kind       domain.CommunicationKind `json:"tipo"`
	ReceivedAt time.Time                `json:"fecha_recepcion"`
	StatusName *string                  `json:"estado"`
	Priority   *domain.PriorityLevel    `json:"prioridad"`
	UpdatedAt  *time.Time               `json:"fecha_actualizacion"`
	ResolvedOn *string                  `json:"fecha_resolucion"`
}

// RecognitionResponse is a publicly visible recognition.
type RecognitionResponse struct {
	Description  string    `json:"descripcion"`
	AreaInvolved *string   `json:"area_involucrada"`
	ReceivedAt   time.Time `json:"fecha_recepcion"`
}

// SubmitterResponse describes a citizen.
type SubmitterResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"nombre"`
	Email             string    `json:"correo,omitempty"`
	Phone             *string   `json:"telefono,omitempty"`
	Affiliation       *string   `json:"tipo_ciudadano"`
	Gender            *string   `json:"genero"`
	AgeRange          *string   `json:"rango_edad"`
	Confidential      bool      `json:"es_confidencial"`
	ContactAuthorized bool      `json:"autoriza_contacto"`
	RegisteredAt      time.Time `json:"fecha_registro"`
}

// EvidenceResponse is evidence metadata.
type EvidenceResponse struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"nombre_original"`
	MIMEType     string    `json:"tipo_mime"`
	SizeBytes    int64     `json:"tamano_bytes"`
	UploadedAt   time.Time `json:"fecha_subida"`
}
