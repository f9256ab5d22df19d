package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/fmht/buzon-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCommunicationCreated EventType = "communication_created"
	EventTrackingCreated      EventType = "tracking_created"
	EventTrackingUpdated      EventType = "tracking_updated"
	EventEvidenceAttached     EventType = "evidence_attached"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	CommunicationID int64     `json:"id_comunicacion"`
	ActorID         *int64    `json:"id_actor,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Payload         any       `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, communicationID int64, actorID *int64, at time.Time, payload any) Event {
	return Event{
		ID:              uuid.NewString(),
		Type:            eventType,
		CommunicationID: communicationID,
		ActorID:         actorID,
		Timestamp:       at.UTC(),
		Payload:         payload,
	}
}

// CommunicationCreatedPayload payload.
type CommunicationCreatedPayload struct {
	Folio       string                   `json:"folio"`
	Kind        domain.CommunicationKind `json:"tipo"`
	Priority    *domain.PriorityLevel    `json:"prioridad,omitempty"`
	SubmitterID *int64                   `json:"id_ciudadano,omitempty"`
}

// TrackingCreatedPayload payload.
type TrackingCreatedPayload struct {
	TrackingID      int64                `json:"id_seguimiento"`
	StatusID        int64                `json:"id_estado"`
	AssignedAdminID *int64               `json:"id_admin_asignado,omitempty"`
	Priority        domain.PriorityLevel `json:"prioridad"`
}

// TrackingUpdatedPayload payload.
type TrackingUpdatedPayload struct {
	TrackingID         int64                  `json:"id_seguimiento"`
	Fields             []domain.TrackingField `json:"campos"`
	OldStatusID        int64                  `json:"id_estado_anterior"`
	NewStatusID        int64                  `json:"id_estado"`
	OldAssignedAdminID *int64                 `json:"id_admin_anterior,omitempty"`
	NewAssignedAdminID *int64                 `json:"id_admin_asignado,omitempty"`
}

// EvidenceAttachedPayload payload.
type EvidenceAttachedPayload struct {
	EvidenceIDs []int64 `json:"ids_evidencia"`
	Count       int     `json:"cantidad"`
}
