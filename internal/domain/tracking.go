package domain

import "time"

// TrackingRecord follows a communication's resolution.
type TrackingRecord struct {
	ID              int64
	CommunicationID int64
	StatusID        int64
	AssignedAdminID *int64
	Responsible     string
	UpdatedAt       time.Time
	ResolvedOn      *time.Time
	Notes           string
	Priority        PriorityLevel
}

// TrackingField names a writable tracking column.
type TrackingField string

const (
	FieldStatus      TrackingField = "id_estado"
	FieldAssignee    TrackingField = "id_admin_asignado"
	FieldResponsible TrackingField = "responsable"
	FieldResolvedOn  TrackingField = "fecha_resolucion"
	FieldNotes       TrackingField = "notas"
	FieldPriority    TrackingField = "prioridad"
)

// AllTrackingFields lists every writable field.
var AllTrackingFields = []TrackingField{
	FieldStatus, FieldAssignee, FieldResponsible, FieldResolvedOn, FieldNotes, FieldPriority,
}

// TrackingPatch is a partial update. Nil means "not supplied".
// ClearAssignee distinguishes an explicit unassignment from an absent field.
type TrackingPatch struct {
	StatusID        *int64
	AssignedAdminID *int64
	ClearAssignee   bool
	Responsible     *string
	ResolvedOn      *time.Time
	Notes           *string
	Priority        *PriorityLevel
}

// Supplied lists the fields present in the patch.
func (p TrackingPatch) Supplied() []TrackingField {
	var out []TrackingField
	if p.StatusID != nil {
		out = append(out, FieldStatus)
	}
	if p.AssignedAdminID != nil || p.ClearAssignee {
		out = append(out, FieldAssignee)
	}
	if p.Responsible != nil {
		out = append(out, FieldResponsible)
	}
	if p.ResolvedOn != nil {
		out = append(out, FieldResolvedOn)
	}
	if p.Notes != nil {
		out = append(out, FieldNotes)
	}
	if p.Priority != nil {
		out = append(out, FieldPriority)
	}
	return out
}

// ApplyTo writes supplied fields onto rec.
func (p TrackingPatch) ApplyTo(rec *TrackingRecord) {
	if p.StatusID != nil {
		rec.StatusID = *p.StatusID
	}
	if p.ClearAssignee {
		rec.AssignedAdminID = nil
	} else if p.AssignedAdminID != nil {
		id := *p.AssignedAdminID
		rec.AssignedAdminID = &id
	}
	if p.Responsible != nil {
		rec.Responsible = *p.Responsible
	}
	if p.ResolvedOn != nil {
		d := *p.ResolvedOn
		rec.ResolvedOn = &d
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
	if p.Priority != nil {
		rec.Priority = *p.Priority
	}
}
