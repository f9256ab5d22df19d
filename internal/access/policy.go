// Package access decides what an authenticated actor may list, read and change.
// Every decision is a pure function of the actor and the target record.
package access

import (
	"github.com/fmht/buzon-service/internal/domain"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// ListScope restricts a communication listing.
type ListScope struct {
	All        bool
	AssignedTo *int64
}

// AllRecords is the unrestricted scope.
var AllRecords = ListScope{All: true}

// OnlyAssignedTo limits a listing to communications whose current tracking
// record is assigned to id.
func OnlyAssignedTo(id int64) ListScope {
	return ListScope{AssignedTo: &id}
}

// FieldSet is the set of tracking fields an actor may write.
type FieldSet map[domain.TrackingField]struct{}

func fieldSet(fields ...domain.TrackingField) FieldSet {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Allows reports whether f may be written.
func (s FieldSet) Allows(f domain.TrackingField) bool {
	_, ok := s[f]
	return ok
}

// Apply returns patch with every field outside the set dropped.
func (s FieldSet) Apply(patch domain.TrackingPatch) domain.TrackingPatch {
	var out domain.TrackingPatch
	if s.Allows(domain.FieldStatus) {
		out.StatusID = patch.StatusID
	}
	if s.Allows(domain.FieldAssignee) {
		out.AssignedAdminID = patch.AssignedAdminID
		out.ClearAssignee = patch.ClearAssignee
	}
	if s.Allows(domain.FieldResponsible) {
		out.Responsible = patch.Responsible
	}
	if s.Allows(domain.FieldResolvedOn) {
		out.ResolvedOn = patch.ResolvedOn
	}
	if s.Allows(domain.FieldNotes) {
		out.Notes = patch.Notes
	}
	if s.Allows(domain.FieldPriority) {
		out.Priority = patch.Priority
	}
	return out
}

var (
	adminFields     = fieldSet(domain.AllTrackingFields...)
	moderatorFields = fieldSet(domain.FieldStatus, domain.FieldNotes)
)

func unknownRole() error {
	return apperrors.NewForbidden("unknown role")
}

// AuthorizeList returns the listing scope for actor.
func AuthorizeList(actor domain.Actor) (ListScope, error) {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleMonitor:
		return AllRecords, nil
	case domain.RoleModerator:
		return OnlyAssignedTo(actor.ID), nil
	default:
		return ListScope{}, unknownRole()
	}
}

// AuthorizeRead gates communication detail views.
func AuthorizeRead(actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleMonitor, domain.RoleModerator:
		return nil
	default:
		return unknownRole()
	}
}

// AuthorizeCreateTracking gates appending tracking records.
func AuthorizeCreateTracking(actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleMonitor, domain.RoleModerator:
		return apperrors.NewForbidden("only admin may create tracking records")
	default:
		return unknownRole()
	}
}

// AuthorizeUpdate returns the writable fields of record for actor.
// The caller must have confirmed record exists.
func AuthorizeUpdate(actor domain.Actor, record *domain.TrackingRecord) (FieldSet, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return adminFields, nil
	case domain.RoleMonitor:
		return nil, apperrors.NewForbidden("monitor role is read-only")
	case domain.RoleModerator:
		if record == nil || record.AssignedAdminID == nil || *record.AssignedAdminID != actor.ID {
			return nil, apperrors.NewForbidden("tracking record is not assigned to you")
		}
		return moderatorFields, nil
	default:
		return nil, unknownRole()
	}
}

// AuthorizeDelete gates deletion of communications, tracking records and catalogs.
func AuthorizeDelete(actor domain.Actor) error {
	return requireAdmin(actor, "only admin may delete")
}

// AuthorizeManage gates administrative writes: catalogs, communication edits, accounts.
func AuthorizeManage(actor domain.Actor) error {
	return requireAdmin(actor, "admin role required")
}

// AuthorizeAccountDelete rejects self-deletion for every role, then requires admin.
func AuthorizeAccountDelete(actor domain.Actor, targetID int64) error {
	if actor.ID == targetID {
		return apperrors.NewForbidden("you cannot delete your own account")
	}
	return requireAdmin(actor, "only admin may delete accounts")
}

// CanSeeConfidential reports whether actor may see a confidential submitter's contact data.
func CanSeeConfidential(actor domain.Actor) bool {
	return actor.Role == domain.RoleAdmin
}

func requireAdmin(actor domain.Actor, msg string) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleMonitor, domain.RoleModerator:
		return apperrors.NewForbidden(msg)
	default:
		return unknownRole()
	}
}

// AuthorizeSubmitterRead gates browsing the submitter directory.
func AuthorizeSubmitterRead(actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleMonitor:
		return nil
	case domain.RoleModerator:
		return apperrors.NewForbidden("moderador cannot browse submitters")
	default:
		return unknownRole()
	}
}
