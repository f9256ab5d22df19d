package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/access"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/events"
	"github.com/fmht/buzon-service/internal/repository"
	"github.com/fmht/buzon-service/internal/textnorm"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// TrackingService manages tracking records under AccessPolicy.
type TrackingService struct {
	communications repository.CommunicationRepository
	tracking       repository.TrackingRepository
	admins         repository.AdminRepository
	catalog        CatalogLookup
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	clock          Clock
}

// TrackingDependencies bundles collaborators.
type TrackingDependencies struct {
	CommunicationRepo repository.CommunicationRepository
	TrackingRepo      repository.TrackingRepository
	AdminRepo         repository.AdminRepository
	Catalog           CatalogLookup
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	Clock             Clock
}

// TrackingCreateInput describes a new tracking record.
type TrackingCreateInput struct {
	StatusID        int64
	AssignedAdminID *int64
	Responsible     string
	ResolvedOn      *time.Time
	Notes           string
	Priority        *domain.PriorityLevel
}

// NewTrackingService constructs the service.
func NewTrackingService(deps TrackingDependencies) *TrackingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingService{
		communications: deps.CommunicationRepo,
		tracking:       deps.TrackingRepo,
		admins:         deps.AdminRepo,
		catalog:        deps.Catalog,
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		clock:          deps.Clock,
	}
}

// ListByCommunication returns the tracking history of a communication, newest first.
func (s *TrackingService) ListByCommunication(ctx context.Context, actor domain.Actor, communicationID int64) ([]domain.TrackingRecord, error) {
	if _, err := s.communications.GetByID(ctx, communicationID); err != nil {
		return nil, lookupErr(err, "communication", communicationID)
	}
	if err := access.AuthorizeRead(actor); err != nil {
		return nil, err
	}
	records, err := s.tracking.ListByCommunication(ctx, communicationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// Get returns one tracking record.
func (s *TrackingService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.TrackingRecord, error) {
	rec, err := s.tracking.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "tracking record", id)
	}
	if err := access.AuthorizeRead(actor); err != nil {
		return nil, err
	}
	return rec, nil
}

// Create appends a tracking record to a communication.
func (s *TrackingService) Create(ctx context.Context, actor domain.Actor, communicationID int64, in TrackingCreateInput) (*domain.TrackingRecord, error) {
	if _, err := s.communications.GetByID(ctx, communicationID); err != nil {
		return nil, lookupErr(err, "communication", communicationID)
	}
	if err := access.AuthorizeCreateTracking(actor); err != nil {
		return nil, err
	}

	level := domain.PriorityMedium
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, invalidPriority(*in.Priority)
		}
		level = *in.Priority
	}
	if in.AssignedAdminID != nil {
		if err := validateAssignee(ctx, s.admins, *in.AssignedAdminID); err != nil {
			return nil, err
		}
	}
	statusName, err := s.resolveStatus(ctx, in.StatusID)
	if err != nil {
		return nil, err
	}

	rec := &domain.TrackingRecord{
		CommunicationID: communicationID,
		StatusID:        in.StatusID,
		AssignedAdminID: in.AssignedAdminID,
		Responsible:     textnorm.Clean(in.Responsible),
		Notes:           textnorm.Clean(in.Notes),
		Priority:        level,
	}
	if in.ResolvedOn != nil {
		d := dateOf(*in.ResolvedOn)
		rec.ResolvedOn = &d
	}
	s.applyResolutionRule(rec, statusName)

	if err := s.tracking.Create(ctx, rec); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.New(events.EventTrackingCreated, communicationID, actorRef(actor), s.clock.now(),
		events.TrackingCreatedPayload{
			TrackingID:      rec.ID,
			StatusID:        rec.StatusID,
			AssignedAdminID: rec.AssignedAdminID,
			Priority:        rec.Priority,
		}))
	return rec, nil
}

// Update applies patch within the fields AccessPolicy grants actor. Fields outside
// the grant are dropped, not rejected.
func (s *TrackingService) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.TrackingPatch) (*domain.TrackingRecord, error) {
	rec, err := s.tracking.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "tracking record", id)
	}
	fields, err := access.AuthorizeUpdate(actor, rec)
	if err != nil {
		return nil, err
	}
	patch = fields.Apply(patch)
	if len(patch.Supplied()) == 0 {
		return rec, nil
	}

	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, invalidPriority(*patch.Priority)
	}
	if patch.AssignedAdminID != nil && !patch.ClearAssignee {
		if err := validateAssignee(ctx, s.admins, *patch.AssignedAdminID); err != nil {
			return nil, err
		}
	}

	if patch.ResolvedOn != nil {
		d := dateOf(*patch.ResolvedOn)
		patch.ResolvedOn = &d
	}
	if patch.Notes != nil {
		notes := textnorm.Clean(*patch.Notes)
		patch.Notes = &notes
	}
	if patch.Responsible != nil {
		responsible := textnorm.Clean(*patch.Responsible)
		patch.Responsible = &responsible
	}

	before := *rec
	patch.ApplyTo(rec)

	statusName, err := s.resolveStatus(ctx, rec.StatusID)
	if err != nil {
		return nil, err
	}
	s.applyResolutionRule(rec, statusName)

	if err := s.tracking.Update(ctx, rec); err != nil {
		return nil, lookupErr(err, "tracking record", id)
	}

	publishEvent(ctx, s.dispatcher, events.New(events.EventTrackingUpdated, rec.CommunicationID, actorRef(actor), s.clock.now(),
		events.TrackingUpdatedPayload{
			TrackingID:         rec.ID,
			Fields:             patch.Supplied(),
			OldStatusID:        before.StatusID,
			NewStatusID:        rec.StatusID,
			OldAssignedAdminID: before.AssignedAdminID,
			NewAssignedAdminID: rec.AssignedAdminID,
		}))
	return rec, nil
}

// Delete removes a tracking record.
func (s *TrackingService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.tracking.GetByID(ctx, id); err != nil {
		return lookupErr(err, "tracking record", id)
	}
	if err := access.AuthorizeDelete(actor); err != nil {
		return err
	}
	if err := s.tracking.Delete(ctx, id); err != nil {
		return lookupErr(err, "tracking record", id)
	}
	return nil
}

// resolveStatus returns the configured name for statusID. An unknown id is a
// validation error; a failed lookup yields "" so the resolution rule is skipped.
func (s *TrackingService) resolveStatus(ctx context.Context, statusID int64) (string, error) {
	if s.catalog == nil {
		return "", nil
	}
	name, err := s.catalog.StatusName(ctx, statusID)
	if err == nil {
		return name, nil
	}
	if apperrors.IsCode(err, "NOT_FOUND") {
		return "", apperrors.NewValidationError("id_estado does not exist", map[string]any{"field": "id_estado", "value": statusID})
	}
	s.logger.Warn("status lookup failed; resolution date left untouched",
		zap.Int64("status_id", statusID),
		zap.Error(err))
	return "", nil
}

// applyResolutionRule stamps today's date on records entering a terminal status.
// An existing date is never overwritten.
func (s *TrackingService) applyResolutionRule(rec *domain.TrackingRecord, statusName string) {
	if rec.ResolvedOn != nil || statusName == "" {
		return
	}
	if domain.IsTerminalStatusName(statusName) {
		today := dateOf(s.clock.now())
		rec.ResolvedOn = &today
	}
}

func invalidPriority(p domain.PriorityLevel) error {
	return apperrors.NewValidationError("prioridad must be Baja, Media, Alta or Urgente",
		map[string]any{"field": "prioridad", "value": string(p)})
}
