package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/access"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/repository"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// AssignmentService handles committee member assignment of tracking records.
type AssignmentService struct {
	tracking *TrackingService
	admins   repository.AdminRepository
	logger   *zap.Logger
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TrackingService *TrackingService
	AdminRepo       repository.AdminRepository
	Logger          *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{tracking: deps.TrackingService, admins: deps.AdminRepo, logger: logger}
}

// Assign sets or clears (assigneeID nil) the member responsible for a tracking record.
func (s *AssignmentService) Assign(ctx context.Context, actor domain.Actor, trackingID int64, assigneeID *int64) (*domain.TrackingRecord, error) {
	rec, err := s.tracking.tracking.GetByID(ctx, trackingID)
	if err != nil {
		return nil, lookupErr(err, "tracking record", trackingID)
	}
	fields, err := access.AuthorizeUpdate(actor, rec)
	if err != nil {
		return nil, err
	}
	if !fields.Allows(domain.FieldAssignee) {
		return nil, apperrors.NewForbidden("only admin may reassign tracking records")
	}

	patch := domain.TrackingPatch{AssignedAdminID: assigneeID, ClearAssignee: assigneeID == nil}
	updated, err := s.tracking.Update(ctx, actor, trackingID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tracking record assigned",
		zap.Int64("tracking_id", trackingID),
		zap.Int64("actor_id", actor.ID),
		zap.Bool("cleared", assigneeID == nil))
	return updated, nil
}

// Assignable lists the active accounts a tracking record may be assigned to.
func (s *AssignmentService) Assignable(ctx context.Context, actor domain.Actor) ([]domain.Admin, error) {
	if err := access.AuthorizeCreateTracking(actor); err != nil {
		return nil, err
	}
	active := true
	admins, err := s.admins.List(ctx, repository.AdminFilter{Active: &active, Limit: 200})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return admins, nil
}

// validateAssignee requires id to reference an active account.
func validateAssignee(ctx context.Context, admins repository.AdminRepository, id int64) error {
	details := map[string]any{"field": "id_admin_asignado", "value": id}
	if admins == nil {
		return nil
	}
	admin, err := admins.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewValidationError("assigned account does not exist", details)
		}
		return apperrors.MapError(err)
	}
	if !admin.Active {
		return apperrors.NewValidationError("assigned account is inactive", details)
	}
	return nil
}
