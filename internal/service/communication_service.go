package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/access"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/repository"
	"github.com/fmht/buzon-service/internal/storage"
	"github.com/fmht/buzon-service/internal/textnorm"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// CommunicationService serves back-office listing, detail and edits, plus the public folio lookup.
type CommunicationService struct {
	communications repository.CommunicationRepository
	submitters     repository.SubmitterRepository
	tracking       repository.TrackingRepository
	evidence       repository.EvidenceRepository
	catalog        CatalogLookup
	store          storage.Store
	logger         *zap.Logger
}

// CommunicationDependencies bundles collaborators.
type CommunicationDependencies struct {
	CommunicationRepo repository.CommunicationRepository
	SubmitterRepo     repository.SubmitterRepository
	TrackingRepo      repository.TrackingRepository
	EvidenceRepo      repository.EvidenceRepository
	Catalog           CatalogLookup
	Store             storage.Store
	Logger            *zap.Logger
}

// CommunicationListFilter describes back-office listing filters.
type CommunicationListFilter struct {
	Kind       *domain.CommunicationKind
	StatusID   *int64
	Priority   *domain.PriorityLevel
	CategoryID *int64
	Channel    *domain.Channel
	SearchTerm *string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// CommunicationPage is one page of a listing.
type CommunicationPage struct {
	Items  []domain.CommunicationSummary
	Total  int
	Limit  int
	Offset int
}

// CommunicationDetail is the full back-office view of one communication.
type CommunicationDetail struct {
	Communication   *domain.Communication
	CategoryName    *string
	Submitter       *domain.Submitter
	SubmitterMasked bool
	Tracking        []domain.TrackingRecord
	Evidence        []domain.Evidence
}

// CommunicationPatch is an administrative edit. Nil fields are left untouched.
type CommunicationPatch struct {
	Kind          *string
	CategoryID    *int64
	ClearCategory bool
	Description   *string
	AreaInvolved  *string
	IsPublic      *bool
}

// NewCommunicationService constructs the service.
func NewCommunicationService(deps CommunicationDependencies) *CommunicationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunicationService{
		communications: deps.CommunicationRepo,
		submitters:     deps.SubmitterRepo,
		tracking:       deps.TrackingRepo,
		evidence:       deps.EvidenceRepo,
		catalog:        deps.Catalog,
		store:          deps.Store,
		logger:         logger,
	}
}

// List returns the communications actor may see.
func (s *CommunicationService) List(ctx context.Context, actor domain.Actor, filter CommunicationListFilter) (*CommunicationPage, error) {
	scope, err := access.AuthorizeList(actor)
	if err != nil {
		return nil, err
	}
	repoFilter := repository.CommunicationFilter{
		Kind:       filter.Kind,
		StatusID:   filter.StatusID,
		Priority:   filter.Priority,
		CategoryID: filter.CategoryID,
		Channel:    filter.Channel,
		SearchTerm: filter.SearchTerm,
		From:       filter.From,
		To:         filter.To,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if !scope.All {
		repoFilter.AssignedTo = scope.AssignedTo
	}

	items, total, err := s.communications.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &CommunicationPage{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Get returns the detail view. Confidential submitters are masked for non-admin roles.
func (s *CommunicationService) Get(ctx context.Context, actor domain.Actor, id int64) (*CommunicationDetail, error) {
	comm, err := s.communications.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "communication", id)
	}
	if err := access.AuthorizeRead(actor); err != nil {
		return nil, err
	}

	detail := &CommunicationDetail{Communication: comm}

	if comm.CategoryID != nil && s.catalog != nil {
		if name, err := s.catalog.CategoryName(ctx, *comm.CategoryID); err == nil {
			detail.CategoryName = &name
		}
	}

	if comm.SubmitterID != nil {
		submitter, err := s.submitters.GetByID(ctx, *comm.SubmitterID)
		if err != nil && !apperrors.IsNoRows(err) {
			return nil, apperrors.MapError(err)
		}
		if submitter != nil {
			if submitter.Confidential && !access.CanSeeConfidential(actor) {
				masked := submitter.Masked()
				submitter = &masked
				detail.SubmitterMasked = true
			}
			detail.Submitter = submitter
		}
	}

	detail.Tracking, err = s.tracking.ListByCommunication(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	detail.Evidence, err = s.evidence.ListByCommunication(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return detail, nil
}

// Update applies an administrative edit. Priority is not recomputed.
func (s *CommunicationService) Update(ctx context.Context, actor domain.Actor, id int64, patch CommunicationPatch) (*domain.Communication, error) {
	comm, err := s.communications.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "communication", id)
	}
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}

	if patch.Kind != nil {
		kind, ok := domain.ParseCommunicationKind(*patch.Kind)
		if !ok {
			return nil, apperrors.NewValidationError("tipo must be Queja, Sugerencia or Reconocimiento",
				map[string]any{"field": "tipo", "value": *patch.Kind})
		}
		comm.Kind = kind
	}
	if patch.ClearCategory {
		comm.CategoryID = nil
	} else if patch.CategoryID != nil {
		categoryID := *patch.CategoryID
		comm.CategoryID = &categoryID
	}
	if patch.Description != nil {
		description := textnorm.Clean(*patch.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("descripcion is required", map[string]any{"field": "descripcion"})
		}
		comm.Description = description
	}
	if patch.AreaInvolved != nil {
		comm.AreaInvolved = textnorm.CleanPtr(patch.AreaInvolved)
	}
	if patch.IsPublic != nil {
		comm.IsPublic = *patch.IsPublic
	}
	comm.NormalizeVisibility()

	if err := s.communications.Update(ctx, comm); err != nil {
		return nil, lookupErr(err, "communication", id)
	}
	return comm, nil
}

// Delete removes a communication with its tracking and evidence rows. Stored files are removed best-effort.
func (s *CommunicationService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.communications.GetByID(ctx, id); err != nil {
		return lookupErr(err, "communication", id)
	}
	if err := access.AuthorizeDelete(actor); err != nil {
		return err
	}

	files, err := s.evidence.ListByCommunication(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.communications.Delete(ctx, id); err != nil {
		return lookupErr(err, "communication", id)
	}

	if s.store != nil {
		for _, ev := range files {
			if err := s.store.Delete(ctx, ev.StorageKey); err != nil {
				s.logger.Warn("evidence file not removed",
					zap.Int64("communication_id", id),
					zap.String("key", ev.StorageKey),
					zap.Error(err))
			}
		}
	}
	s.logger.Info("communication deleted", zap.Int64("communication_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

// TrackByFolio returns the public status of a communication.
func (s *CommunicationService) TrackByFolio(ctx context.Context, folio string) (*domain.PublicStatus, error) {
	parsed, err := domain.ParseFolio(strings.ToUpper(strings.TrimSpace(folio)))
	if err != nil {
		return nil, apperrors.NewValidationError("folio has an invalid format", map[string]any{"field": "folio"})
	}
	status, err := s.communications.GetPublicStatus(ctx, parsed.String())
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("communication", map[string]any{"folio": parsed.String()})
		}
		return nil, apperrors.MapError(err)
	}
	return status, nil
}

// ListPublicRecognitions returns recognitions flagged public.
func (s *CommunicationService) ListPublicRecognitions(ctx context.Context, limit, offset int) ([]domain.Communication, error) {
	items, err := s.communications.ListPublicRecognitions(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}
