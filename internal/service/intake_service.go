package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/events"
	"github.com/fmht/buzon-service/internal/priority"
	"github.com/fmht/buzon-service/internal/repository"
	"github.com/fmht/buzon-service/internal/textnorm"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// IntakeService turns public submissions into communications with an initial tracking record.
type IntakeService struct {
	communications repository.CommunicationRepository
	submitters     repository.SubmitterRepository
	tracking       repository.TrackingRepository
	catalog        CatalogLookup
	classifier     *priority.Classifier
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	clock          Clock
}

// IntakeDependencies bundles intake collaborators.
type IntakeDependencies struct {
	CommunicationRepo repository.CommunicationRepository
	SubmitterRepo     repository.SubmitterRepository
	TrackingRepo      repository.TrackingRepository
	Catalog           CatalogLookup
	Classifier        *priority.Classifier
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	Clock             Clock
}

// IntakeInput is a raw public submission.
type IntakeInput struct {
	Kind              string
	Description       string
	CategoryID        *int64
	AreaInvolved      *string
	Channel           string
	IsPublic          bool
	Anonymous         bool
	Email             *string
	Name              *string
	Phone             *string
	Affiliation       *string
	Gender            *string
	AgeRange          *string
	Confidential      bool
	ContactAuthorized bool
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = priority.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		communications: deps.CommunicationRepo,
		submitters:     deps.SubmitterRepo,
		tracking:       deps.TrackingRepo,
		catalog:        deps.Catalog,
		classifier:     classifier,
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		clock:          deps.Clock,
	}
}

// Submit validates and persists a submission. Once the communication row is
// written the call succeeds; submitter linkage and the initial tracking record
// are best-effort and only logged on failure.
func (s *IntakeService) Submit(ctx context.Context, in IntakeInput) (*domain.Communication, error) {
	comm, email, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	if email != "" && !in.Anonymous {
		submitter, err := s.resolveSubmitter(ctx, in, email)
		if err != nil {
			s.logDegraded("submitter", 0, err)
		} else {
			comm.SubmitterID = &submitter.ID
		}
	}

	if err := s.communications.Create(ctx, comm); err != nil {
		return nil, apperrors.MapError(err)
	}

	level := s.openTracking(ctx, comm)

	publishEvent(ctx, s.dispatcher, events.New(events.EventCommunicationCreated, comm.ID, nil, s.clock.now(),
		events.CommunicationCreatedPayload{
			Folio:       comm.Folio,
			Kind:        comm.Kind,
			Priority:    level,
			SubmitterID: comm.SubmitterID,
		}))

	s.logger.Info("communication received",
		zap.Int64("communication_id", comm.ID),
		zap.String("folio", comm.Folio),
		zap.String("kind", string(comm.Kind)),
		zap.Bool("anonymous", comm.Anonymous()))
	return comm, nil
}

func (s *IntakeService) validate(in IntakeInput) (*domain.Communication, string, error) {
	kind, ok := domain.ParseCommunicationKind(in.Kind)
	if !ok {
		return nil, "", apperrors.NewValidationError("tipo must be Queja, Sugerencia or Reconocimiento",
			map[string]any{"field": "tipo", "value": in.Kind})
	}

	description := textnorm.Clean(in.Description)
	if description == "" {
		return nil, "", apperrors.NewValidationError("descripcion is required", map[string]any{"field": "descripcion"})
	}

	channel := domain.ChannelDigital
	if raw := strings.ToUpper(strings.TrimSpace(in.Channel)); raw != "" {
		channel = domain.Channel(raw)
		if !channel.Valid() {
			return nil, "", apperrors.NewValidationError("medio must be F or D", map[string]any{"field": "medio", "value": in.Channel})
		}
	}

	var email string
	if in.Email != nil && !in.Anonymous {
		email = strings.TrimSpace(*in.Email)
	}

	comm := &domain.Communication{
		Kind:         kind,
		CategoryID:   in.CategoryID,
		Description:  description,
		AreaInvolved: textnorm.CleanPtr(in.AreaInvolved),
		Channel:      channel,
		IsPublic:     in.IsPublic,
	}
	comm.NormalizeVisibility()
	return comm, email, nil
}

func (s *IntakeService) resolveSubmitter(ctx context.Context, in IntakeInput, email string) (*domain.Submitter, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("correo is not a valid address: %w", err)
	}
	name := ""
	if cleaned := textnorm.CleanPtr(in.Name); cleaned != nil {
		name = *cleaned
	}
	if name == "" {
		name = domain.DisplayNameFromEmail(email)
	}
	submitter := &domain.Submitter{
		Name:              name,
		Email:             email,
		Phone:             textnorm.CleanPtr(in.Phone),
		Affiliation:       textnorm.CleanPtr(in.Affiliation),
		Gender:            textnorm.CleanPtr(in.Gender),
		AgeRange:          textnorm.CleanPtr(in.AgeRange),
		Confidential:      in.Confidential,
		ContactAuthorized: in.ContactAuthorized,
	}
	if err := s.submitters.FindOrCreateByEmail(ctx, submitter); err != nil {
		return nil, err
	}
	return submitter, nil
}

// openTracking creates the initial tracking record and returns the assigned level,
// or nil when the record could not be created.
func (s *IntakeService) openTracking(ctx context.Context, comm *domain.Communication) *domain.PriorityLevel {
	if s.catalog == nil || s.tracking == nil {
		s.logDegraded("initial_tracking", comm.ID, errors.New("tracking collaborators not configured"))
		return nil
	}

	pending, found, err := s.catalog.PendingStatus(ctx)
	if err != nil {
		s.logDegraded("pending_status", comm.ID, err)
		return nil
	}
	if !found {
		s.logger.Warn("pending status not configured; communication has no tracking record",
			zap.Int64("communication_id", comm.ID),
			zap.String("folio", comm.Folio))
		return nil
	}

	var categoryName string
	if comm.CategoryID != nil {
		name, err := s.catalog.CategoryName(ctx, *comm.CategoryID)
		if err != nil {
			s.logDegraded("category_lookup", comm.ID, err)
		} else {
			categoryName = name
		}
	}

	var area string
	if comm.AreaInvolved != nil {
		area = *comm.AreaInvolved
	}
	assessment := s.classifier.Assess(priority.Input{
		Kind:         comm.Kind,
		Description:  comm.Description,
		Category:     categoryName,
		AreaInvolved: area,
	})

	rec := &domain.TrackingRecord{
		CommunicationID: comm.ID,
		StatusID:        pending.ID,
		Priority:        assessment.Level,
		Notes:           fmt.Sprintf("Prioridad asignada automáticamente: %s. %s", assessment.Level, assessment.Reason),
	}
	if err := s.tracking.Create(ctx, rec); err != nil {
		s.logDegraded("initial_tracking", comm.ID, err)
		return nil
	}
	return &assessment.Level
}

func (s *IntakeService) logDegraded(step string, communicationID int64, err error) {
	fields := []zap.Field{zap.String("step", step), zap.Error(apperrors.NewDegraded(step, err))}
	if communicationID != 0 {
		fields = append(fields, zap.Int64("communication_id", communicationID))
	}
	s.logger.Warn("intake step degraded", fields...)
}
