package service

import (
	"context"

	"github.com/fmht/buzon-service/internal/access"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/repository"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// SubmitterService exposes citizen records to admin and monitor accounts.
type SubmitterService struct {
	submitters repository.SubmitterRepository
}

// NewSubmitterService constructs the service.
func NewSubmitterService(submitters repository.SubmitterRepository) *SubmitterService {
	return &SubmitterService{submitters: submitters}
}

// List returns submitters, masking confidential contact data for non-admins.
func (s *SubmitterService) List(ctx context.Context, actor domain.Actor, search *string, limit, offset int) ([]domain.Submitter, error) {
	if err := access.AuthorizeSubmitterRead(actor); err != nil {
		return nil, err
	}
	items, err := s.submitters.List(ctx, search, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range items {
		items[i] = maskFor(actor, items[i])
	}
	return items, nil
}

// Get returns one submitter.
func (s *SubmitterService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Submitter, error) {
	submitter, err := s.submitters.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "submitter", id)
	}
	if err := access.AuthorizeSubmitterRead(actor); err != nil {
		return nil, err
	}
	out := maskFor(actor, *submitter)
	return &out, nil
}

func maskFor(actor domain.Actor, s domain.Submitter) domain.Submitter {
	if s.Confidential && !access.CanSeeConfidential(actor) {
		return s.Masked()
	}
	return s
}
