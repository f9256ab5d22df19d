package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/access"
	"github.com/fmht/buzon-service/internal/config"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/events"
	"github.com/fmht/buzon-service/internal/repository"
	"github.com/fmht/buzon-service/internal/storage"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// MaxEvidenceFiles caps the files accepted in one upload.
const MaxEvidenceFiles = 5

var errTooLarge = errors.New("file exceeds size limit")

// EvidenceService stores files attached to communications.
type EvidenceService struct {
	communications repository.CommunicationRepository
	evidence       repository.EvidenceRepository
	store          storage.Store
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	clock          Clock
	maxBytes       int64
	allowed        map[string]struct{}
}

// EvidenceDependencies bundles collaborators.
type EvidenceDependencies struct {
	CommunicationRepo repository.CommunicationRepository
	EvidenceRepo      repository.EvidenceRepository
	Store             storage.Store
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	Clock             Clock
}

// EvidenceUpload is one incoming file.
type EvidenceUpload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// NewEvidenceService constructs the service.
func NewEvidenceService(cfg config.StorageConfig, deps EvidenceDependencies) *EvidenceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMETypes))
	for _, t := range cfg.AllowedMIMETypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	maxBytes := cfg.MaxEvidenceBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &EvidenceService{
		communications: deps.CommunicationRepo,
		evidence:       deps.EvidenceRepo,
		store:          deps.Store,
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		clock:          deps.Clock,
		maxBytes:       maxBytes,
		allowed:        allowed,
	}
}

// Attach stores uploads against an existing communication. Files are processed in
// order; the first rejected file aborts the rest, keeping those already stored.
func (s *EvidenceService) Attach(ctx context.Context, communicationID int64, uploads []EvidenceUpload) ([]domain.Evidence, error) {
	if _, err := s.communications.GetByID(ctx, communicationID); err != nil {
		return nil, lookupErr(err, "communication", communicationID)
	}
	if len(uploads) == 0 {
		return nil, apperrors.NewValidationError("at least one file is required", map[string]any{"field": "archivos"})
	}
	if len(uploads) > MaxEvidenceFiles {
		return nil, apperrors.NewValidationError("too many files", map[string]any{"field": "archivos", "max": MaxEvidenceFiles})
	}

	stored := make([]domain.Evidence, 0, len(uploads))
	for _, up := range uploads {
		ev, err := s.attachOne(ctx, communicationID, up)
		if err != nil {
			s.publishAttached(ctx, communicationID, stored)
			return stored, err
		}
		stored = append(stored, *ev)
	}
	s.publishAttached(ctx, communicationID, stored)
	return stored, nil
}

func (s *EvidenceService) attachOne(ctx context.Context, communicationID int64, up EvidenceUpload) (*domain.Evidence, error) {
	details := map[string]any{"file": up.Filename}

	f, err := up.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("file could not be read", details)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewValidationError("file could not be read", details)
	}
	head = head[:n]
	if n == 0 {
		return nil, apperrors.NewValidationError("file is empty", details)
	}

	mimeType := detectMIME(head)
	if _, ok := s.allowed[mimeType]; !ok {
		details["tipo_mime"] = mimeType
		return nil, apperrors.NewValidationError("file type not allowed", details)
	}

	key := storage.EvidenceKey(up.Filename, s.clock.now())
	body := io.MultiReader(bytes.NewReader(head), f)
	size, err := s.store.Put(ctx, key, &limitedReader{r: body, remaining: s.maxBytes})
	if err != nil {
		if errors.Is(err, errTooLarge) {
			details["max_bytes"] = s.maxBytes
			return nil, apperrors.NewValidationError("file exceeds size limit", details)
		}
		return nil, apperrors.NewInternalError(err)
	}

	ev := &domain.Evidence{
		CommunicationID: communicationID,
		StorageKey:      key,
		OriginalName:    storage.SanitizeFilename(up.Filename),
		MIMEType:        mimeType,
		SizeBytes:       size,
	}
	if err := s.evidence.Create(ctx, ev); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned evidence file", zap.String("key", key), zap.Error(delErr))
		}
		return nil, apperrors.MapError(err)
	}
	return ev, nil
}

// List returns evidence metadata for a communication.
func (s *EvidenceService) List(ctx context.Context, actor domain.Actor, communicationID int64) ([]domain.Evidence, error) {
	if _, err := s.communications.GetByID(ctx, communicationID); err != nil {
		return nil, lookupErr(err, "communication", communicationID)
	}
	if err := access.AuthorizeRead(actor); err != nil {
		return nil, err
	}
	items, err := s.evidence.ListByCommunication(ctx, communicationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Open returns the metadata and content of one evidence file. The caller closes the reader.
func (s *EvidenceService) Open(ctx context.Context, actor domain.Actor, id int64) (*domain.Evidence, io.ReadCloser, error) {
	ev, err := s.evidence.GetByID(ctx, id)
	if err != nil {
		return nil, nil, lookupErr(err, "evidence", id)
	}
	if err := access.AuthorizeRead(actor); err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, ev.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperrors.NewNotFound("evidence file", map[string]any{"id": id})
		}
		return nil, nil, apperrors.NewInternalError(err)
	}
	return ev, rc, nil
}

func (s *EvidenceService) publishAttached(ctx context.Context, communicationID int64, stored []domain.Evidence) {
	if len(stored) == 0 {
		return
	}
	ids := make([]int64, 0, len(stored))
	for _, ev := range stored {
		ids = append(ids, ev.ID)
	}
	publishEvent(ctx, s.dispatcher, events.New(events.EventEvidenceAttached, communicationID, nil, s.clock.now(),
		events.EvidenceAttachedPayload{EvidenceIDs: ids, Count: len(ids)}))
}

// detectMIME sniffs content and strips parameters such as charset.
func detectMIME(head []byte) string {
	detected := http.DetectContentType(head)
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return strings.ToLower(detected)
	}
	return strings.ToLower(mediaType)
}

// limitedReader fails once more than remaining bytes are read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		if n, _ := l.r.Read(probe[:]); n > 0 {
			return 0, errTooLarge
		}
		return 0, io.EOF
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
