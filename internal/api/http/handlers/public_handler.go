package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/service"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// EvidenceFormField is the multipart field carrying uploaded files.
const EvidenceFormField = "archivos"

// PublicHandler serves unauthenticated submitter endpoints.
type PublicHandler struct {
	intake         *service.IntakeService
	communications *service.CommunicationService
	evidence       *service.EvidenceService
}

// NewPublicHandler constructs handler.
func NewPublicHandler(intake *service.IntakeService, communications *service.CommunicationService, evidence *service.EvidenceService) *PublicHandler {
	return &PublicHandler{intake: intake, communications: communications, evidence: evidence}
}

// Submit POST /api/public/comunicaciones.
func (h *PublicHandler) Submit(c *fiber.Ctx) error {
	var req dto.CreateCommunicationRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	comm, err := h.intake.Submit(c.UserContext(), service.IntakeInput{
		Kind:              req.Kind,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		AreaInvolved:      req.AreaInvolved,
		Channel:           req.Channel,
		IsPublic:          req.IsPublic,
		Anonymous:         req.Anonymous,
		Email:             req.Email,
		Name:              req.Name,
		Phone:             req.Phone,
		Affiliation:       req.Affiliation,
		Gender:            req.Gender,
		AgeRange:          req.AgeRange,
		Confidential:      req.Confidential,
		ContactAuthorized: req.ContactAuthorized,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.IntakeResponse{
		ID:         comm.ID,
		Folio:      comm.Folio,
		Kind:       comm.Kind,
		ReceivedAt: comm.ReceivedAt,
	}})
}

// UploadEvidence POST /api/public/comunicaciones/:id/evidencias.
func (h *PublicHandler) UploadEvidence(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form expected", map[string]any{"field": EvidenceFormField})
	}
	headers := form.File[EvidenceFormField]
	uploads := make([]service.EvidenceUpload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, fileUpload(fh))
	}

	stored, err := h.evidence.Attach(c.UserContext(), id, uploads)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": evidenceList(stored)})
}

// TrackByFolio GET /api/public/seguimiento?folio=.
func (h *PublicHandler) TrackByFolio(c *fiber.Ctx) error {
	folio := c.Query("folio")
	if folio == "" {
		return apperrors.NewValidationError("folio is required", map[string]any{"field": "folio"})
	}
	status, err := h.communications.TrackByFolio(c.UserContext(), folio)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": publicStatusResponse(status)})
}

// Recognitions GET /api/public/reconocimientos.
func (h *PublicHandler) Recognitions(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	items, err := h.communications.ListPublicRecognitions(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	out := make([]dto.RecognitionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.RecognitionResponse{
			Description:  item.Description,
			AreaInvolved: item.AreaInvolved,
			ReceivedAt:   item.ReceivedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

func fileUpload(fh *multipart.FileHeader) service.EvidenceUpload {
	return service.EvidenceUpload{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
