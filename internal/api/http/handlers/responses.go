package handlers

import (
	"time"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/service"
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

func communicationResponse(c *domain.Communication) dto.CommunicationResponse {
	return dto.CommunicationResponse{
		ID:           c.ID,
		Folio:        c.Folio,
		Kind:         c.Kind,
		SubmitterID:  c.SubmitterID,
		CategoryID:   c.CategoryID,
		Description:  c.Description,
		AreaInvolved: c.AreaInvolved,
		ReceivedAt:   c.ReceivedAt,
		Channel:      c.Channel,
		IsPublic:     c.IsPublic,
	}
}

func communicationList(page *service.CommunicationPage) dto.CommunicationListResponse {
	items := make([]dto.CommunicationSummaryResponse, 0, len(page.Items))
	for i := range page.Items {
		row := &page.Items[i]
		items = append(items, dto.CommunicationSummaryResponse{
			CommunicationResponse: communicationResponse(&row.Communication),
			CategoryName:          row.CategoryName,
			StatusName:            row.StatusName,
			Priority:              row.Priority,
			AssignedAdminID:       row.AssignedAdminID,
			TrackingUpdated:       row.TrackingUpdated,
		})
	}
	return dto.CommunicationListResponse{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}

func communicationDetail(d *service.CommunicationDetail) dto.CommunicationDetailResponse {
	resp := dto.CommunicationDetailResponse{
		CommunicationResponse: communicationResponse(d.Communication),
		CategoryName:          d.CategoryName,
		SubmitterMasked:       d.SubmitterMasked,
		Tracking:              trackingList(d.Tracking),
		Evidence:              evidenceList(d.Evidence),
	}
	if d.Submitter != nil {
		s := submitterResponse(d.Submitter)
		resp.Submitter = &s
	}
	return resp
}

func publicStatusResponse(p *domain.PublicStatus) dto.PublicStatusResponse {
	return dto.PublicStatusResponse{
		Folio:      p.Folio,
		Kind:       p.Kind,
		ReceivedAt: p.ReceivedAt,
		StatusName: p.StatusName,
		Priority:   p.Priority,
		UpdatedAt:  p.UpdatedAt,
		ResolvedOn: formatDate(p.ResolvedOn),
	}
}

func trackingResponse(rec *domain.TrackingRecord) dto.TrackingResponse {
	return dto.TrackingResponse{
		ID:              rec.ID,
		CommunicationID: rec.CommunicationID,
		StatusID:        rec.StatusID,
		AssignedAdminID: rec.AssignedAdminID,
		Responsible:     rec.Responsible,
		UpdatedAt:       rec.UpdatedAt,
		ResolvedOn:      formatDate(rec.ResolvedOn),
		Notes:           rec.Notes,
		Priority:        rec.Priority,
	}
}

func trackingList(records []domain.TrackingRecord) []dto.TrackingResponse {
	out := make([]dto.TrackingResponse, 0, len(records))
	for i := range records {
		out = append(out, trackingResponse(&records[i]))
	}
	return out
}

func evidenceList(items []domain.Evidence) []dto.EvidenceResponse {
	out := make([]dto.EvidenceResponse, 0, len(items))
	for _, ev := range items {
		out = append(out, dto.EvidenceResponse{
			ID:           ev.ID,
			OriginalName: ev.OriginalName,
			MIMEType:     ev.MIMEType,
			SizeBytes:    ev.SizeBytes,
			UploadedAt:   ev.UploadedAt,
		})
	}
	return out
}

func submitterResponse(s *domain.Submitter) dto.SubmitterResponse {
	return dto.SubmitterResponse{
		ID:                s.ID,
		Name:              s.Name,
		Email:             s.Email,
		Phone:             s.Phone,
		Affiliation:       s.Affiliation,
		Gender:            s.Gender,
		AgeRange:          s.AgeRange,
		Confidential:      s.Confidential,
		ContactAuthorized: s.ContactAuthorized,
		RegisteredAt:      s.RegisteredAt,
	}
}

func adminResponse(a *domain.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func adminList(admins []domain.Admin) []dto.AdminResponse {
	out := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, adminResponse(&admins[i]))
	}
	return out
}
