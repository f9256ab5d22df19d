package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/events"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

type trackingFixture struct {
	svc            *TrackingService
	assignments    *AssignmentService
	communications *fakeCommunications
	tracking       *fakeTracking
	statuses       *fakeStatuses
	dispatcher     *recordingDispatcher
	commID         int64
}

func newTrackingFixture(t *testing.T) *trackingFixture {
	t.Helper()
	f := &trackingFixture{
		communications: newFakeCommunications(),
		tracking:       newFakeTracking(),
		statuses:       defaultStatuses(),
		dispatcher:     &recordingDispatcher{},
	}
	admins := defaultAdmins()
	catalog := NewCatalogService(CatalogDependencies{StatusRepo: f.statuses, CategoryRepo: defaultCategories()})
	f.svc = NewTrackingService(TrackingDependencies{
		CommunicationRepo: f.communications,
		TrackingRepo:      f.tracking,
		AdminRepo:         admins,
		Catalog:           catalog,
		Dispatcher:        f.dispatcher,
		Clock:             fixedClock,
	})
	f.assignments = NewAssignmentService(AssignmentDependencies{TrackingService: f.svc, AdminRepo: admins})

	comm := &domain.Communication{Kind: domain.KindComplaint, Description: "algo", Channel: domain.ChannelDigital}
	require.NoError(t, f.communications.Create(context.Background(), comm))
	f.commID = comm.ID
	return f
}

func (f *trackingFixture) seed(t *testing.T, rec domain.TrackingRecord) *domain.TrackingRecord {
	t.Helper()
	rec.CommunicationID = f.commID
	if rec.Priority == "" {
		rec.Priority = domain.PriorityMedium
	}
	require.NoError(t, f.tracking.Create(context.Background(), &rec))
	return &rec
}

var today = time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestTrackingCreate_ResolutionDateOnTerminalStatus(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := context.Background()

	closed, err := f.svc.Create(ctx, adminActor, f.commID, TrackingCreateInput{StatusID: 4})
	require.NoError(t, err)
	require.NotNil(t, closed.ResolvedOn)
	assert.Equal(t, today, *closed.ResolvedOn)
	assert.Equal(t, domain.PriorityMedium, closed.Priority)

	open, err := f.svc.Create(ctx, adminActor, f.commID, TrackingCreateInput{StatusID: 2})
	require.NoError(t, err)
	assert.Nil(t, open.ResolvedOn)

	supplied := time.Date(2025, time.January, 2, 15, 0, 0, 0, time.UTC)
	attended, err := f.svc.Create(ctx, adminActor, f.commID, TrackingCreateInput{StatusID: 3, ResolvedOn: &supplied})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), *attended.ResolvedOn)

	assert.Equal(t, []events.EventType{events.EventTrackingCreated, events.EventTrackingCreated, events.EventTrackingCreated}, f.dispatcher.types())
}

func TestTrackingCreate_Guards(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, adminActor, 999, TrackingCreateInput{StatusID: 1})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	for _, actor := range []domain.Actor{monitorActor, moderatorActor} {
		_, err = f.svc.Create(ctx, actor, f.commID, TrackingCreateInput{StatusID: 1})
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), actor.Role)
	}

	_, err = f.svc.Create(ctx, adminActor, f.commID, TrackingCreateInput{StatusID: 77})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.svc.Create(ctx, adminActor, f.commID, TrackingCreateInput{StatusID: 1, AssignedAdminID: ptr(int64(4))})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "inactive assignee")

	_, err = f.svc.Create(ctx, adminActor, f.commID, TrackingCreateInput{StatusID: 1, Priority: ptr(domain.PriorityLevel("Altisima"))})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	assert.Empty(t, f.tracking.rows)
}

func TestTrackingCreate_StatusLookupFailureLeavesDateUntouched(t *testing.T) {
	f := newTrackingFixture(t)
	f.statuses.listErr = errors.New("catalog unavailable")

	rec, err := f.svc.Create(context.Background(), adminActor, f.commID, TrackingCreateInput{StatusID: 4})
	require.NoError(t, err)
	assert.Nil(t, rec.ResolvedOn)
}

func TestTrackingUpdate_ResolutionDateNeverOverwritten(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := context.Background()
	earlier := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	rec := f.seed(t, domain.TrackingRecord{StatusID: 3, ResolvedOn: &earlier})

	updated, err := f.svc.Update(ctx, adminActor, rec.ID, domain.TrackingPatch{StatusID: ptr(int64(4))})
	require.NoError(t, err)
	assert.Equal(t, earlier, *updated.ResolvedOn)

	open := f.seed(t, domain.TrackingRecord{StatusID: 2})
	updated, err = f.svc.Update(ctx, adminActor, open.ID, domain.TrackingPatch{StatusID: ptr(int64(3))})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedOn)
	assert.Equal(t, today, *updated.ResolvedOn)
}

func TestTrackingUpdate_ModeratorWhitelist(t *testing.T) {
	f := newTrackingFixture(t)
	rec := f.seed(t, domain.TrackingRecord{StatusID: 1, AssignedAdminID: ptr(moderatorActor.ID), Notes: "inicial"})

	updated, err := f.svc.Update(context.Background(), moderatorActor, rec.ID, domain.TrackingPatch{
		StatusID:        ptr(int64(2)),
		Notes:           ptr("revisado en sitio"),
		AssignedAdminID: ptr(int64(1)),
		Priority:        ptr(domain.PriorityUrgent),
	})
	require.NoError(t, err)

	stored := f.tracking.rows[rec.ID]
	assert.Equal(t, int64(2), stored.StatusID)
	assert.Equal(t, "revisado en sitio", stored.Notes)
	require.NotNil(t, stored.AssignedAdminID)
	assert.Equal(t, moderatorActor.ID, *stored.AssignedAdminID)
	assert.Equal(t, domain.PriorityMedium, stored.Priority)
	assert.Equal(t, stored.StatusID, updated.StatusID)

	payload := f.dispatcher.events[0].Payload.(events.TrackingUpdatedPayload)
	assert.ElementsMatch(t, []domain.TrackingField{domain.FieldStatus, domain.FieldNotes}, payload.Fields)
}

func TestTrackingUpdate_ModeratorOnlyDroppedFieldsIsNoop(t *testing.T) {
	f := newTrackingFixture(t)
	rec := f.seed(t, domain.TrackingRecord{StatusID: 1, AssignedAdminID: ptr(moderatorActor.ID)})

	_, err := f.svc.Update(context.Background(), moderatorActor, rec.ID, domain.TrackingPatch{Priority: ptr(domain.PriorityUrgent)})
	require.NoError(t, err)
	assert.Zero(t, f.tracking.updates)
	assert.Empty(t, f.dispatcher.events)
}

func TestTrackingUpdate_NotFoundBeforeForbidden(t *testing.T) {
	f := newTrackingFixture(t)
	other := f.seed(t, domain.TrackingRecord{StatusID: 1, AssignedAdminID: ptr(int64(1))})
	ctx := context.Background()

	_, err := f.svc.Update(ctx, moderatorActor, other.ID, domain.TrackingPatch{Notes: ptr("x")})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.svc.Update(ctx, moderatorActor, 12345, domain.TrackingPatch{Notes: ptr("x")})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = f.svc.Update(ctx, monitorActor, other.ID, domain.TrackingPatch{Notes: ptr("x")})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	unassigned := f.seed(t, domain.TrackingRecord{StatusID: 1})
	_, err = f.svc.Update(ctx, moderatorActor, unassigned.ID, domain.TrackingPatch{Notes: ptr("x")})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	assert.Zero(t, f.tracking.updates)
}

func TestTrackingUpdate_AdminReassignsAndClears(t *testing.T) {
	f := newTrackingFixture(t)
	rec := f.seed(t, domain.TrackingRecord{StatusID: 1})
	ctx := context.Background()

	updated, err := f.assignments.Assign(ctx, adminActor, rec.ID, ptr(moderatorActor.ID))
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedAdminID)
	assert.Equal(t, moderatorActor.ID, *updated.AssignedAdminID)

	updated, err = f.assignments.Assign(ctx, adminActor, rec.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedAdminID)

	_, err = f.assignments.Assign(ctx, adminActor, rec.ID, ptr(int64(99)))
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	assigned := f.seed(t, domain.TrackingRecord{StatusID: 1, AssignedAdminID: ptr(moderatorActor.ID)})
	_, err = f.assignments.Assign(ctx, moderatorActor, assigned.ID, ptr(int64(1)))
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestTrackingDelete(t *testing.T) {
	f := newTrackingFixture(t)
	rec := f.seed(t, domain.TrackingRecord{StatusID: 1, AssignedAdminID: ptr(moderatorActor.ID)})
	ctx := context.Background()

	assert.True(t, apperrors.IsCode(f.svc.Delete(ctx, moderatorActor, rec.ID), "FORBIDDEN"))
	assert.True(t, apperrors.IsCode(f.svc.Delete(ctx, adminActor, 555), "NOT_FOUND"))
	require.NoError(t, f.svc.Delete(ctx, adminActor, rec.ID))
	assert.Empty(t, f.tracking.rows)
}

func TestTrackingList(t *testing.T) {
	f := newTrackingFixture(t)
	f.seed(t, domain.TrackingRecord{StatusID: 1})
	f.seed(t, domain.TrackingRecord{StatusID: 2})

	records, err := f.svc.ListByCommunication(context.Background(), moderatorActor, f.commID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].StatusID)

	_, err = f.svc.ListByCommunication(context.Background(), adminActor, 404)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
