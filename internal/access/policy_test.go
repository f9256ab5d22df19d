package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmht/buzon-service/internal/domain"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

var (
	admin     = domain.Actor{ID: 1, Role: domain.RoleAdmin}
	monitor   = domain.Actor{ID: 2, Role: domain.RoleMonitor}
	moderator = domain.Actor{ID: 3, Role: domain.RoleModerator}
	bogus     = domain.Actor{ID: 4, Role: "superuser"}
)

func ptr[T any](v T) *T { return &v }

func TestAuthorizeList(t *testing.T) {
	scope, err := AuthorizeList(admin)
	require.NoError(t, err)
	assert.True(t, scope.All)

	scope, err = AuthorizeList(monitor)
	require.NoError(t, err)
	assert.True(t, scope.All)

	scope, err = AuthorizeList(moderator)
	require.NoError(t, err)
	assert.False(t, scope.All)
	require.NotNil(t, scope.AssignedTo)
	assert.Equal(t, int64(3), *scope.AssignedTo)

	_, err = AuthorizeList(bogus)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAuthorizeUpdate_Admin(t *testing.T) {
	fields, err := AuthorizeUpdate(admin, &domain.TrackingRecord{})
	require.NoError(t, err)
	for _, f := range domain.AllTrackingFields {
		assert.True(t, fields.Allows(f), f)
	}
}

func TestAuthorizeUpdate_Monitor(t *testing.T) {
	_, err := AuthorizeUpdate(monitor, &domain.TrackingRecord{AssignedAdminID: ptr(int64(2))})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAuthorizeUpdate_Moderator(t *testing.T) {
	_, err := AuthorizeUpdate(moderator, &domain.TrackingRecord{AssignedAdminID: ptr(int64(99))})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = AuthorizeUpdate(moderator, &domain.TrackingRecord{})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	fields, err := AuthorizeUpdate(moderator, &domain.TrackingRecord{AssignedAdminID: ptr(int64(3))})
	require.NoError(t, err)
	assert.True(t, fields.Allows(domain.FieldStatus))
	assert.True(t, fields.Allows(domain.FieldNotes))
	assert.False(t, fields.Allows(domain.FieldAssignee))
	assert.False(t, fields.Allows(domain.FieldPriority))
}

func TestFieldSet_ApplyDropsUnlistedFields(t *testing.T) {
	fields, err := AuthorizeUpdate(moderator, &domain.TrackingRecord{AssignedAdminID: ptr(int64(3))})
	require.NoError(t, err)

	patch := domain.TrackingPatch{
		StatusID:        ptr(int64(4)),
		Notes:           ptr("atendida en sitio"),
		AssignedAdminID: ptr(int64(7)),
		Priority:        ptr(domain.PriorityUrgent),
	}
	filtered := fields.Apply(patch)

	assert.Equal(t, int64(4), *filtered.StatusID)
	assert.Equal(t, "atendida en sitio", *filtered.Notes)
	assert.Nil(t, filtered.AssignedAdminID)
	assert.Nil(t, filtered.Priority)
	assert.ElementsMatch(t, []domain.TrackingField{domain.FieldStatus, domain.FieldNotes}, filtered.Supplied())
}

func TestAuthorizeCreateTrackingAndDelete(t *testing.T) {
	assert.NoError(t, AuthorizeCreateTracking(admin))
	assert.Error(t, AuthorizeCreateTracking(monitor))
	assert.Error(t, AuthorizeCreateTracking(moderator))

	assert.NoError(t, AuthorizeDelete(admin))
	assert.Error(t, AuthorizeDelete(monitor))
	assert.Error(t, AuthorizeDelete(moderator))
	assert.Error(t, AuthorizeDelete(bogus))
}

func TestAuthorizeRead(t *testing.T) {
	for _, a := range []domain.Actor{admin, monitor, moderator} {
		assert.NoError(t, AuthorizeRead(a))
	}
	assert.Error(t, AuthorizeRead(bogus))
}

func TestAuthorizeAccountDelete_SelfGuard(t *testing.T) {
	for _, a := range []domain.Actor{admin, monitor, moderator} {
		err := AuthorizeAccountDelete(a, a.ID)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), a.Role)
	}
	assert.NoError(t, AuthorizeAccountDelete(admin, 50))
	assert.Error(t, AuthorizeAccountDelete(monitor, 50))
}

func TestCanSeeConfidential(t *testing.T) {
	assert.True(t, CanSeeConfidential(admin))
	assert.False(t, CanSeeConfidential(monitor))
	assert.False(t, CanSeeConfidential(moderator))
}
