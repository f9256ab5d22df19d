package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/events"
	"github.com/fmht/buzon-service/internal/repository"
)

var fixedNow = time.Date(2025, time.March, 14, 16, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

type fakeCommunications struct {
	mu         sync.Mutex
	rows       map[int64]*domain.Communication
	counters   map[string]int
	nextID     int64
	createErr  error
	lastFilter repository.CommunicationFilter
	public     map[string]*domain.PublicStatus
}

func newFakeCommunications() *fakeCommunications {
	return &fakeCommunications{rows: map[int64]*domain.Communication{}, counters: map[string]int{}, public: map[string]*domain.PublicStatus{}}
}

func (f *fakeCommunications) Create(_ context.Context, c *domain.Communication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	c.ID = f.nextID
	c.ReceivedAt = fixedNow
	key := string(c.Channel) + fixedNow.Format("2006")
	f.counters[key]++
	c.Folio = domain.FormatFolio(c.Channel, f.counters[key], fixedNow)
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCommunications) Update(_ context.Context, c *domain.Communication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCommunications) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCommunications) GetByID(_ context.Context, id int64) (*domain.Communication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommunications) GetPublicStatus(_ context.Context, folio string) (*domain.PublicStatus, error) {
	if st, ok := f.public[folio]; ok {
		return st, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCommunications) List(_ context.Context, filter repository.CommunicationFilter) ([]domain.CommunicationSummary, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	out := make([]domain.CommunicationSummary, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, domain.CommunicationSummary{Communication: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeCommunications) ListPublicRecognitions(_ context.Context, _, _ int) ([]domain.Communication, error) {
	var out []domain.Communication
	for _, c := range f.rows {
		if c.Kind == domain.KindRecognition && c.IsPublic {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeSubmitters struct {
	byEmail map[string]*domain.Submitter
	nextID  int64
	err     error
	calls   int
}

func newFakeSubmitters() *fakeSubmitters {
	return &fakeSubmitters{byEmail: map[string]*domain.Submitter{}}
}

func (f *fakeSubmitters) FindOrCreateByEmail(_ context.Context, s *domain.Submitter) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if existing, ok := f.byEmail[s.Email]; ok {
		*s = *existing
		return nil
	}
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.byEmail[s.Email] = &cp
	return nil
}

func (f *fakeSubmitters) GetByID(_ context.Context, id int64) (*domain.Submitter, error) {
	for _, s := range f.byEmail {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSubmitters) List(_ context.Context, _ *string, _, _ int) ([]domain.Submitter, error) {
	var out []domain.Submitter
	for _, s := range f.byEmail {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTracking struct {
	rows      map[int64]*domain.TrackingRecord
	nextID    int64
	createErr error
	updates   int
}

func newFakeTracking() *fakeTracking {
	return &fakeTracking{rows: map[int64]*domain.TrackingRecord{}}
}

func (f *fakeTracking) Create(_ context.Context, rec *domain.TrackingRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	rec.ID = f.nextID
	rec.UpdatedAt = fixedNow
	cp := *rec
	f.rows[rec.ID] = &cp
	return nil
}

func (f *fakeTracking) Update(_ context.Context, rec *domain.TrackingRecord) error {
	if _, ok := f.rows[rec.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.updates++
	rec.UpdatedAt = fixedNow
	cp := *rec
	f.rows[rec.ID] = &cp
	return nil
}

func (f *fakeTracking) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTracking) GetByID(_ context.Context, id int64) (*domain.TrackingRecord, error) {
	rec, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeTracking) ListByCommunication(_ context.Context, communicationID int64) ([]domain.TrackingRecord, error) {
	var out []domain.TrackingRecord
	for _, rec := range f.rows {
		if rec.CommunicationID == communicationID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeStatuses struct {
	rows    []domain.Status
	listErr error
	lists   int
}

func (f *fakeStatuses) List(context.Context) ([]domain.Status, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Status(nil), f.rows...), nil
}

func (f *fakeStatuses) GetByID(_ context.Context, id int64) (*domain.Status, error) {
	for _, s := range f.rows {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStatuses) Create(_ context.Context, s *domain.Status) error {
	s.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeStatuses) Update(_ context.Context, s *domain.Status) error {
	for i := range f.rows {
		if f.rows[i].ID == s.ID {
			f.rows[i] = *s
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeStatuses) Delete(_ context.Context, id int64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeCategories struct {
	rows    []domain.Category
	listErr error
}

func (f *fakeCategories) List(context.Context) ([]domain.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Category(nil), f.rows...), nil
}

func (f *fakeCategories) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	for _, c := range f.rows {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCategories) Create(_ context.Context, c *domain.Category) error {
	c.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *c)
	return nil
}

func (f *fakeCategories) Update(_ context.Context, c *domain.Category) error {
	for i := range f.rows {
		if f.rows[i].ID == c.ID {
			f.rows[i] = *c
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeCategories) Delete(_ context.Context, id int64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeAdmins struct {
	rows   map[int64]*domain.Admin
	nextID int64
}

func newFakeAdmins(admins ...domain.Admin) *fakeAdmins {
	f := &fakeAdmins{rows: map[int64]*domain.Admin{}}
	for _, a := range admins {
		cp := a
		f.rows[a.ID] = &cp
		if a.ID > f.nextID {
			f.nextID = a.ID
		}
	}
	return f
}

func (f *fakeAdmins) Create(_ context.Context, a *domain.Admin) error {
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt, a.UpdatedAt = fixedNow, fixedNow
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAdmins) Update(_ context.Context, a *domain.Admin) error {
	if _, ok := f.rows[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAdmins) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAdmins) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	for _, a := range f.rows {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdmins) List(_ context.Context, filter repository.AdminFilter) ([]domain.Admin, error) {
	var out []domain.Admin
	for _, a := range f.rows {
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}
		if filter.Role != nil && a.Role != *filter.Role {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAdmins) Count(context.Context) (int, error) {
	return len(f.rows), nil
}

type fakeEvidence struct {
	rows   map[int64]*domain.Evidence
	nextID int64
}

func newFakeEvidence() *fakeEvidence {
	return &fakeEvidence{rows: map[int64]*domain.Evidence{}}
}

func (f *fakeEvidence) Create(_ context.Context, ev *domain.Evidence) error {
	f.nextID++
	ev.ID = f.nextID
	ev.UploadedAt = fixedNow
	cp := *ev
	f.rows[ev.ID] = &cp
	return nil
}

func (f *fakeEvidence) GetByID(_ context.Context, id int64) (*domain.Evidence, error) {
	ev, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeEvidence) ListByCommunication(_ context.Context, communicationID int64) ([]domain.Evidence, error) {
	var out []domain.Evidence
	for _, ev := range f.rows {
		if ev.CommunicationID == communicationID {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, ev events.Event) error {
	d.events = append(d.events, ev)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev.Type)
	}
	return out
}

func defaultStatuses() *fakeStatuses {
	return &fakeStatuses{rows: []domain.Status{
		{ID: 1, Name: "Pendiente"},
		{ID: 2, Name: "En proceso"},
		{ID: 3, Name: "Atendida"},
		{ID: 4, Name: "cerrada"},
	}}
}

func defaultCategories() *fakeCategories {
	return &fakeCategories{rows: []domain.Category{
		{ID: 1, Name: "Infraestructura"},
		{ID: 2, Name: "Seguridad"},
	}}
}

var (
	adminActor     = domain.Actor{ID: 1, Role: domain.RoleAdmin}
	monitorActor   = domain.Actor{ID: 2, Role: domain.RoleMonitor}
	moderatorActor = domain.Actor{ID: 3, Role: domain.RoleModerator}
)

func defaultAdmins() *fakeAdmins {
	return newFakeAdmins(
		domain.Admin{ID: 1, Name: "Ana", Email: "ana@fmht.mx", Role: domain.RoleAdmin, Active: true},
		domain.Admin{ID: 2, Name: "Beto", Email: "beto@fmht.mx", Role: domain.RoleMonitor, Active: true},
		domain.Admin{ID: 3, Name: "Carla", Email: "carla@fmht.mx", Role: domain.RoleModerator, Active: true},
		domain.Admin{ID: 4, Name: "Dario", Email: "dario@fmht.mx", Role: domain.RoleModerator, Active: false},
	)
}
