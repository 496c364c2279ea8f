package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/infra/memory"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
)

// monday is 2025-03-03, weekday 0.
func monday(h, m int) time.Time {
	return time.Date(2025, time.March, 3, h, m, 0, 0, time.UTC)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingCache struct {
	mu    sync.Mutex
	calls int
}

func (c *recordingCache) Invalidate(ctx context.Context, businessID uuid.UUID, start, end time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	business *models.Business
	events   *recordingPublisher
	cache    *recordingCache
	audit    *audit.Dispatcher
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, func(*models.Business) {})
}

func newFixtureWith(t *testing.T, configure func(*models.Business)) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		ctx:    context.Background(),
		store:  store,
		events: &recordingPublisher{},
		cache:  &recordingCache{},
		audit:  audit.NewDispatcher(audit.New(store), zerolog.Nop()),
		now:    time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC),
	}
	t.Cleanup(f.audit.Close)

	f.business = &models.Business{Name: "Acme Clinic", Slug: "acme", Timezone: "UTC"}
	configure(f.business)
	if err := store.CreateBusiness(f.ctx, f.business); err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	return f
}

func (f *fixture) deps() Deps {
	return Deps{
		Appointments: f.store,
		Resources:    f.store,
		Detector:     conflict.NewDetector(f.store),
		Audit:        f.audit,
		Cache:        f.cache,
		Events:       f.events,
		Log:          zerolog.Nop(),
		Now:          func() time.Time { return f.now },
	}
}

func (f *fixture) resource(t *testing.T, name, typ string, open, close string) models.Resource {
	t.Helper()

	r := &models.Resource{Name: name, Type: typ, Capacity: 1, Active: true}
	r.BusinessID = f.business.ID
	if err := f.store.CreateResource(f.ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	s := &models.ResourceSchedule{ResourceID: r.ID, DayOfWeek: 0, StartTime: open, EndTime: close, Active: true}
	s.BusinessID = f.business.ID
	if err := f.store.CreateSchedule(f.ctx, s); err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
	return *r
}

func (f *fixture) service(t *testing.T, duration int) models.Service {
	t.Helper()

	s := &models.Service{Name: "Consultation", DurationMinutes: duration, Active: true, OnlineBookingEnabled: true}
	s.BusinessID = f.business.ID
	if err := f.store.CreateService(f.ctx, s); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	return *s
}

// requires adds a requirement on a specific resource, or on a pool when
// res is nil.
func (f *fixture) requires(t *testing.T, svc models.Service, res *models.Resource, typ string, cleanup int) {
	t.Helper()

	req := &models.ServiceResource{
		ServiceID:      svc.ID,
		ResourceType:   typ,
		Quantity:       1,
		IsRequired:     true,
		CleanupMinutes: cleanup,
	}
	if res != nil {
		id := res.ID
		req.ResourceID = &id
	}
	req.BusinessID = f.business.ID
	if err := f.store.CreateServiceResource(f.ctx, req); err != nil {
		t.Fatalf("CreateServiceResource: %v", err)
	}
}

func (f *fixture) input(svc models.Service, start time.Time) BookAppointmentInput {
	return BookAppointmentInput{
		BusinessID:  f.business.ID,
		ServiceID:   svc.ID,
		Start:       start,
		ClientName:  "Ana Souza",
		ClientPhone: "+55 11 99999-0000",
	}
}
