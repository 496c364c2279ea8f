package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/infra/memory"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// monday is 2025-03-03, weekday 0.
func monday(h, m int) time.Time {
	return time.Date(2025, time.March, 3, h, m, 0, 0, time.UTC)
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	business *models.Business
	detector *conflict.Detector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
	}
	f.detector = conflict.NewDetector(f.store)

	f.business = &models.Business{Name: "Acme Clinic", Slug: "acme", Timezone: "UTC"}
	if err := f.store.CreateBusiness(f.ctx, f.business); err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	return f
}

func (f *fixture) resource(t *testing.T, name, typ string, capacity int) models.Resource {
	t.Helper()

	r := &models.Resource{Name: name, Type: typ, Capacity: capacity, Active: true}
	r.BusinessID = f.business.ID
	if err := f.store.CreateResource(f.ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	return *r
}

func (f *fixture) schedule(t *testing.T, res models.Resource, weekday int, start, end string) {
	t.Helper()

	s := &models.ResourceSchedule{
		ResourceID: res.ID,
		DayOfWeek:  weekday,
		StartTime:  start,
		EndTime:    end,
		Active:     true,
	}
	s.BusinessID = f.business.ID
	if err := f.store.CreateSchedule(f.ctx, s); err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
}

func (f *fixture) block(t *testing.T, res models.Resource, start, end time.Time) {
	t.Helper()

	b := &models.ResourceBlock{ResourceID: res.ID, StartTime: start, EndTime: end, BlockType: "vacation"}
	b.BusinessID = f.business.ID
	if err := f.store.CreateBlock(f.ctx, b); err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
}

func (f *fixture) service(t *testing.T, name string, duration, buffer int) models.Service {
	t.Helper()

	s := &models.Service{
		Name:                 name,
		DurationMinutes:      duration,
		BufferMinutes:        buffer,
		Active:               true,
		OnlineBookingEnabled: true,
	}
	s.BusinessID = f.business.ID
	if err := f.store.CreateService(f.ctx, s); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	return *s
}

func (f *fixture) requireResource(t *testing.T, svc models.Service, res models.Resource, cleanup int) {
	t.Helper()

	id := res.ID
	req := &models.ServiceResource{
		ServiceID:      svc.ID,
		ResourceID:     &id,
		Quantity:       1,
		IsRequired:     true,
		CleanupMinutes: cleanup,
	}
	req.BusinessID = f.business.ID
	if err := f.store.CreateServiceResource(f.ctx, req); err != nil {
		t.Fatalf("CreateServiceResource: %v", err)
	}
}

func (f *fixture) booking(t *testing.T, res models.Resource, start, end time.Time, status domain.Status) {
	t.Helper()

	ap := &models.Appointment{
		ServiceID: uuid.New(),
		ClientID:  uuid.New(),
		StartTime: start,
		EndTime:   end,
		Status:    string(status),
		Reference: "ACM-" + uuid.NewString()[:8],
		Resources: []models.AppointmentResource{
			{ResourceID: res.ID, AllocatedStart: start, AllocatedEnd: end},
		},
	}
	ap.BusinessID = f.business.ID
	if err := f.store.CreateAppointment(f.ctx, ap); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
}
