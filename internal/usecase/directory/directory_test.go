package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/infra/memory"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type spanCache struct {
	spans [][2]time.Time
}

func (c *spanCache) Invalidate(ctx context.Context, businessID uuid.UUID, start, end time.Time) error {
	c.spans = append(c.spans, [2]time.Time{start, end})
	return nil
}

func setup(t *testing.T) (*Manager, *memory.Store, *models.Business, *spanCache) {
	t.Helper()

	store := memory.NewStore()
	cache := &spanCache{}
	m := NewManager(Deps{
		Businesses: store,
		Resources:  store,
		Cache:      cache,
		Log:        zerolog.Nop(),
		Now:        func() time.Time { return time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC) },
	})

	b := &models.Business{Name: "Acme Clinic", Slug: "Acme-Clinic", Timezone: "UTC"}
	if err := m.CreateBusiness(t.Context(), b); err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	return m, store, b, cache
}

func TestCreateBusiness(t *testing.T) {
	m, _, b, _ := setup(t)

	if b.Slug != "acme-clinic" {
		t.Errorf("slug = %q", b.Slug)
	}

	cases := []struct {
		name string
		b    models.Business
	}{
		{"no name", models.Business{Slug: "shop", Timezone: "UTC"}},
		{"bad slug", models.Business{Name: "X", Slug: "a b", Timezone: "UTC"}},
		{"bad timezone", models.Business{Name: "X", Slug: "shop", Timezone: "Mars/Base"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := m.CreateBusiness(t.Context(), &tc.b); !httperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	dup := &models.Business{Name: "Other", Slug: "acme-clinic"}
	if err := m.CreateBusiness(t.Context(), dup); !httperr.IsBusiness(err, "duplicate_entry") {
		t.Fatalf("expected duplicate_entry, got %v", err)
	}
}

func TestResourceLifecycle(t *testing.T) {
	m, _, b, cache := setup(t)
	ctx := t.Context()

	res := &models.Resource{Name: "Room 1", Type: "room", Active: true}
	res.BusinessID = b.ID
	if err := m.CreateResource(ctx, res, nil); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	if res.Capacity != 1 {
		t.Errorf("capacity defaulted to %d", res.Capacity)
	}

	bad := &models.Resource{Name: "Robot", Type: "robot"}
	bad.BusinessID = b.ID
	if err := m.CreateResource(ctx, bad, nil); !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	capacity, inactive := 3, false
	got, err := m.UpdateResource(ctx, b.ID, res.ID, ResourcePatch{Capacity: &capacity, Active: &inactive}, nil)
	if err != nil {
		t.Fatalf("UpdateResource: %v", err)
	}
	if got.Capacity != 3 || got.Active {
		t.Fatalf("patch not applied: %+v", got)
	}
	if len(cache.spans) != 1 {
		t.Fatalf("capacity change should invalidate the horizon, got %d calls", len(cache.spans))
	}

	active, _ := m.ListResources(ctx, b.ID, resource.ListFilter{ActiveOnly: true})
	if len(active) != 0 {
		t.Fatalf("inactive resource listed: %d", len(active))
	}
	if _, err := m.ListResources(ctx, b.ID, resource.ListFilter{Type: "robot"}); !httperr.IsValidation(err) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
}

func TestScheduleAndBlocks(t *testing.T) {
	m, _, b, cache := setup(t)
	ctx := t.Context()

	res := &models.Resource{Name: "Dr. Lee", Type: "staff", Active: true}
	res.BusinessID = b.ID
	if err := m.CreateResource(ctx, res, nil); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	sched := &models.ResourceSchedule{ResourceID: res.ID, DayOfWeek: 0, StartTime: "18:00", EndTime: "09:00", Active: true}
	sched.BusinessID = b.ID
	if err := m.AddSchedule(ctx, sched, nil); !httperr.IsValidation(err) {
		t.Fatalf("inverted schedule: expected validation error, got %v", err)
	}

	sched.StartTime, sched.EndTime = "09:00", "18:00"
	if err := m.AddSchedule(ctx, sched, nil); err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}
	list, _ := m.ListSchedules(ctx, b.ID, res.ID)
	if len(list) != 1 {
		t.Fatalf("schedules = %d", len(list))
	}

	block := &models.ResourceBlock{
		ResourceID: res.ID,
		StartTime:  time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, time.March, 3, 13, 0, 0, 0, time.UTC),
	}
	block.BusinessID = b.ID
	if err := m.AddBlock(ctx, block, nil); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}
	if block.BlockType != string(resource.BlockOther) {
		t.Errorf("block type defaulted to %q", block.BlockType)
	}

	last := cache.spans[len(cache.spans)-1]
	if !last[0].Equal(block.StartTime) || !last[1].Equal(block.EndTime) {
		t.Fatalf("block invalidated %v", last)
	}

	if err := m.DeleteBlock(ctx, b.ID, block.ID, nil); err != nil {
		t.Fatalf("DeleteBlock: %v", err)
	}
	if err := m.DeleteBlock(ctx, b.ID, block.ID, nil); !errors.Is(err, resource.ErrBlockNotFound) {
		t.Fatalf("second delete: expected block_not_found, got %v", err)
	}
}

func TestAddRequirementScopesResources(t *testing.T) {
	m, store, b, _ := setup(t)
	ctx := t.Context()

	svc := &models.Service{Name: "Consultation", DurationMinutes: 30, Active: true}
	svc.BusinessID = b.ID
	if err := m.CreateService(ctx, svc, nil); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	other := &models.Business{Name: "Other", Slug: "other"}
	if err := m.CreateBusiness(ctx, other); err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	foreign := &models.Resource{Name: "Their room", Type: "room", Capacity: 1, Active: true}
	foreign.BusinessID = other.ID
	if err := store.CreateResource(ctx, foreign); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	req := &models.ServiceResource{ServiceID: svc.ID, ResourceID: &foreign.ID, IsRequired: true}
	req.BusinessID = b.ID
	if err := m.AddRequirement(ctx, req, nil); !errors.Is(err, resource.ErrResourceNotFound) {
		t.Fatalf("expected resource_not_found, got %v", err)
	}

	pool := &models.ServiceResource{ServiceID: svc.ID, ResourceType: "staff", IsRequired: true}
	pool.BusinessID = b.ID
	if err := m.AddRequirement(ctx, pool, nil); err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if pool.Quantity != 1 {
		t.Errorf("quantity defaulted to %d", pool.Quantity)
	}

	reqs, _ := m.ListRequirements(ctx, b.ID, svc.ID)
	if len(reqs) != 1 {
		t.Fatalf("requirements = %d", len(reqs))
	}

	if _, err := m.ListRequirements(ctx, other.ID, svc.ID); !errors.Is(err, resource.ErrServiceNotFound) {
		t.Fatalf("cross-tenant service lookup: %v", err)
	}
}

func TestAddRequirementPreferredMembers(t *testing.T) {
	m, store, b, _ := setup(t)
	ctx := t.Context()

	svc := &models.Service{Name: "Consultation", DurationMinutes: 30, Active: true}
	svc.BusinessID = b.ID
	if err := m.CreateService(ctx, svc, nil); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	staff := &models.Resource{Name: "Alice", Type: "staff", Capacity: 1, Active: true}
	room := &models.Resource{Name: "Room 1", Type: "room", Capacity: 1, Active: true}
	for _, r := range []*models.Resource{staff, room} {
		r.BusinessID = b.ID
		if err := store.CreateResource(ctx, r); err != nil {
			t.Fatalf("CreateResource: %v", err)
		}
	}

	wrongType := &models.ServiceResource{ServiceID: svc.ID, ResourceType: "staff", IsRequired: true, PreferredResourceIDs: []uuid.UUID{room.ID}}
	wrongType.BusinessID = b.ID
	if err := m.AddRequirement(ctx, wrongType, nil); !httperr.IsValidation(err) {
		t.Fatalf("room preferred in a staff pool: %v", err)
	}

	ok := &models.ServiceResource{ServiceID: svc.ID, ResourceType: "staff", IsRequired: true, PreferredResourceIDs: []uuid.UUID{staff.ID}}
	ok.BusinessID = b.ID
	if err := m.AddRequirement(ctx, ok, nil); err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}

	reqs, _ := m.ListRequirements(ctx, b.ID, svc.ID)
	if len(reqs) != 1 || len(reqs[0].PreferredResourceIDs) != 1 || reqs[0].PreferredResourceIDs[0] != staff.ID {
		t.Fatalf("stored requirement = %+v", reqs)
	}
}
