// Package directory holds the write side of the resource directory:
// resources, weekly schedules, blocks, services and their requirements.
package directory

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, businessID uuid.UUID, start, end time.Time) error
}

type Deps struct {
	Businesses  domain.Repository
	Resources   resource.Repository
	Audit       *audit.Dispatcher
	Cache       AvailabilityInvalidator
	HorizonDays int
	Log         zerolog.Logger
	Now         func() time.Time
}

type Manager struct {
	deps Deps
}

func NewManager(deps Deps) *Manager {
	if deps.HorizonDays <= 0 {
		deps.HorizonDays = 30
	}
	return &Manager{deps: deps}
}

func (m *Manager) now() time.Time {
	if m.deps.Now != nil {
		return m.deps.Now()
	}
	return time.Now()
}

// ======================================================
// BUSINESSES
// ======================================================

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateBusiness registers a tenant. The slug is the public booking handle.
func (m *Manager) CreateBusiness(ctx context.Context, b *models.Business) error {
	b.Slug = strings.ToLower(strings.TrimSpace(b.Slug))
	if b.Timezone == "" {
		b.Timezone = timezone.DefaultTimezone
	}

	switch {
	case strings.TrimSpace(b.Name) == "":
		return httperr.ErrValidation("name", "is required")
	case len(b.Slug) < 3 || len(b.Slug) > 100 || !slugPattern.MatchString(b.Slug):
		return httperr.ErrValidation("slug", "must be 3-100 lowercase letters, digits or dashes")
	case !timezone.IsValid(b.Timezone):
		return httperr.ErrValidation("timezone", "is not a known IANA timezone")
	case b.MinAdvanceMinutes < 0:
		return httperr.ErrValidation("min_advance_minutes", "must not be negative")
	}

	if err := m.deps.Businesses.CreateBusiness(ctx, b); err != nil {
		return err
	}

	m.record(b.ID, nil, audit.ActionBusinessCreated, "business", b.ID, map[string]any{"slug": b.Slug})
	return nil
}

// ======================================================
// RESOURCES
// ======================================================

func (m *Manager) CreateResource(ctx context.Context, res *models.Resource, actorID *uuid.UUID) error {
	if res.Capacity == 0 {
		res.Capacity = 1
	}
	if err := resource.ValidateResource(res); err != nil {
		return err
	}

	res.Audit.CreatedBy = actorID
	if err := m.deps.Resources.CreateResource(ctx, res); err != nil {
		return err
	}

	m.record(res.BusinessID, actorID, audit.ActionResourceCreated, "resource", res.ID, map[string]any{
		"name": res.Name,
		"type": res.Type,
	})
	return nil
}

// ResourcePatch carries the mutable fields of a resource; nil fields are
// left unchanged.
type ResourcePatch struct {
	Name        *string
	Description *string
	Capacity    *int
	Active      *bool
}

func (m *Manager) UpdateResource(
	ctx context.Context,
	businessID uuid.UUID,
	resourceID uuid.UUID,
	patch ResourcePatch,
	actorID *uuid.UUID,
) (*models.Resource, error) {

	res, err := m.deps.Resources.GetResource(ctx, businessID, resourceID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		res.Name = *patch.Name
	}
	if patch.Description != nil {
		res.Description = *patch.Description
	}
	if patch.Capacity != nil {
		res.Capacity = *patch.Capacity
	}
	if patch.Active != nil {
		res.Active = *patch.Active
	}
	if err := resource.ValidateResource(res); err != nil {
		return nil, err
	}

	res.Audit.UpdatedBy = actorID
	if err := m.deps.Resources.UpdateResource(ctx, res); err != nil {
		return nil, err
	}

	// capacity and activation change every open day
	if patch.Capacity != nil || patch.Active != nil {
		m.invalidateHorizon(ctx, businessID)
	}

	m.record(businessID, actorID, audit.ActionResourceUpdated, "resource", res.ID, nil)
	return res, nil
}

func (m *Manager) GetResource(ctx context.Context, businessID, resourceID uuid.UUID) (*models.Resource, error) {
	return m.deps.Resources.GetResource(ctx, businessID, resourceID)
}

func (m *Manager) ListResources(ctx context.Context, businessID uuid.UUID, filter resource.ListFilter) ([]models.Resource, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, httperr.ErrValidation("type", "must be staff, room or equipment")
	}
	return m.deps.Resources.ListResources(ctx, businessID, filter)
}

// ======================================================
// SCHEDULES
// ======================================================

func (m *Manager) AddSchedule(ctx context.Context, s *models.ResourceSchedule, actorID *uuid.UUID) error {
	if _, err := m.deps.Resources.GetResource(ctx, s.BusinessID, s.ResourceID); err != nil {
		return err
	}
	if err := resource.ValidateSchedule(s); err != nil {
		return err
	}

	s.Audit.CreatedBy = actorID
	if err := m.deps.Resources.CreateSchedule(ctx, s); err != nil {
		return err
	}

	m.invalidateHorizon(ctx, s.BusinessID)
	m.record(s.BusinessID, actorID, audit.ActionScheduleCreated, "resource_schedule", s.ID, map[string]any{
		"resource_id": s.ResourceID,
		"day_of_week": s.DayOfWeek,
		"start_time":  s.StartTime,
		"end_time":    s.EndTime,
	})
	return nil
}

func (m *Manager) ListSchedules(ctx context.Context, businessID, resourceID uuid.UUID) ([]models.ResourceSchedule, error) {
	if _, err := m.deps.Resources.GetResource(ctx, businessID, resourceID); err != nil {
		return nil, err
	}
	return m.deps.Resources.ListSchedules(ctx, resourceID)
}

// ======================================================
// BLOCKS
// ======================================================

func (m *Manager) AddBlock(ctx context.Context, b *models.ResourceBlock, actorID *uuid.UUID) error {
	if _, err := m.deps.Resources.GetResource(ctx, b.BusinessID, b.ResourceID); err != nil {
		return err
	}
	if b.BlockType == "" {
		b.BlockType = string(resource.BlockOther)
	}
	if err := resource.ValidateBlock(b); err != nil {
		return err
	}

	b.Audit.CreatedBy = actorID
	if err := m.deps.Resources.CreateBlock(ctx, b); err != nil {
		return err
	}

	m.invalidateSpan(ctx, b.BusinessID, b.StartTime, b.EndTime)
	m.record(b.BusinessID, actorID, audit.ActionBlockCreated, "resource_block", b.ID, map[string]any{
		"resource_id": b.ResourceID,
		"block_type":  b.BlockType,
		"start":       b.StartTime,
		"end":         b.EndTime,
	})
	return nil
}

// DeleteBlock soft-deletes a block; it stops affecting availability at once.
func (m *Manager) DeleteBlock(ctx context.Context, businessID, blockID uuid.UUID, actorID *uuid.UUID) error {
	b, err := m.deps.Resources.GetBlock(ctx, businessID, blockID)
	if err != nil {
		return err
	}

	b.SoftDelete(m.now(), actorID)
	if err := m.deps.Resources.UpdateBlock(ctx, b); err != nil {
		return err
	}

	m.invalidateSpan(ctx, businessID, b.StartTime, b.EndTime)
	m.record(businessID, actorID, audit.ActionBlockDeleted, "resource_block", b.ID, nil)
	return nil
}

// ======================================================
// SERVICES
// ======================================================

func (m *Manager) CreateService(ctx context.Context, s *models.Service, actorID *uuid.UUID) error {
	if err := resource.ValidateService(s); err != nil {
		return err
	}

	s.Audit.CreatedBy = actorID
	if err := m.deps.Resources.CreateService(ctx, s); err != nil {
		return err
	}

	m.record(s.BusinessID, actorID, audit.ActionServiceCreated, "service", s.ID, map[string]any{
		"name":             s.Name,
		"duration_minutes": s.DurationMinutes,
	})
	return nil
}

func (m *Manager) GetService(ctx context.Context, businessID, serviceID uuid.UUID) (*models.Service, error) {
	return m.deps.Resources.GetService(ctx, businessID, serviceID)
}

func (m *Manager) ListServices(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]models.Service, error) {
	return m.deps.Resources.ListServices(ctx, businessID, activeOnly)
}

// AddRequirement attaches a resource requirement to a service. A specific
// resource must belong to the same business.
func (m *Manager) AddRequirement(ctx context.Context, req *models.ServiceResource, actorID *uuid.UUID) error {
	if _, err := m.deps.Resources.GetService(ctx, req.BusinessID, req.ServiceID); err != nil {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := resource.ValidateServiceResource(req); err != nil {
		return err
	}
	if req.ResourceID != nil {
		if _, err := m.deps.Resources.GetResource(ctx, req.BusinessID, *req.ResourceID); err != nil {
			return err
		}
	}
	for _, id := range req.PreferredResourceIDs {
		res, err := m.deps.Resources.GetResource(ctx, req.BusinessID, id)
		if err != nil {
			return err
		}
		if res.Type != req.ResourceType {
			return httperr.ErrValidation("preferred_resource_ids", "must be resources of the pool type")
		}
	}

	req.Audit.CreatedBy = actorID
	if err := m.deps.Resources.CreateServiceResource(ctx, req); err != nil {
		return err
	}

	m.invalidateHorizon(ctx, req.BusinessID)
	m.record(req.BusinessID, actorID, audit.ActionRequirementCreated, "service_resource", req.ID, map[string]any{
		"service_id":    req.ServiceID,
		"resource_id":   req.ResourceID,
		"resource_type": req.ResourceType,
	})
	return nil
}

func (m *Manager) ListRequirements(ctx context.Context, businessID, serviceID uuid.UUID) ([]models.ServiceResource, error) {
	if _, err := m.deps.Resources.GetService(ctx, businessID, serviceID); err != nil {
		return nil, err
	}
	return m.deps.Resources.ListServiceResources(ctx, serviceID)
}

// ======================================================
// SIDE EFFECTS
// ======================================================

func (m *Manager) record(businessID uuid.UUID, actorID *uuid.UUID, action, entity string, id uuid.UUID, meta map[string]any) {
	if m.deps.Audit == nil {
		return
	}
	m.deps.Audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     actorID,
		Action:     action,
		Entity:     entity,
		EntityID:   &id,
		Metadata:   meta,
	})
}

func (m *Manager) invalidateSpan(ctx context.Context, businessID uuid.UUID, start, end time.Time) {
	if m.deps.Cache == nil {
		return
	}

	loc := time.UTC
	if b, err := m.deps.Businesses.GetBusinessByID(ctx, businessID); err == nil {
		loc = timezone.Location(b.Timezone)
	}

	if err := m.deps.Cache.Invalidate(ctx, businessID, start.In(loc), end.In(loc)); err != nil {
		m.deps.Log.Warn().Err(err).Str("business_id", businessID.String()).Msg("availability cache invalidation failed")
	}
}

// invalidateHorizon drops every cached day a customer can currently search.
func (m *Manager) invalidateHorizon(ctx context.Context, businessID uuid.UUID) {
	today := calendar.StartOfDay(m.now())
	m.invalidateSpan(ctx, businessID, today.AddDate(0, 0, -1), today.AddDate(0, 0, m.deps.HorizonDays+1))
}
