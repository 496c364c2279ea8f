// Package memory is an in-process implementation of every repository
// interface. It backs the test suites and the serve command's memory mode.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type state struct {
	businesses   map[uuid.UUID]models.Business
	resources    map[uuid.UUID]models.Resource
	schedules    map[uuid.UUID]models.ResourceSchedule
	blocks       map[uuid.UUID]models.ResourceBlock
	services     map[uuid.UUID]models.Service
	requirements map[uuid.UUID]models.ServiceResource
	clients      map[uuid.UUID]models.Client
	appointments map[uuid.UUID]models.Appointment
	allocations  map[uuid.UUID]models.AppointmentResource
	auditLogs    []models.AuditLog
}

func newState() state {
	return state{
		businesses:   map[uuid.UUID]models.Business{},
		resources:    map[uuid.UUID]models.Resource{},
		schedules:    map[uuid.UUID]models.ResourceSchedule{},
		blocks:       map[uuid.UUID]models.ResourceBlock{},
		services:     map[uuid.UUID]models.Service{},
		requirements: map[uuid.UUID]models.ServiceResource{},
		clients:      map[uuid.UUID]models.Client{},
		appointments: map[uuid.UUID]models.Appointment{},
		allocations:  map[uuid.UUID]models.AppointmentResource{},
	}
}

// Store keeps all rows in maps. Transactions are serialized: one runs at a
// time and, when fn fails, only the writes it made are undone. Writes made
// outside the transaction meanwhile survive.
type Store struct {
	tx sync.Mutex
	mu sync.RWMutex

	data state
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: newState(), now: time.Now}
}

type txKey struct{}

// journal collects the undo steps of one transaction, newest last.
type journal struct {
	undo []func()
}

func (s *Store) WithinTransaction(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {

	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.tx.Lock()
	defer s.tx.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		s.mu.Lock()
		for _, undo := range slices.Backward(j.undo) {
			undo()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// put writes one row and, inside a transaction, remembers its previous
// state. Callers hold s.mu.
func put[V any](ctx context.Context, table map[uuid.UUID]V, id uuid.UUID, row V) {
	prev, existed := table[id]
	table[id] = row

	j, ok := ctx.Value(txKey{}).(*journal)
	if !ok {
		return
	}
	j.undo = append(j.undo, func() {
		if existed {
			table[id] = prev
			return
		}
		delete(table, id)
	})
}

func (s *Store) stamp(e *models.Entity) {
	e.EnsureID()
	now := s.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (s *Store) GetBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data.businesses[id]
	if !ok {
		return nil, domain.ErrBusinessNotFound
	}
	return &b, nil
}

func (s *Store) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.data.businesses {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, domain.ErrBusinessNotFound
}

func (s *Store) CreateBusiness(ctx context.Context, business *models.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.data.businesses {
		if b.Slug == business.Slug {
			return httperr.ErrBusiness("duplicate_entry")
		}
	}
	if business.ID == uuid.Nil {
		business.ID = uuid.New()
	}
	now := s.now()
	business.CreatedAt, business.UpdatedAt = now, now

	put(ctx, s.data.businesses, business.ID, *business)
	return nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (s *Store) GetOrCreateClient(
	ctx context.Context,
	businessID uuid.UUID,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	match := func(get func(models.Client) string, value string) *models.Client {
		if value == "" {
			return nil
		}
		var best *models.Client
		for _, c := range s.data.clients {
			if c.BusinessID != businessID || c.IsDeleted() || get(c) != value {
				continue
			}
			if best == nil || c.CreatedAt.Before(best.CreatedAt) {
				best = &c
			}
		}
		return best
	}

	if c := match(func(c models.Client) string { return c.Phone }, phone); c != nil {
		return c, nil
	}
	if c := match(func(c models.Client) string { return c.Email }, email); c != nil {
		return c, nil
	}

	client := models.Client{Name: name, Phone: phone, Email: email}
	client.BusinessID = businessID
	s.stamp(&client.Entity)

	put(ctx, s.data.clients, client.ID, client)
	return &client, nil
}

// LockResources is a no-op: transactions are already serialized.
func (s *Store) LockResources(ctx context.Context, resourceIDs []uuid.UUID) error {
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (s *Store) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ap := range s.data.appointments {
		if ap.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data.appointments {
		if existing.Reference == ap.Reference {
			return httperr.ErrBusiness("duplicate_entry")
		}
	}

	s.stamp(&ap.Entity)
	for i := range ap.Resources {
		a := &ap.Resources[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.AppointmentID = ap.ID
		a.CreatedAt = ap.CreatedAt
		put(ctx, s.data.allocations, a.ID, *a)
	}

	row := *ap
	row.Resources = nil
	row.Service = nil
	row.Client = nil
	put(ctx, s.data.appointments, ap.ID, row)
	return nil
}

// hydrate fills the associations a gorm Preload would. Caller holds mu.
func (s *Store) hydrate(ap models.Appointment) models.Appointment {
	if svc, ok := s.data.services[ap.ServiceID]; ok {
		ap.Service = &svc
	}
	if c, ok := s.data.clients[ap.ClientID]; ok {
		ap.Client = &c
	}

	ap.Resources = nil
	for _, a := range s.data.allocations {
		if a.AppointmentID == ap.ID {
			a.AppointmentStatus = ap.Status
			a.AppointmentReference = ap.Reference
			ap.Resources = append(ap.Resources, a)
		}
	}
	sort.Slice(ap.Resources, func(i, j int) bool {
		return ap.Resources[i].AllocatedStart.Before(ap.Resources[j].AllocatedStart)
	})
	return ap
}

func (s *Store) GetAppointment(
	ctx context.Context,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.data.appointments[appointmentID]
	if !ok || ap.BusinessID != businessID || ap.IsDeleted() {
		return nil, domain.ErrAppointmentNotFound
	}
	out := s.hydrate(ap)
	return &out, nil
}

func (s *Store) GetAppointmentForUpdate(
	ctx context.Context,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.data.appointments[appointmentID]
	if !ok || ap.BusinessID != businessID || ap.IsDeleted() {
		return nil, domain.ErrAppointmentNotFound
	}
	return &ap, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.appointments[ap.ID]; !ok {
		return domain.ErrAppointmentNotFound
	}

	ap.UpdatedAt = s.now()
	row := *ap
	row.Resources = nil
	row.Service = nil
	row.Client = nil
	put(ctx, s.data.appointments, ap.ID, row)
	return nil
}

func (s *Store) ListAppointmentsForPeriod(
	ctx context.Context,
	businessID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range s.data.appointments {
		if ap.BusinessID != businessID || ap.IsDeleted() {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, s.hydrate(ap))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) ListOverdueAppointments(
	ctx context.Context,
	status domain.Status,
	endBefore time.Time,
	limit int,
) ([]models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range s.data.appointments {
		if ap.IsDeleted() || ap.Status != string(status) || !ap.EndTime.Before(endBefore) {
			continue
		}
		out = append(out, ap)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ domain.Repository = (*Store)(nil)

// --------------------------------------------------
// Resource
// --------------------------------------------------

func (s *Store) GetResource(
	ctx context.Context,
	businessID uuid.UUID,
	resourceID uuid.UUID,
) (*models.Resource, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data.resources[resourceID]
	if !ok || r.BusinessID != businessID || r.IsDeleted() {
		return nil, resource.ErrResourceNotFound
	}
	return &r, nil
}

func (s *Store) ListResources(
	ctx context.Context,
	businessID uuid.UUID,
	filter resource.ListFilter,
) ([]models.Resource, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Resource
	for _, r := range s.data.resources {
		if r.BusinessID != businessID || r.IsDeleted() {
			continue
		}
		if filter.ActiveOnly && !r.Active {
			continue
		}
		if filter.Type != "" && r.Type != string(filter.Type) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	return out, nil
}

func (s *Store) CreateResource(ctx context.Context, res *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&res.Entity)
	row := *res
	row.Schedules = nil
	put(ctx, s.data.resources, res.ID, row)
	return nil
}

func (s *Store) UpdateResource(ctx context.Context, res *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.resources[res.ID]; !ok {
		return resource.ErrResourceNotFound
	}
	res.UpdatedAt = s.now()
	row := *res
	row.Schedules = nil
	put(ctx, s.data.resources, res.ID, row)
	return nil
}

func (s *Store) ListSchedules(ctx context.Context, resourceID uuid.UUID) ([]models.ResourceSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ResourceSchedule
	for _, sc := range s.data.schedules {
		if sc.ResourceID == resourceID && !sc.IsDeleted() {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateSchedule(ctx context.Context, schedule *models.ResourceSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&schedule.Entity)
	put(ctx, s.data.schedules, schedule.ID, *schedule)
	return nil
}

func (s *Store) GetBlock(
	ctx context.Context,
	businessID uuid.UUID,
	blockID uuid.UUID,
) (*models.ResourceBlock, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data.blocks[blockID]
	if !ok || b.BusinessID != businessID || b.IsDeleted() {
		return nil, resource.ErrBlockNotFound
	}
	return &b, nil
}

func (s *Store) CreateBlock(ctx context.Context, block *models.ResourceBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&block.Entity)
	put(ctx, s.data.blocks, block.ID, *block)
	return nil
}

func (s *Store) UpdateBlock(ctx context.Context, block *models.ResourceBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.blocks[block.ID]; !ok {
		return resource.ErrBlockNotFound
	}
	block.UpdatedAt = s.now()
	put(ctx, s.data.blocks, block.ID, *block)
	return nil
}

func (s *Store) GetService(
	ctx context.Context,
	businessID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.data.services[serviceID]
	if !ok || svc.BusinessID != businessID || svc.IsDeleted() {
		return nil, resource.ErrServiceNotFound
	}
	return &svc, nil
}

func (s *Store) ListServices(
	ctx context.Context,
	businessID uuid.UUID,
	activeOnly bool,
) ([]models.Service, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Service
	for _, svc := range s.data.services {
		if svc.BusinessID != businessID || svc.IsDeleted() {
			continue
		}
		if activeOnly && !svc.Active {
			continue
		}
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateService(ctx context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&service.Entity)
	row := *service
	row.Requirements = nil
	put(ctx, s.data.services, service.ID, row)
	return nil
}

func (s *Store) ListServiceResources(ctx context.Context, serviceID uuid.UUID) ([]models.ServiceResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ServiceResource
	for _, r := range s.data.requirements {
		if r.ServiceID == serviceID && !r.IsDeleted() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PreferenceOrder != out[j].PreferenceOrder {
			return out[i].PreferenceOrder < out[j].PreferenceOrder
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) CreateServiceResource(ctx context.Context, req *models.ServiceResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&req.Entity)
	put(ctx, s.data.requirements, req.ID, *req)
	return nil
}

var _ resource.Repository = (*Store)(nil)

// --------------------------------------------------
// Commitments
// --------------------------------------------------

func (s *Store) ListBlocks(
	ctx context.Context,
	resourceIDs []uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.ResourceBlock, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ResourceBlock
	for _, b := range s.data.blocks {
		if b.IsDeleted() || !slices.Contains(resourceIDs, b.ResourceID) {
			continue
		}
		if calendar.Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) ListAllocations(
	ctx context.Context,
	resourceIDs []uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.AppointmentResource, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AppointmentResource
	for _, a := range s.data.allocations {
		ap, ok := s.data.appointments[a.AppointmentID]
		if !ok || ap.IsDeleted() || !slices.Contains(resourceIDs, a.ResourceID) {
			continue
		}
		if !calendar.Overlaps(a.AllocatedStart, a.AllocatedEnd, start, end) {
			continue
		}
		a.AppointmentStatus = ap.Status
		a.AppointmentReference = ap.Reference
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AllocatedStart.Before(out[j].AllocatedStart) })
	return out, nil
}

var _ conflict.Store = (*Store)(nil)

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (s *Store) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.ID = uint(len(s.data.auditLogs) + 1)
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.now()
	}
	s.data.auditLogs = append(s.data.auditLogs, *log)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, filter audit.Filter) ([]models.AuditLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.AuditLog
	for _, l := range slices.Backward(s.data.auditLogs) {
		if l.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Entity != "" && l.Entity != filter.Entity {
			continue
		}
		if filter.From != nil && l.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !l.CreatedAt.Before(*filter.To) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	from := min(filter.Offset, len(matched))
	to := len(matched)
	if filter.Limit > 0 {
		to = min(from+filter.Limit, len(matched))
	}
	return matched[from:to], total, nil
}

var _ audit.Store = (*Store)(nil)
