package repository

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// --------------------------------------------------
// Business
// --------------------------------------------------

func (s *GormStore) GetBusinessByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Business, error) {

	var b models.Business
	if err := s.conn(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrBusinessNotFound)
	}
	return &b, nil
}

func (s *GormStore) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	var b models.Business
	if err := s.conn(ctx).First(&b, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err, domain.ErrBusinessNotFound)
	}
	return &b, nil
}

func (s *GormStore) CreateBusiness(
	ctx context.Context,
	business *models.Business,
) error {
	return mapError(s.conn(ctx).Create(business).Error)
}

// --------------------------------------------------
// Client
// --------------------------------------------------

// GetOrCreateClient matches on phone, then email. A client with neither is
// always created fresh.
func (s *GormStore) GetOrCreateClient(
	ctx context.Context,
	businessID uuid.UUID,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	for _, key := range []struct{ column, value string }{
		{"phone", phone},
		{"email", email},
	} {
		if key.value == "" {
			continue
		}

		var found []models.Client
		if err := s.conn(ctx).
			Scopes(activeOnly).
			Where("business_id = ? AND "+key.column+" = ?", businessID, key.value).
			Order("created_at ASC").
			Limit(1).
			Find(&found).Error; err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return &found[0], nil
		}
	}

	client := &models.Client{Name: name, Phone: phone, Email: email}
	client.BusinessID = businessID

	if err := s.conn(ctx).Create(client).Error; err != nil {
		return nil, mapError(err)
	}
	return client, nil
}

// --------------------------------------------------
// Locks
// --------------------------------------------------

func (s *GormStore) LockResources(
	ctx context.Context,
	resourceIDs []uuid.UUID,
) error {

	if len(resourceIDs) == 0 {
		return nil
	}

	ids := slices.Clone(resourceIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})

	var locked []models.Resource
	return s.conn(ctx).
		Model(&models.Resource{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", slices.Compact(ids)).
		Order("id ASC").
		Find(&locked).Error
}

// --------------------------------------------------
// Appointment (create)
// --------------------------------------------------

func (s *GormStore) ReferenceExists(
	ctx context.Context,
	reference string,
) (bool, error) {

	var count int64
	if err := s.conn(ctx).
		Model(&models.Appointment{}).
		Where("reference = ?", reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAppointment inserts the appointment together with its allocations.
func (s *GormStore) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapError(s.conn(ctx).
		Omit("Service", "Client").
		Create(ap).Error)
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (s *GormStore) GetAppointment(
	ctx context.Context,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Preload("Service").
		Preload("Client").
		Preload("Resources").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrAppointmentNotFound)
	}
	return &ap, nil
}

func (s *GormStore) GetAppointmentForUpdate(
	ctx context.Context,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrAppointmentNotFound)
	}
	return &ap, nil
}

func (s *GormStore) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapError(s.conn(ctx).
		Omit(clause.Associations).
		Save(ap).Error)
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (s *GormStore) ListAppointmentsForPeriod(
	ctx context.Context,
	businessID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Preload("Service").
		Preload("Client").
		Preload("Resources").
		Where(
			"business_id = ? AND start_time >= ? AND start_time < ?",
			businessID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *GormStore) ListOverdueAppointments(
	ctx context.Context,
	status domain.Status,
	endBefore time.Time,
	limit int,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Where("status = ? AND end_time < ?", string(status), endBefore).
		Order("end_time ASC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

var _ domain.Repository = (*GormStore)(nil)
