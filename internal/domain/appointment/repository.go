package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type Repository interface {
	// -------- Transaction --------

	// WithinTransaction runs fn in one transaction. Repository calls made
	// with the ctx handed to fn join that transaction.
	WithinTransaction(
		ctx context.Context,
		fn func(ctx context.Context) error,
	) error

	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Business, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	CreateBusiness(
		ctx context.Context,
		business *models.Business,
	) error

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		businessID uuid.UUID,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Locks --------

	// LockResources takes row locks on the given resources until the
	// surrounding transaction ends.
	LockResources(
		ctx context.Context,
		resourceIDs []uuid.UUID,
	) error

	// -------- Appointment (create) --------
	ReferenceExists(
		ctx context.Context,
		reference string,
	) (bool, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		businessID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	GetAppointmentForUpdate(
		ctx context.Context,
		businessID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		businessID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// ListOverdueAppointments returns appointments in status whose end is
	// before endBefore, across all businesses.
	ListOverdueAppointments(
		ctx context.Context,
		status Status,
		endBefore time.Time,
		limit int,
	) ([]models.Appointment, error)
}
