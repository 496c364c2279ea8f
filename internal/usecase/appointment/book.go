package appointment

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/domain/allocation"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	"github.com/BruksfildServices01/booking-engine/internal/validators"
)

const maxNotesLen = 255

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	BusinessID uuid.UUID
	ServiceID  uuid.UUID
	Start      time.Time

	ClientName  string
	ClientPhone string
	ClientEmail string

	// RequestedResourceIDs are tried first for pool requirements.
	RequestedResourceIDs []uuid.UUID

	// Confirmed marks a trusted caller whose bookings skip pending.
	Confirmed bool
	// Public bookings honour the online-booking flag and minimum notice.
	Public bool

	Source  domain.Source
	Notes   string
	ActorID *uuid.UUID
}

func (in *BookAppointmentInput) validate() error {
	switch {
	case in.BusinessID == uuid.Nil:
		return httperr.ErrValidation("business_id", "required")
	case in.ServiceID == uuid.Nil:
		return httperr.ErrValidation("service_id", "required")
	case in.Start.IsZero():
		return httperr.ErrValidation("start_time", "required")
	case len(in.Notes) > maxNotesLen:
		return httperr.ErrValidation("notes", "too long")
	}

	if in.Source == "" {
		in.Source = domain.SourceOnline
	}
	if !in.Source.Valid() {
		return httperr.ErrValidation("source", "unknown source")
	}

	name, phone, email, err := validators.Client(in.ClientName, in.ClientPhone, in.ClientEmail)
	if err != nil {
		return err
	}
	in.ClientName, in.ClientPhone, in.ClientEmail = name, phone, email
	return nil
}

// ======================================================
// USE CASE
// ======================================================

// BookAppointment is the only path that writes appointments and their
// resource allocations.
type BookAppointment struct {
	deps      Deps
	directory *resource.Directory
}

func NewBookAppointment(deps Deps) *BookAppointment {
	return &BookAppointment{
		deps:      deps,
		directory: resource.NewDirectory(deps.Resources),
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute re-checks every required resource under row locks and writes the
// appointment with one allocation per assigned resource. A busy resource
// fails with ErrSlotConflict and writes nothing. Conflicts are never
// retried here.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if err := in.validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Business time
	// --------------------------------------------------
	business, err := uc.deps.Appointments.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)
	start := in.Start.In(loc)
	now := uc.deps.now()

	if in.Public {
		notice := time.Duration(business.MinAdvanceMinutes) * time.Minute
		if start.Before(now.Add(notice)) {
			return nil, httperr.ErrBusiness("too_soon")
		}
	}

	// --------------------------------------------------
	// 3. Service and what it consumes
	// --------------------------------------------------
	service, reqs, err := uc.directory.RequiredResources(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if in.Public && !service.OnlineBookingEnabled {
		return nil, httperr.ErrBusiness("online_booking_disabled")
	}

	options, err := allocation.Options(ctx, uc.directory, in.BusinessID, reqs, in.RequestedResourceIDs)
	if err != nil {
		return nil, err
	}
	if !allocation.Required(options) {
		return nil, domain.ErrResourceUnavailable
	}

	d := time.Duration(service.DurationMinutes) * time.Minute
	end := start.Add(d)
	setup, cleanup := resource.MaxBuffers(reqs)

	// --------------------------------------------------
	// 4. Transaction
	// --------------------------------------------------
	var ap *models.Appointment

	err = uc.deps.Appointments.WithinTransaction(ctx, func(ctx context.Context) error {
		resources := allocation.Resources(options)

		if err := uc.deps.Appointments.LockResources(ctx, resourceIDs(resources)); err != nil {
			return err
		}

		// 4.1 Re-check under the locks
		open, err := uc.directory.OpenWindows(ctx, resources, calendar.StartOfDay(start))
		if err != nil {
			return err
		}
		timelines, err := uc.deps.Detector.Timelines(
			ctx,
			resources,
			calendar.NewWindow(start, end).Extend(setup, cleanup),
		)
		if err != nil {
			return err
		}

		planner := allocation.Planner{Open: open, Timelines: timelines}
		assignments, outcome := planner.Plan(options, start, d)
		switch outcome {
		case allocation.OutcomeBusy:
			return domain.ErrSlotConflict
		case allocation.OutcomeClosed:
			return domain.ErrResourceUnavailable
		}

		// 4.2 Client
		client, err := uc.deps.Appointments.GetOrCreateClient(
			ctx,
			in.BusinessID,
			in.ClientName,
			in.ClientPhone,
			in.ClientEmail,
		)
		if err != nil {
			return err
		}

		// 4.3 Reference
		ref, err := domain.UniqueReference(ctx, business.Slug, start, uc.deps.Appointments.ReferenceExists)
		if err != nil {
			return err
		}

		// 4.4 Appointment + allocations
		status := domain.InitialStatus(in.Confirmed || business.AutoConfirm)

		ap = &models.Appointment{
			ServiceID: service.ID,
			ClientID:  client.ID,
			StartTime: start,
			EndTime:   end,
			Status:    string(status),
			Source:    string(in.Source),
			Reference: ref,
			Notes:     in.Notes,
		}
		ap.BusinessID = in.BusinessID
		ap.Audit.CreatedBy = in.ActorID
		ap.Audit.UpdatedBy = in.ActorID
		if status == domain.StatusConfirmed {
			ap.ConfirmedAt = &now
		}

		for _, a := range assignments {
			ap.Resources = append(ap.Resources, models.AppointmentResource{
				ResourceID:     a.ResourceID,
				AllocatedStart: a.Window.Start,
				AllocatedEnd:   a.Window.End,
			})
		}

		if err := uc.deps.Appointments.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		ap.Service = service
		ap.Client = client
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			uc.deps.Log.Info().
				Str("business_id", in.BusinessID.String()).
				Str("service_id", in.ServiceID.String()).
				Time("start_time", start).
				Msg("booking rejected: slot conflict")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 5. After commit
	// --------------------------------------------------
	eventType := ""
	if ap.Status == string(domain.StatusConfirmed) {
		eventType = notify.TypeBookingConfirmed
	}

	uc.deps.afterCommit(ctx, ap, loc, true, eventType, audit.Event{
		BusinessID: ap.BusinessID,
		UserID:     in.ActorID,
		Action:     audit.ActionAppointmentCreated,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"reference": ap.Reference,
			"status":    ap.Status,
			"source":    ap.Source,
			"start":     ap.StartTime,
		},
	})

	return ap, nil
}

func resourceIDs(resources []models.Resource) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids
}
