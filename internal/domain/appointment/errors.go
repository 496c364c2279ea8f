package appointment

import "github.com/BruksfildServices01/booking-engine/internal/httperr"

var (
	ErrSlotConflict            = httperr.ErrBusiness("slot_conflict")
	ErrInvalidStatusTransition = httperr.ErrBusiness("invalid_status_transition")
	ErrResourceUnavailable     = httperr.ErrBusiness("resource_unavailable")

	ErrAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	ErrBusinessNotFound    = httperr.ErrBusiness("business_not_found")
	ErrReferenceExhausted  = httperr.ErrBusiness("reference_generation_failed")
)
