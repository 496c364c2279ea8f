package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/directory"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	tenant
	directory *directory.Manager
	slots     availability.ServiceSlotFinder
	book      *appointment.BookAppointment
	now       func() time.Time
}

func NewPublicHandler(
	businesses domain.Repository,
	dir *directory.Manager,
	slots availability.ServiceSlotFinder,
	book *appointment.BookAppointment,
	now func() time.Time,
	log zerolog.Logger,
) *PublicHandler {
	return &PublicHandler{
		tenant:    tenant{businesses: businesses, log: log},
		directory: dir,
		slots:     slots,
		book:      book,
		now:       now,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ServiceID   string   `json:"service_id" binding:"required"`
	StartTime   string   `json:"start_time"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Time        string   `json:"time"` // HH:mm
	ResourceIDs []string `json:"resource_ids"`
	ClientName  string   `json:"client_name" binding:"required"`
	ClientPhone string   `json:"client_phone" binding:"required"`
	ClientEmail string   `json:"client_email"`
	Notes       string   `json:"notes"`
}

type publicService struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	business, ok := h.bySlug(c)
	if !ok {
		return
	}

	services, err := h.directory.ListServices(c.Request.Context(), business.ID, true)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]publicService, 0, len(services))
	for _, s := range services {
		if !s.OnlineBookingEnabled {
			continue
		}
		out = append(out, publicService{
			ID:              s.ID,
			Name:            s.Name,
			Description:     s.Description,
			DurationMinutes: s.DurationMinutes,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"name":     business.Name,
			"slug":     business.Slug,
			"timezone": business.Timezone,
		},
		"services": out,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability drops slots already inside the business's minimum notice.
func (h *PublicHandler) Availability(c *gin.Context) {
	business, ok := h.bySlug(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		h.fail(c, httperr.ErrValidation("service_id", "must be a UUID"))
		return
	}
	date, err := parseDateIn(business, "date", c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}

	service, err := h.directory.GetService(c.Request.Context(), business.ID, serviceID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !service.OnlineBookingEnabled {
		h.fail(c, httperr.ErrBusiness("online_booking_disabled"))
		return
	}

	result, err := h.slots.Execute(c.Request.Context(), availability.ServiceSlotsInput{
		BusinessID: business.ID,
		ServiceID:  serviceID,
		Date:       date,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	earliest := h.now().Add(time.Duration(business.MinAdvanceMinutes) * time.Minute)
	slots := make([]availability.Slot, 0, len(result.Slots))
	for _, s := range result.Slots {
		if s.Start.Before(earliest) {
			continue
		}
		slots = append(slots, s)
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      c.Query("date"),
		"available": len(slots) > 0,
		"slots":     slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	business, ok := h.bySlug(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in, err := publicBookingInput(business, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookingResponse(ap))
}

func publicBookingInput(business *models.Business, req PublicCreateAppointmentRequest) (appointment.BookAppointmentInput, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return appointment.BookAppointmentInput{}, httperr.ErrValidation("service_id", "must be a UUID")
	}
	start, err := startFrom(business, req.StartTime, req.Date, req.Time)
	if err != nil {
		return appointment.BookAppointmentInput{}, err
	}
	requested, err := uuidList("resource_ids", req.ResourceIDs)
	if err != nil {
		return appointment.BookAppointmentInput{}, err
	}

	return appointment.BookAppointmentInput{
		BusinessID:           business.ID,
		ServiceID:            serviceID,
		Start:                start,
		ClientName:           req.ClientName,
		ClientPhone:          req.ClientPhone,
		ClientEmail:          req.ClientEmail,
		RequestedResourceIDs: requested,
		Public:               true,
		Source:               domain.SourceOnline,
		Notes:                req.Notes,
	}, nil
}

func bookingResponse(ap *models.Appointment) gin.H {
	return gin.H{
		"success":           true,
		"appointment_id":    ap.ID,
		"booking_reference": ap.Reference,
		"status":            ap.Status,
		"start_time":        ap.StartTime,
		"end_time":          ap.EndTime,
	}
}
