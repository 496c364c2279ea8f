package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	tenant
	book   *appointment.BookAppointment
	change *appointment.ChangeStatus
	cancel *appointment.CancelAppointment
	list   *appointment.ListAppointments
	get    *appointment.GetAppointment
}

func NewAppointmentHandler(
	businesses domain.Repository,
	book *appointment.BookAppointment,
	change *appointment.ChangeStatus,
	cancel *appointment.CancelAppointment,
	list *appointment.ListAppointments,
	get *appointment.GetAppointment,
	log zerolog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		tenant: tenant{businesses: businesses, log: log},
		book:   book,
		change: change,
		cancel: cancel,
		list:   list,
		get:    get,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID   string   `json:"service_id" binding:"required"`
	StartTime   string   `json:"start_time"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	ResourceIDs []string `json:"resource_ids"`
	ClientName  string   `json:"client_name" binding:"required"`
	ClientPhone string   `json:"client_phone" binding:"required"`
	ClientEmail string   `json:"client_email"`
	Source      string   `json:"source"`
	Confirmed   bool     `json:"confirmed"`
	Notes       string   `json:"notes"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in, err := publicBookingInput(business, PublicCreateAppointmentRequest{
		ServiceID:   req.ServiceID,
		StartTime:   req.StartTime,
		Date:        req.Date,
		Time:        req.Time,
		ResourceIDs: req.ResourceIDs,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	in.Public = false
	in.Confirmed = req.Confirmed
	in.Source = domain.SourceManual
	if req.Source != "" {
		in.Source = domain.Source(req.Source)
	}
	in.ActorID = middleware.UserID(c)

	ap, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookingResponse(ap))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}

	date, err := parseDateIn(business, "date", c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}

	items, err := h.list.ByDate(c.Request.Context(), business.ID, date)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         c.Query("date"),
		"appointments": items,
	})
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		h.fail(c, httperr.ErrValidation("year", "must be between 2000 and 2100"))
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		h.fail(c, httperr.ErrValidation("month", "must be between 1 and 12"))
		return
	}

	items, err := h.list.ByMonth(c.Request.Context(), business.ID, year, month)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.BusinessID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.change.Execute(c.Request.Context(), appointment.ChangeStatusInput{
		BusinessID:    middleware.BusinessID(c),
		AppointmentID: id,
		Status:        domain.Status(req.Status),
		Reason:        req.Reason,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse(ap.ID, ap.Status))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req CancelRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		middleware.BusinessID(c),
		id,
		req.Reason,
		middleware.UserID(c),
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse(ap.ID, ap.Status))
}

func statusResponse(id uuid.UUID, status string) gin.H {
	return gin.H{
		"success":        true,
		"appointment_id": id,
		"status":         status,
	}
}
