package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/directory"
)

type ServiceHandler struct {
	tenant
	directory *directory.Manager
	slots     availability.ServiceSlotFinder
}

func NewServiceHandler(
	businesses domain.Repository,
	dir *directory.Manager,
	slots availability.ServiceSlotFinder,
	log zerolog.Logger,
) *ServiceHandler {
	return &ServiceHandler{
		tenant:    tenant{businesses: businesses, log: log},
		directory: dir,
		slots:     slots,
	}
}

type CreateServiceRequest struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description"`
	DurationMinutes      int    `json:"duration_minutes" binding:"required"`
	BufferMinutes        int    `json:"buffer_minutes"`
	OnlineBookingEnabled *bool  `json:"online_booking_enabled"`
}

type CreateRequirementRequest struct {
	ResourceID      string `json:"resource_id"`
	ResourceType    string `json:"resource_type"`
	Quantity        int    `json:"quantity"`
	IsRequired      *bool  `json:"is_required"`
	PreferenceOrder int    `json:"preference_order"`
	SetupMinutes    int    `json:"setup_minutes"`
	CleanupMinutes  int    `json:"cleanup_minutes"`

	PreferredResourceIDs []string `json:"preferred_resource_ids"`
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	s := &models.Service{
		Name:                 req.Name,
		Description:          req.Description,
		DurationMinutes:      req.DurationMinutes,
		BufferMinutes:        req.BufferMinutes,
		Active:               true,
		OnlineBookingEnabled: req.OnlineBookingEnabled == nil || *req.OnlineBookingEnabled,
	}
	s.BusinessID = middleware.BusinessID(c)

	if err := h.directory.CreateService(c.Request.Context(), s, middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ServiceHandler) List(c *gin.Context) {
	items, err := h.directory.ListServices(
		c.Request.Context(),
		middleware.BusinessID(c),
		c.Query("active") == "true",
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	s, err := h.directory.GetService(c.Request.Context(), middleware.BusinessID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ServiceHandler) AddRequirement(c *gin.Context) {
	serviceID, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	row := &models.ServiceResource{
		ServiceID:       serviceID,
		ResourceType:    req.ResourceType,
		Quantity:        req.Quantity,
		IsRequired:      req.IsRequired == nil || *req.IsRequired,
		PreferenceOrder: req.PreferenceOrder,
		SetupMinutes:    req.SetupMinutes,
		CleanupMinutes:  req.CleanupMinutes,
	}
	row.BusinessID = middleware.BusinessID(c)

	if req.ResourceID != "" {
		id, err := uuid.Parse(req.ResourceID)
		if err != nil {
			h.fail(c, httperr.ErrValidation("resource_id", "must be a UUID"))
			return
		}
		row.ResourceID = &id
	}

	if len(req.PreferredResourceIDs) > 0 {
		row.PreferredResourceIDs, err = uuidList("preferred_resource_ids", req.PreferredResourceIDs)
		if err != nil {
			h.fail(c, err)
			return
		}
	}

	if err := h.directory.AddRequirement(c.Request.Context(), row, middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, row)
}

func (h *ServiceHandler) ListRequirements(c *gin.Context) {
	serviceID, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	items, err := h.directory.ListRequirements(c.Request.Context(), middleware.BusinessID(c), serviceID)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, items)
}

// Availability is the staff view: no minimum-notice filtering.
func (h *ServiceHandler) Availability(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}
	serviceID, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	date, err := parseDateIn(business, "date", c.Query("date"))
	if err != nil {
		h.fail(c, err)
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

	c.JSON(http.StatusOK, gin.H{
		"date":      c.Query("date"),
		"available": result.Available,
		"slots":     result.Slots,
	})
}
