package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/directory"
)

// ======================================================
// HANDLER
// ======================================================

type ResourceHandler struct {
	tenant
	directory   *directory.Manager
	detector    *conflict.Detector
	slots       *availability.GetResourceSlots
	nextSlot    *availability.GetNextAvailableSlot
	utilization *availability.GetUtilization
}

func NewResourceHandler(
	businesses domain.Repository,
	dir *directory.Manager,
	detector *conflict.Detector,
	slots *availability.GetResourceSlots,
	nextSlot *availability.GetNextAvailableSlot,
	utilization *availability.GetUtilization,
	log zerolog.Logger,
) *ResourceHandler {
	return &ResourceHandler{
		tenant:      tenant{businesses: businesses, log: log},
		directory:   dir,
		detector:    detector,
		slots:       slots,
		nextSlot:    nextSlot,
		utilization: utilization,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateResourceRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
}

type UpdateResourceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity"`
	Active      *bool   `json:"active"`
}

type CreateScheduleRequest struct {
	DayOfWeek      *int   `json:"day_of_week" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	EffectiveFrom  string `json:"effective_from"`
	EffectiveUntil string `json:"effective_until"`
}

type CreateBlockRequest struct {
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	BlockType      string `json:"block_type"`
	Reason         string `json:"reason"`
	IsRecurring    bool   `json:"is_recurring"`
	RecurrenceRule string `json:"recurrence_rule"`
}

// ======================================================
// RESOURCES
// ======================================================

func (h *ResourceHandler) Create(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res := &models.Resource{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Capacity:    req.Capacity,
		Active:      true,
	}
	res.BusinessID = middleware.BusinessID(c)

	if err := h.directory.CreateResource(c.Request.Context(), res, middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, res)
}

func (h *ResourceHandler) List(c *gin.Context) {
	filter := resource.ListFilter{
		ActiveOnly: c.Query("active") == "true",
		Type:       resource.Type(c.Query("type")),
	}

	items, err := h.directory.ListResources(c.Request.Context(), middleware.BusinessID(c), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *ResourceHandler) Get(c *gin.Context) {
	res, ok := h.resource(c)
	if !ok {
		return
	}
	httpresp.OK(c, res)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.directory.UpdateResource(
		c.Request.Context(),
		middleware.BusinessID(c),
		id,
		directory.ResourcePatch{
			Name:        req.Name,
			Description: req.Description,
			Capacity:    req.Capacity,
			Active:      req.Active,
		},
		middleware.UserID(c),
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// SCHEDULES
// ======================================================

func (h *ResourceHandler) AddSchedule(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	s := &models.ResourceSchedule{
		ResourceID: id,
		DayOfWeek:  *req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Active:     true,
	}
	s.BusinessID = business.ID

	if req.EffectiveFrom != "" {
		from, err := parseDateIn(business, "effective_from", req.EffectiveFrom)
		if err != nil {
			h.fail(c, err)
			return
		}
		s.EffectiveFrom = &from
	}
	if req.EffectiveUntil != "" {
		until, err := parseDateIn(business, "effective_until", req.EffectiveUntil)
		if err != nil {
			h.fail(c, err)
			return
		}
		s.EffectiveUntil = &until
	}

	if err := h.directory.AddSchedule(c.Request.Context(), s, middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ResourceHandler) ListSchedules(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	items, err := h.directory.ListSchedules(c.Request.Context(), middleware.BusinessID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// BLOCKS
// ======================================================

func (h *ResourceHandler) AddBlock(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := parseInstantIn(business, "start_time", req.StartTime)
	if err != nil {
		h.fail(c, err)
		return
	}
	end, err := parseInstantIn(business, "end_time", req.EndTime)
	if err != nil {
		h.fail(c, err)
		return
	}

	b := &models.ResourceBlock{
		ResourceID:     id,
		StartTime:      start,
		EndTime:        end,
		BlockType:      req.BlockType,
		Reason:         req.Reason,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
	}
	b.BusinessID = business.ID

	if err := h.directory.AddBlock(c.Request.Context(), b, middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *ResourceHandler) DeleteBlock(c *gin.Context) {
	blockID, err := uuidParam(c, "blockId")
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.directory.DeleteBlock(c.Request.Context(), middleware.BusinessID(c), blockID, middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *ResourceHandler) Availability(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	date, err := parseDateIn(business, "date", c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	duration, err := queryInt(c, "duration", 0)
	if err != nil {
		h.fail(c, err)
		return
	}

	starts, err := h.slots.Execute(c.Request.Context(), availability.ResourceSlotsInput{
		BusinessID:      business.ID,
		ResourceID:      id,
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	slots := make([]availability.Slot, 0, len(starts))
	for _, s := range starts {
		slots = append(slots, availability.Slot{Start: s, End: s.Add(time.Duration(duration) * time.Minute)})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      c.Query("date"),
		"available": len(slots) > 0,
		"slots":     slots,
	})
}

func (h *ResourceHandler) NextSlot(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	duration, err := queryInt(c, "duration", 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	horizon, err := queryInt(c, "horizon_days", 0)
	if err != nil {
		h.fail(c, err)
		return
	}

	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		if from, err = parseInstantIn(business, "from", raw); err != nil {
			h.fail(c, err)
			return
		}
	}

	slot, err := h.nextSlot.Execute(c.Request.Context(), availability.NextSlotInput{
		BusinessID:      business.ID,
		ResourceID:      id,
		DurationMinutes: duration,
		From:            from,
		HorizonDays:     horizon,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"found": slot != nil,
		"slot":  slot,
	})
}

// Utilization takes an inclusive from/to date range.
func (h *ResourceHandler) Utilization(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	from, err := parseDateIn(business, "from", c.Query("from"))
	if err != nil {
		h.fail(c, err)
		return
	}
	to, err := parseDateIn(business, "to", c.Query("to"))
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.utilization.Execute(c.Request.Context(), availability.UtilizationInput{
		BusinessID: business.ID,
		ResourceID: id,
		From:       from,
		To:         to.AddDate(0, 0, 1),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, result)
}

func (h *ResourceHandler) Conflicts(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}
	res, ok := h.resource(c)
	if !ok {
		return
	}
	start, err := parseInstantIn(business, "start", c.Query("start"))
	if err != nil {
		h.fail(c, err)
		return
	}
	end, err := parseInstantIn(business, "end", c.Query("end"))
	if err != nil {
		h.fail(c, err)
		return
	}

	conflicts, err := h.detector.ListConflicts(c.Request.Context(), *res, start, end)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_id":  res.ID,
		"has_conflict": len(conflicts) > 0,
		"conflicts":    conflicts,
	})
}

func (h *ResourceHandler) resource(c *gin.Context) (*models.Resource, bool) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	res, err := h.directory.GetResource(c.Request.Context(), middleware.BusinessID(c), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return res, true
}
