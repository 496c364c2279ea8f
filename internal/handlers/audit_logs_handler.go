package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	tenant
	store audit.Store
}

func NewAuditLogsHandler(businesses domain.Repository, store audit.Store, log zerolog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{
		tenant: tenant{businesses: businesses, log: log},
		store:  store,
	}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	business, ok := h.current(c)
	if !ok {
		return
	}

	page, _ := queryInt(c, "page", 1)
	if page <= 0 {
		page = 1
	}

	limit, _ := queryInt(c, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	filter := audit.Filter{
		BusinessID: business.ID,
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	// --------------------------------------------------
	// Optional date range, inclusive, in business time
	// --------------------------------------------------

	if raw := c.Query("from"); raw != "" {
		from, err := parseDateIn(business, "from", raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		filter.From = &from
	}

	if raw := c.Query("to"); raw != "" {
		to, err := parseDateIn(business, "to", raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}

	logs, total, err := h.store.ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
