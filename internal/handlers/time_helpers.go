package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// --------------------------------------------------
// Tenant resolution
// --------------------------------------------------

type tenant struct {
	businesses domain.Repository
	log        zerolog.Logger
}

// current loads the business named by the token.
func (t tenant) current(c *gin.Context) (*models.Business, bool) {
	b, err := t.businesses.GetBusinessByID(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		httperr.Respond(c, t.log, err)
		return nil, false
	}
	return b, true
}

// bySlug loads the business of a public route.
func (t tenant) bySlug(c *gin.Context) (*models.Business, bool) {
	b, err := t.businesses.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.Respond(c, t.log, err)
		return nil, false
	}
	return b, true
}

func (t tenant) fail(c *gin.Context, err error) {
	httperr.Respond(c, t.log, err)
}

// --------------------------------------------------
// Request parsing, always in business time
// --------------------------------------------------

func parseDateIn(b *models.Business, field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, httperr.ErrValidation(field, "is required")
	}
	d, err := timezone.ParseDate(b.Timezone, value)
	if err != nil {
		return time.Time{}, httperr.ErrValidation(field, "must be YYYY-MM-DD")
	}
	return d, nil
}

func parseInstantIn(b *models.Business, field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, httperr.ErrValidation(field, "is required")
	}
	t, err := timezone.ParseInstant(b.Timezone, value)
	if err != nil {
		return time.Time{}, httperr.ErrValidation(field, "must be RFC 3339 or YYYY-MM-DDTHH:MM")
	}
	return t, nil
}

// startFrom accepts either start_time or a date and time pair.
func startFrom(b *models.Business, startTime, date, clock string) (time.Time, error) {
	if startTime != "" {
		return parseInstantIn(b, "start_time", startTime)
	}
	if date == "" || clock == "" {
		return time.Time{}, httperr.ErrValidation("start_time", "is required")
	}
	t, err := timezone.ParseDateTime(b.Timezone, date, clock)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("start_time", "invalid date or time")
	}
	return t, nil
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, httperr.ErrValidation(name, "must be a UUID")
	}
	return id, nil
}

func uuidList(field string, raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, httperr.ErrValidation(field, "must contain UUIDs")
		}
		out = append(out, id)
	}
	return out, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, httperr.ErrValidation(name, "must be an integer")
	}
	return n, nil
}
