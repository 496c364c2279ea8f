// Package availability answers when resources and services can be booked.
// Every read here is a lock-free snapshot; the booking transaction
// re-validates whatever it is handed.
package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/domain/allocation"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const (
	DefaultHorizonDays = 30
	MaxHorizonDays     = 366
)

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusinessLookup resolves the tenant and with it the timezone every date
// is read in.
type BusinessLookup interface {
	GetBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
}

// ======================================================
// DAY PLANNING
// ======================================================

// engine is shared by the use cases of this package.
type engine struct {
	directory *resource.Directory
	detector  *conflict.Detector
	step      time.Duration
}

func newEngine(
	directory *resource.Directory,
	detector *conflict.Detector,
	step time.Duration,
) engine {
	if step <= 0 {
		step = calendar.DefaultGranularity
	}
	return engine{directory: directory, detector: detector, step: step}
}

// plan lists every start on day at which all required options can be
// satisfied for an appointment lasting d.
func (e engine) plan(
	ctx context.Context,
	options []allocation.Option,
	day time.Time,
	d time.Duration,
) ([]time.Time, error) {

	if !allocation.Required(options) {
		return nil, nil
	}

	resources := allocation.Resources(options)

	open, err := e.directory.OpenWindows(ctx, resources, day)
	if err != nil {
		return nil, err
	}

	planner := allocation.Planner{Open: open}
	span, ok := planner.Span(options)
	if !ok {
		return nil, nil
	}

	setup, cleanup := resource.MaxBuffers(allocation.Requirements(options))

	planner.Timelines, err = e.detector.Timelines(ctx, resources, span.Extend(setup, cleanup))
	if err != nil {
		return nil, err
	}

	var out []time.Time
	for start := range calendar.Slots(span, d, e.step) {
		if _, outcome := planner.Plan(options, start, d); outcome == allocation.OutcomeOK {
			out = append(out, start)
		}
	}
	return out, nil
}

// singleResource expresses "this resource alone for d" as one required
// option.
func singleResource(res models.Resource) []allocation.Option {
	id := res.ID

	var candidates []models.Resource
	if res.Active && !res.IsDeleted() {
		candidates = []models.Resource{res}
	}

	return []allocation.Option{{
		Requirement: resource.Requirement{
			ID:           id,
			ResourceID:   &id,
			ResourceType: resource.Type(res.Type),
			Quantity:     1,
			Required:     true,
		},
		Candidates: candidates,
	}}
}

func businessDay(b *models.Business, date time.Time) time.Time {
	loc := locationOf(b)
	return calendar.StartOfDay(date.In(loc))
}
