// Package allocation decides which concrete resources an appointment would
// occupy at a given start. Both slot listing and booking plan through it.
package allocation

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Option pairs a requirement with the resources that may satisfy it, in
// the order they should be tried.
type Option struct {
	Requirement resource.Requirement
	Candidates  []models.Resource
}

// Assignment is one allocation row to be written.
type Assignment struct {
	RequirementID uuid.UUID
	ResourceID    uuid.UUID
	Window        calendar.Window
}

type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeBusy: a required resource is open but taken or blocked.
	OutcomeBusy
	// OutcomeClosed: no candidate of a required requirement is open.
	OutcomeClosed
)

// Planner holds one day's view: open windows per resource (closed
// resources are absent) and commitment timelines.
type Planner struct {
	Open      map[uuid.UUID]calendar.Window
	Timelines map[uuid.UUID]*conflict.Timeline
}

// Plan assigns resources for an appointment [start, start+d). Every
// candidate must be open for the whole appointment window and free over
// its buffered window. Setup and cleanup may fall outside opening hours.
// Optional requirements are assigned when possible and
// skipped otherwise.
//
// The search backtracks: a pool may give up a resource a later requirement
// names explicitly. The first complete plan in option then candidate order
// wins, so preferences are kept whenever they can be.
func (p Planner) Plan(options []Option, start time.Time, d time.Duration) ([]Assignment, Outcome) {
	s := &search{
		planner: p,
		options: options,
		start:   start,
		d:       d,
		appt:    calendar.NewWindow(start, start.Add(d)),
		used:    map[uuid.UUID]int{},
	}

	if out, ok := s.solve(0); ok {
		return out, OutcomeOK
	}

	for _, opt := range options {
		if opt.Requirement.Required && !s.anyOpen(opt) {
			return nil, OutcomeClosed
		}
	}
	return nil, OutcomeBusy
}

type search struct {
	planner Planner
	options []Option
	start   time.Time
	d       time.Duration
	appt    calendar.Window

	// units taken by the requirements already placed
	used map[uuid.UUID]int
}

func (s *search) solve(i int) ([]Assignment, bool) {
	if i == len(s.options) {
		return nil, true
	}

	opt := s.options[i]
	req := opt.Requirement
	buffered := req.Window(s.start, s.d)

	for picked := range s.choices(opt, buffered) {
		for _, a := range picked {
			s.used[a.ResourceID]++
		}
		rest, ok := s.solve(i + 1)
		for _, a := range picked {
			s.used[a.ResourceID]--
		}
		if ok {
			return append(picked, rest...), true
		}
	}

	if !req.Required {
		return s.solve(i + 1)
	}
	return nil, false
}

// choices yields every way to satisfy opt given the units already taken,
// in preference order. A specific requirement has at most one choice; a
// pool of quantity n yields n-combinations of distinct free candidates.
func (s *search) choices(opt Option, buffered calendar.Window) iter.Seq[[]Assignment] {
	req := opt.Requirement

	var free []models.Resource
	for _, res := range opt.Candidates {
		if !s.open(res) {
			continue
		}
		units := s.planner.freeUnits(res, buffered) - s.used[res.ID]
		if req.Specific() {
			if units >= req.Quantity {
				free = append(free, res)
			}
			break
		}
		if units >= 1 {
			free = append(free, res)
		}
	}

	return func(yield func([]Assignment) bool) {
		if req.Specific() {
			if len(free) == 0 {
				return
			}
			picked := make([]Assignment, 0, req.Quantity)
			for range req.Quantity {
				picked = append(picked, Assignment{RequirementID: req.ID, ResourceID: free[0].ID, Window: buffered})
			}
			yield(picked)
			return
		}

		for combo := range combinations(free, req.Quantity) {
			picked := make([]Assignment, 0, len(combo))
			for _, res := range combo {
				picked = append(picked, Assignment{RequirementID: req.ID, ResourceID: res.ID, Window: buffered})
			}
			if !yield(picked) {
				return
			}
		}
	}
}

func (s *search) open(res models.Resource) bool {
	w, ok := s.planner.Open[res.ID]
	return ok && w.Contains(s.appt)
}

func (s *search) anyOpen(opt Option) bool {
	for _, res := range opt.Candidates {
		if s.open(res) {
			return true
		}
		if opt.Requirement.Specific() {
			break
		}
	}
	return false
}

// combinations yields the k-element subsets of items in lexicographic
// index order.
func combinations(items []models.Resource, k int) iter.Seq[[]models.Resource] {
	return func(yield func([]models.Resource) bool) {
		if k <= 0 || k > len(items) {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			combo := make([]models.Resource, k)
			for i, j := range idx {
				combo[i] = items[j]
			}
			if !yield(combo) {
				return
			}

			i := k - 1
			for i >= 0 && idx[i] == len(items)-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

func (p Planner) freeUnits(res models.Resource, w calendar.Window) int {
	if tl, ok := p.Timelines[res.ID]; ok && tl != nil {
		return tl.FreeUnits(w)
	}
	return max(res.Capacity, 1)
}

// Required reports whether any option must be satisfied.
func Required(options []Option) bool {
	for _, o := range options {
		if o.Requirement.Required {
			return true
		}
	}
	return false
}

// Resources flattens the distinct candidates of all options.
func Resources(options []Option) []models.Resource {
	seen := map[uuid.UUID]bool{}
	var out []models.Resource
	for _, o := range options {
		for _, r := range o.Candidates {
			if !seen[r.ID] {
				seen[r.ID] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// Span bounds the candidate starts: the latest opening and the earliest
// closing across required options, each option contributing the widest
// window among its open candidates.
func (p Planner) Span(options []Option) (calendar.Window, bool) {
	var span calendar.Window
	first := true

	for _, o := range options {
		if !o.Requirement.Required {
			continue
		}

		var widest calendar.Window
		found := false
		for _, r := range o.Candidates {
			w, ok := p.Open[r.ID]
			if !ok {
				continue
			}
			if !found {
				widest, found = w, true
				continue
			}
			if w.Start.Before(widest.Start) {
				widest.Start = w.Start
			}
			if w.End.After(widest.End) {
				widest.End = w.End
			}
		}
		if !found {
			return calendar.Window{}, false
		}

		if first {
			span, first = widest, false
			continue
		}
		var ok bool
		if span, ok = span.Intersect(widest); !ok {
			return calendar.Window{}, false
		}
	}

	return span, !first
}
