package allocation

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func at(h, m int) time.Time {
	return time.Date(2025, time.March, 3, h, m, 0, 0, time.UTC)
}

func newResource(name string, typ resource.Type) models.Resource {
	r := models.Resource{Name: name, Type: string(typ), Capacity: 1, Active: true}
	r.ID = uuid.New()
	return r
}

func specific(r models.Resource) resource.Requirement {
	id := r.ID
	return resource.Requirement{ID: uuid.New(), ResourceID: &id, Quantity: 1, Required: true}
}

func pool(t resource.Type, qty int) resource.Requirement {
	return resource.Requirement{ID: uuid.New(), ResourceType: t, Quantity: qty, Required: true}
}

func busyTimeline(r models.Resource, start, end time.Time) *conflict.Timeline {
	return conflict.NewTimeline(r, nil, []models.AppointmentResource{{
		ResourceID:        r.ID,
		AllocatedStart:    start,
		AllocatedEnd:      end,
		AppointmentStatus: string(appointment.StatusConfirmed),
	}})
}

func TestPlanIntersectsResources(t *testing.T) {
	staff := newResource("Ana", resource.TypeStaff)
	room := newResource("Room A", resource.TypeRoom)

	p := Planner{Open: map[uuid.UUID]calendar.Window{
		staff.ID: calendar.NewWindow(at(9, 0), at(12, 0)),
		room.ID:  calendar.NewWindow(at(10, 0), at(18, 0)),
	}}
	options := []Option{
		{Requirement: specific(staff), Candidates: []models.Resource{staff}},
		{Requirement: specific(room), Candidates: []models.Resource{room}},
	}

	span, ok := p.Span(options)
	if !ok || !span.Start.Equal(at(10, 0)) || !span.End.Equal(at(12, 0)) {
		t.Fatalf("span = %s ok=%v", span, ok)
	}

	cases := []struct {
		start time.Time
		want  Outcome
	}{
		{at(9, 0), OutcomeClosed},
		{at(10, 0), OutcomeOK},
		{at(11, 0), OutcomeOK},
		{at(11, 30), OutcomeClosed},
	}
	for _, tc := range cases {
		got, outcome := p.Plan(options, tc.start, time.Hour)
		if outcome != tc.want {
			t.Errorf("Plan(%s) outcome = %v, want %v", tc.start.Format("15:04"), outcome, tc.want)
		}
		if outcome == OutcomeOK && len(got) != 2 {
			t.Errorf("Plan(%s) assigned %d resources", tc.start.Format("15:04"), len(got))
		}
	}
}

func TestPlanPrefersCandidateOrder(t *testing.T) {
	first := newResource("Ana", resource.TypeStaff)
	second := newResource("Bia", resource.TypeStaff)
	day := calendar.NewWindow(at(9, 0), at(18, 0))

	p := Planner{
		Open: map[uuid.UUID]calendar.Window{first.ID: day, second.ID: day},
		Timelines: map[uuid.UUID]*conflict.Timeline{
			first.ID: busyTimeline(first, at(10, 0), at(11, 0)),
		},
	}
	options := []Option{{Requirement: pool(resource.TypeStaff, 1), Candidates: []models.Resource{first, second}}}

	got, outcome := p.Plan(options, at(9, 0), time.Hour)
	if outcome != OutcomeOK || got[0].ResourceID != first.ID {
		t.Fatalf("09:00 should use the first candidate, got %v %v", outcome, got)
	}

	got, outcome = p.Plan(options, at(10, 0), time.Hour)
	if outcome != OutcomeOK || got[0].ResourceID != second.ID {
		t.Fatalf("10:00 should fall back to the second candidate, got %v %v", outcome, got)
	}
}

func TestPlanPoolQuantity(t *testing.T) {
	a := newResource("A", resource.TypeEquipment)
	b := newResource("B", resource.TypeEquipment)
	day := calendar.NewWindow(at(9, 0), at(18, 0))

	p := Planner{Open: map[uuid.UUID]calendar.Window{a.ID: day, b.ID: day}}

	_, outcome := p.Plan([]Option{{Requirement: pool(resource.TypeEquipment, 2), Candidates: []models.Resource{a, b}}}, at(9, 0), time.Hour)
	if outcome != OutcomeOK {
		t.Fatalf("two units from two resources should fit, got %v", outcome)
	}

	_, outcome = p.Plan([]Option{{Requirement: pool(resource.TypeEquipment, 3), Candidates: []models.Resource{a, b}}}, at(9, 0), time.Hour)
	if outcome != OutcomeBusy {
		t.Fatalf("three units from two resources should be busy, got %v", outcome)
	}
}

func TestPlanBuffersConsumeResource(t *testing.T) {
	room := newResource("Room A", resource.TypeRoom)
	req := specific(room)
	req.Cleanup = 30 * time.Minute

	p := Planner{
		Open: map[uuid.UUID]calendar.Window{room.ID: calendar.NewWindow(at(9, 0), at(18, 0))},
		Timelines: map[uuid.UUID]*conflict.Timeline{
			room.ID: busyTimeline(room, at(11, 0), at(12, 0)),
		},
	}

	_, outcome := p.Plan([]Option{{Requirement: req, Candidates: []models.Resource{room}}}, at(10, 0), time.Hour)
	if outcome != OutcomeBusy {
		t.Fatalf("cleanup overlapping the next allocation must be busy, got %v", outcome)
	}
}

func TestPlanBuffersMayLeaveOpenHours(t *testing.T) {
	room := newResource("Room A", resource.TypeRoom)
	req := specific(room)
	req.Setup = 15 * time.Minute
	req.Cleanup = 15 * time.Minute

	p := Planner{Open: map[uuid.UUID]calendar.Window{room.ID: calendar.NewWindow(at(9, 0), at(18, 0))}}
	options := []Option{{Requirement: req, Candidates: []models.Resource{room}}}

	cases := []struct {
		name  string
		start time.Time
		want  Outcome
	}{
		{"setup before opening", at(9, 0), OutcomeOK},
		{"cleanup after closing", at(17, 0), OutcomeOK},
		{"appointment after closing", at(17, 30), OutcomeClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, outcome := p.Plan(options, tc.start, time.Hour)
			if outcome != tc.want {
				t.Fatalf("outcome = %v, want %v", outcome, tc.want)
			}
			if outcome == OutcomeOK && !got[0].Window.Start.Equal(tc.start.Add(-15*time.Minute)) {
				t.Fatalf("buffered window = %s", got[0].Window)
			}
		})
	}
}

func TestPlanOptionalSkipped(t *testing.T) {
	staff := newResource("Ana", resource.TypeStaff)
	gear := newResource("Laser", resource.TypeEquipment)
	day := calendar.NewWindow(at(9, 0), at(18, 0))

	optional := specific(gear)
	optional.Required = false

	p := Planner{
		Open: map[uuid.UUID]calendar.Window{staff.ID: day, gear.ID: day},
		Timelines: map[uuid.UUID]*conflict.Timeline{
			gear.ID: busyTimeline(gear, at(9, 0), at(18, 0)),
		},
	}
	options := []Option{
		{Requirement: specific(staff), Candidates: []models.Resource{staff}},
		{Requirement: optional, Candidates: []models.Resource{gear}},
	}

	got, outcome := p.Plan(options, at(9, 0), time.Hour)
	if outcome != OutcomeOK || len(got) != 1 || got[0].ResourceID != staff.ID {
		t.Fatalf("optional busy resource should be skipped, got %v %v", outcome, got)
	}
}

func TestPlanSameResourceAcrossRequirements(t *testing.T) {
	staff := newResource("Ana", resource.TypeStaff)
	day := calendar.NewWindow(at(9, 0), at(18, 0))
	p := Planner{Open: map[uuid.UUID]calendar.Window{staff.ID: day}}

	options := []Option{
		{Requirement: pool(resource.TypeStaff, 1), Candidates: []models.Resource{staff}},
		{Requirement: pool(resource.TypeStaff, 1), Candidates: []models.Resource{staff}},
	}
	if _, outcome := p.Plan(options, at(9, 0), time.Hour); outcome != OutcomeBusy {
		t.Fatalf("one staff cannot fill two seats, got %v", outcome)
	}
}

func TestPlanPoolYieldsToSpecificRequirement(t *testing.T) {
	alice := newResource("Alice", resource.TypeStaff)
	bruno := newResource("Bruno", resource.TypeStaff)
	day := calendar.NewWindow(at(9, 0), at(18, 0))
	p := Planner{Open: map[uuid.UUID]calendar.Window{alice.ID: day, bruno.ID: day}}

	// any staff first, then Alice by name
	options := []Option{
		{Requirement: pool(resource.TypeStaff, 1), Candidates: []models.Resource{alice, bruno}},
		{Requirement: specific(alice), Candidates: []models.Resource{alice}},
	}

	got, outcome := p.Plan(options, at(10, 0), time.Hour)
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %v, want OK", outcome)
	}
	if len(got) != 2 || got[0].ResourceID != bruno.ID || got[1].ResourceID != alice.ID {
		t.Fatalf("pool should move to Bruno and leave Alice to her own requirement, got %+v", got)
	}
}

func TestPlanBacktracksAcrossPools(t *testing.T) {
	ana := newResource("Ana", resource.TypeStaff)
	bia := newResource("Bia", resource.TypeStaff)
	day := calendar.NewWindow(at(9, 0), at(18, 0))
	p := Planner{Open: map[uuid.UUID]calendar.Window{ana.ID: day, bia.ID: day}}

	// the second seat only accepts Ana
	options := []Option{
		{Requirement: pool(resource.TypeStaff, 1), Candidates: []models.Resource{ana, bia}},
		{Requirement: pool(resource.TypeStaff, 1), Candidates: []models.Resource{ana}},
	}

	got, outcome := p.Plan(options, at(9, 0), time.Hour)
	if outcome != OutcomeOK || got[0].ResourceID != bia.ID || got[1].ResourceID != ana.ID {
		t.Fatalf("expected Bia then Ana, got %v %+v", outcome, got)
	}
}

func TestPlanClosedWhenAnyRequiredHasNoOpenCandidate(t *testing.T) {
	staff := newResource("Ana", resource.TypeStaff)
	room := newResource("Room A", resource.TypeRoom)
	p := Planner{
		Open: map[uuid.UUID]calendar.Window{staff.ID: calendar.NewWindow(at(9, 0), at(18, 0))},
		Timelines: map[uuid.UUID]*conflict.Timeline{
			staff.ID: busyTimeline(staff, at(9, 0), at(18, 0)),
		},
	}
	options := []Option{
		{Requirement: specific(staff), Candidates: []models.Resource{staff}},
		{Requirement: specific(room), Candidates: []models.Resource{room}},
	}

	if _, outcome := p.Plan(options, at(10, 0), time.Hour); outcome != OutcomeClosed {
		t.Fatalf("closed room should win over busy staff, got %v", outcome)
	}
}

func TestCombinations(t *testing.T) {
	items := []models.Resource{newResource("A", resource.TypeRoom), newResource("B", resource.TypeRoom), newResource("C", resource.TypeRoom)}

	var got []string
	for combo := range combinations(items, 2) {
		got = append(got, combo[0].Name+combo[1].Name)
	}
	want := []string{"AB", "AC", "BC"}
	if len(got) != len(want) {
		t.Fatalf("combinations = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("combinations = %v, want %v", got, want)
		}
	}

	for range combinations(items, 4) {
		t.Fatal("k larger than the set yielded a combination")
	}
}
