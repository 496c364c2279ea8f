package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type countingDeliverer struct {
	calls int
	err   error
}

func (d *countingDeliverer) Deliver(ctx context.Context, ev Event) error {
	d.calls++
	return d.err
}

func sampleEvent() Event {
	ap := &models.Appointment{
		StartTime: time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, time.March, 3, 11, 0, 0, 0, time.UTC),
		Status:    "confirmed",
		Reference: "ACM-20250303-AB12C",
	}
	ap.ID = uuid.New()
	ap.BusinessID = uuid.New()
	return NewEvent(TypeBookingConfirmed, ap, time.Now())
}

func TestNewTaskCarriesDedupeKey(t *testing.T) {
	ev := sampleEvent()

	task, opts, err := NewTask(ev)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Type() != TypeBookingConfirmed {
		t.Fatalf("task type = %q", task.Type())
	}

	var decoded Event
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if decoded.Key() != ev.Key() {
		t.Fatalf("key %q != %q", decoded.Key(), ev.Key())
	}

	found := false
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt && o.Value() == ev.Key() {
			found = true
		}
	}
	if !found {
		t.Fatal("task id option missing")
	}
}

func TestHandlerDeliversOnce(t *testing.T) {
	d := &countingDeliverer{}
	h := NewHandler(d, zerolog.Nop())

	task, _, err := NewTask(sampleEvent())
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}

	for range 3 {
		if err := h.ProcessTask(context.Background(), task); err != nil {
			t.Fatalf("ProcessTask: %v", err)
		}
	}
	if d.calls != 1 {
		t.Fatalf("delivered %d times", d.calls)
	}
}

func TestHandlerRetriesFailedDelivery(t *testing.T) {
	d := &countingDeliverer{err: errors.New("smtp down")}
	h := NewHandler(d, zerolog.Nop())

	task, _, _ := NewTask(sampleEvent())
	if err := h.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected delivery error to surface for retry")
	}

	d.err = nil
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if d.calls != 2 {
		t.Fatalf("calls = %d", d.calls)
	}
}

func TestHandlerSkipsRetryOnBadPayload(t *testing.T) {
	h := NewHandler(&countingDeliverer{}, zerolog.Nop())

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeBookingCancelled, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
