package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Execute(ctx context.Context) (int, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep without deadline")
	}
	return 2, s.err
}

func TestAddNoShowSweepRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	if err := s.AddNoShowSweep("every five minutes", &countingSweeper{}); err == nil {
		t.Fatal("expected an error for a malformed spec")
	}
	if err := s.AddNoShowSweep("*/5 * * * *", &countingSweeper{}); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Fatalf("entries = %d", n)
	}
}

func TestRunSweep(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	ok := &countingSweeper{}
	s.runSweep(ok)

	failing := &countingSweeper{err: errors.New("db down")}
	s.runSweep(failing)

	if ok.calls.Load() != 1 || failing.calls.Load() != 1 {
		t.Fatalf("calls = %d, %d", ok.calls.Load(), failing.calls.Load())
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	if err := s.AddNoShowSweep("@every 1h", &countingSweeper{}); err != nil {
		t.Fatalf("AddNoShowSweep: %v", err)
	}

	s.Start()
	s.Stop(t.Context())
}
