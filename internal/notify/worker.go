package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Deliverer hands an event to the outside world.
type Deliverer interface {
	Deliver(ctx context.Context, ev Event) error
}

// LogDeliverer records events without sending anything.
type LogDeliverer struct {
	log zerolog.Logger
}

func NewLogDeliverer(log zerolog.Logger) *LogDeliverer {
	return &LogDeliverer{log: log}
}

func (d *LogDeliverer) Deliver(ctx context.Context, ev Event) error {
	d.log.Info().
		Str("type", ev.Type).
		Str("business_id", ev.BusinessID.String()).
		Str("reference", ev.Reference).
		Time("start_time", ev.Start).
		Msg("booking notification delivered")
	return nil
}

// Handler processes queued events. Redelivered events already seen by this
// process are acknowledged without delivering again.
type Handler struct {
	deliverer Deliverer
	log       zerolog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewHandler(deliverer Deliverer, log zerolog.Logger) *Handler {
	return &Handler{
		deliverer: deliverer,
		log:       log.With().Str("component", "notify-worker").Logger(),
		seen:      map[string]struct{}{},
	}
}

func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var ev Event
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		h.log.Error().Err(err).Str("type", task.Type()).Msg("invalid payload")
		return fmt.Errorf("decode %s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}

	h.mu.Lock()
	_, dup := h.seen[ev.Key()]
	h.mu.Unlock()
	if dup {
		h.log.Debug().Str("key", ev.Key()).Msg("duplicate delivery skipped")
		return nil
	}

	if err := h.deliverer.Deliver(ctx, ev); err != nil {
		return err
	}

	h.mu.Lock()
	h.seen[ev.Key()] = struct{}{}
	h.mu.Unlock()
	return nil
}

func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeBookingConfirmed, h)
	mux.Handle(TypeBookingCancelled, h)
	return mux
}

func NewServer(opt asynq.RedisClientOpt, concurrency int, log zerolog.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{Queue: 1},
		Logger:      asynqLogger{log: log.With().Str("component", "asynq").Logger()},
	})
}

// asynqLogger adapts zerolog to asynq.Logger.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
