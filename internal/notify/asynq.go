package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	Queue    = "notifications"
	maxRetry = 5
)

// AsynqPublisher enqueues events on Redis. Enqueueing the same event twice
// is a no-op thanks to the task id.
type AsynqPublisher struct {
	client *asynq.Client
}

func NewAsynqPublisher(opt asynq.RedisClientOpt) *AsynqPublisher {
	return &AsynqPublisher{client: asynq.NewClient(opt)}
}

func NewTask(ev Event) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, nil, err
	}

	task := asynq.NewTask(ev.Type, b)
	opts := []asynq.Option{
		asynq.TaskID(ev.Key()),
		asynq.Queue(Queue),
		asynq.MaxRetry(maxRetry),
	}
	return task, opts, nil
}

func (p *AsynqPublisher) Publish(ctx context.Context, ev Event) error {
	task, opts, err := NewTask(ev)
	if err != nil {
		return fmt.Errorf("notify: encode %s: %w", ev.Type, err)
	}

	_, err = p.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("notify: enqueue %s: %w", ev.Type, err)
	}
	return nil
}

func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
