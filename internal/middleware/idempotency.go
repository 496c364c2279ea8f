package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

const (
	IdempotencyHeader         = "Idempotency-Key"
	IdempotencyReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLen = 128
)

type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore claims keys and keeps completed responses.
type IdempotencyStore interface {
	// Begin claims key. It returns the stored response when the key already
	// completed, or started=false with no response while another request
	// holds it.
	Begin(ctx context.Context, key string) (resp *StoredResponse, started bool, err error)
	Complete(ctx context.Context, key string, resp StoredResponse) error
	Release(ctx context.Context, key string) error
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a request whose
// Idempotency-Key was already served. Requests without the header pass
// through. Keys are scoped by route and tenant; only 2xx responses
// are kept, so a failed request may be retried with the same key.
func Idempotency(store IdempotencyStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(IdempotencyHeader)
		if raw == "" {
			c.Next()
			return
		}
		if len(raw) > maxIdempotencyKeyLen {
			httperr.BadRequest(c, "validation_error", IdempotencyHeader+": too long")
			c.Abort()
			return
		}

		scope := c.Param("slug")
		if id, ok := c.Get(ContextBusinessID); ok {
			scope = id.(uuid.UUID).String()
		}
		key := c.Request.Method + ":" + c.FullPath() + ":" + scope + ":" + raw
		ctx := c.Request.Context()

		stored, started, err := store.Begin(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency store unavailable, serving without it")
			c.Next()
			return
		}
		if stored != nil {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		}
		if !started {
			httperr.Respond(c, log, httperr.ErrBusiness("request_in_progress"))
			c.Abort()
			return
		}

		rw := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rw
		c.Next()

		status := rw.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			err = store.Complete(ctx, key, StoredResponse{
				Status:      status,
				ContentType: rw.Header().Get("Content-Type"),
				Body:        rw.body.Bytes(),
			})
		} else {
			err = store.Release(ctx, key)
		}
		if err != nil {
			log.Warn().Err(err).Msg("idempotency store update failed")
		}
	}
}

// MemoryIdempotency is an in-process IdempotencyStore without expiry.
type MemoryIdempotency struct {
	mu      sync.Mutex
	entries map[string]*StoredResponse
}

func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{entries: map[string]*StoredResponse{}}
}

func (m *MemoryIdempotency) Begin(ctx context.Context, key string) (*StoredResponse, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, ok := m.entries[key]
	if !ok {
		m.entries[key] = nil
		return nil, true, nil
	}
	return resp, false, nil
}

func (m *MemoryIdempotency) Complete(ctx context.Context, key string, resp StoredResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = &resp
	return nil
}

func (m *MemoryIdempotency) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}
