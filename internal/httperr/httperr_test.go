package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespond(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", ErrValidation("date", "must be YYYY-MM-DD"), http.StatusBadRequest, "validation_error"},
		{"wrapped validation", fmt.Errorf("parse: %w", ErrValidation("", "bad")), http.StatusBadRequest, "validation_error"},
		{"slot conflict", ErrBusiness("slot_conflict"), http.StatusConflict, "slot_conflict"},
		{"transition", ErrBusiness("invalid_status_transition"), http.StatusConflict, "invalid_status_transition"},
		{"unavailable", ErrBusiness("resource_unavailable"), http.StatusConflict, "resource_unavailable"},
		{"in progress", ErrBusiness("request_in_progress"), http.StatusConflict, "request_in_progress"},
		{"not found", fmt.Errorf("load: %w", ErrBusiness("service_not_found")), http.StatusNotFound, "service_not_found"},
		{"rule", ErrBusiness("too_soon"), http.StatusUnprocessableEntity, "too_soon"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, zerolog.Nop(), tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}

			var body HTTPError
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Code != tc.wantCode || body.Message == "" {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestRespondHidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(c, zerolog.Nop(), errors.New("pq: password authentication failed"))

	var body HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Unexpected error." {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

func TestBusinessCode(t *testing.T) {
	err := fmt.Errorf("book: %w", ErrBusiness("slot_conflict"))

	code, ok := BusinessCode(err)
	if !ok || code != "slot_conflict" {
		t.Fatalf("BusinessCode = %q, %v", code, ok)
	}
	if !IsBusiness(err, "slot_conflict") || IsBusiness(err, "too_soon") {
		t.Fatal("IsBusiness mismatch")
	}
	if _, ok := BusinessCode(errors.New("plain")); ok {
		t.Fatal("plain error reported a code")
	}
}
