package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tendant/simple-tenancy/pkg/domain"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]int{"id": 1})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != 1 {
		t.Errorf("id = %d, want 1", body["id"])
	}
}

func TestFieldError(t *testing.T) {
	w := httptest.NewRecorder()
	FieldError(w, http.StatusUnprocessableEntity, "email", "invalid email format")

	var body ErrorResponse
	json.NewDecoder(w.Body).Decode(&body)
	if body.Error != "invalid email format" || body.Field != "email" {
		t.Errorf("body = %+v", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name     string `json:"name"`
		TenantID int64  `json:"tenant_id"`
	}

	tests := []struct {
		name       string
		body       string
		limit      int64
		tooLarge   bool
		wantField  string
		wantError  string
		wantStatus int
	}{
		{
			name:  "valid body",
			body:  `{"name": "acme", "extra": true}`,
			limit: 1024,
		},
		{
			name:       "malformed body",
			body:       `{name}`,
			limit:      1024,
			wantField:  "body",
			wantError:  "invalid request body",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "empty body",
			body:       ``,
			limit:      1024,
			wantField:  "body",
			wantError:  "invalid request body",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "string for integer field",
			body:       `{"name": "acme", "tenant_id": "x"}`,
			limit:      1024,
			wantField:  "tenant_id",
			wantError:  "tenant_id has the wrong type",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "number for string field",
			body:       `{"name": 5}`,
			limit:      1024,
			wantField:  "name",
			wantError:  "name has the wrong type",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "array instead of object",
			body:       `[]`,
			limit:      1024,
			wantField:  "body",
			wantError:  "invalid request body",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "body over limit",
			body:       `{"name": "` + strings.Repeat("a", 64) + `"}`,
			limit:      16,
			tooLarge:   true,
			wantError:  "request body too large",
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Body = http.MaxBytesReader(w, r.Body, tt.limit)

			var p payload
			err := DecodeJSON(r, &p)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("DecodeJSON error = %v", err)
				}
				if p.Name != "acme" {
					t.Errorf("Name = %q, want acme", p.Name)
				}
				return
			}

			if tt.tooLarge {
				if !errors.Is(err, ErrBodyTooLarge) {
					t.Fatalf("DecodeJSON error = %v, want %v", err, ErrBodyTooLarge)
				}
			} else if !domain.IsValidation(err) {
				t.Fatalf("DecodeJSON error = %v, want validation error", err)
			}

			DecodeError(w, err)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body ErrorResponse
			json.NewDecoder(w.Body).Decode(&body)
			if body.Error != tt.wantError || body.Field != tt.wantField {
				t.Errorf("body = %+v, want error %q field %q", body, tt.wantError, tt.wantField)
			}
		})
	}
}
