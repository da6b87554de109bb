package common

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-tenancy/pkg/domain"
	"github.com/tendant/simple-tenancy/pkg/repository"
)

// Pagination bounds the skip/limit query parameters of list endpoints.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// Page parses skip and limit from the query string.
// Negative values clamp to zero and limit clamps to MaxLimit.
func (p Pagination) Page(r *http.Request) (repository.Page, error) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		return repository.Page{}, err
	}
	limit, err := queryInt(r, "limit", p.DefaultLimit)
	if err != nil {
		return repository.Page{}, err
	}

	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return repository.Page{Skip: skip, Limit: limit}, nil
}

// PathID parses the {id} URL parameter.
func PathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: "id", Message: "id must be an integer"}
	}
	return id, nil
}

// QueryInt64 parses an optional integer query parameter. Absent yields nil.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Message: name + " must be an integer"}
	}
	return &v, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Message: name + " must be an integer"}
	}
	return v, nil
}
