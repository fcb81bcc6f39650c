// Package service holds the portal's use cases. Every call takes the caller as an explicit
// principal and runs authorize, validate, then the store work, returning domain errors.
package service

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/internal/feature/cascade"
	"newsportal/internal/feature/rating"
	"newsportal/internal/repo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	msgMissingFields = "missing required fields"
)

type Service struct {
	store   *repo.Store
	ratings *rating.Aggregator
	cascade *cascade.Coordinator
	jwt     *auth.JWTer
	revoker auth.Revoker
	log     *zap.Logger
}

func New(store *repo.Store, j *auth.JWTer, rv auth.Revoker, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		store:   store,
		ratings: rating.New(store),
		cascade: cascade.New(store),
		jwt:     j,
		revoker: rv,
		log:     l,
	}
}

// Page is one window of a listing.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

func window(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return offset, min(limit, MaxLimit)
}

// invalid maps an ozzo-validation result onto InvalidInput. A missing required field
// yields a message that does not name the field.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	var ie validation.InternalError
	if errors.As(err, &ie) {
		return domain.Internal("validate input", err)
	}
	var ve validation.Errors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fieldError(err)
	}
	keys := make([]string, 0, len(ve))
	for k := range ve {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var e validation.Error
		if errors.As(ve[k], &e) && e.Code() == validation.ErrRequired.Code() {
			return domain.InvalidInput(msgMissingFields)
		}
	}
	return fieldError(ve[keys[0]])
}

func fieldError(err error) error {
	var e validation.Error
	if !errors.As(err, &e) {
		return domain.InvalidInput(err.Error())
	}
	if e.Code() == validation.ErrRequired.Code() {
		return domain.InvalidInput(msgMissingFields)
	}
	return domain.InvalidInput(e.Error())
}
