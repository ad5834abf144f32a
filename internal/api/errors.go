package api

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
)

// StatusError is a non-2xx response. It matches the sentinel errors above
// through errors.Is, so callers can branch on the class without inspecting
// codes:
//
//	if errors.Is(err, api.ErrNotFound) { ... }
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Code)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == 404
	case ErrUnauthorized:
		return e.Code == 401 || e.Code == 403
	case ErrUnavailable:
		return e.Code >= 500 || e.Code == 408 || e.Code == 429
	}
	return false
}
