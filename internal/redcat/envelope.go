package redcat

import (
	"fmt"
	"strings"

	"t4auto/internal/domain"
)

// envelope is the response wrapper shared by every API call. Count and
// Total are only present on search responses.
type envelope[T any] struct {
	Success        bool            `json:"success"`
	Data           T               `json:"data"`
	Count          int             `json:"count"`
	Total          int             `json:"total"`
	Msg            string          `json:"msg"`
	AdditionalInfo *additionalInfo `json:"additional_info,omitempty"`
}

type additionalInfo struct {
	ValidationErrors []validationError `json:"validation_errors"`
}

type validationError struct {
	Msg string `json:"msg"`
}

// message returns the human-readable failure reason, if the server sent one.
func (e envelope[T]) message() string {
	if e.AdditionalInfo != nil {
		for _, v := range e.AdditionalInfo.ValidationErrors {
			if v.Msg != "" {
				return v.Msg
			}
		}
	}
	return e.Msg
}

func (e envelope[T]) err() error {
	if e.Success {
		return nil
	}
	msg := e.message()
	if msg == "" {
		msg = "unknown error"
	}
	return mapAPIError(msg)
}

// mapAPIError wraps an unsuccessful envelope in ErrRejected, adding a more
// specific sentinel where the message is recognisable.
func mapAPIError(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unauthori") ||
		strings.Contains(lower, "not logged in") ||
		strings.Contains(lower, "session expired") ||
		strings.Contains(lower, "permission"):
		return fmt.Errorf("%w: %w: %s", domain.ErrRejected, domain.ErrUnauthorized, msg)
	case strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "too many requests"):
		return fmt.Errorf("%w: %w: %s", domain.ErrRejected, domain.ErrRateLimited, msg)
	}
	return fmt.Errorf("%w: %s", domain.ErrRejected, msg)
}
