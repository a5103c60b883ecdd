package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrParticipantNotFound      = fmt.Errorf("participant %w", ErrNotFound)
	ErrUpstream                 = errors.New("upstream error")
	ErrMalformedRecord          = errors.New("malformed match record")
	ErrReferenceDataUnavailable = errors.New("reference data unavailable")
	ErrInvalidInput             = errors.New("invalid input")
)

// UpstreamError is a non-success status or transport fault from a remote API.
// A 404 also matches ErrNotFound.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// MatchError attaches the match and player a failure happened for.
type MatchError struct {
	MatchID string
	Puuid   string
	Err     error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("match %s (puuid %s): %v", e.MatchID, e.Puuid, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}
