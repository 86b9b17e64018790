package api

import (
	"fmt"
	"net/http"

	"github.com/avolkovs/tillpoint/internal/common"
)

// StatusError carries a non-2xx backend response. Its Unwrap chain exposes
// the taxonomy sentinels, so callers match with errors.Is rather than status
// codes.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() []error {
	switch {
	case e.Code >= 500:
		// A faulting server is indistinguishable from an absent one for
		// the sync policy: the write is safe to queue.
		return []error{common.ErrRemoteUnreachable}
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return []error{common.ErrRemoteRejected, common.ErrUnauthorized}
	case e.Code == http.StatusNotFound:
		return []error{common.ErrRemoteRejected, common.ErrNotFound}
	default:
		return []error{common.ErrRemoteRejected, common.ErrValidation}
	}
}
