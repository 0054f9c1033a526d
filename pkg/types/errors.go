package types

import (
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindUnhandled ErrorKind = iota
	KindValidation
	KindNotFound
	KindIncompleteChecklist
	KindReportNotReady
	KindUpstreamUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindIncompleteChecklist:
		return "incomplete_checklist"
	case KindReportNotReady:
		return "report_not_ready"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	}
	return "unhandled"
}

func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindIncompleteChecklist, KindReportNotReady:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error is the failure type surfaced at the request boundary as
// {"error": Message, "details": Details}.
type Error struct {
	Kind    ErrorKind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrInspectionNotFound = &Error{Kind: KindNotFound, Message: "Inspection not found"}
	ErrReportNotReady     = &Error{Kind: KindReportNotReady, Message: "Report has not been generated for this inspection"}
)

func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func IncompleteChecklistError(missing []string) *Error {
	return &Error{
		Kind:    KindIncompleteChecklist,
		Message: "Inspection checklist is incomplete",
		Details: map[string]any{"missingFields": missing},
	}
}

// UpstreamError marks err as a failure of the store or the storage gateway.
func UpstreamError(err error, msg string) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: msg, Err: err}
}
