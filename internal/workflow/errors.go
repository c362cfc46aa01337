package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies workflow errors.
type Kind string

const (
	KindCatalogFetch        Kind = "catalog_fetch"
	KindValidation          Kind = "validation"
	KindPredictionService   Kind = "prediction_service"
	KindPredictionTransport Kind = "prediction_transport"
)

// User-facing messages. They never include transport details.
const (
	MsgCatalogUnavailable = "Failed to load symptoms from server. Please check backend."
	MsgEmptySelection     = "Please select at least one symptom before predicting."
	MsgPredictionFailed   = "Prediction failed. Please try again."
)

var (
	// ErrPredictionInFlight rejects a predict while another one is outstanding.
	ErrPredictionInFlight = errors.New("workflow: prediction already in flight")
	// ErrCatalogNotReady rejects a predict before the catalog has loaded.
	ErrCatalogNotReady = errors.New("workflow: symptom catalog not loaded")
)

// Error is returned by Start and Predict. Message is what the state machine
// shows to the user; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a workflow *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var wfErr *Error
	if errors.As(err, &wfErr) {
		return wfErr.Kind == kind
	}
	return false
}
