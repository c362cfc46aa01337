package workflow

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"disease-predictor/internal/predictor"
	"disease-predictor/internal/symptom"
)

// Service is the part of the remote classifier the workflow needs.
// *predictor.HTTPClient satisfies it.
type Service interface {
	FetchSymptoms(ctx context.Context) (json.RawMessage, error)
	Predict(ctx context.Context, symptoms []string) (*predictor.PredictResponse, error)
}

// Workflow owns one session of symptom selection and prediction. All methods
// are safe to call from several goroutines; the lock is never held across a
// network call, so the selection can change while a prediction is in flight.
type Workflow struct {
	mu        sync.Mutex
	sessionID uuid.UUID
	svc       Service
	logger    zerolog.Logger

	state     State
	catalog   symptom.Catalog
	selection *selection
	query     string
}

// Option configures a Workflow.
type Option func(*Workflow)

func WithLogger(logger zerolog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

func WithSessionID(id uuid.UUID) Option {
	return func(w *Workflow) {
		w.sessionID = id
	}
}

func New(svc Service, opts ...Option) *Workflow {
	w := &Workflow{
		sessionID: uuid.New(),
		svc:       svc,
		logger:    zerolog.Nop(),
		state:     Idle{},
		catalog:   symptom.NewCatalog(nil),
		selection: newSelection(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	w.logger = w.logger.With().Str("session_id", w.sessionID.String()).Logger()
	return w
}

func (w *Workflow) SessionID() uuid.UUID {
	return w.sessionID
}

// Start loads the catalog. Only the first call does anything; a session that
// failed to load stays in CatalogError and a new Workflow must be created.
func (w *Workflow) Start(ctx context.Context) error {
	w.mu.Lock()
	if _, idle := w.state.(Idle); !idle {
		w.mu.Unlock()
		return nil
	}
	w.state = LoadingCatalog{}
	w.mu.Unlock()

	w.logger.Debug().Msg("loading symptom catalog")
	raw, err := w.svc.FetchSymptoms(ctx)
	catalog := symptom.NewCatalog(nil)
	if err == nil {
		catalog, err = symptom.ParseCatalog(raw)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.logger.Error().Err(err).Msg("symptom catalog load failed")
		w.state = CatalogError{Message: MsgCatalogUnavailable}
		return &Error{Kind: KindCatalogFetch, Message: MsgCatalogUnavailable, Err: err}
	}

	w.catalog = catalog
	w.state = Ready{}
	w.logger.Info().Int("symptoms", catalog.Len()).Msg("symptom catalog loaded")
	return nil
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Catalog returns the session catalog. It is empty until Start succeeds.
func (w *Workflow) Catalog() symptom.Catalog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog
}

// Selection returns the selected ids in the order they were added.
func (w *Workflow) Selection() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.list()
}

// SelectedEntries pairs each selected id with its display label.
func (w *Workflow) SelectedEntries() []symptom.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := w.selection.list()
	out := make([]symptom.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, symptom.Entry{ID: id, Label: w.catalog.Label(id)})
	}
	return out
}

// IsSelected reports whether id is part of the selection.
func (w *Workflow) IsSelected(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.has(id)
}

// Toggle removes id when selected and appends it otherwise. It reports
// whether id is selected afterwards.
func (w *Workflow) Toggle(id string) bool {
	if id == "" {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	selected := w.selection.toggle(id)
	w.invalidateLocked()
	return selected
}

// Add appends id unless it is already selected.
func (w *Workflow) Add(id string) {
	if id == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection.add(id)
	w.invalidateLocked()
}

func (w *Workflow) Remove(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection.remove(id)
	w.invalidateLocked()
}

func (w *Workflow) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection.clear()
	w.invalidateLocked()
}

// invalidateLocked drops a held result or error after a selection change.
// An in-flight request and catalog states are left alone.
func (w *Workflow) invalidateLocked() {
	switch w.state.(type) {
	case Ready, PredictionSucceeded, PredictionFailed:
		w.state = Ready{}
	}
}

// SetSearchQuery sets the filter used by Visible. It never touches the
// selection.
func (w *Workflow) SetSearchQuery(query string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.query = query
}

func (w *Workflow) SearchQuery() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

// Visible returns the catalog entries matching the current search query.
func (w *Workflow) Visible() []symptom.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog.Filter(w.query)
}

// ResolveLabel returns the catalog label for id or a label derived from id
// itself, so every selected id can be rendered.
func (w *Workflow) ResolveLabel(id string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog.Label(id)
}

// CanPredict reports whether a predict call would reach the service.
func (w *Workflow) CanPredict() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state.(type) {
	case Ready, PredictionSucceeded, PredictionFailed:
		return w.selection.len() > 0
	default:
		return false
	}
}

// Predict sends the current selection to the service and blocks until the
// response has been applied. Calls made while a request is outstanding, or
// before the catalog is ready, return an error and change nothing. An empty
// selection sets a validation message without contacting the service.
//
// The request is not cancelled by later selection changes; its outcome is
// applied when it arrives.
func (w *Workflow) Predict(ctx context.Context) error {
	w.mu.Lock()
	switch w.state.(type) {
	case PredictingInFlight:
		w.mu.Unlock()
		return ErrPredictionInFlight
	case Idle, LoadingCatalog, CatalogError:
		w.mu.Unlock()
		return ErrCatalogNotReady
	}
	if w.selection.len() == 0 {
		w.state = Ready{Validation: MsgEmptySelection}
		w.mu.Unlock()
		return &Error{Kind: KindValidation, Message: MsgEmptySelection}
	}
	ids := w.selection.list()
	w.state = PredictingInFlight{Symptoms: ids}
	w.mu.Unlock()

	log := w.logger.With().Strs("symptoms", ids).Logger()
	log.Debug().Msg("requesting prediction")

	resp, err := w.svc.Predict(ctx, ids)

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case err != nil:
		log.Error().Err(err).Msg("prediction request failed")
		w.state = PredictionFailed{Message: MsgPredictionFailed}
		return &Error{Kind: KindPredictionTransport, Message: MsgPredictionFailed, Err: err}
	case resp == nil:
		log.Error().Msg("prediction service returned no response")
		w.state = PredictionFailed{Message: MsgPredictionFailed}
		return &Error{Kind: KindPredictionTransport, Message: MsgPredictionFailed}
	case strings.TrimSpace(resp.Error) != "":
		log.Warn().Str("service_error", resp.Error).Msg("prediction rejected by service")
		w.state = PredictionFailed{Message: resp.Error}
		return &Error{Kind: KindPredictionService, Message: resp.Error}
	}

	precautions := make([]string, len(resp.Precautions))
	copy(precautions, resp.Precautions)
	w.state = PredictionSucceeded{Result: Result{
		Disease:     resp.Disease,
		Description: resp.Description,
		Precautions: precautions,
	}}
	log.Info().Str("disease", resp.Disease).Msg("prediction received")
	return nil
}

// Result returns the held prediction, if any.
func (w *Workflow) Result() (Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.state.(PredictionSucceeded); ok {
		return s.Result, true
	}
	return Result{}, false
}

// ErrorMessage returns the user-facing error held by the current state, or
// an empty string.
func (w *Workflow) ErrorMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch s := w.state.(type) {
	case CatalogError:
		return s.Message
	case PredictionFailed:
		return s.Message
	case Ready:
		return s.Validation
	default:
		return ""
	}
}
