package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"disease-predictor/internal/history"
	"disease-predictor/internal/report"
	"disease-predictor/internal/workflow"
)

const historyLimit = 10

// Session is the interactive screen: it renders the workflow, offers the
// actions valid for its state and applies the one the user picks.
type Session struct {
	svc       workflow.Service
	driver    PromptDriver
	out       io.Writer
	logger    zerolog.Logger
	history   history.Repository
	reports   *report.Service
	reportDir string
	now       func() time.Time

	wf *workflow.Workflow
}

type action struct {
	label string
	run   func(ctx context.Context) error
}

// NewSession builds a session talking to svc. Without WithPromptDriver the
// survey driver is used.
func NewSession(svc workflow.Service, opts ...Option) (*Session, error) {
	if svc == nil {
		return nil, errors.New("tui: prediction service is nil")
	}
	s := &Session{
		svc:    svc,
		out:    os.Stdout,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	return s, nil
}

// Workflow returns the current workflow session. It changes on reload.
func (s *Session) Workflow() *workflow.Workflow {
	return s.wf
}

// Run loads the catalog and loops over render and prompt until the user
// quits, aborts the menu or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	s.reload(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := Render(s.out, s.wf); err != nil {
			return fmt.Errorf("tui: render: %w", err)
		}

		actions := s.actions()
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = a.label
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:  "What would you like to do?",
			Options:  labels,
			PageSize: len(labels),
		})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			return fmt.Errorf("tui: invalid menu choice %d", idx)
		}

		err = actions[idx].run(ctx)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, ErrAborted):
			// back to the menu
		case err != nil:
			return err
		}
	}
}

func (s *Session) actions() []action {
	if _, failed := s.wf.State().(workflow.CatalogError); failed {
		return []action{
			{"Reload symptoms", s.reloadAction},
			{"Quit", quit},
		}
	}

	var out []action
	if s.wf.Catalog().Len() > 0 {
		out = append(out,
			action{"Add symptom", s.addSymptom},
			action{"Select symptoms", s.selectSymptoms},
			action{"Search symptoms", s.search},
		)
	}
	if len(s.wf.Selection()) > 0 {
		out = append(out,
			action{"Remove symptom", s.removeSymptom},
			action{"Clear all", s.clearAll},
		)
	}
	out = append(out, action{"Predict Disease", s.predict})
	if _, ok := s.wf.Result(); ok && s.reports != nil {
		out = append(out, action{"Export report", s.exportReport})
	}
	if s.history != nil {
		out = append(out, action{"Show history", s.showHistory})
	}
	return append(out,
		action{"Reload symptoms", s.reloadAction},
		action{"Quit", quit},
	)
}

func quit(context.Context) error {
	return errQuit
}

// reload starts a fresh workflow session. A failed catalog load is shown
// through the workflow state.
func (s *Session) reload(ctx context.Context) {
	s.wf = workflow.New(s.svc, workflow.WithLogger(s.logger))
	_ = s.wf.Start(ctx)
}

func (s *Session) reloadAction(ctx context.Context) error {
	s.reload(ctx)
	return nil
}

func (s *Session) addSymptom(ctx context.Context) error {
	visible := s.wf.Visible()
	if len(visible) == 0 {
		return s.driver.Info(ctx, textNoSearchMatch)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:  "Symptom to add:",
		Options:  optionLabels(visible),
		PageSize: 15,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(visible) {
		return nil
	}
	s.wf.Add(visible[idx].ID)
	return nil
}

// selectSymptoms shows the visible entries with the selected ones checked
// and toggles every entry whose mark the user changed.
func (s *Session) selectSymptoms(ctx context.Context) error {
	visible := s.wf.Visible()
	if len(visible) == 0 {
		return s.driver.Info(ctx, textNoSearchMatch)
	}
	var defaults []int
	for i, e := range visible {
		if s.wf.IsSelected(e.ID) {
			defaults = append(defaults, i)
		}
	}
	picked, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Select symptoms:",
		Options:  optionLabels(visible),
		Defaults: defaults,
		PageSize: 15,
	})
	if err != nil {
		return err
	}

	want := make(map[int]bool, len(picked))
	for _, i := range picked {
		want[i] = true
	}
	for i, e := range visible {
		if want[i] != s.wf.IsSelected(e.ID) {
			s.wf.Toggle(e.ID)
		}
	}
	return nil
}

func (s *Session) search(ctx context.Context) error {
	q, err := s.driver.Input(ctx, InputConfig{
		Message: "Search symptoms:",
		Default: s.wf.SearchQuery(),
		Help:    "Leave empty to show every symptom.",
	})
	if err != nil {
		return err
	}
	s.wf.SetSearchQuery(q)
	return nil
}

func (s *Session) removeSymptom(ctx context.Context) error {
	selected := s.wf.SelectedEntries()
	if len(selected) == 0 {
		return nil
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message: "Symptom to remove:",
		Options: optionLabels(selected),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(selected) {
		return nil
	}
	s.wf.Remove(selected[idx].ID)
	return nil
}

func (s *Session) clearAll(context.Context) error {
	s.wf.Clear()
	return nil
}

func (s *Session) predict(ctx context.Context) error {
	ids := s.wf.Selection()
	err := s.wf.Predict(ctx)
	switch {
	case errors.Is(err, workflow.ErrPredictionInFlight):
		return s.driver.Info(ctx, "A prediction is already running.")
	case errors.Is(err, workflow.ErrCatalogNotReady):
		return s.driver.Info(ctx, "Symptoms are not loaded yet.")
	case workflow.IsKind(err, workflow.KindValidation):
		return nil
	}
	s.recordHistory(ids)
	return nil
}

// recordHistory saves the outcome of the prediction just made. Failures are
// logged and never reach the screen.
func (s *Session) recordHistory(ids []string) {
	if s.history == nil {
		return
	}
	rec := &history.Record{
		SessionID: s.wf.SessionID(),
		Symptoms:  ids,
		CreatedAt: s.now().UTC(),
	}
	switch st := s.wf.State().(type) {
	case workflow.PredictionSucceeded:
		rec.Disease = st.Result.Disease
		rec.Description = st.Result.Description
		rec.Precautions = st.Result.Precautions
	case workflow.PredictionFailed:
		rec.Error = st.Message
	default:
		return
	}

	// the screen context may already be cancelled on quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save prediction history")
	}
}

func (s *Session) showHistory(ctx context.Context) error {
	records, err := s.history.Recent(ctx, historyLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load prediction history")
		return s.driver.Info(ctx, "Prediction history is unavailable.")
	}
	if len(records) == 0 {
		return s.driver.Info(ctx, "No predictions recorded yet.")
	}

	var b strings.Builder
	b.WriteString("Recent predictions:\n")
	for _, r := range records {
		labels := make([]string, len(r.Symptoms))
		for i, id := range r.Symptoms {
			labels[i] = plain(s.wf.ResolveLabel(id))
		}
		outcome := plain(r.Disease)
		if r.Failed() {
			outcome = "failed: " + plain(r.Error)
		}
		fmt.Fprintf(&b, "  %s  %s  (%s)\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), outcome, strings.Join(labels, ", "))
	}
	return s.driver.Info(ctx, strings.TrimRight(b.String(), "\n"))
}

// exportReport writes the held result to the report directory as a PDF, or
// as a text summary when no PDF can be built, and offers to share it.
func (s *Session) exportReport(ctx context.Context) error {
	result, ok := s.wf.Result()
	if !ok {
		return nil
	}
	r := report.Report{
		SessionID: s.wf.SessionID(),
		Symptoms:  s.wf.SelectedEntries(),
		Result:    result,
		CreatedAt: s.now(),
	}

	data, err := s.reports.BuildPDF(r)
	name := report.FileName(r, "pdf")
	if err != nil {
		s.logger.Warn().Err(err).Msg("PDF unavailable, exporting text summary")
		data = []byte(report.Summary(r))
		name = report.FileName(r, "txt")
	}

	if err := os.MkdirAll(s.reportDir, 0o755); err != nil {
		return s.driver.Info(ctx, fmt.Sprintf("Could not create %s: %v", s.reportDir, err))
	}
	path := filepath.Join(s.reportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return s.driver.Info(ctx, fmt.Sprintf("Could not write report: %v", err))
	}
	if err := s.driver.Info(ctx, "Report saved to "+path); err != nil {
		return err
	}

	if !s.reports.CanSend() {
		return nil
	}
	share, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Send the report to the doctor via Telegram?",
	})
	if err != nil || !share {
		return err
	}
	if err := s.reports.Send(ctx, r); err != nil {
		s.logger.Error().Err(err).Msg("failed to share report")
		return s.driver.Info(ctx, "Could not send the report. Please try again later.")
	}
	return s.driver.Info(ctx, "Report sent to the doctor.")
}
