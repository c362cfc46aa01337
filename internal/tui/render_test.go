package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disease-predictor/internal/predictor"
	"disease-predictor/internal/report"
	"disease-predictor/internal/symptom"
	"disease-predictor/internal/workflow"
)

type fakeService struct {
	catalog  string
	fetchErr error
	resp     *predictor.PredictResponse
	err      error
}

func (f *fakeService) FetchSymptoms(context.Context) (json.RawMessage, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return json.RawMessage(f.catalog), nil
}

func (f *fakeService) Predict(context.Context, []string) (*predictor.PredictResponse, error) {
	return f.resp, f.err
}

func render(t *testing.T, wf *workflow.Workflow) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, wf))
	return buf.String()
}

func TestRender_CatalogStates(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		wf := workflow.New(&fakeService{catalog: `[]`})
		out := render(t, wf)
		assert.Contains(t, out, textLoading)
		assert.NotContains(t, out, textResultHint)
	})

	t.Run("empty catalog", func(t *testing.T) {
		wf := workflow.New(&fakeService{catalog: `null`})
		require.NoError(t, wf.Start(context.Background()))
		out := render(t, wf)
		assert.Contains(t, out, textEmptyCatalog)
		assert.Contains(t, out, textResultHint)
		assert.NotContains(t, out, workflow.MsgCatalogUnavailable)
	})

	t.Run("catalog error", func(t *testing.T) {
		wf := workflow.New(&fakeService{fetchErr: errors.New("connection refused")})
		require.Error(t, wf.Start(context.Background()))
		out := render(t, wf)
		assert.Contains(t, out, workflow.MsgCatalogUnavailable)
		assert.Contains(t, out, textReloadHint)
		assert.NotContains(t, out, textEmptyCatalog)
		assert.NotContains(t, out, "connection refused")
	})
}

func TestRender_Selection(t *testing.T) {
	wf := workflow.New(&fakeService{catalog: `["itching","skin_rash",{"id":"high_fever","label":"High Fever"}]`})
	require.NoError(t, wf.Start(context.Background()))

	out := render(t, wf)
	assert.Contains(t, out, "3 symptoms available.")
	assert.Contains(t, out, textNoSelection)

	wf.Add("high_fever")
	wf.Add("mystery_ache")
	wf.SetSearchQuery("  rash ")
	out = render(t, wf)
	assert.Contains(t, out, `Search "rash": 1 of 3 symptoms shown.`)
	assert.Contains(t, out, "Selected symptoms (2):\n  [x] High Fever\n  [x] Mystery Ache\n")
}

func TestRender_Prediction(t *testing.T) {
	t.Run("validation message", func(t *testing.T) {
		wf := workflow.New(&fakeService{catalog: `["cough"]`})
		require.NoError(t, wf.Start(context.Background()))
		require.Error(t, wf.Predict(context.Background()))
		assert.Contains(t, render(t, wf), "Error: "+workflow.MsgEmptySelection)
	})

	t.Run("result card strips markup", func(t *testing.T) {
		wf := workflow.New(&fakeService{
			catalog: `["cough"]`,
			resp: &predictor.PredictResponse{
				Disease:     "<i>Flu</i>",
				Description: "<script>alert(1)</script><b>Rest</b> & fluids",
				Precautions: []string{"rest", "<a href=\"x\">drink</a> water"},
			},
		})
		require.NoError(t, wf.Start(context.Background()))
		wf.Add("cough")
		require.NoError(t, wf.Predict(context.Background()))

		out := render(t, wf)
		assert.Contains(t, out, "Predicted Disease\n  Flu\n")
		assert.Contains(t, out, "Description\n  Rest & fluids\n")
		assert.Contains(t, out, "Precautions\n  - rest\n  - drink water\n")
		assert.Contains(t, out, report.Disclaimer)
		assert.NotContains(t, out, "<")
		assert.NotContains(t, out, textResultHint)
	})

	t.Run("precautions omitted when empty", func(t *testing.T) {
		wf := workflow.New(&fakeService{
			catalog: `["headache"]`,
			resp:    &predictor.PredictResponse{Disease: "Migraine", Description: "Description not available."},
		})
		require.NoError(t, wf.Start(context.Background()))
		wf.Add("headache")
		require.NoError(t, wf.Predict(context.Background()))

		out := render(t, wf)
		assert.Contains(t, out, "Migraine")
		assert.NotContains(t, out, "Precautions")
	})

	t.Run("transport failure", func(t *testing.T) {
		wf := workflow.New(&fakeService{catalog: `["cough"]`, err: errors.New("dial tcp: timeout")})
		require.NoError(t, wf.Start(context.Background()))
		wf.Add("cough")
		require.Error(t, wf.Predict(context.Background()))

		out := render(t, wf)
		assert.Contains(t, out, "Error: "+workflow.MsgPredictionFailed)
		assert.NotContains(t, out, "dial tcp")
	})
}

func TestOptionLabels(t *testing.T) {
	got := optionLabels([]symptom.Entry{
		{ID: "a", Label: "Pain"},
		{ID: "b", Label: "<b>Pain</b>"},
		{ID: "c", Label: "Cough"},
	})
	assert.Equal(t, []string{"Pain (a)", "Pain (b)", "Cough"}, got)
}
