package tui

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"disease-predictor/internal/report"
	"disease-predictor/internal/symptom"
	"disease-predictor/internal/workflow"
)

const (
	textLoading       = "Loading symptoms..."
	textEmptyCatalog  = "No symptoms loaded from server."
	textNoSelection   = "No symptoms selected yet. Choose Add symptom to pick one from the list."
	textPredicting    = "Predicting..."
	textResultHint    = "After selecting symptoms, choose Predict Disease to see the result here."
	textReloadHint    = "Choose Reload symptoms to try again."
	textNoSearchMatch = "No symptoms match the current search."
)

// service-provided text is shown in a terminal, never as markup
var textPolicy = bluemonday.StrictPolicy()

func plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// Render writes the current screen for wf to w.
func Render(w io.Writer, wf *workflow.Workflow) error {
	var b strings.Builder
	state := wf.State()

	b.WriteString("Disease Predictor\n")
	b.WriteString("Select one or more symptoms, add them to your list, and choose Predict Disease.\n\n")

	b.WriteString("== Select Symptoms ==\n")
	renderSymptoms(&b, wf, state)

	b.WriteString("\n== Prediction ==\n")
	renderPrediction(&b, wf, state)

	_, err := io.WriteString(w, b.String())
	return err
}

func renderSymptoms(b *strings.Builder, wf *workflow.Workflow, state workflow.State) {
	switch s := state.(type) {
	case workflow.Idle, workflow.LoadingCatalog:
		b.WriteString(textLoading + "\n")
		return
	case workflow.CatalogError:
		b.WriteString(s.Message + "\n")
		return
	}

	catalog := wf.Catalog()
	if catalog.Len() == 0 {
		b.WriteString(textEmptyCatalog + "\n")
		return
	}

	if q := strings.TrimSpace(wf.SearchQuery()); q != "" {
		fmt.Fprintf(b, "Search %q: %d of %d symptoms shown.\n", q, len(wf.Visible()), catalog.Len())
	} else {
		fmt.Fprintf(b, "%d symptoms available.\n", catalog.Len())
	}

	selected := wf.SelectedEntries()
	if len(selected) == 0 {
		b.WriteString(textNoSelection + "\n")
		return
	}
	fmt.Fprintf(b, "Selected symptoms (%d):\n", len(selected))
	for _, e := range selected {
		fmt.Fprintf(b, "  [x] %s\n", plain(e.Label))
	}
}

func renderPrediction(b *strings.Builder, wf *workflow.Workflow, state workflow.State) {
	switch s := state.(type) {
	case workflow.Idle, workflow.LoadingCatalog:
		return
	case workflow.CatalogError:
		b.WriteString(textReloadHint + "\n")
		return
	case workflow.PredictingInFlight:
		b.WriteString(textPredicting + "\n")
		return
	case workflow.PredictionSucceeded:
		renderResult(b, s.Result)
		return
	}

	if msg := wf.ErrorMessage(); msg != "" {
		fmt.Fprintf(b, "Error: %s\n", plain(msg))
		return
	}
	b.WriteString(textResultHint + "\n")
}

func renderResult(b *strings.Builder, r workflow.Result) {
	b.WriteString("Predicted Disease\n")
	fmt.Fprintf(b, "  %s\n", plain(r.Disease))
	b.WriteString("Description\n")
	fmt.Fprintf(b, "  %s\n", plain(r.Description))
	if len(r.Precautions) > 0 {
		b.WriteString("Precautions\n")
		for _, p := range r.Precautions {
			fmt.Fprintf(b, "  - %s\n", plain(p))
		}
	}
	b.WriteString("\n" + report.Disclaimer + "\n")
}

// optionLabels returns prompt options for entries. Labels shared by several
// entries get the id appended so every option is distinct.
func optionLabels(entries []symptom.Entry) []string {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[plain(e.Label)]++
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		label := plain(e.Label)
		if counts[label] > 1 {
			label = fmt.Sprintf("%s (%s)", label, e.ID)
		}
		out[i] = label
	}
	return out
}
