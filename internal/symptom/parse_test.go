package symptom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ShapeAgnostic(t *testing.T) {
	want := []Entry{
		{ID: "fever", Label: "Fever"},
		{ID: "cough", Label: "Cough"},
	}

	payloads := map[string]string{
		"strings":           `["fever","cough"]`,
		"objects":           `[{"id":"fever"},{"id":"cough"}]`,
		"envelope strings":  `{"symptoms":["fever","cough"]}`,
		"envelope objects":  `{"symptoms":[{"id":"fever","label":null},{"id":"cough"}]}`,
		"blank labels":      `[{"id":"fever","label":"  "},{"id":"cough","label":""}]`,
		"padded whitespace": " \n[\"fever\", \"cough\"]\n",
	}
	for name, raw := range payloads {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCatalog([]byte(raw))
			require.NoError(t, err)
			if diff := cmp.Diff(want, got.Entries()); diff != "" {
				t.Fatalf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_ExplicitLabelWins(t *testing.T) {
	c := Normalize([]byte(`{"symptoms":[{"id":"skin_rash","label":"Rash on skin"},"mild_fever"]}`))
	want := []Entry{
		{ID: "skin_rash", Label: "Rash on skin"},
		{ID: "mild_fever", Label: "Mild Fever"},
	}
	if diff := cmp.Diff(want, c.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_UnrecognisedShapesYieldEmpty(t *testing.T) {
	for _, raw := range []string{
		`null`,
		`{}`,
		`{"symptoms":null}`,
		`{"symptoms":"fever"}`,
		`{"data":["fever"]}`,
		`"fever"`,
		`42`,
		`true`,
	} {
		t.Run(raw, func(t *testing.T) {
			c, err := ParseCatalog([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestNormalize_SkipsBadElementsAndDuplicates(t *testing.T) {
	c := Normalize([]byte(`["fever", 3, null, {"label":"No id"}, {"id":7}, "", "fever", {"id":"cough"}]`))
	want := []Entry{
		{ID: "fever", Label: "Fever"},
		{ID: "cough", Label: "Cough"},
	}
	if diff := cmp.Diff(want, c.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCatalog_Malformed(t *testing.T) {
	c, err := ParseCatalog([]byte(`["fever",`))
	require.ErrorIs(t, err, ErrMalformedPayload)
	assert.Equal(t, 0, c.Len())
}

func TestCatalog_LabelFallsBack(t *testing.T) {
	c := NewCatalog([]Entry{{ID: "fever", Label: "High Temperature"}})

	assert.Equal(t, "High Temperature", c.Label("fever"))
	assert.Equal(t, "Joint Pain", c.Label("joint_pain"))

	_, ok := c.Lookup("joint_pain")
	assert.False(t, ok)
}
