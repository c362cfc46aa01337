package symptom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCatalog_Filter(t *testing.T) {
	c := NewCatalog([]Entry{
		{ID: "fever", Label: "Fever"},
		{ID: "cough", Label: "Cough"},
		{ID: "feverish_chills", Label: "Feverish Chills"},
	})

	t.Run("case-insensitive substring keeps order", func(t *testing.T) {
		want := []Entry{
			{ID: "fever", Label: "Fever"},
			{ID: "feverish_chills", Label: "Feverish Chills"},
		}
		for _, q := range []string{"fev", "FEV", " Fev "} {
			if diff := cmp.Diff(want, c.Filter(q)); diff != "" {
				t.Fatalf("query %q (-want +got):\n%s", q, diff)
			}
		}
	})

	t.Run("blank query returns everything", func(t *testing.T) {
		assert.Equal(t, c.Entries(), c.Filter(""))
		assert.Equal(t, c.Entries(), c.Filter("   "))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, c.Filter("rash"))
	})

	t.Run("matches label not id", func(t *testing.T) {
		assert.Empty(t, c.Filter("_"))
	})
}
