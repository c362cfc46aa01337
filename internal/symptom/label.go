package symptom

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveLabel turns a raw symptom id such as "itching_and_rash" into a display
// label ("Itching And Rash"): underscores become spaces, whitespace runs
// collapse, the result is trimmed and each word gets an upper-case first
// letter. Letters after the first are left untouched.
func DeriveLabel(raw string) string {
	s := strings.ReplaceAll(raw, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Casers carry state, so one per call.
	return cases.Title(language.Und, cases.NoLower).String(s)
}
