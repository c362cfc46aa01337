package symptom

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the entries whose label contains query, ignoring case.
// A blank query returns the whole catalog. Catalog order is kept.
func (c Catalog) Filter(query string) []Entry {
	q := strings.TrimSpace(query)
	if q == "" {
		return c.Entries()
	}
	fold := cases.Fold()
	needle := fold.String(q)

	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if strings.Contains(fold.String(e.Label), needle) {
			out = append(out, e)
		}
	}
	return out
}
