package symptom

// Entry is a single selectable symptom. ID is the stable identifier defined by
// the prediction service, Label is what the user sees.
type Entry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Catalog is the ordered, de-duplicated list of symptoms for a session.
// Order is the order of the source payload and is never re-sorted.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// NewCatalog builds a catalog from entries. Entries with an empty id are
// dropped and the first occurrence of a duplicated id wins.
func NewCatalog(entries []Entry) Catalog {
	c := Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := c.index[e.ID]; dup {
			continue
		}
		if e.Label == "" {
			e.Label = DeriveLabel(e.ID)
		}
		c.index[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Len reports the number of entries.
func (c Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in catalog order.
func (c Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the entry for id.
func (c Catalog) Lookup(id string) (Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Label returns the catalog label for id, or the derived label when id is
// not part of the catalog.
func (c Catalog) Label(id string) string {
	if e, ok := c.Lookup(id); ok {
		return e.Label
	}
	return DeriveLabel(id)
}
