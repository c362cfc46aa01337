package workflow

// selection is an insertion-ordered set of symptom ids.
type selection struct {
	ids   []string
	index map[string]struct{}
}

func newSelection() *selection {
	return &selection{index: make(map[string]struct{})}
}

func (s *selection) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *selection) add(id string) bool {
	if s.has(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *selection) remove(id string) bool {
	if !s.has(id) {
		return false
	}
	delete(s.index, id)
	kept := s.ids[:0]
	for _, existing := range s.ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	s.ids = kept
	return true
}

// toggle reports whether id is selected afterwards.
func (s *selection) toggle(id string) bool {
	if s.remove(id) {
		return false
	}
	s.add(id)
	return true
}

func (s *selection) clear() {
	s.ids = nil
	s.index = make(map[string]struct{})
}

func (s *selection) len() int {
	return len(s.ids)
}

func (s *selection) list() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
