package garage

import "github.com/GKRMP/garage/internal/domain"

// Entry is one selected vehicle. Vehicle is nil until the catalog has been
// seen for ids that came from the saved garage.
type Entry struct {
	ID      string
	Vehicle *domain.Vehicle
}

// Selection is the ordered, de-duplicated working garage
type Selection struct {
	entries []Entry
}

// NewSelection builds a selection from saved ids, dropping duplicates
func NewSelection(ids []string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		if id != "" && !s.Contains(id) {
			s.entries = append(s.entries, Entry{ID: id})
		}
	}
	return s
}

func (s *Selection) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is selected
func (s *Selection) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

// Toggle removes v when present and appends it otherwise. It reports whether v was added.
func (s *Selection) Toggle(v domain.Vehicle) bool {
	if i := s.indexOf(v.ID); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return false
	}
	vehicle := v
	s.entries = append(s.entries, Entry{ID: v.ID, Vehicle: &vehicle})
	return true
}

// IDs returns a snapshot of the selected ids in insertion order
func (s *Selection) IDs() []string {
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// Entries returns a snapshot of the selected entries in insertion order
func (s *Selection) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Selection) Len() int {
	return len(s.entries)
}

// Resolve fills in vehicle details from the catalog for entries that lack them
func (s *Selection) Resolve(byID map[string]domain.Vehicle) {
	for i := range s.entries {
		if s.entries[i].Vehicle != nil {
			continue
		}
		if v, ok := byID[s.entries[i].ID]; ok {
			vehicle := v
			s.entries[i].Vehicle = &vehicle
		}
	}
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
