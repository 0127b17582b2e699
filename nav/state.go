package nav

// SectionState stores user overrides of section disclosure. Absent
// entries fall back to the structural default the caller supplies, so
// sections follow the selection until the user touches them. Overrides
// live until the widget is discarded; there is no automatic expiry.
//
// The zero value is not usable, call NewSectionState.
type SectionState struct {
	overrides map[string]bool
}

// NewSectionState returns an empty state with no overrides.
func NewSectionState() *SectionState {
	return &SectionState{overrides: make(map[string]bool)}
}

// IsOpen returns the override for id if present, else structuralDefault.
func (s *SectionState) IsOpen(id string, structuralDefault bool) bool {
	if v, ok := s.overrides[id]; ok {
		return v
	}
	return structuralDefault
}

// Toggle records the negation of the value currently displayed for id.
// Passing the displayed value rather than the raw override means a
// section that is open purely by structural default closes on the first
// toggle.
func (s *SectionState) Toggle(id string, displayed bool) {
	s.overrides[id] = !displayed
}
