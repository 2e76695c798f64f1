package nav

// Sequence is the reading order of a sidebar's leaves, used for
// next/previous navigation.
type Sequence struct {
	slugs []string
	index map[string]int
}

// NewSequence flattens items into reading order. Duplicate slugs keep their
// first position.
func NewSequence(items []*Node) *Sequence {
	s := &Sequence{index: make(map[string]int)}
	for _, slug := range Leaves(items) {
		if _, dup := s.index[slug]; dup {
			continue
		}
		s.index[slug] = len(s.slugs)
		s.slugs = append(s.slugs, slug)
	}
	return s
}

// Slugs returns the ordered slugs.
func (s *Sequence) Slugs() []string { return append([]string(nil), s.slugs...) }

// Len returns the number of leaves in the sequence.
func (s *Sequence) Len() int { return len(s.slugs) }

// Neighbors returns the previous and next slugs around slug. Empty strings
// mark the start and end of the sequence; ok is false if slug is not present.
func (s *Sequence) Neighbors(slug string) (prev, next string, ok bool) {
	i, ok := s.index[slug]
	if !ok {
		return "", "", false
	}
	if i > 0 {
		prev = s.slugs[i-1]
	}
	if i+1 < len(s.slugs) {
		next = s.slugs[i+1]
	}
	return prev, next, true
}
