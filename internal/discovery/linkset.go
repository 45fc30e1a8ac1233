package discovery

// linkSet keeps links unique in first-seen order, up to a cap.
type linkSet struct {
	limit int
	seen  map[string]struct{}
	order []string
}

func newLinkSet(limit int) *linkSet {
	return &linkSet{
		limit: limit,
		seen:  make(map[string]struct{}, limit),
		order: make([]string, 0, limit),
	}
}

// Add records link and reports whether it was new. Links past the cap are ignored.
func (s *linkSet) Add(link string) bool {
	if s.Full() {
		return false
	}
	if _, ok := s.seen[link]; ok {
		return false
	}
	s.seen[link] = struct{}{}
	s.order = append(s.order, link)
	return true
}

func (s *linkSet) Full() bool { return len(s.order) >= s.limit }

func (s *linkSet) Len() int { return len(s.order) }

// Links returns a copy of the links collected so far.
func (s *linkSet) Links() []string {
	return append([]string(nil), s.order...)
}
