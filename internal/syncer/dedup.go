package syncer

// SeenSet tracks identity keys materialized in the current run.
type SeenSet struct {
	keys       map[string]struct{}
	duplicates int
}

func NewSeenSet() *SeenSet {
	return &SeenSet{keys: make(map[string]struct{})}
}

// Seen records key and returns true on its first occurrence. Every later
// occurrence returns false and bumps the duplicate counter.
func (s *SeenSet) Seen(key string) bool {
	if _, ok := s.keys[key]; ok {
		s.duplicates++
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s *SeenSet) Duplicates() int {
	return s.duplicates
}

// Len is the number of unique keys recorded.
func (s *SeenSet) Len() int {
	return len(s.keys)
}
