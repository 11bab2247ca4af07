package ranges

// Keep applies the §4.8 top-level policy: keepMode XORs the match result.
// In delete mode (keepMode == false) matched records are dropped, so
// Keep returns true for everything NOT matched. In keep mode (keepMode
// == true) only matched records survive.
func Keep(s *Set, n uint64, keepMode bool) bool {
	return s.Selected(n) == keepMode
}
