package pipe

// CommentTable maps a 1-based record index to a comment string (§3).
// A nil CommentTable disables the Comment stage entirely. Each index
// is consumed at most once during emission (§3 "used at most once per
// index during emission"): Take deletes the entry it returns so a
// second record sharing the same index number, if the input somehow
// produced one, does not get the same comment reapplied.
type CommentTable map[uint64]string

// Take returns the comment for index, if any, and removes it from the
// table.
func (c CommentTable) Take(index uint64) (string, bool) {
	if c == nil {
		return "", false
	}
	s, ok := c[index]
	if ok {
		delete(c, index)
	}
	return s, ok
}
