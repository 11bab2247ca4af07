package capio

import "errors"

// Sentinel errors for the §7 capture-I/O error kinds. Concrete
// implementations wrap these with fmt.Errorf("...: %w", ErrX) so
// callers can classify failures with errors.Is while still getting a
// reader-specific message.
var (
	ErrInputOpen  = errors.New("capio: input open failed")
	ErrRead       = errors.New("capio: read failed")
	ErrOutputOpen = errors.New("capio: output open failed")
	ErrWrite      = errors.New("capio: write failed")
	ErrClose      = errors.New("capio: close failed")
)
