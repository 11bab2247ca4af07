package split

import "errors"

// ErrBothTriggers is a ConfigError (§4.6): count-split and interval-split
// are mutually exclusive.
var ErrBothTriggers = errors.New("split: -c and -i are mutually exclusive")
