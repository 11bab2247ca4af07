package pcapfile

import "errors"

var (
	ErrShortHeader  = errors.New("pcapfile: file shorter than global header")
	ErrBadMagic     = errors.New("pcapfile: unrecognized magic number")
	ErrShortRecord  = errors.New("pcapfile: truncated record header")
	ErrShortPayload = errors.New("pcapfile: truncated record payload")
	ErrClosed       = errors.New("pcapfile: use of closed source/sink")
)
