package pkt

import "errors"

var (
	ErrCaplen  = errors.New("caplen does not match payload length")
	ErrNoTime  = errors.New("record has no timestamp")
	ErrNegSecs = errors.New("negative seconds magnitude")
)
