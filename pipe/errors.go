package pipe

import "errors"

var (
	ErrNoSource = errors.New("pipe: Options.Source not set")
	ErrNoOpener = errors.New("pipe: Options.OpenSink not set")
)
