package params

import "errors"

var (
	ErrNoNodes      = errors.New("params: basis needs at least one node")
	ErrTooFewNodes  = errors.New("params: linear basis needs at least two nodes")
	ErrNoLerp       = errors.New("params: linear basis needs a Lerp")
	ErrUnknownBasis = errors.New("params: unknown basis")
)
