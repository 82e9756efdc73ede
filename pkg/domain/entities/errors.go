package entities

import "errors"

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrEdgeNotFound     = errors.New("edge not found")
	ErrDuplicateNode    = errors.New("duplicate node")
	ErrDuplicateEdge    = errors.New("duplicate edge")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrInvalidEdge      = errors.New("invalid edge")
	// ErrPoolTooSmall signals a sample or slice larger than the pool it is drawn from
	ErrPoolTooSmall = errors.New("pool too small")
)
