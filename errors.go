package main

import "errors"

var (
	ErrMissingField    = errors.New("missing field")
	ErrBadField        = errors.New("bad field")
	ErrUnknownType     = errors.New("unknown item type")
	ErrUnresolvedPeer  = errors.New("unresolved peer")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrNothingToExport = errors.New("nothing to export")
)
