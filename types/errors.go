package types

import "errors"

// exported errors
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrUnknownRoleType     = errors.New("unknown role type")
	ErrUnknownResourceKind = errors.New("unknown resource kind")
	ErrNoResourcePersister = errors.New("resource persister is not configured")
	ErrUnsupportedChange   = errors.New("persister changed in an unsupported way")
)
