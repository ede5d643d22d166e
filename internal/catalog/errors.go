package catalog

import "errors"

var (
	// ErrAlreadyExists reports a name collision on create or rename.
	ErrAlreadyExists = errors.New("spectrum already exists")
	// ErrNotFound reports an operation on an unknown name.
	ErrNotFound = errors.New("spectrum not found")
	// ErrOrphanRecord reports a descriptor without its sample file or a
	// sample file without its descriptor.
	ErrOrphanRecord = errors.New("orphan catalog record")
	// ErrInvalidName reports a name that is not a filesystem-safe token.
	ErrInvalidName = errors.New("invalid spectrum name")
	// ErrInvalidElement reports a contained element outside the periodic
	// table.
	ErrInvalidElement = errors.New("invalid contained element")
	// ErrLocked reports that another process holds the catalog writer lock.
	ErrLocked = errors.New("catalog is locked by another process")
)
