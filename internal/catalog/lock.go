package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the catalog directory by WriterLock.
const LockFileName = ".pxrd.lock"

// WriterLock is an advisory, cross-process exclusive lock on a catalog
// directory. It does not stop writers that do not take it.
type WriterLock struct {
	lock *flock.Flock
}

// Lock acquires the writer lock for dir without blocking. When another
// process holds it, the error matches ErrLocked.
func Lock(dir string) (*WriterLock, error) {
	l := flock.New(filepath.Join(dir, LockFileName))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &WriterLock{lock: l}, nil
}

// Unlock releases the lock. It is safe to call on a nil lock.
func (l *WriterLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
