package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnavailable covers network failures and an unreachable
	// remote store. Reads fall back to the local cache silently; writes
	// surface it to the caller.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrSchemaMismatch means the remote rejected a write because a
	// referenced column does not exist there. Retried once with a reduced
	// payload, then final.
	ErrSchemaMismatch = errors.New("remote schema mismatch")

	// ErrRelationMissing means a whole table is absent remotely. Fatal
	// misconfiguration: optimistic changes are reverted.
	ErrRelationMissing = errors.New("remote relation missing")

	ErrNotFound  = errors.New("not found")
	ErrCartEmpty = errors.New("cart is empty")
)

// InsufficientStockError rejects a checkout before any state changes.
type InsufficientStockError struct {
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available: %d)", e.Name, e.Available)
}

// SyncWarning wraps a remote write failure where the local change is kept.
// Callers treat it as a non-blocking warning, not a failure.
type SyncWarning struct {
	Err error
}

func (w *SyncWarning) Error() string { return "cloud sync issue: " + w.Err.Error() }
func (w *SyncWarning) Unwrap() error { return w.Err }

// IsSyncWarning reports whether err is a best-effort sync warning.
func IsSyncWarning(err error) bool {
	var w *SyncWarning
	return errors.As(err, &w)
}
