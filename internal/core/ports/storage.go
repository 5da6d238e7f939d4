package ports

import "context"

// StorageGate blocks until the storage backend is reachable or reports
// domain.ErrUnavailable once its polling budget is spent.
type StorageGate interface {
	EnsureReady(ctx context.Context) error
}
