// Package ledger abstracts the flat key-value store the catalog persists
// into. The contract surface offers per-key get/set only: no transactions,
// no compare-and-swap across keys.
package ledger

import "context"

type Ledger interface {
	// IsAvailable probes the backing store for liveness.
	IsAvailable(ctx context.Context) (bool, error)
	// GetData reads the bytes stored under key. A missing key yields empty
	// bytes and a nil error, matching the contract's semantics.
	GetData(ctx context.Context, key string) ([]byte, error)
	// SetData writes value under key, replacing any prior value.
	SetData(ctx context.Context, key string, value []byte) error
}
