package ledger

import (
	"context"
	"sync"
)

// MemoryLedger is an in-process Ledger for tests and experiments. The OnGet
// and OnSet hooks run before the operation, outside the lock, so a test can
// interleave writes between another caller's read and write.
type MemoryLedger struct {
	mu   sync.Mutex
	data map[string][]byte

	Available bool
	OnGet     func(key string)
	OnSet     func(key string, value []byte)
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		data:      make(map[string][]byte),
		Available: true,
	}
}

func (l *MemoryLedger) IsAvailable(ctx context.Context) (bool, error) {
	return l.Available, nil
}

func (l *MemoryLedger) GetData(ctx context.Context, key string) ([]byte, error) {
	if l.OnGet != nil {
		l.OnGet(key)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v := l.data[key]
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (l *MemoryLedger) SetData(ctx context.Context, key string, value []byte) error {
	if l.OnSet != nil {
		l.OnSet(key, value)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	l.data[key] = v
	return nil
}
