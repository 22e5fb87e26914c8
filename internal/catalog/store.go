// Package catalog maintains the loot records and the shared key index on top
// of the flat ledger. It is the only place catalog-wide invariants live; the
// ledger itself knows nothing beyond get/set by key.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
	"github.com/james-harris851b/Loot-Table-FHE/internal/ledger"
	"github.com/james-harris851b/Loot-Table-FHE/internal/loot"
)

const (
	indexKey      = "loot_keys"
	itemKeyPrefix = "loot_"
)

var (
	// ErrLedgerUnavailable reports a failed liveness probe before a write.
	// Reads degrade to an empty catalog instead of returning this.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	ErrNotFound          = errors.New("record not found")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrWriteFailed       = errors.New("write failed")
)

type Store struct {
	ledger ledger.Ledger
	log    *zap.Logger
	now    func() time.Time
	newKey func() string
}

func NewStore(l ledger.Ledger, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		ledger: l,
		log:    log,
		now:    time.Now,
		newKey: uuid.NewString,
	}
}

// ListAll reads the key index and then every indexed record. A key whose
// record is unreadable or malformed is logged and skipped so one corrupt
// entry never blanks the catalog. When the ledger is unreachable the catalog
// reads as empty rather than erroring.
func (s *Store) ListAll(ctx context.Context) ([]loot.Record, error) {
	ok, err := s.ledger.IsAvailable(ctx)
	if err != nil || !ok {
		s.log.Debug("ledger unavailable, catalog reads empty", zap.Error(err))
		return nil, nil
	}

	raw, err := s.ledger.GetData(ctx, indexKey)
	if err != nil {
		s.log.Warn("failed to read key index", zap.Error(err))
		return nil, nil
	}

	keys := decodeIndex(raw)
	out := make([]loot.Record, 0, len(keys))
	for _, k := range keys {
		itemRaw, err := s.ledger.GetData(ctx, itemKeyPrefix+k)
		if err != nil {
			s.log.Warn("skipping unreadable record", zap.String("key", k), zap.Error(err))
			continue
		}
		if len(itemRaw) == 0 {
			s.log.Warn("indexed key has no record", zap.String("key", k))
			continue
		}
		rec, err := decodeRecord(k, itemRaw)
		if err != nil {
			s.log.Warn("skipping malformed record", zap.String("key", k), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Add validates and writes a new record, then appends its key to the shared
// index. The append is a plain read-modify-write: the ledger has no
// compare-and-swap, so two adds racing within one round-trip window can each
// read the same prior index and the later write drops the other's key. The
// record itself survives at its own key; it is only unreachable through
// ListAll. This lost update is a documented property of the design, not a
// bug this client papers over.
func (s *Store) Add(ctx context.Context, name string, category loot.Category, dropRate float64, owner string) (loot.Record, error) {
	if name == "" {
		return loot.Record{}, errors.New("name is required")
	}
	if !loot.ValidCategory(category) {
		return loot.Record{}, fmt.Errorf("unknown category %q", category)
	}
	if owner == "" {
		return loot.Record{}, errors.New("owner is required")
	}

	ok, err := s.ledger.IsAvailable(ctx)
	if err != nil || !ok {
		return loot.Record{}, ErrLedgerUnavailable
	}

	// Tier is classified from the plain value before it is encoded away.
	token, err := codec.Encode(dropRate)
	if err != nil {
		return loot.Record{}, err
	}
	rec := loot.Record{
		Key:       s.newKey(),
		Name:      name,
		Category:  category,
		DropRate:  token,
		Tier:      loot.Classify(dropRate),
		Owner:     owner,
		CreatedAt: s.now().Unix(),
	}

	payload, err := encodeRecord(rec)
	if err != nil {
		return loot.Record{}, err
	}
	if err := s.ledger.SetData(ctx, itemKeyPrefix+rec.Key, payload); err != nil {
		return loot.Record{}, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	raw, err := s.ledger.GetData(ctx, indexKey)
	if err != nil {
		return loot.Record{}, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	keys := append(decodeIndex(raw), rec.Key)
	indexRaw, err := json.Marshal(keys)
	if err != nil {
		return loot.Record{}, err
	}
	if err := s.ledger.SetData(ctx, indexKey, indexRaw); err != nil {
		// The record is stored but unindexed; surface the failure.
		return loot.Record{}, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return rec, nil
}

// Get reads one record by key. Missing, unreadable, and malformed all report
// ErrNotFound; malformed additionally logs the cause.
func (s *Store) Get(ctx context.Context, key string) (loot.Record, error) {
	ok, err := s.ledger.IsAvailable(ctx)
	if err != nil || !ok {
		return loot.Record{}, ErrNotFound
	}

	raw, err := s.ledger.GetData(ctx, itemKeyPrefix+key)
	if err != nil || len(raw) == 0 {
		return loot.Record{}, ErrNotFound
	}
	rec, err := decodeRecord(key, raw)
	if err != nil {
		s.log.Warn("stored record is malformed", zap.String("key", key), zap.Error(err))
		return loot.Record{}, ErrNotFound
	}
	return rec, nil
}

// Update reads the record, applies mutate, and writes it back under the same
// key. The index is untouched: the key set does not change.
func (s *Store) Update(ctx context.Context, key string, mutate func(*loot.Record) error) (loot.Record, error) {
	rec, err := s.Get(ctx, key)
	if err != nil {
		return loot.Record{}, err
	}
	if err := mutate(&rec); err != nil {
		return loot.Record{}, err
	}

	payload, err := encodeRecord(rec)
	if err != nil {
		return loot.Record{}, err
	}
	if err := s.ledger.SetData(ctx, itemKeyPrefix+key, payload); err != nil {
		return loot.Record{}, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return rec, nil
}

// Enhance applies a codec transform to the record's drop-rate token and
// recomputes the stored tier from the transformed value, so the tier cannot
// go stale when the transform crosses a threshold.
func (s *Store) Enhance(ctx context.Context, key string, op codec.Op) (loot.Record, error) {
	return s.Update(ctx, key, func(r *loot.Record) error {
		next, err := codec.Transform(r.DropRate, op)
		if err != nil {
			return err
		}
		x, err := codec.Decode(next)
		if err != nil {
			return err
		}
		r.DropRate = next
		r.Tier = loot.Classify(x)
		return nil
	})
}
