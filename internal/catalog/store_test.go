package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
	"github.com/james-harris851b/Loot-Table-FHE/internal/ledger"
	"github.com/james-harris851b/Loot-Table-FHE/internal/loot"
)

func newTestStore(l ledger.Ledger) *Store {
	s := NewStore(l, zap.NewNop())
	n := 0
	s.newKey = func() string {
		n++
		return fmt.Sprintf("key-%d", n)
	}
	return s
}

func TestAddAndListAll(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	s := newTestStore(led)

	sword, err := s.Add(ctx, "Sword", loot.CategoryWeapon, 0.005, "0xAAA")
	require.NoError(t, err)
	assert.Equal(t, loot.TierLegendary, sword.Tier)

	potion, err := s.Add(ctx, "Potion", loot.CategoryConsumable, 0.5, "0xBBB")
	require.NoError(t, err)
	assert.Equal(t, loot.TierCommon, potion.Tier)

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	stats := Stats(records)
	assert.Equal(t, 1, stats.CommonCount)
	assert.Equal(t, 0, stats.RareCount)
	assert.Equal(t, 1, stats.LegendaryCount)
	assert.InDelta(t, 0.2525, stats.AverageDropRate, 1e-9)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(ledger.NewMemoryLedger())

	_, err := s.Add(ctx, "", loot.CategoryWeapon, 0.1, "0xAAA")
	assert.Error(t, err)
	_, err = s.Add(ctx, "Sword", loot.Category("potion"), 0.1, "0xAAA")
	assert.Error(t, err)
	_, err = s.Add(ctx, "Sword", loot.CategoryWeapon, 1.5, "0xAAA")
	assert.Error(t, err)
	_, err = s.Add(ctx, "Sword", loot.CategoryWeapon, 0.1, "")
	assert.Error(t, err)
}

func TestListAllSkipsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	s := newTestStore(led)

	_, err := s.Add(ctx, "Sword", loot.CategoryWeapon, 0.05, "0xAAA")
	require.NoError(t, err)
	_, err = s.Add(ctx, "Shield", loot.CategoryArmor, 0.2, "0xAAA")
	require.NoError(t, err)

	// Corrupt the first record and index a key with no record at all.
	require.NoError(t, led.SetData(ctx, "loot_key-1", []byte("{not json")))
	require.NoError(t, led.SetData(ctx, "loot_keys", []byte(`["key-1","key-2","ghost"]`)))

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Shield", records[0].Name)
}

func TestUnavailableLedgerDegrades(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	led.Available = false
	s := newTestStore(led)

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = s.Get(ctx, "anything")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Add(ctx, "Sword", loot.CategoryWeapon, 0.1, "0xAAA")
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
}

// Two adds issued against the same initial index state may legally leave the
// index holding only one of the two new keys: the append is read-modify-write
// with no compare-and-swap. The second writer here re-reads the index as it
// stood before the first add, exactly as a concurrent client would.
func TestConcurrentAddsMayLoseIndexEntry(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	s := newTestStore(led)

	initialIndex, err := led.GetData(ctx, "loot_keys")
	require.NoError(t, err)

	first, err := s.Add(ctx, "Sword", loot.CategoryWeapon, 0.05, "0xAAA")
	require.NoError(t, err)

	stale := append([]byte(nil), initialIndex...)
	led.OnGet = func(key string) {
		if key == "loot_keys" {
			led.OnGet = nil
			require.NoError(t, led.SetData(ctx, "loot_keys", stale))
		}
	}
	second, err := s.Add(ctx, "Shield", loot.CategoryArmor, 0.2, "0xBBB")
	require.NoError(t, err)

	// The first record still exists at its key but fell out of the index.
	_, err = s.Get(ctx, first.Key)
	require.NoError(t, err)

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.Key, records[0].Key)
}

func TestGetAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(ledger.NewMemoryLedger())

	rec, err := s.Add(ctx, "Sword", loot.CategoryWeapon, 0.05, "0xAAA")
	require.NoError(t, err)

	got, err := s.Get(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := s.Update(ctx, rec.Key, func(r *loot.Record) error {
		r.Name = "Longsword"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Longsword", updated.Name)

	got, err = s.Get(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, "Longsword", got.Name)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
}

func TestEnhanceRecomputesTier(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(ledger.NewMemoryLedger())

	rec, err := s.Add(ctx, "Sword", loot.CategoryWeapon, 0.09, "0xAAA")
	require.NoError(t, err)
	assert.Equal(t, loot.TierRare, rec.Tier)

	// Doubling crosses the 0.1 threshold; the stored tier must follow.
	out, err := s.Enhance(ctx, rec.Key, codec.OpDouble)
	require.NoError(t, err)
	x, err := codec.Decode(out.DropRate)
	require.NoError(t, err)
	assert.InDelta(t, 0.18, x, 1e-12)
	assert.Equal(t, loot.TierCommon, out.Tier)

	got, err := s.Get(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, loot.TierCommon, got.Tier)
}

func TestLegacyPlainRateRecord(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	s := newTestStore(led)

	// A record written before obfuscation stores the rate as a raw decimal.
	require.NoError(t, led.SetData(ctx, "loot_old", []byte(`{"name":"Relic","dropRate":"0.02","timestamp":1700000000,"owner":"0xAAA","category":"material"}`)))
	require.NoError(t, led.SetData(ctx, "loot_keys", []byte(`["old"]`)))

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Missing status decodes as common.
	assert.Equal(t, loot.TierCommon, records[0].Tier)

	stats := Stats(records)
	assert.InDelta(t, 0.02, stats.AverageDropRate, 1e-12)
}

func TestEndToEndSQLiteLedger(t *testing.T) {
	ctx := context.Background()
	led, err := ledger.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer led.Close()
	s := newTestStore(led)

	_, err = s.Add(ctx, "Sword", loot.CategoryWeapon, 0.005, "0xAAA")
	require.NoError(t, err)
	_, err = s.Add(ctx, "Potion", loot.CategoryConsumable, 0.5, "0xBBB")
	require.NoError(t, err)

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	stats := Stats(records)
	assert.Equal(t, 1, stats.CommonCount)
	assert.Equal(t, 1, stats.LegendaryCount)
	assert.InDelta(t, 0.2525, stats.AverageDropRate, 1e-9)
}
