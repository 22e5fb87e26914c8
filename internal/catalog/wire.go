package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
	"github.com/james-harris851b/Loot-Table-FHE/internal/loot"
)

// wireRecord is the JSON payload stored under "loot_<key>" on the ledger.
// Field names are part of the contract with other clients.
type wireRecord struct {
	Name      string `json:"name"`
	DropRate  string `json:"dropRate"`
	Timestamp int64  `json:"timestamp"`
	Owner     string `json:"owner"`
	Category  string `json:"category"`
	Status    string `json:"status"`
}

func encodeRecord(r loot.Record) ([]byte, error) {
	return json.Marshal(wireRecord{
		Name:      r.Name,
		DropRate:  string(r.DropRate),
		Timestamp: r.CreatedAt,
		Owner:     r.Owner,
		Category:  string(r.Category),
		Status:    r.Tier.String(),
	})
}

func decodeRecord(key string, raw []byte) (loot.Record, error) {
	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return loot.Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if w.Name == "" || w.DropRate == "" {
		return loot.Record{}, fmt.Errorf("%w: missing name or drop rate", ErrMalformedRecord)
	}
	return loot.Record{
		Key:       key,
		Name:      w.Name,
		Category:  loot.Category(w.Category),
		DropRate:  codec.Token(w.DropRate),
		Tier:      loot.ParseTier(w.Status),
		Owner:     w.Owner,
		CreatedAt: w.Timestamp,
	}, nil
}

func decodeIndex(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil
	}
	return keys
}
