package catalog

import (
	"sort"
	"strings"

	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
	"github.com/james-harris851b/Loot-Table-FHE/internal/loot"
)

// View derivations are pure functions over a ListAll snapshot, recomputed on
// demand. They must be total: a record whose token no longer decodes sorts
// last and contributes zero to the average instead of failing the view.

// SortByDropRate returns a copy ordered by decoded drop rate, descending.
// Ties keep their input order.
func SortByDropRate(records []loot.Record) []loot.Record {
	out := make([]loot.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return sortRate(out[i]) > sortRate(out[j])
	})
	return out
}

func sortRate(r loot.Record) float64 {
	x, err := codec.Decode(r.DropRate)
	if err != nil {
		return -1
	}
	return x
}

// Filter keeps records whose name or category contains query
// (case-insensitive) and whose category matches the filter. CategoryAll
// matches every record.
func Filter(records []loot.Record, query string, category loot.Category) []loot.Record {
	q := strings.ToLower(query)
	out := make([]loot.Record, 0, len(records))
	for _, r := range records {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(string(r.Category)), q) {
			continue
		}
		if category != "" && category != loot.CategoryAll && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out
}

type Summary struct {
	Total           int
	CommonCount     int
	RareCount       int
	LegendaryCount  int
	AverageDropRate float64
}

// Stats aggregates tier counts and the mean decoded drop rate. An empty
// catalog reports a zero average.
func Stats(records []loot.Record) Summary {
	s := Summary{Total: len(records)}
	total := 0.0
	for _, r := range records {
		switch r.Tier {
		case loot.TierLegendary:
			s.LegendaryCount++
		case loot.TierRare:
			s.RareCount++
		default:
			s.CommonCount++
		}
		if x, err := codec.Decode(r.DropRate); err == nil {
			total += x
		}
	}
	if s.Total > 0 {
		s.AverageDropRate = total / float64(s.Total)
	}
	return s
}

type Contributor struct {
	Owner string
	Count int
}

// TopContributors groups records by owner and returns the n owners with the
// most records, descending. Owners with equal counts keep the order of their
// first appearance.
func TopContributors(records []loot.Record, n int) []Contributor {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, seen := counts[r.Owner]; !seen {
			order = append(order, r.Owner)
		}
		counts[r.Owner]++
	}

	out := make([]Contributor, 0, len(order))
	for _, owner := range order {
		out = append(out, Contributor{Owner: owner, Count: counts[owner]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
