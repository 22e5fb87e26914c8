package loot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		rate float64
		want Tier
	}{
		{0.5, TierCommon},
		{0.1, TierCommon},
		{0.0999, TierRare},
		{0.05, TierRare},
		{0.01, TierRare},
		{0.0099, TierLegendary},
		{0.005, TierLegendary},
		{0, TierLegendary},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.rate), "classify(%v)", c.rate)
	}
}

func TestTierWireValues(t *testing.T) {
	for _, tier := range []Tier{TierCommon, TierRare, TierLegendary} {
		assert.Equal(t, tier, ParseTier(tier.String()))
	}
	assert.Equal(t, TierCommon, ParseTier(""))
	assert.Equal(t, TierCommon, ParseTier("mythic"))
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, ValidCategory(c), string(c))
	}
	assert.False(t, ValidCategory(CategoryAll))
	assert.False(t, ValidCategory(Category("potion")))
}
