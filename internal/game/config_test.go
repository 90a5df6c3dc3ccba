package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUniverse(t *testing.T) {
	u := testUniverse(t)

	assert.Len(t, u.Goods, 13)
	assert.Len(t, u.Economies, 8)
	assert.Len(t, u.CustomSystems, 3)
	assert.Len(t, u.Upgrades, 6)
	assert.Equal(t, 1000, u.BalanceConfig.StartingCredits)

	narcotics, ok := u.Good("narcotics")
	require.True(t, ok)
	assert.True(t, narcotics.Illegal)
	assert.Empty(t, narcotics.Producers)

	custom, ok := u.Economy(EconomyCustom)
	require.True(t, ok)
	assert.Zero(t, custom.Weight, "custom archetype must never be drawn")

	unpopulated, ok := u.Economy(EconomyUnpopulated)
	require.True(t, ok)
	assert.False(t, unpopulated.HasMarket)
	assert.False(t, unpopulated.HasRefuel)
}

func TestEncounterWeights_NoPoliceWithoutSecurity(t *testing.T) {
	u := testUniverse(t)
	assert.Zero(t, u.EncounterWeights.ForSecurity(LevelNone).Police)
	assert.Greater(t, u.EncounterWeights.ForSecurity(LevelHigh).Police, u.EncounterWeights.ForSecurity(LevelLow).Police)
}

func TestUniverseValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *Universe)
		errMsg string
	}{
		{
			name:   "duplicate good",
			mutate: func(u *Universe) { u.Goods = append(u.Goods, u.Goods[0]) },
			errMsg: "duplicate good",
		},
		{
			name:   "non-positive base price",
			mutate: func(u *Universe) { u.Goods[0].BasePrice = 0 },
			errMsg: "base_price must be positive",
		},
		{
			name: "modifier for unknown good",
			mutate: func(u *Universe) {
				u.Economies[0].Modifiers = map[string]PriceModifier{"unobtainium": {BaseModifier: 1, QuantityMultiplier: 1}}
			},
			errMsg: "unknown good",
		},
		{
			name: "custom system sells above buy",
			mutate: func(u *Universe) {
				u.CustomSystems[0].Market = map[string]MarketOverride{"food": {Buy: 10, Sell: 20, Quantity: 5}}
			},
			errMsg: "sells above its buy price",
		},
		{
			name:   "unknown upgrade effect",
			mutate: func(u *Universe) { u.Upgrades[0].Effect = "warp" },
			errMsg: "unknown effect",
		},
		{
			name: "no drawable economy",
			mutate: func(u *Universe) {
				for i := range u.Economies {
					u.Economies[i].Weight = 0
				}
			},
			errMsg: "no economy archetype",
		},
		{
			name:   "restock windows reversed",
			mutate: func(u *Universe) { u.Restock.PartialAfterDays = 20 },
			errMsg: "restock partial window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := testUniverse(t)
			tt.mutate(u)
			err := u.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseUniverse_Malformed(t *testing.T) {
	_, err := ParseUniverse([]byte("goods: [\n"))
	require.Error(t, err)

	_, err = ParseUniverse([]byte("custom_systems:\n  - name: X\n    tech: ultra\n"))
	require.Error(t, err, "unknown level must be rejected")
}

func TestLoadUniverse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.yaml")
	require.NoError(t, os.WriteFile(path, defaultUniverseYAML, 0o644))

	u, err := LoadUniverse(path)
	require.NoError(t, err)
	assert.Len(t, u.Goods, 13)

	_, err = LoadUniverse(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Level
	}{
		{"none", LevelNone},
		{"low", LevelLow},
		{"Medium", LevelMedium},
		{"HIGH", LevelHigh},
	} {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, levelNames[tc.want], got.String())
	}

	_, err := ParseLevel("extreme")
	assert.Error(t, err)
}

func TestExtent(t *testing.T) {
	u := testUniverse(t)
	ref := u.BalanceConfig.ReferenceSize

	wide := u.Extent(ShapeWide, ref)
	assert.Greater(t, wide.Width, wide.Height)

	tall := u.Extent(ShapeTall, ref)
	assert.Greater(t, tall.Height, tall.Width)

	assert.Equal(t, u.Extent(ShapeBalanced, ref), u.Extent("spiral", ref), "unknown shapes fall back to balanced")
}

func TestExtent_GrowsWithSize(t *testing.T) {
	u := testUniverse(t)
	ref := u.BalanceConfig.ReferenceSize

	for _, shape := range []GalaxyShape{ShapeBalanced, ShapeWide, ShapeTall} {
		t.Run(string(shape), func(t *testing.T) {
			base := u.Extent(shape, ref)
			assert.Equal(t, base, u.Extent(shape, 10), "small galaxies keep the base box")

			prev := base
			for _, size := range []int{2 * ref, 4 * ref, 8 * ref} {
				ext := u.Extent(shape, size)
				assert.Greater(t, ext.Width, prev.Width, "size %d", size)
				assert.Greater(t, ext.Height, prev.Height, "size %d", size)
				assert.InDelta(t, base.Width/base.Height, ext.Width/ext.Height, 1e-9, "aspect is kept")
				prev = ext
			}

			quad := u.Extent(shape, 4*ref)
			assert.InDelta(t, 2*base.Width, quad.Width, 1e-9, "area tracks system count")
			assert.InDelta(t, 2*base.Height, quad.Height, 1e-9)
		})
	}
}
