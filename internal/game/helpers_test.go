package game

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/galaxies-frontier/internal/log"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard, slog.LevelError)
	os.Exit(m.Run())
}

// testUniverse returns a fresh copy of the built-in catalog.
func testUniverse(t *testing.T) *Universe {
	t.Helper()
	u, err := DefaultUniverse()
	require.NoError(t, err)
	return u
}

// Fixture system ids.
const (
	havenID = 0 // trade hub: market, refuel, shipyard
	reachID = 1 // mining outpost 100 units (6.67 ly) from Haven
	voidID  = 2 // unpopulated, 300 units (20 ly) from Haven
)

// fixtureWorld builds a three-system world with hand-set markets so tests
// do not depend on generation. Arrival encounters are disabled.
func fixtureWorld(t *testing.T) *World {
	t.Helper()
	u := testUniverse(t)
	u.BalanceConfig.EncounterChance = 0

	haven := &System{
		ID:          havenID,
		Name:        "Port Haven",
		Position:    Position{X: 100, Y: 100},
		Economy:     EconomyTrade,
		Tech:        LevelMedium,
		Security:    LevelMedium,
		HasShipyard: true,
		HasRefuel:   true,
		HasMarket:   true,
		Discovered:  true,
		Market: map[string]*MarketEntry{
			"food":    {Name: "Food Rations", BuyPrice: 10, SellPrice: 7, Quantity: 50, MaxQuantity: 80},
			"fuel":    {Name: "Fuel Cells", BuyPrice: 12, SellPrice: 9, Quantity: 40, MaxQuantity: 80},
			"weapons": {Name: "Weapons", BuyPrice: 400, SellPrice: 300, Quantity: 5, MaxQuantity: 10, Illegal: true},
		},
	}
	reach := &System{
		ID:        reachID,
		Name:      "Dust Reach",
		Position:  Position{X: 160, Y: 180},
		Economy:   EconomyMining,
		Tech:      LevelLow,
		Security:  LevelNone,
		HasRefuel: true,
		HasMarket: true,
		Market: map[string]*MarketEntry{
			"ore":  {Name: "Raw Ore", BuyPrice: 50, SellPrice: 40, Quantity: 30, MaxQuantity: 40},
			"food": {Name: "Food Rations", BuyPrice: 25, SellPrice: 20, Quantity: 10, MaxQuantity: 40},
		},
	}
	void := &System{
		ID:       voidID,
		Name:     "Empty Void",
		Position: Position{X: 100, Y: 400},
		Economy:  EconomyUnpopulated,
		Market:   map[string]*MarketEntry{},
	}

	galaxy := &Galaxy{
		Systems:     []*System{haven, reach, void},
		Width:       420,
		Height:      420,
		MinDistance: 30,
		StartID:     havenID,
	}
	return NewWorld(u, galaxy, NewRand(7))
}

// cargoQty sums all lines of a good.
func cargoQty(w *World, goodID string) int {
	n := 0
	for _, c := range w.Cargo {
		if c.GoodID == goodID {
			n += c.Quantity
		}
	}
	return n
}
