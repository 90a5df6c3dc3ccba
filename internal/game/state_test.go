package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	u := testUniverse(t)
	w, err := NewGame(u, NewGameOptions{Size: 50, Seed: 9})
	require.NoError(t, err)

	assert.Equal(t, u.BalanceConfig.StartingCredits, w.Credits)
	assert.Equal(t, w.Galaxy.StartID, w.CurrentSystem)
	assert.Equal(t, NoSystem, w.TargetSystem)
	assert.Equal(t, w.Current().Position, w.Ship.Position)
	assert.Equal(t, u.PlayerShipConfig.Hull, w.Ship.Hull)
	assert.False(t, w.Traveling())
	assert.False(t, w.GameOver())
	assert.Len(t, w.Contracts, huntContracts+deliveryContracts)
	assert.NotEmpty(t, w.Log.Messages)

	_, err = NewGame(u, NewGameOptions{Size: 1})
	assert.ErrorIs(t, err, ErrInvalidGalaxy)
}

func TestSetTarget(t *testing.T) {
	w := fixtureWorld(t)

	require.NoError(t, w.SetTarget(reachID))
	assert.Equal(t, reachID, w.TargetSystem)

	assert.ErrorIs(t, w.SetTarget(99), ErrNotFound)
	assert.ErrorIs(t, w.SetTarget(-5), ErrNotFound)
	assert.Equal(t, reachID, w.TargetSystem, "failed call keeps the old target")
}

func TestQuoteTravel(t *testing.T) {
	w := fixtureWorld(t)

	q, err := w.QuoteTravel(reachID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0/15, q.Distance, 1e-9)
	assert.Equal(t, 7, q.FuelCost)
	assert.Equal(t, 7, q.Days)
	assert.InDelta(t, math.Atan2(80, 60)*180/math.Pi, q.Angle, 1e-9)
	assert.True(t, q.CanAfford)

	w.Ship.Fuel = 6
	q, err = w.QuoteTravel(reachID)
	require.NoError(t, err)
	assert.False(t, q.CanAfford)
	assert.Equal(t, 6, w.Ship.Fuel, "quoting burns nothing")

	_, err = w.QuoteTravel(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTravelRoundTrip(t *testing.T) {
	w := fixtureWorld(t)
	fuel := w.Ship.Fuel

	require.NoError(t, w.SetTarget(reachID))
	r, err := w.TravelToSystem()
	require.NoError(t, err)
	assert.Equal(t, 7, r.FuelCost)
	assert.Equal(t, fuel-7, w.Ship.Fuel)
	assert.True(t, w.Traveling())
	assert.Equal(t, havenID, w.CurrentSystem, "the jump commits on completion")
	assert.Equal(t, r.Angle, w.Ship.Rotation)
	assert.Contains(t, r.Message, "an uncharted system")

	// Every action is gated while traveling.
	_, err = w.TravelToSystem()
	assert.ErrorIs(t, err, ErrTraveling)
	assert.ErrorIs(t, w.SetTarget(voidID), ErrTraveling)
	_, err = w.RefuelShip()
	assert.ErrorIs(t, err, ErrTraveling)
	_, err = w.UpgradeShip("hull")
	assert.ErrorIs(t, err, ErrTraveling)

	arrival, err := w.CompleteTravel()
	require.NoError(t, err)
	assert.Equal(t, reachID, w.CurrentSystem)
	assert.Equal(t, NoSystem, w.TargetSystem)
	assert.Equal(t, w.Current().Position, w.Ship.Position)
	assert.False(t, w.Traveling())
	assert.True(t, arrival.FirstVisit)
	assert.True(t, w.Current().Discovered)
	assert.Equal(t, 7, arrival.Days)
	assert.Equal(t, 7, w.Day)
	assert.Equal(t, 1, w.Stats.SystemsVisited)
	assert.Nil(t, arrival.Encounter)

	_, err = w.CompleteTravel()
	assert.ErrorIs(t, err, ErrNotTraveling)
}

func TestTravelToSystem_Errors(t *testing.T) {
	w := fixtureWorld(t)

	_, err := w.TravelToSystem()
	assert.ErrorIs(t, err, ErrNoTarget)

	require.NoError(t, w.SetTarget(havenID))
	_, err = w.TravelToSystem()
	assert.ErrorIs(t, err, ErrNoTarget, "current system is not a destination")

	require.NoError(t, w.SetTarget(voidID))
	w.Ship.Fuel = 19
	_, err = w.TravelToSystem()
	assert.ErrorIs(t, err, ErrInsufficientFuel)
	assert.Equal(t, 19, w.Ship.Fuel)
	assert.False(t, w.Traveling())

	w.Ship.Fuel = 20
	w.StartEncounter(EncounterDistress)
	_, err = w.TravelToSystem()
	assert.ErrorIs(t, err, ErrEncounterActive)
}

func TestCompleteTravel_RestocksMarket(t *testing.T) {
	w := fixtureWorld(t)
	ore := w.Galaxy.System(reachID).Market["ore"]
	ore.Quantity = 0
	w.Day = 30

	require.NoError(t, w.SetTarget(reachID))
	_, err := w.TravelToSystem()
	require.NoError(t, err)
	arrival, err := w.CompleteTravel()
	require.NoError(t, err)

	assert.True(t, arrival.Restocked)
	assert.Equal(t, w.Universe.Restock.FullStep, ore.Quantity)
	assert.Equal(t, w.Day, w.Galaxy.System(reachID).LastRestock)
}

func TestRefuelShip(t *testing.T) {
	w := fixtureWorld(t)
	w.Ship.Fuel = 10

	r, err := w.RefuelShip()
	require.NoError(t, err)
	assert.Equal(t, 20, r.Units)
	assert.Equal(t, 12, r.UnitPrice, "uses the local fuel price")
	assert.Equal(t, 240, r.Cost)
	assert.Equal(t, w.Ship.MaxFuel, w.Ship.Fuel)
	assert.Equal(t, 760, w.Credits)

	_, err = w.RefuelShip()
	assert.ErrorIs(t, err, ErrFuelFull)

	w.Ship.Fuel = 0
	w.Credits = 50
	_, err = w.RefuelShip()
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Zero(t, w.Ship.Fuel)

	w.CurrentSystem = voidID
	_, err = w.RefuelShip()
	assert.ErrorIs(t, err, ErrNoRefuel)
}

func TestRefuelUnitPrice(t *testing.T) {
	assert.Equal(t, 10, RefuelUnitPrice(&System{Tech: LevelHigh}))
	assert.Equal(t, 20, RefuelUnitPrice(&System{Tech: LevelLow}))
	assert.Equal(t, 15, RefuelUnitPrice(&System{Tech: LevelMedium}))
	assert.Equal(t, 8, RefuelUnitPrice(&System{
		Tech:      LevelLow,
		HasMarket: true,
		Market:    map[string]*MarketEntry{"fuel": {BuyPrice: 8}},
	}))
}

func TestUpgradeShip(t *testing.T) {
	tests := []struct {
		id    string
		check func(t *testing.T, before, after Ship)
	}{
		{"hull", func(t *testing.T, before, after Ship) {
			assert.Equal(t, before.MaxHull+25, after.MaxHull)
			assert.Equal(t, after.MaxHull, after.Hull, "hull upgrades repair fully")
		}},
		{"weapons", func(t *testing.T, before, after Ship) {
			assert.Equal(t, before.Damage+5, after.Damage)
		}},
		{"evasion", func(t *testing.T, before, after Ship) {
			assert.Equal(t, before.Evasion+5, after.Evasion)
		}},
		{"shields", func(t *testing.T, before, after Ship) {
			assert.Equal(t, before.MaxShields+10, after.MaxShields)
			assert.Equal(t, after.MaxShields, after.Shields)
		}},
		{"cargo", func(t *testing.T, before, after Ship) {
			assert.Equal(t, before.CargoCapacity+10, after.CargoCapacity)
		}},
		{"fuel", func(t *testing.T, before, after Ship) {
			assert.Equal(t, before.MaxFuel+10, after.MaxFuel)
			assert.Equal(t, after.MaxFuel, after.Fuel)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w := fixtureWorld(t)
			w.Credits = 5000
			w.Ship.Hull = 40
			w.Ship.Shields = 2
			w.Ship.Fuel = 3
			before := w.Ship

			r, err := w.UpgradeShip(tt.id)
			require.NoError(t, err)
			assert.Equal(t, 5000-r.Upgrade.Cost, w.Credits)
			tt.check(t, before, w.Ship)
			assert.Equal(t, w.Ship, r.Ship)
		})
	}
}

func TestUpgradeShip_Errors(t *testing.T) {
	w := fixtureWorld(t)

	_, err := w.UpgradeShip("cloak")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = w.UpgradeShip("hull")
	assert.ErrorIs(t, err, ErrInsufficientFunds, "1000 CR does not cover 2500")

	w.Credits = 10000
	w.CurrentSystem = reachID
	_, err = w.UpgradeShip("hull")
	assert.ErrorIs(t, err, ErrNoShipyard)
	assert.Equal(t, 10000, w.Credits)
}

func TestTakeDamage(t *testing.T) {
	w := fixtureWorld(t)

	hull, destroyed := w.TakeDamage(30)
	assert.Equal(t, 70, hull)
	assert.False(t, destroyed)

	hull, destroyed = w.TakeDamage(-10)
	assert.Equal(t, 70, hull, "negative damage is ignored")
	assert.False(t, destroyed)

	hull, destroyed = w.TakeDamage(500)
	assert.Zero(t, hull)
	assert.True(t, destroyed)
	assert.Zero(t, w.Ship.Hull, "hull clamps at zero")
	assert.True(t, w.GameOver())
}

func TestMessageLog(t *testing.T) {
	l := NewMessageLog(3)
	l.Add("one", MsgInfo)
	l.SetDay(4)
	l.Add("two", MsgWarning)
	l.Add("three", MsgInfo)
	l.Add("four", MsgCritical)

	require.Len(t, l.Messages, 3)
	assert.Equal(t, "two", l.Messages[0].Text, "oldest line evicted")
	assert.Equal(t, 4, l.Messages[2].Day)

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "four", recent[1].Text)
	assert.Len(t, l.Recent(10), 3)
}
