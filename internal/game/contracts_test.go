package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContracts(t *testing.T) {
	u := testUniverse(t)
	g, err := GenerateGalaxy(u, 50, ShapeBalanced, NewRand(21))
	require.NoError(t, err)

	contracts := GenerateContracts(u, g, NewRand(22))
	require.Len(t, contracts, 5)

	hunts, deliveries := 0, 0
	ids := map[string]bool{}
	for _, c := range contracts {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		assert.False(t, c.Completed)
		require.NotNil(t, g.System(c.TargetSystem))

		switch c.Type {
		case ContractHunt:
			hunts++
			assert.GreaterOrEqual(t, c.Tier, 3)
			assert.LessOrEqual(t, c.Tier, 10)
			assert.Equal(t, HuntReward(c.Tier), c.Reward)
			assert.NotEqual(t, g.StartID, c.TargetSystem)
		case ContractDelivery:
			deliveries++
			require.NotNil(t, g.System(c.OriginSystem))
			assert.NotEqual(t, c.OriginSystem, c.TargetSystem)
			good, ok := u.Good(c.GoodID)
			require.True(t, ok)
			assert.False(t, good.Illegal)
			assert.GreaterOrEqual(t, c.Quantity, 5)
			assert.LessOrEqual(t, c.Quantity, 14)
			assert.Equal(t, int(math.Round(float64(good.BasePrice*c.Quantity)*1.5)), c.Reward)
		}
	}
	assert.Equal(t, 3, hunts)
	assert.Equal(t, 2, deliveries)
}

func TestHuntReward(t *testing.T) {
	assert.Equal(t, 1400, HuntReward(3))
	assert.Equal(t, 3500, HuntReward(10))
}

func addDelivery(w *World, qty int) *Contract {
	c := &Contract{
		ID:           "DLV-1",
		Type:         ContractDelivery,
		Reward:       450,
		OriginSystem: havenID,
		TargetSystem: reachID,
		GoodID:       "textiles",
		GoodName:     "Textiles",
		Quantity:     qty,
	}
	w.Contracts = append(w.Contracts, c)
	return c
}

// fly jumps to id and lands.
func fly(t *testing.T, w *World, id int) ArrivalReport {
	t.Helper()
	require.NoError(t, w.SetTarget(id))
	_, err := w.TravelToSystem()
	require.NoError(t, err)
	report, err := w.CompleteTravel()
	require.NoError(t, err)
	return report
}

func TestHandleContract_DeliveryFlow(t *testing.T) {
	w := fixtureWorld(t)
	c := addDelivery(w, 8)

	// 1. Pick up at the origin.
	r, err := w.HandleContract(c.ID)
	require.NoError(t, err)
	assert.Equal(t, ContractPickedUp, r.Action)
	line := w.cargoLine("textiles", c.ID)
	require.NotNil(t, line)
	assert.Equal(t, 8, line.Quantity)
	assert.Equal(t, 8, w.CargoUsed(), "contract cargo takes hold space")

	// 2. Handling again away from the destination sets course for it.
	r, err = w.HandleContract(c.ID)
	require.NoError(t, err)
	assert.Equal(t, ContractCourseSet, r.Action)
	assert.Equal(t, reachID, w.TargetSystem)

	// 3. Deliver.
	fly(t, w, reachID)
	r, err = w.HandleContract(c.ID)
	require.NoError(t, err)
	assert.Equal(t, ContractDelivered, r.Action)
	assert.Equal(t, 450, r.Reward)
	assert.Equal(t, 1450, w.Credits)
	assert.True(t, c.Completed)
	assert.Nil(t, w.cargoLine("textiles", c.ID))

	_, err = w.HandleContract(c.ID)
	assert.ErrorIs(t, err, ErrContractCompleted)
}

func TestHandleContract_DeliveryCourseToOrigin(t *testing.T) {
	w := fixtureWorld(t)
	c := addDelivery(w, 8)
	c.OriginSystem = voidID

	r, err := w.HandleContract(c.ID)
	require.NoError(t, err)
	assert.Equal(t, ContractCourseSet, r.Action)
	assert.Equal(t, voidID, w.TargetSystem)
}

func TestHandleContract_MissingGoods(t *testing.T) {
	w := fixtureWorld(t)
	c := addDelivery(w, 8)
	fly(t, w, reachID)

	_, err := w.HandleContract(c.ID)
	assert.ErrorIs(t, err, ErrMissingGoods, "nothing was picked up")

	// A short line is still missing goods.
	w.Cargo = append(w.Cargo, &CargoItem{GoodID: "textiles", Quantity: 5, ContractID: c.ID})
	_, err = w.HandleContract(c.ID)
	assert.ErrorIs(t, err, ErrMissingGoods)
	assert.False(t, c.Completed)
	assert.Equal(t, 1000, w.Credits)
}

func TestHandleContract_PickupNeedsSpace(t *testing.T) {
	w := fixtureWorld(t)
	c := addDelivery(w, 8)
	w.Ship.CargoCapacity = 7

	_, err := w.HandleContract(c.ID)
	assert.ErrorIs(t, err, ErrCargoFull)
	assert.Empty(t, w.Cargo)
}

func TestHandleContract_Hunt(t *testing.T) {
	w := fixtureWorld(t)
	hunt := &Contract{ID: "HNT-1", Type: ContractHunt, Reward: HuntReward(4), TargetSystem: reachID, Tier: 4}
	w.Contracts = append(w.Contracts, hunt)

	r, err := w.HandleContract(hunt.ID)
	require.NoError(t, err)
	assert.Equal(t, ContractCourseSet, r.Action)
	assert.Equal(t, reachID, w.TargetSystem)

	w.CurrentSystem = reachID
	r, err = w.HandleContract(hunt.ID)
	require.NoError(t, err)
	assert.Equal(t, ContractInZone, r.Action)
}

func TestHandleContract_Errors(t *testing.T) {
	w := fixtureWorld(t)
	_, err := w.HandleContract("NOPE-1")
	assert.ErrorIs(t, err, ErrNotFound)

	c := addDelivery(w, 5)
	w.Travel = &TravelState{}
	_, err = w.HandleContract(c.ID)
	assert.ErrorIs(t, err, ErrTraveling)
}
