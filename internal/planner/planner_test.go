package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/factory-world/internal/economy"
	"github.com/talgya/factory-world/internal/factory"
	"github.com/talgya/factory-world/internal/market"
)

func singleProductCatalog() *economy.Catalog {
	resources := []*economy.Commodity{
		{ID: 1, Name: "Iron", Price: 10, Kind: economy.KindResource},
		{ID: 2, Name: "Coal", Price: 20, Kind: economy.KindResource},
	}
	products := []*economy.Commodity{
		{ID: 100, Name: "Widget", Price: 50, Kind: economy.KindProduct,
			Recipe: []economy.Ingredient{
				{ResourceID: 1, Quantity: 2},
				{ResourceID: 2, Quantity: 1},
			}},
	}
	return economy.NewCatalog(resources, products, nil)
}

func TestRunTurnCapacityBound(t *testing.T) {
	cat := singleProductCatalog()
	book := market.NewBook()

	f := factory.New(2, 1000)
	f.Equipment = append(f.Equipment, economy.Equipment{ID: 1, OutputRate: 4})
	f.Add(1, economy.KindResource, 10)
	f.Add(2, economy.KindResource, 10)

	report, err := RunTurn(cat, f, book)
	require.NoError(t, err)

	// Capacity of 4 binds before either resource does.
	require.Len(t, report.Produced, 1)
	assert.Equal(t, Production{ProductID: 100, Quantity: 4}, report.Produced[0])
	assert.Equal(t, 4, report.PlannedTotal)

	assert.Equal(t, 2, f.Resource(1))
	assert.Equal(t, 6, f.Resource(2))
	assert.Equal(t, 4, f.Product(100))

	// Output listed at the catalog price.
	ask, ok := book.BestAsk(100)
	require.True(t, ok)
	assert.Equal(t, 50.0, ask.Price)
	assert.Equal(t, 4, ask.Quantity)
	assert.Equal(t, f.ID, ask.OwnerID)
}

func TestRunTurnRestocksToSnapshot(t *testing.T) {
	cat := singleProductCatalog()
	book := market.NewBook()

	f := factory.New(2, 1000)
	f.Equipment = append(f.Equipment, economy.Equipment{ID: 1, OutputRate: 4})
	f.Add(1, economy.KindResource, 10)
	f.Add(2, economy.KindResource, 10)

	report, err := RunTurn(cat, f, book)
	require.NoError(t, err)

	// Consumed 8 iron and 4 coal; each shortfall is re-bought at a 5%
	// premium over the catalog price.
	require.Len(t, report.Restocked, 2)
	assert.Equal(t, Restock{ResourceID: 1, Quantity: 8, Price: 10.5}, report.Restocked[0])
	assert.Equal(t, Restock{ResourceID: 2, Quantity: 4, Price: 21.0}, report.Restocked[1])

	assert.Equal(t, 8, book.OpenBuyQuantity(1))
	assert.Equal(t, 4, book.OpenBuyQuantity(2))
}

func TestRunTurnResourceBound(t *testing.T) {
	cat := singleProductCatalog()
	book := market.NewBook()

	f := factory.New(2, 1000)
	f.Equipment = append(f.Equipment, economy.Equipment{ID: 1, OutputRate: 100})
	f.Add(1, economy.KindResource, 6) // enough for 3
	f.Add(2, economy.KindResource, 10)

	report, err := RunTurn(cat, f, book)
	require.NoError(t, err)
	assert.Equal(t, 3, report.PlannedTotal)
	assert.Zero(t, f.Resource(1))
	assert.Equal(t, 7, f.Resource(2))
}

func TestRunTurnPicksMoreProfitableProduct(t *testing.T) {
	resources := []*economy.Commodity{
		{ID: 1, Name: "Iron", Price: 10, Kind: economy.KindResource},
	}
	products := []*economy.Commodity{
		{ID: 100, Name: "Widget", Price: 30, Kind: economy.KindProduct,
			Recipe: []economy.Ingredient{{ResourceID: 1, Quantity: 2}}},
		{ID: 101, Name: "Gadget", Price: 90, Kind: economy.KindProduct,
			Recipe: []economy.Ingredient{{ResourceID: 1, Quantity: 1}}},
	}
	cat := economy.NewCatalog(resources, products, nil)
	book := market.NewBook()

	f := factory.New(2, 1000)
	f.Equipment = append(f.Equipment, economy.Equipment{ID: 1, OutputRate: 5})
	f.Add(1, economy.KindResource, 5)

	report, err := RunTurn(cat, f, book)
	require.NoError(t, err)

	// Both products draw on the same iron pool; all of it goes to the
	// one worth more per unit.
	require.Len(t, report.Produced, 1)
	assert.Equal(t, 101, report.Produced[0].ProductID)
	assert.Equal(t, 5, report.Produced[0].Quantity)
	assert.Zero(t, f.Product(100))
}

func TestRunTurnPlanNeverOutgrowsCapacity(t *testing.T) {
	// The capacity row bounds the LP, so a turn whose plan exactly fills
	// the equipment does not buy more of it.
	resources := []*economy.Commodity{
		{ID: 1, Name: "Iron", Price: 10, Kind: economy.KindResource},
	}
	products := []*economy.Commodity{
		{ID: 100, Name: "Widget", Price: 30, Kind: economy.KindProduct,
			Recipe: []economy.Ingredient{{ResourceID: 1, Quantity: 1}}},
	}
	equipment := []*economy.Equipment{
		{ID: 1, Name: "Press", Price: 40, OutputRate: 2},
	}
	cat := economy.NewCatalog(resources, products, equipment)

	f := factory.New(2, 500)
	f.Equipment = append(f.Equipment, economy.Equipment{ID: 1, OutputRate: 2})
	f.Add(1, economy.KindResource, 10)

	report, err := RunTurn(cat, f, market.NewBook())
	require.NoError(t, err)
	assert.Equal(t, 2, report.PlannedTotal)
	assert.Nil(t, report.BoughtEquipment)
	assert.False(t, report.UpgradeBlocked)
	assert.Len(t, f.Equipment, 1)
	assert.InDelta(t, 500.0, f.Balance, 1e-9)
}

func TestBestEquipmentPrefersOutputPerCost(t *testing.T) {
	catalog := []*economy.Equipment{
		{ID: 1, Name: "Press", Price: 40, OutputRate: 2},  // 0.05 per unit
		{ID: 2, Name: "Lathe", Price: 30, OutputRate: 3},  // 0.10 per unit
		{ID: 3, Name: "Forge", Price: 100, OutputRate: 4}, // 0.04 per unit
		{ID: 4, Name: "Free", Price: 0, OutputRate: 9},    // Ignored: no meaningful ratio.
	}

	best := bestEquipment(catalog)
	require.NotNil(t, best)
	assert.Equal(t, 2, best.ID)

	assert.Nil(t, bestEquipment(nil))
}

func TestRunTurnEmptyCatalog(t *testing.T) {
	f := factory.New(2, 100)
	book := market.NewBook()

	_, err := RunTurn(economy.NewCatalog(nil, nil, nil), f, book)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	assert.Zero(t, book.Len())
	assert.InDelta(t, 100.0, f.Balance, 1e-9)
}

func TestRunTurnConservesResources(t *testing.T) {
	cat := singleProductCatalog()
	book := market.NewBook()

	f := factory.New(2, 1000)
	f.Equipment = append(f.Equipment, economy.Equipment{ID: 1, OutputRate: 3})
	f.Add(1, economy.KindResource, 9)
	f.Add(2, economy.KindResource, 5)

	report, err := RunTurn(cat, f, book)
	require.NoError(t, err)

	// Whatever was consumed equals produced quantity times the recipe.
	for _, res := range cat.Resources {
		consumed := 0
		for _, p := range report.Produced {
			prod, ok := cat.Product(p.ProductID)
			require.True(t, ok)
			consumed += p.Quantity * prod.RecipeQuantity(res.ID)
		}
		restocked := 0
		for _, r := range report.Restocked {
			if r.ResourceID == res.ID {
				restocked = r.Quantity
			}
		}
		assert.Equal(t, consumed, restocked, "restock matches consumption for resource %d", res.ID)
	}
}
