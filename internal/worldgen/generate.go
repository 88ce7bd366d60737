// Package worldgen builds the starting world: commodity and equipment
// catalogs plus the player-directed and automated factories. Generation
// is deterministic for a given seed.
package worldgen

import (
	"fmt"
	"math/rand"

	"github.com/talgya/factory-world/internal/economy"
	"github.com/talgya/factory-world/internal/factory"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Seed          int64 // Random seed (0 = random)
	NumResources  int
	NumProducts   int
	NumEquipment  int
	NumAIFactorys int // Automated factories, ids start at 2.

	StartingBalance float64 // Every factory starts with this.
	PlayerStock     int     // Player starting units of each resource.
	AIStockMin      int     // Automated factories start with AIStockMin..AIStockMax of each resource.
	AIStockMax      int
}

// DefaultGenConfig returns the standard world size.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		NumResources:    20,
		NumProducts:     10,
		NumEquipment:    5,
		NumAIFactorys:   6,
		StartingBalance: 1000,
		PlayerStock:     10,
		AIStockMin:      5,
		AIStockMax:      15,
	}
}

// SmallTestConfig returns a tiny world for tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Seed:            42,
		NumResources:    4,
		NumProducts:     2,
		NumEquipment:    2,
		NumAIFactorys:   2,
		StartingBalance: 1000,
		PlayerStock:     10,
		AIStockMin:      5,
		AIStockMax:      15,
	}
}

// Name pools. When a pool runs dry, generated names fall back to
// "Resource N" style placeholders.
var resourceNames = []string{
	"Iron", "Copper", "Gold", "Silver", "Coal",
	"Oil", "Timber", "Uranium", "Platinum", "Nickel",
	"Zinc", "Lead", "Tin", "Aluminum", "Lithium",
	"Cobalt", "Chromium", "Manganese", "Potash", "Salt",
	"Phosphate", "Bauxite", "Graphite", "Silicon", "Soda Ash",
}

var productNames = []string{
	"Steel", "Electronics", "Automobiles", "Chemicals", "Textiles",
	"Machinery", "Pharmaceuticals", "Food Products", "Furniture", "Paper",
	"Plastics", "Ceramics", "Rubber", "Cosmetics", "Beverages",
}

var equipmentNames = []string{
	"Lathe", "Press", "Conveyor", "Crane", "Drill",
	"Mixer", "Furnace", "Milling Machine", "Cutter", "Grinder",
}

// World is the generated starting state.
type World struct {
	Catalog     *economy.Catalog
	Player      *factory.Factory
	AIFactories []*factory.Factory
}

// Generate builds catalogs and factories from the configuration.
func Generate(cfg GenConfig) *World {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	resources := generateResources(cfg, rng)
	equipment := generateEquipment(cfg, rng)
	products := generateProducts(cfg, rng, resources, equipment)
	catalog := economy.NewCatalog(resources, products, equipment)

	// Player factory: fixed starting stock of every resource.
	player := factory.New(1, cfg.StartingBalance)
	for _, res := range resources {
		player.Add(res.ID, economy.KindResource, cfg.PlayerStock)
	}

	// Automated factories: random starting stock of every resource.
	ais := make([]*factory.Factory, 0, cfg.NumAIFactorys)
	for i := 0; i < cfg.NumAIFactorys; i++ {
		f := factory.New(2+i, cfg.StartingBalance)
		for _, res := range resources {
			f.Add(res.ID, economy.KindResource, cfg.AIStockMin+rng.Intn(cfg.AIStockMax-cfg.AIStockMin+1))
		}
		ais = append(ais, f)
	}

	return &World{Catalog: catalog, Player: player, AIFactories: ais}
}

func generateResources(cfg GenConfig, rng *rand.Rand) []*economy.Commodity {
	pool := pickNames(resourceNames, "Resource", cfg.NumResources, rng)
	out := make([]*economy.Commodity, 0, cfg.NumResources)
	for i := 0; i < cfg.NumResources; i++ {
		out = append(out, &economy.Commodity{
			ID:    i + 1, // Resource ids 1..NumResources.
			Name:  pool[i],
			Price: 4 + rng.Float64()*146, // 4..150
			Kind:  economy.KindResource,
		})
	}
	return out
}

func generateEquipment(cfg GenConfig, rng *rand.Rand) []*economy.Equipment {
	pool := pickNames(equipmentNames, "Equipment", cfg.NumEquipment, rng)
	out := make([]*economy.Equipment, 0, cfg.NumEquipment)
	for i := 0; i < cfg.NumEquipment; i++ {
		out = append(out, &economy.Equipment{
			ID:              i + 1,
			Name:            pool[i],
			Price:           10 + rng.Float64()*40, // 10..50
			OutputRate:      1 + rng.Intn(10),      // 1..10
			OperationalCost: 10 + rng.Float64()*40, // 10..50
		})
	}
	return out
}

func generateProducts(cfg GenConfig, rng *rand.Rand, resources []*economy.Commodity, equipment []*economy.Equipment) []*economy.Commodity {
	pool := pickNames(productNames, "Product", cfg.NumProducts, rng)
	out := make([]*economy.Commodity, 0, cfg.NumProducts)
	for i := 0; i < cfg.NumProducts; i++ {
		prod := &economy.Commodity{
			ID:    cfg.NumResources + i + 1, // Product ids follow resource ids.
			Name:  pool[i],
			Price: 75 + rng.Float64()*625, // 75..700
			Kind:  economy.KindProduct,
		}

		// Recipe: 1..7 draws; duplicate resource draws are dropped, so
		// a recipe may end up with fewer distinct ingredients.
		numIngredients := 1 + rng.Intn(7)
		seen := make(map[int]bool, numIngredients)
		for j := 0; j < numIngredients; j++ {
			res := resources[rng.Intn(len(resources))]
			if seen[res.ID] {
				continue
			}
			seen[res.ID] = true
			prod.Recipe = append(prod.Recipe, economy.Ingredient{
				ResourceID: res.ID,
				Quantity:   1 + rng.Intn(10),
			})
		}

		// Equipment requirements: declared for display; not a hard
		// planning constraint.
		numReqs := 1 + rng.Intn(len(equipment))
		seenEquip := make(map[int]bool, numReqs)
		for j := 0; j < numReqs; j++ {
			e := equipment[rng.Intn(len(equipment))]
			if seenEquip[e.ID] {
				continue
			}
			seenEquip[e.ID] = true
			prod.RequiredEquipment = append(prod.RequiredEquipment, economy.EquipmentReq{
				EquipmentID: e.ID,
				Quantity:    1 + rng.Intn(3),
			})
		}

		out = append(out, prod)
	}
	return out
}

// pickNames draws count names from the pool without replacement,
// falling back to "prefix N" once the pool is exhausted.
func pickNames(pool []string, prefix string, count int, rng *rand.Rand) []string {
	remaining := make([]string, len(pool))
	copy(remaining, pool)
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if len(remaining) == 0 {
			out = append(out, fmt.Sprintf("%s %d", prefix, i+1))
			continue
		}
		idx := rng.Intn(len(remaining))
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}
