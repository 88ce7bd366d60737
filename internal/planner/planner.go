// Package planner computes a profit-maximizing daily production plan
// for an automated factory and applies it: produce, list for sale,
// restock, and invest in capacity. Each run is a pure function of the
// catalog, the factory, and the order book; the planner holds no state
// between turns.
package planner

import (
	"errors"
	"fmt"

	"github.com/talgya/factory-world/internal/economy"
	"github.com/talgya/factory-world/internal/factory"
	"github.com/talgya/factory-world/internal/market"
	"github.com/talgya/factory-world/internal/simplex"
)

// ErrEmptyCatalog is returned when there is nothing to plan over. The
// turn is skipped without touching any state.
var ErrEmptyCatalog = errors.New("planner: empty product or resource catalog")

// restockMarkup is the premium over the reference price offered when
// replenishing consumed resources.
const restockMarkup = 1.05

// roundEps absorbs float noise when flooring solver quantities.
const roundEps = 1e-3

// Production is one line of an executed plan.
type Production struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// Restock is one replenishment buy order issued after production.
type Restock struct {
	ResourceID int     `json:"resource_id"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// Report summarizes what one planning turn did.
type Report struct {
	FactoryID    int            `json:"factory_id"`
	Produced     []Production   `json:"produced"`
	Restocked    []Restock      `json:"restocked"`
	Trades       []market.Trade `json:"trades"`
	PlannedTotal int            `json:"planned_total"`

	// Capacity investment outcome.
	BoughtEquipment *economy.Equipment `json:"bought_equipment,omitempty"`
	UpgradeBlocked  bool               `json:"upgrade_blocked"` // Wanted more capacity, could not afford it.
}

// RunTurn plans and executes one day for an automated factory. On
// solver failure or an empty catalog it returns an error and leaves
// factory and book untouched.
func RunTurn(cat *economy.Catalog, f *factory.Factory, book *market.Book) (*Report, error) {
	if len(cat.Products) == 0 || len(cat.Resources) == 0 {
		return nil, ErrEmptyCatalog
	}

	// Snapshot resource availability and capacity.
	avail := make(map[int]int, len(cat.Resources))
	for _, res := range cat.Resources {
		avail[res.ID] = f.Resource(res.ID)
	}
	capacity := f.Capacity()

	// Only resources referenced by at least one recipe constrain the plan.
	var used []*economy.Commodity
	for _, res := range cat.Resources {
		for _, prod := range cat.Products {
			if prod.RecipeQuantity(res.ID) > 0 {
				used = append(used, res)
				break
			}
		}
	}

	solution, err := solvePlan(cat.Products, used, avail, capacity)
	if err != nil {
		return nil, err
	}

	report := &Report{FactoryID: f.ID}

	// Execute production and list the output for sale.
	for j, prod := range cat.Products {
		qty := int(solution[j] + roundEps)
		if qty <= 0 {
			continue
		}
		for _, ing := range prod.Recipe {
			if err := f.Remove(ing.ResourceID, economy.KindResource, qty*ing.Quantity); err != nil {
				// The LP bounded consumption by the snapshot, so this
				// means the snapshot and inventory diverged mid-turn.
				return nil, fmt.Errorf("planner: applying plan for product %d: %w", prod.ID, err)
			}
		}
		f.Add(prod.ID, economy.KindProduct, qty)
		_, trades := book.PlaceSellOrder(prod.ID, qty, prod.Price, f.ID)
		report.Trades = append(report.Trades, trades...)
		report.Produced = append(report.Produced, Production{ProductID: prod.ID, Quantity: qty})
		report.PlannedTotal += qty
	}

	// Replenish every LP resource back up to its snapshot level.
	for _, res := range used {
		target := avail[res.ID]
		current := f.Resource(res.ID)
		if current >= target {
			continue
		}
		shortfall := target - current
		price := res.Price * restockMarkup
		_, trades := book.PlaceBuyOrder(res.ID, shortfall, price, f.ID)
		report.Trades = append(report.Trades, trades...)
		report.Restocked = append(report.Restocked, Restock{ResourceID: res.ID, Quantity: shortfall, Price: price})
	}

	// Invest in capacity when the plan outgrew the equipment: one unit
	// of the best output-per-cost entry, if affordable.
	if report.PlannedTotal > capacity {
		best := bestEquipment(cat.Equipment)
		if best != nil && f.Balance >= best.Price {
			f.Balance -= best.Price
			f.Equipment = append(f.Equipment, *best)
			report.BoughtEquipment = best
		} else {
			report.UpgradeBlocked = true
		}
	}

	return report, nil
}

// solvePlan builds the LP tableau and runs the solver. One constraint
// row per used resource, one aggregate capacity row, and a negated
// price objective (the solver minimizes).
func solvePlan(products, used []*economy.Commodity, avail map[int]int, capacity int) ([]float64, error) {
	numProducts := len(products)
	rows := len(used) + 2 // objective + resource rows + capacity row

	tableau := make([][]float64, rows)
	for i := range tableau {
		tableau[i] = make([]float64, numProducts+1)
	}

	for j, prod := range products {
		tableau[0][j] = -prod.Price
	}

	for i, res := range used {
		row := tableau[i+1]
		for j, prod := range products {
			row[j] = float64(prod.RecipeQuantity(res.ID))
		}
		row[numProducts] = float64(avail[res.ID])
	}

	capRow := tableau[rows-1]
	for j := 0; j < numProducts; j++ {
		capRow[j] = 1
	}
	capRow[numProducts] = float64(capacity)

	solver, err := simplex.New(tableau)
	if err != nil {
		return nil, fmt.Errorf("planner: building tableau: %w", err)
	}
	if err := solver.Solve(); err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	return solver.Solution(), nil
}

// bestEquipment picks the catalog entry with the highest output rate
// per unit price. Operational cost is not considered at purchase time.
func bestEquipment(catalog []*economy.Equipment) *economy.Equipment {
	var best *economy.Equipment
	bestRatio := 0.0
	for _, e := range catalog {
		if e.Price <= 0 {
			continue
		}
		ratio := float64(e.OutputRate) / e.Price
		if ratio > bestRatio {
			bestRatio = ratio
			best = e
		}
	}
	return best
}
