package factory

import (
	"errors"
	"fmt"

	"github.com/talgya/factory-world/internal/economy"
	"github.com/talgya/factory-world/internal/market"
)

// Manual trade and production flows for the human-directed factory.
//
// Settlement here is optimistic by design: a buy credits inventory for
// the full requested quantity and a sell debits it up front, at the
// limit price, regardless of how much of the order actually matches.
// Confirmed-match settlement would change observable economic behavior,
// so the simplification is kept and documented (DESIGN.md).

// ErrSupplyShort is returned by Buy when a full-purchase order can't be
// covered by the sell quantity available at or below the limit price.
var ErrSupplyShort = errors.New("factory: not enough supply at or below limit price")

// Buy places a buy order and settles it optimistically: the balance is
// debited quantity × maxPrice and the inventory credited the full
// quantity. With fullOnly set, the order is refused outright unless the
// book offers at least quantity units at or below maxPrice.
func (f *Factory) Buy(book *market.Book, commodityID int, kind economy.Kind, quantity int, maxPrice float64, fullOnly bool) ([]market.Trade, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("factory: buy quantity must be positive, got %d", quantity)
	}
	if fullOnly {
		available := book.SellQuantityAtOrBelow(commodityID, maxPrice)
		if available < quantity {
			return nil, fmt.Errorf("%w: commodity %d has %d of %d", ErrSupplyShort, commodityID, available, quantity)
		}
	}
	cost := float64(quantity) * maxPrice
	if f.Balance < cost {
		return nil, fmt.Errorf("%w: buy costs %.2f, balance %.2f", ErrInsufficientFunds, cost, f.Balance)
	}

	_, trades := book.PlaceBuyOrder(commodityID, quantity, maxPrice, f.ID)
	f.Balance -= cost
	f.Add(commodityID, kind, quantity)
	return trades, nil
}

// Sell places a sell order and settles it optimistically: the full
// quantity leaves the inventory immediately and the proceeds at the
// limit price are credited. Refused before any mutation when the
// inventory is short.
func (f *Factory) Sell(book *market.Book, commodityID int, kind economy.Kind, quantity int, price float64) ([]market.Trade, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("factory: sell quantity must be positive, got %d", quantity)
	}
	if err := f.Remove(commodityID, kind, quantity); err != nil {
		return nil, err
	}
	_, trades := book.PlaceSellOrder(commodityID, quantity, price, f.ID)
	f.Balance += float64(quantity) * price
	return trades, nil
}

// Produce manufactures up to requested units of a product, clamped to
// what the recipe's resources allow and to the equipment capacity. The
// day's operating cost is charged; the flow is refused before any
// mutation when resources, capacity, or balance fall short.
func (f *Factory) Produce(product *economy.Commodity, requested int) (int, error) {
	if product.Kind != economy.KindProduct || len(product.Recipe) == 0 {
		return 0, fmt.Errorf("factory: commodity %d (%s) is not manufacturable", product.ID, product.Name)
	}
	if requested <= 0 {
		return 0, fmt.Errorf("factory: production amount must be positive, got %d", requested)
	}

	producible := requested
	for _, ing := range product.Recipe {
		possible := f.Resource(ing.ResourceID) / ing.Quantity
		if possible < producible {
			producible = possible
		}
	}
	if producible <= 0 {
		return 0, fmt.Errorf("%w: resources for product %d", ErrInsufficientStock, product.ID)
	}

	capacity := f.Capacity()
	if capacity <= 0 {
		return 0, fmt.Errorf("factory: no equipment capacity to produce product %d", product.ID)
	}
	if capacity < producible {
		producible = capacity
	}

	opCost := f.OperatingCost()
	if f.Balance < opCost {
		return 0, fmt.Errorf("%w: operating cost %.2f, balance %.2f", ErrInsufficientFunds, opCost, f.Balance)
	}

	for _, ing := range product.Recipe {
		if err := f.Remove(ing.ResourceID, economy.KindResource, producible*ing.Quantity); err != nil {
			// Unreachable given the clamp above; surface it rather than corrupt state.
			return 0, err
		}
	}
	f.Balance -= opCost
	f.Add(product.ID, economy.KindProduct, producible)
	return producible, nil
}
