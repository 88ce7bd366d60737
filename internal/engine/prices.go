// Daily resource price adjustment from open demand against a sampled
// supply curve, plus the market-owned supply listings that feed the
// next day's planners.
package engine

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/factory-world/internal/economy"
	"github.com/talgya/factory-world/internal/market"
)

const (
	// priceAlpha is the sensitivity of price to the demand/supply ratio.
	priceAlpha = 0.1
	// Supply per resource per day is sampled in [minSupply, maxSupply].
	minSupply = 100
	maxSupply = 1000
	// priceFloor is the hard lower bound on any resource price.
	priceFloor = 1.0
	// supplyFreq stretches the noise curve so supply drifts over days
	// rather than jumping.
	supplyFreq = 0.1
)

// priceUpdater samples daily resource supply from a seeded noise curve
// so runs are reproducible, unlike a fresh uniform draw each day.
type priceUpdater struct {
	noise opensimplex.Noise
}

func newPriceUpdater(seed int64) *priceUpdater {
	return &priceUpdater{noise: opensimplex.NewNormalized(seed + 7)}
}

// supplyFor returns the day's sampled supply for one resource.
func (p *priceUpdater) supplyFor(day uint64, resourceID int) int {
	v := p.noise.Eval2(float64(day)*supplyFreq, float64(resourceID))
	return minSupply + int(v*float64(maxSupply-minSupply))
}

// update adjusts every resource's reference price from open buy demand
// versus sampled supply, then lists the sampled supply as a
// market-owned sell order at the new price. Market-owned orders sit in
// the book without an immediate match pass.
func (p *priceUpdater) update(day uint64, cat *economy.Catalog, book *market.Book) []Event {
	var events []Event
	for _, res := range cat.Resources {
		demand := book.OpenBuyQuantity(res.ID)
		supply := p.supplyFor(day, res.ID)

		ratio := 0.0
		if supply > 0 {
			ratio = float64(demand) / float64(supply)
		}
		newPrice := res.Price * (1 + priceAlpha*(ratio-1))
		if newPrice < priceFloor {
			newPrice = priceFloor
		}
		res.Price = newPrice

		book.PlaceSellOrder(res.ID, supply, newPrice, market.MarketOwnerID)

		events = append(events, Event{
			Day:         day,
			Description: fmt.Sprintf("%s repriced to %.2f (demand %d, supply %d)", res.Name, newPrice, demand, supply),
			Category:    "market",
		})
	}
	return events
}
