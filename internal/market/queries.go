package market

// Read-only views over the book, used by the API and the price updater.

// Len returns the number of live orders across all commodities.
func (b *Book) Len() int {
	return len(b.orders)
}

// Orders returns a snapshot copy of every live order.
func (b *Book) Orders() []Order {
	out := make([]Order, len(b.orders))
	for i, o := range b.orders {
		out[i] = *o
	}
	return out
}

// OrdersFor returns a snapshot copy of the live orders for one commodity.
func (b *Book) OrdersFor(commodityID int) []Order {
	var out []Order
	for _, o := range b.orders {
		if o.CommodityID == commodityID {
			out = append(out, *o)
		}
	}
	return out
}

// Lookup returns a copy of the order with the given id.
func (b *Book) Lookup(orderID int64) (Order, bool) {
	for _, o := range b.orders {
		if o.ID == orderID {
			return *o, true
		}
	}
	return Order{}, false
}

// OpenBuyQuantity sums the remaining quantity of all buy orders for a
// commodity. This is the demand figure the resource price updater reads.
func (b *Book) OpenBuyQuantity(commodityID int) int {
	total := 0
	for _, o := range b.orders {
		if o.CommodityID == commodityID && o.Side == Buy {
			total += o.Quantity
		}
	}
	return total
}

// SellQuantityAtOrBelow sums the remaining sell quantity offered at or
// below the given price. The manual full-purchase check reads this.
func (b *Book) SellQuantityAtOrBelow(commodityID int, maxPrice float64) int {
	total := 0
	for _, o := range b.orders {
		if o.CommodityID == commodityID && o.Side == Sell && o.Price <= maxPrice {
			total += o.Quantity
		}
	}
	return total
}

// BestBid returns the highest-priced live buy order for a commodity.
func (b *Book) BestBid(commodityID int) (Order, bool) {
	var best *Order
	for _, o := range b.orders {
		if o.CommodityID != commodityID || o.Side != Buy {
			continue
		}
		if best == nil || o.Price > best.Price {
			best = o
		}
	}
	if best == nil {
		return Order{}, false
	}
	return *best, true
}

// BestAsk returns the lowest-priced live sell order for a commodity.
func (b *Book) BestAsk(commodityID int) (Order, bool) {
	var best *Order
	for _, o := range b.orders {
		if o.CommodityID != commodityID || o.Side != Sell {
			continue
		}
		if best == nil || o.Price < best.Price {
			best = o
		}
	}
	if best == nil {
		return Order{}, false
	}
	return *best, true
}
