// Package market implements the shared order book and its continuous
// double-auction matching engine. The Book is the single mutable
// resource every trading path writes to; all order mutation goes
// through its methods.
package market

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

// MarketOwnerID marks orders issued by the market itself (periodic
// supply listings). Market-owned sell orders are recorded without an
// immediate match pass; they become matchable when a later placement
// touches the same commodity.
const MarketOwnerID = 0

var (
	// ErrOrderNotFound is returned by Cancel when no live order has the id.
	ErrOrderNotFound = errors.New("market: order not found")
	// ErrNotOwner is returned by Cancel when the requester does not own the order.
	ErrNotOwner = errors.New("market: order not owned by requester")
)

// Side is the direction of an order.
type Side uint8

const (
	Buy Side = iota
	Sell
)

// String returns "buy" or "sell".
func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Order is a live entry in the book. Quantity is the remaining amount
// and decreases on partial fills; the order leaves the book when it
// reaches zero. Price is the limit: a maximum for buys, a minimum for
// sells.
type Order struct {
	ID          int64   `json:"id"`
	CommodityID int     `json:"commodity_id"`
	Side        Side    `json:"side"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	OwnerID     int     `json:"owner_id"`
}

// Trade records one execution between a buy and a sell order. Trades
// always execute at the seller's limit price.
type Trade struct {
	ID          string  `json:"id"`
	CommodityID int     `json:"commodity_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	BuyOrderID  int64   `json:"buy_order_id"`
	SellOrderID int64   `json:"sell_order_id"`
	BuyerID     int     `json:"buyer_id"`
	SellerID    int     `json:"seller_id"`
}

// Book holds all live orders across all commodities. It is not safe
// for concurrent use; callers serialize access (each matching pass
// reads and rewrites the full per-commodity order set).
type Book struct {
	orders []*Order
	nextID int64
}

// NewBook returns an empty order book. Order ids start at 1 and are
// never reused.
func NewBook() *Book {
	return &Book{nextID: 1}
}

// PlaceBuyOrder records a bid and runs a match pass for the commodity.
// It returns the new order (which may already be partially or fully
// filled) and any trades the placement triggered.
func (b *Book) PlaceBuyOrder(commodityID, quantity int, maxPrice float64, ownerID int) (*Order, []Trade) {
	order := b.append(commodityID, Buy, maxPrice, quantity, ownerID)
	trades := b.match(commodityID)
	return order, trades
}

// PlaceSellOrder records an ask. Orders from real owners trigger an
// immediate match pass; market-issued supply (MarketOwnerID) is only
// recorded and waits for a later placement to match against.
func (b *Book) PlaceSellOrder(commodityID, quantity int, price float64, ownerID int) (*Order, []Trade) {
	order := b.append(commodityID, Sell, price, quantity, ownerID)
	if ownerID == MarketOwnerID {
		return order, nil
	}
	trades := b.match(commodityID)
	return order, trades
}

// Cancel removes a live order. It fails without side effects when the
// order does not exist or belongs to someone else.
func (b *Book) Cancel(orderID int64, ownerID int) error {
	for i, o := range b.orders {
		if o.ID != orderID {
			continue
		}
		if o.OwnerID != ownerID {
			return ErrNotOwner
		}
		b.orders = append(b.orders[:i], b.orders[i+1:]...)
		return nil
	}
	return ErrOrderNotFound
}

func (b *Book) append(commodityID int, side Side, price float64, quantity, ownerID int) *Order {
	order := &Order{
		ID:          b.nextID,
		CommodityID: commodityID,
		Side:        side,
		Price:       price,
		Quantity:    quantity,
		OwnerID:     ownerID,
	}
	b.nextID++
	b.orders = append(b.orders, order)
	return order
}

// match clears crossing orders for one commodity under price priority.
// Bids sort descending, asks ascending; while the best bid meets the
// best ask, a trade executes for the overlapping quantity at the
// seller's price. Ties among equal-priced orders keep collection
// order (implementation-defined, not guaranteed FIFO). Exhausted
// orders are purged from the book after the pass.
func (b *Book) match(commodityID int) []Trade {
	var bids, asks []*Order
	for _, o := range b.orders {
		if o.CommodityID != commodityID || o.Quantity <= 0 {
			continue
		}
		if o.Side == Buy {
			bids = append(bids, o)
		} else {
			asks = append(asks, o)
		}
	}

	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.SliceStable(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })

	var trades []Trade
	for len(bids) > 0 && len(asks) > 0 {
		bestBid, bestAsk := bids[0], asks[0]
		if bestBid.Price < bestAsk.Price {
			break
		}

		amount := bestBid.Quantity
		if bestAsk.Quantity < amount {
			amount = bestAsk.Quantity
		}
		bestBid.Quantity -= amount
		bestAsk.Quantity -= amount

		trades = append(trades, Trade{
			ID:          uuid.NewString(),
			CommodityID: commodityID,
			Quantity:    amount,
			Price:       bestAsk.Price,
			BuyOrderID:  bestBid.ID,
			SellOrderID: bestAsk.ID,
			BuyerID:     bestBid.OwnerID,
			SellerID:    bestAsk.OwnerID,
		})

		if bestBid.Quantity == 0 {
			bids = bids[1:]
		}
		if bestAsk.Quantity == 0 {
			asks = asks[1:]
		}
	}

	if len(trades) > 0 {
		b.purge()
	}
	return trades
}

// purge drops fully executed orders from the book.
func (b *Book) purge() {
	live := b.orders[:0]
	for _, o := range b.orders {
		if o.Quantity > 0 {
			live = append(live, o)
		}
	}
	b.orders = live
}
