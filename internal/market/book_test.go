package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialFillAtSellerPrice(t *testing.T) {
	b := NewBook()

	ask, trades := b.PlaceSellOrder(7, 6, 7.5, 2)
	require.Empty(t, trades)

	bid, trades := b.PlaceBuyOrder(7, 10, 8.0, 3)
	require.Len(t, trades, 1)

	tr := trades[0]
	assert.Equal(t, 6, tr.Quantity)
	assert.Equal(t, 7.5, tr.Price, "trades execute at the seller's limit")
	assert.Equal(t, ask.ID, tr.SellOrderID)
	assert.Equal(t, bid.ID, tr.BuyOrderID)
	assert.Equal(t, 3, tr.BuyerID)
	assert.Equal(t, 2, tr.SellerID)
	assert.NotEmpty(t, tr.ID)

	// The ask is exhausted and purged; the bid stays with the residual.
	require.Equal(t, 1, b.Len())
	left, ok := b.Lookup(bid.ID)
	require.True(t, ok)
	assert.Equal(t, 4, left.Quantity)
	_, ok = b.Lookup(ask.ID)
	assert.False(t, ok)
}

func TestNoMatchBelowAsk(t *testing.T) {
	b := NewBook()

	b.PlaceSellOrder(1, 5, 10.0, 2)
	_, trades := b.PlaceBuyOrder(1, 5, 9.99, 3)

	assert.Empty(t, trades)
	assert.Equal(t, 2, b.Len())
}

func TestMatchWalksPriceLevels(t *testing.T) {
	b := NewBook()

	b.PlaceSellOrder(1, 3, 5.0, 2)
	b.PlaceSellOrder(1, 3, 6.0, 4)
	b.PlaceSellOrder(1, 3, 20.0, 5)

	_, trades := b.PlaceBuyOrder(1, 10, 6.0, 3)
	require.Len(t, trades, 2)
	assert.Equal(t, 5.0, trades[0].Price)
	assert.Equal(t, 3, trades[0].Quantity)
	assert.Equal(t, 6.0, trades[1].Price)
	assert.Equal(t, 3, trades[1].Quantity)

	// Residual bid of 4 remains against the 20.0 ask: no cross.
	bid, ok := b.Lookup(trades[0].BuyOrderID)
	require.True(t, ok)
	assert.Equal(t, 4, bid.Quantity)
}

func TestMarketOwnedSupplyDefersMatching(t *testing.T) {
	b := NewBook()

	// A crossing bid is already resting.
	b.PlaceBuyOrder(1, 5, 10.0, 3)

	// The market lists supply below the bid but no trade fires yet.
	_, trades := b.PlaceSellOrder(1, 8, 4.0, MarketOwnerID)
	assert.Empty(t, trades)
	assert.Equal(t, 2, b.Len())

	// The next placement on the commodity clears the cross.
	_, trades = b.PlaceBuyOrder(1, 1, 4.0, 4)
	require.Len(t, trades, 2)
	assert.Equal(t, MarketOwnerID, trades[0].SellerID)
}

func TestOrderIDsAreMonotonic(t *testing.T) {
	b := NewBook()

	first, _ := b.PlaceBuyOrder(1, 1, 1.0, 2)
	second, _ := b.PlaceSellOrder(2, 1, 1.0, 2)
	require.NoError(t, b.Cancel(second.ID, 2))
	third, _ := b.PlaceBuyOrder(1, 1, 1.0, 2)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID, "ids are never reused after cancellation")
}

func TestCancel(t *testing.T) {
	b := NewBook()
	o, _ := b.PlaceBuyOrder(1, 5, 2.0, 3)

	assert.ErrorIs(t, b.Cancel(o.ID, 4), ErrNotOwner)
	assert.Equal(t, 1, b.Len())

	require.NoError(t, b.Cancel(o.ID, 3))
	assert.Zero(t, b.Len())

	assert.ErrorIs(t, b.Cancel(o.ID, 3), ErrOrderNotFound)
	assert.ErrorIs(t, b.Cancel(999, 3), ErrOrderNotFound)
}

func TestQuantityConservation(t *testing.T) {
	b := NewBook()

	b.PlaceSellOrder(1, 7, 3.0, 2)
	b.PlaceSellOrder(1, 5, 4.0, 4)
	_, trades := b.PlaceBuyOrder(1, 9, 5.0, 3)

	traded := 0
	for _, tr := range trades {
		traded += tr.Quantity
	}
	open := 0
	for _, o := range b.OrdersFor(1) {
		open = open + o.Quantity
	}
	assert.Equal(t, 12+9, traded*2+open, "every traded unit leaves one bid and one ask")
}

func TestDemandAndAvailabilityQueries(t *testing.T) {
	b := NewBook()

	b.PlaceBuyOrder(1, 4, 2.0, 2)
	b.PlaceBuyOrder(1, 6, 3.0, 3)
	b.PlaceBuyOrder(2, 9, 3.0, 3)
	b.PlaceSellOrder(1, 5, 8.0, 4)
	b.PlaceSellOrder(1, 2, 12.0, 5)

	assert.Equal(t, 10, b.OpenBuyQuantity(1))
	assert.Equal(t, 9, b.OpenBuyQuantity(2))
	assert.Equal(t, 5, b.SellQuantityAtOrBelow(1, 8.0))
	assert.Equal(t, 7, b.SellQuantityAtOrBelow(1, 12.0))

	bid, ok := b.BestBid(1)
	require.True(t, ok)
	assert.Equal(t, 3.0, bid.Price)
	ask, ok := b.BestAsk(1)
	require.True(t, ok)
	assert.Equal(t, 8.0, ask.Price)

	_, ok = b.BestAsk(2)
	assert.False(t, ok)
}
