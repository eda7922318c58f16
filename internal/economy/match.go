// Continuous double auction over one (zone, resource) book.
package economy

import (
	"sort"

	"github.com/talgya/supply-lines/internal/world"
)

// Trade is one executed match. Price is always the seller's limit price;
// the buyer's escrow above that price is refunded at settlement.
type Trade struct {
	BuyOrderID  uint64         `json:"buy_order_id"`
	SellOrderID uint64         `json:"sell_order_id"`
	BuyerID     string         `json:"buyer_id"`
	SellerID    string         `json:"seller_id"`
	ZoneID      string         `json:"zone_id"`
	Resource    world.Resource `json:"resource"`
	Price       int64          `json:"price"`
	Quantity    int            `json:"quantity"`
	// Refund is the buyer's escrow delta: (buyLimit - price) × quantity.
	Refund int64 `json:"refund"`
}

// MatchBook crosses the given orders for a single (zone, resource) pair,
// decrementing quantities in place and returning the executed trades.
//
// Buys sort by price descending, sells ascending; equal prices break by
// ascending order ID (arrival order), which keeps matching deterministic
// across runs and storage backends.
func MatchBook(orders []*Order) []Trade {
	var buys, sells []*Order
	for _, o := range orders {
		if !o.Open() {
			continue
		}
		switch o.Side {
		case SideBuy:
			buys = append(buys, o)
		case SideSell:
			sells = append(sells, o)
		}
	}

	sort.Slice(buys, func(i, j int) bool {
		if buys[i].Price != buys[j].Price {
			return buys[i].Price > buys[j].Price
		}
		return buys[i].ID < buys[j].ID
	})
	sort.Slice(sells, func(i, j int) bool {
		if sells[i].Price != sells[j].Price {
			return sells[i].Price < sells[j].Price
		}
		return sells[i].ID < sells[j].ID
	})

	var trades []Trade
	bi, si := 0, 0
	for bi < len(buys) && si < len(sells) {
		buy, sell := buys[bi], sells[si]
		if buy.Price < sell.Price {
			break
		}
		if buy.Exhausted() {
			bi++
			continue
		}
		if sell.Exhausted() {
			si++
			continue
		}

		qty := buy.Quantity
		if sell.Quantity < qty {
			qty = sell.Quantity
		}

		// Self-crosses settle like any other trade: both escrows flow back
		// to the same player at settlement, so crossing your own resting
		// order nets zero and only burns book priority.
		trades = append(trades, Trade{
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			BuyerID:     buy.PlayerID,
			SellerID:    sell.PlayerID,
			ZoneID:      sell.ZoneID,
			Resource:    sell.Resource,
			Price:       sell.Price,
			Quantity:    qty,
			Refund:      (buy.Price - sell.Price) * int64(qty),
		})

		buy.Quantity -= qty
		sell.Quantity -= qty
		if buy.Exhausted() {
			bi++
		}
		if sell.Exhausted() {
			si++
		}
	}
	return trades
}

// BestPrice returns the best resting price on the given side of the book,
// or false when that side is empty. Used by conditional order triggers.
func BestPrice(orders []*Order, side Side) (int64, bool) {
	found := false
	var best int64
	for _, o := range orders {
		if o.Side != side || !o.Open() {
			continue
		}
		if !found {
			best = o.Price
			found = true
			continue
		}
		if side == SideBuy && o.Price > best {
			best = o.Price
		}
		if side == SideSell && o.Price < best {
			best = o.Price
		}
	}
	return best, found
}
