package model

// CartItem is a line in a customer's shopping cart.  The cart is keyed
// by item ID: adding an existing ID increments its quantity rather
// than appending a second row, and rows are never split.  Prices are
// carried in minor units (đồng) to stay decimal-safe.
//
// Fields:
//  ID       – catalog identifier of the item.
//  Name     – display name.
//  Price    – unit price in minor units.
//  Quantity – positive count of this item.
//  Image    – URL of the item's picture.
type CartItem struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Image    string `json:"image"`
}
