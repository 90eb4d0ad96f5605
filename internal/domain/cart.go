package domain

import "time"

// CartItem represents a single line in the cart, uniquely identified by the
// product ID. Quantity is always positive; a line that would reach zero is
// removed from the cart instead.
type CartItem struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Price    float64        `json:"price"`
	Quantity int            `json:"quantity"`
	Image    string         `json:"image,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// LineTotal returns price times quantity for this line.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart represents a shopping cart scoped to a named store. Totals are always
// derived from Items, never stored independently.
type Cart struct {
	StoreName string     `json:"store_name"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalItems returns the sum of all line quantities.
func (c *Cart) TotalItems() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// TotalPrice returns the sum of price times quantity across all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemIndex returns the index of the line with the given product ID, or
// -1 if not present.
func (c *Cart) FindItemIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// CartSnapshot is the persisted shape of a cart. The derived fields are
// recomputed from Items on every write, so a rehydrated cart is always
// consistent.
type CartSnapshot struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
	IsEmpty    bool       `json:"is_empty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Snapshot captures the persisted shape of the cart.
func (c *Cart) Snapshot() CartSnapshot {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return CartSnapshot{
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		IsEmpty:    c.IsEmpty(),
		UpdatedAt:  c.UpdatedAt,
	}
}

// CartFromSnapshot rehydrates a cart for the given store from a persisted
// snapshot. Derived fields in the snapshot are ignored; Items is the source
// of truth.
func CartFromSnapshot(storeName string, snap CartSnapshot) *Cart {
	items := make([]CartItem, len(snap.Items))
	copy(items, snap.Items)
	return &Cart{
		StoreName: storeName,
		Items:     items,
		UpdatedAt: snap.UpdatedAt,
	}
}

// NewCart creates an empty cart for the given store.
func NewCart(storeName string) *Cart {
	return &Cart{
		StoreName: storeName,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}
