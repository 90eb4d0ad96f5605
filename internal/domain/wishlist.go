package domain

import "time"

// WishlistItem represents a product saved for later. Unlike a cart line it
// carries no quantity: a wishlist is strict membership by product ID.
type WishlistItem struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Price    float64        `json:"price"`
	Image    string         `json:"image,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AsCartItem converts a wishlist entry into a cart line with the given
// quantity, used when moving an item to the cart.
func (i WishlistItem) AsCartItem(quantity int) CartItem {
	return CartItem{
		ID:       i.ID,
		Title:    i.Title,
		Price:    i.Price,
		Quantity: quantity,
		Image:    i.Image,
		Metadata: i.Metadata,
	}
}

// Wishlist holds the saved items for a named store, in insertion order.
type Wishlist struct {
	StoreName string         `json:"store_name"`
	Items     []WishlistItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TotalItems returns the number of saved items.
func (w *Wishlist) TotalItems() int {
	return len(w.Items)
}

// IsEmpty reports whether the wishlist has no items.
func (w *Wishlist) IsEmpty() bool {
	return len(w.Items) == 0
}

// FindItemIndex returns the index of the item with the given product ID, or
// -1 if not present.
func (w *Wishlist) FindItemIndex(id string) int {
	for i := range w.Items {
		if w.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// WishlistSnapshot is the persisted shape of a wishlist.
type WishlistSnapshot struct {
	Items      []WishlistItem `json:"items"`
	TotalItems int            `json:"total_items"`
	IsEmpty    bool           `json:"is_empty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Snapshot captures the persisted shape of the wishlist.
func (w *Wishlist) Snapshot() WishlistSnapshot {
	items := make([]WishlistItem, len(w.Items))
	copy(items, w.Items)
	return WishlistSnapshot{
		Items:      items,
		TotalItems: w.TotalItems(),
		IsEmpty:    w.IsEmpty(),
		UpdatedAt:  w.UpdatedAt,
	}
}

// WishlistFromSnapshot rehydrates a wishlist for the given store from a
// persisted snapshot.
func WishlistFromSnapshot(storeName string, snap WishlistSnapshot) *Wishlist {
	items := make([]WishlistItem, len(snap.Items))
	copy(items, snap.Items)
	return &Wishlist{
		StoreName: storeName,
		Items:     items,
		UpdatedAt: snap.UpdatedAt,
	}
}

// NewWishlist creates an empty wishlist for the given store.
func NewWishlist(storeName string) *Wishlist {
	return &Wishlist{
		StoreName: storeName,
		Items:     []WishlistItem{},
		UpdatedAt: time.Now().UTC(),
	}
}
