package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalItems_MultipleLines(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Quantity: 2},
			{Quantity: 3},
			{Quantity: 1},
		},
	}
	assert.Equal(t, 6, c.TotalItems())
}

func TestTotalItems_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, 0, c.TotalItems())
}

func TestTotalPrice_MultipleLines(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Price: 10.00, Quantity: 2},
			{Price: 5.50, Quantity: 3},
		},
	}
	// 20.00 + 16.50
	assert.InDelta(t, 36.50, c.TotalPrice(), 1e-9)
}

func TestTotalPrice_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0.0, c.TotalPrice())
}

func TestIsEmpty(t *testing.T) {
	c := NewCart("cart")
	assert.True(t, c.IsEmpty())

	c.Items = append(c.Items, CartItem{ID: "p1", Quantity: 1})
	assert.False(t, c.IsEmpty())
}

func TestFindItemIndex(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ID: "p1"},
			{ID: "p2"},
		},
	}
	assert.Equal(t, 0, c.FindItemIndex("p1"))
	assert.Equal(t, 1, c.FindItemIndex("p2"))
	assert.Equal(t, -1, c.FindItemIndex("p9"))
}

func TestSnapshot_DerivedFieldsMatchItems(t *testing.T) {
	c := &Cart{
		StoreName: "cart",
		Items: []CartItem{
			{ID: "p1", Price: 100, Quantity: 2},
			{ID: "p2", Price: 19, Quantity: 1},
		},
	}

	snap := c.Snapshot()
	assert.Equal(t, 3, snap.TotalItems)
	assert.InDelta(t, 219.0, snap.TotalPrice, 1e-9)
	assert.False(t, snap.IsEmpty)
	require.Len(t, snap.Items, 2)
}

func TestCartFromSnapshot_IgnoresStaleDerivedFields(t *testing.T) {
	snap := CartSnapshot{
		Items:      []CartItem{{ID: "p1", Price: 10, Quantity: 1}},
		TotalItems: 99,
		TotalPrice: 9999,
		IsEmpty:    true,
	}

	c := CartFromSnapshot("cart", snap)
	assert.Equal(t, 1, c.TotalItems())
	assert.InDelta(t, 10.0, c.TotalPrice(), 1e-9)
	assert.False(t, c.IsEmpty())
}

func TestSnapshot_CopiesItems(t *testing.T) {
	c := &Cart{Items: []CartItem{{ID: "p1", Quantity: 1}}}
	snap := c.Snapshot()

	snap.Items[0].Quantity = 42
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestProductFromRecord(t *testing.T) {
	rec := map[string]any{
		"id":    float64(1),
		"title": "Laptop",
		"price": float64(999),
		"category": map[string]any{
			"id":   float64(4),
			"name": "Electronics",
		},
		"images": []any{"https://img.example.com/a.jpg"},
	}

	p := ProductFromRecord(rec)
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "Laptop", p.Title)
	assert.InDelta(t, 999.0, p.Price, 1e-9)
	assert.Equal(t, "Electronics", p.Category.Name)
	assert.Equal(t, "https://img.example.com/a.jpg", p.FirstImage())
}

func TestProductFromRecord_MissingFields(t *testing.T) {
	p := ProductFromRecord(map[string]any{"title": "Bare"})
	assert.Equal(t, "Bare", p.Title)
	assert.Empty(t, p.ID)
	assert.Zero(t, p.Price)
	assert.Empty(t, p.Category.Name)
	assert.Empty(t, p.FirstImage())
}

func TestWishlist_Membership(t *testing.T) {
	w := NewWishlist("wishlist")
	assert.True(t, w.IsEmpty())
	assert.Equal(t, -1, w.FindItemIndex("p1"))

	w.Items = append(w.Items, WishlistItem{ID: "p1", Title: "Laptop"})
	assert.Equal(t, 1, w.TotalItems())
	assert.Equal(t, 0, w.FindItemIndex("p1"))
}

func TestWishlistItem_AsCartItem(t *testing.T) {
	i := WishlistItem{ID: "p1", Title: "Laptop", Price: 999, Image: "img"}
	line := i.AsCartItem(1)
	assert.Equal(t, "p1", line.ID)
	assert.Equal(t, 1, line.Quantity)
	assert.InDelta(t, 999.0, line.Price, 1e-9)
}
