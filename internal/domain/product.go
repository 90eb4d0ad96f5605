package domain

import (
	"github.com/utafrali/storefront/pkg/fieldpath"
)

// Category describes a product category as returned by the upstream catalog.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Product is the typed view of an upstream catalog record. The raw decoded
// record is kept alongside because the search layer addresses arbitrary
// fields by dotted path.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Images      []string `json:"images,omitempty"`
}

// ProductFromRecord extracts the typed product fields from a decoded catalog
// record. Missing fields are left zero; the record itself stays untouched.
func ProductFromRecord(rec map[string]any) Product {
	var p Product

	if v, ok := fieldpath.Get(rec, "id"); ok {
		p.ID, _ = fieldpath.String(v)
	}
	if v, ok := fieldpath.Get(rec, "title"); ok {
		p.Title, _ = fieldpath.String(v)
	}
	if v, ok := fieldpath.Get(rec, "price"); ok {
		p.Price, _ = fieldpath.Number(v)
	}
	if v, ok := fieldpath.Get(rec, "description"); ok {
		p.Description, _ = fieldpath.String(v)
	}
	if v, ok := fieldpath.Get(rec, "category.id"); ok {
		p.Category.ID, _ = fieldpath.String(v)
	}
	if v, ok := fieldpath.Get(rec, "category.name"); ok {
		p.Category.Name, _ = fieldpath.String(v)
	}
	if v, ok := fieldpath.Get(rec, "category.image"); ok {
		p.Category.Image, _ = fieldpath.String(v)
	}
	if imgs, ok := fieldpath.Get(rec, "images"); ok {
		if list, ok := imgs.([]any); ok {
			for _, img := range list {
				if s, ok := fieldpath.String(img); ok {
					p.Images = append(p.Images, s)
				}
			}
		}
	}

	return p
}

// FirstImage returns the first product image URL, or empty.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// AsCartItem converts a product into a cart line item with the given quantity.
func (p Product) AsCartItem(quantity int) CartItem {
	return CartItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Quantity: quantity,
		Image:    p.FirstImage(),
	}
}

// AsWishlistItem converts a product into a wishlist entry.
func (p Product) AsWishlistItem() WishlistItem {
	return WishlistItem{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: p.FirstImage(),
	}
}
