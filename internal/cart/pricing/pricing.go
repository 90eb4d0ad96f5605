// Package pricing holds the pure cart calculation utilities: totals with
// tax/discount/shipping, structural validation, duplicate merging, and the
// report/export helpers. Nothing here touches storage or mutates its input.
package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// Rates configures the totals calculation. Zero values mean the component is
// not applied.
type Rates struct {
	// TaxRate is applied to the discounted subtotal (e.g. 0.1 for 10%).
	TaxRate float64 `json:"tax_rate" validate:"gte=0"`

	// DiscountRate is applied to the raw subtotal before tax.
	DiscountRate float64 `json:"discount_rate" validate:"gte=0,lte=1"`

	// ShippingCost is a flat amount added after tax.
	ShippingCost float64 `json:"shipping_cost" validate:"gte=0"`
}

// Totals is the breakdown produced by Calculate.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Calculate computes the cart totals. The discount is taken off the subtotal
// first and tax applies to the discounted amount:
//
//	subtotal = sum(price * quantity)
//	discount = subtotal * DiscountRate
//	tax      = (subtotal - discount) * TaxRate
//	total    = subtotal - discount + tax + ShippingCost
func Calculate(items []domain.CartItem, rates Rates) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	discount := subtotal * rates.DiscountRate
	tax := (subtotal - discount) * rates.TaxRate

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: rates.ShippingCost,
		Total:    subtotal - discount + tax + rates.ShippingCost,
	}
}

// ValidationResult reports structural problems found in an item or cart.
// Errors make the subject invalid; warnings do not.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateItem checks a single line item. It never returns an error; all
// findings land in the result.
func ValidateItem(item domain.CartItem) ValidationResult {
	result := ValidationResult{IsValid: true}

	if item.ID == "" {
		result.addError("item id is required")
	}
	if item.Title == "" {
		result.addWarning("item %q has no title", item.ID)
	}
	if item.Price < 0 {
		result.addError("item %q has a negative price", item.ID)
	}
	if item.Quantity <= 0 {
		result.addError("item %q has a non-positive quantity", item.ID)
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		result.addError("item %q has a non-finite price", item.ID)
	}

	return result
}

// ValidateCart checks every line of the cart plus cart-level constraints
// (duplicate identities produce a warning, not an error).
func ValidateCart(cart *domain.Cart) ValidationResult {
	result := ValidationResult{IsValid: true}
	if cart == nil {
		result.addError("cart is nil")
		return result
	}

	seen := make(map[string]struct{}, len(cart.Items))
	for _, item := range cart.Items {
		itemResult := ValidateItem(item)
		result.Errors = append(result.Errors, itemResult.Errors...)
		result.Warnings = append(result.Warnings, itemResult.Warnings...)
		if !itemResult.IsValid {
			result.IsValid = false
		}

		key := identityKey(item)
		if _, dup := seen[key]; dup {
			result.addWarning("duplicate line for item %q", item.ID)
		}
		seen[key] = struct{}{}
	}

	return result
}

// MergeDuplicates collapses lines that share an identity key (product ID plus
// sorted metadata pairs) by summing their quantities. The first-seen line
// keeps its other fields, and first-seen order is preserved.
func MergeDuplicates(items []domain.CartItem) []domain.CartItem {
	merged := make([]domain.CartItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		key := identityKey(item)
		if i, ok := index[key]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, item)
	}

	return merged
}

// identityKey builds the merge identity for a line: the product ID joined
// with its metadata entries sorted by key.
func identityKey(item domain.CartItem) string {
	if len(item.Metadata) == 0 {
		return item.ID
	}

	pairs := make([]string, 0, len(item.Metadata))
	for k, v := range item.Metadata {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(pairs)

	return item.ID + "|" + strings.Join(pairs, "|")
}

// ShippingCost returns the flat rate, waived once the subtotal reaches the
// free-shipping threshold. A non-positive threshold never waives.
func ShippingCost(subtotal, flatRate, freeThreshold float64) float64 {
	if freeThreshold > 0 && subtotal >= freeThreshold {
		return 0
	}
	return flatRate
}

// Report is a point-in-time summary of a cart for reporting code.
type Report struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	UniqueItems   int               `json:"unique_items"`
	TotalQuantity int               `json:"total_quantity"`
	Totals        Totals            `json:"totals"`
	Items         []domain.CartItem `json:"items"`
}

// BuildReport assembles a report over the items with the given rates applied.
func BuildReport(items []domain.CartItem, rates Rates) Report {
	var quantity int
	for _, item := range items {
		quantity += item.Quantity
	}

	snapshot := make([]domain.CartItem, len(items))
	copy(snapshot, items)

	return Report{
		GeneratedAt:   time.Now().UTC(),
		UniqueItems:   len(items),
		TotalQuantity: quantity,
		Totals:        Calculate(items, rates),
		Items:         snapshot,
	}
}
