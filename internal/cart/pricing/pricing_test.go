package pricing

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
)

func sampleItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: "1", Title: "Laptop", Price: 999, Quantity: 1},
		{ID: "2", Title: "Phone", Price: 599, Quantity: 2},
	}
}

// ---------------------------------------------------------------------------
// Calculate
// ---------------------------------------------------------------------------

func TestCalculate_DiscountAppliedBeforeTax(t *testing.T) {
	items := []domain.CartItem{{ID: "1", Price: 100, Quantity: 2}}

	got := Calculate(items, Rates{TaxRate: 0.1, ShippingCost: 10})

	assert.InDelta(t, 200, got.Subtotal, 1e-9)
	assert.InDelta(t, 0, got.Discount, 1e-9)
	assert.InDelta(t, 20, got.Tax, 1e-9)
	assert.InDelta(t, 230, got.Total, 1e-9)
}

func TestCalculate_WithDiscount(t *testing.T) {
	items := []domain.CartItem{{ID: "1", Price: 100, Quantity: 2}}

	got := Calculate(items, Rates{TaxRate: 0.1, DiscountRate: 0.5})

	assert.InDelta(t, 200, got.Subtotal, 1e-9)
	assert.InDelta(t, 100, got.Discount, 1e-9)
	// Tax applies to the discounted amount, not the raw subtotal.
	assert.InDelta(t, 10, got.Tax, 1e-9)
	assert.InDelta(t, 110, got.Total, 1e-9)
}

func TestCalculate_EmptyCart(t *testing.T) {
	got := Calculate(nil, Rates{TaxRate: 0.2, DiscountRate: 0.1, ShippingCost: 5})

	assert.Zero(t, got.Subtotal)
	assert.Zero(t, got.Discount)
	assert.Zero(t, got.Tax)
	assert.InDelta(t, 5, got.Total, 1e-9)
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidateItem_Valid(t *testing.T) {
	got := ValidateItem(domain.CartItem{ID: "1", Title: "Laptop", Price: 999, Quantity: 1})

	assert.True(t, got.IsValid)
	assert.Empty(t, got.Errors)
}

func TestValidateItem_CollectsAllErrors(t *testing.T) {
	got := ValidateItem(domain.CartItem{Price: -1, Quantity: 0})

	assert.False(t, got.IsValid)
	assert.Len(t, got.Errors, 3)
}

func TestValidateItem_MissingTitleIsWarning(t *testing.T) {
	got := ValidateItem(domain.CartItem{ID: "1", Price: 10, Quantity: 1})

	assert.True(t, got.IsValid)
	assert.Len(t, got.Warnings, 1)
}

func TestValidateCart_NilCart(t *testing.T) {
	got := ValidateCart(nil)

	assert.False(t, got.IsValid)
	require.Len(t, got.Errors, 1)
}

func TestValidateCart_DuplicateLinesWarn(t *testing.T) {
	cart := domain.NewCart("shop")
	cart.Items = []domain.CartItem{
		{ID: "1", Title: "Laptop", Price: 999, Quantity: 1},
		{ID: "1", Title: "Laptop", Price: 999, Quantity: 2},
	}

	got := ValidateCart(cart)

	assert.True(t, got.IsValid)
	assert.NotEmpty(t, got.Warnings)
}

// ---------------------------------------------------------------------------
// MergeDuplicates
// ---------------------------------------------------------------------------

func TestMergeDuplicates_SumsQuantities(t *testing.T) {
	items := []domain.CartItem{
		{ID: "1", Title: "Laptop", Price: 999, Quantity: 1},
		{ID: "2", Title: "Phone", Price: 599, Quantity: 1},
		{ID: "1", Title: "Laptop (restock)", Price: 899, Quantity: 3},
	}

	got := MergeDuplicates(items)

	require.Len(t, got, 2)
	// First-seen fields win; quantities sum.
	assert.Equal(t, "Laptop", got[0].Title)
	assert.InDelta(t, 999, got[0].Price, 1e-9)
	assert.Equal(t, 4, got[0].Quantity)
	assert.Equal(t, "Phone", got[1].Title)
}

func TestMergeDuplicates_MetadataDistinguishesLines(t *testing.T) {
	items := []domain.CartItem{
		{ID: "1", Quantity: 1, Metadata: map[string]any{"size": "M", "color": "red"}},
		{ID: "1", Quantity: 1, Metadata: map[string]any{"color": "red", "size": "M"}},
		{ID: "1", Quantity: 1, Metadata: map[string]any{"size": "L"}},
	}

	got := MergeDuplicates(items)

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Quantity)
	assert.Equal(t, 1, got[1].Quantity)
}

func TestMergeDuplicates_DoesNotMutateInput(t *testing.T) {
	items := []domain.CartItem{
		{ID: "1", Quantity: 1},
		{ID: "1", Quantity: 2},
	}

	_ = MergeDuplicates(items)

	assert.Equal(t, 1, items[0].Quantity)
}

// ---------------------------------------------------------------------------
// ShippingCost / BuildReport
// ---------------------------------------------------------------------------

func TestShippingCost(t *testing.T) {
	assert.InDelta(t, 10, ShippingCost(50, 10, 100), 1e-9)
	assert.Zero(t, ShippingCost(100, 10, 100))
	// Non-positive threshold never waives.
	assert.InDelta(t, 10, ShippingCost(1000, 10, 0), 1e-9)
}

func TestBuildReport(t *testing.T) {
	got := BuildReport(sampleItems(), Rates{})

	assert.Equal(t, 2, got.UniqueItems)
	assert.Equal(t, 3, got.TotalQuantity)
	assert.InDelta(t, 999+2*599, got.Totals.Subtotal, 1e-9)
	assert.WithinDuration(t, time.Now(), got.GeneratedAt, time.Minute)
}

// ---------------------------------------------------------------------------
// Exports
// ---------------------------------------------------------------------------

func TestExportJSON_RoundTrips(t *testing.T) {
	data, err := ExportJSON(sampleItems())
	require.NoError(t, err)

	var decoded []domain.CartItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleItems(), decoded)
}

func TestExportCSV_FixedHeaderAndQuoting(t *testing.T) {
	got := ExportCSV(sampleItems())

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"ID","Title","Price","Quantity","Total"`, lines[0])
	assert.Equal(t, `"1","Laptop","999.00","1","999.00"`, lines[1])
	assert.Equal(t, `"2","Phone","599.00","2","1198.00"`, lines[2])
}

func TestExportCSV_EscapesEmbeddedQuotes(t *testing.T) {
	items := []domain.CartItem{{ID: "1", Title: `15" Monitor`, Price: 120, Quantity: 1}}

	got := ExportCSV(items)

	assert.Contains(t, got, `"15"" Monitor"`)
}

func TestExportXML_Structure(t *testing.T) {
	exportedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	data, err := ExportXML(sampleItems(), exportedAt)
	require.NoError(t, err)

	got := string(data)
	assert.Contains(t, got, "<cart>")
	assert.Contains(t, got, "<items>")
	assert.Contains(t, got, "<item>")
	assert.Contains(t, got, "<title>Laptop</title>")
	assert.Contains(t, got, "<exportedAt>2026-08-01T12:00:00Z</exportedAt>")
}
