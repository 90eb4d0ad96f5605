package pricing

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// csvHeader is the fixed column set of the CSV export.
const csvHeader = `"ID","Title","Price","Quantity","Total"`

// ExportJSON renders the items in their canonical JSON shape.
func ExportJSON(items []domain.CartItem) ([]byte, error) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cart items: %w", err)
	}
	return data, nil
}

// ExportCSV renders one row per item under a fixed header. Every value is
// quoted, including numeric ones; embedded quotes are doubled. encoding/csv
// cannot force-quote unconditionally, so the rows are assembled by hand.
func ExportCSV(items []domain.CartItem) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")

	for _, item := range items {
		fields := []string{
			item.ID,
			item.Title,
			fmt.Sprintf("%.2f", item.Price),
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("%.2f", item.LineTotal()),
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"`)
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteString(`"`)
		}
		b.WriteString("\n")
	}

	return b.String()
}

type xmlItem struct {
	ID       string  `xml:"id"`
	Title    string  `xml:"title"`
	Price    float64 `xml:"price"`
	Quantity int     `xml:"quantity"`
	Total    float64 `xml:"total"`
}

type xmlCart struct {
	XMLName    xml.Name  `xml:"cart"`
	Items      []xmlItem `xml:"items>item"`
	ExportedAt string    `xml:"exportedAt"`
}

// ExportXML renders the items as a cart document with an ISO-8601 export
// timestamp.
func ExportXML(items []domain.CartItem, exportedAt time.Time) ([]byte, error) {
	doc := xmlCart{
		Items:      make([]xmlItem, 0, len(items)),
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
	}
	for _, item := range items {
		doc.Items = append(doc.Items, xmlItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			Total:    item.LineTotal(),
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cart xml: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}
