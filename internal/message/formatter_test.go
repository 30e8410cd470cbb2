package message

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	lines := []models.OrderLine{
		{Name: "Mango", Quantity: 2, UnitPrice: 50},
	}

	msg := f.FormatMessage("Ana", lines, "")

	assert.Contains(t, msg, "Hola, soy Ana. Quisiera pedir:")
	assert.Contains(t, msg, "• 2x Mango - $100")
	assert.Contains(t, msg, "Total: $100")
	assert.NotContains(t, msg, "Notas:")
}

func TestFormatMessageNamelessGreeting(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	msg := f.FormatMessage("   ", nil, "")

	assert.True(t, strings.HasPrefix(msg, "Hola! Quisiera pedir:"))
	assert.Contains(t, msg, "Total: $0")
}

func TestFormatMessageSections(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	lines := []models.OrderLine{
		{Name: "Mango", Quantity: 2, UnitPrice: 50},
		{Name: "Cafe", Weight: "500g", Quantity: 1, UnitPrice: 300, OfferPrice: 250, Discounted: true},
	}

	msg := f.FormatMessage("Ana", lines, "  sin azucar  ")

	expected := "Hola, soy Ana. Quisiera pedir:\n\n" +
		"• 2x Mango - $100\n" +
		"• 1x Cafe (500g) - $250\n\n" +
		"Notas: sin azucar\n\n" +
		"Total: $350"
	assert.Equal(t, expected, msg)
}

func TestFormatMessageLineOrderIsInsertionOrder(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	lines := []models.OrderLine{
		{Name: "Zanahoria", Quantity: 1, UnitPrice: 10},
		{Name: "Arroz", Quantity: 1, UnitPrice: 20},
	}

	msg := f.FormatMessage("Ana", lines, "")

	assert.Less(t, strings.Index(msg, "Zanahoria"), strings.Index(msg, "Arroz"))
}

func TestFormatAmountThousandsSeparator(t *testing.T) {
	f := NewFormatter("$", "en", ",", "")

	assert.Equal(t, "$100", f.FormatAmount(100))
	assert.Equal(t, "$2,500", f.FormatAmount(2500))
	assert.Equal(t, "$1,250,000", f.FormatAmount(1250000))
}

func TestFormatMessageUnnamedLineGetsFallback(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	msg := f.FormatMessage("Ana", []models.OrderLine{{Quantity: 1, UnitPrice: 10}}, "")

	assert.Contains(t, msg, "• 1x "+models.FallbackItemName+" - $10")
}

func TestFormatOrderMessage(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	// Stored items in a historical spelling still render.
	order := &models.Order{
		CustomerName: "Ana",
		Notes:        "sin bolsa",
		Items:        json.RawMessage(`[{"name":"Mango","qty":2,"unitPrice":50}]`),
	}

	msg := f.FormatOrderMessage(order)

	assert.Contains(t, msg, "Hola, soy Ana. Quisiera pedir:")
	assert.Contains(t, msg, "• 2x Mango - $100")
	assert.Contains(t, msg, "Notas: sin bolsa")
	assert.Contains(t, msg, "Total: $100")
}

func TestHandoffLink(t *testing.T) {
	f := NewFormatter("$", "es", ",", "5215512345678")

	link := f.HandoffLink("Hola, soy Ana. Quisiera pedir:")

	assert.Equal(t, "https://wa.me/5215512345678?text=Hola%2C+soy+Ana.+Quisiera+pedir%3A", link)
}

func TestHandoffLinkWithoutPhone(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	assert.Empty(t, f.HandoffLink("Hola"))
}

func TestFormatExportRowRoundTrip(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	items, err := json.Marshal([]models.OrderLine{
		{Name: "Mango", Quantity: 3, UnitPrice: 50},
		{Name: "Kiwi", Quantity: 1, UnitPrice: 30},
	})
	require.NoError(t, err)

	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	order := &models.Order{
		ID:           42,
		CustomerName: "Ana",
		Notes:        "entrega tarde",
		Items:        items,
		TotalAmount:  180,
		Status:       models.OrderStatusNew,
		CreatedAt:    created,
	}

	row := f.FormatExportRow(order)
	fields := strings.Split(row, ",")

	require.Len(t, fields, len(ExportHeader))
	assert.Equal(t, "42", fields[0])
	assert.Equal(t, "2024-03-15T10:30:00Z", fields[1])
	assert.Equal(t, "Ana", fields[2])
	assert.Equal(t, "180", fields[3])
	assert.Equal(t, "new", fields[4])
	assert.Equal(t, "3xMango;1xKiwi", fields[5])
	assert.Equal(t, "entrega tarde", fields[6])
}

func TestFormatExportIncludesHeader(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	blob := f.FormatExport(nil)

	assert.Equal(t, strings.Join(ExportHeader, ","), blob)
}

func TestFormatExportMultipleOrders(t *testing.T) {
	f := NewFormatter("$", "es", ",", "")

	orders := []models.Order{
		{ID: 1, CustomerName: "Ana", TotalAmount: 100, Status: models.OrderStatusNew, CreatedAt: time.Unix(0, 0).UTC()},
		{ID: 2, CustomerName: "Luis", TotalAmount: 200, Status: models.OrderStatusDelivered, CreatedAt: time.Unix(0, 0).UTC()},
	}

	blob := f.FormatExport(orders)
	rows := strings.Split(blob, "\n")

	require.Len(t, rows, 3)
	assert.True(t, strings.HasPrefix(rows[1], "1,"))
	assert.True(t, strings.HasPrefix(rows[2], "2,"))
}
