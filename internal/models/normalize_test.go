package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLinesSnakeCase(t *testing.T) {
	raw := json.RawMessage(`[{"item_id":1,"name":"Mango","quantity":2,"unit_price":100,"offer_price":80,"discounted":true}]`)

	lines := NormalizeLines(raw)

	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ItemID)
	assert.Equal(t, "Mango", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(100), lines[0].UnitPrice)
	assert.Equal(t, int64(80), lines[0].OfferPrice)
	assert.True(t, lines[0].Discounted)
	assert.Equal(t, int64(80), lines[0].EffectivePrice())
}

func TestNormalizeLinesCamelCase(t *testing.T) {
	raw := json.RawMessage(`[{"itemId":3,"name":"Kiwi","qty":4,"unitPrice":30}]`)

	lines := NormalizeLines(raw)

	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].ItemID)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, int64(30), lines[0].UnitPrice)
	assert.False(t, lines[0].Discounted)
}

func TestNormalizeLinesLegacyPriceField(t *testing.T) {
	raw := json.RawMessage(`[{"name":"Cafe","quantity":1,"price":250}]`)

	lines := NormalizeLines(raw)

	require.Len(t, lines, 1)
	assert.Equal(t, int64(250), lines[0].UnitPrice)
	assert.Equal(t, int64(250), lines[0].EffectivePrice())
}

func TestNormalizeLinesDerivesDiscountFromPrices(t *testing.T) {
	// No explicit flag: offer below unit price means discounted.
	raw := json.RawMessage(`[{"name":"Cafe","quantity":1,"unit_price":300,"offerPrice":250}]`)

	lines := NormalizeLines(raw)

	require.Len(t, lines, 1)
	assert.True(t, lines[0].Discounted)
	assert.Equal(t, int64(250), lines[0].EffectivePrice())
}

func TestNormalizeLinesFallbacks(t *testing.T) {
	raw := json.RawMessage(`[{"unit_price":10},{"product_name":"Granola","quantity":2,"unit_price":20}]`)

	lines := NormalizeLines(raw)

	require.Len(t, lines, 2)
	assert.Equal(t, FallbackItemName, lines[0].Name)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "Granola", lines[1].Name)
}

func TestNormalizeLinesMalformed(t *testing.T) {
	assert.Empty(t, NormalizeLines(nil))
	assert.Empty(t, NormalizeLines(json.RawMessage(`not json`)))
	assert.Empty(t, NormalizeLines(json.RawMessage(`{}`)))
	assert.Empty(t, NormalizeLines(json.RawMessage(`[]`)))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusNew, OrderStatusProcessing))
	assert.True(t, CanTransition(OrderStatusNew, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusDelivered))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusCancelled))

	assert.False(t, CanTransition(OrderStatusNew, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusProcessing))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusNew))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
}
