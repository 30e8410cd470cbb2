package cart

import (
	"errors"

	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
)

// ErrInvalidQuantity is returned when a non-positive quantity is requested
// where a positive one is required, or a negative one anywhere. The cart is
// left unchanged.
var ErrInvalidQuantity = errors.New("cart: invalid quantity")

// ErrSlotNotFound is returned when a quantity update targets a slot that is
// not in the cart.
var ErrSlotNotFound = errors.New("cart: slot not found")

// SlotKey identifies a unique (item, variant) pairing within a cart.
// A zero VariantID means no variant was selected.
type SlotKey struct {
	ItemID    int64
	VariantID int64
}

// Cart accumulates order lines for a single session. Unit prices are captured
// when a slot is first created and are not re-resolved on later quantity
// changes. Line order is insertion order.
type Cart struct {
	resolver *pricing.Resolver
	lines    []models.OrderLine
}

// New creates an empty cart
func New(resolver *pricing.Resolver) *Cart {
	return &Cart{resolver: resolver}
}

// AddLine adds qty units of an item (with an optional variant) to the cart.
// Adding to an existing slot sums quantities on that slot; the captured price
// is kept from the first add.
func (c *Cart) AddLine(item *models.CatalogItem, variant *models.Variant, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	// An inactive variant is not selectable: the line keys and prices as the
	// bare item, consistent with price resolution.
	if variant != nil && !variant.Active {
		variant = nil
	}

	key := SlotKey{ItemID: item.ID}
	if variant != nil {
		key.VariantID = variant.ID
	}

	if i := c.indexOf(key); i >= 0 {
		c.lines[i].Quantity += qty
		return nil
	}

	quote := c.resolver.Resolve(item, variant)

	line := models.OrderLine{
		ItemID:     item.ID,
		VariantID:  key.VariantID,
		Name:       item.Name,
		Weight:     item.Weight,
		Quantity:   qty,
		UnitPrice:  quote.UnitPrice,
		Discounted: quote.IsDiscounted,
	}
	if variant != nil {
		line.Weight = variant.Weight
	}
	if quote.IsDiscounted {
		line.UnitPrice = quote.OriginalPrice
		line.OfferPrice = quote.UnitPrice
	}

	c.lines = append(c.lines, line)
	return nil
}

// SetQuantity sets the quantity on an existing slot. Zero removes the slot;
// negative quantities are rejected and leave the cart unchanged.
func (c *Cart) SetQuantity(key SlotKey, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}

	i := c.indexOf(key)
	if i < 0 {
		return ErrSlotNotFound
	}

	if qty == 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}

	c.lines[i].Quantity = qty
	return nil
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []models.OrderLine {
	return c.lines
}

// Total returns the cart grand total.
func (c *Cart) Total() int64 {
	return Total(c.lines)
}

func (c *Cart) indexOf(key SlotKey) int {
	for i, l := range c.lines {
		if l.ItemID == key.ItemID && l.VariantID == key.VariantID {
			return i
		}
	}
	return -1
}

// Total sums effective price times quantity over a set of lines. Currency is
// whole units; there is no per-line rounding.
func Total(lines []models.OrderLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.EffectivePrice() * int64(l.Quantity)
	}
	return total
}
