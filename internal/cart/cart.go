package cart

import (
	"errors"

	"buildkit-store/internal/domain"
	"buildkit-store/internal/session"
)

// SessionKey is the session key the line list lives under.
const SessionKey = "cart"

// ErrInvalidQuantity is returned when a quantity below 1 is added.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Line is one cart entry. UnitPriceCents is the price snapshot taken when
// the product was first added; catalog price changes never touch it.
type Line struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
}

// TotalCents returns quantity times the snapshot unit price.
func (l Line) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Cart maintains one visitor's selection inside their session. Lines keep
// insertion order and are unique per product ID.
type Cart struct {
	sess  *session.Session
	lines []Line
}

// New decodes the visitor's cart from the session. A missing or malformed
// session value yields an empty cart.
func New(sess *session.Session) *Cart {
	c := &Cart{sess: sess}
	raw, ok := sess.Get(SessionKey)
	if !ok {
		return c
	}
	items, ok := raw.([]interface{})
	if !ok {
		return c
	}
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		line := Line{
			ProductID:      stringField(entry, "product_id"),
			Quantity:       int(session.Int64(entry["quantity"])),
			UnitPriceCents: session.Int64(entry["unit_price_cents"]),
		}
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		c.lines = append(c.lines, line)
	}
	return c
}

// Add puts quantity of product into the cart. For a product already in the
// cart, override=false accumulates onto the existing quantity and
// override=true replaces it. New lines snapshot the product's current
// price.
func (c *Cart) Add(product domain.Product, quantity int, override bool) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].ProductID != product.ID {
			continue
		}
		if override {
			c.lines[i].Quantity = quantity
		} else {
			c.lines[i].Quantity += quantity
		}
		return c.persist()
	}
	c.lines = append(c.lines, Line{
		ProductID:      product.ID,
		Quantity:       quantity,
		UnitPriceCents: product.PriceCents,
	})
	return c.persist()
}

// Remove deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (c *Cart) Remove(productID string) error {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return c.persist()
	}
	return nil
}

// Clear empties the cart and removes its key from the session entirely,
// rather than leaving an empty-but-present value behind.
func (c *Cart) Clear() {
	c.lines = nil
	c.sess.Delete(SessionKey)
}

// Lines returns a fresh snapshot of the cart in insertion order. Each call
// returns a new slice, so iteration is restartable.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalCents sums all line totals.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.TotalCents()
	}
	return total
}

// Len is the number of distinct lines; the cart is empty exactly when it
// is zero.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount sums quantities across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) persist() error {
	items := make([]interface{}, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, map[string]interface{}{
			"product_id":       l.ProductID,
			"quantity":         int64(l.Quantity),
			"unit_price_cents": l.UnitPriceCents,
		})
	}
	return c.sess.Set(SessionKey, items)
}

func stringField(entry map[string]interface{}, key string) string {
	s, _ := entry[key].(string)
	return s
}
