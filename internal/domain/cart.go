package domain

// DefaultMaxQuantity caps a cart line that does not carry its own limit.
const DefaultMaxQuantity = 99

// CartLine is one product in the cart, keyed by ItemID.
type CartLine struct {
	ItemID        string  `json:"item_id"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unit_price"`
	Quantity      int     `json:"quantity"`
	Brand         string  `json:"brand,omitempty"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	Image         string  `json:"image,omitempty"`
	PartNumber    string  `json:"part_number,omitempty"`
	InStock       *bool   `json:"in_stock,omitempty"`
	MaxQuantity   int     `json:"max_quantity,omitempty"`
}

// Cap returns the quantity limit of the line.
func (l CartLine) Cap(defaultMax int) int {
	if l.MaxQuantity > 0 {
		return l.MaxQuantity
	}
	if defaultMax > 0 {
		return defaultMax
	}
	return DefaultMaxQuantity
}

// Cart is an ordered list of lines with unique item ids.
type Cart []CartLine

// CartTotals summarises a cart.
type CartTotals struct {
	Lines    int     `json:"lines"`
	Items    int     `json:"items"`
	Subtotal float64 `json:"subtotal"`
	Savings  float64 `json:"savings"`
}

func clampQuantity(q, limit int) int {
	if q < 1 {
		return 1
	}
	if q > limit {
		return limit
	}
	return q
}

func (c Cart) index(itemID string) int {
	for i, l := range c {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}

// Find returns the line for itemID.
func (c Cart) Find(itemID string) (CartLine, bool) {
	if i := c.index(itemID); i >= 0 {
		return c[i], true
	}
	return CartLine{}, false
}

// Add inserts line or, when its item is already present, increases that
// line's quantity by line.Quantity (1 when unset). The result is clamped to
// [1, cap]. The stored line is returned.
func (c *Cart) Add(line CartLine, defaultMax int) CartLine {
	add := line.Quantity
	if add < 1 {
		add = 1
	}
	if i := c.index(line.ItemID); i >= 0 {
		existing := &(*c)[i]
		if line.MaxQuantity > 0 {
			existing.MaxQuantity = line.MaxQuantity
		}
		limit := existing.Cap(defaultMax)
		if add > limit-existing.Quantity {
			existing.Quantity = limit
		} else {
			existing.Quantity = clampQuantity(existing.Quantity+add, limit)
		}
		return *existing
	}
	line.Quantity = clampQuantity(add, line.Cap(defaultMax))
	*c = append(*c, line)
	return line
}

// SetQuantity sets the quantity of itemID, clamped to [1, cap].
func (c *Cart) SetQuantity(itemID string, quantity, defaultMax int) (CartLine, bool) {
	i := c.index(itemID)
	if i < 0 {
		return CartLine{}, false
	}
	l := &(*c)[i]
	l.Quantity = clampQuantity(quantity, l.Cap(defaultMax))
	return *l, true
}

// Remove deletes the line for itemID and reports whether it existed.
func (c *Cart) Remove(itemID string) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	*c = append((*c)[:i:i], (*c)[i+1:]...)
	return true
}

// Normalize repairs a cart read from storage: duplicate ids are merged into
// the first occurrence, lines without an id are dropped and quantities are
// clamped.
func (c Cart) Normalize(defaultMax int) Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ItemID == "" {
			continue
		}
		out.Add(l, defaultMax)
	}
	return out
}

// Totals computes line, item and money totals.
func (c Cart) Totals() CartTotals {
	t := CartTotals{Lines: len(c)}
	for _, l := range c {
		t.Items += l.Quantity
		t.Subtotal += l.UnitPrice * float64(l.Quantity)
		if l.OriginalPrice > l.UnitPrice {
			t.Savings += (l.OriginalPrice - l.UnitPrice) * float64(l.Quantity)
		}
	}
	return t
}
