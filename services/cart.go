package services

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"ramen-storefront/models"
)

// LineKeyMode controls cart line identity.
//
// KeyByItem keeps at most one line per menu item id: adding a second
// customization of the same item merges into (and re-customizes) the existing
// line. KeyByCustomization gives each distinct variation/add-on combination
// its own line.
type LineKeyMode int

const (
	KeyByItem LineKeyMode = iota
	KeyByCustomization
)

// CartLine is one entry in the cart: an item, its resolved customization and
// a quantity. UnitPrice is computed once at add time and never recomputed;
// quantity changes do not touch it.
type CartLine struct {
	Key       string            `json:"key"`
	ItemID    string            `json:"item_id"`
	Name      string            `json:"name"`
	Variation *models.Variation `json:"variation,omitempty"`
	AddOns    AddOnSelection    `json:"add_ons,omitempty"`
	UnitPrice int64             `json:"unit_price"`
	Quantity  int               `json:"quantity"`
}

// LineTotal is the line's contribution to the cart total.
func (l *CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart owns the line items of one browsing session. All operations are safe
// for concurrent use; a line with quantity 0 is never retained.
type Cart struct {
	mu    sync.Mutex
	mode  LineKeyMode
	lines []CartLine
}

func NewCart(mode LineKeyMode) *Cart {
	return &Cart{mode: mode}
}

func (c *Cart) lineKey(item *models.MenuItem, variation *models.Variation, sel AddOnSelection) string {
	if c.mode == KeyByItem {
		return item.ID
	}
	parts := make([]string, 0, len(sel))
	for _, a := range sel {
		parts = append(parts, a.ID+"x"+strconv.Itoa(a.Quantity))
	}
	sort.Strings(parts)
	key := item.ID
	if variation != nil {
		key += ":" + variation.ID
	}
	if len(parts) > 0 {
		key += ":" + strings.Join(parts, ",")
	}
	return key
}

// Add resolves the unit price for the customization and either creates a new
// line (with the requested quantity, default 1) or merges into the line with
// the same key. Merging overwrites the line's customization and unit price
// and adds the requested quantity.
func (c *Cart) Add(item *models.MenuItem, qty int, variation *models.Variation, sel AddOnSelection) CartLine {
	if qty <= 0 {
		qty = 1
	}
	line := CartLine{
		Key:       c.lineKey(item, variation, sel),
		ItemID:    item.ID,
		Name:      item.Name,
		Variation: variation,
		AddOns:    sel,
		UnitPrice: UnitPrice(item, variation, sel),
		Quantity:  qty,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Key == line.Key {
			line.Quantity += c.lines[i].Quantity
			c.lines[i] = line
			return line
		}
	}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity sets the quantity of the line matching key. A quantity of
// zero or below removes the line. An unknown key is a silent no-op: no entry
// is created and no error is raised.
func (c *Cart) UpdateQuantity(key string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Key != key {
			continue
		}
		if qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = qty
		}
		return
	}
}

// Remove deletes the line unconditionally; no-op when absent.
func (c *Cart) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Key == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// TotalPrice is the sum of unit price x quantity over all lines, 0 for an
// empty cart.
func (c *Cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for i := range c.lines {
		total += c.lines[i].LineTotal()
	}
	return total
}

// ItemCount is the sum of line quantities; it drives the floating cart
// affordance, which is hidden at zero.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for i := range c.lines {
		count += c.lines[i].Quantity
	}
	return count
}

// ItemQuantity is the quantity held across lines for a menu item id, for the
// per-card stepper on the menu screen.
func (c *Cart) ItemQuantity(itemID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			count += c.lines[i].Quantity
		}
	}
	return count
}

// Lines returns a snapshot copy of the cart lines.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart holds no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}
