package services

import (
	"fmt"

	"ramen-storefront/models"
)

// SelectedAddOn is one add-on choice carried by a cart line, with its own
// resolved quantity (always >= 1).
type SelectedAddOn struct {
	models.AddOn
	Quantity int `json:"quantity"`
}

// AddOnSelection is an ordered multiset of add-on choices. Entries with a
// quantity of zero are never stored; reducing a quantity to zero removes the
// entry instead.
type AddOnSelection []SelectedAddOn

// SetQuantity returns the selection with the add-on's quantity set to qty.
// qty <= 0 removes the entry. A new add-on is appended, keeping the order in
// which add-ons were first selected.
func (s AddOnSelection) SetQuantity(a models.AddOn, qty int) AddOnSelection {
	for i, sel := range s {
		if sel.ID != a.ID {
			continue
		}
		if qty <= 0 {
			return append(s[:i:i], s[i+1:]...)
		}
		out := make(AddOnSelection, len(s))
		copy(out, s)
		out[i].Quantity = qty
		return out
	}
	if qty <= 0 {
		return s
	}
	return append(s[:len(s):len(s)], SelectedAddOn{AddOn: a, Quantity: qty})
}

// QuantityOf returns the selected quantity for an add-on id, 0 when absent.
func (s AddOnSelection) QuantityOf(id string) int {
	for _, sel := range s {
		if sel.ID == id {
			return sel.Quantity
		}
	}
	return 0
}

// UnitPrice resolves the fully customized per-unit price of a prospective
// cart line:
//
//	effective price + variation delta + sum(add-on price x add-on quantity)
//
// variation may be nil and sel may be empty, in which case the result is the
// item's effective (possibly discounted) price. Pure: same inputs, same price.
func UnitPrice(item *models.MenuItem, variation *models.Variation, sel AddOnSelection) int64 {
	price := item.EffectivePrice()
	if variation != nil {
		price += variation.Price
	}
	for _, a := range sel {
		price += a.Price * int64(a.Quantity)
	}
	return price
}

// VariationByID finds a variation on the item, nil when id is empty or does
// not belong to the item.
func VariationByID(item *models.MenuItem, id string) *models.Variation {
	if id == "" {
		return nil
	}
	for i := range item.Variations {
		if item.Variations[i].ID == id {
			return &item.Variations[i]
		}
	}
	return nil
}

// AddOnQuantity pairs an add-on id with a requested quantity, as it arrives
// from the customization flow.
type AddOnQuantity struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// ResolveAddOns builds a selection from requested id/quantity pairs against
// the item's own add-on list. Unknown ids are an error; zero and negative
// quantities are dropped.
func ResolveAddOns(item *models.MenuItem, reqs []AddOnQuantity) (AddOnSelection, error) {
	var sel AddOnSelection
	for _, req := range reqs {
		if req.Quantity <= 0 {
			continue
		}
		found := false
		for _, a := range item.AddOns {
			if a.ID == req.ID {
				sel = sel.SetQuantity(a, req.Quantity)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("add-on %s does not belong to item %s", req.ID, item.ID)
		}
	}
	return sel, nil
}

// AddOnGroup is one display group of an item's add-ons, keyed by the category
// tag. Grouping is presentation only and never affects pricing.
type AddOnGroup struct {
	Category string         `json:"category"`
	AddOns   []models.AddOn `json:"add_ons"`
}

// GroupAddOns groups an item's add-ons by category tag, preserving the order
// in which categories first appear in the catalog definition.
func GroupAddOns(item *models.MenuItem) []AddOnGroup {
	var groups []AddOnGroup
	index := map[string]int{}
	for _, a := range item.AddOns {
		i, ok := index[a.Category]
		if !ok {
			i = len(groups)
			index[a.Category] = i
			groups = append(groups, AddOnGroup{Category: a.Category})
		}
		groups[i].AddOns = append(groups[i].AddOns, a)
	}
	return groups
}

// DiscountPercent is the rounded percentage saved when a discount is active,
// 0 otherwise. Shown as a badge on menu cards.
func DiscountPercent(item *models.MenuItem) int {
	if !item.OnDiscount || item.DiscountPrice <= 0 || item.BasePrice <= 0 {
		return 0
	}
	saved := item.BasePrice - item.DiscountPrice
	if saved <= 0 {
		return 0
	}
	return int((saved*100 + item.BasePrice/2) / item.BasePrice)
}

// FormatPrice renders centavos with a currency symbol, e.g. "₱310.00".
func FormatPrice(symbol string, centavos int64) string {
	sign := ""
	if centavos < 0 {
		sign = "-"
		centavos = -centavos
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, centavos/100, centavos%100)
}
