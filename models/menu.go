package models

// Variation is a mutually exclusive size/style choice on a menu item.
// Price is the delta added on top of the item's effective price, in centavos.
type Variation struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// AddOn is a repeatable enhancement. Category is a display grouping tag only;
// it never affects pricing.
type AddOn struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

type MenuItem struct {
	ID            string      `json:"id"`
	CategoryID    string      `json:"category"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	BasePrice     int64       `json:"base_price"`
	DiscountPrice int64       `json:"discount_price,omitempty"`
	OnDiscount    bool        `json:"is_on_discount"`
	Variations    []Variation `json:"variations,omitempty"`
	AddOns        []AddOn     `json:"add_ons,omitempty"`
	Available     bool        `json:"available"`
	Popular       bool        `json:"popular"`
	ImageURL      string      `json:"image,omitempty"`
}

// EffectivePrice is the price actually charged for the base item before
// variation/add-on adjustments: the discount price when a discount is active,
// the base price otherwise.
func (m *MenuItem) EffectivePrice() int64 {
	if m.OnDiscount && m.DiscountPrice > 0 {
		return m.DiscountPrice
	}
	return m.BasePrice
}

// Customizable reports whether the item needs the customization flow before
// it can be added to a cart.
func (m *MenuItem) Customizable() bool {
	return len(m.Variations) > 0 || len(m.AddOns) > 0
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}
