package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"ramen-storefront/models"
)

// ServiceType is the fulfillment mode of an order. Each mode has its own
// required checkout fields.
type ServiceType string

const (
	ServiceDineIn   ServiceType = "dine-in"
	ServicePickup   ServiceType = "pickup"
	ServiceDelivery ServiceType = "delivery"
)

// Label is the customer-facing capitalized form ("Dine-in", "Pickup", ...).
func (s ServiceType) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// PickupWindow is a fixed pickup duration tier, or PickupCustom with a
// free-text time.
type PickupWindow string

const (
	Pickup5to10  PickupWindow = "5-10"
	Pickup15to20 PickupWindow = "15-20"
	Pickup25to30 PickupWindow = "25-30"
	PickupCustom PickupWindow = "custom"
)

// MaxPartySize caps dine-in party size; larger requests are clamped.
const MaxPartySize = 20

const dineInTimeLayout = "Monday, January 2, 2006 at 3:04 PM"

// Draft is the transient checkout state of one session. It is created fresh
// on entering checkout and discarded once the order message is dispatched or
// the flow is abandoned; nothing here is ever persisted.
type Draft struct {
	CustomerName  string
	ContactNumber string
	ServiceType   ServiceType

	// delivery
	Address  string
	Landmark string

	// pickup
	PickupWindow PickupWindow
	CustomTime   string

	// dine-in
	PartySize  int
	DineInTime time.Time

	Notes           string
	PaymentMethodID string
}

// Valid is the gate for the details -> payment transition. It never raises;
// an invalid draft only blocks the transition.
func (d *Draft) Valid() bool {
	if strings.TrimSpace(d.CustomerName) == "" || strings.TrimSpace(d.ContactNumber) == "" {
		return false
	}
	switch d.ServiceType {
	case ServiceDelivery:
		return strings.TrimSpace(d.Address) != ""
	case ServicePickup:
		return d.PickupWindow != PickupCustom || strings.TrimSpace(d.CustomTime) != ""
	case ServiceDineIn:
		return d.PartySize > 0 && !d.DineInTime.IsZero()
	}
	return false
}

// ResolvedPickupTime is the human-readable pickup time: the tier with a
// "minutes" suffix, or the free-text custom time.
func (d *Draft) ResolvedPickupTime() string {
	if d.PickupWindow == PickupCustom {
		return d.CustomTime
	}
	return string(d.PickupWindow) + " minutes"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// describeLine renders one cart line for the order message, e.g.
//
//	• Tonkotsu Ramen (Large) + Egg x2, Nori x3 - ₱930.00
func describeLine(symbol string, l CartLine) string {
	var b strings.Builder
	b.WriteString("• " + l.Name)
	if l.Variation != nil {
		b.WriteString(" (" + l.Variation.Name + ")")
	}
	if len(l.AddOns) > 0 {
		names := make([]string, len(l.AddOns))
		for i, a := range l.AddOns {
			if a.Quantity > 1 {
				names[i] = fmt.Sprintf("%s x%d", a.Name, a.Quantity)
			} else {
				names[i] = a.Name
			}
		}
		b.WriteString(" + " + strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, " x%d - %s", l.Quantity, FormatPrice(symbol, l.LineTotal()))
	return b.String()
}

// ComposeMessage renders the full human-readable order summary handed to the
// external messaging channel. Deterministic: the same draft and cart snapshot
// always produce the same text. method may be nil, in which case the raw
// payment method id from the draft is shown.
func ComposeMessage(d *Draft, lines []CartLine, total int64, method *models.PaymentMethod, st *models.SiteSettings) string {
	site := strings.ToUpper(st.SiteName)
	symbol := st.Currency
	if symbol == "" {
		symbol = "₱"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛒 %s ORDER\n\n", site)
	fmt.Fprintf(&b, "👤 Customer: %s\n", d.CustomerName)
	fmt.Fprintf(&b, "📞 Contact: %s\n", d.ContactNumber)
	fmt.Fprintf(&b, "📍 Service: %s\n", d.ServiceType.Label())
	switch d.ServiceType {
	case ServiceDelivery:
		fmt.Fprintf(&b, "🏠 Address: %s\n", d.Address)
		if d.Landmark != "" {
			fmt.Fprintf(&b, "🗺️ Landmark: %s\n", d.Landmark)
		}
	case ServicePickup:
		fmt.Fprintf(&b, "⏰ Pickup Time: %s\n", d.ResolvedPickupTime())
	case ServiceDineIn:
		fmt.Fprintf(&b, "👥 Party Size: %d person%s\n", d.PartySize, plural(d.PartySize))
		fmt.Fprintf(&b, "🕐 Preferred Time: %s\n", d.DineInTime.Format(dineInTimeLayout))
	}

	b.WriteString("\n📋 ORDER DETAILS:\n")
	for _, l := range lines {
		b.WriteString(describeLine(symbol, l) + "\n")
	}

	fmt.Fprintf(&b, "\n💰 TOTAL: %s\n\n", FormatPrice(symbol, total))

	methodName := d.PaymentMethodID
	if method != nil {
		methodName = method.Name
	}
	fmt.Fprintf(&b, "💳 Payment: %s\n", methodName)
	b.WriteString("📸 Payment Screenshot: Please attach your payment receipt screenshot\n")

	if d.Notes != "" {
		fmt.Fprintf(&b, "\n📝 Notes: %s\n", d.Notes)
	}

	fmt.Fprintf(&b, "\nPlease confirm this order to proceed. Thank you for choosing %s!", site)
	return b.String()
}

// EncodeMessage percent-encodes the order text for use in a query parameter.
// Spaces become %20, never "+", so the link pastes cleanly into any client.
func EncodeMessage(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// OrderLink builds the outbound messaging deep link:
//
//	https://<host>/<channel>?text=<percent-encoded summary>
func OrderLink(host, channel, message string) string {
	return fmt.Sprintf("https://%s/%s?text=%s", host, channel, EncodeMessage(message))
}
