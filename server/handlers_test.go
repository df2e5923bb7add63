package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"ramen-storefront/config"
	"ramen-storefront/models"
	"ramen-storefront/services"
)

type fakeCatalog struct {
	items   []models.MenuItem
	methods []models.PaymentMethod
}

func (f *fakeCatalog) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return f.items, nil
}

func (f *fakeCatalog) ListMenuByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, m := range f.items {
		if m.CategoryID == category {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, services.ErrNotFound
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{ID: "ramen", Name: "Ramen", Icon: "🍜"}}, nil
}

func (f *fakeCatalog) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return f.methods, nil
}

type fakeSettings struct {
	st models.SiteSettings
}

func (f *fakeSettings) Get(ctx context.Context) (*models.SiteSettings, error) {
	st := f.st
	return &st, nil
}

func (f *fakeSettings) Update(ctx context.Context, st *models.SiteSettings) error {
	f.st = *st
	return nil
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	catalog := &fakeCatalog{
		items: []models.MenuItem{
			{
				ID: "1", CategoryID: "ramen", Name: "Tonkotsu Ramen",
				BasePrice: 25000, DiscountPrice: 22000, OnDiscount: true,
				Variations: []models.Variation{{ID: "v-lg", Name: "Large", Price: 5000}},
				AddOns: []models.AddOn{
					{ID: "a-egg", Name: "Egg", Price: 2000, Category: "toppings"},
					{ID: "a-nori", Name: "Nori", Price: 0, Category: "toppings"},
				},
				Available: true,
			},
			{ID: "2", CategoryID: "ramen", Name: "Shoyu Ramen", BasePrice: 20000, Available: true},
			{ID: "3", CategoryID: "ramen", Name: "Seasonal Special", BasePrice: 30000, Available: false},
		},
		methods: []models.PaymentMethod{{ID: "gcash", Name: "GCash"}},
	}
	settings := &fakeSettings{st: models.SiteSettings{SiteName: "FujiRamen", Currency: "₱"}}

	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := New(log, catalog, settings, nil, nil,
		config.MessagingConfig{Host: "m.me", Channel: "fujiramenangelesbranch"},
		services.KeyByItem)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func sessionClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp
}

func TestCartFlow(t *testing.T) {
	ts := testServer(t)
	client := sessionClient(t)

	var cart cartView
	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items", addItemRequest{
		ItemID:      "1",
		Quantity:    3,
		VariationID: "v-lg",
		AddOns: []services.AddOnQuantity{
			{ID: "a-egg", Quantity: 2},
			{ID: "a-nori", Quantity: 1},
		},
	}, &cart)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: status %d", resp.StatusCode)
	}
	if len(cart.Items) != 1 || cart.Items[0].UnitPrice != 31000 {
		t.Fatalf("cart = %+v, want one line at 31000", cart)
	}
	if cart.TotalPrice != 93000 || cart.ItemCount != 3 {
		t.Errorf("totals = %d/%d, want 93000/3", cart.TotalPrice, cart.ItemCount)
	}

	// the same session sees its cart back
	doJSON(t, client, http.MethodGet, ts.URL+"/api/cart", nil, &cart)
	if cart.ItemCount != 3 {
		t.Errorf("GET cart count = %d, want 3", cart.ItemCount)
	}

	key := cart.Items[0].Key
	doJSON(t, client, http.MethodPatch, ts.URL+"/api/cart/items/"+key, updateQuantityRequest{Quantity: 1}, &cart)
	if cart.ItemCount != 1 {
		t.Errorf("count after update = %d, want 1", cart.ItemCount)
	}

	// unknown key: silent no-op, still 200
	resp = doJSON(t, client, http.MethodPatch, ts.URL+"/api/cart/items/missing-id", updateQuantityRequest{Quantity: 5}, &cart)
	if resp.StatusCode != http.StatusOK || cart.ItemCount != 1 {
		t.Errorf("missing id update: status %d count %d, want 200 and 1", resp.StatusCode, cart.ItemCount)
	}

	doJSON(t, client, http.MethodDelete, ts.URL+"/api/cart", nil, &cart)
	if cart.ItemCount != 0 || cart.TotalPrice != 0 {
		t.Errorf("after clear = %+v, want empty", cart)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ts := testServer(t)
	a, b := sessionClient(t), sessionClient(t)

	var cart cartView
	doJSON(t, a, http.MethodPost, ts.URL+"/api/cart/items", addItemRequest{ItemID: "2", Quantity: 2}, &cart)
	if cart.ItemCount != 2 {
		t.Fatalf("session a count = %d", cart.ItemCount)
	}
	doJSON(t, b, http.MethodGet, ts.URL+"/api/cart", nil, &cart)
	if cart.ItemCount != 0 {
		t.Errorf("session b sees %d items, want 0", cart.ItemCount)
	}
}

func TestAddCartItemErrors(t *testing.T) {
	ts := testServer(t)
	client := sessionClient(t)

	tests := []struct {
		name string
		req  addItemRequest
		want int
	}{
		{"unknown item", addItemRequest{ItemID: "404"}, http.StatusNotFound},
		{"unavailable item", addItemRequest{ItemID: "3"}, http.StatusConflict},
		{"foreign variation", addItemRequest{ItemID: "2", VariationID: "v-lg"}, http.StatusBadRequest},
		{"foreign add-on", addItemRequest{ItemID: "2", AddOns: []services.AddOnQuantity{{ID: "a-egg", Quantity: 1}}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items", tt.req, nil)
		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.want)
		}
	}

	var cart cartView
	doJSON(t, client, http.MethodGet, ts.URL+"/api/cart", nil, &cart)
	if cart.ItemCount != 0 {
		t.Errorf("rejected adds must not touch the cart, count = %d", cart.ItemCount)
	}
}

func TestCheckoutValidate(t *testing.T) {
	ts := testServer(t)
	client := sessionClient(t)

	tests := []struct {
		name string
		req  checkoutRequest
		want bool
	}{
		{"delivery missing address", checkoutRequest{
			CustomerName: "Maria", ContactNumber: "0917", ServiceType: "delivery",
		}, false},
		{"delivery with address", checkoutRequest{
			CustomerName: "Maria", ContactNumber: "0917", ServiceType: "delivery",
			Address: "123 Friendship Hwy",
		}, true},
		{"pickup custom no time", checkoutRequest{
			CustomerName: "Maria", ContactNumber: "0917", ServiceType: "pickup",
			PickupWindow: "custom",
		}, false},
		{"pickup custom with time", checkoutRequest{
			CustomerName: "Maria", ContactNumber: "0917", ServiceType: "pickup",
			PickupWindow: "custom", CustomTime: "45 minutes",
		}, true},
		{"dine-in complete", checkoutRequest{
			CustomerName: "Maria", ContactNumber: "0917", ServiceType: "dine-in",
			PartySize: 4, DineInTime: "2025-03-03T18:30",
		}, true},
	}
	for _, tt := range tests {
		var out struct {
			Valid bool `json:"valid"`
		}
		doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout/validate", tt.req, &out)
		if out.Valid != tt.want {
			t.Errorf("%s: valid = %v, want %v", tt.name, out.Valid, tt.want)
		}
	}
}

func TestPlaceOrder(t *testing.T) {
	ts := testServer(t)
	client := sessionClient(t)

	draft := checkoutRequest{
		CustomerName: "Maria", ContactNumber: "0917", ServiceType: "pickup",
		PickupWindow: "15-20", PaymentMethod: "gcash",
	}

	// empty cart blocks placing
	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout/place", draft, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("empty cart place: status %d, want 422", resp.StatusCode)
	}

	doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items", addItemRequest{ItemID: "2", Quantity: 2}, nil)

	var placed placedOrder
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout/place", draft, &placed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("place: status %d", resp.StatusCode)
	}
	for _, want := range []string{
		"🛒 FUJIRAMEN ORDER",
		"⏰ Pickup Time: 15-20 minutes",
		"• Shoyu Ramen x2 - ₱400.00",
		"💰 TOTAL: ₱400.00",
		"💳 Payment: GCash",
	} {
		if !strings.Contains(placed.Message, want) {
			t.Errorf("message missing %q\n%s", want, placed.Message)
		}
	}
	prefix := "https://m.me/fujiramenangelesbranch?text="
	if !strings.HasPrefix(placed.Link, prefix) {
		t.Errorf("link = %s", placed.Link)
	}
	if strings.ContainsAny(strings.TrimPrefix(placed.Link, prefix), " +\n") {
		t.Errorf("link not fully percent-encoded: %s", placed.Link)
	}

	// invalid draft is blocked even with a populated cart
	bad := draft
	bad.CustomerName = ""
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout/place", bad, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid draft place: status %d, want 422", resp.StatusCode)
	}
}

func TestUpdateSettings(t *testing.T) {
	ts := testServer(t)
	client := sessionClient(t)

	st := models.SiteSettings{SiteName: "FujiRamen Clark", Currency: "₱", CurrencyCode: "PHP"}
	resp := doJSON(t, client, http.MethodPut, ts.URL+"/api/admin/settings", st, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update settings: status %d", resp.StatusCode)
	}

	var got models.SiteSettings
	doJSON(t, client, http.MethodGet, ts.URL+"/api/settings", nil, &got)
	if got.SiteName != "FujiRamen Clark" {
		t.Errorf("site name = %s, want FujiRamen Clark", got.SiteName)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(fmt.Sprintf("%s/health", ts.URL))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}
