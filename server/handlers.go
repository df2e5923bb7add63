package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ramen-storefront/models"
	"ramen-storefront/services"
)

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"error": msg})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	var err error
	var items any
	if category := r.URL.Query().Get("category"); category != "" {
		items, err = s.catalog.ListMenuByCategory(r.Context(), category)
	} else {
		items, err = s.catalog.ListMenu(r.Context())
	}
	if err != nil {
		s.log.WithError(err).Error("list menu")
		s.respondError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}
	s.respond(w, http.StatusOK, items)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list categories")
		s.respondError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	s.respond(w, http.StatusOK, cats)
}

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := s.catalog.ListPaymentMethods(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list payment methods")
		s.respondError(w, http.StatusInternalServerError, "failed to load payment methods")
		return
	}
	s.respond(w, http.StatusOK, methods)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Get(r.Context())
	if err != nil {
		s.log.WithError(err).Error("get settings")
		s.respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	s.respond(w, http.StatusOK, st)
}

// cartView is the cart snapshot returned by every cart endpoint.
type cartView struct {
	Items      []services.CartLine `json:"items"`
	TotalPrice int64               `json:"total_price"`
	ItemCount  int                 `json:"item_count"`
}

func viewOf(c *services.Cart) cartView {
	lines := c.Lines()
	if lines == nil {
		lines = []services.CartLine{}
	}
	return cartView{Items: lines, TotalPrice: c.TotalPrice(), ItemCount: c.ItemCount()}
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, viewOf(s.carts.cartFor(w, r)))
}

type addItemRequest struct {
	ItemID      string                   `json:"item_id"`
	Quantity    int                      `json:"quantity"`
	VariationID string                   `json:"variation_id"`
	AddOns      []services.AddOnQuantity `json:"add_ons"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := s.catalog.GetMenuItem(r.Context(), req.ItemID)
	if errors.Is(err, services.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "menu item not found")
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("item", req.ItemID).Error("get menu item")
		s.respondError(w, http.StatusInternalServerError, "failed to load menu item")
		return
	}
	if !item.Available {
		s.respondError(w, http.StatusConflict, "item is currently unavailable")
		return
	}

	variation := services.VariationByID(item, req.VariationID)
	if req.VariationID != "" && variation == nil {
		s.respondError(w, http.StatusBadRequest, "variation does not belong to this item")
		return
	}
	sel, err := services.ResolveAddOns(item, req.AddOns)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cart := s.carts.cartFor(w, r)
	cart.Add(item, req.Quantity, variation, sel)
	s.respond(w, http.StatusOK, viewOf(cart))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cart := s.carts.cartFor(w, r)
	// unknown keys are silently ignored, matching the engine's contract
	cart.UpdateQuantity(mux.Vars(r)["key"], req.Quantity)
	s.respond(w, http.StatusOK, viewOf(cart))
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	cart := s.carts.cartFor(w, r)
	cart.Remove(mux.Vars(r)["key"])
	s.respond(w, http.StatusOK, viewOf(cart))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	cart := s.carts.cartFor(w, r)
	cart.Clear()
	s.respond(w, http.StatusOK, viewOf(cart))
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	ContactNumber string `json:"contact_number"`
	ServiceType   string `json:"service_type"`
	Address       string `json:"address"`
	Landmark      string `json:"landmark"`
	PickupWindow  string `json:"pickup_window"`
	CustomTime    string `json:"custom_time"`
	PartySize     int    `json:"party_size"`
	DineInTime    string `json:"dine_in_time"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`
}

// draft maps the wire form onto a checkout draft. The dine-in time accepts
// the HTML datetime-local format or RFC 3339; party size is clamped to the
// storefront maximum.
func (req *checkoutRequest) draft() services.Draft {
	d := services.Draft{
		CustomerName:    req.CustomerName,
		ContactNumber:   req.ContactNumber,
		ServiceType:     services.ServiceType(req.ServiceType),
		Address:         req.Address,
		Landmark:        req.Landmark,
		PickupWindow:    services.PickupWindow(req.PickupWindow),
		CustomTime:      req.CustomTime,
		PartySize:       req.PartySize,
		Notes:           req.Notes,
		PaymentMethodID: req.PaymentMethod,
	}
	if d.PartySize > services.MaxPartySize {
		d.PartySize = services.MaxPartySize
	}
	if req.DineInTime != "" {
		for _, layout := range []string{"2006-01-02T15:04", time.RFC3339} {
			if t, err := time.Parse(layout, req.DineInTime); err == nil {
				d.DineInTime = t
				break
			}
		}
	}
	return d
}

func (s *Server) handleValidateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d := req.draft()
	s.respond(w, http.StatusOK, map[string]bool{"valid": d.Valid()})
}

type placedOrder struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d := req.draft()
	if !d.Valid() {
		s.respondError(w, http.StatusUnprocessableEntity, "order details are incomplete")
		return
	}
	cart := s.carts.cartFor(w, r)
	if cart.Empty() {
		s.respondError(w, http.StatusUnprocessableEntity, "cart is empty")
		return
	}

	st, err := s.settings.Get(r.Context())
	if err != nil {
		s.log.WithError(err).Error("get settings")
		s.respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	method, err := s.paymentMethod(r, d.PaymentMethodID)
	if err != nil {
		// fall back to the raw id in the message rather than blocking the order
		s.log.WithError(err).Warn("resolve payment method")
	}

	message := services.ComposeMessage(&d, cart.Lines(), cart.TotalPrice(), method, st)
	link := services.OrderLink(s.messaging.Host, s.messaging.Channel, message)

	if err := s.notifier.NotifyOrder(message); err != nil {
		s.log.WithError(err).Warn("order notification failed")
	}

	s.respond(w, http.StatusOK, placedOrder{Message: message, Link: link})
}

func (s *Server) paymentMethod(r *http.Request, id string) (*models.PaymentMethod, error) {
	if id == "" {
		return nil, nil
	}
	methods, err := s.catalog.ListPaymentMethods(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].ID == id {
			return &methods[i], nil
		}
	}
	return nil, nil
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var st models.SiteSettings
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.settings.Update(r.Context(), &st); err != nil {
		s.log.WithError(err).Error("update settings")
		s.respondError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	s.respond(w, http.StatusOK, st)
}

const maxLogoUpload = 10 << 20

func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLogoUpload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	slot := r.FormValue("slot")
	if slot == "" {
		slot = "site-logo"
	}

	url, err := s.uploader.Upload(r.Context(), slot, header.Filename, file)
	if err != nil {
		// prior settings stay untouched on a failed upload
		s.log.WithError(err).Error("logo upload failed")
		s.respondError(w, http.StatusBadGateway, "upload failed")
		return
	}

	st, err := s.settings.Get(r.Context())
	if err != nil {
		s.log.WithError(err).Error("get settings")
		s.respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	st.SiteLogo = url
	if err := s.settings.Update(r.Context(), st); err != nil {
		s.log.WithError(err).Error("save logo url")
		s.respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	s.respond(w, http.StatusOK, st)
}
