package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ramen-storefront/config"
	"ramen-storefront/models"
	"ramen-storefront/services"
)

const (
	readTimeout       = 1 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 1 * time.Minute
)

// Catalog is the read-only provider of menu data consumed by the storefront.
type Catalog interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	ListMenuByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
}

// Settings reads and updates the site settings row.
type Settings interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, st *models.SiteSettings) error
}

type Server struct {
	router    *mux.Router
	server    *http.Server
	log       *logrus.Logger
	catalog   Catalog
	settings  Settings
	uploader  services.Uploader
	notifier  *services.OrderNotifier
	carts     *sessionCarts
	messaging config.MessagingConfig
}

func New(
	log *logrus.Logger,
	catalog Catalog,
	settings Settings,
	uploader services.Uploader,
	notifier *services.OrderNotifier,
	messaging config.MessagingConfig,
	mode services.LineKeyMode,
) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		log:       log,
		catalog:   catalog,
		settings:  settings,
		uploader:  uploader,
		notifier:  notifier,
		carts:     newSessionCarts(mode),
		messaging: messaging,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/menu", s.handleMenu).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	api.HandleFunc("/payment-methods", s.handlePaymentMethods).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)

	api.HandleFunc("/cart", s.handleGetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.handleClearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", s.handleAddCartItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{key}", s.handleUpdateCartItem).Methods(http.MethodPatch)
	api.HandleFunc("/cart/items/{key}", s.handleRemoveCartItem).Methods(http.MethodDelete)

	api.HandleFunc("/checkout/validate", s.handleValidateCheckout).Methods(http.MethodPost)
	api.HandleFunc("/checkout/place", s.handlePlaceOrder).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/settings/logo", s.handleUploadLogo).Methods(http.MethodPost)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	s.log.WithField("addr", addr).Info("storefront listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
