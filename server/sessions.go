package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"ramen-storefront/services"
)

const sessionCookie = "storefront_session"

// sessionCarts holds one in-memory cart per browsing session, keyed by the
// session cookie. Carts live for the lifetime of the process only; there is
// no cross-session persistence.
type sessionCarts struct {
	mu    sync.RWMutex
	carts map[string]*services.Cart
	mode  services.LineKeyMode
}

func newSessionCarts(mode services.LineKeyMode) *sessionCarts {
	return &sessionCarts{carts: make(map[string]*services.Cart), mode: mode}
}

func (sc *sessionCarts) get(id string) *services.Cart {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.carts[id]
}

func (sc *sessionCarts) getOrCreate(id string) *services.Cart {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if c, ok := sc.carts[id]; ok {
		return c
	}
	c := services.NewCart(sc.mode)
	sc.carts[id] = c
	return c
}

// cartFor resolves the request's session cart, issuing a session cookie on
// first contact.
func (sc *sessionCarts) cartFor(w http.ResponseWriter, r *http.Request) *services.Cart {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return sc.getOrCreate(cookie.Value)
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sc.getOrCreate(id)
}
