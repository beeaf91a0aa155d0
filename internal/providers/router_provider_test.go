package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterProvider_RegistersRoutes(t *testing.T) {
	rp := NewRouterProvider()

	rp.Get("/chat", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rp.Post("/login", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	routes := rp.GetRoutes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/chat", routes[0].Url)
	assert.Equal(t, "/login", routes[1].Url)
}

func TestRouterProvider_MethodEnforcement(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/chat", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rp.Post("/login", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	routes := rp.GetRoutes()

	w := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	routes[1].Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	routes[1].Handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
