package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
	"github.com/jcmexdev/storefront/internal/storefront/ports"
)

func NewRouter(handler *Handler, auth ports.AuthProvider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", handler.Root)
	r.Post("/register/", handler.Register)
	r.Post("/token", handler.Token)
	r.Get("/products/", handler.ListProducts)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAuth(auth))
		r.Post("/products/", handler.CreateProduct)
		r.Post("/orders/", handler.CreateOrder)
		r.Get("/orders/", handler.ListOrders)
		r.Get("/orders/{id}", handler.GetOrder)
	})

	return r
}
