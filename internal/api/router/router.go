package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// SetupRouter loginLimiter 為 nil 時登入不限流
// trustProxyHeaders 只在服務位於反向代理之後才開啟, 否則限流以 RemoteAddr 為準
func SetupRouter(server *api.Server, tokenMaker token.Maker, loginLimiter ratelimit.ILimiter, trustProxyHeaders bool, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	if trustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware)

	limitLogin := func(h http.HandlerFunc) http.Handler { return h }
	if loginLimiter != nil {
		rl := m.NewRateLimitMiddleware(loginLimiter)
		limitLogin = func(h http.HandlerFunc) http.Handler { return rl(h) }
	}

	customerAuth := m.AuthPayloadMiddleware(tokenMaker, constants.CustomerCookieName, token.ScopeCustomer)
	adminAuth := m.AuthPayloadMiddleware(tokenMaker, constants.AdminCookieName, token.ScopeAdmin)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		// 公開路由
		r.Group(func(r chi.Router) {
			r.Get("/products", server.ProductHandler.Search)
			r.Get("/products/featured", server.ProductHandler.Featured)
			r.Get("/products/{id}", server.ProductHandler.GetProduct)
			r.Get("/categories", server.ProductHandler.Categories)

			r.Route("/auth", func(r chi.Router) {
				r.Method(http.MethodPost, "/register", limitLogin(server.AuthHandler.Register))
				r.Method(http.MethodPost, "/login", limitLogin(server.AuthHandler.Login))
				r.Post("/logout", server.AuthHandler.Logout)
			})
		})

		// 會員路由
		r.Group(func(r chi.Router) {
			r.Use(customerAuth)
			r.Use(m.AuthMiddleware)

			r.Get("/me", server.AuthHandler.Me)
			r.Post("/me/password", server.AuthHandler.ChangePassword)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", server.CartHandler.GetCart)
				r.Delete("/", server.CartHandler.Clear)
				r.Get("/count", server.CartHandler.Count)
				r.Post("/items", server.CartHandler.AddItem)
				r.Put("/items/{productID}", server.CartHandler.UpdateItem)
				r.Delete("/items/{productID}", server.CartHandler.RemoveItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", server.OrderHandler.PlaceOrder)
				r.Get("/", server.OrderHandler.ListOrders)
				r.Get("/{id}", server.OrderHandler.GetOrder)
			})
		})

		// 後台路由
		r.Route("/admin", func(r chi.Router) {
			r.Method(http.MethodPost, "/auth/login", limitLogin(server.AuthHandler.AdminLogin))
			r.Post("/auth/logout", server.AuthHandler.AdminLogout)

			r.Group(func(r chi.Router) {
				r.Use(adminAuth)
				r.Use(m.RequireAdmin)

				r.Get("/dashboard", server.AdminHandler.Dashboard)
				r.Get("/inventory", server.AdminHandler.Inventory)

				r.Get("/products", server.AdminHandler.ListProducts)
				r.Post("/products", server.AdminHandler.CreateProduct)
				r.Put("/products/{id}", server.AdminHandler.UpdateProduct)
				r.Delete("/products/{id}", server.AdminHandler.DeleteProduct)
				r.Put("/products/{id}/stock", server.AdminHandler.UpdateStock)
				r.Post("/products/{id}/restock", server.AdminHandler.Restock)

				r.Get("/orders", server.AdminHandler.ListOrders)
				r.Get("/orders/{id}", server.AdminHandler.GetOrder)
				r.Put("/orders/{id}/status", server.AdminHandler.UpdateOrderStatus)
			})
		})
	})
	return r
}
