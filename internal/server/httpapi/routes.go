package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/shopfront/internal/logging"
)

type handlers struct {
	deps   Deps
	logger logging.Logger
}

// routes registers every endpoint and wraps the mux in the shared
// middleware chain. Paths keep the casing existing clients already use.
//
//	POST /api/Auth/login
//	POST /api/Functions/RegisterUser
//	GET  /api/Functions/ViewProducts   (bearer)
//	POST /api/Functions/AddProduct
//	POST /api/Functions/ProductImage
//	GET  /api/Functions/LoginUser
//	POST /api/Functions/BuyNow
//	GET  /metrics
func (h *handlers) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/Auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/Functions/RegisterUser", h.handleRegister)
	mux.Handle("GET /api/Functions/ViewProducts", h.requireBearer(http.HandlerFunc(h.handleViewProducts)))
	mux.HandleFunc("POST /api/Functions/AddProduct", h.handleAddProduct)
	mux.HandleFunc("POST /api/Functions/ProductImage", h.handleProductImage)
	mux.HandleFunc("GET /api/Functions/LoginUser", h.handleLoginUser)
	mux.HandleFunc("POST /api/Functions/BuyNow", h.handleBuyNow)

	if h.deps.Metrics != nil {
		mux.Handle("GET /metrics", h.deps.Metrics.Handler())
	}
	if h.deps.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(h.deps.StaticDir)))
	}

	var handler http.Handler = mux
	handler = limitBody(handler, maxRequestBodySize)
	handler = cors(handler)
	handler = h.accessLog(handler)
	handler = requestID(handler)
	return handler
}
