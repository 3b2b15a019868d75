package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/dmitrijs2005/shopfront/internal/server/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string    `json:"token"`
	ExpiresAtUTC time.Time `json:"expiresAtUtc"`
}

type registerResponse struct {
	Success bool `json:"success"`
}

type userResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type imageResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}

type buyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId,omitempty"`
}

func (h *handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.deps.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.authAttempt("login", "rejected")
		}
		h.writeError(w, r, err)
		return
	}

	h.authAttempt("login", "ok")
	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, ExpiresAtUTC: res.ExpiresAtUTC.UTC()})
}

func (h *handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	written, err := h.deps.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if !written {
		writeJSON(w, http.StatusOK, registerResponse{Success: false})
		return
	}

	h.authAttempt("register", "ok")
	h.logger.Info(r.Context(), "user registered")
	writeJSON(w, http.StatusCreated, registerResponse{Success: true})
}

func (h *handlers) handleViewProducts(w http.ResponseWriter, r *http.Request) {
	if c, ok := ClaimsFromContext(r.Context()); ok {
		h.logger.Debug(r.Context(), "listing products", "sub", c.Subject)
	}

	items, err := h.deps.Products.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p := &models.Product{
		ID:          q.Get("pid"),
		Name:        q.Get("name"),
		Description: q.Get("description"),
		Image:       q.Get("image"),
	}

	if v := q.Get("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.writeError(w, r, common.NewValidationError("price must be a number"))
			return
		}
		p.Price = price
	}
	if v := q.Get("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, r, common.NewValidationError("stock must be an integer"))
			return
		}
		p.Stock = stock
	}

	n, err := h.deps.Products.AddProduct(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handlers) handleProductImage(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.deps.Products.AttachImage(r.Context(), r.URL.Query().Get("productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{Key: key, UploadURL: url})
}

func (h *handlers) handleLoginUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.deps.Users.GetByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "User Not Registered. Register First"})
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{UID: u.ID, Email: u.Email})
}

func (h *handlers) handleBuyNow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	order, err := h.deps.Orders.BuyNow(r.Context(), q.Get("userId"), q.Get("productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "order placed", "order_id", order.ID, "pid", order.ProductID)
	writeJSON(w, http.StatusOK, buyResponse{Success: true, Message: "Order placed successfully!", OrderID: order.ID})
}
