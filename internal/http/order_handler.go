package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderResponseDTO struct {
	Order *domain.Order      `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	client := clientFromContext(r.Context())
	if client == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}

	var addr domain.Address
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	order, items, err := h.orders.PlaceOrder(r.Context(), sessionToken(r.Context()), client, addr)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, orderResponseDTO{Order: order, Items: items})
}

func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	client := clientFromContext(r.Context())
	if client == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}

	orders, err := h.orders.History(r.Context(), client.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	client := clientFromContext(r.Context())
	if client == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}

	order, items, err := h.orders.GetOrder(r.Context(), client.ID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orderResponseDTO{Order: order, Items: items})
}
