package shop

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/storefront/storefront"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"go.uber.org/zap"
)

const prefixOrders = "/api/order"

// OrderHandler is the handler for the order service
type OrderHandler struct {
	chi.Router

	api *kithttp.API
	log *zap.Logger

	orderService storefront.OrderService
}

// NewHTTPOrderHandler constructs a new http server.
func NewHTTPOrderHandler(log *zap.Logger, orderService storefront.OrderService) *OrderHandler {
	h := &OrderHandler{
		api:          kithttp.NewAPI(kithttp.WithLog(log)),
		log:          log,
		orderService: orderService,
	}

	r := newRouter(h.api)
	r.Post("/create", h.handlePostOrder)
	r.Get("/get/{id}", h.handleGetOrder)

	h.Router = r
	return h
}

// Prefix returns the path the order routes are mounted under.
func (h *OrderHandler) Prefix() string {
	return prefixOrders
}

func (h *OrderHandler) handlePostOrder(w http.ResponseWriter, r *http.Request) {
	var body storefront.OrderCreate
	if err := h.api.DecodeJSON(r.Body, &body); err != nil {
		h.api.Err(w, r, err)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.log.Debug("Order created", zap.String("id", order.ID), zap.String("user_id", order.UserID))

	h.api.Respond(w, r, http.StatusCreated, order)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	order, err := h.orderService.FindOrderByID(r.Context(), id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, order)
}
