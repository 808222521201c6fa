package shop

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/storefront/storefront"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"go.uber.org/zap"
)

const prefixProducts = "/api/product"

// ProductHandler is the handler for the product service
type ProductHandler struct {
	chi.Router

	api *kithttp.API
	log *zap.Logger

	productService storefront.ProductService
}

// NewHTTPProductHandler constructs a new http server.
func NewHTTPProductHandler(log *zap.Logger, productService storefront.ProductService) *ProductHandler {
	h := &ProductHandler{
		api:            kithttp.NewAPI(kithttp.WithLog(log)),
		log:            log,
		productService: productService,
	}

	r := newRouter(h.api)
	r.Post("/create", h.handlePostProduct)
	r.Get("/get", h.handleGetProducts)
	r.Get("/get/{id}", h.handleGetProduct)
	r.Delete("/delete/{id}", h.handleDeleteProduct)

	h.Router = r
	return h
}

// Prefix returns the path the product routes are mounted under.
func (h *ProductHandler) Prefix() string {
	return prefixProducts
}

func (h *ProductHandler) handlePostProduct(w http.ResponseWriter, r *http.Request) {
	var body storefront.ProductCreate
	if err := h.api.DecodeJSON(r.Body, &body); err != nil {
		h.api.Err(w, r, err)
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.log.Debug("Product created", zap.String("id", product.ID))

	h.api.Respond(w, r, http.StatusCreated, product)
}

func (h *ProductHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	product, err := h.productService.FindProductByID(r.Context(), id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, product)
}

func (h *ProductHandler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.FindProducts(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	if products == nil {
		products = []*storefront.Product{}
	}

	h.api.Respond(w, r, http.StatusOK, products)
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.log.Debug("Product deleted", zap.String("id", id))

	h.api.Respond(w, r, http.StatusOK, deleteResponse{ID: id})
}
