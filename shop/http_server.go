package shop

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/platform/errors"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"go.uber.org/zap"
)

// resourceHandler is a router mounted under its own path prefix.
type resourceHandler interface {
	http.Handler
	Prefix() string
}

// APIHandler serves the greeting at "/" and mounts the user, product and
// order routes.
type APIHandler struct {
	chi.Router

	api *kithttp.API
	log *zap.Logger
}

// NewAPIHandler returns the storefront API over the given services.
func NewAPIHandler(log *zap.Logger, users storefront.UserService, products storefront.ProductService, orders storefront.OrderService) *APIHandler {
	h := &APIHandler{
		api: kithttp.NewAPI(kithttp.WithLog(log)),
		log: log,
	}

	r := newRouter(h.api)
	r.Get("/", h.handleIndex)

	for _, sub := range []resourceHandler{
		NewHTTPUserHandler(log, users),
		NewHTTPProductHandler(log, products),
		NewHTTPOrderHandler(log, orders),
	} {
		r.Mount(sub.Prefix(), sub)
	}

	h.Router = r
	return h
}

func (h *APIHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.api.Respond(w, r, http.StatusOK, map[string]string{"message": "Hello World"})
}

// newRouter returns a chi router whose unmatched routes answer with the
// usual error body instead of plain text.
func newRouter(api *kithttp.API) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Err(w, r, &errors.Error{
			Code: errors.ENotFound,
			Msg:  "path not found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Err(w, r, &errors.Error{
			Code: errors.EMethodNotAllowed,
			Msg:  r.Method + " not allowed on " + r.URL.Path,
		})
	})
	return r
}

func idFromRequest(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return "", errMissingID
	}
	return id, nil
}

// deleteResponse is returned after a successful delete.
type deleteResponse struct {
	ID string `json:"id"`
}
