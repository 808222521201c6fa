package shop

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/storefront/storefront"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"go.uber.org/zap"
)

const prefixUsers = "/api/user"

// UserHandler is the handler for the user service
type UserHandler struct {
	chi.Router

	api *kithttp.API
	log *zap.Logger

	userService storefront.UserService
}

// NewHTTPUserHandler constructs a new http server.
func NewHTTPUserHandler(log *zap.Logger, userService storefront.UserService) *UserHandler {
	h := &UserHandler{
		api:         kithttp.NewAPI(kithttp.WithLog(log)),
		log:         log,
		userService: userService,
	}

	r := newRouter(h.api)
	r.Post("/create", h.handlePostUser)
	r.Get("/get", h.handleGetUsers)
	r.Get("/get/{id}", h.handleGetUser)
	r.Put("/update/{id}", h.handlePutUser)
	r.Delete("/delete/{id}", h.handleDeleteUser)

	h.Router = r
	return h
}

// Prefix returns the path the user routes are mounted under.
func (h *UserHandler) Prefix() string {
	return prefixUsers
}

func (h *UserHandler) handlePostUser(w http.ResponseWriter, r *http.Request) {
	var body storefront.UserCreate
	if err := h.api.DecodeJSON(r.Body, &body); err != nil {
		h.api.Err(w, r, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), body)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.log.Debug("User created", zap.String("id", user.ID))

	h.api.Respond(w, r, http.StatusCreated, user)
}

func (h *UserHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	user, err := h.userService.FindUserByID(r.Context(), id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, user)
}

func (h *UserHandler) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.FindUsers(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	if users == nil {
		users = []*storefront.User{}
	}

	h.api.Respond(w, r, http.StatusOK, users)
}

func (h *UserHandler) handlePutUser(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	var upd storefront.UserUpdate
	if err := h.api.DecodeJSON(r.Body, &upd); err != nil {
		h.api.Err(w, r, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, upd)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.log.Debug("User updated", zap.String("id", id))

	h.api.Respond(w, r, http.StatusOK, user)
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idFromRequest(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.log.Debug("User deleted", zap.String("id", id))

	h.api.Respond(w, r, http.StatusOK, deleteResponse{ID: id})
}
