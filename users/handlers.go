package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/may15-go/logging"
	"github.com/user/may15-go/resource"
)

// UserHandlers exposes the user endpoints under /api/users.
type UserHandlers struct {
	crud *resource.Handlers[User, CreateUserRequest, UpdateUserRequest]
}

// NewUserHandlers creates UserHandlers. An empty listing answers
// 200 {"message":"not found","data":null}.
func NewUserHandlers(service *UserService, log logging.Logger) *UserHandlers {
	return &UserHandlers{crud: resource.NewHandlers(
		resource.Service[User, CreateUserRequest, UpdateUserRequest](service),
		resource.Options{Name: CollectionName, EmptyListStatus: http.StatusOK},
		log,
	)}
}

// RegisterRoutes mounts the user endpoints on a router scoped to /api/users.
func (h *UserHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleGet())
	r.Patch("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleList godoc
// @Summary List users
// @Description An empty result answers 200 {"message":"not found","data":null}.
// @Tags users
// @Produce json
// @Success 200 {object} resource.DataEnvelope{data=[]User}
// @Router /api/users [get]
func (h *UserHandlers) HandleList() http.HandlerFunc { return h.crud.List() }

// HandleGet godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} resource.DataEnvelope{data=User}
// @Router /api/users/{id} [get]
func (h *UserHandlers) HandleGet() http.HandlerFunc { return h.crud.Get() }

// HandleCreate godoc
// @Summary Create a user
// @Description The password is stored as a bcrypt hash.
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User fields"
// @Success 200 {object} resource.DataEnvelope{data=User}
// @Failure 400 {object} apperror.ErrorResponse
// @Router /api/users [post]
func (h *UserHandlers) HandleCreate() http.HandlerFunc { return h.crud.Create() }

// HandleUpdate godoc
// @Summary Update a user
// @Description Merges the given fields and answers with the user as it was before.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} resource.ResponseEnvelope{response=User}
// @Failure 400 {object} apperror.ErrorResponse
// @Router /api/users/{id} [patch]
func (h *UserHandlers) HandleUpdate() http.HandlerFunc { return h.crud.Update() }

// HandleDelete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} resource.ResponseEnvelope{response=User}
// @Router /api/users/{id} [delete]
func (h *UserHandlers) HandleDelete() http.HandlerFunc { return h.crud.Delete() }
