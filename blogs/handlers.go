package blogs

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/may15-go/logging"
	"github.com/user/may15-go/resource"
)

// BlogHandlers exposes the blog endpoints under /api/blogs.
type BlogHandlers struct {
	crud *resource.Handlers[Blog, CreateBlogRequest, UpdateBlogRequest]
}

func NewBlogHandlers(service *BlogService, log logging.Logger) *BlogHandlers {
	return &BlogHandlers{crud: resource.NewHandlers(
		resource.Service[Blog, CreateBlogRequest, UpdateBlogRequest](service),
		resource.Options{Name: CollectionName, EmptyListStatus: http.StatusOK},
		log,
	)}
}

// RegisterRoutes mounts the blog endpoints on a router scoped to /api/blogs.
func (h *BlogHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleGet())
	r.Patch("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleList godoc
// @Summary List blogs
// @Description An empty result answers 200 {"message":"not found","data":null}.
// @Tags blogs
// @Produce json
// @Success 200 {object} resource.DataEnvelope{data=[]Blog}
// @Router /api/blogs [get]
func (h *BlogHandlers) HandleList() http.HandlerFunc { return h.crud.List() }

// HandleGet godoc
// @Summary Get a blog
// @Tags blogs
// @Produce json
// @Param id path string true "Blog id"
// @Success 200 {object} resource.DataEnvelope{data=Blog}
// @Router /api/blogs/{id} [get]
func (h *BlogHandlers) HandleGet() http.HandlerFunc { return h.crud.Get() }

// HandleCreate godoc
// @Summary Create a blog
// @Description journalistId and tagIds must be 24 character hex ids; they are not checked
// @Description against the users and tags collections.
// @Tags blogs
// @Accept json
// @Produce json
// @Param blog body CreateBlogRequest true "Blog fields"
// @Success 200 {object} resource.DataEnvelope{data=Blog}
// @Failure 400 {object} apperror.ErrorResponse
// @Router /api/blogs [post]
func (h *BlogHandlers) HandleCreate() http.HandlerFunc { return h.crud.Create() }

// HandleUpdate godoc
// @Summary Update a blog
// @Tags blogs
// @Accept json
// @Produce json
// @Param id path string true "Blog id"
// @Param blog body UpdateBlogRequest true "Fields to change"
// @Success 200 {object} resource.ResponseEnvelope{response=Blog}
// @Failure 400 {object} apperror.ErrorResponse
// @Router /api/blogs/{id} [patch]
func (h *BlogHandlers) HandleUpdate() http.HandlerFunc { return h.crud.Update() }

// HandleDelete godoc
// @Summary Delete a blog
// @Tags blogs
// @Produce json
// @Param id path string true "Blog id"
// @Success 200 {object} resource.ResponseEnvelope{response=Blog}
// @Router /api/blogs/{id} [delete]
func (h *BlogHandlers) HandleDelete() http.HandlerFunc { return h.crud.Delete() }
