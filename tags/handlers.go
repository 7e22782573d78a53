package tags

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/may15-go/db"
	"github.com/user/may15-go/logging"
	"github.com/user/may15-go/resource"
)

// TagHandlers exposes the tag endpoints under /api/tags.
type TagHandlers struct {
	crud *resource.Handlers[Tag, CreateTagRequest, UpdateTagRequest]
}

// NewTagHandlers creates TagHandlers. An empty tag listing answers 204, unlike users and
// blogs; clients depend on that difference, so it is kept.
func NewTagHandlers(service *TagService, log logging.Logger) *TagHandlers {
	return &TagHandlers{crud: resource.NewHandlers(
		resource.Service[Tag, CreateTagRequest, UpdateTagRequest](service),
		resource.Options{
			Name:            CollectionName,
			EmptyListStatus: http.StatusNoContent,
			ListFilter:      titleFilter,
		},
		log,
	)}
}

// titleFilter turns ?title=sport into an equality filter; no or empty title lists all.
func titleFilter(r *http.Request) db.Filter {
	title := r.URL.Query().Get("title")
	if title == "" {
		return nil
	}
	return db.Filter{"title": title}
}

// RegisterRoutes mounts the tag endpoints on a router scoped to /api/tags.
func (h *TagHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleGet())
	r.Patch("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleList godoc
// @Summary List tags
// @Description Lists every tag, or only those whose title equals the title query parameter.
// @Description An empty result answers 204 with no body.
// @Tags tags
// @Produce json
// @Param title query string false "Exact title to match"
// @Success 200 {object} resource.DataEnvelope{data=[]Tag}
// @Success 204 "No tags matched"
// @Router /api/tags [get]
func (h *TagHandlers) HandleList() http.HandlerFunc { return h.crud.List() }

// HandleGet godoc
// @Summary Get a tag
// @Description Missing and malformed ids both answer 200 {"message":"no content","data":null}.
// @Tags tags
// @Produce json
// @Param id path string true "Tag id"
// @Success 200 {object} resource.DataEnvelope{data=Tag}
// @Router /api/tags/{id} [get]
func (h *TagHandlers) HandleGet() http.HandlerFunc { return h.crud.Get() }

// HandleCreate godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param tag body CreateTagRequest true "Tag fields"
// @Success 200 {object} resource.DataEnvelope{data=Tag}
// @Failure 400 {object} apperror.ErrorResponse
// @Router /api/tags [post]
func (h *TagHandlers) HandleCreate() http.HandlerFunc { return h.crud.Create() }

// HandleUpdate godoc
// @Summary Update a tag
// @Description Merges the given fields; the response carries the tag as it was before the update.
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "Tag id"
// @Param tag body UpdateTagRequest true "Fields to change"
// @Success 200 {object} resource.ResponseEnvelope{response=Tag}
// @Failure 400 {object} apperror.ErrorResponse
// @Router /api/tags/{id} [patch]
func (h *TagHandlers) HandleUpdate() http.HandlerFunc { return h.crud.Update() }

// HandleDelete godoc
// @Summary Delete a tag
// @Tags tags
// @Produce json
// @Param id path string true "Tag id"
// @Success 200 {object} resource.ResponseEnvelope{response=Tag}
// @Router /api/tags/{id} [delete]
func (h *TagHandlers) HandleDelete() http.HandlerFunc { return h.crud.Delete() }
