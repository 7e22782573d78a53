package resource

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/may15-go/apperror"
	"github.com/user/may15-go/db"
	"github.com/user/may15-go/logging"
)

// Service is what a resource package provides to the shared handlers: one method per
// endpoint, each performing a single gateway call. T is the stored record, C the create
// request and U the partial update request.
type Service[T, C, U any] interface {
	List(ctx context.Context, filter db.Filter) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, req *C) (*T, error)
	Update(ctx context.Context, id string, req *U) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// Options carries the per-resource differences of the shared handlers.
type Options struct {
	// Name is used in log lines, e.g. "tags".
	Name string
	// EmptyListStatus is the status of a list call that matched nothing.
	// http.StatusNoContent sends no body at all; any other status sends
	// {"message":"not found","data":null}.
	EmptyListStatus int
	// ListFilter builds the equality filter of a list call from the query string.
	// Nil means the list endpoint accepts no filter.
	ListFilter func(r *http.Request) db.Filter
}

// Handlers serves the five CRUD endpoints of one resource.
type Handlers[T, C, U any] struct {
	service Service[T, C, U]
	opts    Options
	log     logging.Logger
}

// NewHandlers creates the shared CRUD handlers for one resource.
func NewHandlers[T, C, U any](service Service[T, C, U], opts Options, log logging.Logger) *Handlers[T, C, U] {
	if opts.EmptyListStatus == 0 {
		opts.EmptyListStatus = http.StatusOK
	}
	return &Handlers[T, C, U]{service: service, opts: opts, log: log.With("resource", opts.Name)}
}

// List answers GET /. A non-empty result is {"message":"success","data":[...]}.
func (h *Handlers[T, C, U]) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter db.Filter
		if h.opts.ListFilter != nil {
			filter = h.opts.ListFilter(r)
		}

		items, err := h.service.List(r.Context(), filter)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		if len(items) > 0 {
			WriteJSON(w, http.StatusOK, DataEnvelope{Message: MsgSuccess, Data: items})
			return
		}

		if h.opts.EmptyListStatus == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		WriteJSON(w, h.opts.EmptyListStatus, DataEnvelope{Message: MsgNotFound, Data: nil})
	}
}

// Get answers GET /{id}. Missing ids, malformed ids and store failures all produce the
// same 200 {"message":"no content","data":null}.
func (h *Handlers[T, C, U]) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		item, err := h.service.Get(r.Context(), id)
		if err != nil {
			h.log.Error(r.Context(), "get failed", "id", id, "error", err)
		}
		if err != nil || item == nil {
			WriteJSON(w, http.StatusOK, DataEnvelope{Message: MsgNoContent, Data: nil})
			return
		}

		WriteJSON(w, http.StatusOK, DataEnvelope{Message: MsgSuccess, Data: item})
	}
}

// Create answers POST /. The stored record (with id and timestamps) is echoed back.
func (h *Handlers[T, C, U]) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := Decode[C](w, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		item, err := h.service.Create(r.Context(), req)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, DataEnvelope{Message: MsgPosted, Data: item})
	}
}

// Update answers PATCH /{id}. There is no existence check: the envelope carries the
// record as it was before the update, or null when nothing matched.
func (h *Handlers[T, C, U]) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		req, err := Decode[U](w, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		prev, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, ResponseEnvelope{Message: MsgUpdated, Response: prev})
	}
}

// Delete answers DELETE /{id} with the removed record, or null when nothing matched.
func (h *Handlers[T, C, U]) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		removed, err := h.service.Delete(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, ResponseEnvelope{Message: MsgDeleted, Response: removed})
	}
}

// RegisterRoutes mounts the five endpoints on a router already scoped to the resource
// path (e.g. inside r.Route("/api/tags", ...)).
func (h *Handlers[T, C, U]) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List())
	r.Post("/", h.Create())
	r.Get("/{id}", h.Get())
	r.Patch("/{id}", h.Update())
	r.Delete("/{id}", h.Delete())
}

// fail renders err as {"error": message}. Requests rejected at the boundary get 400;
// everything else, store failures included, keeps status 200.
func (h *Handlers[T, C, U]) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.FromError(err)

	status := http.StatusOK
	if apperror.IsBadRequest(appErr) {
		status = http.StatusBadRequest
		h.log.Warn(r.Context(), "request rejected", "path", r.URL.Path, "error", err)
	} else if apperror.IsDatabaseError(appErr) {
		h.log.Error(r.Context(), "store call failed", "path", r.URL.Path, "error", err)
	} else {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	WriteJSON(w, status, appErr.ToResponse())
}
