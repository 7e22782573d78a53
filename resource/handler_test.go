package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/may15-go/apperror"
	"github.com/user/may15-go/db"
	"github.com/user/may15-go/logging"
)

type item struct {
	Name string `json:"name"`
}

type createItem struct {
	Name  string `json:"name"`
	Owner string `json:"ownerId" validate:"omitempty,mongodb"`
}

type updateItem struct {
	Name *string `json:"name,omitempty"`
}

// stubService records what the handlers pass in and answers with canned values.
type stubService struct {
	items   []item
	found   *item
	err     error
	filter  db.Filter
	created *createItem
	updated *updateItem
}

func (s *stubService) List(_ context.Context, f db.Filter) ([]item, error) {
	s.filter = f
	return s.items, s.err
}
func (s *stubService) Get(context.Context, string) (*item, error) { return s.found, s.err }
func (s *stubService) Create(_ context.Context, req *createItem) (*item, error) {
	s.created = req
	return &item{Name: req.Name}, s.err
}
func (s *stubService) Update(_ context.Context, _ string, req *updateItem) (*item, error) {
	s.updated = req
	return s.found, s.err
}
func (s *stubService) Delete(context.Context, string) (*item, error) { return s.found, s.err }

func serveWith(s *stubService, opts Options, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/items", NewHandlers[item, createItem, updateItem](s, opts, logging.Discard()).RegisterRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestList_EnvelopeAndEmptyStatus(t *testing.T) {
	rec := serveWith(&stubService{items: []item{{Name: "a"}}}, Options{}, http.MethodGet, "/items", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"success","data":[{"name":"a"}]}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = serveWith(&stubService{}, Options{}, http.MethodGet, "/items", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"not found","data":null}`, rec.Body.String())

	rec = serveWith(&stubService{}, Options{EmptyListStatus: http.StatusNoContent}, http.MethodGet, "/items", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestList_FilterFromQuery(t *testing.T) {
	s := &stubService{}
	opts := Options{ListFilter: func(r *http.Request) db.Filter {
		return db.Filter{"name": r.URL.Query().Get("name")}
	}}

	serveWith(s, opts, http.MethodGet, "/items?name=x", "")
	assert.Equal(t, db.Filter{"name": "x"}, s.filter)

	s = &stubService{}
	serveWith(s, Options{}, http.MethodGet, "/items?name=x", "")
	assert.Nil(t, s.filter)
}

func TestGet_ErrorsAndAbsenceAreNoContent(t *testing.T) {
	want := `{"message":"no content","data":null}`

	rec := serveWith(&stubService{}, Options{}, http.MethodGet, "/items/1", "")
	assert.JSONEq(t, want, rec.Body.String())

	rec = serveWith(&stubService{err: apperror.NewDatabaseError("failed to find items", nil)}, Options{}, http.MethodGet, "/items/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, want, rec.Body.String())

	rec = serveWith(&stubService{found: &item{Name: "a"}}, Options{}, http.MethodGet, "/items/1", "")
	assert.JSONEq(t, `{"message":"success","data":{"name":"a"}}`, rec.Body.String())
}

func TestCreate_DecodeRules(t *testing.T) {
	s := &stubService{}
	rec := serveWith(s, Options{}, http.MethodPost, "/items", "")
	assert.Equal(t, http.StatusOK, rec.Code, "an empty body is an empty object")
	require.NotNil(t, s.created)
	assert.Empty(t, s.created.Name)

	s = &stubService{}
	rec = serveWith(s, Options{}, http.MethodPost, "/items", `{"name":"a","extra":true}`)
	assert.JSONEq(t, `{"message":"posted","data":{"name":"a"}}`, rec.Body.String())

	rec = serveWith(&stubService{}, Options{}, http.MethodPost, "/items", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request payload"}`, rec.Body.String())

	rec = serveWith(&stubService{}, Options{}, http.MethodPost, "/items", `{"ownerId":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"ownerId must be a 24 character hex object id"}`, rec.Body.String())

	big := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rec = serveWith(&stubService{}, Options{}, http.MethodPost, "/items", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_StoreErrorKeepsStatusOK(t *testing.T) {
	s := &stubService{err: apperror.NewDatabaseError("failed to insert items", nil)}

	rec := serveWith(s, Options{}, http.MethodPost, "/items", `{"name":"a"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"failed to insert items"}`, rec.Body.String())
}

func TestUpdateAndDelete_Envelopes(t *testing.T) {
	s := &stubService{found: &item{Name: "before"}}
	rec := serveWith(s, Options{}, http.MethodPatch, "/items/1", `{"name":"after"}`)
	assert.JSONEq(t, `{"message":"updated","response":{"name":"before"}}`, rec.Body.String())
	require.NotNil(t, s.updated.Name)
	assert.Equal(t, "after", *s.updated.Name)

	rec = serveWith(&stubService{}, Options{}, http.MethodPatch, "/items/1", `{}`)
	assert.JSONEq(t, `{"message":"updated","response":null}`, rec.Body.String())

	rec = serveWith(&stubService{found: &item{Name: "gone"}}, Options{}, http.MethodDelete, "/items/1", "")
	assert.JSONEq(t, `{"message":"deleted","response":{"name":"gone"}}`, rec.Body.String())

	rec = serveWith(&stubService{err: apperror.NewDatabaseError("failed to delete items", nil)}, Options{}, http.MethodDelete, "/items/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"failed to delete items"}`, rec.Body.String())
}
