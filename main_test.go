package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/user/may15-go/config"
	"github.com/user/may15-go/db"
	"github.com/user/may15-go/logging"
)

type downGateway struct{ *db.MemoryGateway }

func (downGateway) Ping(context.Context) error { return errors.New("server selection timeout") }

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(db.NewMemoryGateway(), logging.Discard()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_HealthReportsUnreachableStore(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(downGateway{db.NewMemoryGateway()}, logging.Discard()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","error":"server selection timeout"}`, rec.Body.String())
}

func TestRouter_MountsAllResources(t *testing.T) {
	h := newRouter(db.NewMemoryGateway(), logging.Discard())

	cases := map[string]int{
		"/api/tags":  http.StatusNoContent,
		"/api/users": http.StatusOK,
		"/api/blogs": http.StatusOK,
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, want, rec.Code)
		})
	}
}

func TestRouter_CORSAllowsPatch(t *testing.T) {
	h := newRouter(db.NewMemoryGateway(), logging.Discard())

	req := httptest.NewRequest(http.MethodOptions, "/api/tags/6644b1f2c3d4e5f607182930", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestRouter_EndToEndTagScenario(t *testing.T) {
	srv := httptest.NewServer(newRouter(db.NewMemoryGateway(), logging.Discard()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/tags", "application/json", strings.NewReader(`{"title":"sport"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/tags?title=sport")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/tags?title=history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRecoverPanics(t *testing.T) {
	h := recoverPanics(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestApp_Commands(t *testing.T) {
	app := newApp()

	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, app.Action)
}

// A password with URI delimiters breaks a mongo connection template.
func brokenMongoStore() *config.StoreConfig {
	return &config.StoreConfig{
		ConnectionTemplate: "mongodb://admin:" + config.PasswordPlaceholder + "@localhost:27017/app",
		Password:           "p@ss:w/rd",
	}
}

func TestOpenStore_OpenFailureStillServes(t *testing.T) {
	gw := openStore(context.Background(), brokenMongoStore(), logging.Discard())
	require.IsType(t, &db.UnavailableGateway{}, gw)
	h := newRouter(gw, logging.Discard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed to find tags", body.Error)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags/64b7f0c2a1b2c3d4e5f60718", nil))
	assert.JSONEq(t, `{"message":"no content","data":null}`, rec.Body.String())
}

func TestServe_ListensWhenStoreCannotOpen(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cfg := &config.AppConfig{
		Store:  brokenMongoStore(),
		Server: &config.ServerConfig{Port: "0", ShutdownTimeout: 5 * time.Second},
		Log:    &config.LogConfig{Level: "info", Format: "json"},
	}
	assert.NoError(t, serve(ctx, cfg, logging.Discard()))
}

func TestLoadConfig_ConfigErrorsExitWithConfigCode(t *testing.T) {
	t.Setenv("CONNECTION_STRING", "")
	t.Setenv("PORT", "8080")

	_, err := loadConfig()
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitCodeConfig, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "CONNECTION_STRING")
}
