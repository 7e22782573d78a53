package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	// `chi/cors` provides CORS (Cross-Origin Resource Sharing) middleware.
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/may15-go/apperror"
	"github.com/user/may15-go/blogs"
	"github.com/user/may15-go/config"
	"github.com/user/may15-go/db"
	_ "github.com/user/may15-go/docs" // Generated Swagger docs
	"github.com/user/may15-go/logging"
	"github.com/user/may15-go/resource"
	"github.com/user/may15-go/tags"
	"github.com/user/may15-go/users"
)

const (
	requestTimeout = 60 * time.Second
	pingTimeout    = 5 * time.Second
)

// serve opens the store, mounts the API and blocks until ctx is cancelled.
// A store that cannot be opened or reached is logged, not fatal: the listener starts
// anyway and requests report store failures in their response bodies.
func serve(ctx context.Context, cfg *config.AppConfig, log logging.Logger) error {
	gw := openStore(ctx, cfg.Store, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := gw.Close(closeCtx); err != nil {
			log.Warn(closeCtx, "store close failed", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(gw, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info(ctx, "server shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info(shutdownCtx, "server stopped gracefully")
	return nil
}

// openStore opens and pings the configured store and runs postgres migrations.
// When the store cannot be opened, the returned gateway fails every call with the open error.
func openStore(ctx context.Context, cfg *config.StoreConfig, log logging.Logger) db.Gateway {
	driver, _ := cfg.Driver()
	gw, err := db.Open(ctx, cfg)
	if err != nil {
		log.Error(ctx, "store unavailable", "driver", driver, "error", err)
		return db.NewUnavailableGateway(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	if err := gw.Ping(pingCtx); err != nil {
		log.Error(ctx, "store unreachable", "driver", driver, "error", err)
	} else {
		log.Info(ctx, "store connected", "driver", driver)
	}
	cancel()

	if driver == config.DriverPostgres {
		if err := db.RunMigrations(cfg.ConnectionURI()); err != nil {
			log.Error(ctx, "migrations failed", "error", err)
		}
	}
	return gw
}

// newRouter wires middleware and the three resource route groups.
func newRouter(gw db.Gateway, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(log))
	r.Use(recoverPanics(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handleHealth(gw))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	tagHandlers := tags.NewTagHandlers(tags.NewTagService(gw), log)
	userHandlers := users.NewUserHandlers(users.NewUserService(gw), log)
	blogHandlers := blogs.NewBlogHandlers(blogs.NewBlogService(gw), log)

	r.Route("/api/tags", tagHandlers.RegisterRoutes)
	r.Route("/api/users", userHandlers.RegisterRoutes)
	r.Route("/api/blogs", blogHandlers.RegisterRoutes)

	return r
}

// recoverPanics turns a handler panic into 500 {"error":"internal server error"}.
func recoverPanics(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Error(r.Context(), "panic", "value", fmt.Sprintf("%+v", rvr), "path", r.URL.Path)
				appErr := apperror.NewInternalError("internal server error", nil)
				resource.WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// handleHealth godoc
// @Summary Report store reachability
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /healthz [get]
func handleHealth(gw db.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := gw.Ping(ctx); err != nil {
			resource.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
		resource.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
