package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wayfind-go/wayfind/internal/routefile"
	"github.com/wayfind-go/wayfind/pkg/bridge"
	"github.com/wayfind-go/wayfind/pkg/middleware"
	"github.com/wayfind-go/wayfind/pkg/router"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		basename string
	)

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve the WebSocket history bridge for a route table",
		Long: `Serve the history bridge. Each WebSocket connection on /ws gets its
own router instance compiled from the given route table, synchronized
with the connecting browser tab. Prometheus metrics are exposed on
/metrics.

Examples:
  wayfind serve routes.yaml
  wayfind serve routes.yaml --addr=:9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args[0], addr, basename)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringVarP(&basename, "basename", "b", "", "URL prefix applied to every route")

	return cmd
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func runServe(routesPath, addr, basename string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	prefabs, err := routefile.Load(routesPath, nil)
	if err != nil {
		return err
	}

	// Sessions outlive their upgrade request: net/http cancels the
	// request context as soon as the handler returns, so they run under
	// this server-lifetime context instead.
	sessionCtx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	mux := newServeMux(sessionCtx, prefabs, basename, logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bridge server listening", "addr", addr, "routes", routesPath)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		cancelSessions()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// newServeMux wires the bridge endpoints. sessionCtx bounds the lifetime
// of every WebSocket session accepted on /ws.
func newServeMux(sessionCtx context.Context, prefabs []router.Prefab, basename string, logger *slog.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}
		go serveSession(sessionCtx, conn, prefabs, basename, logger)
	})
	return mux
}

// serveSession runs one browser tab's router for the lifetime of its
// WebSocket connection.
func serveSession(ctx context.Context, conn *websocket.Conn, prefabs []router.Prefab, basename string, logger *slog.Logger) {
	defer conn.Close()

	browser := bridge.New(conn, bridge.Config{
		WriteTimeout: 10 * time.Second,
		Logger:       logger,
	})

	rt, err := router.New(router.Options{
		Routes:   prefabs,
		Basename: basename,
		History:  browser,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("router construction failed", "error", err)
		return
	}

	unhookMetrics := middleware.Prometheus(rt)
	defer unhookMetrics()
	unhookLogging := middleware.Logging(rt, logger)
	defer unhookLogging()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- browser.Run(runCtx) }()

	// Wait for the tab's initial location before starting navigation.
	select {
	case <-browser.Ready():
	case err := <-runErr:
		logger.Warn("connection closed before init", "error", err)
		return
	}

	if err := rt.Start(); err != nil {
		logger.Error("router start failed", "error", err)
		return
	}
	defer rt.Stop()

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session ended", "error", err)
	}
}
