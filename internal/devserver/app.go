// Package devserver runs a small local backend for trying the client: login,
// the upload policy and presigned uploads into an S3-compatible bucket.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/study-upc/studyclient/internal/devserver/config"
	"github.com/study-upc/studyclient/internal/devserver/httpapi"
	"github.com/study-upc/studyclient/internal/devserver/storage"
	"github.com/study-upc/studyclient/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	presigner, err := storage.NewS3Presigner(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	return newApp(c, logger, presigner), nil
}

func newApp(c *config.Config, logger logging.Logger, presigner storage.Presigner) *App {
	gin.SetMode(gin.ReleaseMode)
	h := httpapi.NewHandler(c, presigner, logger)

	return &App{
		config: c,
		logger: logger,
		server: &http.Server{
			Addr:              c.ListenAddr,
			Handler:           httpapi.NewRouter(h, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts the server down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	return app.serve(ctx)
}

func (app *App) serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting dev server", "addr", app.server.Addr, "base_path", app.config.BasePath)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
