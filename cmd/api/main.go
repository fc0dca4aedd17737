package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"GoLoyalty/internal/queue"
	"GoLoyalty/internal/wire"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := wire.InitializeApplication(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize application")
	}
	defer cleanup()

	log := app.Logger
	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", app.Config.Server.Host, app.Config.Server.APIPort),
		Handler:        newRouter(app),
		ReadTimeout:    time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(app.Config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)

	// without a broker the API process is also the only consumer
	if app.Config.Notification.Queue == queue.KindMemory {
		g.Go(func() error {
			log.Info("consuming dispatch requests in-process")
			return app.Queue.Consume(gctx, app.Dispatch.Handle)
		})
	}

	g.Go(func() error {
		log.WithField("addr", server.Addr).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped with error")
	}

	app.Events.Shutdown()
	log.Info("server gracefully stopped")
}
