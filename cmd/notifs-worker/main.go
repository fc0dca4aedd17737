package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/dbmysql"
	"GoLoyalty/internal/queue"
	"GoLoyalty/internal/wire"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "goloyalty.notifications.Worker"

func main() {
	app := &cli.App{
		Name:  "notifs-worker",
		Usage: "consume notification dispatch requests",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the dispatch consumer and the gRPC health endpoint",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("notifs-worker failed")
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := wire.InitializeApplication(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	defer app.Events.Shutdown()

	log := app.Logger
	if app.Config.Notification.Queue == queue.KindMemory {
		log.Warn("memory queue selected: this worker only sees requests published in its own process")
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", app.Config.Server.GRPCPort))
	if err != nil {
		return err
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(common.AuthInterceptor(app.Tokens)))
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", lis.Addr().String()).Info("gRPC server listening")
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
		err := app.Queue.Consume(gctx, app.Dispatch.Handle)
		healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down worker")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("worker stopped")
	return nil
}

func migrate(c *cli.Context) error {
	m, cleanup, err := wire.InitializeMigrator()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := dbmysql.Migrate(m.DB); err != nil {
		return err
	}
	m.Logger.WithField("database", m.Config.Database.DatabaseName).Info("database migration completed")
	return nil
}
