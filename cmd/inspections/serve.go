package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inspections/internal/db"
	"inspections/internal/edge"
	"inspections/internal/inspection"
	"inspections/internal/report"
	"inspections/internal/server"
	"inspections/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start one of the HTTP services",
	Subcommands: []*cli.Command{
		{
			Name:   "inspection-api",
			Usage:  "Inspection CRUD and presigned image URLs",
			Action: serveInspectionAPI,
		},
		{
			Name:   "report-service",
			Usage:  "Report generation and retrieval",
			Action: serveReportService,
		},
		{
			Name:   "frontend",
			Usage:  "Edge router: API proxy and static client",
			Action: serveFrontend,
		},
	},
}

func serveInspectionAPI(cCtx *cli.Context) error {
	const name = "inspection-api"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx, inspectionAPIPort)
	if err != nil {
		return err
	}
	if err := requireDatabase(config); err != nil {
		return err
	}
	logger := newLogger(config, name)

	handles, err := db.ConnectHandles(ctx, dbOptions(config), config.DatabaseReadURL)
	if err != nil {
		return err
	}
	defer handles.Close()

	presigner, err := newPresigner(ctx, config)
	if err != nil {
		return err
	}

	service := inspection.NewService(
		logger,
		store.NewInspectionRepository(handles.Primary),
		store.NewImageRepository(handles.Primary),
		presigner,
	)

	srv := server.New(
		name,
		config,
		logger,
		&server.Health{Service: name, Pinger: handles.Primary, Logger: logger},
		inspection.NewHandlers(logger, service),
	)

	return run(ctx, logger, srv, config.ServerPort)
}

func serveReportService(cCtx *cli.Context) error {
	const name = "report-service"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx, reportServicePort)
	if err != nil {
		return err
	}
	if err := requireDatabase(config); err != nil {
		return err
	}
	logger := newLogger(config, name)

	handles, err := db.ConnectHandles(ctx, dbOptions(config), config.DatabaseReadURL)
	if err != nil {
		return err
	}
	defer handles.Close()

	primaryInspections := store.NewInspectionRepository(handles.Primary)
	primary := report.Source{
		Inspections: primaryInspections,
		Images:      store.NewImageRepository(handles.Primary),
	}
	replica := report.Source{
		Inspections: store.NewInspectionRepository(handles.Replica),
		Images:      store.NewImageRepository(handles.Replica),
	}

	service := report.NewService(logger, primary, replica, primaryInspections)

	srv := server.New(
		name,
		config,
		logger,
		&server.Health{Service: name, Pinger: handles.Primary, Logger: logger},
		report.NewHandlers(logger, service, config.HasReplica()),
	)

	return run(ctx, logger, srv, config.ServerPort)
}

func serveFrontend(cCtx *cli.Context) error {
	const name = "frontend"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx, frontendPort)
	if err != nil {
		return err
	}
	logger := newLogger(config, name)

	router, err := edge.New(logger, edge.Options{
		InspectionAPIURL: config.InspectionAPIURL,
		ReportAPIURL:     config.ReportAPIURL,
		StaticDir:        config.StaticDir,
	})
	if err != nil {
		return err
	}

	srv := server.New(
		name,
		config,
		logger,
		&server.Health{Service: name, Logger: logger},
		router,
	)

	return run(ctx, logger, srv, config.ServerPort)
}

func run(ctx context.Context, logger *logrus.Logger, srv *server.Service, port uint) error {
	errs := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"service": srv.Name(),
			"port":    port,
		}).Infof("server starting http://localhost:%d", port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.WithField("service", srv.Name()).Info("shutdown signal received")
	case err := <-errs:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
