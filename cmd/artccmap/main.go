// Command artccmap loads the ARTCC boundaries and airport statistics and shows
// them as a linked choropleth and bar chart in the terminal. Hovering a center
// on either view highlights it on both; clicking opens the airport's detail
// page in the browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/couchcryptid/artcc-atlas/internal/adapter/browser"
	httpadapter "github.com/couchcryptid/artcc-atlas/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/artcc-atlas/internal/adapter/kafka"
	"github.com/couchcryptid/artcc-atlas/internal/adapter/source"
	"github.com/couchcryptid/artcc-atlas/internal/config"
	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/loader"
	"github.com/couchcryptid/artcc-atlas/internal/observability"
	"github.com/couchcryptid/artcc-atlas/internal/tui"
	"github.com/couchcryptid/artcc-atlas/internal/viewsync"
)

const rasterCacheSize = 8

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server (optional; readiness follows the coordinator).
	state := &viewerState{}
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, state, state, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	ld := loader.New(source.NewFetcher(cfg.LoadTimeout, logger), cfg.LoadTimeout, logger, metrics)
	ds, err := ld.Load(ctx, loader.Sources{
		Attributes: cfg.AttributeSource,
		Regions:    cfg.RegionSource,
		Overlays:   cfg.OverlaySources,
		Points:     cfg.PointSource,
	}, loader.Layout{
		Attributes:      cfg.Attributes,
		KeyField:        cfg.KeyField,
		NameField:       cfg.NameField,
		ExternalIDField: cfg.ExternalIDField,
		PointNameField:  cfg.PointNameField,
	})
	if err != nil {
		logger.Error("load failed", "error", err)
		fmt.Fprintf(os.Stderr, "artccmap: %v\n", err)
		shutdown(cfg, logger, srv, nil)
		return 1
	}

	sel, err := domain.NewSelection(cfg.Attributes)
	if err != nil {
		logger.Error("invalid attributes", "error", err)
		fmt.Fprintf(os.Stderr, "artccmap: %v\n", err)
		shutdown(cfg, logger, srv, nil)
		return 1
	}

	// Interaction events (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher *kafkaadapter.Publisher
	opts := viewsync.Options{
		Classes:   cfg.ClassCount,
		Palette:   domain.Palette{Colors: cfg.Palette, NoData: cfg.NoDataColor},
		Placement: tui.CellPlacement(),
		Activate:  browser.NewOpener(cfg.ActivateURL, logger).Open,
	}
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		opts.Sink = publisher
		logger.Info("interaction publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("interaction publishing disabled")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "artccmap: create screen: %v\n", err)
		shutdown(cfg, logger, srv, publisher)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "artccmap: init screen: %v\n", err)
		shutdown(cfg, logger, srv, publisher)
		return 1
	}
	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))

	w, h := screen.Size()
	view := tui.NewView(w, h)
	coord := viewsync.New(ds, sel, view, logger, metrics, opts)
	state.coord.Store(coord)

	rasters, err := tui.NewCachedRasterizer(tui.NewRasterizer(ds), rasterCacheSize)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "artccmap: %v\n", err)
		shutdown(cfg, logger, srv, publisher)
		return 1
	}

	app := tui.NewApp(screen, view, coord, rasters, tui.Options{
		Bars:        ds.Table.Len(),
		NoDataColor: cfg.NoDataColor,
	}, logger)
	runErr := app.Run(ctx)
	screen.Fini()

	logger.Info("shutting down")
	shutdown(cfg, logger, srv, publisher)
	if runErr != nil {
		logger.Error("terminal error", "error", runErr)
		fmt.Fprintf(os.Stderr, "artccmap: %v\n", runErr)
		return 1
	}
	logger.Info("shutdown complete")
	return 0
}

func shutdown(cfg *config.Config, logger *slog.Logger, srv *httpadapter.Server, publisher *kafkaadapter.Publisher) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
}

// viewerState is what the HTTP listener sees of the viewer. It reports
// not-ready until the coordinator exists and has rendered.
type viewerState struct {
	coord atomic.Pointer[viewsync.Coordinator]
}

func (s *viewerState) CheckReadiness(ctx context.Context) error {
	c := s.coord.Load()
	if c == nil {
		return errors.New("dataset not loaded")
	}
	return c.CheckReadiness(ctx)
}

func (s *viewerState) Dataset() *domain.Dataset {
	if c := s.coord.Load(); c != nil {
		return c.Dataset()
	}
	return nil
}
