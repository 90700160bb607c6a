// Package loader performs the initial join-all load of every source. Either
// every source arrives and decodes, or the load fails as a whole.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/couchcryptid/artcc-atlas/internal/adapter/csvtable"
	geojsonadapter "github.com/couchcryptid/artcc-atlas/internal/adapter/geojson"
	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Fetcher returns the raw bytes at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Sources are the locations of every input. Overlays and Points are optional.
type Sources struct {
	Attributes string
	Regions    string
	Overlays   []string
	Points     string
}

// Layout names the fields read from the sources.
type Layout struct {
	Attributes      []string
	KeyField        string
	NameField       string
	ExternalIDField string
	PointNameField  string
}

// Loader fetches and decodes all sources concurrently.
type Loader struct {
	fetcher Fetcher
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Loader. A timeout of zero means no deadline beyond ctx.
func New(f Fetcher, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{fetcher: f, timeout: timeout, logger: logger, metrics: metrics}
}

// Load fetches every source, joins the attribute table onto the regions and
// returns the dataset. The first failure cancels the remaining fetches and is
// returned as a *domain.LoadError.
func (l *Loader) Load(ctx context.Context, src Sources, layout Layout) (*domain.Dataset, error) {
	start := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var (
		table     *domain.AttributeTable
		regions   []*domain.Region
		overlays  = make([]domain.Layer, len(src.Overlays))
		landmarks []domain.Landmark
	)

	g, gctx := errgroup.WithContext(ctx)
	l.spawn(g, gctx, "attributes", src.Attributes, func(data []byte) error {
		t, err := csvtable.Decode(data, csvtable.Layout{
			KeyField:        layout.KeyField,
			NameField:       layout.NameField,
			ExternalIDField: layout.ExternalIDField,
			Attributes:      layout.Attributes,
		})
		table = t
		return err
	})
	l.spawn(g, gctx, "regions", src.Regions, func(data []byte) error {
		r, err := geojsonadapter.DecodeRegions(data, geojsonadapter.RegionLayout{
			KeyField:        layout.KeyField,
			NameField:       layout.NameField,
			ExternalIDField: layout.ExternalIDField,
		})
		regions = r
		return err
	})
	for i, location := range src.Overlays {
		l.spawn(g, gctx, "overlay", location, func(data []byte) error {
			layer, err := geojsonadapter.DecodeLayer(layerName(location), data)
			overlays[i] = layer
			return err
		})
	}
	if src.Points != "" {
		l.spawn(g, gctx, "points", src.Points, func(data []byte) error {
			lm, err := geojsonadapter.DecodeLandmarks(data, geojsonadapter.PointLayout{
				NameField:       layout.PointNameField,
				ExternalIDField: layout.ExternalIDField,
			})
			landmarks = lm
			return err
		})
	}

	if err := g.Wait(); err != nil {
		l.metrics.LoadFailures.Inc()
		l.logger.Error("load failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	if len(regions) == 0 {
		err := &domain.LoadError{Source: src.Regions, Err: fmt.Errorf("%w: no regions", domain.ErrMalformedSource)}
		l.metrics.LoadFailures.Inc()
		l.logger.Error("load failed", "error", err, "duration", time.Since(start))
		return nil, err
	}

	ds := domain.NewDataset(table, regions, overlays, landmarks)
	l.report(ds)
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.logger.Info("dataset loaded",
		"rows", table.Len(),
		"regions", len(regions),
		"overlays", len(overlays),
		"landmarks", len(landmarks),
		"duration", time.Since(start),
	)
	return ds, nil
}

// spawn fetches location and hands the bytes to decode on its own goroutine.
func (l *Loader) spawn(g *errgroup.Group, ctx context.Context, kind, location string, decode func([]byte) error) {
	g.Go(func() error {
		if location == "" {
			return &domain.LoadError{Source: kind, Err: errors.New("no location configured")}
		}
		data, err := l.fetcher.Fetch(ctx, location)
		if err != nil {
			return &domain.LoadError{Source: location, Err: err}
		}
		if err := decode(data); err != nil {
			return &domain.LoadError{Source: location, Err: err}
		}
		l.metrics.SourcesLoaded.WithLabelValues(kind).Inc()
		l.logger.Debug("source loaded", "kind", kind, "location", location, "bytes", len(data))
		return nil
	})
}

// report logs and exports the integrity findings of the join. None of them
// stop the load: misses and parse failures render as no data.
func (l *Loader) report(ds *domain.Dataset) {
	rep := ds.Report
	l.metrics.JoinMisses.Set(float64(len(rep.Unmatched)))
	l.metrics.ParseFailures.Set(float64(len(rep.ParseFailures)))
	l.metrics.DuplicateKeys.Set(float64(len(rep.Duplicates)))

	if len(rep.Unmatched) > 0 {
		l.logger.Info("regions without attribute rows", "keys", rep.Unmatched)
	}
	if len(rep.Orphans) > 0 {
		l.logger.Info("attribute rows without regions", "keys", rep.Orphans)
	}
	for key, n := range rep.Duplicates {
		l.logger.Warn("duplicate attribute key, last row wins", "key", key, "rows", n)
	}
	for _, pf := range rep.ParseFailures {
		l.logger.Debug("unparseable attribute value", "key", pf.Key, "attribute", pf.Attribute, "raw", pf.Raw)
	}
}

func layerName(location string) string {
	base := path.Base(strings.ReplaceAll(location, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
