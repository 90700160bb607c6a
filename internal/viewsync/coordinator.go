// Package viewsync keeps the choropleth and the bar chart in step. It owns the
// attribute-change transition, the linked hover transition and the
// activation hook; drawing is delegated to a Renderer.
package viewsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/observability"
)

// Surface names the view a hover came from.
type Surface string

const (
	SurfaceMap   Surface = "map"
	SurfaceChart Surface = "chart"
)

// ActivateFunc performs the host's navigation for an external identifier.
type ActivateFunc func(ctx context.Context, externalID string) error

// EventSink receives interaction events. Publish must not block the caller
// for long; failures are logged and counted, never surfaced to the user.
type EventSink interface {
	Publish(ctx context.Context, event domain.InteractionEvent) error
}

// Options tunes the coordinator. Zero fields fall back to DefaultOptions.
type Options struct {
	Classes     int
	Palette     domain.Palette
	Axis        domain.AxisPolicy
	TickCount   int
	Frame       ChartFrame
	Placement   domain.LabelPlacement
	TitleFormat string // fmt verb %s receives the attribute name

	Activate ActivateFunc
	Sink     EventSink
}

// DefaultOptions returns the page defaults: seven GnBu classes, the soft axis
// heuristic and pixel label placement.
func DefaultOptions() Options {
	return Options{
		Classes:     domain.DefaultClassCount,
		Palette:     domain.DefaultPalette(),
		Axis:        domain.DefaultAxisPolicy(),
		TickCount:   5,
		Frame:       DefaultChartFrame(),
		Placement:   domain.DefaultLabelPlacement(),
		TitleFormat: "%s per Airport",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Classes < 1 {
		o.Classes = d.Classes
	}
	if len(o.Palette.Colors) == 0 {
		o.Palette = d.Palette
	}
	if o.Axis == (domain.AxisPolicy{}) {
		o.Axis = d.Axis
	}
	if o.TickCount < 1 {
		o.TickCount = d.TickCount
	}
	if o.Frame == (ChartFrame{}) {
		o.Frame = d.Frame
	}
	if o.Placement == (domain.LabelPlacement{}) {
		o.Placement = d.Placement
	}
	if o.TitleFormat == "" {
		o.TitleFormat = d.TitleFormat
	}
	return o
}

// Coordinator synchronizes the views over one loaded dataset. All handlers
// must be called from a single goroutine; only CheckReadiness is safe to call
// concurrently.
type Coordinator struct {
	dataset   *domain.Dataset
	selection *domain.Selection
	renderer  Renderer
	styles    *domain.StyleBook
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	started   bool

	scale *domain.QuantileScale
	axis  domain.AxisRange
	rows  []domain.AttributeRow // bar order, carried across transitions
	bars  []BarGeometry

	hovering bool
	hovered  string
	pointer  domain.Point
	label    domain.Label
}

// New creates a Coordinator. Nothing is drawn until Start.
func New(ds *domain.Dataset, sel *domain.Selection, r Renderer, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Coordinator {
	return &Coordinator{
		dataset:   ds,
		selection: sel,
		renderer:  r,
		styles:    domain.NewStyleBook(),
		opts:      opts.withDefaults(),
		logger:    logger,
		metrics:   metrics,
		rows:      slices.Clone(ds.Table.Rows()),
	}
}

// Start records every element's styles, subscribes to the selection and
// renders the initially expressed attribute.
func (c *Coordinator) Start() error {
	if c.started {
		return errors.New("coordinator already started")
	}
	c.started = true

	for _, r := range c.dataset.Regions.Regions() {
		c.styles.Register(domain.ElementRegion, r.Key, domain.ElementStyle{Base: domain.DefaultRegionOutline, Hover: domain.DefaultHoverOutline})
	}
	for _, row := range c.rows {
		c.styles.Register(domain.ElementBar, row.Key, domain.ElementStyle{Base: domain.DefaultBarOutline, Hover: domain.DefaultHoverOutline})
	}

	c.selection.Subscribe(c.onSelectionChanged)
	c.applyAttribute(c.selection.Expressed())

	c.ready.Store(true)
	c.metrics.DatasetReady.Set(1)
	c.logger.Info("views ready",
		"regions", c.dataset.Regions.Len(),
		"rows", c.dataset.Table.Len(),
		"attribute", c.selection.Expressed(),
	)
	return nil
}

// CheckReadiness returns nil once the views have been rendered.
func (c *Coordinator) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("views have not been rendered yet")
	}
	return nil
}

// OnSelect handles the attribute selector. Unknown attributes are rejected
// with domain.ErrInvalidSelection and nothing is re-rendered.
func (c *Coordinator) OnSelect(ctx context.Context, attribute string) error {
	if err := c.selection.Set(attribute); err != nil {
		c.metrics.InvalidSelections.Inc()
		c.logger.Warn("selection rejected", "attribute", attribute, "error", err)
		return err
	}
	c.publish(ctx, domain.NewSelectEvent(attribute))
	return nil
}

func (c *Coordinator) onSelectionChanged(previous, current string) {
	c.logger.Debug("attribute changed", "from", previous, "to", current)
	c.metrics.SelectionChanges.WithLabelValues(current).Inc()
	c.applyAttribute(current)
}

// applyAttribute is the attribute-change transition. It derives everything
// from the rows and the attribute, so replaying it redraws the same output.
func (c *Coordinator) applyAttribute(attr string) {
	start := time.Now()

	c.scale = domain.BuildScale(c.dataset.Table.Rows(), attr, c.opts.Classes)
	c.renderer.RenderRegions(c.regionFills(attr))

	domain.SortDescending(c.rows, func(r domain.AttributeRow) float64 { return r.Value(attr) })
	c.axis = domain.ComputeAxisRange(c.dataset.Table.Values(attr), c.opts.Axis)
	c.layoutBars(attr)
	c.renderer.RenderBars(c.bars)
	c.renderer.RenderAxis(LayoutAxis(c.opts.Frame, c.axis, c.opts.TickCount))
	c.renderer.RenderTitle(c.Title())

	if c.hovering {
		if label, ok := c.labelFor(c.hovered); ok {
			c.label = label
			c.renderer.ShowLabel(label, c.placeLabel())
		}
	}

	c.metrics.RenderDuration.Observe(time.Since(start).Seconds())
}

func (c *Coordinator) regionFills(attr string) []RegionFill {
	regions := c.dataset.Regions.Regions()
	fills := make([]RegionFill, len(regions))
	for i, r := range regions {
		v := r.Value(attr)
		class := c.scale.Classify(v)
		outline, _ := c.styles.Current(domain.ElementRegion, r.Key)
		fills[i] = RegionFill{
			Key:     r.Key,
			Value:   v,
			Class:   class,
			Color:   c.opts.Palette.Color(class),
			Outline: outline,
		}
	}
	return fills
}

func (c *Coordinator) layoutBars(attr string) {
	bars := make([]BarGeometry, len(c.rows))
	for i, row := range c.rows {
		v := row.Value(attr)
		class := c.scale.Classify(v)
		outline, _ := c.styles.Current(domain.ElementBar, row.Key)
		name := row.Name
		if r, ok := c.dataset.Regions.Lookup(row.Key); ok && r.DisplayName != "" {
			name = r.DisplayName
		}
		bars[i] = BarGeometry{
			Key:         row.Key,
			DisplayName: name,
			Value:       v,
			Class:       class,
			Color:       c.opts.Palette.Color(class),
			Outline:     outline,
		}
	}
	LayoutBars(c.opts.Frame, c.axis, bars)
	c.bars = bars
}

// Resize re-lays out the chart for a new frame without touching the map.
func (c *Coordinator) Resize(frame ChartFrame) {
	c.opts.Frame = frame
	if !c.started {
		return
	}
	attr := c.selection.Expressed()
	c.layoutBars(attr)
	c.renderer.RenderBars(c.bars)
	c.renderer.RenderAxis(LayoutAxis(c.opts.Frame, c.axis, c.opts.TickCount))
	if c.hovering {
		c.renderer.MoveLabel(c.placeLabel())
	}
}

// OnHoverEnter highlights every element sharing key and shows its label. An
// enter for a new key while another is hovered leaves the old key first.
func (c *Coordinator) OnHoverEnter(key string, surface Surface, at domain.Point) {
	if c.hovering && c.hovered == key {
		c.OnHoverMove(at)
		return
	}
	if c.hovering {
		c.OnHoverLeave(c.hovered)
	}

	label, ok := c.labelFor(key)
	if !ok {
		c.logger.Debug("hover on unknown key", "key", key, "surface", surface)
		return
	}
	c.hovering, c.hovered, c.pointer, c.label = true, key, at, label

	c.renderer.RenderOutlines(c.styles.Highlight(key))
	c.renderer.ShowLabel(label, c.placeLabel())
	c.metrics.HoverEnters.WithLabelValues(string(surface)).Inc()
}

// OnHoverMove keeps the label next to the pointer.
func (c *Coordinator) OnHoverMove(at domain.Point) {
	if !c.hovering {
		return
	}
	c.pointer = at
	c.renderer.MoveLabel(c.placeLabel())
}

// OnHoverLeave restores the recorded outlines of key and removes the label.
// A leave for a key that is not hovered is ignored.
func (c *Coordinator) OnHoverLeave(key string) {
	if !c.hovering || c.hovered != key {
		return
	}
	c.hovering = false
	c.hovered = ""
	c.renderer.RenderOutlines(c.styles.Restore(key))
	c.renderer.HideLabel()
}

// OnActivate hands the external identifier of key to the host. Keys without
// one do not activate.
func (c *Coordinator) OnActivate(ctx context.Context, key string) error {
	id := c.externalID(key)
	if id == "" {
		c.logger.Debug("activation without external id", "key", key)
		return nil
	}
	return c.activate(ctx, key, id)
}

// OnActivateLandmark activates a point feature such as an airport marker.
func (c *Coordinator) OnActivateLandmark(ctx context.Context, lm domain.Landmark) error {
	if lm.ExternalID == "" {
		return nil
	}
	return c.activate(ctx, lm.Name, lm.ExternalID)
}

func (c *Coordinator) activate(ctx context.Context, key, externalID string) error {
	if c.opts.Activate == nil {
		return nil
	}
	if err := c.opts.Activate(ctx, externalID); err != nil {
		c.logger.Warn("activation failed", "key", key, "external_id", externalID, "error", err)
		return fmt.Errorf("activate %s: %w", key, err)
	}
	c.metrics.Activations.Inc()
	c.logger.Info("activated", "key", key, "external_id", externalID)
	c.publish(ctx, domain.NewActivateEvent(c.selection.Expressed(), key, externalID))
	return nil
}

func (c *Coordinator) publish(ctx context.Context, ev domain.InteractionEvent) {
	if c.opts.Sink == nil {
		return
	}
	if err := c.opts.Sink.Publish(ctx, ev); err != nil {
		c.metrics.PublishErrors.Inc()
		c.logger.Warn("publish interaction failed", "type", ev.Type, "error", err)
	}
}

func (c *Coordinator) labelFor(key string) (domain.Label, bool) {
	attr := c.selection.Expressed()
	if r, ok := c.dataset.Regions.Lookup(key); ok {
		name := r.DisplayName
		if name == "" {
			if row, ok := c.dataset.Table.Lookup(key); ok {
				name = row.Name
			}
		}
		return domain.Label{Key: key, DisplayName: name, Attribute: attr, Value: r.Value(attr)}, true
	}
	if row, ok := c.dataset.Table.Lookup(key); ok {
		return domain.Label{Key: key, DisplayName: row.Name, Attribute: attr, Value: row.Value(attr)}, true
	}
	return domain.Label{}, false
}

func (c *Coordinator) externalID(key string) string {
	if r, ok := c.dataset.Regions.Lookup(key); ok && r.ExternalID != "" {
		return r.ExternalID
	}
	if row, ok := c.dataset.Table.Lookup(key); ok {
		return row.ExternalID
	}
	return ""
}

func (c *Coordinator) placeLabel() domain.Point {
	size := c.renderer.LabelSize(c.label)
	return c.opts.Placement.Place(c.pointer, size, c.renderer.Viewport())
}

// Title is the chart title for the expressed attribute.
func (c *Coordinator) Title() string {
	return fmt.Sprintf(c.opts.TitleFormat, c.selection.Expressed())
}

// Dataset returns the dataset the views were built from. It is not modified
// after New, so other goroutines may read it.
func (c *Coordinator) Dataset() *domain.Dataset { return c.dataset }

// Expressed returns the currently expressed attribute.
func (c *Coordinator) Expressed() string { return c.selection.Expressed() }

// Attributes returns the selectable attributes in order.
func (c *Coordinator) Attributes() []string { return c.selection.Attributes() }

// Hovered returns the hovered key, if any.
func (c *Coordinator) Hovered() (string, bool) { return c.hovered, c.hovering }

// Bars returns the bar layout of the last transition, in rank order.
func (c *Coordinator) Bars() []BarGeometry { return c.bars }

// Axis returns the axis range of the last transition.
func (c *Coordinator) Axis() domain.AxisRange { return c.axis }

// Classify classifies v under the current scale.
func (c *Coordinator) Classify(v float64) domain.Class { return c.scale.Classify(v) }

// LegendEntry describes one class swatch. Lower is the smallest value the
// class admits; for the first class that is the distribution minimum.
type LegendEntry struct {
	Class domain.Class
	Color string
	Lower float64
}

// Legend returns one entry per class of the current scale. It is empty when
// the expressed attribute has no defined values.
func (c *Coordinator) Legend() []LegendEntry {
	if c.scale == nil || c.scale.Defined() == 0 {
		return nil
	}
	lowest := math.Inf(1)
	for _, v := range c.dataset.Table.Values(c.selection.Expressed()) {
		if !domain.IsMissing(v) {
			lowest = math.Min(lowest, v)
		}
	}
	thresholds := c.scale.Thresholds()
	entries := make([]LegendEntry, c.scale.Classes())
	for i := range entries {
		lower := lowest
		if i > 0 {
			lower = thresholds[i-1]
		}
		entries[i] = LegendEntry{Class: domain.Class(i), Color: c.opts.Palette.Color(domain.Class(i)), Lower: lower}
	}
	return entries
}
