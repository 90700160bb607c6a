package viewsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	attrPassengers = "Million Passengers Departed"
	attrCargo      = "Million Pounds of Cargo"
)

type outlineID struct {
	kind domain.ElementKind
	key  string
}

// recordingRenderer keeps the latest state of everything drawn.
type recordingRenderer struct {
	fills    []RegionFill
	bars     []BarGeometry
	axis     AxisFrame
	title    string
	outlines map[outlineID]domain.Outline
	renders  int

	label        domain.Label
	labelAt      domain.Point
	labelVisible bool
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{outlines: make(map[outlineID]domain.Outline)}
}

func (r *recordingRenderer) RenderRegions(fills []RegionFill) {
	r.renders++
	r.fills = fills
	for _, f := range fills {
		r.outlines[outlineID{domain.ElementRegion, f.Key}] = f.Outline
	}
}

func (r *recordingRenderer) RenderBars(bars []BarGeometry) {
	r.bars = bars
	for _, b := range bars {
		r.outlines[outlineID{domain.ElementBar, b.Key}] = b.Outline
	}
}

func (r *recordingRenderer) RenderAxis(axis AxisFrame) { r.axis = axis }
func (r *recordingRenderer) RenderTitle(title string)  { r.title = title }

func (r *recordingRenderer) RenderOutlines(changed []domain.StyledElement) {
	for _, el := range changed {
		r.outlines[outlineID{el.Kind, el.Key}] = el.Outline
	}
}

func (r *recordingRenderer) ShowLabel(label domain.Label, at domain.Point) {
	r.label, r.labelAt, r.labelVisible = label, at, true
}

func (r *recordingRenderer) MoveLabel(at domain.Point) { r.labelAt = at }
func (r *recordingRenderer) HideLabel()                { r.labelVisible = false }

func (r *recordingRenderer) LabelSize(domain.Label) domain.Size { return domain.Size{W: 200, H: 100} }
func (r *recordingRenderer) Viewport() domain.Size              { return domain.Size{W: 1000, H: 800} }

type recordingSink struct {
	events []domain.InteractionEvent
	err    error
}

func (s *recordingSink) Publish(_ context.Context, ev domain.InteractionEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func attributeRow(key, name, icao string, passengers, cargo string) domain.AttributeRow {
	raw := map[string]string{attrPassengers: passengers, attrCargo: cargo}
	values := make(map[string]float64, len(raw))
	for k, v := range raw {
		values[k] = domain.ParseValue(v)
	}
	return domain.AttributeRow{Key: key, Name: name, ExternalID: icao, Values: values, Raw: raw}
}

// testDataset has one orphan row (ZBW) and one unmatched region (ZXX). Table
// order differs from the passenger ranking so tie handling is observable.
func testDataset() *domain.Dataset {
	table := domain.NewAttributeTable([]string{attrPassengers, attrCargo}, []domain.AttributeRow{
		attributeRow("ZBW", "Boston", "KBOS", "20", "1.9"),
		attributeRow("ZAU", "Chicago", "KORD", "38.2", "1.9"),
		attributeRow("ZNY", "New York", "KJFK", "49.35", "2.72"),
	})
	regions := []*domain.Region{{Key: "ZAU"}, {Key: "ZNY"}, {Key: "ZXX"}}
	return domain.NewDataset(table, regions, nil, nil)
}

type fixture struct {
	coord    *Coordinator
	renderer *recordingRenderer
	metrics  *observability.Metrics
	sink     *recordingSink
	opened   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sel, err := domain.NewSelection([]string{attrPassengers, attrCargo})
	require.NoError(t, err)

	f := &fixture{
		renderer: newRecordingRenderer(),
		metrics:  observability.NewMetricsForTesting(),
		sink:     &recordingSink{},
	}
	opts := DefaultOptions()
	opts.Sink = f.sink
	opts.Activate = func(_ context.Context, externalID string) error {
		f.opened = append(f.opened, externalID)
		return nil
	}
	f.coord = New(testDataset(), sel, f.renderer, discardLogger(), f.metrics, opts)
	require.NoError(t, f.coord.Start())
	return f
}

func classesOf(fills []RegionFill) map[string]domain.Class {
	out := make(map[string]domain.Class, len(fills))
	for _, f := range fills {
		out[f.Key] = f.Class
	}
	return out
}

func barKeys(bars []BarGeometry) []string {
	out := make([]string, len(bars))
	for i, b := range bars {
		out[i] = b.Key
	}
	return out
}

func TestCoordinator_CheckReadiness(t *testing.T) {
	sel, err := domain.NewSelection([]string{attrPassengers})
	require.NoError(t, err)
	m := observability.NewMetricsForTesting()
	c := New(testDataset(), sel, newRecordingRenderer(), discardLogger(), m, Options{})

	require.Error(t, c.CheckReadiness(context.Background()))
	require.NoError(t, c.Start())
	require.NoError(t, c.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetReady))
	require.Error(t, c.Start(), "second start")
}

func TestCoordinator_StartRendersExpressedAttribute(t *testing.T) {
	f := newFixture(t)
	r := f.renderer

	assert.Equal(t, "Million Passengers Departed per Airport", r.title)
	assert.Equal(t, map[string]domain.Class{"ZAU": 3, "ZNY": 6, "ZXX": domain.NoData}, classesOf(r.fills))
	for _, fill := range r.fills {
		assert.Equal(t, domain.DefaultRegionOutline, fill.Outline)
		if fill.Key == "ZXX" {
			assert.Equal(t, "#cccccc", fill.Color)
		}
	}

	assert.Equal(t, []string{"ZNY", "ZAU", "ZBW"}, barKeys(r.bars))
	assert.Equal(t, "Chicago", r.bars[1].DisplayName)
	assert.InDelta(t, 17.5325, r.axis.Range.Lower, 1e-9)
	assert.Equal(t, 52.0, r.axis.Range.Upper)
	require.NotEmpty(t, r.axis.Ticks)
	for _, tick := range r.axis.Ticks {
		assert.GreaterOrEqual(t, tick.Value, r.axis.Range.Lower)
		assert.LessOrEqual(t, tick.Value, r.axis.Range.Upper)
	}
}

func TestCoordinator_BarGeometry(t *testing.T) {
	f := newFixture(t)
	frame := DefaultChartFrame()
	slot := frame.PlotWidth() / 3

	for i, bar := range f.renderer.bars {
		assert.Equal(t, i, bar.Rank)
		assert.InDelta(t, float64(i)*slot+frame.Left, bar.X, 1e-9)
		assert.InDelta(t, slot-frame.BarGap, bar.Width, 1e-9)
		assert.InDelta(t, frame.Top+frame.PlotHeight(), bar.Y+bar.Height, 1e-9)
	}
	assert.Greater(t, f.renderer.bars[0].Height, f.renderer.bars[1].Height)
}

func TestCoordinator_AttributeRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := classesOf(f.renderer.fills)
	beforeBars := barKeys(f.renderer.bars)
	beforeAxis := f.renderer.axis

	require.NoError(t, f.coord.OnSelect(ctx, attrCargo))
	assert.Equal(t, "Million Pounds of Cargo per Airport", f.renderer.title)
	// ZAU and ZBW tie on cargo and keep their passenger-ranked order.
	assert.Equal(t, []string{"ZNY", "ZAU", "ZBW"}, barKeys(f.renderer.bars))

	require.NoError(t, f.coord.OnSelect(ctx, attrPassengers))
	assert.Equal(t, before, classesOf(f.renderer.fills))
	assert.Equal(t, beforeBars, barKeys(f.renderer.bars))
	assert.Equal(t, beforeAxis, f.renderer.axis)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SelectionChanges.WithLabelValues(attrCargo)))
}

func TestCoordinator_RepeatSelectionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	before := classesOf(f.renderer.fills)
	renders := f.renderer.renders

	require.NoError(t, f.coord.OnSelect(context.Background(), attrPassengers))

	assert.Equal(t, renders+1, f.renderer.renders)
	assert.Equal(t, before, classesOf(f.renderer.fills))
}

func TestCoordinator_InvalidSelection(t *testing.T) {
	f := newFixture(t)
	renders := f.renderer.renders

	err := f.coord.OnSelect(context.Background(), "Runway Length")

	require.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, attrPassengers, f.coord.Expressed())
	assert.Equal(t, renders, f.renderer.renders)
	assert.Empty(t, f.sink.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.InvalidSelections))
}

func TestCoordinator_HoverRestoresRecordedOutlines(t *testing.T) {
	f := newFixture(t)
	r := f.renderer

	f.coord.OnHoverEnter("ZAU", SurfaceMap, domain.Point{X: 100, Y: 300})

	assert.Equal(t, domain.DefaultHoverOutline, r.outlines[outlineID{domain.ElementRegion, "ZAU"}])
	assert.Equal(t, domain.DefaultHoverOutline, r.outlines[outlineID{domain.ElementBar, "ZAU"}])
	assert.Equal(t, domain.DefaultRegionOutline, r.outlines[outlineID{domain.ElementRegion, "ZNY"}])
	require.True(t, r.labelVisible)
	assert.Equal(t, domain.Label{Key: "ZAU", DisplayName: "Chicago", Attribute: attrPassengers, Value: 38.2}, r.label)
	assert.Equal(t, domain.Point{X: 110, Y: 225}, r.labelAt)

	f.coord.OnHoverMove(domain.Point{X: 900, Y: 50})
	assert.Equal(t, domain.Point{X: 690, Y: 75}, r.labelAt)

	f.coord.OnHoverLeave("ZAU")

	assert.Equal(t, domain.DefaultRegionOutline, r.outlines[outlineID{domain.ElementRegion, "ZAU"}])
	assert.Equal(t, domain.DefaultBarOutline, r.outlines[outlineID{domain.ElementBar, "ZAU"}])
	assert.False(t, r.labelVisible)
	_, hovering := f.coord.Hovered()
	assert.False(t, hovering)
}

func TestCoordinator_HoverEnterLeavesPreviousKey(t *testing.T) {
	f := newFixture(t)
	r := f.renderer

	f.coord.OnHoverEnter("ZAU", SurfaceMap, domain.Point{X: 100, Y: 300})
	f.coord.OnHoverEnter("ZNY", SurfaceChart, domain.Point{X: 120, Y: 300})

	assert.Equal(t, domain.DefaultRegionOutline, r.outlines[outlineID{domain.ElementRegion, "ZAU"}])
	assert.Equal(t, domain.DefaultBarOutline, r.outlines[outlineID{domain.ElementBar, "ZAU"}])
	assert.Equal(t, domain.DefaultHoverOutline, r.outlines[outlineID{domain.ElementBar, "ZNY"}])
	assert.Equal(t, "ZNY", r.label.Key)

	// A stale leave for the old key changes nothing.
	f.coord.OnHoverLeave("ZAU")
	key, hovering := f.coord.Hovered()
	assert.True(t, hovering)
	assert.Equal(t, "ZNY", key)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HoverEnters.WithLabelValues("chart")))
}

func TestCoordinator_HoverOnBarOnlyKeyAndUnknownKey(t *testing.T) {
	f := newFixture(t)

	f.coord.OnHoverEnter("ZBW", SurfaceChart, domain.Point{X: 100, Y: 300})
	assert.Equal(t, "Boston", f.renderer.label.DisplayName)
	f.coord.OnHoverLeave("ZBW")

	f.coord.OnHoverEnter("ZZZ", SurfaceMap, domain.Point{X: 100, Y: 300})
	assert.False(t, f.renderer.labelVisible)
}

func TestCoordinator_HoverSurvivesAttributeChange(t *testing.T) {
	f := newFixture(t)
	f.coord.OnHoverEnter("ZNY", SurfaceMap, domain.Point{X: 100, Y: 300})

	require.NoError(t, f.coord.OnSelect(context.Background(), attrCargo))

	assert.Equal(t, attrCargo, f.renderer.label.Attribute)
	assert.Equal(t, 2.72, f.renderer.label.Value)
	for _, fill := range f.renderer.fills {
		if fill.Key == "ZNY" {
			assert.Equal(t, domain.DefaultHoverOutline, fill.Outline)
		}
	}

	f.coord.OnHoverLeave("ZNY")
	assert.Equal(t, domain.DefaultRegionOutline, f.renderer.outlines[outlineID{domain.ElementRegion, "ZNY"}])
}

func TestCoordinator_UnmatchedRegionLabelShowsNoData(t *testing.T) {
	f := newFixture(t)

	f.coord.OnHoverEnter("ZXX", SurfaceMap, domain.Point{X: 100, Y: 300})

	assert.Equal(t, "No data", f.renderer.label.ValueText())
}

func TestCoordinator_Activate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.coord.OnActivate(ctx, "ZAU"))
	require.NoError(t, f.coord.OnActivate(ctx, "ZXX"))
	require.NoError(t, f.coord.OnActivateLandmark(ctx, domain.Landmark{Name: "Denver", ExternalID: "KDEN"}))

	assert.Equal(t, []string{"KORD", "KDEN"}, f.opened)
	require.Len(t, f.sink.events, 2)
	assert.Equal(t, domain.InteractionActivate, f.sink.events[0].Type)
	assert.Equal(t, "ZAU", f.sink.events[0].Key)
	assert.Equal(t, attrPassengers, f.sink.events[0].Attribute)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Activations))
}

func TestCoordinator_ActivateFailure(t *testing.T) {
	f := newFixture(t)
	f.coord.opts.Activate = func(context.Context, string) error { return errors.New("no browser") }

	err := f.coord.OnActivate(context.Background(), "ZNY")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no browser")
	assert.Empty(t, f.sink.events)
}

func TestCoordinator_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errors.New("broker down")

	require.NoError(t, f.coord.OnSelect(context.Background(), attrCargo))

	assert.Equal(t, attrCargo, f.coord.Expressed())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PublishErrors))
}

func TestCoordinator_Resize(t *testing.T) {
	f := newFixture(t)
	frame := ChartFrame{Width: 100, Height: 50, Left: 10, Right: 0, Top: 0, Bottom: 0, BarGap: 0}

	f.coord.Resize(frame)

	require.Len(t, f.renderer.bars, 3)
	assert.InDelta(t, 30.0, f.renderer.bars[0].Width, 1e-9)
	assert.InDelta(t, 70.0, f.renderer.bars[2].X, 1e-9)
	assert.InDelta(t, 50.0, f.renderer.axis.Bottom, 1e-9)
}

func TestCoordinator_Legend(t *testing.T) {
	f := newFixture(t)

	legend := f.coord.Legend()

	require.Len(t, legend, domain.DefaultClassCount)
	assert.Equal(t, 20.0, legend[0].Lower)
	assert.Equal(t, "#f0f9e8", legend[0].Color)
	for i := 1; i < len(legend); i++ {
		assert.Greater(t, legend[i].Lower, legend[i-1].Lower)
	}
}
