// Package tui draws the coordinated choropleth and bar chart in a terminal
// and translates keyboard and mouse input into coordinator events.
package tui

import (
	"context"
	"log/slog"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/viewsync"
)

// Controller is the part of the coordinator the terminal drives.
type Controller interface {
	Start() error
	Resize(frame viewsync.ChartFrame)
	OnSelect(ctx context.Context, attribute string) error
	OnHoverEnter(key string, surface viewsync.Surface, at domain.Point)
	OnHoverMove(at domain.Point)
	OnHoverLeave(key string)
	OnActivate(ctx context.Context, key string) error
	OnActivateLandmark(ctx context.Context, lm domain.Landmark) error
	Expressed() string
	Attributes() []string
	Legend() []viewsync.LegendEntry
}

// Options configures the terminal app.
type Options struct {
	Bars        int    // number of bars, used to size gaps between them
	NoDataColor string // legend swatch for missing values
}

type dropdown struct {
	open  bool
	focus int
}

// App owns the screen and the event loop.
type App struct {
	screen  tcell.Screen
	view    *View
	ctrl    Controller
	rasters RasterSource
	opts    Options
	logger  *slog.Logger

	layout   Layout
	frame    viewsync.ChartFrame
	raster   *Raster
	selector Rect
	dropdown dropdown

	buttons  tcell.ButtonMask
	hoverKey string
	landmark *domain.Landmark
	status   string
}

// NewApp wires an initialised screen to the view and coordinator. The caller
// owns the screen's lifecycle.
func NewApp(screen tcell.Screen, view *View, ctrl Controller, rasters RasterSource, opts Options, logger *slog.Logger) *App {
	if opts.NoDataColor == "" {
		opts.NoDataColor = domain.DefaultNoDataColor
	}
	return &App{
		screen:  screen,
		view:    view,
		ctrl:    ctrl,
		rasters: rasters,
		opts:    opts,
		logger:  logger,
	}
}

// Run starts the coordinator and processes events until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	a.resize()
	if err := a.ctrl.Start(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		a.draw()
		a.screen.Show()

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handle(ctx, ev) || ctx.Err() != nil {
			a.logger.Info("terminal closed")
			return nil
		}
	}
}

func (a *App) resize() {
	w, h := a.screen.Size()
	a.layout = NewLayout(w, h)
	a.view.SetViewport(w, h)
	a.raster = a.rasters.Rasterize(a.layout.Map.W, a.layout.Map.H)
	a.frame = a.layout.ChartFrame(a.opts.Bars)
	a.ctrl.Resize(a.frame)
	a.logger.Debug("layout", "width", w, "height", h)
}

// handle processes one event and reports whether the app should quit.
func (a *App) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	case *tcell.EventKey:
		return a.handleKey(ctx, ev)
	case *tcell.EventMouse:
		a.handleMouse(ctx, ev)
	}
	return false
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	a.status = ""
	attrs := a.ctrl.Attributes()

	if a.dropdown.open {
		switch ev.Key() {
		case tcell.KeyEscape:
			a.dropdown.open = false
		case tcell.KeyUp:
			a.dropdown.focus = (a.dropdown.focus - 1 + len(attrs)) % len(attrs)
		case tcell.KeyDown, tcell.KeyTab:
			a.dropdown.focus = (a.dropdown.focus + 1) % len(attrs)
		case tcell.KeyEnter:
			a.dropdown.open = false
			a.selectAttribute(ctx, attrs[a.dropdown.focus])
		}
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return true
	case tcell.KeyEnter, tcell.KeyTab:
		a.openDropdown()
	case tcell.KeyUp, tcell.KeyLeft:
		a.cycle(ctx, -1)
	case tcell.KeyDown, tcell.KeyRight:
		a.cycle(ctx, 1)
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r == 'q':
			return true
		case r == 'a':
			a.openDropdown()
		case r >= '1' && r <= '9':
			if i := int(r - '1'); i < len(attrs) {
				a.selectAttribute(ctx, attrs[i])
			}
		}
	}
	return false
}

func (a *App) openDropdown() {
	a.dropdown.open = true
	a.dropdown.focus = max(slices.Index(a.ctrl.Attributes(), a.ctrl.Expressed()), 0)
}

func (a *App) cycle(ctx context.Context, step int) {
	attrs := a.ctrl.Attributes()
	if len(attrs) == 0 {
		return
	}
	i := slices.Index(attrs, a.ctrl.Expressed())
	a.selectAttribute(ctx, attrs[(i+step+len(attrs))%len(attrs)])
}

func (a *App) selectAttribute(ctx context.Context, attr string) {
	if err := a.ctrl.OnSelect(ctx, attr); err != nil {
		a.status = err.Error()
	}
}

func (a *App) handleMouse(ctx context.Context, ev *tcell.EventMouse) {
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = ev.Buttons()

	if a.dropdown.open {
		if i, ok := a.dropdownItem(x, y); ok {
			a.dropdown.focus = i
			if pressed {
				a.dropdown.open = false
				a.selectAttribute(ctx, a.ctrl.Attributes()[i])
			}
		} else if pressed {
			a.dropdown.open = false
		}
		return
	}
	if pressed && a.selector.Contains(x, y) {
		a.openDropdown()
		return
	}

	a.hover(x, y)
	if pressed {
		a.status = ""
		a.click(ctx, x, y)
	}
}

// hover turns pointer motion into enter, move and leave transitions.
func (a *App) hover(x, y int) {
	a.landmark = nil
	if a.layout.Map.Contains(x, y) && a.raster != nil {
		if lm, ok := a.raster.LandmarkAt(x-a.layout.Map.X, y-a.layout.Map.Y); ok {
			a.landmark = &lm
		}
	}

	at := domain.Point{X: float64(x), Y: float64(y)}
	key, surface, ok := a.hit(x, y)
	switch {
	case !ok:
		if a.hoverKey != "" {
			a.ctrl.OnHoverLeave(a.hoverKey)
			a.hoverKey = ""
		}
	case key != a.hoverKey:
		a.ctrl.OnHoverEnter(key, surface, at)
		a.hoverKey = key
	default:
		a.ctrl.OnHoverMove(at)
	}
}

func (a *App) click(ctx context.Context, x, y int) {
	if a.landmark != nil {
		if err := a.ctrl.OnActivateLandmark(ctx, *a.landmark); err != nil {
			a.status = err.Error()
		}
		return
	}
	key, _, ok := a.hit(x, y)
	if !ok {
		return
	}
	if err := a.ctrl.OnActivate(ctx, key); err != nil {
		a.status = err.Error()
	}
}

// hit returns the key under a screen cell: the owning region on the map or
// the bar whose column contains the cell in the chart's plot area.
func (a *App) hit(x, y int) (string, viewsync.Surface, bool) {
	if m := a.layout.Map; m.Contains(x, y) && a.raster != nil {
		key, ok := a.raster.Owner(x-m.X, y-m.Y)
		return key, viewsync.SurfaceMap, ok
	}
	c := a.layout.Chart
	if !c.Contains(x, y) {
		return "", "", false
	}
	cx, cy := x-c.X, y-c.Y
	if cy < int(a.frame.Top) || cy >= int(a.frame.Top+a.frame.PlotHeight()) {
		return "", "", false
	}
	for _, b := range a.view.Bars() {
		if start, end := barColumns(b); cx >= start && cx < end {
			return b.Key, viewsync.SurfaceChart, true
		}
	}
	return "", "", false
}
