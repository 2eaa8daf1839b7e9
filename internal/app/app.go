package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corebounce/ungesund/internal/assets"
	"github.com/corebounce/ungesund/internal/buttons"
	"github.com/corebounce/ungesund/internal/config"
	"github.com/corebounce/ungesund/internal/face"
	"github.com/corebounce/ungesund/internal/gesundlet"
	"github.com/corebounce/ungesund/internal/render"
	"github.com/corebounce/ungesund/internal/render/layout"
	"github.com/corebounce/ungesund/internal/state"
	"github.com/corebounce/ungesund/internal/system"
)

// App hosts one watch face session at a time: it owns the looper, the canvas
// and the display, and turns buttons and API calls into engine callbacks.
type App struct {
	Config   *config.Config
	Store    *state.Store
	Display  render.Display
	Buttons  buttons.Buttons
	WakeLock system.WakeLock
	Colors   gesundlet.ColorResolver
	Logger   Logger
	Debug    bool

	// Console switches the VT to graphics mode while running.
	Console bool
	// TickInterval is the period of OnTimeTick, a minute unless set.
	TickInterval time.Duration

	looper  *Looper
	canvas  *render.GGCanvas
	surface render.Rect
	bounds  render.Rect

	// Owned by the looper goroutine.
	engine      *face.Engine
	kind        gesundlet.Kind
	visible     bool
	ambient     bool
	drawPending bool

	started  atomic.Bool
	exitOnce atomic.Bool
	exitCh   chan error
}

func New(cfg *config.Config, store *state.Store, display render.Display, buttonDriver buttons.Buttons) *App {
	return &App{
		Config:  cfg,
		Store:   store,
		Display: display,
		Buttons: buttonDriver,
		Logger:  NoopLogger{},
		looper:  NewLooper(64),
		exitCh:  make(chan error, 1),
		visible: true,
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the face until ctx is done or Exit is called.
func (app *App) Start(ctx context.Context) error {
	if !app.started.CompareAndSwap(false, true) {
		return fmt.Errorf("app already started")
	}
	app.defaults()
	if err := app.Config.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if app.Colors == nil {
		palette, err := app.Config.Palette()
		if err != nil {
			return fmt.Errorf("palette: %w", err)
		}
		app.Colors = palette
	}

	d := app.Config.Display
	text := render.NewTextRenderer(assets.FontTTF, app.Logger)
	app.canvas = render.NewGGCanvas(d.Width, d.Height, text)
	defer app.canvas.Close()
	app.surface = render.Rect{Right: float64(d.Width), Bottom: float64(d.Height)}
	app.bounds = render.RectFrom(layout.FaceBounds(d.Width, d.Height, d.Padding, d.Round))

	if err := app.Display.Start(ctx); err != nil {
		app.Logger.Errorf("app", "display start error: %v", err)
		app.Store.Fail(err)
		return err
	}
	defer app.Display.Stop()

	if app.Console {
		_ = system.SetGraphicsModeWithLog(app.Logger)
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := app.Buttons.Start(runCtx); err != nil {
		app.Logger.Errorf("app", "buttons start error: %v", err)
	}
	defer app.Buttons.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.looper.Run(runCtx)
	}()

	var startErr error
	app.looper.Call(func() { startErr = app.startSession(app.Config.Kind()) })
	if startErr != nil {
		app.Store.Fail(startErr)
		app.looper.Quit()
		wg.Wait()
		return startErr
	}
	app.Store.SetPhase(state.RUNNING)

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runTicks(runCtx)
	}()
	go func() {
		defer wg.Done()
		app.handleButtons(runCtx)
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	app.looper.Call(app.stopSession)
	app.looper.Quit()
	cancel()
	wg.Wait()
	// The looper is gone; finish teardown here if it quit first.
	app.stopSession()
	app.Store.SetPhase(state.STOPPED)
	return err
}

func (app *App) defaults() {
	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.Store == nil {
		app.Store = state.NewStore()
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Display == nil {
		app.Display = render.NoopDisplay{}
	}
	if app.Buttons == nil {
		app.Buttons = buttons.NewNoopButtons()
	}
	if app.WakeLock == nil {
		app.WakeLock = system.NoopWakeLock{}
	}
	if app.TickInterval <= 0 {
		app.TickInterval = time.Minute
	}
	if app.looper == nil {
		app.looper = NewLooper(64)
	}
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
}

// SetVisible shows or hides the face.
func (app *App) SetVisible(visible bool) {
	app.looper.Post(func() { app.applyVisible(visible) })
}

func (app *App) SetAmbient(ambient bool) {
	app.looper.Post(func() { app.applyAmbient(ambient) })
}

// SetFace tears down the running session and starts one with kind.
func (app *App) SetFace(kind gesundlet.Kind) error {
	if _, err := gesundlet.ParseKind(string(kind)); err != nil {
		return err
	}
	var err error
	if !app.looper.Call(func() {
		app.stopSession()
		err = app.startSession(kind)
	}) {
		return fmt.Errorf("app not running")
	}
	return err
}

// NextFace cycles through the available faces.
func (app *App) NextFace() {
	app.looper.Post(func() {
		kinds := gesundlet.Kinds()
		next := kinds[0]
		for i, k := range kinds {
			if k == app.kind {
				next = kinds[(i+1)%len(kinds)]
			}
		}
		app.stopSession()
		if err := app.startSession(next); err != nil {
			app.Logger.Errorf("app", "switch to %s failed: %v", next, err)
		}
	})
}

func (app *App) startSession(kind gesundlet.Kind) error {
	cfg := *app.Config
	cfg.Face = string(kind)
	engine := face.NewEngine(face.Options{
		Host:             hostFunc(app.invalidate),
		Clock:            LoopClock{Looper: app.looper},
		Kind:             kind,
		Interval:         cfg.Interval(),
		Colors:           app.Colors,
		WakeLock:         app.wakeLock(),
		Logger:           app.Logger,
		GesundletOptions: cfg.GesundletOptions(),
		LowBitAmbient:    cfg.LowBitAmbient,
		ShowCounter:      cfg.ShowCounter,
		TextSize:         cfg.TextSize,
	})
	if err := engine.OnCreate(app.bounds); err != nil {
		return err
	}
	app.engine = engine
	app.kind = kind
	if app.ambient {
		engine.OnAmbientModeChanged(true)
	}
	engine.OnVisibilityChanged(app.visible)
	app.publish()
	app.invalidate()
	return nil
}

func (app *App) stopSession() {
	if app.engine == nil {
		return
	}
	app.engine.OnDestroy()
	app.engine = nil
}

func (app *App) wakeLock() face.WakeLock {
	if !app.Config.WakeLock {
		return nil
	}
	return app.WakeLock
}

// invalidate coalesces redraw requests into one posted draw.
func (app *App) invalidate() {
	if app.drawPending {
		return
	}
	app.drawPending = true
	app.looper.Post(app.draw)
}

func (app *App) draw() {
	app.drawPending = false
	if app.engine == nil {
		return
	}
	app.canvas.Reset()
	app.engine.OnDraw(app.canvas, app.surface)
	frame := app.canvas.Frame()
	if err := app.Display.Present(frame); err != nil {
		app.Logger.Errorf("app", "present failed: %v", err)
	}
	app.Store.RecordFrame(app.engine.Frames(), time.Now())
}

func (app *App) publish() {
	info := state.FaceInfo{Kind: string(app.kind), Visible: app.visible, Ambient: app.ambient}
	if app.engine != nil {
		info.IntervalMs = app.engine.Interval().Milliseconds()
		info.Frames = app.engine.Frames()
	}
	info.LastFrame = app.Store.Snapshot().Face.LastFrame
	app.Store.UpdateFace(info)
}

func (app *App) runTicks(ctx context.Context) {
	ticker := time.NewTicker(app.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.looper.Post(func() {
				if app.engine != nil {
					app.engine.OnTimeTick()
				}
			})
		}
	}
}

func (app *App) handleButtons(ctx context.Context) {
	events := app.Buttons.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			app.Logger.Infof("buttons", "event %s", ev)
			switch ev {
			case buttons.ToggleVisibility:
				app.looper.Post(func() { app.applyVisible(!app.visible) })
			case buttons.ToggleAmbient:
				app.looper.Post(func() { app.applyAmbient(!app.ambient) })
			case buttons.NextFace:
				app.NextFace()
			case buttons.Exit:
				app.Exit(nil)
			}
		}
	}
}

func (app *App) applyVisible(visible bool) {
	app.visible = visible
	if app.engine != nil {
		app.engine.OnVisibilityChanged(visible)
	}
	app.publish()
}

func (app *App) applyAmbient(ambient bool) {
	app.ambient = ambient
	if app.engine != nil {
		app.engine.OnAmbientModeChanged(ambient)
	}
	app.publish()
}

type hostFunc func()

func (f hostFunc) Invalidate() { f() }
