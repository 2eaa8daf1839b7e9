package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corebounce/ungesund/internal/app"
	"github.com/corebounce/ungesund/internal/buttons"
	"github.com/corebounce/ungesund/internal/config"
	"github.com/corebounce/ungesund/internal/render"
	"github.com/corebounce/ungesund/internal/state"
	"github.com/corebounce/ungesund/internal/system"
	"github.com/corebounce/ungesund/internal/web"
)

const envStdioLog = "UNGESUND_STDIO_LOG"

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to ./ungesund-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+envStdioLog)
	configPath := flag.String("config", "/etc/ungesund.yaml", "YAML config file; missing files fall back to defaults")
	faceName := flag.String("face", "", "sweep, radar or simple; overrides the config file")
	intervalMs := flag.Int("interval", 0, "redraw interval in ms; 0 keeps the configured value")
	listen := flag.String("listen", "", "serve the web preview on this address, e.g. :80; also configurable via "+web.EnvListenAddr)
	device := flag.String("fb", "", "framebuffer device; overrides the config file")
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv(envStdioLog)
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./ungesund-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Println("config env error:", err)
		os.Exit(1)
	}
	if *faceName != "" {
		cfg.Face = *faceName
	}
	if *intervalMs > 0 {
		cfg.IntervalMs = *intervalMs
	}
	if *device != "" {
		cfg.Display.Device = *device
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()

	fbRenderer := render.NewFBRenderer(cfg.Display.Device)
	fbRenderer.Logger = logger
	fbRenderer.Debug = *debug
	var display render.Display = fbRenderer

	serverCfg, err := web.DefaultServerConfigFromEnv(*listen)
	if err != nil {
		fmt.Println("web config error:", err)
		os.Exit(1)
	}
	if *listen != "" {
		serverCfg.ListenAddr = *listen
	}

	btns := buttons.NewMulti(
		buttons.NewKeyButtons(logger),
		buttons.NewGPIOButtons(map[buttons.Event]string{
			buttons.ToggleVisibility: cfg.Buttons.Visibility,
			buttons.ToggleAmbient:    cfg.Buttons.Ambient,
			buttons.NextFace:         cfg.Buttons.NextFace,
		}, logger),
	)

	var server web.Server = &web.NoopServer{}
	var hub *web.FrameHub
	if serverCfg.Enabled() {
		hub = web.NewFrameHub(fbRenderer)
		display = hub
	}

	a := app.New(cfg, store, display, btns)
	a.Logger = logger
	a.Debug = *debug
	a.Console = true
	a.WakeLock = system.NewConsoleWakeLock(logger)

	if serverCfg.Enabled() {
		host, err := system.LocalIPv4()
		if err != nil {
			logger.Errorf("main", "no local address for preview link: %v", err)
		}
		url := system.PreviewURL(serverCfg.ListenAddr, host)
		store.UpdateNetwork(state.NetworkInfo{URL: url})

		handler := web.NewDefaultMux("", web.APIV1Config{Control: a, Store: store, Frames: hub, PreviewURL: url})
		httpServer := web.NewHTTPServer(serverCfg.ListenAddr, handler)
		if serverCfg.DevMode {
			httpServer.Handler = web.WithDevCORS(handler)
		}
		httpServer.Logger = logger
		server = httpServer
	}
	if err := server.Start(ctx); err != nil {
		// The face still runs without its preview.
		logger.Errorf("main", "web server start error: %v", err)
		fmt.Println("web server start error:", err)
	}
	defer server.Stop()

	start := time.Now()
	err = a.Start(ctx)
	logger.Infof("main", "stopped after %s: %v", time.Since(start).Round(time.Second), err)
	if err != nil && ctx.Err() == nil {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
}
