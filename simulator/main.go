package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/corebounce/ungesund/internal/app"
	"github.com/corebounce/ungesund/internal/buttons"
	"github.com/corebounce/ungesund/internal/config"
	"github.com/corebounce/ungesund/internal/state"
	"github.com/corebounce/ungesund/internal/system"
	"github.com/corebounce/ungesund/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, the embedded preview page is served")
	configPath := flag.String("config", "", "YAML config file (optional)")
	faceName := flag.String("face", "", "sweep, radar or simple")
	scenario := flag.String("scenario", "visible", "startup scenario: visible | hidden | ambient | flicker")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Println("config error:", err)
			os.Exit(2)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Println("config env error:", err)
		os.Exit(2)
	}
	if *faceName != "" {
		cfg.Face = *faceName
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := app.NewConsoleLogger(os.Stdout)
	store := state.NewStore()
	display := &simDisplay{}
	hub := web.NewFrameHub(display)

	a := app.New(cfg, store, hub, buttons.NewNoopButtons())
	a.Logger = logger

	startupScenario := strings.TrimSpace(*scenario)
	control := NewSimControl(processCtx, a, display, startupScenario)

	url := system.PreviewURL(*listenAddr, "")
	store.UpdateNetwork(state.NetworkInfo{URL: url})

	mux := web.NewDefaultMux(*staticDir, web.APIV1Config{Control: a, Store: store, Frames: hub, PreviewURL: url})
	registerSimEndpoints(mux, control)
	server := web.NewHTTPServer(*listenAddr, mux)
	if *devMode {
		server.Handler = web.WithDevCORS(mux)
	}
	server.Logger = logger

	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}
	defer server.Stop()

	fmt.Println("ungesund simulator listening on", server.ListenAddr())
	fmt.Println("Face:", cfg.Kind())
	fmt.Println("Scenario:", startupScenario)
	fmt.Println("Preview:", url)

	appErr := make(chan error, 1)
	go func() { appErr <- a.Start(processCtx) }()

	if err := control.ApplyScenario(startupScenario); err != nil {
		fmt.Println("scenario init error:", err)
		a.Exit(err)
	}

	if err := <-appErr; err != nil && processCtx.Err() == nil {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
}
