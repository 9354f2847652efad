package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"PANEL-UNIFI/internal/api"
	"PANEL-UNIFI/internal/config"
	"PANEL-UNIFI/internal/liveview"
	"PANEL-UNIFI/internal/notify"
	"PANEL-UNIFI/internal/store"
	"PANEL-UNIFI/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "ruta del archivo de configuración")
	flag.Parse()

	log.Println("🚀 Iniciando panel Pulse...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Error cargando configuración: %v", err)
	}

	settingsPath := cfg.Settings.Path
	if settingsPath == "" {
		settingsPath = "./pulse-settings.db"
	}
	settings, err := store.OpenSettings(settingsPath)
	if err != nil {
		log.Fatalf("❌ Error abriendo preferencias locales: %v", err)
	}
	defer settings.Close()

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.StalkerPath, cfg.Backend.PulsePath, cfg.Backend.GetTimeout())
	defer client.Close()

	endpoint, err := liveview.DeriveEndpoint(cfg.Backend.BaseURL, "/ws/pulse")
	if err != nil {
		log.Fatalf("❌ Error derivando endpoint WebSocket: %v", err)
	}

	feed := notify.NewFeed(20)
	sink := notify.Multi{notify.LogSink{}, feed}
	surface := web.NewChartSurface()

	core := liveview.NewPulseCore(liveview.PulseOptions{
		Client:         client,
		Endpoint:       endpoint,
		PollInterval:   cfg.Sync.GetPollInterval(),
		ReconnectDelay: cfg.Sync.GetReconnectDelay(),
		KeepaliveEvery: cfg.Sync.GetKeepaliveEvery(),
		Sink:           sink,
		Surface:        surface,
	})

	// Los filtros de gráficos guardados se aplican al arrancar
	if filters, ferr := settings.ChartFilters(); ferr == nil && len(filters) > 0 {
		core.SetExcludedSSIDs(filters)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go core.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", web.PulsePageHandler(core, surface))

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	if cfg.Web.Port == 0 {
		addr = fmt.Sprintf("%s:8081", cfg.Web.Host)
	}
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("🌐 Página de estado en http://%s", addr)
		if serr := server.ListenAndServe(); serr != nil && serr != http.ErrServerClosed {
			log.Fatalf("❌ Error del servidor web: %v", serr)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Señal recibida, apagando...")
	cancel()
	server.Shutdown(context.Background())
}
