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

	log.Println("🚀 Iniciando panel Stalker...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Error cargando configuración: %v", err)
	}

	settingsPath := cfg.Settings.Path
	if settingsPath == "" {
		settingsPath = "./stalker-settings.db"
	}
	settings, err := store.OpenSettings(settingsPath)
	if err != nil {
		log.Fatalf("❌ Error abriendo preferencias locales: %v", err)
	}
	defer settings.Close()

	if theme, terr := settings.Theme(); terr == nil {
		log.Printf("🎨 Tema guardado: %s", theme)
	}

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.StalkerPath, cfg.Backend.PulsePath, cfg.Backend.GetTimeout())
	defer client.Close()

	endpoint, err := liveview.DeriveEndpoint(cfg.Backend.BaseURL, "/ws/stalker")
	if err != nil {
		log.Fatalf("❌ Error derivando endpoint WebSocket: %v", err)
	}

	feed := notify.NewFeed(20)
	sink := notify.Multi{notify.LogSink{}, feed}

	core := liveview.NewStalkerCore(liveview.StalkerOptions{
		Client:         client,
		Endpoint:       endpoint,
		PollInterval:   cfg.Sync.GetPollInterval(),
		ReconnectDelay: cfg.Sync.GetReconnectDelay(),
		KeepaliveEvery: cfg.Sync.GetKeepaliveEvery(),
		RefreshEvery:   cfg.Sync.GetRefreshInterval(),
		Sink:           sink,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go core.Run(ctx)

	// Página de estado local
	mux := http.NewServeMux()
	mux.HandleFunc("/", web.StalkerPageHandler(core, feed))

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	if cfg.Web.Port == 0 {
		addr = fmt.Sprintf("%s:8080", cfg.Web.Host)
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
