package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PANEL-UNIFI/internal/listeners"
)

func main() {
	addr := flag.String("addr", ":8899", "dirección de escucha del backend simulado")
	tick := flag.Duration("tick", 4*time.Second, "periodo de la simulación")
	flag.Parse()

	log.Println("🚀 Iniciando backend simulado...")

	hub := listeners.NewWebSocketHub()
	go hub.Run()

	world := listeners.NewWorld(hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go world.RunTicker(ctx, *tick)

	frontend := listeners.NewHTTPFrontend(*addr, world, hub)
	go func() {
		if err := frontend.Run(); err != nil {
			log.Fatalf("❌ Error del servidor HTTP: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Señal recibida, apagando...")
	cancel()
}
