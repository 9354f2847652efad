package api_test

import (
	"context"
	"fmt"
	"time"

	"PANEL-UNIFI/internal/api"
	"PANEL-UNIFI/internal/models"
)

// ExampleClient_ListDevices demuestra cómo listar los dispositivos rastreados
func ExampleClient_ListDevices() {
	// Crear cliente
	client := api.NewClient("http://192.168.1.50:8899", "/api", "/api/pulse", 10*time.Second)
	defer client.Close()

	ctx := context.Background()

	list, err := client.ListDevices(ctx)
	if err != nil {
		fmt.Printf("Error: %s\n", api.FormatError(err))
		return
	}

	for _, d := range list.Devices {
		estado := "desconectado"
		if d.IsConnected {
			estado = "conectado"
		}
		fmt.Printf("%s (%s) - %s\n", d.FriendlyName, d.MACAddress, estado)
	}
}

// ExampleClient_CreateDevice demuestra cómo dar de alta un dispositivo
func ExampleClient_CreateDevice() {
	client := api.NewClient("http://192.168.1.50:8899", "/api", "/api/pulse", 10*time.Second)
	defer client.Close()

	ctx := context.Background()

	// La MAC se normaliza automáticamente antes de enviar
	device, err := client.CreateDevice(ctx, models.DeviceCreate{
		MACAddress:   "AA-BB-CC-DD-EE-FF",
		FriendlyName: "Portátil de Dani",
	})
	if err != nil {
		if err == api.ErrDeviceDuplicado {
			fmt.Println("El dispositivo ya está siendo rastreado")
			return
		}
		fmt.Printf("Error: %s\n", api.FormatError(err))
		return
	}

	fmt.Printf("Dispositivo %s registrado con ID %d\n", device.MACAddress, device.ID)
}

// ExampleClient_FetchAnalytics demuestra cómo cargar la analítica de un
// dispositivo en paralelo
func ExampleClient_FetchAnalytics() {
	client := api.NewClient("http://192.168.1.50:8899", "/api", "/api/pulse", 10*time.Second)
	defer client.Close()

	ctx := context.Background()

	analytics, err := client.FetchAnalytics(ctx, 1)
	if err != nil {
		fmt.Printf("Error: %s\n", api.FormatError(err))
		return
	}

	// Cada consulta puede fallar por separado; los campos fallidos quedan en nil
	if analytics.FavoriteAP != nil {
		fmt.Printf("AP favorito: %s\n", analytics.FavoriteAP.APName)
	}
	if analytics.DwellTime != nil {
		fmt.Printf("Tiempo total conectado: %ds\n", analytics.DwellTime.TotalSeconds)
	}
}

// ExampleIsRetryable demuestra cómo manejar errores reintentables
func ExampleIsRetryable() {
	client := api.NewClient("http://192.168.1.50:8899", "/api", "/api/pulse", 5*time.Second)
	defer client.Close()

	ctx := context.Background()
	maxRetries := 3

	for i := 0; i < maxRetries; i++ {
		status, err := client.GetStatus(ctx)
		if err == nil {
			fmt.Printf("Dispositivos conectados: %d\n", status.ConnectedDevices)
			return
		}

		if api.IsRetryable(err) {
			fmt.Printf("Intento %d/%d falló, reintentando...\n", i+1, maxRetries)
			time.Sleep(time.Second * time.Duration(i+1))
			continue
		}

		// Error no reintentable
		fmt.Printf("Error no reintentable: %s\n", api.FormatError(err))
		return
	}

	fmt.Println("Máximo de reintentos alcanzado")
}
