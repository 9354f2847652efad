package listeners

import (
	"testing"

	"PANEL-UNIFI/internal/models"
)

func mundoDePrueba() *World {
	hub := NewWebSocketHub()
	go hub.Run()
	return NewWorld(hub)
}

func TestIsKeepalive(t *testing.T) {
	casos := []struct {
		mensaje string
		want    bool
	}{
		{"ping", true},
		{`{"type":"ping"}`, true},
		{`{"type":"pong"}`, false},
		{"otro texto", false},
		{`{"foo":1}`, false},
	}
	for _, c := range casos {
		if got := isKeepalive([]byte(c.mensaje)); got != c.want {
			t.Errorf("isKeepalive(%q) = %v, se esperaba %v", c.mensaje, got, c.want)
		}
	}
}

func TestCreateDeviceRechazaDuplicados(t *testing.T) {
	w := mundoDePrueba()

	_, err := w.CreateDevice(models.DeviceCreate{MACAddress: "ff:ff:ff:ff:ff:01", FriendlyName: "Nuevo"})
	if err != nil {
		t.Fatalf("el alta inicial no debe fallar: %v", err)
	}

	// La misma MAC en otro formato también cuenta como duplicada
	if _, err := w.CreateDevice(models.DeviceCreate{MACAddress: "FF-FF-FF-FF-FF-01"}); err == nil {
		t.Error("una MAC ya rastreada debe rechazarse")
	}
}

func TestCreateDeviceRechazaMACInvalida(t *testing.T) {
	w := mundoDePrueba()

	if _, err := w.CreateDevice(models.DeviceCreate{MACAddress: "no-es-mac"}); err == nil {
		t.Error("una MAC inválida debe rechazarse")
	}
}

func TestSetBlockedDesconecta(t *testing.T) {
	w := mundoDePrueba()

	d, ok := w.FindDevice(1)
	if !ok {
		t.Fatal("el mundo de prueba debería tener el dispositivo 1")
	}

	if !w.SetBlocked(d.ID, true) {
		t.Fatal("SetBlocked debería encontrar el dispositivo")
	}

	d, _ = w.FindDevice(1)
	if !d.IsBlocked {
		t.Error("el dispositivo debería quedar bloqueado")
	}
	if d.IsConnected {
		t.Error("bloquear debe desconectar al dispositivo")
	}
}

func TestStatusCuentaConectados(t *testing.T) {
	w := mundoDePrueba()

	st := w.Status()
	if st.TrackedDevices != 5 {
		t.Errorf("el mundo de prueba arranca con 5 dispositivos: %d", st.TrackedDevices)
	}

	conectados := 0
	for _, d := range w.ListDevices().Devices {
		if d.IsConnected {
			conectados++
		}
	}
	if st.ConnectedDevices != conectados {
		t.Errorf("connected_devices = %d, el listado dice %d", st.ConnectedDevices, conectados)
	}
}

func TestDashboardAgregaPorBandaYSSID(t *testing.T) {
	w := mundoDePrueba()

	data := w.Dashboard()

	totalPorBanda := 0
	for _, n := range data.ChartData.ClientsByBand {
		totalPorBanda += n
	}
	totalPorSSID := 0
	for _, n := range data.ChartData.ClientsBySSID {
		totalPorSSID += n
	}

	if totalPorBanda != data.Devices.Clients {
		t.Errorf("la suma por banda (%d) debe coincidir con los clientes (%d)", totalPorBanda, data.Devices.Clients)
	}
	if totalPorSSID != data.Devices.Clients {
		t.Errorf("la suma por SSID (%d) debe coincidir con los clientes (%d)", totalPorSSID, data.Devices.Clients)
	}
}

func TestWebhooksCRUD(t *testing.T) {
	w := mundoDePrueba()

	wh := w.CreateWebhook(models.WebhookCreate{
		Name:        "avisos",
		WebhookType: "discord",
		URL:         "https://discord.example/hook",
		Enabled:     true,
	})
	if wh.ID == 0 {
		t.Fatal("el webhook creado debe tener ID")
	}

	nuevoNombre := "avisos-casa"
	updated, found := w.UpdateWebhook(wh.ID, models.WebhookUpdate{Name: &nuevoNombre})
	if !found || updated.Name != "avisos-casa" {
		t.Errorf("el update parcial falló: %+v", updated)
	}
	if updated.URL != wh.URL {
		t.Error("los campos ausentes del update no deben tocarse")
	}

	if !w.DeleteWebhook(wh.ID) {
		t.Error("el borrado debería encontrar el webhook")
	}
	if w.HasWebhook(wh.ID) {
		t.Error("el webhook borrado no debe seguir existiendo")
	}
}
