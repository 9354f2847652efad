package models

import (
	"testing"
	"time"
)

func TestParsePushMessageDeviceUpdate(t *testing.T) {
	raw := []byte(`{"type":"device_update","device":{"id":3,"mac_address":"aa:bb:cc:dd:ee:ff","is_connected":true}}`)

	msg, err := ParsePushMessage(raw)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}

	upd, ok := msg.(DeviceUpdateMessage)
	if !ok {
		t.Fatalf("se esperaba DeviceUpdateMessage, llegó %T", msg)
	}
	if upd.Device.MACAddress != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("MAC incorrecta: %s", upd.Device.MACAddress)
	}
	if upd.Device.IsConnected == nil || !*upd.Device.IsConnected {
		t.Error("is_connected debería ser true")
	}
	if upd.Device.IsBlocked != nil {
		t.Error("is_blocked ausente debería quedar en nil")
	}
}

func TestParsePushMessageDeviceUpdateEnData(t *testing.T) {
	// Algunas versiones del backend envían el payload bajo "data"
	raw := []byte(`{"type":"device_update","data":{"mac_address":"aa:bb:cc:dd:ee:01"}}`)

	msg, err := ParsePushMessage(raw)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if _, ok := msg.(DeviceUpdateMessage); !ok {
		t.Fatalf("se esperaba DeviceUpdateMessage, llegó %T", msg)
	}
}

func TestParsePushMessageStatusUpdate(t *testing.T) {
	raw := []byte(`{"type":"status_update","data":{"tracked_devices":7,"connected_devices":4}}`)

	msg, err := ParsePushMessage(raw)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}

	st, ok := msg.(StatusUpdateMessage)
	if !ok {
		t.Fatalf("se esperaba StatusUpdateMessage, llegó %T", msg)
	}
	if st.Status.TrackedDevices != 7 || st.Status.ConnectedDevices != 4 {
		t.Errorf("contadores incorrectos: %+v", st.Status)
	}
}

func TestParsePushMessageStatsUpdate(t *testing.T) {
	raw := []byte(`{"type":"stats_update","data":{"chart_data":{"clients_by_band":{"5 GHz":3}}}}`)

	msg, err := ParsePushMessage(raw)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}

	stats, ok := msg.(StatsUpdateMessage)
	if !ok {
		t.Fatalf("se esperaba StatsUpdateMessage, llegó %T", msg)
	}
	if stats.Data.ChartData.ClientsByBand["5 GHz"] != 3 {
		t.Errorf("chart_data incorrecto: %+v", stats.Data.ChartData)
	}
}

func TestParsePushMessagePong(t *testing.T) {
	msg, err := ParsePushMessage([]byte(`{"type":"pong"}`))
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if _, ok := msg.(PongMessage); !ok {
		t.Fatalf("se esperaba PongMessage, llegó %T", msg)
	}
}

func TestParsePushMessageTipoDesconocido(t *testing.T) {
	// Un tipo nuevo del backend no debe producir error: se ignora
	msg, err := ParsePushMessage([]byte(`{"type":"firmware_update","data":{}}`))
	if err != nil {
		t.Fatalf("un tipo desconocido no debe dar error: %v", err)
	}

	unknown, ok := msg.(UnknownMessage)
	if !ok {
		t.Fatalf("se esperaba UnknownMessage, llegó %T", msg)
	}
	if unknown.Type != "firmware_update" {
		t.Errorf("tipo incorrecto: %s", unknown.Type)
	}
}

func TestParsePushMessageMalformado(t *testing.T) {
	casos := [][]byte{
		[]byte(`no es json`),
		[]byte(`{"type":"device_update","device":{"is_connected":true}}`), // sin MAC
		[]byte(`{"type":"status_update","data":"texto"}`),
	}

	for _, raw := range casos {
		if _, err := ParsePushMessage(raw); err == nil {
			t.Errorf("se esperaba error para %s", raw)
		}
	}
}

func TestMergePreservaCamposAusentes(t *testing.T) {
	lastSeen := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	d := TrackedDevice{
		MACAddress:            "aa:bb:cc:dd:ee:ff",
		FriendlyName:          "Portátil",
		IsConnected:           true,
		CurrentAPName:         "AP Salón",
		CurrentSignalStrength: -50,
		LastSeen:              &lastSeen,
	}

	signal := -72
	d.Merge(DeviceUpdate{
		MACAddress:            "aa:bb:cc:dd:ee:ff",
		CurrentSignalStrength: &signal,
	})

	if d.CurrentSignalStrength != -72 {
		t.Errorf("la señal debería haberse actualizado: %d", d.CurrentSignalStrength)
	}
	if d.FriendlyName != "Portátil" || d.CurrentAPName != "AP Salón" {
		t.Error("los campos ausentes en la actualización no deben tocarse")
	}
	if !d.IsConnected {
		t.Error("is_connected ausente no debe sobrescribirse")
	}
	if d.LastSeen == nil || !d.LastSeen.Equal(lastSeen) {
		t.Error("last_seen ausente no debe sobrescribirse")
	}
}

func TestNormalizeMAC(t *testing.T) {
	casos := []struct {
		entrada string
		salida  string
		falla   bool
	}{
		{"AA:BB:CC:DD:EE:FF", "aa:bb:cc:dd:ee:ff", false},
		{"aa-bb-cc-dd-ee-ff", "aa:bb:cc:dd:ee:ff", false},
		{"aabb.ccdd.eeff", "aa:bb:cc:dd:ee:ff", false},
		{"aabbccddeeff", "aa:bb:cc:dd:ee:ff", false},
		{"aa:bb:cc", "", true},
		{"zz:bb:cc:dd:ee:ff", "", true},
		{"", "", true},
	}

	for _, c := range casos {
		got, err := NormalizeMAC(c.entrada)
		if c.falla {
			if err == nil {
				t.Errorf("NormalizeMAC(%q) debería fallar", c.entrada)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeMAC(%q) falló: %v", c.entrada, err)
			continue
		}
		if got != c.salida {
			t.Errorf("NormalizeMAC(%q) = %q, se esperaba %q", c.entrada, got, c.salida)
		}
	}
}
