package liveview

import (
	"testing"
	"time"

	"PANEL-UNIFI/internal/models"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func dispositivo(mac string, connected bool) models.TrackedDevice {
	return models.TrackedDevice{
		MACAddress:  mac,
		IsConnected: connected,
	}
}

func TestApplyFullEsIdempotente(t *testing.T) {
	vm := NewViewModel()
	devices := []models.TrackedDevice{
		dispositivo("aa:bb:cc:dd:ee:01", true),
		dispositivo("aa:bb:cc:dd:ee:02", false),
		dispositivo("aa:bb:cc:dd:ee:03", true),
	}
	status := models.SystemStatus{RefreshIntervalSeconds: 30}

	vm.ApplyFull(devices, status)
	primera := vm.Devices()

	vm.ApplyFull(devices, status)
	segunda := vm.Devices()

	if len(primera) != len(segunda) {
		t.Fatalf("longitudes distintas: %d vs %d", len(primera), len(segunda))
	}
	for i := range primera {
		if primera[i].MACAddress != segunda[i].MACAddress {
			t.Errorf("orden distinto en posición %d: %s vs %s",
				i, primera[i].MACAddress, segunda[i].MACAddress)
		}
	}
	if vm.Len() != 3 {
		t.Errorf("se esperaban 3 dispositivos, hay %d", vm.Len())
	}
}

func TestApplyFullRecalculaContadores(t *testing.T) {
	vm := NewViewModel()
	vm.ApplyFull([]models.TrackedDevice{
		dispositivo("aa:bb:cc:dd:ee:01", true),
		dispositivo("aa:bb:cc:dd:ee:02", false),
		dispositivo("aa:bb:cc:dd:ee:03", true),
	}, models.SystemStatus{TrackedDevices: 99, ConnectedDevices: 99})

	// Los contadores del payload se recalculan contra el mapa real
	st := vm.Status()
	if st.TrackedDevices != 3 {
		t.Errorf("tracked_devices = %d, se esperaba 3", st.TrackedDevices)
	}
	if st.ConnectedDevices != 2 {
		t.Errorf("connected_devices = %d, se esperaba 2", st.ConnectedDevices)
	}
}

func TestApplyDeviceUpdateEmiteTransicionSoloEnFlip(t *testing.T) {
	vm := NewViewModel()
	vm.ApplyFull([]models.TrackedDevice{
		dispositivo("aa:bb:cc:dd:ee:01", false),
	}, models.SystemStatus{})

	// false → true: exactamente una transición de conexión
	trans := vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:  "aa:bb:cc:dd:ee:01",
		IsConnected: boolPtr(true),
	})
	if len(trans) != 1 || trans[0].Kind != TransitionConnected {
		t.Fatalf("se esperaba [connected], llegó %+v", trans)
	}

	// true → true: mismo valor, ninguna transición
	trans = vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:  "aa:bb:cc:dd:ee:01",
		IsConnected: boolPtr(true),
	})
	if len(trans) != 0 {
		t.Fatalf("un update sin flip no debe emitir transiciones: %+v", trans)
	}

	// Update sin el campo: ninguna transición
	trans = vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:            "aa:bb:cc:dd:ee:01",
		CurrentSignalStrength: intPtr(-60),
	})
	if len(trans) != 0 {
		t.Fatalf("un update sin is_connected no debe emitir transiciones: %+v", trans)
	}

	// true → false
	trans = vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:  "aa:bb:cc:dd:ee:01",
		IsConnected: boolPtr(false),
	})
	if len(trans) != 1 || trans[0].Kind != TransitionDisconnected {
		t.Fatalf("se esperaba [disconnected], llegó %+v", trans)
	}
}

func TestApplyDeviceUpdateBloqueo(t *testing.T) {
	vm := NewViewModel()
	vm.ApplyFull([]models.TrackedDevice{
		dispositivo("aa:bb:cc:dd:ee:01", true),
	}, models.SystemStatus{})

	trans := vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:  "aa:bb:cc:dd:ee:01",
		IsBlocked:   boolPtr(true),
		IsConnected: boolPtr(false),
	})

	// Flip de bloqueo y de conexión a la vez: dos transiciones
	if len(trans) != 2 {
		t.Fatalf("se esperaban 2 transiciones, llegaron %d", len(trans))
	}
	kinds := map[TransitionKind]bool{}
	for _, tr := range trans {
		kinds[tr.Kind] = true
	}
	if !kinds[TransitionBlocked] || !kinds[TransitionDisconnected] {
		t.Errorf("transiciones incorrectas: %+v", trans)
	}
}

func TestApplyDeviceUpdateDescubreDispositivo(t *testing.T) {
	vm := NewViewModel()
	vm.ApplyFull([]models.TrackedDevice{
		dispositivo("aa:bb:cc:dd:ee:01", true),
	}, models.SystemStatus{})

	trans := vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:   "aa:bb:cc:dd:ee:99",
		FriendlyName: strPtr("Nuevo"),
		IsConnected:  boolPtr(true),
	})

	if len(trans) != 1 || trans[0].Kind != TransitionDiscovered {
		t.Fatalf("se esperaba [discovered], llegó %+v", trans)
	}
	if vm.Len() != 2 {
		t.Errorf("el dispositivo nuevo debería estar en el modelo")
	}

	// Los contadores se recalculan tras el alta
	if st := vm.Status(); st.TrackedDevices != 2 || st.ConnectedDevices != 2 {
		t.Errorf("contadores incorrectos tras descubrimiento: %+v", st)
	}

	// El orden de inserción se preserva: el nuevo va al final
	devices := vm.Devices()
	if devices[len(devices)-1].MACAddress != "aa:bb:cc:dd:ee:99" {
		t.Error("el dispositivo descubierto debería ir al final del orden")
	}
}

func TestApplyDeviceUpdateFusionaParcial(t *testing.T) {
	lastSeen := time.Now()
	vm := NewViewModel()
	vm.ApplyFull([]models.TrackedDevice{
		{
			MACAddress:    "aa:bb:cc:dd:ee:01",
			FriendlyName:  "Tablet",
			IsConnected:   true,
			CurrentAPName: "AP Salón",
			LastSeen:      &lastSeen,
		},
	}, models.SystemStatus{})

	vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:    "aa:bb:cc:dd:ee:01",
		CurrentAPName: strPtr("AP Terraza"),
	})

	d, _ := vm.Device("aa:bb:cc:dd:ee:01")
	if d.CurrentAPName != "AP Terraza" {
		t.Errorf("el AP debería haberse actualizado: %s", d.CurrentAPName)
	}
	if d.FriendlyName != "Tablet" || !d.IsConnected || d.LastSeen == nil {
		t.Error("los campos ausentes del update no deben perderse")
	}
}

func TestApplyAggregateNoTocaDispositivos(t *testing.T) {
	vm := NewViewModel()
	vm.ApplyFull([]models.TrackedDevice{
		dispositivo("aa:bb:cc:dd:ee:01", true),
	}, models.SystemStatus{})

	now := time.Now()
	vm.ApplyAggregate(models.SystemStatus{
		LastRefresh:            &now,
		TrackedDevices:         1,
		ConnectedDevices:       1,
		RefreshIntervalSeconds: 60,
	})

	if vm.Len() != 1 {
		t.Error("ApplyAggregate no debe tocar los registros")
	}
	if vm.Status().RefreshIntervalSeconds != 60 {
		t.Error("los agregados deberían haberse sobrescrito")
	}
}

func TestNormalizaClavesDeMAC(t *testing.T) {
	vm := NewViewModel()
	vm.ApplyFull([]models.TrackedDevice{
		dispositivo("AA:BB:CC:DD:EE:01", false),
	}, models.SystemStatus{})

	// El mismo dispositivo con la MAC en otro formato no debe duplicarse
	trans := vm.ApplyDeviceUpdate(models.DeviceUpdate{
		MACAddress:  "aa-bb-cc-dd-ee-01",
		IsConnected: boolPtr(true),
	})

	if len(trans) != 1 || trans[0].Kind != TransitionConnected {
		t.Fatalf("se esperaba [connected] sobre el registro existente, llegó %+v", trans)
	}
	if vm.Len() != 1 {
		t.Errorf("la MAC en otro formato no debe crear un registro nuevo: %d", vm.Len())
	}
}
