package liveview

import (
	"strings"

	"PANEL-UNIFI/internal/models"
)

// TransitionKind clasifica los cambios de campo vigilados detectados al
// reconciliar una actualización parcial
type TransitionKind string

const (
	TransitionConnected    TransitionKind = "connected"
	TransitionDisconnected TransitionKind = "disconnected"
	TransitionDiscovered   TransitionKind = "discovered"
	TransitionBlocked      TransitionKind = "blocked"
	TransitionUnblocked    TransitionKind = "unblocked"
)

// Transition es el evento emitido cuando un campo vigilado cambió de valor
// (o apareció un dispositivo nuevo). Device es la copia YA fusionada.
type Transition struct {
	Kind   TransitionKind
	Device models.TrackedDevice
}

// ViewModel es el snapshot canónico en memoria del estado reportado por el
// servidor para el dashboard Stalker: mapa MAC → registro más los agregados
// escalares. Solo el reconciliador lo muta; el orden de inserción es el orden
// de presentación por defecto.
type ViewModel struct {
	order   []string
	devices map[string]*models.TrackedDevice
	status  models.SystemStatus
}

// NewViewModel crea un ViewModel vacío
func NewViewModel() *ViewModel {
	return &ViewModel{
		devices: make(map[string]*models.TrackedDevice),
	}
}

// Len retorna cuántos dispositivos hay en el modelo
func (vm *ViewModel) Len() int {
	return len(vm.devices)
}

// Device retorna una copia del registro por MAC
func (vm *ViewModel) Device(mac string) (models.TrackedDevice, bool) {
	d, ok := vm.devices[normalizeKey(mac)]
	if !ok {
		return models.TrackedDevice{}, false
	}
	return *d, true
}

// Devices retorna copias de todos los registros en orden de inserción
func (vm *ViewModel) Devices() []models.TrackedDevice {
	result := make([]models.TrackedDevice, 0, len(vm.order))
	for _, mac := range vm.order {
		if d, ok := vm.devices[mac]; ok {
			result = append(result, *d)
		}
	}
	return result
}

// Status retorna los agregados escalares actuales
func (vm *ViewModel) Status() models.SystemStatus {
	return vm.status
}

// ApplyFull reemplaza el mapa de entidades y los agregados completos con el
// snapshot (carga inicial y ticks del poll fallback). Aplicar el mismo
// snapshot dos veces deja el modelo idéntico.
func (vm *ViewModel) ApplyFull(devices []models.TrackedDevice, status models.SystemStatus) {
	vm.order = vm.order[:0]
	vm.devices = make(map[string]*models.TrackedDevice, len(devices))

	for i := range devices {
		d := devices[i]
		key := normalizeKey(d.MACAddress)
		if _, dup := vm.devices[key]; dup {
			// Como máximo un registro por clave: el último gana
			vm.devices[key] = &d
			continue
		}
		vm.devices[key] = &d
		vm.order = append(vm.order, key)
	}

	vm.status = status
	vm.recount()
}

// ApplyDeviceUpdate reconcilia una actualización parcial empujada por el
// servidor. Si el campo de conectividad (o el de bloqueo) cambió de valor
// emite exactamente una transición; si el dispositivo no existía lo inserta
// y emite una transición de descubrimiento. Tras cualquier camino recalcula
// los agregados recorriendo el mapa completo.
func (vm *ViewModel) ApplyDeviceUpdate(u models.DeviceUpdate) []Transition {
	key := normalizeKey(u.MACAddress)
	var transitions []Transition

	existing, found := vm.devices[key]
	if !found {
		nuevo := models.NewFromUpdate(u)
		nuevo.MACAddress = key
		vm.devices[key] = nuevo
		vm.order = append(vm.order, key)
		transitions = append(transitions, Transition{Kind: TransitionDiscovered, Device: *nuevo})
		vm.recount()
		return transitions
	}

	// Detectar flips de los campos vigilados ANTES de fusionar
	if u.IsConnected != nil && *u.IsConnected != existing.IsConnected {
		kind := TransitionDisconnected
		if *u.IsConnected {
			kind = TransitionConnected
		}
		transitions = append(transitions, Transition{Kind: kind})
	}
	if u.IsBlocked != nil && *u.IsBlocked != existing.IsBlocked {
		kind := TransitionUnblocked
		if *u.IsBlocked {
			kind = TransitionBlocked
		}
		transitions = append(transitions, Transition{Kind: kind})
	}

	existing.Merge(u)

	// La transición transporta el registro ya fusionado
	for i := range transitions {
		transitions[i].Device = *existing
	}

	vm.recount()
	return transitions
}

// ApplyAggregate sobrescribe solo los agregados escalares, sin tocar los
// registros de dispositivos
func (vm *ViewModel) ApplyAggregate(status models.SystemStatus) {
	vm.status = status
}

// recount recalcula los contadores recorriendo el mapa completo.
// Debe valer tras CADA actualización individual, no solo al final.
func (vm *ViewModel) recount() {
	total := 0
	connected := 0
	for _, d := range vm.devices {
		total++
		if d.IsConnected {
			connected++
		}
	}
	vm.status.TrackedDevices = total
	vm.status.ConnectedDevices = connected
}

// normalizeKey asegura que la clave del mapa sea la MAC normalizada; si la
// entrada no es una MAC válida se usa en minúsculas tal cual (clave estable
// igualmente)
func normalizeKey(mac string) string {
	if norm, err := models.NormalizeMAC(mac); err == nil {
		return norm
	}
	return strings.ToLower(mac)
}
