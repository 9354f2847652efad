package liveview

import (
	"context"
	"log"
	"time"

	"PANEL-UNIFI/internal/api"
	"PANEL-UNIFI/internal/models"
	"PANEL-UNIFI/internal/notify"
)

// DetailView es el detalle abierto actualmente en el dashboard Stalker.
// Los campos de carga lenta (Detail, Analytics, History) llegan después
// de abrir y solo se aplican si el detalle sigue siendo el mismo.
type DetailView struct {
	MAC       string
	DeviceID  int
	Device    models.TrackedDevice
	Detail    *models.DeviceDetail
	Analytics *models.DeviceAnalytics
	History   *models.HistoryListResponse
	Loading   bool
	LoadError string
}

// StalkerSnapshot es la copia publicada del estado del core para los
// handlers web. Se reemplaza entera en cada cambio relevante.
type StalkerSnapshot struct {
	Devices   []models.TrackedDevice
	Status    models.SystemStatus
	ConnState ConnState
	Detail    *DetailView
	Generated time.Time
}

// StalkerOptions agrupa las dependencias y parámetros del core
type StalkerOptions struct {
	Client         *api.Client
	Endpoint       string
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	KeepaliveEvery time.Duration
	RefreshEvery   time.Duration
	Sink           notify.Sink
}

// StalkerCore es el núcleo de sincronización del dashboard de rastreo.
// Todo el estado mutable vive en la goroutine del bucle de eventos; el
// exterior interactúa encolando closures y leyendo snapshots inmutables.
type StalkerCore struct {
	client *api.Client
	sink   notify.Sink

	events chan func()
	timers *timerLedger

	conn   *ConnectionManager
	poller *PollScheduler

	vm     *ViewModel
	detail *DetailView

	refreshEvery time.Duration

	snapshot publishedSnapshot
}

// NewStalkerCore construye el core sin arrancarlo. Las URLs del WebSocket
// se derivan fuera (ver DeriveEndpoint).
func NewStalkerCore(opts StalkerOptions) *StalkerCore {
	if opts.Sink == nil {
		opts.Sink = notify.LogSink{}
	}

	c := &StalkerCore{
		client:       opts.Client,
		sink:         opts.Sink,
		events:       make(chan func(), 256),
		timers:       newTimerLedger(),
		vm:           NewViewModel(),
		refreshEvery: opts.RefreshEvery,
	}

	c.conn = NewConnectionManager(ConnectionConfig{
		Endpoint:       opts.Endpoint,
		Encoding:       KeepaliveText,
		ReconnectDelay: opts.ReconnectDelay,
		KeepaliveEvery: opts.KeepaliveEvery,
		OnMessage:      c.handleMessage,
		OnState:        c.handleConnState,
	}, c.timers, c.Post)

	c.poller = NewPollScheduler(opts.PollInterval, c.timers, c.Post, c.pollFetch)

	return c
}

// Post encola un closure en el bucle de eventos. Es el único punto de
// entrada para mutar estado desde fuera.
func (c *StalkerCore) Post(fn func()) {
	c.events <- fn
}

// Run arranca el bucle de eventos y bloquea hasta que ctx se cancele.
// Conecta el WebSocket y activa el poll de respaldo de inmediato.
func (c *StalkerCore) Run(ctx context.Context) {
	log.Println("🚀 Core Stalker iniciado")

	c.Post(func() {
		c.conn.Connect()
		c.poller.Start()
		c.armRefresh()
	})

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case fn := <-c.events:
			fn()
		}
	}
}

func (c *StalkerCore) shutdown() {
	log.Println("🛑 Core Stalker detenido")
	c.poller.Stop()
	c.conn.Shutdown()
	c.timers.CancelAll()
}

// Snapshot retorna la última copia publicada del estado. Seguro desde
// cualquier goroutine.
func (c *StalkerCore) Snapshot() StalkerSnapshot {
	return c.snapshot.load()
}

// handleMessage despacha un mensaje push ya parseado. Corre en el bucle
// de eventos.
func (c *StalkerCore) handleMessage(msg models.PushMessage) {
	switch m := msg.(type) {
	case models.DeviceUpdateMessage:
		c.applyDeviceUpdate(m.Device)
	case models.StatusUpdateMessage:
		c.vm.ApplyAggregate(m.Status)
		c.publish()
	case models.StatsUpdateMessage:
		// Mensaje del dashboard de métricas; aquí no aplica
	case models.PongMessage:
		// Acuse del keepalive, nada que hacer
	case models.UnknownMessage:
		log.Printf("⚠️ Tipo de mensaje desconocido ignorado: %q", m.Type)
	}
}

func (c *StalkerCore) handleConnState(s ConnState) {
	switch s {
	case StateConnected:
		notify.Infof(c.sink, "Conexión", "Sincronización en tiempo real activa")
	case StateDisconnected:
		c.sink.Notify(notify.Notification{
			Level:     notify.LevelWarning,
			Title:     "Conexión",
			Message:   "Enlace en tiempo real caído, reintentando",
			Timestamp: time.Now(),
		})
	}
	c.publish()
}

func (c *StalkerCore) applyDeviceUpdate(u models.DeviceUpdate) {
	transitions := c.vm.ApplyDeviceUpdate(u)

	for _, t := range transitions {
		name := t.Device.FriendlyName
		if name == "" {
			name = t.Device.MACAddress
		}
		switch t.Kind {
		case TransitionConnected:
			c.sink.Notify(notify.Notification{
				Level: notify.LevelSuccess, Title: "Dispositivo conectado",
				Message: name, DeviceMAC: t.Device.MACAddress, Timestamp: time.Now(),
			})
		case TransitionDisconnected:
			c.sink.Notify(notify.Notification{
				Level: notify.LevelWarning, Title: "Dispositivo desconectado",
				Message: name, DeviceMAC: t.Device.MACAddress, Timestamp: time.Now(),
			})
		case TransitionDiscovered:
			c.sink.Notify(notify.Notification{
				Level: notify.LevelInfo, Title: "Dispositivo nuevo",
				Message: name, DeviceMAC: t.Device.MACAddress, Timestamp: time.Now(),
			})
		case TransitionBlocked:
			c.sink.Notify(notify.Notification{
				Level: notify.LevelWarning, Title: "Dispositivo bloqueado",
				Message: name, DeviceMAC: t.Device.MACAddress, Timestamp: time.Now(),
			})
		case TransitionUnblocked:
			c.sink.Notify(notify.Notification{
				Level: notify.LevelSuccess, Title: "Dispositivo desbloqueado",
				Message: name, DeviceMAC: t.Device.MACAddress, Timestamp: time.Now(),
			})
		}
	}

	// Si el detalle abierto es este dispositivo, refrescar su copia
	if c.detail != nil {
		if d, ok := c.vm.Device(c.detail.MAC); ok && d.MACAddress == c.detail.MAC {
			c.detail.Device = d
		}
	}

	c.publish()
}

// pollFetch lanza el refresco HTTP completo. El fallo se notifica y se
// descarta; el estado previo queda intacto hasta el próximo ciclo.
func (c *StalkerCore) pollFetch() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		list, err := c.client.ListDevices(ctx)
		if err != nil {
			c.Post(func() { c.pollFailed(err) })
			return
		}
		status, err := c.client.GetStatus(ctx)
		if err != nil {
			c.Post(func() { c.pollFailed(err) })
			return
		}

		c.Post(func() {
			c.vm.ApplyFull(list.Devices, *status)
			c.publish()
		})
	}()
}

func (c *StalkerCore) pollFailed(err error) {
	log.Printf("⚠️ Fallo el refresco por poll: %v", err)
	notify.Errorf(c.sink, "Refresco", "%s", api.FormatError(err))
}

// OpenDetail abre la vista de detalle del dispositivo y lanza las cargas
// lentas (detalle vivo, analítica, historial). Los resultados de un detalle
// ya cerrado o reemplazado se descartan por identidad.
func (c *StalkerCore) OpenDetail(mac string) {
	c.Post(func() {
		d, ok := c.vm.Device(mac)
		if !ok {
			notify.Errorf(c.sink, "Detalle", "Dispositivo %s no encontrado", mac)
			return
		}

		c.detail = &DetailView{
			MAC:      d.MACAddress,
			DeviceID: d.ID,
			Device:   d,
			Loading:  true,
		}
		c.publish()

		target := d.MACAddress
		deviceID := d.ID

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			detail, derr := c.client.GetDeviceDetails(ctx, deviceID)
			analytics, aerr := c.client.FetchAnalytics(ctx, deviceID)
			history, herr := c.client.GetHistory(ctx, deviceID)

			c.Post(func() {
				// Guardia de identidad: el detalle pudo cerrarse o cambiar
				// de dispositivo mientras la carga estaba en vuelo
				if c.detail == nil || c.detail.MAC != target {
					return
				}
				c.detail.Loading = false
				if derr != nil {
					c.detail.LoadError = api.FormatError(derr)
				} else {
					c.detail.Detail = detail
				}
				if aerr != nil {
					notify.Errorf(c.sink, "Detalle", "Analítica de %s: %s", target, api.FormatError(aerr))
				}
				if herr != nil {
					notify.Errorf(c.sink, "Detalle", "Historial de %s: %s", target, api.FormatError(herr))
				}
				c.detail.Analytics = analytics
				c.detail.History = history
				c.publish()
			})
		}()
	})
}

// CloseDetail cierra la vista de detalle actual
func (c *StalkerCore) CloseDetail() {
	c.Post(func() {
		c.detail = nil
		c.publish()
	})
}

// BlockDevice solicita el bloqueo al backend; el cambio de estado real llega
// después por push
func (c *StalkerCore) BlockDevice(mac string) {
	c.deviceAction(mac, "bloquear", c.client.BlockDevice)
}

// UnblockDevice solicita el desbloqueo al backend
func (c *StalkerCore) UnblockDevice(mac string) {
	c.deviceAction(mac, "desbloquear", c.client.UnblockDevice)
}

// RemoveDevice da de baja el dispositivo del rastreo
func (c *StalkerCore) RemoveDevice(mac string) {
	c.deviceAction(mac, "eliminar", c.client.DeleteDevice)
}

func (c *StalkerCore) deviceAction(mac, verbo string, fn func(context.Context, int) error) {
	c.Post(func() {
		d, ok := c.vm.Device(mac)
		if !ok {
			notify.Errorf(c.sink, "Acción", "Dispositivo %s no encontrado", mac)
			return
		}
		deviceID := d.ID

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			if err := fn(ctx, deviceID); err != nil {
				c.Post(func() {
					notify.Errorf(c.sink, "Acción", "No se pudo %s %s: %s", verbo, mac, api.FormatError(err))
				})
				return
			}
			// El push confirmará el cambio; forzamos un poll por si el
			// enlace está caído
			c.Post(func() { c.pollFetch() })
		}()
	})
}

// AddDevice registra un dispositivo nuevo para rastreo
func (c *StalkerCore) AddDevice(create models.DeviceCreate) {
	c.Post(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			d, err := c.client.CreateDevice(ctx, create)
			if err != nil {
				c.Post(func() {
					notify.Errorf(c.sink, "Alta", "No se pudo registrar %s: %s", create.MACAddress, api.FormatError(err))
				})
				return
			}
			c.Post(func() {
				c.vm.ApplyDeviceUpdate(models.DeviceUpdate{
					ID:         d.ID,
					MACAddress: d.MACAddress,
				})
				notify.Infof(c.sink, "Alta", "Dispositivo %s registrado", d.MACAddress)
				c.pollFetch()
			})
		}()
	})
}

// armRefresh re-publica el snapshot periódicamente para que los timestamps
// relativos de la página de estado avancen aunque no haya eventos
func (c *StalkerCore) armRefresh() {
	if c.refreshEvery <= 0 {
		return
	}
	c.timers.Arm(RoleRefresh, c.refreshEvery, func() {
		c.Post(func() {
			c.publish()
			c.armRefresh()
		})
	})
}

func (c *StalkerCore) publish() {
	snap := StalkerSnapshot{
		Devices:   c.vm.Devices(),
		Status:    c.vm.Status(),
		ConnState: c.conn.State(),
		Generated: time.Now(),
	}
	if c.detail != nil {
		d := *c.detail
		snap.Detail = &d
	}
	c.snapshot.store(snap)
}
