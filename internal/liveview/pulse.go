package liveview

import (
	"context"
	"log"
	"sort"
	"time"

	"PANEL-UNIFI/internal/api"
	"PANEL-UNIFI/internal/charts"
	"PANEL-UNIFI/internal/models"
	"PANEL-UNIFI/internal/notify"
)

// PulseSnapshot es la copia publicada del estado del dashboard de métricas
type PulseSnapshot struct {
	Data      *models.DashboardData
	ConnState ConnState
	Generated time.Time
}

// PulseOptions agrupa las dependencias y parámetros del core Pulse
type PulseOptions struct {
	Client         *api.Client
	Endpoint       string
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	KeepaliveEvery time.Duration
	Sink           notify.Sink
	Surface        charts.Surface
}

// PulseCore es el núcleo de sincronización del dashboard de métricas de
// red. A diferencia del Stalker no reconcilia entidad por entidad: cada
// snapshot llega completo y reemplaza al anterior, y los gráficos se
// actualizan en el mismo handle en cada tick.
type PulseCore struct {
	client *api.Client
	sink   notify.Sink

	events chan func()
	timers *timerLedger

	conn   *ConnectionManager
	poller *PollScheduler

	data       *models.DashboardData
	projection *charts.Projection

	snapshot publishedPulse
}

// NewPulseCore construye el core sin arrancarlo
func NewPulseCore(opts PulseOptions) *PulseCore {
	if opts.Sink == nil {
		opts.Sink = notify.LogSink{}
	}

	c := &PulseCore{
		client:     opts.Client,
		sink:       opts.Sink,
		events:     make(chan func(), 256),
		timers:     newTimerLedger(),
		projection: charts.NewProjection(opts.Surface),
	}

	c.conn = NewConnectionManager(ConnectionConfig{
		Endpoint:       opts.Endpoint,
		Encoding:       KeepaliveJSON,
		ReconnectDelay: opts.ReconnectDelay,
		KeepaliveEvery: opts.KeepaliveEvery,
		OnMessage:      c.handleMessage,
		OnState:        c.handleConnState,
	}, c.timers, c.Post)

	c.poller = NewPollScheduler(opts.PollInterval, c.timers, c.Post, c.pollFetch)

	return c
}

// Post encola un closure en el bucle de eventos
func (c *PulseCore) Post(fn func()) {
	c.events <- fn
}

// Run arranca el bucle de eventos y bloquea hasta que ctx se cancele
func (c *PulseCore) Run(ctx context.Context) {
	log.Println("🚀 Core Pulse iniciado")

	c.Post(func() {
		c.conn.Connect()
		c.poller.Start()
	})

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Core Pulse detenido")
			c.poller.Stop()
			c.conn.Shutdown()
			c.timers.CancelAll()
			c.projection.DestroyAll()
			return
		case fn := <-c.events:
			fn()
		}
	}
}

// Snapshot retorna la última copia publicada. Seguro desde cualquier
// goroutine.
func (c *PulseCore) Snapshot() PulseSnapshot {
	return c.snapshot.load()
}

// SetExcludedSSIDs filtra SSIDs del gráfico de barras. Cambiar el filtro
// fuerza la recreación de los gráficos en el próximo snapshot.
func (c *PulseCore) SetExcludedSSIDs(ssids []string) {
	c.Post(func() {
		c.projection.SetExcluded(ssids)
		if c.data != nil {
			c.applyCharts(*c.data)
		}
	})
}

func (c *PulseCore) handleMessage(msg models.PushMessage) {
	switch m := msg.(type) {
	case models.StatsUpdateMessage:
		c.applySnapshot(m.Data)
	case models.DeviceUpdateMessage, models.StatusUpdateMessage:
		// Mensajes del dashboard de rastreo; aquí no aplican
	case models.PongMessage:
		// Acuse del keepalive
	case models.UnknownMessage:
		log.Printf("⚠️ Tipo de mensaje desconocido ignorado: %q", m.Type)
	}
}

func (c *PulseCore) handleConnState(s ConnState) {
	if s == StateDisconnected {
		c.sink.Notify(notify.Notification{
			Level:     notify.LevelWarning,
			Title:     "Conexión",
			Message:   "Enlace de métricas caído, reintentando",
			Timestamp: time.Now(),
		})
	}
	c.publish()
}

// applySnapshot reemplaza el estado completo y redibuja los gráficos
func (c *PulseCore) applySnapshot(data models.DashboardData) {
	c.data = &data
	c.applyCharts(data)
	c.publish()
}

func (c *PulseCore) applyCharts(data models.DashboardData) {
	bands, bandValues := sortedSeries(data.ChartData.ClientsByBand)
	if err := c.projection.Apply(charts.SlotDoughnut, charts.KindDoughnut, charts.SeriesData{
		Labels: bands,
		Values: bandValues,
		Colors: c.projection.BandColors(bands),
	}); err != nil {
		log.Printf("⚠️ Error en gráfico de bandas: %v", err)
	}

	ssids, ssidValues := sortedSeries(data.ChartData.ClientsBySSID)
	if err := c.projection.Apply(charts.SlotBar, charts.KindBar, charts.SeriesData{
		Labels: ssids,
		Values: ssidValues,
		Colors: c.projection.ColorsFor(ssids),
	}); err != nil {
		log.Printf("⚠️ Error en gráfico de SSIDs: %v", err)
	}
}

func (c *PulseCore) pollFetch() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		data, err := c.client.GetDashboard(ctx)
		if err != nil {
			c.Post(func() {
				log.Printf("⚠️ Fallo el refresco del dashboard: %v", err)
				notify.Errorf(c.sink, "Refresco", "%s", api.FormatError(err))
			})
			return
		}

		c.Post(func() {
			c.applySnapshot(*data)
		})
	}()
}

func (c *PulseCore) publish() {
	snap := PulseSnapshot{
		ConnState: c.conn.State(),
		Generated: time.Now(),
	}
	if c.data != nil {
		d := *c.data
		snap.Data = &d
	}
	c.snapshot.store(snap)
}

// sortedSeries convierte el mapa de agregados en series con orden de
// etiquetas estable entre ticks
func sortedSeries(m map[string]int) ([]string, []float64) {
	labels := make([]string, 0, len(m))
	for k := range m {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = float64(m[l])
	}
	return labels, values
}
