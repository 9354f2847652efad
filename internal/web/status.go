package web

import (
	"fmt"
	"net/http"
	"time"

	"PANEL-UNIFI/internal/charts"
	"PANEL-UNIFI/internal/liveview"
	"PANEL-UNIFI/internal/notify"
)

const pageStyle = `
	body {
		font-family: 'Segoe UI', Arial, sans-serif;
		background: linear-gradient(120deg, #e0eafc 0%, #cfdef3 100%);
		margin: 0;
		padding: 0;
	}
	.container {
		max-width: 900px;
		margin: 40px auto;
		background: #fff;
		border-radius: 16px;
		box-shadow: 0 4px 24px rgba(0,0,0,0.08);
		padding: 32px 24px;
	}
	h1 {
		text-align: center;
		color: #2a5298;
		margin-bottom: 32px;
	}
	table {
		width: 100%;
		border-collapse: collapse;
		margin-bottom: 16px;
	}
	th, td {
		padding: 12px 8px;
		text-align: left;
	}
	th {
		background: #2a5298;
		color: #fff;
		font-weight: 600;
		border-bottom: 2px solid #e0eafc;
	}
	tr:nth-child(even) {
		background: #f4f8fb;
	}
	tr:hover {
		background: #e0eafc;
	}
	.error {
		color: #d32f2f;
		font-weight: bold;
	}
	.ok {
		color: #388e3c;
		font-weight: bold;
	}
	.warn {
		color: #f9a825;
		font-weight: bold;
	}
	.timestamp {
		font-size: 0.95em;
		color: #666;
	}
	.bar {
		display: inline-block;
		height: 18px;
		border-radius: 6px;
		margin-left: 8px;
	}
	.toast {
		padding: 8px 12px;
		margin: 4px 0;
		border-radius: 8px;
		background: #f4f8fb;
		border-left: 4px solid #2a5298;
	}
`

func connBadge(state liveview.ConnState) string {
	switch state {
	case liveview.StateConnected:
		return `<span class='ok'>● Tiempo real</span>`
	case liveview.StateConnecting:
		return `<span class='warn'>● Conectando…</span>`
	default:
		return `<span class='error'>● Desconectado (poll de respaldo)</span>`
	}
}

// StalkerPageHandler sirve la página de estado del dashboard de rastreo:
// tabla de dispositivos, contadores, detalle abierto y notificaciones vivas
func StalkerPageHandler(core *liveview.StalkerCore, feed *notify.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := core.Snapshot()

		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<meta http-equiv='refresh' content='5'>
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Stalker</title>
	<style>%s</style>
</head>
<body>
	<div class="container">
		<h1>Rastreo de dispositivos</h1>
		<p>%s &nbsp; Rastreados: <b>%d</b> &nbsp; Conectados: <b>%d</b></p>
`, pageStyle, connBadge(snap.ConnState), snap.Status.TrackedDevices, snap.Status.ConnectedDevices)

		if feed != nil {
			for _, n := range feed.Active(time.Now()) {
				fmt.Fprintf(w, "<div class='toast'><b>%s</b> %s</div>\n", n.Title, n.Message)
			}
		}

		fmt.Fprintf(w, "<table>\n<tr><th>Estado</th><th>Nombre</th><th>MAC</th><th>AP</th><th>SSID</th><th>Señal</th><th>Visto</th></tr>\n")

		for _, d := range snap.Devices {
			estado := "<span class='error'>●</span>"
			if d.IsConnected {
				estado = "<span class='ok'>●</span>"
			}
			if d.IsBlocked {
				estado = "<span class='error'>⛔</span>"
			}

			visto := "-"
			if d.LastSeen != nil {
				visto = relativeTime(time.Since(*d.LastSeen))
			}

			nombre := d.FriendlyName
			if nombre == "" {
				nombre = d.MACAddress
			}

			fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d dBm</td><td class='timestamp'>%s</td></tr>\n",
				estado, nombre, d.MACAddress, d.CurrentAPName, d.CurrentSSID, d.CurrentSignalStrength, visto)
		}

		fmt.Fprintf(w, "</table>\n")

		if det := snap.Detail; det != nil {
			fmt.Fprintf(w, "<h1>Detalle: %s</h1>\n", det.Device.FriendlyName)
			if det.Loading {
				fmt.Fprintf(w, "<p class='timestamp'>Cargando datos del controlador…</p>\n")
			}
			if det.LoadError != "" {
				fmt.Fprintf(w, "<p class='error'>%s</p>\n", det.LoadError)
			}
			if det.Detail != nil {
				fmt.Fprintf(w, "<p>Fabricante: %s &nbsp; TX: %.0f Mbps &nbsp; RX: %.0f Mbps &nbsp; Canal: %d</p>\n",
					det.Detail.Manufacturer, det.Detail.TxRate, det.Detail.RxRate, det.Detail.Channel)
			}
			if det.Analytics != nil && det.Analytics.FavoriteAP != nil {
				fmt.Fprintf(w, "<p>AP favorito: <b>%s</b> (%d sesiones)</p>\n",
					det.Analytics.FavoriteAP.APName, det.Analytics.FavoriteAP.Sessions)
			}
		}

		fmt.Fprintf(w, `		<div style='text-align:center;color:#888;font-size:0.95em;'>Actualización automática cada 5 segundos</div>
	</div>
</body>
</html>`)
	}
}

// PulsePageHandler sirve la página de estado del dashboard de métricas:
// salud del gateway, WAN, APs y los gráficos dibujados sobre la superficie
func PulsePageHandler(core *liveview.PulseCore, surface *ChartSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := core.Snapshot()

		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<meta http-equiv='refresh' content='5'>
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Pulse</title>
	<style>%s</style>
</head>
<body>
	<div class="container">
		<h1>Métricas de red</h1>
		<p>%s</p>
`, pageStyle, connBadge(snap.ConnState))

		if snap.Data == nil {
			fmt.Fprintf(w, "<p class='timestamp'>Esperando el primer snapshot del backend…</p>\n</div></body></html>")
			return
		}

		data := snap.Data
		fmt.Fprintf(w, "<p>Gateway <b>%s</b> (%s) &nbsp; CPU %.1f%% &nbsp; RAM %.1f%%</p>\n",
			data.Gateway.Name, data.Gateway.Model, data.Gateway.CPUUtilization, data.Gateway.MemUtilization)
		fmt.Fprintf(w, "<p>WAN <b>%s</b> (%s) &nbsp; Latencia %.0f ms &nbsp; Disponibilidad %.1f%%</p>\n",
			data.WAN.Status, data.WAN.ISPName, data.WAN.Latency, data.WAN.Availability)
		fmt.Fprintf(w, "<p>Clientes: <b>%d</b> &nbsp; APs: <b>%d</b> &nbsp; Switches: <b>%d</b></p>\n",
			data.Devices.Clients, data.Devices.APs, data.Devices.Switches)

		if surface != nil {
			rendered := surface.Snapshot()
			renderChartTable(w, "Clientes por banda", rendered[charts.SlotDoughnut])
			renderChartTable(w, "Clientes por SSID", rendered[charts.SlotBar])
		}

		fmt.Fprintf(w, "<table>\n<tr><th>AP</th><th>Modelo</th><th>Clientes</th><th>Canales</th><th>Satisfacción</th></tr>\n")
		for _, ap := range data.AccessPoints {
			fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%d%%</td></tr>\n",
				ap.Name, ap.Model, ap.NumSta, ap.Channels, ap.Satisfaction)
		}
		fmt.Fprintf(w, "</table>\n")

		fmt.Fprintf(w, `		<div style='text-align:center;color:#888;font-size:0.95em;'>Actualización automática cada 5 segundos</div>
	</div>
</body>
</html>`)
	}
}

// renderChartTable pinta una serie como barras horizontales con el color
// asignado a cada etiqueta
func renderChartTable(w http.ResponseWriter, title string, data charts.SeriesData) {
	if len(data.Labels) == 0 {
		return
	}

	maxVal := 0.0
	for _, v := range data.Values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	fmt.Fprintf(w, "<h1>%s</h1>\n<table>\n", title)
	for i, label := range data.Labels {
		value := 0.0
		if i < len(data.Values) {
			value = data.Values[i]
		}
		color := "#2a5298"
		if i < len(data.Colors) {
			color = data.Colors[i]
		}
		width := int(value / maxVal * 300)
		fmt.Fprintf(w, "<tr><td>%s</td><td>%.0f <div class='bar' style='width:%dpx;background:%s'></div></td></tr>\n",
			label, value, width, color)
	}
	fmt.Fprintf(w, "</table>\n")
}

// relativeTime formatea una antigüedad en texto corto
func relativeTime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "hace instantes"
	case d < time.Hour:
		return fmt.Sprintf("hace %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("hace %d h", int(d.Hours()))
	default:
		return fmt.Sprintf("hace %d días", int(d.Hours()/24))
	}
}
