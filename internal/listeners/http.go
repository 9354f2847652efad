package listeners

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"PANEL-UNIFI/internal/models"
)

// HTTPFrontend es el servidor REST del backend simulado. Expone la misma
// superficie que el backend real de los dashboards para poder desarrollar
// el panel contra él.
type HTTPFrontend struct {
	router *gin.Engine
	addr   string
	world  *World
	wsHub  *WebSocketHub
}

// NewHTTPFrontend crea el servidor con CORS abierto y las rutas montadas
func NewHTTPFrontend(addr string, world *World, hub *WebSocketHub) *HTTPFrontend {
	router := gin.Default()

	// CORS abierto: el panel corre en otro puerto durante desarrollo
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.NoRoute(func(c *gin.Context) {
		NotFound(c, "La ruta que buscas no existe en este servidor")
	})

	f := &HTTPFrontend{
		router: router,
		addr:   addr,
		world:  world,
		wsHub:  hub,
	}

	f.setupRoutes()
	SetupWebSocketRoutes(router, hub)
	return f
}

// Run arranca el servidor HTTP (bloquea)
func (f *HTTPFrontend) Run() error {
	log.Printf("🌐 Backend simulado escuchando en %s", f.addr)
	return f.router.Run(f.addr)
}

func (f *HTTPFrontend) setupRoutes() {
	stalker := f.router.Group("/api")
	{
		stalker.GET("/devices", f.listDevices)
		stalker.POST("/devices", f.createDevice)
		stalker.GET("/devices/discover/unifi", f.discover)
		stalker.GET("/devices/:id", f.getDevice)
		stalker.DELETE("/devices/:id", f.deleteDevice)
		stalker.POST("/devices/:id/block", f.blockDevice)
		stalker.POST("/devices/:id/unblock", f.unblockDevice)
		stalker.GET("/devices/:id/details", f.deviceDetails)
		stalker.GET("/devices/:id/history", f.deviceHistory)
		stalker.GET("/devices/:id/history/export", f.exportHistory)
		stalker.GET("/devices/:id/analytics/dwell-time", f.dwellTime)
		stalker.GET("/devices/:id/analytics/favorite-ap", f.favoriteAP)
		stalker.GET("/devices/:id/analytics/presence-pattern", f.presencePattern)
		stalker.GET("/status", f.status)

		stalker.GET("/webhooks", f.listWebhooks)
		stalker.POST("/webhooks", f.createWebhook)
		stalker.PUT("/webhooks/:id", f.updateWebhook)
		stalker.DELETE("/webhooks/:id", f.deleteWebhook)
		stalker.POST("/webhooks/:id/test", f.testWebhook)
	}

	pulse := f.router.Group("/api/pulse")
	{
		pulse.GET("/dashboard", f.dashboard)
		pulse.GET("/status", f.pulseStatus)
	}
}

func deviceID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID de dispositivo inválido", c.Param("id"))
		return 0, false
	}
	return id, true
}

func (f *HTTPFrontend) listDevices(c *gin.Context) {
	c.JSON(http.StatusOK, f.world.ListDevices())
}

func (f *HTTPFrontend) createDevice(c *gin.Context) {
	var create models.DeviceCreate
	if err := c.ShouldBindJSON(&create); err != nil {
		BadRequest(c, "Cuerpo de la solicitud inválido", err.Error())
		return
	}

	d, err := f.world.CreateDevice(create)
	if err != nil {
		if _, nerr := models.NormalizeMAC(create.MACAddress); nerr != nil {
			BadRequest(c, "Dirección MAC inválida", nerr.Error())
			return
		}
		Conflict(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (f *HTTPFrontend) getDevice(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	d, found := f.world.FindDevice(id)
	if !found {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	c.JSON(http.StatusOK, d)
}

func (f *HTTPFrontend) deleteDevice(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if !f.world.DeleteDevice(id) {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	OK(c, "Dispositivo eliminado del rastreo")
}

func (f *HTTPFrontend) blockDevice(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if !f.world.SetBlocked(id, true) {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	OK(c, "Dispositivo bloqueado")
}

func (f *HTTPFrontend) unblockDevice(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if !f.world.SetBlocked(id, false) {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	OK(c, "Dispositivo desbloqueado")
}

func (f *HTTPFrontend) deviceDetails(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	detail, found := f.world.Detail(id)
	if !found {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (f *HTTPFrontend) deviceHistory(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if _, found := f.world.FindDevice(id); !found {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	c.JSON(http.StatusOK, f.world.History(id))
}

func (f *HTTPFrontend) exportHistory(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if _, found := f.world.FindDevice(id); !found {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}

	history := f.world.History(id)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=historial_%d.csv", id))

	c.Writer.WriteString("connected_at,disconnected_at,ap_name,ssid,signal,duration_seconds\n")
	for _, e := range history.History {
		disconnected := ""
		if e.DisconnectedAt != nil {
			disconnected = e.DisconnectedAt.Format("2006-01-02 15:04:05")
		}
		c.Writer.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d\n",
			e.ConnectedAt.Format("2006-01-02 15:04:05"), disconnected,
			e.APName, e.SSID, e.SignalStrength, e.DurationSeconds))
	}
}

func (f *HTTPFrontend) dwellTime(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if _, found := f.world.FindDevice(id); !found {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	c.JSON(http.StatusOK, f.world.DwellTime(id))
}

func (f *HTTPFrontend) favoriteAP(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if _, found := f.world.FindDevice(id); !found {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	c.JSON(http.StatusOK, f.world.FavoriteAP(id))
}

func (f *HTTPFrontend) presencePattern(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}
	if _, found := f.world.FindDevice(id); !found {
		NotFound(c, fmt.Sprintf("Dispositivo %d no encontrado", id))
		return
	}
	c.JSON(http.StatusOK, f.world.PresencePattern(id))
}

func (f *HTTPFrontend) discover(c *gin.Context) {
	c.JSON(http.StatusOK, f.world.Discover())
}

func (f *HTTPFrontend) status(c *gin.Context) {
	c.JSON(http.StatusOK, f.world.Status())
}

func (f *HTTPFrontend) listWebhooks(c *gin.Context) {
	c.JSON(http.StatusOK, f.world.ListWebhooks())
}

func (f *HTTPFrontend) createWebhook(c *gin.Context) {
	var create models.WebhookCreate
	if err := c.ShouldBindJSON(&create); err != nil {
		BadRequest(c, "Cuerpo de la solicitud inválido", err.Error())
		return
	}

	switch create.WebhookType {
	case "slack", "discord", "n8n":
	default:
		BadRequest(c, "Tipo de webhook inválido (slack, discord, n8n)", create.WebhookType)
		return
	}

	c.JSON(http.StatusCreated, f.world.CreateWebhook(create))
}

func (f *HTTPFrontend) updateWebhook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID de webhook inválido", c.Param("id"))
		return
	}

	var update models.WebhookUpdate
	if berr := c.ShouldBindJSON(&update); berr != nil {
		BadRequest(c, "Cuerpo de la solicitud inválido", berr.Error())
		return
	}

	wh, found := f.world.UpdateWebhook(id, update)
	if !found {
		NotFound(c, fmt.Sprintf("Webhook %d no encontrado", id))
		return
	}
	c.JSON(http.StatusOK, wh)
}

func (f *HTTPFrontend) deleteWebhook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID de webhook inválido", c.Param("id"))
		return
	}
	if !f.world.DeleteWebhook(id) {
		NotFound(c, fmt.Sprintf("Webhook %d no encontrado", id))
		return
	}
	OK(c, "Webhook eliminado")
}

func (f *HTTPFrontend) testWebhook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		BadRequest(c, "ID de webhook inválido", c.Param("id"))
		return
	}
	if !f.world.HasWebhook(id) {
		NotFound(c, fmt.Sprintf("Webhook %d no encontrado", id))
		return
	}
	OK(c, "Notificación de prueba enviada")
}

func (f *HTTPFrontend) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, f.world.Dashboard())
}

func (f *HTTPFrontend) pulseStatus(c *gin.Context) {
	c.JSON(http.StatusOK, f.world.PulseStatus())
}
