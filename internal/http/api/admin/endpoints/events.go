package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
)

// EventsModule streams every published active set to dashboards over SSE.
func EventsModule(stream http.Handler) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/admin/events", gin.WrapH(stream))
	})
}
