package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/hub"
	"github.com/Nixie-Tech-LLC/zonecast/internal/schedule"
)

type ZoneController struct {
	zones    db.ZoneStore
	hub      *hub.Hub
	schedule *schedule.Manager
}

func NewZoneController(zones db.ZoneStore, h *hub.Hub, sched *schedule.Manager) *ZoneController {
	return &ZoneController{zones: zones, hub: h, schedule: sched}
}

// ZoneModule serves zone reference data and the pull side of the active set.
func ZoneModule(zones db.ZoneStore, h *hub.Hub, sched *schedule.Manager) api.Module {
	ctl := NewZoneController(zones, h, sched)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/zones", api.ResolveEndpoint(ctl.listZones))
		c.GET("/zones/:zone/active", api.ResolveEndpoint(ctl.activeSet))
		c.GET("/zones/:zone/upcoming", api.ResolveEndpoint(ctl.upcoming))
	})
}

func (z *ZoneController) listZones(ctx *gin.Context) (any, *api.APIError) {
	zones, err := z.zones.ListZones(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	response := make([]packets.ZoneResponse, 0, len(zones))
	for _, x := range zones {
		response = append(response, packets.ZoneResponse{
			ID:           x.ID,
			DisplayName:  x.DisplayName,
			Description:  x.Description,
			DisplayOrder: x.DisplayOrder,
		})
	}
	return response, nil
}

// activeSet is the authoritative pull: it re-resolves regardless of what
// was pushed before.
func (z *ZoneController) activeSet(ctx *gin.Context) (any, *api.APIError) {
	zone := ctx.Param("zone")
	if _, err := z.zones.GetZone(ctx.Request.Context(), zone); err != nil {
		return nil, api.FromError(err)
	}
	update, err := z.hub.Snapshot(ctx.Request.Context(), zone)
	if err != nil {
		return nil, api.FromError(err)
	}
	return update, nil
}

func (z *ZoneController) upcoming(ctx *gin.Context) (any, *api.APIError) {
	limit := 0
	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "limit must be a positive integer"}
		}
		limit = n
	}

	items, err := z.schedule.Upcoming(ctx.Request.Context(), ctx.Param("zone"), z.hub.Now(), limit)
	if err != nil {
		return nil, api.FromError(err)
	}
	return items, nil
}
