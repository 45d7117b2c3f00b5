package endpoints

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/hub"
)

// Presence records which sessions are alive. It is observability only.
type Presence interface {
	Touch(ctx context.Context, sessionID, zone string)
	Forget(ctx context.Context, sessionID string)
	Online(ctx context.Context) (map[string]string, error)
}

func DisplaysModule(h *hub.Hub, presence Presence) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/displays", api.ResolveEndpoint(func(ctx *gin.Context) (any, *api.APIError) {
			online, err := presence.Online(ctx.Request.Context())
			if err != nil {
				return nil, api.FromError(err)
			}
			return packets.DisplaysResponse{Zones: h.Counts(), Online: online}, nil
		}))
	})
}
