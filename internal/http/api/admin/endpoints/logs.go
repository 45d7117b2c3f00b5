package endpoints

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

type LogLister interface {
	ListLogs(ctx context.Context, limit int) ([]model.LogEntry, error)
}

// LogModule serves the audit trail, newest first.
func LogModule(store LogLister) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/logs", api.ResolveEndpoint(func(ctx *gin.Context) (any, *api.APIError) {
			limit := defaultLogLimit
			if v := ctx.Query("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n <= 0 {
					return nil, &api.APIError{Code: http.StatusBadRequest, Message: "limit must be a positive integer"}
				}
				limit = min(n, maxLogLimit)
			}

			entries, err := store.ListLogs(ctx.Request.Context(), limit)
			if err != nil {
				return nil, api.FromError(err)
			}
			response := make([]packets.LogResponse, 0, len(entries))
			for _, l := range entries {
				response = append(response, logResponse(l))
			}
			return response, nil
		}))
	})
}
