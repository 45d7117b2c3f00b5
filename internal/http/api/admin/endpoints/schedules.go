package endpoints

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/schedule"
)

type ScheduleController struct {
	manager *schedule.Manager
}

func NewScheduleController(manager *schedule.Manager) *ScheduleController {
	return &ScheduleController{manager: manager}
}

func ScheduleModule(manager *schedule.Manager) api.Module {
	ctl := NewScheduleController(manager)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules/stats", api.ResolveEndpoint(ctl.scheduleStats))
	})
}

func ScheduleAdminModule(manager *schedule.Manager) api.Module {
	ctl := NewScheduleController(manager)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/schedules", api.ResolveEndpointWithAuth(http.StatusCreated, ctl.createSchedule))
		c.DELETE("/schedules/:id", api.ResolveEndpointWithAuth(http.StatusOK, ctl.deleteSchedule))
	})
}

func (s *ScheduleController) createSchedule(ctx *gin.Context, operator string) (any, *api.APIError) {
	var request packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	res, err := s.manager.Create(ctx.Request.Context(), schedule.NewEntry{
		ContentID: request.ContentID,
		Zone:      request.Zone,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		Priority:  request.Priority,
	})
	if err != nil {
		return nil, api.FromError(err)
	}

	response := packets.CreateScheduleResponse{
		Entry:    scheduleEntryResponse(res.Entry),
		Overlaps: make([]packets.ScheduleEntryResponse, 0, len(res.Advisories)),
	}
	for _, e := range res.Advisories {
		response.Overlaps = append(response.Overlaps, scheduleEntryResponse(e))
	}
	if len(res.Advisories) > 0 {
		response.Warning = fmt.Sprintf("overlaps %d higher priority entries; it will be shown after them", len(res.Advisories))
	}
	log.Info().Str("operator", operator).Str("entry_id", res.Entry.ID).Msg("[schedule] created via api")
	return response, nil
}

func (s *ScheduleController) deleteSchedule(ctx *gin.Context, operator string) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := s.manager.Delete(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Str("operator", operator).Str("entry_id", id).Msg("[schedule] deleted via api")
	return gin.H{"message": "deleted"}, nil
}

func (s *ScheduleController) scheduleStats(ctx *gin.Context) (any, *api.APIError) {
	stats, err := s.manager.Stats(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	return stats, nil
}
