package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/content"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

type ContentController struct {
	manager *content.Manager
}

func NewContentController(manager *content.Manager) *ContentController {
	return &ContentController{manager: manager}
}

// ContentModule mounts the read-only content endpoints.
func ContentModule(manager *content.Manager) api.Module {
	ctl := NewContentController(manager)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/content", api.ResolveEndpoint(ctl.listContent))
		c.GET("/content/stats", api.ResolveEndpoint(ctl.contentStats))
		c.GET("/content/:id", api.ResolveEndpoint(ctl.getContent))
	})
}

// ContentAdminModule mounts the content mutations.
func ContentAdminModule(manager *content.Manager) api.Module {
	ctl := NewContentController(manager)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/content", api.ResolveEndpointWithAuth(http.StatusCreated, ctl.createContent))
		c.PUT("/content/:id", api.ResolveEndpointWithAuth(http.StatusOK, ctl.updateContent))
		c.DELETE("/content/:id", api.ResolveEndpointWithAuth(http.StatusOK, ctl.deleteContent))
	})
}

func (c *ContentController) listContent(ctx *gin.Context) (any, *api.APIError) {
	filter := db.ContentFilter{
		Zone: ctx.Query("zone"),
		Type: model.ContentType(ctx.Query("type")),
	}
	if v := ctx.Query("include_inactive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, api.BadRequest("include_inactive must be a boolean")
		}
		filter.IncludeInactive = b
	}

	all, err := c.manager.List(ctx.Request.Context(), filter)
	if err != nil {
		return nil, api.FromError(err)
	}
	response := make([]packets.ContentResponse, 0, len(all))
	for _, x := range all {
		response = append(response, contentResponse(x))
	}
	return response, nil
}

func (c *ContentController) getContent(ctx *gin.Context) (any, *api.APIError) {
	x, err := c.manager.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return nil, api.FromError(err)
	}
	return contentResponse(x), nil
}

func (c *ContentController) contentStats(ctx *gin.Context) (any, *api.APIError) {
	stats, err := c.manager.Stats(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	return stats, nil
}

func (c *ContentController) createContent(ctx *gin.Context, operator string) (any, *api.APIError) {
	var request packets.CreateContentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	x, err := c.manager.Create(ctx.Request.Context(), content.NewContent{
		Title:           request.Title,
		Type:            model.ContentType(request.Type),
		MediaURL:        request.MediaURL,
		MimeType:        request.MimeType,
		Zone:            request.Zone,
		DurationSeconds: request.DurationSeconds,
	})
	if err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Str("operator", operator).Str("content_id", x.ID).Msg("[content] created via api")
	return contentResponse(x), nil
}

func (c *ContentController) updateContent(ctx *gin.Context, operator string) (any, *api.APIError) {
	var request packets.UpdateContentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	x, err := c.manager.Update(ctx.Request.Context(), ctx.Param("id"), db.ContentPatch{
		Title:           request.Title,
		MediaURL:        request.MediaURL,
		Zone:            request.Zone,
		DurationSeconds: request.DurationSeconds,
	})
	if err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Str("operator", operator).Str("content_id", x.ID).Msg("[content] updated via api")
	return contentResponse(x), nil
}

func (c *ContentController) deleteContent(ctx *gin.Context, operator string) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := c.manager.Delete(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Str("operator", operator).Str("content_id", id).Msg("[content] deactivated via api")
	return gin.H{"message": "deleted"}, nil
}
