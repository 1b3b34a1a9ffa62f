package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/serviceerror"
	"github.com/healthcover/service-approval-api/internal/utils"
)

// ConfigManager is the system configuration store exposed over HTTP
type ConfigManager interface {
	Upsert(ctx context.Context, key, value, description string) (*models.SystemConfig, *serviceerror.ServiceError)
	GetByKey(ctx context.Context, key string) (*models.SystemConfig, *serviceerror.ServiceError)
	GetAll(ctx context.Context) ([]models.SystemConfig, *serviceerror.ServiceError)
	Delete(ctx context.Context, id int64) (bool, *serviceerror.ServiceError)
}

// SystemConfigHandler handles system configuration HTTP requests
type SystemConfigHandler struct {
	configs ConfigManager
}

// NewSystemConfigHandler creates a new SystemConfigHandler
func NewSystemConfigHandler(configs ConfigManager) *SystemConfigHandler {
	return &SystemConfigHandler{
		configs: configs,
	}
}

// ListConfigs handles GET /system-config
func (h *SystemConfigHandler) ListConfigs(c *gin.Context) {
	configs, svcErr := h.configs.GetAll(c.Request.Context())
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	utils.SendOKResponse(c, models.SystemConfigListResponse{
		Configs: configs,
		Total:   len(configs),
	})
}

// GetConfig handles GET /system-config/:key
func (h *SystemConfigHandler) GetConfig(c *gin.Context) {
	key := c.Param("key")
	cfg, svcErr := h.configs.GetByKey(c.Request.Context(), key)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	if cfg == nil {
		utils.SendNotFoundError(c, "System config not found: "+key)
		return
	}
	utils.SendOKResponse(c, cfg)
}

// UpsertConfig handles PUT /system-config/:key
func (h *SystemConfigHandler) UpsertConfig(c *gin.Context) {
	var req models.SystemConfigUpsertRequest
	if !bindJSON(c, &req) {
		return
	}

	cfg, svcErr := h.configs.Upsert(c.Request.Context(), c.Param("key"), req.Value, req.Description)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	utils.SendOKResponse(c, cfg)
}

// DeleteConfig handles DELETE /system-config/:id
func (h *SystemConfigHandler) DeleteConfig(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.SendValidationError(c, "id must be a positive integer")
		return
	}

	removed, svcErr := h.configs.Delete(c.Request.Context(), id)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	if !removed {
		utils.SendNotFoundError(c, "System config not found: "+c.Param("id"))
		return
	}
	utils.SendNoContentResponse(c)
}
