package handler

import (
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NovelMetricHandler struct {
	metricSvc service.NovelMetricService
}

func NewNovelMetricHandler(metricSvc service.NovelMetricService) *NovelMetricHandler {
	return &NovelMetricHandler{metricSvc: metricSvc}
}

// GetTrend 作者后台趋势图
func (s *NovelMetricHandler) GetTrend(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trend, err := s.metricSvc.GetTrend(c.Request.Context(), userID, novelID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}
