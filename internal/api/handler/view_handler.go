package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ViewHandler struct {
	viewSvc service.ViewService
}

func NewViewHandler(viewSvc service.ViewService) *ViewHandler {
	return &ViewHandler{viewSvc: viewSvc}
}

// TrackView 阅读打点。匿名可用，身份信息来自可选鉴权。
func (s *ViewHandler) TrackView(c *gin.Context) {
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	userID := c.GetUint64("user_id")
	counted, viewsCount, err := s.viewSvc.TrackView(
		c.Request.Context(),
		novelID,
		userID,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.TrackViewResultDTO{Counted: counted, ViewsCount: viewsCount})
}

func (s *ViewHandler) GetViewCount(c *gin.Context) {
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	count, err := s.viewSvc.GetViewCount(c.Request.Context(), novelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ViewCountDTO{NovelID: novelID, ViewsCount: count})
}
