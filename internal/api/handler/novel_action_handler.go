package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NovelActionHandler struct {
	actionSvc service.NovelActionService
}

func NewNovelActionHandler(actionSvc service.NovelActionService) *NovelActionHandler {
	return &NovelActionHandler{actionSvc: actionSvc}
}

func (s *NovelActionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var createDTO dto.CreateCommentDTO
	if err = c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	commentDTO, err := s.actionSvc.CreateComment(c.Request.Context(), userID, novelID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, commentDTO)
}

func (s *NovelActionHandler) GetComments(c *gin.Context) {
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	rootID, _ := strconv.ParseUint(c.DefaultQuery("root_id", "0"), 10, 64)
	var pageDTO dto.PageDTO
	if err = c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	pageDTO.Normalize()
	comments, err := s.actionSvc.GetComments(c.Request.Context(), novelID, rootID, pageDTO.Limit, pageDTO.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *NovelActionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.actionSvc.DeleteComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NovelActionHandler) LikeComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.actionSvc.LikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NovelActionHandler) UnlikeComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.actionSvc.UnlikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NovelActionHandler) RateNovel(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var rateDTO dto.RateNovelDTO
	if err = c.ShouldBind(&rateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&rateDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.actionSvc.RateNovel(c.Request.Context(), userID, novelID, &rateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NovelActionHandler) GetRatings(c *gin.Context) {
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var pageDTO dto.PageDTO
	if err = c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	pageDTO.Normalize()
	ratings, err := s.actionSvc.GetRatings(c.Request.Context(), novelID, pageDTO.Limit, pageDTO.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ratings)
}
