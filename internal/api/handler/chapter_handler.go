package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	chapterSvc service.ChapterService
}

func NewChapterHandler(chapterSvc service.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterSvc: chapterSvc}
}

func (s *ChapterHandler) CreateChapter(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var createDTO dto.CreateChapterDTO
	if err = c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	chapterDTO, err := s.chapterSvc.CreateChapter(c.Request.Context(), userID, novelID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chapterDTO)
}

func (s *ChapterHandler) GetChapterContent(c *gin.Context) {
	userID := c.GetUint64("user_id")
	chapterID, err := strconv.ParseUint(c.Param("chapter_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	contentDTO, err := s.chapterSvc.GetChapterContent(c.Request.Context(), userID, chapterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, contentDTO)
}

func (s *ChapterHandler) GetChapters(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	chapters, err := s.chapterSvc.GetChapters(c.Request.Context(), userID, novelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chapters)
}

func (s *ChapterHandler) UpdateChapter(c *gin.Context) {
	userID := c.GetUint64("user_id")
	chapterID, err := strconv.ParseUint(c.Param("chapter_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var updateDTO dto.UpdateChapterDTO
	if err = c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.chapterSvc.UpdateChapter(c.Request.Context(), userID, chapterID, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChapterHandler) PublishChapter(c *gin.Context) {
	userID := c.GetUint64("user_id")
	chapterID, err := strconv.ParseUint(c.Param("chapter_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.chapterSvc.PublishChapter(c.Request.Context(), userID, chapterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChapterHandler) DeleteChapter(c *gin.Context) {
	userID := c.GetUint64("user_id")
	chapterID, err := strconv.ParseUint(c.Param("chapter_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.chapterSvc.DeleteChapter(c.Request.Context(), userID, chapterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
