package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/service"
	log "log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NovelHandler struct {
	novelSvc service.NovelService
}

func NewNovelHandler(novelSvc service.NovelService) *NovelHandler {
	return &NovelHandler{novelSvc: novelSvc}
}

func (s *NovelHandler) CreateNovel(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var createDTO dto.CreateNovelDTO
	err := c.ShouldBind(&createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	novelDTO, err := s.novelSvc.CreateNovel(c.Request.Context(), userID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, novelDTO)
}

func (s *NovelHandler) GetNovel(c *gin.Context) {
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	novelDTO, err := s.novelSvc.GetNovel(c.Request.Context(), novelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, novelDTO)
}

func (s *NovelHandler) GetLatestNovels(c *gin.Context) {
	var pageDTO dto.PageDTO
	if err := c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	pageDTO.Normalize()
	novels, err := s.novelSvc.GetLatestNovels(c.Request.Context(), pageDTO.Limit, pageDTO.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, novels)
}

func (s *NovelHandler) GetNovelsByAuthor(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
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
	novels, err := s.novelSvc.GetNovelsByAuthor(c.Request.Context(), authorID, pageDTO.Limit, pageDTO.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, novels)
}

func (s *NovelHandler) GetMyNovels(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var pageDTO dto.PageDTO
	if err := c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	pageDTO.Normalize()
	novels, err := s.novelSvc.GetNovelsByAuthor(c.Request.Context(), userID, pageDTO.Limit, pageDTO.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, novels)
}

func (s *NovelHandler) SearchNovels(c *gin.Context) {
	var searchDTO dto.SearchNovelDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	novels, err := s.novelSvc.SearchNovels(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, novels)
}

func (s *NovelHandler) GetSuggestions(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		response.Success(c, []string{})
		return
	}
	suggestions, err := s.novelSvc.GetSuggestions(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, suggestions)
}

func (s *NovelHandler) UpdateNovel(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var updateDTO dto.UpdateNovelDTO
	if err = c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.novelSvc.UpdateNovel(c.Request.Context(), userID, novelID, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NovelHandler) UploadCover(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	ext := path.Ext(file.Filename)
	objectName := "covers/" + uuid.NewString() + ext
	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	err = s.novelSvc.UpdateCover(c.Request.Context(), userID, novelID, fileKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NovelHandler) DeleteNovel(c *gin.Context) {
	userID := c.GetUint64("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.novelSvc.DeleteNovel(c.Request.Context(), userID, novelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
