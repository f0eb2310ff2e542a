package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/es"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strings"
)

type NovelService interface {
	CreateNovel(ctx context.Context, authorID uint64, createDTO *dto.CreateNovelDTO) (*dto.NovelDTO, error)
	GetNovel(ctx context.Context, id uint64) (*dto.NovelDTO, error)
	GetNovelsByAuthor(ctx context.Context, authorID uint64, limit, offset int) ([]*dto.NovelDTO, error)
	GetLatestNovels(ctx context.Context, limit, offset int) ([]*dto.NovelDTO, error)
	SearchNovels(ctx context.Context, searchDTO *dto.SearchNovelDTO) ([]*dto.NovelDTO, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	UpdateNovel(ctx context.Context, authorID uint64, id uint64, updateDTO *dto.UpdateNovelDTO) error
	UpdateCover(ctx context.Context, authorID uint64, id uint64, objectName string) error
	DeleteNovel(ctx context.Context, authorID uint64, id uint64) error
}

type NovelServiceImpl struct {
	novelRepo   repository.NovelRepo
	esRepo      es.NovelRepo
	contentRepo mongo.ChapterContentRepo
}

func NewNovelService(novelRepo repository.NovelRepo, esRepo es.NovelRepo, contentRepo mongo.ChapterContentRepo) NovelService {
	return &NovelServiceImpl{
		novelRepo:   novelRepo,
		esRepo:      esRepo,
		contentRepo: contentRepo,
	}
}

func (s *NovelServiceImpl) CreateNovel(ctx context.Context, authorID uint64, createDTO *dto.CreateNovelDTO) (*dto.NovelDTO, error) {
	novel := &model.Novel{
		AuthorID: authorID,
		Title:    createDTO.Title,
		Synopsis: createDTO.Synopsis,
		Tags:     strings.Join(createDTO.Tags, ","),
		CoverURL: createDTO.CoverURL,
	}
	if novel.CoverURL == "" {
		novel.CoverURL = consts.DefaultCoverURL
	}

	if err := s.novelRepo.CreateNovel(ctx, novel); err != nil {
		return nil, err
	}

	s.syncToES(ctx, novel.ID)
	return s.GetNovel(ctx, novel.ID)
}

func (s *NovelServiceImpl) GetNovel(ctx context.Context, id uint64) (*dto.NovelDTO, error) {
	novel, err := s.novelRepo.GetNovel(ctx, id)
	if err != nil {
		return nil, err
	}
	if novel == nil {
		return nil, ErrNovelNotFound
	}
	return toNovelDTO(novel), nil
}

func (s *NovelServiceImpl) GetNovelsByAuthor(ctx context.Context, authorID uint64, limit, offset int) ([]*dto.NovelDTO, error) {
	novels, err := s.novelRepo.GetNovelsByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toNovelDTOs(novels), nil
}

func (s *NovelServiceImpl) GetLatestNovels(ctx context.Context, limit, offset int) ([]*dto.NovelDTO, error) {
	novels, err := s.novelRepo.GetNovels(ctx, -1, limit, offset)
	if err != nil {
		return nil, err
	}
	return toNovelDTOs(novels), nil
}

// SearchNovels 走 ES，结果用索引文档直接渲染
func (s *NovelServiceImpl) SearchNovels(ctx context.Context, searchDTO *dto.SearchNovelDTO) ([]*dto.NovelDTO, error) {
	searchDTO.Normalize()
	docs, err := s.esRepo.SearchNovels(ctx, searchDTO.Keyword, searchDTO.Status, searchDTO.Offset, searchDTO.Limit)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NovelDTO, 0, len(docs))
	for _, doc := range docs {
		result = append(result, &dto.NovelDTO{
			ID:             doc.ID,
			AuthorID:       doc.AuthorID,
			AuthorNickname: doc.AuthorNickname,
			Title:          doc.Title,
			Synopsis:       doc.Synopsis,
			Tags:           doc.Tags,
			Status:         doc.Status,
			WordCount:      doc.WordCount,
			ChaptersCount:  doc.ChaptersCount,
			ViewsCount:     doc.ViewsCount,
			RatingAvg:      doc.RatingAvg,
			CreatedAt:      doc.CreatedAt,
			UpdatedAt:      doc.UpdatedAt,
		})
	}
	return result, nil
}

func (s *NovelServiceImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	return s.esRepo.GetSuggestions(ctx, keyword)
}

func (s *NovelServiceImpl) UpdateNovel(ctx context.Context, authorID uint64, id uint64, updateDTO *dto.UpdateNovelDTO) error {
	novel, err := s.getOwnedNovel(ctx, authorID, id)
	if err != nil {
		return err
	}

	if updateDTO.Title != nil {
		novel.Title = *updateDTO.Title
	}
	if updateDTO.Synopsis != nil {
		novel.Synopsis = *updateDTO.Synopsis
	}
	if updateDTO.Tags != nil {
		novel.Tags = strings.Join(updateDTO.Tags, ",")
	}
	if updateDTO.CoverURL != nil {
		novel.CoverURL = *updateDTO.CoverURL
	}
	if updateDTO.Status != nil {
		novel.Status = *updateDTO.Status
	}

	if err = s.novelRepo.UpdateNovel(ctx, novel); err != nil {
		return err
	}
	s.syncToES(ctx, id)
	return nil
}

func (s *NovelServiceImpl) UpdateCover(ctx context.Context, authorID uint64, id uint64, objectName string) error {
	novel, err := s.getOwnedNovel(ctx, authorID, id)
	if err != nil {
		return err
	}
	novel.CoverURL = minio.GetPublicURL(objectName)
	return s.novelRepo.UpdateNovel(ctx, novel)
}

// DeleteNovel 软删行、摘索引、清正文
func (s *NovelServiceImpl) DeleteNovel(ctx context.Context, authorID uint64, id uint64) error {
	if _, err := s.getOwnedNovel(ctx, authorID, id); err != nil {
		return err
	}

	if err := s.novelRepo.DeleteNovel(ctx, id); err != nil {
		return err
	}
	if err := s.esRepo.DeleteNovel(ctx, id); err != nil {
		log.WarnContext(ctx, "delete novel from es failed", "novelID", id, "err", err)
	}
	if s.contentRepo != nil {
		if err := s.contentRepo.DeleteByNovel(ctx, id); err != nil {
			log.WarnContext(ctx, "delete chapter contents failed", "novelID", id, "err", err)
		}
	}
	return nil
}

func (s *NovelServiceImpl) getOwnedNovel(ctx context.Context, authorID uint64, id uint64) (*model.Novel, error) {
	novel, err := s.novelRepo.GetNovel(ctx, id)
	if err != nil {
		return nil, err
	}
	if novel == nil {
		return nil, ErrNovelNotFound
	}
	if novel.AuthorID != authorID {
		return nil, ErrNovelNotOwned
	}
	return novel, nil
}

// syncToES 写路径上的索引同步，失败只记日志，等脏集补偿
func (s *NovelServiceImpl) syncToES(ctx context.Context, id uint64) {
	novel, err := s.novelRepo.GetNovel(ctx, id)
	if err != nil || novel == nil {
		return
	}

	doc := &es.NovelES{
		ID:             novel.ID,
		AuthorID:       novel.AuthorID,
		AuthorNickname: novel.Author.Nickname,
		Title:          novel.Title,
		Synopsis:       novel.Synopsis,
		Tags:           splitTags(novel.Tags),
		Status:         novel.Status,
		WordCount:      novel.WordCount,
		ChaptersCount:  novel.ChaptersCount,
		ViewsCount:     novel.ViewsCount,
		RatingAvg:      ratingAvg(novel),
		CreatedAt:      novel.CreatedAt,
		UpdatedAt:      novel.UpdatedAt,
	}
	if err = s.esRepo.IndexNovel(ctx, doc, novel.UpdatedAt.UnixMilli()); err != nil {
		log.WarnContext(ctx, "index novel to es failed", "novelID", id, "err", err)
	}
}

func toNovelDTO(novel *model.Novel) *dto.NovelDTO {
	return &dto.NovelDTO{
		ID:             novel.ID,
		AuthorID:       novel.AuthorID,
		AuthorNickname: novel.Author.Nickname,
		Title:          novel.Title,
		Synopsis:       novel.Synopsis,
		CoverURL:       novel.CoverURL,
		Tags:           splitTags(novel.Tags),
		Status:         novel.Status,
		WordCount:      novel.WordCount,
		ChaptersCount:  novel.ChaptersCount,
		ViewsCount:     novel.ViewsCount,
		CommentsCount:  novel.CommentsCount,
		RatingAvg:      ratingAvg(novel),
		RatingsCount:   novel.RatingsCount,
		CreatedAt:      novel.CreatedAt,
		UpdatedAt:      novel.UpdatedAt,
	}
}

func toNovelDTOs(novels []*model.Novel) []*dto.NovelDTO {
	result := make([]*dto.NovelDTO, 0, len(novels))
	for _, novel := range novels {
		result = append(result, toNovelDTO(novel))
	}
	return result
}

func splitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	return strings.Split(tags, ",")
}

func ratingAvg(novel *model.Novel) float64 {
	if novel.RatingsCount == 0 {
		return 0
	}
	return float64(novel.RatingSum) / float64(novel.RatingsCount)
}
