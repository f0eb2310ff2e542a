package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"time"
	"unicode/utf8"
)

// 发布通知的粉丝拉取分页大小
const publishFanoutBatch = 500

type ChapterService interface {
	CreateChapter(ctx context.Context, authorID uint64, novelID uint64, createDTO *dto.CreateChapterDTO) (*dto.ChapterDTO, error)
	GetChapterContent(ctx context.Context, requesterID uint64, chapterID uint64) (*dto.ChapterContentDTO, error)
	GetChapters(ctx context.Context, requesterID uint64, novelID uint64) ([]*dto.ChapterDTO, error)
	UpdateChapter(ctx context.Context, authorID uint64, chapterID uint64, updateDTO *dto.UpdateChapterDTO) error
	PublishChapter(ctx context.Context, authorID uint64, chapterID uint64) error
	DeleteChapter(ctx context.Context, authorID uint64, chapterID uint64) error
}

type ChapterServiceImpl struct {
	chapterRepo     repository.ChapterRepo
	novelRepo       repository.NovelRepo
	userFollowRepo  repository.UserFollowRepo
	contentRepo     mongo.ChapterContentRepo
	notificationSvc NotificationService
}

func NewChapterService(
	chapterRepo repository.ChapterRepo,
	novelRepo repository.NovelRepo,
	userFollowRepo repository.UserFollowRepo,
	contentRepo mongo.ChapterContentRepo,
	notificationSvc NotificationService,
) ChapterService {
	return &ChapterServiceImpl{
		chapterRepo:     chapterRepo,
		novelRepo:       novelRepo,
		userFollowRepo:  userFollowRepo,
		contentRepo:     contentRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *ChapterServiceImpl) CreateChapter(ctx context.Context, authorID uint64, novelID uint64, createDTO *dto.CreateChapterDTO) (*dto.ChapterDTO, error) {
	novel, err := s.getOwnedNovel(ctx, authorID, novelID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chapter := &model.Chapter{
		NovelID:   novelID,
		Seq:       createDTO.Seq,
		Title:     createDTO.Title,
		WordCount: utf8.RuneCountInString(createDTO.Body),
		IsDraft:   createDTO.IsDraft,
	}
	if !createDTO.IsDraft {
		chapter.PublishedAt = &now
	}

	if err = s.chapterRepo.CreateChapter(ctx, chapter); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrChapterSeqExist
		}
		return nil, err
	}

	content := &mongo.ChapterContent{
		ChapterID: chapter.ID,
		NovelID:   novelID,
		Body:      createDTO.Body,
		WordCount: chapter.WordCount,
		UpdatedAt: now,
	}
	if err = s.contentRepo.SaveContent(ctx, content); err != nil {
		return nil, err
	}

	if !createDTO.IsDraft {
		s.notifyFollowers(ctx, novel, chapter)
	}
	return toChapterDTO(chapter), nil
}

// GetChapterContent 拉正文。草稿只有作者本人可见。
func (s *ChapterServiceImpl) GetChapterContent(ctx context.Context, requesterID uint64, chapterID uint64) (*dto.ChapterContentDTO, error) {
	chapter, err := s.chapterRepo.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, ErrChapterNotFound
	}

	if chapter.IsDraft {
		novel, err := s.novelRepo.GetNovel(ctx, chapter.NovelID)
		if err != nil {
			return nil, err
		}
		if novel == nil || novel.AuthorID != requesterID {
			return nil, ErrChapterNotFound
		}
	}

	content, err := s.contentRepo.GetContent(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	result := &dto.ChapterContentDTO{ChapterDTO: *toChapterDTO(chapter)}
	if content != nil {
		result.Body = content.Body
	}
	return result, nil
}

func (s *ChapterServiceImpl) GetChapters(ctx context.Context, requesterID uint64, novelID uint64) ([]*dto.ChapterDTO, error) {
	novel, err := s.novelRepo.GetNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	if novel == nil {
		return nil, ErrNovelNotFound
	}

	includeDrafts := novel.AuthorID == requesterID
	chapters, err := s.chapterRepo.GetChapters(ctx, novelID, includeDrafts)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChapterDTO, 0, len(chapters))
	for _, chapter := range chapters {
		result = append(result, toChapterDTO(chapter))
	}
	return result, nil
}

func (s *ChapterServiceImpl) UpdateChapter(ctx context.Context, authorID uint64, chapterID uint64, updateDTO *dto.UpdateChapterDTO) error {
	chapter, err := s.getOwnedChapter(ctx, authorID, chapterID)
	if err != nil {
		return err
	}

	if updateDTO.Title != nil {
		chapter.Title = *updateDTO.Title
	}

	if updateDTO.Body != nil {
		newCount := utf8.RuneCountInString(*updateDTO.Body)
		delta := int64(newCount - chapter.WordCount)
		chapter.WordCount = newCount

		content := &mongo.ChapterContent{
			ChapterID: chapter.ID,
			NovelID:   chapter.NovelID,
			Body:      *updateDTO.Body,
			WordCount: newCount,
			UpdatedAt: time.Now(),
		}
		if err = s.contentRepo.SaveContent(ctx, content); err != nil {
			return err
		}
		if delta != 0 {
			if err = s.novelRepo.IncrCounter(ctx, chapter.NovelID, "word_count", delta); err != nil {
				return err
			}
		}
	}

	return s.chapterRepo.UpdateChapter(ctx, chapter)
}

// PublishChapter 草稿转正式，并向作者的粉丝投递更新通知
func (s *ChapterServiceImpl) PublishChapter(ctx context.Context, authorID uint64, chapterID uint64) error {
	chapter, err := s.getOwnedChapter(ctx, authorID, chapterID)
	if err != nil {
		return err
	}
	if !chapter.IsDraft {
		return nil
	}

	now := time.Now()
	chapter.IsDraft = false
	chapter.PublishedAt = &now
	if err = s.chapterRepo.UpdateChapter(ctx, chapter); err != nil {
		return err
	}

	novel, err := s.novelRepo.GetNovel(ctx, chapter.NovelID)
	if err == nil && novel != nil {
		s.notifyFollowers(ctx, novel, chapter)
	}
	return nil
}

func (s *ChapterServiceImpl) DeleteChapter(ctx context.Context, authorID uint64, chapterID uint64) error {
	chapter, err := s.getOwnedChapter(ctx, authorID, chapterID)
	if err != nil {
		return err
	}

	if err = s.chapterRepo.DeleteChapter(ctx, chapter); err != nil {
		return err
	}
	if err = s.contentRepo.DeleteContent(ctx, chapterID); err != nil {
		log.WarnContext(ctx, "delete chapter content failed", "chapterID", chapterID, "err", err)
	}
	return nil
}

// notifyFollowers 逐页拉作者的粉丝投递更新通知。
// 单条投递失败不中断整体，丢条通知可以接受。
func (s *ChapterServiceImpl) notifyFollowers(ctx context.Context, novel *model.Novel, chapter *model.Chapter) {
	data := model.NotificationData{
		NovelID:    novel.ID,
		NovelTitle: novel.Title,
		ChapterID:  chapter.ID,
		ChapterSeq: chapter.Seq,
		Title:      chapter.Title,
	}

	offset := 0
	for {
		followers, err := s.userFollowRepo.GetFollowers(ctx, novel.AuthorID, publishFanoutBatch, offset)
		if err != nil {
			log.ErrorContext(ctx, "fetch followers for chapter notify failed", "authorID", novel.AuthorID, "err", err)
			return
		}
		for _, follow := range followers {
			err = s.notificationSvc.CreateNotification(ctx, &NotificationInput{
				RecipientID: follow.FollowerID,
				ActorID:     novel.AuthorID,
				Type:        model.NotifyNewChapter,
				Data:        data,
			})
			if err != nil {
				log.WarnContext(ctx, "notify follower failed", "followerID", follow.FollowerID, "err", err)
			}
		}
		if len(followers) < publishFanoutBatch {
			return
		}
		offset += publishFanoutBatch
	}
}

func (s *ChapterServiceImpl) getOwnedNovel(ctx context.Context, authorID uint64, novelID uint64) (*model.Novel, error) {
	novel, err := s.novelRepo.GetNovel(ctx, novelID)
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

func (s *ChapterServiceImpl) getOwnedChapter(ctx context.Context, authorID uint64, chapterID uint64) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter == nil {
		return nil, ErrChapterNotFound
	}
	if _, err = s.getOwnedNovel(ctx, authorID, chapter.NovelID); err != nil {
		return nil, err
	}
	return chapter, nil
}

func toChapterDTO(chapter *model.Chapter) *dto.ChapterDTO {
	return &dto.ChapterDTO{
		ID:          chapter.ID,
		NovelID:     chapter.NovelID,
		Seq:         chapter.Seq,
		Title:       chapter.Title,
		WordCount:   chapter.WordCount,
		IsDraft:     chapter.IsDraft,
		PublishedAt: chapter.PublishedAt,
		CreatedAt:   chapter.CreatedAt,
	}
}
