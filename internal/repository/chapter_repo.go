package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ChapterRepo interface {
	CreateChapter(ctx context.Context, chapter *model.Chapter) error
	GetChapter(ctx context.Context, id uint64) (*model.Chapter, error)
	GetChapterBySeq(ctx context.Context, novelID uint64, seq int) (*model.Chapter, error)
	GetChapters(ctx context.Context, novelID uint64, includeDrafts bool) ([]*model.Chapter, error)
	UpdateChapter(ctx context.Context, chapter *model.Chapter) error
	DeleteChapter(ctx context.Context, chapter *model.Chapter) error
}

type ChapterRepoImpl struct {
	db *gorm.DB
}

func NewChapterRepo(db *gorm.DB) ChapterRepo {
	return &ChapterRepoImpl{db: db}
}

// CreateChapter 同一事务内写章节行并维护小说的章节数和字数
func (s *ChapterRepoImpl) CreateChapter(ctx context.Context, chapter *model.Chapter) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chapter).Error; err != nil {
			return err
		}
		return tx.Model(&model.Novel{}).
			Where("id = ?", chapter.NovelID).
			UpdateColumns(map[string]interface{}{
				"chapters_count": gorm.Expr("chapters_count + ?", 1),
				"word_count":     gorm.Expr("word_count + ?", chapter.WordCount),
			}).Error
	})
}

func (s *ChapterRepoImpl) GetChapter(ctx context.Context, id uint64) (*model.Chapter, error) {
	var chapter model.Chapter
	result := s.db.WithContext(ctx).First(&chapter, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &chapter, nil
}

func (s *ChapterRepoImpl) GetChapterBySeq(ctx context.Context, novelID uint64, seq int) (*model.Chapter, error) {
	var chapter model.Chapter
	result := s.db.WithContext(ctx).
		Where("novel_id = ? AND seq = ?", novelID, seq).
		First(&chapter)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &chapter, nil
}

func (s *ChapterRepoImpl) GetChapters(ctx context.Context, novelID uint64, includeDrafts bool) ([]*model.Chapter, error) {
	var chapters []*model.Chapter
	query := s.db.WithContext(ctx).Where("novel_id = ?", novelID)
	if !includeDrafts {
		query = query.Where("is_draft = ?", false)
	}
	result := query.Order("seq asc").Find(&chapters)
	if result.Error != nil {
		return nil, result.Error
	}
	return chapters, nil
}

func (s *ChapterRepoImpl) UpdateChapter(ctx context.Context, chapter *model.Chapter) error {
	return s.db.WithContext(ctx).Updates(chapter).Error
}

// DeleteChapter 删除章节行并回退小说的章节数和字数
func (s *ChapterRepoImpl) DeleteChapter(ctx context.Context, chapter *model.Chapter) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Chapter{}, chapter.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Novel{}).
			Where("id = ?", chapter.NovelID).
			UpdateColumns(map[string]interface{}{
				"chapters_count": gorm.Expr("chapters_count - ?", 1),
				"word_count":     gorm.Expr("word_count - ?", chapter.WordCount),
			}).Error
	})
}
