package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type NovelRepo interface {
	CreateNovel(ctx context.Context, novel *model.Novel) error
	GetNovel(ctx context.Context, id uint64) (*model.Novel, error)
	GetNovelsByIds(ctx context.Context, ids []uint64) ([]*model.Novel, error)
	GetNovelsByAuthor(ctx context.Context, authorID uint64, limit, offset int) ([]*model.Novel, error)
	GetNovels(ctx context.Context, status int8, limit, offset int) ([]*model.Novel, error)
	GetActiveNovelIDs(ctx context.Context) ([]uint64, error)
	UpdateNovel(ctx context.Context, novel *model.Novel) error
	IncrCounter(ctx context.Context, id uint64, column string, delta int64) error
	DeleteNovel(ctx context.Context, id uint64) error
}

type NovelRepoImpl struct {
	db *gorm.DB
}

func NewNovelRepo(db *gorm.DB) NovelRepo {
	return &NovelRepoImpl{db: db}
}

func (s *NovelRepoImpl) CreateNovel(ctx context.Context, novel *model.Novel) error {
	return s.db.WithContext(ctx).Create(novel).Error
}

func (s *NovelRepoImpl) GetNovel(ctx context.Context, id uint64) (*model.Novel, error) {
	var novel model.Novel
	result := s.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&novel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &novel, nil
}

func (s *NovelRepoImpl) GetNovelsByIds(ctx context.Context, ids []uint64) ([]*model.Novel, error) {
	var novels []*model.Novel
	result := s.db.WithContext(ctx).
		Preload("Author").
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&novels)
	if result.Error != nil {
		return nil, result.Error
	}
	return novels, nil
}

func (s *NovelRepoImpl) GetNovelsByAuthor(ctx context.Context, authorID uint64, limit, offset int) ([]*model.Novel, error) {
	var novels []*model.Novel
	result := s.db.WithContext(ctx).
		Where("author_id = ? AND is_deleted = ?", authorID, false).
		Order("updated_at desc").
		Limit(limit).
		Offset(offset).
		Find(&novels)
	if result.Error != nil {
		return nil, result.Error
	}
	return novels, nil
}

func (s *NovelRepoImpl) GetNovels(ctx context.Context, status int8, limit, offset int) ([]*model.Novel, error) {
	var novels []*model.Novel
	query := s.db.WithContext(ctx).Preload("Author").Where("is_deleted = ?", false)
	if status >= 0 {
		query = query.Where("status = ?", status)
	}
	result := query.
		Order("updated_at desc").
		Limit(limit).
		Offset(offset).
		Find(&novels)
	if result.Error != nil {
		return nil, result.Error
	}
	return novels, nil
}

// GetActiveNovelIDs 供指标快照任务遍历使用
func (s *NovelRepoImpl) GetActiveNovelIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	result := s.db.WithContext(ctx).
		Model(&model.Novel{}).
		Where("is_deleted = ?", false).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

func (s *NovelRepoImpl) UpdateNovel(ctx context.Context, novel *model.Novel) error {
	return s.db.WithContext(ctx).Updates(novel).Error
}

// IncrCounter 冗余计数列的原子增减，binlog 消费者和章节发布共用
func (s *NovelRepoImpl) IncrCounter(ctx context.Context, id uint64, column string, delta int64) error {
	return withRetry(ctx, "novel.IncrCounter", func() error {
		return s.db.WithContext(ctx).
			Model(&model.Novel{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	})
}

func (s *NovelRepoImpl) DeleteNovel(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Novel{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
