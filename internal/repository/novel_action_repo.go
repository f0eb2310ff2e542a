package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NovelActionRepo interface {
	CreateComment(ctx context.Context, comment *model.NovelComment) error
	GetComment(ctx context.Context, id uint64) (*model.NovelComment, error)
	GetComments(ctx context.Context, novelID uint64, rootID uint64, limit, offset int) ([]*model.NovelComment, error)
	DeleteComment(ctx context.Context, id uint64) error
	UpsertRating(ctx context.Context, rating *model.NovelRating) error
	GetRating(ctx context.Context, novelID uint64, userID uint64) (*model.NovelRating, error)
	GetRatings(ctx context.Context, novelID uint64, limit, offset int) ([]*model.NovelRating, error)
	CreateCommentLike(ctx context.Context, like *model.CommentLike) (bool, error)
	DeleteCommentLike(ctx context.Context, like *model.CommentLike) error
}

type NovelActionRepoImpl struct {
	db *gorm.DB
}

func NewNovelActionRepo(db *gorm.DB) NovelActionRepo {
	return &NovelActionRepoImpl{db: db}
}

func (s *NovelActionRepoImpl) CreateComment(ctx context.Context, comment *model.NovelComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *NovelActionRepoImpl) GetComment(ctx context.Context, id uint64) (*model.NovelComment, error) {
	var comment model.NovelComment
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&comment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &comment, nil
}

// GetComments rootID 为 0 时查一级评论，否则查该评论下的回复
func (s *NovelActionRepoImpl) GetComments(ctx context.Context, novelID uint64, rootID uint64, limit, offset int) ([]*model.NovelComment, error) {
	var comments []*model.NovelComment
	result := s.db.WithContext(ctx).
		Where("novel_id = ? AND root_id = ? AND is_deleted = ?", novelID, rootID, false).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

func (s *NovelActionRepoImpl) DeleteComment(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.NovelComment{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// UpsertRating 同一用户对同一小说的评分冲突时更新分数和书评
func (s *NovelActionRepoImpl) UpsertRating(ctx context.Context, rating *model.NovelRating) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "novel_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "review", "updated_at"}),
		}).
		Create(rating).Error
}

func (s *NovelActionRepoImpl) GetRating(ctx context.Context, novelID uint64, userID uint64) (*model.NovelRating, error) {
	var rating model.NovelRating
	result := s.db.WithContext(ctx).
		Where("novel_id = ? AND user_id = ?", novelID, userID).
		First(&rating)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &rating, nil
}

func (s *NovelActionRepoImpl) GetRatings(ctx context.Context, novelID uint64, limit, offset int) ([]*model.NovelRating, error) {
	var ratings []*model.NovelRating
	result := s.db.WithContext(ctx).
		Where("novel_id = ?", novelID).
		Order("updated_at desc").
		Limit(limit).
		Offset(offset).
		Find(&ratings)
	if result.Error != nil {
		return nil, result.Error
	}
	return ratings, nil
}

// CreateCommentLike 返回是否真正插入，重复点赞返回 false
func (s *NovelActionRepoImpl) CreateCommentLike(ctx context.Context, like *model.CommentLike) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	err := s.db.WithContext(ctx).
		Model(&model.NovelComment{}).
		Where("id = ?", like.CommentID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	return true, err
}

func (s *NovelActionRepoImpl) DeleteCommentLike(ctx context.Context, like *model.CommentLike) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", like.UserID, like.CommentID).
		Delete(&model.CommentLike{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.NovelComment{}).
		Where("id = ? AND likes_count > 0", like.CommentID).
		UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error
}
