package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewRepo interface {
	TryMarkViewer(ctx context.Context, novelID uint64, viewerKey string, now time.Time, window time.Duration) (bool, error)
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

type ViewRepoImpl struct {
	db *gorm.DB
}

func NewViewRepo(db *gorm.DB) ViewRepo {
	return &ViewRepoImpl{db: db}
}

// TryMarkViewer 在一个事务内完成去重判定和计数。
// 对 (novel_id, viewer_key) 行加锁后检查窗口：窗口内返回 false 不计数；
// 否则写入/刷新标记行并原子 +1 阅读量，返回 true。
// 并发请求在行锁上串行化，同一窗口只有一个请求会计数。
func (s *ViewRepoImpl) TryMarkViewer(ctx context.Context, novelID uint64, viewerKey string, now time.Time, window time.Duration) (bool, error) {
	counted := false
	err := withRetry(ctx, "view.TryMarkViewer", func() error {
		counted = false
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var viewer model.RecentNovelViewer
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("novel_id = ? AND viewer_key = ?", novelID, viewerKey).
				First(&viewer).Error
			switch {
			case err == nil:
				if viewer.ExpiresAt.After(now) {
					return nil
				}
				if err = tx.Model(&model.RecentNovelViewer{}).
					Where("id = ?", viewer.ID).
					Update("expires_at", now.Add(window)).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				mark := &model.RecentNovelViewer{
					NovelID:   novelID,
					ViewerKey: viewerKey,
					ExpiresAt: now.Add(window),
				}
				// 两个首访请求竞争同一标记行时，落败方走 DoNothing，
				// RowsAffected 为 0，视为窗口内重复
				result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mark)
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return nil
				}
			default:
				return err
			}
			if err = tx.Model(&model.Novel{}).
				Where("id = ? AND is_deleted = ?", novelID, false).
				UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error; err != nil {
				return err
			}
			counted = true
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	return counted, nil
}

// PurgeExpired 清理过期的去重标记行，由定时任务调用
func (s *ViewRepoImpl) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.RecentNovelViewer{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
