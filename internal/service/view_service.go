package service

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

type ViewService interface {
	TrackView(ctx context.Context, novelID, userID uint64, ip, userAgent string) (bool, int64, error)
	GetViewCount(ctx context.Context, novelID uint64) (int64, error)
	PurgeExpiredMarkers(ctx context.Context) (int64, error)
}

type ViewServiceImpl struct {
	novelRepo repository.NovelRepo
	viewRepo  repository.ViewRepo
}

func NewViewService(novelRepo repository.NovelRepo, viewRepo repository.ViewRepo) ViewService {
	return &ViewServiceImpl{
		novelRepo: novelRepo,
		viewRepo:  viewRepo,
	}
}

// TrackView 记录一次阅读，返回是否计入阅读量以及当前阅读量。
// 去重的最终裁决在数据库事务里；Redis SETNX 只是快路径，
// 窗口内的重复请求大多数在这里被拦下，不用进数据库。
// 计数失败不阻塞阅读主流程，只记日志。
func (s *ViewServiceImpl) TrackView(ctx context.Context, novelID, userID uint64, ip, userAgent string) (bool, int64, error) {
	novel, err := s.novelRepo.GetNovel(ctx, novelID)
	if err != nil {
		return false, 0, err
	}
	if novel == nil {
		return false, 0, ErrNovelNotFound
	}

	viewerKey := util.ViewerKey(userID, ip, userAgent)

	dedupKey := consts.NovelViewDedupKey + strconv.FormatUint(novelID, 10) + ":" + viewerKey
	ok, err := redis.SetNX(ctx, dedupKey, 1, consts.ViewDedupWindow)
	if err == nil && !ok {
		return false, novel.ViewsCount, nil
	}

	counted, err := s.viewRepo.TryMarkViewer(ctx, novelID, viewerKey, time.Now(), consts.ViewDedupWindow)
	if err != nil {
		log.ErrorContext(ctx, "track view failed", "novelID", novelID, "viewerKey", viewerKey, "err", err)
		return false, novel.ViewsCount, nil
	}

	if counted {
		countKey := consts.NovelViewKey + strconv.FormatUint(novelID, 10)
		if err = redis.Incr(ctx, countKey); err != nil {
			log.WarnContext(ctx, "incr view cache failed", "novelID", novelID, "err", err)
		}
		return true, novel.ViewsCount + 1, nil
	}

	return false, novel.ViewsCount, nil
}

// GetViewCount 阅读量读取，缓存未命中回源数据库的冗余列
func (s *ViewServiceImpl) GetViewCount(ctx context.Context, novelID uint64) (int64, error) {
	countKey := consts.NovelViewKey + strconv.FormatUint(novelID, 10)
	count, err := redis.GetInt64(ctx, countKey)
	if err == nil {
		return count, nil
	}

	novel, err := s.novelRepo.GetNovel(ctx, novelID)
	if err != nil {
		return 0, err
	}
	if novel == nil {
		return 0, ErrNovelNotFound
	}

	_ = redis.SetWithExpiration(ctx, countKey, novel.ViewsCount, time.Hour*1)
	return novel.ViewsCount, nil
}

func (s *ViewServiceImpl) PurgeExpiredMarkers(ctx context.Context) (int64, error) {
	return s.viewRepo.PurgeExpired(ctx, time.Now())
}
