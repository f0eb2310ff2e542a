package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// 快照任务单批处理的作品数
const metricSnapshotBatch = 200

type NovelMetricService interface {
	SnapshotAll(ctx context.Context) (int, error)
	GetTrend(ctx context.Context, authorID uint64, novelID uint64, days int) (*dto.NovelTrendDTO, error)
}

type NovelMetricServiceImpl struct {
	metricRepo repository.NovelMetricRepo
	novelRepo  repository.NovelRepo
}

func NewNovelMetricService(metricRepo repository.NovelMetricRepo, novelRepo repository.NovelRepo) NovelMetricService {
	return &NovelMetricServiceImpl{
		metricRepo: metricRepo,
		novelRepo:  novelRepo,
	}
}

// SnapshotAll 把全部在架作品的冗余计数落成当天快照。
// 多实例部署时靠分布式锁保证当天只跑一份；单本失败跳过，返回成功落库的条数。
func (s *NovelMetricServiceImpl) SnapshotAll(ctx context.Context) (int, error) {
	today := util.GetMidnight(time.Now())

	lockKey := consts.NovelMetricSnapshotLockKey + today.Format("2006-01-02")
	locked, err := redis.TryLock(ctx, lockKey, 1, time.Hour*1, 1)
	if err == nil && !locked {
		log.InfoContext(ctx, "metric snapshot already running elsewhere, skipped")
		return 0, nil
	}

	ids, err := s.novelRepo.GetActiveNovelIDs(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for start := 0; start < len(ids); start += metricSnapshotBatch {
		end := start + metricSnapshotBatch
		if end > len(ids) {
			end = len(ids)
		}

		novels, err := s.novelRepo.GetNovelsByIds(ctx, ids[start:end])
		if err != nil {
			log.ErrorContext(ctx, "fetch novels for metric snapshot failed", "err", err)
			continue
		}
		for _, novel := range novels {
			metric := &model.NovelDailyMetric{
				NovelID:       novel.ID,
				MetricDate:    today,
				TotalViews:    novel.ViewsCount,
				TotalComments: novel.CommentsCount,
				TotalRatings:  novel.RatingsCount,
			}
			if err = s.metricRepo.UpsertDailyMetric(ctx, metric); err != nil {
				log.WarnContext(ctx, "upsert daily metric failed", "novelID", novel.ID, "err", err)
				continue
			}
			count++
		}
	}
	return count, nil
}

// GetTrend 作者后台趋势图，只有作品作者本人可看。7/30 天走缓存。
func (s *NovelMetricServiceImpl) GetTrend(ctx context.Context, authorID uint64, novelID uint64, days int) (*dto.NovelTrendDTO, error) {
	if days <= 0 || days > 90 {
		days = 30
	}

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

	cacheKey := trendCacheKey(novelID, days)
	if cacheKey != "" {
		cached, err := redis.GetValue(ctx, cacheKey)
		if err == nil && cached != "" {
			var trend dto.NovelTrendDTO
			if err = json.Unmarshal([]byte(cached), &trend); err == nil {
				return &trend, nil
			}
		}
	}

	to := util.GetMidnight(time.Now())
	from := to.AddDate(0, 0, -(days - 1))
	metrics, err := s.metricRepo.GetMetricsRange(ctx, novelID, from, to)
	if err != nil {
		return nil, err
	}

	trend := &dto.NovelTrendDTO{
		NovelID: novelID,
		Points:  make([]*dto.MetricPointDTO, 0, len(metrics)),
	}
	for _, metric := range metrics {
		trend.Points = append(trend.Points, &dto.MetricPointDTO{
			Date:          metric.MetricDate.Format("2006-01-02"),
			TotalViews:    metric.TotalViews,
			TotalComments: metric.TotalComments,
			TotalRatings:  metric.TotalRatings,
		})
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(trend); err == nil {
			_ = redis.SetWithExpiration(ctx, cacheKey, payload, time.Hour*1)
		}
	}
	return trend, nil
}

func trendCacheKey(novelID uint64, days int) string {
	switch days {
	case 7:
		return consts.NovelMetrics7DaysKey + strconv.FormatUint(novelID, 10)
	case 30:
		return consts.NovelMetrics30Days + strconv.FormatUint(novelID, 10)
	default:
		return ""
	}
}
