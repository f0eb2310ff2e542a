package kafka

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

// RatingsHandler 消费 novel_ratings 表的 binlog，
// 维护小说的评分条数和总分冗余列。UPDATE 通过 Old 里的旧分数算差值。
type RatingsHandler struct {
	novelRepo repository.NovelRepo
}

func NewRatingsHandler(novelRepo repository.NovelRepo) *RatingsHandler {
	return &RatingsHandler{novelRepo: novelRepo}
}

func (s *RatingsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("ratings consumer setup")
	return nil
}

func (s *RatingsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("ratings consumer cleanup")
	return nil
}

func (s *RatingsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-novel-ratings consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-novel-ratings process batch error", "err", err)
		return err
	}
	log.Info("topic-novel-ratings consume claim end")
	return nil
}

func (s *RatingsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "novel_ratings")
	if err != nil || canalMsg == nil {
		return nil
	}

	for i, row := range canalMsg.Data {
		novelID := StrToUint64(row["novel_id"])
		if novelID == 0 {
			continue
		}
		score := StrToInt64(row["score"])

		var countDelta, sumDelta int64
		switch canalMsg.Type {
		case INSERT:
			countDelta, sumDelta = 1, score
		case UPDATE:
			if i < len(canalMsg.Old) {
				if oldScore, ok := canalMsg.Old[i]["score"]; ok {
					sumDelta = score - StrToInt64(oldScore)
				}
			}
		case DELETE:
			countDelta, sumDelta = -1, -score
		}
		if countDelta == 0 && sumDelta == 0 {
			continue
		}

		if countDelta != 0 {
			if err = s.novelRepo.IncrCounter(ctx, novelID, "ratings_count", countDelta); err != nil {
				return err
			}
		}
		if sumDelta != 0 {
			if err = s.novelRepo.IncrCounter(ctx, novelID, "rating_sum", sumDelta); err != nil {
				return err
			}
		}
		s.syncCache(ctx, novelID, countDelta, sumDelta)
	}
	return nil
}

func (s *RatingsHandler) syncCache(ctx context.Context, novelID uint64, countDelta, sumDelta int64) {
	rdb := redis.GetRdbClient()
	if rdb == nil {
		return
	}
	key := consts.NovelRatingKey + strconv.FormatUint(novelID, 10)
	pipe := rdb.Pipeline()
	if countDelta != 0 {
		pipe.HIncrBy(ctx, key, "count", countDelta)
	}
	if sumDelta != 0 {
		pipe.HIncrBy(ctx, key, "sum", sumDelta)
	}
	pipe.SAdd(ctx, consts.NovelDirtyKey, novelID)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error("Redis Pipeline Exec failed", "err", err, "novelID", novelID)
	}
}
