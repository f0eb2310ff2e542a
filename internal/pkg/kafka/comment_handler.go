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

// CommentsHandler 消费 novel_comments 表的 binlog，
// 维护小说的评论数冗余列和 Redis 缓存，并标记待重建索引的小说
type CommentsHandler struct {
	novelRepo repository.NovelRepo
}

func NewCommentsHandler(novelRepo repository.NovelRepo) *CommentsHandler {
	return &CommentsHandler{novelRepo: novelRepo}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("comments consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("comments consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-novel-comments consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-novel-comments process batch error", "err", err)
		return err
	}
	log.Info("topic-novel-comments consume claim end")
	return nil
}

func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "novel_comments")
	if err != nil || canalMsg == nil {
		return nil
	}

	for _, row := range canalMsg.Data {
		novelID := StrToUint64(row["novel_id"])
		if novelID == 0 {
			continue
		}

		var delta int64
		switch canalMsg.Type {
		case INSERT:
			delta = 1
		case UPDATE:
			// 软删除视为减一
			if row["is_deleted"] == "1" {
				delta = -1
			}
		case DELETE:
			if row["is_deleted"] != "1" {
				delta = -1
			}
		}
		if delta == 0 {
			continue
		}

		if err = s.novelRepo.IncrCounter(ctx, novelID, "comments_count", delta); err != nil {
			return err
		}
		s.syncCache(ctx, novelID, delta)
	}
	return nil
}

func (s *CommentsHandler) syncCache(ctx context.Context, novelID uint64, delta int64) {
	rdb := redis.GetRdbClient()
	if rdb == nil {
		return
	}
	key := consts.NovelCommentKey + strconv.FormatUint(novelID, 10)
	pipe := rdb.Pipeline()
	pipe.IncrBy(ctx, key, delta)
	pipe.SAdd(ctx, consts.NovelDirtyKey, novelID)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error("Redis Pipeline Exec failed", "err", err, "novelID", novelID)
	}
}
