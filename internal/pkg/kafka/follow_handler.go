package kafka

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	redisv9 "github.com/redis/go-redis/v9"
)

// UserFollowsHandler 消费 user_follows 表的 binlog，维护粉丝/关注的
// Redis 有序集合和计数缓存
type UserFollowsHandler struct {
}

func NewUserFollowsHandler() *UserFollowsHandler {
	return &UserFollowsHandler{}
}

func (s *UserFollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer setup")
	return nil
}

func (s *UserFollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer cleanup")
	return nil
}

func (s *UserFollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-follows consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-follows process batch error", "err", err)
		return err
	}
	log.Info("topic-user-follows consume claim end")
	return nil
}

func (s *UserFollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "user_follows")
	if err != nil || canalMsg == nil {
		return nil
	}

	rdb := redis.GetRdbClient()
	if rdb == nil {
		return nil
	}

	pipe := rdb.Pipeline()
	for _, row := range canalMsg.Data {
		edge := followEdge{
			follower:  StrToUint64(row["follower_id"]),
			following: StrToUint64(row["following_id"]),
		}
		switch canalMsg.Type {
		case INSERT:
			edge.cacheInsert(ctx, pipe)
		case DELETE:
			edge.cacheDelete(ctx, pipe)
		}
	}

	if _, err = pipe.Exec(ctx); err != nil {
		log.Error("Redis Pipeline Exec failed", "err", err, "msg_key", string(msg.Key))
		return err
	}
	return nil
}

// followEdge 一条关注关系边，两端各有一份列表缓存和一份计数缓存
type followEdge struct {
	follower  uint64
	following uint64
}

func (e followEdge) followerListKey() string {
	return consts.UserFollowerKey + strconv.FormatUint(e.following, 10)
}

func (e followEdge) followingListKey() string {
	return consts.UserFollowingKey + strconv.FormatUint(e.follower, 10)
}

func (e followEdge) countKeys() (string, string) {
	return consts.UserFollowerCountKey + strconv.FormatUint(e.following, 10),
		consts.UserFollowingCountKey + strconv.FormatUint(e.follower, 10)
}

// cacheInsert 两端列表各加一条，裁掉超出缓存容量的旧边并续期，
// TTL 与读取侧重建缓存时一致
func (e followEdge) cacheInsert(ctx context.Context, pipe redisv9.Pipeliner) {
	score := float64(time.Now().Unix())
	for key, member := range map[string]uint64{
		e.followerListKey():  e.follower,
		e.followingListKey(): e.following,
	} {
		pipe.ZAdd(ctx, key, redisv9.Z{Score: score, Member: member})
		pipe.ZRemRangeByRank(ctx, key, 0, -int64(consts.UserFollowCacheLimit+1))
		pipe.Expire(ctx, key, time.Hour*1)
	}

	fdrCountKey, fngCountKey := e.countKeys()
	pipe.Incr(ctx, fdrCountKey)
	pipe.Incr(ctx, fngCountKey)
}

func (e followEdge) cacheDelete(ctx context.Context, pipe redisv9.Pipeliner) {
	pipe.ZRem(ctx, e.followerListKey(), e.follower)
	pipe.ZRem(ctx, e.followingListKey(), e.following)

	fdrCountKey, fngCountKey := e.countKeys()
	pipe.Decr(ctx, fdrCountKey)
	pipe.Decr(ctx, fngCountKey)
}
