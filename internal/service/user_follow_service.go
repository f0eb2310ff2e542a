package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

type UserFollowService interface {
	GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error)
	GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
	IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error)
	Follow(ctx context.Context, followerID, followingID uint64) error
	Unfollow(ctx context.Context, followerID, followingID uint64) error
}

type UserFollowServiceImpl struct {
	userFollowRepo  repository.UserFollowRepo
	userSvc         UserService
	notificationSvc NotificationService
}

func NewUserFollowService(
	userFollowRepo repository.UserFollowRepo,
	userSvc UserService,
	notificationSvc NotificationService,
) UserFollowService {
	return &UserFollowServiceImpl{
		userFollowRepo:  userFollowRepo,
		userSvc:         userSvc,
		notificationSvc: notificationSvc,
	}
}

type fetchListFunc func(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
type fetchCountFunc func(ctx context.Context, userID uint64) (int64, error)

func (s *UserFollowServiceImpl) GetFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error) {
	follows, err := s.getFollowListCommon(
		ctx, userID, limit, offset,
		consts.UserFollowerKey,
		true,
		s.userFollowRepo.GetFollowers,
	)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, follow := range follows {
		ids = append(ids, follow.FollowerID)
	}
	return s.userSvc.GetUserSimpleInfoByIds(ctx, ids)
}

func (s *UserFollowServiceImpl) GetFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*dto.UserDTO, error) {
	follows, err := s.getFollowListCommon(
		ctx, userID, limit, offset,
		consts.UserFollowingKey,
		false,
		s.userFollowRepo.GetFollowing,
	)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, follow := range follows {
		ids = append(ids, follow.FollowingID)
	}
	return s.userSvc.GetUserSimpleInfoByIds(ctx, ids)
}

func (s *UserFollowServiceImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowerCountKey, s.userFollowRepo.GetFollowerCount)
}

func (s *UserFollowServiceImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowingCountKey, s.userFollowRepo.GetFollowingCount)
}

func (s *UserFollowServiceImpl) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	key := consts.UserFollowingKey + strconv.FormatUint(followerID, 10)
	rdb := redis.GetRdbClient()
	if rdb != nil {
		res, err := rdb.ZScore(ctx, key, strconv.FormatUint(followingID, 10)).Result()
		if err == nil && res != 0 {
			return true, nil
		}
	}
	follow, err := s.userFollowRepo.GetFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return follow != nil, nil
}

// Follow 建立关注并通知被关注人，重复关注幂等处理
func (s *UserFollowServiceImpl) Follow(ctx context.Context, followerID, followingID uint64) error {
	if followerID == followingID {
		return ErrUserFollowSelf
	}

	inserted, err := s.userFollowRepo.CreateFollow(ctx, &model.UserFollow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return err
	}
	if !inserted {
		return ErrUserFollowExist
	}

	err = s.notificationSvc.CreateNotification(ctx, &NotificationInput{
		RecipientID: followingID,
		ActorID:     followerID,
		Type:        model.NotifyNewFollower,
	})
	if err != nil {
		log.WarnContext(ctx, "notify new follower failed", "followingID", followingID, "err", err)
	}
	return nil
}

func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, followerID, followingID uint64) error {
	return s.userFollowRepo.DeleteFollow(ctx, &model.UserFollow{
		FollowerID:  followerID,
		FollowingID: followingID,
	})
}

func (s *UserFollowServiceImpl) getFollowListCommon(
	ctx context.Context,
	userID uint64,
	limit, offset int,
	keyPrefix string,
	isFollowerList bool,
	fetchDB fetchListFunc,
) ([]*model.UserFollow, error) {
	rdb := redis.GetRdbClient()
	// 缓存只存最近 consts.UserFollowCacheLimit 条，更深的翻页直接走库
	if rdb == nil || offset+limit > consts.UserFollowCacheLimit {
		return fetchDB(ctx, userID, limit, offset)
	}

	key := keyPrefix + strconv.FormatUint(userID, 10)

	res, err := rdb.ZRevRangeWithScores(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err == nil && len(res) != 0 {
		return zSetResToUserFollow(userID, res, isFollowerList)
	}

	dbData, err := fetchDB(ctx, userID, consts.UserFollowCacheLimit, 0)
	if err != nil {
		return nil, err
	}
	if len(dbData) == 0 {
		return []*model.UserFollow{}, nil
	}

	go func(data []*model.UserFollow, cacheKey string, isFollower bool) {
		_ = redis.DeleteKey(context.Background(), cacheKey) // 使用 Background context 防止 cancel
		pipe := rdb.Pipeline()
		zMembers := make([]redisv9.Z, 0, len(data))
		for _, item := range data {
			memberID := item.FollowerID
			if !isFollower {
				memberID = item.FollowingID
			}
			zMembers = append(zMembers, redisv9.Z{
				Score:  float64(item.CreatedAt.Unix()),
				Member: memberID,
			})
		}
		pipe.ZAdd(context.Background(), cacheKey, zMembers...)
		pipe.Expire(context.Background(), cacheKey, time.Hour*1)
		_, _ = pipe.Exec(context.Background())
	}(dbData, key, isFollowerList)

	start := offset
	end := offset + limit
	if start >= len(dbData) {
		return []*model.UserFollow{}, nil
	}
	if end > len(dbData) {
		end = len(dbData)
	}
	return dbData[start:end], nil
}

func (s *UserFollowServiceImpl) getCountCommon(
	ctx context.Context,
	userID uint64,
	keyPrefix string,
	fetchDB fetchCountFunc,
) (int64, error) {
	key := keyPrefix + strconv.FormatUint(userID, 10)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := fetchDB(ctx, userID)
	if err != nil {
		return 0, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, time.Hour*1)
	return count, nil
}

func zSetResToUserFollow(ownerID uint64, res []redisv9.Z, isFollowerList bool) ([]*model.UserFollow, error) {
	follows := make([]*model.UserFollow, 0, len(res))
	for _, v := range res {
		id, err := strconv.ParseUint(v.Member.(string), 10, 64)
		if err != nil {
			return nil, err
		}

		item := &model.UserFollow{CreatedAt: time.Unix(int64(v.Score), 0)}
		if isFollowerList {
			item.FollowingID = ownerID
			item.FollowerID = id
		} else {
			item.FollowerID = ownerID
			item.FollowingID = id
		}
		follows = append(follows, item)
	}
	return follows, nil
}
