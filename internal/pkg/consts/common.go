package consts

import "time"

const (
	NovelStatusSerializing int8 = 0
	NovelStatusCompleted   int8 = 1
)

const (
	// ViewDedupWindow 同一读者对同一本书的阅读量去重窗口
	ViewDedupWindow = 30 * time.Minute
	// NotifyAggregationWindow 同类通知的聚合窗口
	NotifyAggregationWindow = 24 * time.Hour
	// NotifyActorListLimit 聚合通知内保留的最近触发者数量上限
	NotifyActorListLimit = 10
	// UserFollowCacheLimit 粉丝/关注有序集合缓存保留的最近条数
	UserFollowCacheLimit = 1000
)

const (
	DefaultAvatarURL = "default_avatar.png"
	DefaultCoverURL  = "default_cover.png"

	MimePrefixImage = "image"
)
