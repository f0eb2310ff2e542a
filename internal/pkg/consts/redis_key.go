package consts

const (
	UserSimpleInfoKey     = "user:simple:info:"
	UserFollowerKey       = "user:follower:"
	UserFollowingKey      = "user:following:"
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"

	NovelViewKey               = "novel:view:"
	NovelViewDedupKey          = "novel:view:dedup:"
	NovelCommentKey            = "novel:comment:"
	NovelRatingKey             = "novel:rating:"
	NovelDirtyKey              = "novel:dirty"
	NovelMetrics7DaysKey       = "novel:metrics:7days:"
	NovelMetrics30Days         = "novel:metrics:30days:"
	NovelMetricSnapshotLockKey = "novel:metrics:snapshot:lock:"

	NotifyUnreadCountKey = "notify:unread:count:"
	NotifyChannelKey     = "notify:channel:"
)
