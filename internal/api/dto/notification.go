package dto

// NotificationListDTO 通知列表查询参数。archived 切换收件箱/归档视图。
type NotificationListDTO struct {
	OnlyUnread bool `form:"only_unread" json:"only_unread"`
	Archived   bool `form:"archived" json:"archived"`
	PageDTO
}

// UnreadCountDTO 未读数
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

// BatchResultDTO 批量操作影响行数
type BatchResultDTO struct {
	Affected int64 `json:"affected"`
}

// PreferenceDTO 通知偏好，指针字段缺省表示不修改
type PreferenceDTO struct {
	EnableFollowerNotifications *bool `json:"enable_follower_notifications,omitempty"`
	EmailFollowerNotifications  *bool `json:"email_follower_notifications,omitempty"`
	EnableCommentNotifications  *bool `json:"enable_comment_notifications,omitempty"`
	EmailCommentNotifications   *bool `json:"email_comment_notifications,omitempty"`
	EnableRatingNotifications   *bool `json:"enable_rating_notifications,omitempty"`
	EmailRatingNotifications    *bool `json:"email_rating_notifications,omitempty"`
	EnableLikeNotifications     *bool `json:"enable_like_notifications,omitempty"`
	EmailLikeNotifications      *bool `json:"email_like_notifications,omitempty"`
	EnableChapterNotifications  *bool `json:"enable_chapter_notifications,omitempty"`
	EmailChapterNotifications   *bool `json:"email_chapter_notifications,omitempty"`
	AggregationEnabled          *bool `json:"aggregation_enabled,omitempty"`
}
