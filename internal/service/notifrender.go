package service

import (
	"Inkstone/internal/model"
	"fmt"
	"strconv"
)

// 通知标题在读取时渲染，行里只存结构化数据。
// 这样触发者改昵称后老通知不会显示过期昵称，聚合合并也不用重写文案。

// RenderTitle 根据通知类型和负载渲染展示标题。
// actorName 是最近一个触发者的昵称，触发者缺失时用占位称呼。
func RenderTitle(t model.NotificationType, data *model.NotificationData, actorName string) string {
	if actorName == "" {
		actorName = "有人"
	}

	switch t {
	case model.NotifyNewFollower:
		if data.ActorCount > 1 {
			return fmt.Sprintf("%s 等 %d 人关注了你", actorName, data.ActorCount)
		}
		return fmt.Sprintf("%s 关注了你", actorName)

	case model.NotifyNewComment:
		if data.ActorCount > 1 {
			return fmt.Sprintf("%s 等 %d 人评论了你的作品《%s》", actorName, data.ActorCount, data.NovelTitle)
		}
		return fmt.Sprintf("%s 评论了你的作品《%s》", actorName, data.NovelTitle)

	case model.NotifyCommentReply:
		return fmt.Sprintf("%s 回复了你的评论", actorName)

	case model.NotifyNewRating:
		if data.ActorCount > 1 {
			return fmt.Sprintf("%s 等 %d 人评价了你的作品《%s》", actorName, data.ActorCount, data.NovelTitle)
		}
		return fmt.Sprintf("%s 给你的作品《%s》打了 %d 分", actorName, data.NovelTitle, data.Score)

	case model.NotifyRatingReply:
		return fmt.Sprintf("%s 回复了你的书评", actorName)

	case model.NotifyCommentLike:
		if data.ActorCount > 1 {
			return fmt.Sprintf("%s 等 %d 人赞了你的评论", actorName, data.ActorCount)
		}
		return fmt.Sprintf("%s 赞了你的评论", actorName)

	case model.NotifyNewChapter:
		return fmt.Sprintf("你关注的《%s》更新了：%s", data.NovelTitle, data.Title)

	case model.NotifySystem:
		return data.Title
	}

	return "你有一条新通知"
}

// AggregationKey 计算聚合键。不可聚合的类型返回空串，每条通知独立成行。
func AggregationKey(t model.NotificationType, data *model.NotificationData) string {
	switch t {
	case model.NotifyNewFollower:
		return string(t)
	case model.NotifyNewComment, model.NotifyNewRating:
		return string(t) + ":novel:" + strconv.FormatUint(data.NovelID, 10)
	case model.NotifyCommentLike:
		return string(t) + ":comment:" + strconv.FormatUint(data.CommentID, 10)
	}
	return ""
}

// inAppEnabled 站内通知开关，系统公告不受偏好控制
func inAppEnabled(p *model.NotificationPreference, t model.NotificationType) bool {
	switch t {
	case model.NotifyNewFollower:
		return p.EnableFollowerNotifications
	case model.NotifyNewComment, model.NotifyCommentReply:
		return p.EnableCommentNotifications
	case model.NotifyNewRating, model.NotifyRatingReply:
		return p.EnableRatingNotifications
	case model.NotifyCommentLike:
		return p.EnableLikeNotifications
	case model.NotifyNewChapter:
		return p.EnableChapterNotifications
	}
	return true
}

// emailEnabled 邮件开关，默认全部关闭
func emailEnabled(p *model.NotificationPreference, t model.NotificationType) bool {
	switch t {
	case model.NotifyNewFollower:
		return p.EmailFollowerNotifications
	case model.NotifyNewComment, model.NotifyCommentReply:
		return p.EmailCommentNotifications
	case model.NotifyNewRating, model.NotifyRatingReply:
		return p.EmailRatingNotifications
	case model.NotifyCommentLike:
		return p.EmailLikeNotifications
	case model.NotifyNewChapter:
		return p.EmailChapterNotifications
	}
	return false
}
