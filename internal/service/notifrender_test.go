package service

import (
	"Inkstone/internal/model"
	"testing"
)

func TestRenderTitle(t *testing.T) {
	tests := []struct {
		name      string
		t         model.NotificationType
		data      model.NotificationData
		actorName string
		want      string
	}{
		{
			name:      "single follower",
			t:         model.NotifyNewFollower,
			data:      model.NotificationData{ActorCount: 1},
			actorName: "墨客",
			want:      "墨客 关注了你",
		},
		{
			name:      "aggregated followers",
			t:         model.NotifyNewFollower,
			data:      model.NotificationData{ActorCount: 5},
			actorName: "墨客",
			want:      "墨客 等 5 人关注了你",
		},
		{
			name:      "missing actor falls back to placeholder",
			t:         model.NotifyNewFollower,
			data:      model.NotificationData{ActorCount: 1},
			actorName: "",
			want:      "有人 关注了你",
		},
		{
			name:      "comment on novel",
			t:         model.NotifyNewComment,
			data:      model.NotificationData{ActorCount: 1, NovelTitle: "山河志"},
			actorName: "读者甲",
			want:      "读者甲 评论了你的作品《山河志》",
		},
		{
			name:      "rating with score",
			t:         model.NotifyNewRating,
			data:      model.NotificationData{ActorCount: 1, NovelTitle: "山河志", Score: 5},
			actorName: "读者甲",
			want:      "读者甲 给你的作品《山河志》打了 5 分",
		},
		{
			name:      "new chapter",
			t:         model.NotifyNewChapter,
			data:      model.NotificationData{NovelTitle: "山河志", Title: "第十章"},
			actorName: "作者",
			want:      "你关注的《山河志》更新了：第十章",
		},
		{
			name:      "system uses payload title",
			t:         model.NotifySystem,
			data:      model.NotificationData{Title: "维护公告"},
			actorName: "",
			want:      "维护公告",
		},
		{
			name:      "unknown type falls back",
			t:         model.NotificationType("mystery"),
			data:      model.NotificationData{},
			actorName: "",
			want:      "你有一条新通知",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderTitle(tt.t, &tt.data, tt.actorName)
			if got != tt.want {
				t.Fatalf("RenderTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregationKey(t *testing.T) {
	tests := []struct {
		name string
		t    model.NotificationType
		data model.NotificationData
		want string
	}{
		{
			name: "followers aggregate per type",
			t:    model.NotifyNewFollower,
			want: "new_follower",
		},
		{
			name: "comments aggregate per novel",
			t:    model.NotifyNewComment,
			data: model.NotificationData{NovelID: 42},
			want: "new_comment:novel:42",
		},
		{
			name: "ratings aggregate per novel",
			t:    model.NotifyNewRating,
			data: model.NotificationData{NovelID: 42},
			want: "new_rating:novel:42",
		},
		{
			name: "likes aggregate per comment",
			t:    model.NotifyCommentLike,
			data: model.NotificationData{CommentID: 9},
			want: "comment_like:comment:9",
		},
		{
			name: "replies never aggregate",
			t:    model.NotifyCommentReply,
			want: "",
		},
		{
			name: "system never aggregates",
			t:    model.NotifySystem,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregationKey(tt.t, &tt.data)
			if got != tt.want {
				t.Fatalf("AggregationKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
