package api

import "Inkstone/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	UserFollowHandler   *handler.UserFollowHandler
	NovelHandler        *handler.NovelHandler
	ChapterHandler      *handler.ChapterHandler
	ViewHandler         *handler.ViewHandler
	NovelActionHandler  *handler.NovelActionHandler
	NovelMetricHandler  *handler.NovelMetricHandler
	NotificationHandler *handler.NotificationHandler
}
