package api

import (
	"Inkstone/internal/api/middleware"
	"Inkstone/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.GET("/:user_id/simple", group.UserHandler.GetUserSimpleInfoById)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
			}
		}

		userFollowGroup := apiGroup.Group("/user-relation")
		{
			userFollowGroup.GET("/:user_id/followers", group.UserFollowHandler.GetFollowers)
			userFollowGroup.GET("/:user_id/followings", group.UserFollowHandler.GetFollowing)
			userFollowGroup.GET("/:user_id/stats", group.UserFollowHandler.GetFollowStats)

			authGroup := userFollowGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/isfollow/:user_id", group.UserFollowHandler.IsFollowing)
				authGroup.POST("/follow/:user_id", group.UserFollowHandler.Follow)
				authGroup.DELETE("/follow/:user_id", group.UserFollowHandler.Unfollow)
			}
		}

		novelGroup := apiGroup.Group("/novels")
		{
			novelGroup.GET("/latest", group.NovelHandler.GetLatestNovels)
			novelGroup.GET("/search", group.NovelHandler.SearchNovels)
			novelGroup.GET("/suggestions", group.NovelHandler.GetSuggestions)
			novelGroup.GET("/detail/:novel_id", group.NovelHandler.GetNovel)
			novelGroup.GET("/list/:user_id", group.NovelHandler.GetNovelsByAuthor)
			novelGroup.GET("/detail/:novel_id/views", group.ViewHandler.GetViewCount)

			// 阅读打点：匿名可用，登录身份用于去重键
			authOptGroup := novelGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.POST("/detail/:novel_id/view", group.ViewHandler.TrackView)
			}

			authGroup := novelGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.NovelHandler.CreateNovel)
				authGroup.GET("/self", group.NovelHandler.GetMyNovels)
				authGroup.PUT("/detail/:novel_id", group.NovelHandler.UpdateNovel)
				authGroup.POST("/detail/:novel_id/cover", group.NovelHandler.UploadCover)
				authGroup.DELETE("/detail/:novel_id", group.NovelHandler.DeleteNovel)
				authGroup.GET("/detail/:novel_id/trend", group.NovelMetricHandler.GetTrend)
			}
		}

		chapterGroup := apiGroup.Group("/chapters")
		{
			authOptGroup := chapterGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/list/:novel_id", group.ChapterHandler.GetChapters)
				authOptGroup.GET("/detail/:chapter_id", group.ChapterHandler.GetChapterContent)
			}

			authGroup := chapterGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/list/:novel_id", group.ChapterHandler.CreateChapter)
				authGroup.PUT("/detail/:chapter_id", group.ChapterHandler.UpdateChapter)
				authGroup.POST("/detail/:chapter_id/publish", group.ChapterHandler.PublishChapter)
				authGroup.DELETE("/detail/:chapter_id", group.ChapterHandler.DeleteChapter)
			}
		}

		actionGroup := apiGroup.Group("/novel/action")
		{
			actionGroup.GET("/comments/:novel_id", group.NovelActionHandler.GetComments)
			actionGroup.GET("/ratings/:novel_id", group.NovelActionHandler.GetRatings)

			authGroup := actionGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/comments/:novel_id", group.NovelActionHandler.CreateComment)
				authGroup.DELETE("/comments/detail/:comment_id", group.NovelActionHandler.DeleteComment)
				authGroup.POST("/comments/detail/:comment_id/like", group.NovelActionHandler.LikeComment)
				authGroup.DELETE("/comments/detail/:comment_id/like", group.NovelActionHandler.UnlikeComment)
				authGroup.POST("/ratings/:novel_id", group.NovelActionHandler.RateNovel)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		{
			notifyGroup.GET("/ws", group.NotificationHandler.Connect)

			authGroup := notifyGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/list", group.NotificationHandler.GetNotifications)
				authGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
				authGroup.POST("/read/:notification_id", group.NotificationHandler.MarkRead)
				authGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
				authGroup.POST("/archive/:notification_id", group.NotificationHandler.Archive)
				authGroup.POST("/archive/all", group.NotificationHandler.ArchiveAll)
				authGroup.GET("/preferences", group.NotificationHandler.GetPreference)
				authGroup.PUT("/preferences", group.NotificationHandler.UpdatePreference)
			}
		}
	}

	return r
}
