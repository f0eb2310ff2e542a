package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/pkg/security"
	"Inkstone/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

func (s *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var listDTO dto.NotificationListDTO
	if err := c.ShouldBindQuery(&listDTO); err != nil {
		response.Error(c, err)
		return
	}
	listDTO.Normalize()

	views, err := s.notificationSvc.GetNotifications(
		c.Request.Context(),
		userID,
		listDTO.OnlyUnread,
		listDTO.Archived,
		listDTO.Limit,
		listDTO.Offset,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.notificationSvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.UnreadCountDTO{Count: count})
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	id, err := strconv.ParseUint(c.Param("notification_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.notificationSvc.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	affected, err := s.notificationSvc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BatchResultDTO{Affected: affected})
}

func (s *NotificationHandler) Archive(c *gin.Context) {
	userID := c.GetUint64("user_id")
	id, err := strconv.ParseUint(c.Param("notification_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	err = s.notificationSvc.Archive(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) ArchiveAll(c *gin.Context) {
	userID := c.GetUint64("user_id")
	affected, err := s.notificationSvc.ArchiveAll(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BatchResultDTO{Affected: affected})
}

func (s *NotificationHandler) GetPreference(c *gin.Context) {
	userID := c.GetUint64("user_id")
	preference, err := s.notificationSvc.GetPreference(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, preference)
}

// UpdatePreference 只改请求里出现的开关，缺省字段保持原值
func (s *NotificationHandler) UpdatePreference(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var prefDTO dto.PreferenceDTO
	if err := c.ShouldBind(&prefDTO); err != nil {
		response.Error(c, err)
		return
	}

	preference, err := s.notificationSvc.GetPreference(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if prefDTO.EnableFollowerNotifications != nil {
		preference.EnableFollowerNotifications = *prefDTO.EnableFollowerNotifications
	}
	if prefDTO.EmailFollowerNotifications != nil {
		preference.EmailFollowerNotifications = *prefDTO.EmailFollowerNotifications
	}
	if prefDTO.EnableCommentNotifications != nil {
		preference.EnableCommentNotifications = *prefDTO.EnableCommentNotifications
	}
	if prefDTO.EmailCommentNotifications != nil {
		preference.EmailCommentNotifications = *prefDTO.EmailCommentNotifications
	}
	if prefDTO.EnableRatingNotifications != nil {
		preference.EnableRatingNotifications = *prefDTO.EnableRatingNotifications
	}
	if prefDTO.EmailRatingNotifications != nil {
		preference.EmailRatingNotifications = *prefDTO.EmailRatingNotifications
	}
	if prefDTO.EnableLikeNotifications != nil {
		preference.EnableLikeNotifications = *prefDTO.EnableLikeNotifications
	}
	if prefDTO.EmailLikeNotifications != nil {
		preference.EmailLikeNotifications = *prefDTO.EmailLikeNotifications
	}
	if prefDTO.EnableChapterNotifications != nil {
		preference.EnableChapterNotifications = *prefDTO.EnableChapterNotifications
	}
	if prefDTO.EmailChapterNotifications != nil {
		preference.EmailChapterNotifications = *prefDTO.EmailChapterNotifications
	}
	if prefDTO.AggregationEnabled != nil {
		preference.AggregationEnabled = *prefDTO.AggregationEnabled
	}

	err = s.notificationSvc.UpdatePreference(c.Request.Context(), preference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, preference)
}

// Connect 建立通知推送的 Websocket 连接，订阅该用户的 Redis 频道
func (s *NotificationHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	channel := consts.NotifyChannelKey + strconv.FormatUint(userID, 10)
	pubsub := redis.Subscribe(context.Background(), channel)
	if pubsub == nil {
		log.Error("WS 订阅失败，redis 未初始化", "userID", userID)
		return
	}
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户通知 WS 连接已建立", "userID", userID)

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				close(stopChan)
				return
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload))
			if err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户通知 WS 连接已断开", "userID", userID)
			return
		}
	}
}
