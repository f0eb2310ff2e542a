package service

import (
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/email"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// NotificationInput 业务方投递通知的入参
type NotificationInput struct {
	RecipientID uint64
	ActorID     uint64 // 0 代表系统触发
	Type        model.NotificationType
	Data        model.NotificationData
}

// NotificationView 读取侧的渲染结果
type NotificationView struct {
	ID         uint64                     `json:"id"`
	Type       model.NotificationType     `json:"type"`
	Title      string                     `json:"title"`
	Priority   model.NotificationPriority `json:"priority"`
	IsRead     bool                       `json:"is_read"`
	IsArchived bool                       `json:"is_archived"`
	Data       model.NotificationData     `json:"data"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

type NotificationService interface {
	CreateNotification(ctx context.Context, input *NotificationInput) error
	GetNotifications(ctx context.Context, userID uint64, onlyUnread, archived bool, limit, offset int) ([]*NotificationView, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, id uint64) error
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	Archive(ctx context.Context, userID uint64, id uint64) error
	ArchiveAll(ctx context.Context, userID uint64) (int64, error)
	GetPreference(ctx context.Context, userID uint64) (*model.NotificationPreference, error)
	UpdatePreference(ctx context.Context, preference *model.NotificationPreference) error
}

type NotificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
	preferenceRepo   repository.NotificationPreferenceRepo
	userRepo         repository.UserRepo
	emailSender      email.Sender
}

func NewNotificationService(
	notificationRepo repository.NotificationRepo,
	preferenceRepo repository.NotificationPreferenceRepo,
	userRepo repository.UserRepo,
	emailSender email.Sender,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		userRepo:         userRepo,
		emailSender:      emailSender,
	}
}

// CreateNotification 投递一条通知。
// 自己触发的事件不通知自己；站内开关关闭时整条丢弃；
// 可聚合类型在窗口内合并进已有的未读行，而不是堆一条新行。
func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, input *NotificationInput) error {
	if input.RecipientID == 0 {
		return ErrParamInvalid
	}
	if input.ActorID != 0 && input.ActorID == input.RecipientID {
		return nil
	}

	recipient, err := s.userRepo.GetUserByID(ctx, input.RecipientID)
	if err != nil {
		return err
	}
	if recipient == nil {
		return ErrUserNotFound
	}

	pref := s.loadPreference(ctx, input.RecipientID)
	if !inAppEnabled(pref, input.Type) {
		return nil
	}

	now := time.Now()
	merged := false

	if model.IsAggregable(input.Type) && pref.AggregationEnabled {
		aggKey := AggregationKey(input.Type, &input.Data)
		since := now.Add(-consts.NotifyAggregationWindow)
		existing, err := s.notificationRepo.GetActiveAggregate(ctx, input.RecipientID, aggKey, since)
		if err != nil {
			return err
		}
		if existing != nil {
			if err = s.mergeAggregate(ctx, existing, input.ActorID, now); err != nil {
				return err
			}
			merged = true
		}
	}

	if !merged {
		if err := s.insertNotification(ctx, input, now); err != nil {
			return err
		}
	}

	s.invalidateUnread(ctx, input.RecipientID)
	s.publishBadge(ctx, input.RecipientID, input.Type)
	return nil
}

func (s *NotificationServiceImpl) insertNotification(ctx context.Context, input *NotificationInput, now time.Time) error {
	data := input.Data
	if input.ActorID != 0 {
		data.ActorIDs = []uint64{input.ActorID}
		data.ActorCount = 1
	}
	payload, err := json.Marshal(&data)
	if err != nil {
		return err
	}

	notification := &model.Notification{
		UserID:         input.RecipientID,
		Type:           input.Type,
		ActorID:        input.ActorID,
		AggregationKey: AggregationKey(input.Type, &input.Data),
		Data:           payload,
		Priority:       model.TypePriority(input.Type),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return err
	}

	// 邮件只在新行产生时发一次，聚合合并不重复打扰。
	// 发送失败不影响通知本身，记日志后继续。
	pref := s.loadPreference(ctx, input.RecipientID)
	if emailEnabled(pref, input.Type) {
		s.sendEmail(ctx, input.RecipientID, input.Type, &data)
	}
	return nil
}

// mergeAggregate 把新触发者并入已有通知。
// 同一触发者窗口内反复触发只刷新时间，不虚增人数。
func (s *NotificationServiceImpl) mergeAggregate(ctx context.Context, existing *model.Notification, actorID uint64, now time.Time) error {
	var data model.NotificationData
	if len(existing.Data) > 0 {
		if err := json.Unmarshal(existing.Data, &data); err != nil {
			return err
		}
	}

	seen := false
	for _, id := range data.ActorIDs {
		if id == actorID {
			seen = true
			break
		}
	}
	if !seen && actorID != 0 {
		data.ActorIDs = append([]uint64{actorID}, data.ActorIDs...)
		if len(data.ActorIDs) > consts.NotifyActorListLimit {
			data.ActorIDs = data.ActorIDs[:consts.NotifyActorListLimit]
		}
		data.ActorCount++
	}

	payload, err := json.Marshal(&data)
	if err != nil {
		return err
	}
	existing.ActorID = actorID
	existing.Data = payload
	existing.UpdatedAt = now
	return s.notificationRepo.UpdateNotification(ctx, existing)
}

func (s *NotificationServiceImpl) sendEmail(ctx context.Context, userID uint64, t model.NotificationType, data *model.NotificationData) {
	if s.emailSender == nil {
		return
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil || user == nil || user.Email == nil || *user.Email == "" {
		return
	}

	actorName := s.lookupActorName(ctx, data)
	title := RenderTitle(t, data, actorName)
	if err = s.emailSender.Send(ctx, *user.Email, title, title); err != nil {
		log.ErrorContext(ctx, "send notification email failed", "userID", userID, "type", t, "err", err)
	}
}

// GetNotifications 拉取通知列表并渲染标题。archived 区分收件箱和归档两个视图。
func (s *NotificationServiceImpl) GetNotifications(ctx context.Context, userID uint64, onlyUnread, archived bool, limit, offset int) ([]*NotificationView, error) {
	notifications, err := s.notificationRepo.GetNotifications(ctx, userID, onlyUnread, archived, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]*NotificationView, 0, len(notifications))
	actorIDs := make([]uint64, 0, len(notifications))
	dataList := make([]model.NotificationData, len(notifications))

	for i, n := range notifications {
		if len(n.Data) > 0 {
			_ = json.Unmarshal(n.Data, &dataList[i])
		}
		if len(dataList[i].ActorIDs) > 0 {
			actorIDs = append(actorIDs, dataList[i].ActorIDs[0])
		}
	}

	nicknames := s.lookupNicknames(ctx, actorIDs)

	for i, n := range notifications {
		actorName := ""
		if len(dataList[i].ActorIDs) > 0 {
			actorName = nicknames[dataList[i].ActorIDs[0]]
		}
		views = append(views, &NotificationView{
			ID:         n.ID,
			Type:       n.Type,
			Title:      RenderTitle(n.Type, &dataList[i], actorName),
			Priority:   n.Priority,
			IsRead:     n.IsRead,
			IsArchived: n.IsArchived,
			Data:       dataList[i],
			CreatedAt:  n.CreatedAt,
			UpdatedAt:  n.UpdatedAt,
		})
	}
	return views, nil
}

// GetUnreadCount 未读数，缓存未命中回源计数
func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	key := consts.NotifyUnreadCountKey + strconv.FormatUint(userID, 10)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}

	count, err = s.notificationRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, count, time.Hour*1)
	return count, nil
}

// MarkRead 标记单条已读。重复标记幂等成功，标别人的通知按不存在处理。
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID uint64, id uint64) error {
	rows, err := s.notificationRepo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		notification, err := s.notificationRepo.GetNotification(ctx, userID, id)
		if err != nil {
			return err
		}
		if notification == nil {
			return ErrNotificationNotFound
		}
		return nil
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	rows, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		s.invalidateUnread(ctx, userID)
	}
	return rows, nil
}

// Archive 归档单向，归档后的行不再出现在默认列表和未读数里
func (s *NotificationServiceImpl) Archive(ctx context.Context, userID uint64, id uint64) error {
	rows, err := s.notificationRepo.Archive(ctx, userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		notification, err := s.notificationRepo.GetNotification(ctx, userID, id)
		if err != nil {
			return err
		}
		if notification == nil {
			return ErrNotificationNotFound
		}
		return nil
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// ArchiveAll 清空收件箱：未读的行也一并归档，所以未读数缓存要失效
func (s *NotificationServiceImpl) ArchiveAll(ctx context.Context, userID uint64) (int64, error) {
	rows, err := s.notificationRepo.ArchiveAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		s.invalidateUnread(ctx, userID)
	}
	return rows, nil
}

// GetPreference 读取偏好，首次读取时落一行默认值
func (s *NotificationServiceImpl) GetPreference(ctx context.Context, userID uint64) (*model.NotificationPreference, error) {
	preference, err := s.preferenceRepo.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if preference != nil {
		return preference, nil
	}

	preference = model.DefaultNotificationPreference(userID)
	preference.CreatedAt = time.Now()
	preference.UpdatedAt = preference.CreatedAt
	if err = s.preferenceRepo.UpsertPreference(ctx, preference); err != nil {
		return nil, err
	}
	return preference, nil
}

func (s *NotificationServiceImpl) UpdatePreference(ctx context.Context, preference *model.NotificationPreference) error {
	if preference.UserID == 0 {
		return ErrParamInvalid
	}
	preference.UpdatedAt = time.Now()
	return s.preferenceRepo.UpsertPreference(ctx, preference)
}

// loadPreference 投递路径上的偏好读取，读不到时按默认值放行，不落库
func (s *NotificationServiceImpl) loadPreference(ctx context.Context, userID uint64) *model.NotificationPreference {
	preference, err := s.preferenceRepo.GetPreference(ctx, userID)
	if err != nil || preference == nil {
		return model.DefaultNotificationPreference(userID)
	}
	return preference
}

func (s *NotificationServiceImpl) lookupActorName(ctx context.Context, data *model.NotificationData) string {
	if len(data.ActorIDs) == 0 {
		return ""
	}
	user, err := s.userRepo.GetUserByID(ctx, data.ActorIDs[0])
	if err != nil || user == nil {
		return ""
	}
	return user.Nickname
}

func (s *NotificationServiceImpl) lookupNicknames(ctx context.Context, ids []uint64) map[uint64]string {
	nicknames := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return nicknames
	}
	users, err := s.userRepo.GetUsersByIds(ctx, ids)
	if err != nil {
		log.WarnContext(ctx, "lookup actor nicknames failed", "err", err)
		return nicknames
	}
	for _, u := range users {
		nicknames[u.ID] = u.Nickname
	}
	return nicknames
}

func (s *NotificationServiceImpl) invalidateUnread(ctx context.Context, userID uint64) {
	key := consts.NotifyUnreadCountKey + strconv.FormatUint(userID, 10)
	if err := redis.DeleteKey(ctx, key); err != nil {
		log.WarnContext(ctx, "invalidate unread cache failed", "userID", userID, "err", err)
	}
}

// publishBadge 通过 Redis 总线通知在线端刷新角标
func (s *NotificationServiceImpl) publishBadge(ctx context.Context, userID uint64, t model.NotificationType) {
	channel := consts.NotifyChannelKey + strconv.FormatUint(userID, 10)
	payload, _ := json.Marshal(map[string]interface{}{
		"event": "notification",
		"type":  t,
	})
	if err := redis.Publish(ctx, channel, payload); err != nil {
		log.WarnContext(ctx, "publish notify badge failed", "userID", userID, "err", err)
	}
}
