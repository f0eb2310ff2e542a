package service

import (
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type fakeNotificationRepo struct {
	rows   []*model.Notification
	nextID uint64
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *model.Notification) error {
	f.nextID++
	n.ID = f.nextID
	clone := *n
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeNotificationRepo) UpdateNotification(_ context.Context, n *model.Notification) error {
	for i, row := range f.rows {
		if row.ID == n.ID {
			clone := *n
			f.rows[i] = &clone
			return nil
		}
	}
	return nil
}

func (f *fakeNotificationRepo) GetNotification(_ context.Context, userID, id uint64) (*model.Notification, error) {
	for _, row := range f.rows {
		if row.ID == id && row.UserID == userID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) GetActiveAggregate(_ context.Context, userID uint64, aggKey string, since time.Time) (*model.Notification, error) {
	if aggKey == "" {
		return nil, nil
	}
	for i := len(f.rows) - 1; i >= 0; i-- {
		row := f.rows[i]
		if row.UserID == userID && row.AggregationKey == aggKey &&
			!row.IsRead && !row.IsArchived && !row.UpdatedAt.Before(since) {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) GetNotifications(_ context.Context, userID uint64, onlyUnread, archived bool, limit, offset int) ([]*model.Notification, error) {
	var result []*model.Notification
	for _, row := range f.rows {
		if row.UserID != userID || row.IsArchived != archived {
			continue
		}
		if onlyUnread && row.IsRead {
			continue
		}
		clone := *row
		result = append(result, &clone)
	}
	return result, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(_ context.Context, userID uint64) (int64, error) {
	var count int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsRead && !row.IsArchived {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userID, id uint64) (int64, error) {
	for _, row := range f.rows {
		if row.ID == id && row.UserID == userID && !row.IsRead {
			row.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint64) (int64, error) {
	var rows int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			rows++
		}
	}
	return rows, nil
}

func (f *fakeNotificationRepo) Archive(_ context.Context, userID, id uint64) (int64, error) {
	for _, row := range f.rows {
		if row.ID == id && row.UserID == userID && !row.IsArchived {
			row.IsArchived = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepo) ArchiveAll(_ context.Context, userID uint64) (int64, error) {
	var rows int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsArchived {
			row.IsArchived = true
			rows++
		}
	}
	return rows, nil
}

type fakePreferenceRepo struct {
	prefs map[uint64]*model.NotificationPreference
}

func (f *fakePreferenceRepo) GetPreference(_ context.Context, userID uint64) (*model.NotificationPreference, error) {
	if f.prefs == nil {
		return nil, nil
	}
	if p, ok := f.prefs[userID]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (f *fakePreferenceRepo) UpsertPreference(_ context.Context, p *model.NotificationPreference) error {
	if f.prefs == nil {
		f.prefs = make(map[uint64]*model.NotificationPreference)
	}
	clone := *p
	f.prefs[p.UserID] = &clone
	return nil
}

type fakeUserRepo struct {
	users map[uint64]*model.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, _ *model.User) error { return nil }

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uint64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetUsersByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	var result []*model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, _ *model.User) error { return nil }

type fakeEmailSender struct {
	sent []string
}

func (f *fakeEmailSender) Send(_ context.Context, to, _, _ string) error {
	f.sent = append(f.sent, to)
	return nil
}

func newTestNotificationService() (*NotificationServiceImpl, *fakeNotificationRepo, *fakePreferenceRepo, *fakeUserRepo, *fakeEmailSender) {
	notifRepo := &fakeNotificationRepo{}
	prefRepo := &fakePreferenceRepo{}
	userRepo := &fakeUserRepo{users: map[uint64]*model.User{
		7: {ID: 7, Nickname: "收件人"},
	}}
	sender := &fakeEmailSender{}
	svc := NewNotificationService(notifRepo, prefRepo, userRepo, sender).(*NotificationServiceImpl)
	return svc, notifRepo, prefRepo, userRepo, sender
}

func TestCreateNotification_SelfSuppression(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()

	err := svc.CreateNotification(context.Background(), &NotificationInput{
		RecipientID: 7,
		ActorID:     7,
		Type:        model.NotifyNewFollower,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifRepo.rows) != 0 {
		t.Fatalf("self-triggered event should not create a notification, got %d rows", len(notifRepo.rows))
	}
}

func TestCreateNotification_MissingRecipient(t *testing.T) {
	svc, _, _, _, _ := newTestNotificationService()

	err := svc.CreateNotification(context.Background(), &NotificationInput{
		RecipientID: 0,
		ActorID:     1,
		Type:        model.NotifyNewFollower,
	})
	if err != ErrParamInvalid {
		t.Fatalf("expected ErrParamInvalid, got %v", err)
	}

	err = svc.CreateNotification(context.Background(), &NotificationInput{
		RecipientID: 999,
		ActorID:     1,
		Type:        model.NotifyNewFollower,
	})
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for unknown recipient, got %v", err)
	}
}

func TestCreateNotification_PreferenceGating(t *testing.T) {
	svc, notifRepo, prefRepo, _, _ := newTestNotificationService()

	pref := model.DefaultNotificationPreference(7)
	pref.EnableFollowerNotifications = false
	_ = prefRepo.UpsertPreference(context.Background(), pref)

	err := svc.CreateNotification(context.Background(), &NotificationInput{
		RecipientID: 7,
		ActorID:     3,
		Type:        model.NotifyNewFollower,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifRepo.rows) != 0 {
		t.Fatalf("disabled type should be dropped, got %d rows", len(notifRepo.rows))
	}
}

func TestCreateNotification_AggregatesWithinWindow(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	var firstCreatedAt time.Time
	for i, actorID := range []uint64{1, 2, 3} {
		err := svc.CreateNotification(ctx, &NotificationInput{
			RecipientID: 7,
			ActorID:     actorID,
			Type:        model.NotifyNewFollower,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if i == 0 {
			firstCreatedAt = notifRepo.rows[0].CreatedAt
		}
	}

	if len(notifRepo.rows) != 1 {
		t.Fatalf("expected a single aggregated row, got %d", len(notifRepo.rows))
	}
	if !notifRepo.rows[0].CreatedAt.Equal(firstCreatedAt) {
		t.Fatal("merges must not move created_at")
	}

	var data model.NotificationData
	if err := json.Unmarshal(notifRepo.rows[0].Data, &data); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if data.ActorCount != 3 {
		t.Fatalf("expected actor count 3, got %d", data.ActorCount)
	}
	// 最近的触发者排最前
	if len(data.ActorIDs) != 3 || data.ActorIDs[0] != 3 {
		t.Fatalf("expected newest-first actor list [3 2 1], got %v", data.ActorIDs)
	}
}

func TestCreateNotification_SameActorDoesNotInflateCount(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := svc.CreateNotification(ctx, &NotificationInput{
			RecipientID: 7,
			ActorID:     5,
			Type:        model.NotifyNewFollower,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(notifRepo.rows) != 1 {
		t.Fatalf("expected a single row, got %d", len(notifRepo.rows))
	}
	var data model.NotificationData
	_ = json.Unmarshal(notifRepo.rows[0].Data, &data)
	if data.ActorCount != 1 {
		t.Fatalf("repeated actor should not inflate count, got %d", data.ActorCount)
	}
}

func TestCreateNotification_ActorListCapped(t *testing.T) {
	svc, notifRepo, _, userRepo, _ := newTestNotificationService()
	ctx := context.Background()

	// 收件人 id 放在触发者区间之外，避免撞上自触发抑制
	userRepo.users[100] = &model.User{ID: 100, Nickname: "作者"}

	total := consts.NotifyActorListLimit + 5
	for i := 1; i <= total; i++ {
		err := svc.CreateNotification(ctx, &NotificationInput{
			RecipientID: 100,
			ActorID:     uint64(i),
			Type:        model.NotifyNewFollower,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var data model.NotificationData
	_ = json.Unmarshal(notifRepo.rows[0].Data, &data)
	if len(data.ActorIDs) != consts.NotifyActorListLimit {
		t.Fatalf("actor list should be capped at %d, got %d", consts.NotifyActorListLimit, len(data.ActorIDs))
	}
	if data.ActorCount != total {
		t.Fatalf("actor count should keep full total %d, got %d", total, data.ActorCount)
	}
	if data.ActorIDs[0] != uint64(total) {
		t.Fatalf("newest actor should lead the list, got %v", data.ActorIDs)
	}
}

func TestCreateNotification_WindowExpiryStartsNewRow(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	err := svc.CreateNotification(ctx, &NotificationInput{
		RecipientID: 7,
		ActorID:     1,
		Type:        model.NotifyNewFollower,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 把已有行推出聚合窗口
	notifRepo.rows[0].UpdatedAt = time.Now().Add(-consts.NotifyAggregationWindow - time.Hour)

	err = svc.CreateNotification(ctx, &NotificationInput{
		RecipientID: 7,
		ActorID:     2,
		Type:        model.NotifyNewFollower,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifRepo.rows) != 2 {
		t.Fatalf("events outside the window must not merge, got %d rows", len(notifRepo.rows))
	}
}

func TestCreateNotification_ReadRowNotMergedInto(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	err := svc.CreateNotification(ctx, &NotificationInput{
		RecipientID: 7,
		ActorID:     1,
		Type:        model.NotifyNewFollower,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = svc.MarkRead(ctx, 7, notifRepo.rows[0].ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	err = svc.CreateNotification(ctx, &NotificationInput{
		RecipientID: 7,
		ActorID:     2,
		Type:        model.NotifyNewFollower,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifRepo.rows) != 2 {
		t.Fatalf("read row must not absorb new events, got %d rows", len(notifRepo.rows))
	}
}

func TestCreateNotification_AggregationDisabledByPreference(t *testing.T) {
	svc, notifRepo, prefRepo, _, _ := newTestNotificationService()
	ctx := context.Background()

	pref := model.DefaultNotificationPreference(7)
	pref.AggregationEnabled = false
	_ = prefRepo.UpsertPreference(ctx, pref)

	for _, actorID := range []uint64{1, 2} {
		err := svc.CreateNotification(ctx, &NotificationInput{
			RecipientID: 7,
			ActorID:     actorID,
			Type:        model.NotifyNewFollower,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(notifRepo.rows) != 2 {
		t.Fatalf("aggregation off should keep one row per event, got %d", len(notifRepo.rows))
	}
}

func TestCreateNotification_DistinctNovelsDoNotAggregate(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	for _, novelID := range []uint64{10, 11} {
		err := svc.CreateNotification(ctx, &NotificationInput{
			RecipientID: 7,
			ActorID:     1,
			Type:        model.NotifyNewComment,
			Data:        model.NotificationData{NovelID: novelID, NovelTitle: "书"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(notifRepo.rows) != 2 {
		t.Fatalf("comments on different novels must not merge, got %d rows", len(notifRepo.rows))
	}
}

func TestCreateNotification_EmailOnlyOnNewRow(t *testing.T) {
	svc, _, prefRepo, userRepo, sender := newTestNotificationService()
	ctx := context.Background()

	email := "author@example.com"
	userRepo.users[7] = &model.User{ID: 7, Nickname: "作者", Email: &email}
	userRepo.users[1] = &model.User{ID: 1, Nickname: "读者甲"}
	userRepo.users[2] = &model.User{ID: 2, Nickname: "读者乙"}

	pref := model.DefaultNotificationPreference(7)
	pref.EmailFollowerNotifications = true
	_ = prefRepo.UpsertPreference(ctx, pref)

	for _, actorID := range []uint64{1, 2} {
		err := svc.CreateNotification(ctx, &NotificationInput{
			RecipientID: 7,
			ActorID:     actorID,
			Type:        model.NotifyNewFollower,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 第二次触发合并进已有行，不再发邮件
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(sender.sent))
	}
	if sender.sent[0] != email {
		t.Fatalf("email sent to wrong address: %s", sender.sent[0])
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	_ = svc.CreateNotification(ctx, &NotificationInput{
		RecipientID: 7,
		ActorID:     1,
		Type:        model.NotifyCommentReply,
	})
	id := notifRepo.rows[0].ID

	if err := svc.MarkRead(ctx, 7, id); err != nil {
		t.Fatalf("first mark read failed: %v", err)
	}
	if err := svc.MarkRead(ctx, 7, id); err != nil {
		t.Fatalf("repeated mark read should be idempotent, got %v", err)
	}
}

func TestMarkRead_NotFound(t *testing.T) {
	svc, _, _, _, _ := newTestNotificationService()

	err := svc.MarkRead(context.Background(), 7, 999)
	if err != ErrNotificationNotFound {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestMarkRead_OtherUsersRowInvisible(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	_ = svc.CreateNotification(ctx, &NotificationInput{
		RecipientID: 7,
		ActorID:     1,
		Type:        model.NotifyCommentReply,
	})
	id := notifRepo.rows[0].ID

	err := svc.MarkRead(ctx, 8, id)
	if err != ErrNotificationNotFound {
		t.Fatalf("foreign row should look like not found, got %v", err)
	}
}

func TestArchive_Idempotent(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	_ = svc.CreateNotification(ctx, &NotificationInput{RecipientID: 7, ActorID: 1, Type: model.NotifyCommentReply})
	id := notifRepo.rows[0].ID

	if err := svc.Archive(ctx, 7, id); err != nil {
		t.Fatalf("first archive failed: %v", err)
	}
	if err := svc.Archive(ctx, 7, id); err != nil {
		t.Fatalf("repeated archive should be idempotent, got %v", err)
	}
	if !notifRepo.rows[0].IsArchived {
		t.Fatal("row should stay archived")
	}
}

func TestArchiveAll_EmptiesInbox(t *testing.T) {
	svc, notifRepo, _, _, _ := newTestNotificationService()
	ctx := context.Background()

	_ = svc.CreateNotification(ctx, &NotificationInput{RecipientID: 7, ActorID: 1, Type: model.NotifyCommentReply})
	_ = svc.CreateNotification(ctx, &NotificationInput{RecipientID: 7, ActorID: 2, Type: model.NotifyCommentReply})
	_ = svc.MarkRead(ctx, 7, notifRepo.rows[0].ID)

	affected, err := svc.ArchiveAll(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 未读的行同样归档
	if affected != 2 {
		t.Fatalf("expected 2 archived rows, affected = %d", affected)
	}

	inbox, err := svc.GetNotifications(ctx, 7, false, false, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inbox) != 0 {
		t.Fatalf("inbox should be empty after archive-all, got %d rows", len(inbox))
	}

	affected, err = svc.ArchiveAll(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second archive-all should touch nothing, affected = %d", affected)
	}
}

func TestGetNotifications_RendersTitleWithNickname(t *testing.T) {
	svc, _, _, userRepo, _ := newTestNotificationService()
	ctx := context.Background()

	userRepo.users[3] = &model.User{ID: 3, Nickname: "墨客"}
	_ = svc.CreateNotification(ctx, &NotificationInput{
		RecipientID: 7,
		ActorID:     3,
		Type:        model.NotifyNewFollower,
	})

	views, err := svc.GetNotifications(ctx, 7, false, false, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].Title != "墨客 关注了你" {
		t.Fatalf("unexpected title: %q", views[0].Title)
	}
}

func TestGetPreference_LazyDefault(t *testing.T) {
	svc, _, prefRepo, _, _ := newTestNotificationService()
	ctx := context.Background()

	pref, err := svc.GetPreference(ctx, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pref.EnableFollowerNotifications || pref.EmailFollowerNotifications {
		t.Fatalf("defaults should be in-app on, email off: %+v", pref)
	}
	if !pref.AggregationEnabled {
		t.Fatal("aggregation should default to on")
	}
	if prefRepo.prefs[9] == nil {
		t.Fatal("first read should persist the default row")
	}
}

func TestUpdatePreference_RequiresUser(t *testing.T) {
	svc, _, _, _, _ := newTestNotificationService()

	err := svc.UpdatePreference(context.Background(), &model.NotificationPreference{})
	if err != ErrParamInvalid {
		t.Fatalf("expected ErrParamInvalid, got %v", err)
	}
}
