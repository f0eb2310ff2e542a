package service

import (
	"Inkstone/internal/model"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

type fakeNovelRepo struct {
	novels map[uint64]*model.Novel
}

func (f *fakeNovelRepo) CreateNovel(_ context.Context, _ *model.Novel) error { return nil }

// GetNovel 返回行的快照，后续计数器变更不影响已读出的结构
func (f *fakeNovelRepo) GetNovel(_ context.Context, id uint64) (*model.Novel, error) {
	if n, ok := f.novels[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeNovelRepo) GetNovelsByIds(_ context.Context, ids []uint64) ([]*model.Novel, error) {
	var result []*model.Novel
	for _, id := range ids {
		if n, ok := f.novels[id]; ok {
			result = append(result, n)
		}
	}
	return result, nil
}

func (f *fakeNovelRepo) GetNovelsByAuthor(_ context.Context, _ uint64, _, _ int) ([]*model.Novel, error) {
	return nil, nil
}

func (f *fakeNovelRepo) GetNovels(_ context.Context, _ int8, _, _ int) ([]*model.Novel, error) {
	return nil, nil
}

func (f *fakeNovelRepo) GetActiveNovelIDs(_ context.Context) ([]uint64, error) {
	var ids []uint64
	for id := range f.novels {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeNovelRepo) UpdateNovel(_ context.Context, _ *model.Novel) error { return nil }

func (f *fakeNovelRepo) IncrCounter(_ context.Context, id uint64, column string, delta int64) error {
	if n, ok := f.novels[id]; ok && column == "views_count" {
		n.ViewsCount += delta
	}
	return nil
}

func (f *fakeNovelRepo) DeleteNovel(_ context.Context, _ uint64) error { return nil }

// fakeViewRepo 模拟去重表：同一 (novel, viewer) 在窗口内只计一次。
// 真实实现里标记与计数在同一事务内完成，这里同步加在假的小说行上。
type fakeViewRepo struct {
	markers map[string]time.Time
	novels  *fakeNovelRepo
	fail    bool
	purged  int64
}

func markerKey(novelID uint64, viewerKey string) string {
	return strconv.FormatUint(novelID, 10) + "|" + viewerKey
}

func (f *fakeViewRepo) TryMarkViewer(_ context.Context, novelID uint64, viewerKey string, now time.Time, window time.Duration) (bool, error) {
	if f.fail {
		return false, errors.New("storage unavailable")
	}
	if f.markers == nil {
		f.markers = make(map[string]time.Time)
	}
	key := markerKey(novelID, viewerKey)
	if expires, ok := f.markers[key]; ok && expires.After(now) {
		return false, nil
	}
	f.markers[key] = now.Add(window)
	if f.novels != nil {
		_ = f.novels.IncrCounter(context.Background(), novelID, "views_count", 1)
	}
	return true, nil
}

func (f *fakeViewRepo) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	var rows int64
	for key, expires := range f.markers {
		if expires.Before(before) {
			delete(f.markers, key)
			rows++
		}
	}
	f.purged = rows
	return rows, nil
}

func newTestViewService() (ViewService, *fakeNovelRepo, *fakeViewRepo) {
	novelRepo := &fakeNovelRepo{novels: map[uint64]*model.Novel{
		42: {ID: 42, AuthorID: 1, Title: "测试作品"},
	}}
	viewRepo := &fakeViewRepo{novels: novelRepo}
	return NewViewService(novelRepo, viewRepo), novelRepo, viewRepo
}

func TestTrackView_FirstViewCounted(t *testing.T) {
	svc, _, _ := newTestViewService()

	counted, viewsCount, err := svc.TrackView(context.Background(), 42, 7, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !counted {
		t.Fatal("first view should be counted")
	}
	if viewsCount != 1 {
		t.Fatalf("expected views count 1, got %d", viewsCount)
	}
}

func TestTrackView_DuplicateWithinWindow(t *testing.T) {
	svc, _, _ := newTestViewService()
	ctx := context.Background()

	if counted, _, _ := svc.TrackView(ctx, 42, 7, "", ""); !counted {
		t.Fatal("first view should be counted")
	}
	counted, viewsCount, err := svc.TrackView(ctx, 42, 7, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counted {
		t.Fatal("repeat view within window must not count")
	}
	if viewsCount != 1 {
		t.Fatalf("repeat view must not move the counter, got %d", viewsCount)
	}
}

func TestTrackView_DistinctViewersBothCount(t *testing.T) {
	svc, _, _ := newTestViewService()
	ctx := context.Background()

	first, _, _ := svc.TrackView(ctx, 42, 7, "", "")
	second, viewsCount, _ := svc.TrackView(ctx, 42, 8, "", "")
	if !first || !second {
		t.Fatalf("distinct viewers should both count: %v %v", first, second)
	}
	if viewsCount != 2 {
		t.Fatalf("expected views count 2, got %d", viewsCount)
	}
}

func TestTrackView_AnonymousViewersKeyedByFingerprint(t *testing.T) {
	svc, _, _ := newTestViewService()
	ctx := context.Background()

	first, _, _ := svc.TrackView(ctx, 42, 0, "1.2.3.4", "reader-app")
	repeat, _, _ := svc.TrackView(ctx, 42, 0, "1.2.3.4", "reader-app")
	other, _, _ := svc.TrackView(ctx, 42, 0, "5.6.7.8", "reader-app")

	if !first {
		t.Fatal("first anonymous view should count")
	}
	if repeat {
		t.Fatal("same anonymous fingerprint must not double count")
	}
	if !other {
		t.Fatal("different anonymous fingerprint should count")
	}
}

func TestTrackView_WindowExpiryRecounts(t *testing.T) {
	svc, _, viewRepo := newTestViewService()
	ctx := context.Background()

	if counted, _, _ := svc.TrackView(ctx, 42, 7, "", ""); !counted {
		t.Fatal("first view should be counted")
	}

	// 把去重标记推到窗口外
	viewRepo.markers[markerKey(42, "user:7")] = time.Now().Add(-time.Minute)

	counted, viewsCount, err := svc.TrackView(ctx, 42, 7, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !counted {
		t.Fatal("view after window expiry should count again")
	}
	if viewsCount != 2 {
		t.Fatalf("expected views count 2, got %d", viewsCount)
	}
}

func TestTrackView_NovelNotFound(t *testing.T) {
	svc, _, _ := newTestViewService()

	_, _, err := svc.TrackView(context.Background(), 999, 7, "", "")
	if err != ErrNovelNotFound {
		t.Fatalf("expected ErrNovelNotFound, got %v", err)
	}
}

func TestTrackView_StoreFailureSoft(t *testing.T) {
	svc, _, viewRepo := newTestViewService()
	viewRepo.fail = true

	counted, _, err := svc.TrackView(context.Background(), 42, 7, "", "")
	if err != nil {
		t.Fatalf("store failure must not surface to the reader: %v", err)
	}
	if counted {
		t.Fatal("failed attempt must not report counted")
	}
}

func TestPurgeExpiredMarkers(t *testing.T) {
	svc, _, viewRepo := newTestViewService()
	ctx := context.Background()

	viewRepo.markers = map[string]time.Time{
		"stale": time.Now().Add(-time.Hour),
		"live":  time.Now().Add(time.Hour),
	}

	rows, err := svc.PurgeExpiredMarkers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 purged marker, got %d", rows)
	}
	if _, ok := viewRepo.markers["live"]; !ok {
		t.Fatal("unexpired marker must survive the purge")
	}
}
