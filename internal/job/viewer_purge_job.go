package job

import (
	"Inkstone/internal/pkg/logger"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// ViewerPurgeJob 清理阅读量去重标记表里已过窗口的行
type ViewerPurgeJob struct {
	viewSvc service.ViewService
}

func NewViewerPurgeJob(viewSvc service.ViewService) *ViewerPurgeJob {
	return &ViewerPurgeJob{viewSvc: viewSvc}
}

func (s *ViewerPurgeJob) Run() {
	traceID := "job-viewer-purge-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	purged, err := s.viewSvc.PurgeExpiredMarkers(ctx)
	if err != nil {
		log.ErrorContext(ctx, "purge expired viewer markers error", "err", err)
		return
	}

	log.InfoContext(ctx, "purge expired viewer markers success", "purged", purged)
}
