package cron

import (
	"Inkstone/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine         *cron.Cron
	metricJob      *job.NovelMetricJob
	viewerPurgeJob *job.ViewerPurgeJob
}

func NewCronManager(metricJob *job.NovelMetricJob, viewerPurgeJob *job.ViewerPurgeJob) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		metricJob:      metricJob,
		viewerPurgeJob: viewerPurgeJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@daily", s.metricJob); err != nil {
		return err
	}
	// 去重标记清理每小时一次，窗口只有 30 分钟，表不会膨胀太多
	if _, err := s.engine.AddJob("@hourly", s.viewerPurgeJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
