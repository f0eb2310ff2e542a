package wire

import (
	"Inkstone/internal/api"
	"Inkstone/internal/api/config"
	"Inkstone/internal/api/handler"
	"Inkstone/internal/job"
	"Inkstone/internal/pkg/cron"
	"Inkstone/internal/pkg/email"
	"Inkstone/internal/pkg/es"
	"Inkstone/internal/pkg/kafka"
	pkgmongo "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	novelRepo := repository.NewNovelRepo(db)
	chapterRepo := repository.NewChapterRepo(db)
	viewRepo := repository.NewViewRepo(db)
	actionRepo := repository.NewNovelActionRepo(db)
	metricRepo := repository.NewNovelMetricRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	preferenceRepo := repository.NewNotificationPreferenceRepo(db)

	esRepo := es.NewNovelRepo(es.Client)
	contentRepo := pkgmongo.NewChapterContentRepo(mongoDB)
	emailSender := email.NewSender(cfg.Email)

	userService := service.NewUserService(userRepo, esRepo)
	notificationService := service.NewNotificationService(notificationRepo, preferenceRepo, userRepo, emailSender)
	userFollowService := service.NewUserFollowService(userFollowRepo, userService, notificationService)
	novelService := service.NewNovelService(novelRepo, esRepo, contentRepo)
	chapterService := service.NewChapterService(chapterRepo, novelRepo, userFollowRepo, contentRepo, notificationService)
	viewService := service.NewViewService(novelRepo, viewRepo)
	actionService := service.NewNovelActionService(actionRepo, novelRepo, userService, notificationService)
	metricService := service.NewNovelMetricService(metricRepo, novelRepo)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		UserFollowHandler:   handler.NewUserFollowHandler(userFollowService),
		NovelHandler:        handler.NewNovelHandler(novelService),
		ChapterHandler:      handler.NewChapterHandler(chapterService),
		ViewHandler:         handler.NewViewHandler(viewService),
		NovelActionHandler:  handler.NewNovelActionHandler(actionService),
		NovelMetricHandler:  handler.NewNovelMetricHandler(metricService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, novelRepo)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewNovelMetricJob(metricService),
		job.NewViewerPurgeJob(viewService),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
