package kafka

import (
	"Inkstone/internal/api/config"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	commentsConsumer sarama.ConsumerGroup
	commentsHandler  sarama.ConsumerGroupHandler

	ratingsConsumer sarama.ConsumerGroup
	ratingsHandler  sarama.ConsumerGroupHandler

	userFollowsConsumer sarama.ConsumerGroup
	userFollowsHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	novelDBRepo repository.NovelRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	commentsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	commentsHandler := NewCommentsHandler(novelDBRepo)

	ratingsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaRatingConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	ratingsHandler := NewRatingsHandler(novelDBRepo)

	userFollowsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaUserFollowsConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	userFollowsHandler := NewUserFollowsHandler()

	return &ConsumerManager{
		commentsConsumer:    commentsConsumer,
		commentsHandler:     commentsHandler,
		ratingsConsumer:     ratingsConsumer,
		ratingsHandler:      ratingsHandler,
		userFollowsConsumer: userFollowsConsumer,
		userFollowsHandler:  userFollowsHandler,
	}, nil
}

// Start 启动所有消费者，阻塞至 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Comment Consumer
	go func() {
		topic := cfg.KafkaCommentConsumer.Topic
		log.Info("Comment consumer started", "topic", topic)
		for {
			if err := m.commentsConsumer.Consume(ctx, []string{topic}, m.commentsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Rating Consumer
	go func() {
		topic := cfg.KafkaRatingConsumer.Topic
		log.Info("Rating consumer started", "topic", topic)
		for {
			if err := m.ratingsConsumer.Consume(ctx, []string{topic}, m.ratingsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 User Follows Consumer
	go func() {
		topic := cfg.KafkaUserFollowsConsumer.Topic
		log.Info("User Follows consumer started", "topic", topic)
		for {
			if err := m.userFollowsConsumer.Consume(ctx, []string{topic}, m.userFollowsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.commentsConsumer.Close(); err != nil {
		log.Error("Failed to close comments consumer", "err", err)
	}
	if err := m.ratingsConsumer.Close(); err != nil {
		log.Error("Failed to close ratings consumer", "err", err)
	}
	if err := m.userFollowsConsumer.Close(); err != nil {
		log.Error("Failed to close user follows consumer", "err", err)
	}

	return nil
}
