package email

import (
	"Inkstone/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sender 邮件发送抽象，service 层依赖接口便于替换
type Sender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

type restySender struct {
	client *resty.Client
	sender string
}

// NewSender 基于 HTTP 邮件网关的实现
func NewSender(cfg config.EmailConfig) Sender {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(timeout).
		SetHeader("Authorization", "Bearer "+cfg.ApiKey)
	return &restySender{
		client: client,
		sender: cfg.Sender,
	}
}

func (s *restySender) Send(ctx context.Context, to string, subject string, body string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"from":    s.sender,
			"to":      to,
			"subject": subject,
			"html":    body,
		}).
		Post("/send")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("邮件网关返回异常: %d", resp.StatusCode())
	}
	log.InfoContext(ctx, "邮件已发送", "to", to, "subject", subject)
	return nil
}
