package service

import (
	"context"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/mailer"
	"elearning_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// EmailJob 一封待发送的通知邮件
type EmailJob struct {
	NotificationID uint   `json:"notification_id"`
	ToName         string `json:"to_name"`
	ToAddress      string `json:"to_address"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// EmailDispatcher 异步投递邮件，Dispatch 不等待发送结果
type EmailDispatcher interface {
	Dispatch(ctx context.Context, job EmailJob) error
}

const (
	emailSendTimeout = 30 * time.Second
	emailPopTimeout  = 5 * time.Second
)

func deliver(ctx context.Context, m mailer.Mailer, job EmailJob) {
	ctx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()

	err := m.Send(ctx, mailer.Message{
		ToName:    job.ToName,
		ToAddress: job.ToAddress,
		Subject:   job.Subject,
		Body:      job.Body,
	})
	if err != nil {
		monitoring.EmailsSent.WithLabelValues("failed").Inc()
		logger.Log.Error("Failed to send notification email",
			zap.Uint("notification_id", job.NotificationID),
			zap.String("to", job.ToAddress),
			zap.Error(err),
		)
		return
	}
	monitoring.EmailsSent.WithLabelValues("sent").Inc()
}

// DirectEmailDispatcher 未启用 Redis 时在独立 goroutine 中直接发送
type DirectEmailDispatcher struct {
	Mailer mailer.Mailer
}

func NewDirectEmailDispatcher(m mailer.Mailer) *DirectEmailDispatcher {
	return &DirectEmailDispatcher{Mailer: m}
}

func (d *DirectEmailDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	// 请求结束后继续发送
	go deliver(context.Background(), d.Mailer, job)
	return nil
}

// RedisEmailQueue 基于 Redis list 的邮件队列，LPUSH 入队、BRPOP 出队
type RedisEmailQueue struct {
	Client *redis.Client
	Key    string
	Mailer mailer.Mailer
}

func NewRedisEmailQueue(rdb *redis.Client, key string, m mailer.Mailer) *RedisEmailQueue {
	return &RedisEmailQueue{Client: rdb, Key: key, Mailer: m}
}

func (q *RedisEmailQueue) Dispatch(ctx context.Context, job EmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.Client.LPush(ctx, q.Key, payload).Err()
}

// Run 消费队列直到 ctx 取消
func (q *RedisEmailQueue) Run(ctx context.Context) {
	logger.Log.Info("Email queue worker started", zap.String("key", q.Key))
	for {
		if ctx.Err() != nil {
			logger.Log.Info("Email queue worker stopped")
			return
		}

		res, err := q.Client.BRPop(ctx, emailPopTimeout, q.Key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			logger.Log.Error("Email queue pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		// res[0] 为 key，res[1] 为消息
		var job EmailJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			logger.Log.Error("Invalid email job dropped", zap.String("payload", res[1]), zap.Error(err))
			continue
		}
		deliver(ctx, q.Mailer, job)
	}
}
