package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"foliogen/internal/ai"
	"foliogen/internal/database"
	"foliogen/internal/errcode"
	"foliogen/internal/tasks"
)

// Generator 抽象作品集生成服务，测试用桩替换。
type Generator interface {
	GeneratePortfolio(ctx context.Context, req ai.PortfolioRequest) (string, error)
}

// ObjectStore 抽象对象存储上传能力。
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error)
}

// NotifyPublisher 是 Redis 发布能力的最小接口。
type NotifyPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// PortfolioTaskHandler 负责消费作品集生成任务：
// 读取简历内容，调用生成管线，归档 HTML 并通知前端。
type PortfolioTaskHandler struct {
	db          *gorm.DB
	generator   Generator
	storage     ObjectStore
	redisClient NotifyPublisher
	logger      *slog.Logger
}

// NewPortfolioTaskHandler 创建任务处理器。
func NewPortfolioTaskHandler(
	db *gorm.DB,
	generator Generator,
	storage ObjectStore,
	redisClient NotifyPublisher,
	logger *slog.Logger,
) *PortfolioTaskHandler {
	return &PortfolioTaskHandler{
		db:          db,
		generator:   generator,
		storage:     storage,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *PortfolioTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.PortfolioGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("portfolio_id", int(payload.PortfolioID)),
	)
	log.Info("starting portfolio generation task")

	var portfolio database.Portfolio
	if err := h.db.WithContext(ctx).First(&portfolio, payload.PortfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("portfolio not found, skipping task")
			return nil
		}
		log.Error("query portfolio failed", slog.Any("error", err))
		return err
	}

	log = log.With(slog.Uint64("user_id", uint64(portfolio.UserID)))

	defer func() {
		if retErr == nil {
			return
		}
		// 重试耗尽或明确放弃时标记失败并通知，避免前端永远停在 pending。
		if !isFinalAsynqAttempt(ctx) && !errors.Is(retErr, asynq.SkipRetry) {
			return
		}
		h.failPortfolio(ctx, &portfolio, payload.CorrelationID, retErr, log)
	}()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, portfolio.ResumeID).Error; err != nil {
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}

	html, err := h.generator.GeneratePortfolio(ctx, ai.PortfolioRequest{
		ResumeData:   json.RawMessage(resume.Content),
		Theme:        portfolio.Theme,
		Palette:      portfolio.Palette,
		CustomPrompt: portfolio.CustomPrompt,
	})
	if err != nil {
		log.Error("generate portfolio failed",
			slog.String("error_kind", string(ai.KindOf(err))),
			slog.Any("error", err),
		)
		// 输入数据或配置问题重试也不会好转，直接放弃。
		switch ai.KindOf(err) {
		case ai.KindValidation, ai.KindNotConfigured:
			return fmt.Errorf("generate portfolio: %w: %w", asynq.SkipRetry, err)
		}
		return err
	}

	objectName := fmt.Sprintf("portfolios/%d/%d.html", portfolio.UserID, portfolio.ID)
	reader := strings.NewReader(html)
	if _, err := h.storage.UploadFile(ctx, objectName, reader, int64(len(html)), "text/html; charset=utf-8"); err != nil {
		log.Error("upload portfolio html failed", slog.Any("error", err))
		return err
	}

	update := map[string]any{
		"html":       html,
		"object_key": objectName,
		"status":     database.PortfolioStatusCompleted,
	}
	if err := h.db.WithContext(ctx).Model(&portfolio).Updates(update).Error; err != nil {
		log.Error("update portfolio failed", slog.Any("error", err))
		return err
	}

	notify := PortfolioGenerationNotifyMessage{
		Status:        "completed",
		PortfolioID:   portfolio.ID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := h.publishNotify(ctx, portfolio.UserID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("portfolio generation task completed")
	return nil
}

func (h *PortfolioTaskHandler) failPortfolio(ctx context.Context, portfolio *database.Portfolio, correlationID string, cause error, log *slog.Logger) {
	if err := h.db.WithContext(ctx).Model(portfolio).
		Update("status", database.PortfolioStatusFailed).Error; err != nil {
		log.Error("mark portfolio as failed", slog.Any("error", err))
	}

	code := errcode.SystemError
	var aiErr *ai.Error
	if errors.As(cause, &aiErr) {
		code = errcode.GenerationFailed
		if aiErr.Kind == ai.KindRateLimited {
			code = errcode.RateLimited
		}
	}

	notify := PortfolioGenerationNotifyMessage{
		Status:        "error",
		PortfolioID:   portfolio.ID,
		CorrelationID: correlationID,
		ErrorCode:     code,
		ErrorMessage:  ai.UserMessage(cause),
	}
	if err := h.publishNotify(ctx, portfolio.UserID, notify); err != nil {
		log.Error("publish portfolio error notification failed", slog.Any("error", err))
	}
}

func (h *PortfolioTaskHandler) publishNotify(ctx context.Context, userID uint, notify PortfolioGenerationNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
