package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePortfolioGenerate = "portfolio:generate"
)

// PortfolioGeneratePayload 描述后台生成作品集页面所需的最小信息。
type PortfolioGeneratePayload struct {
	PortfolioID   uint   `json:"portfolio_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewPortfolioGenerateTask 构造一个新的作品集生成任务。
func NewPortfolioGenerateTask(id uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PortfolioGeneratePayload{
		PortfolioID:   id,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePortfolioGenerate, payload), nil
}
