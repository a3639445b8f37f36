package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"foliogen/internal/ai"
	"foliogen/internal/api/middleware"
	"foliogen/internal/database"
	"foliogen/internal/tasks"
)

// AIHandler 负责内容建议与作品集生成相关的 API 请求。
type AIHandler struct {
	svc         *ai.Service
	pool        *ai.KeyPool
	db          *gorm.DB
	asynqClient *asynq.Client
}

// NewAIHandler 构造 AIHandler。
func NewAIHandler(svc *ai.Service, pool *ai.KeyPool, db *gorm.DB, asynqClient *asynq.Client) *AIHandler {
	return &AIHandler{
		svc:         svc,
		pool:        pool,
		db:          db,
		asynqClient: asynqClient,
	}
}

type generateRequest struct {
	JobTitle      string   `json:"jobTitle" binding:"required"`
	CurrentSkills []string `json:"currentSkills"`
}

type generatePortfolioRequest struct {
	ResumeData   json.RawMessage `json:"resumeData" binding:"required"`
	Theme        string          `json:"theme"`
	Palette      string          `json:"palette"`
	CustomPrompt string          `json:"customPrompt"`
}

type generatePortfolioAsyncRequest struct {
	ResumeID     uint   `json:"resume_id" binding:"required"`
	Title        string `json:"title"`
	Theme        string `json:"theme"`
	Palette      string `json:"palette"`
	CustomPrompt string `json:"customPrompt"`
}

// Generate 为指定职位生成简历摘要与技能建议。
func (h *AIHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	suggestion, err := h.svc.SuggestContent(c.Request.Context(), req.JobTitle, req.CurrentSkills)
	if err != nil {
		writeAIError(c, "failed to generate suggestions", err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// GeneratePortfolio 同步生成完整的作品集 HTML 并直接返回。
func (h *AIHandler) GeneratePortfolio(c *gin.Context) {
	var req generatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	html, err := h.svc.GeneratePortfolio(c.Request.Context(), ai.PortfolioRequest{
		ResumeData:   req.ResumeData,
		Theme:        req.Theme,
		Palette:      req.Palette,
		CustomPrompt: req.CustomPrompt,
	})
	if err != nil {
		writeAIError(c, "failed to generate portfolio", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"html": html})
}

// GeneratePortfolioAsync 创建 pending 状态的作品集记录并将生成任务入队，
// 生成结果通过 WebSocket 通知。
func (h *AIHandler) GeneratePortfolioAsync(c *gin.Context) {
	var req generatePortfolioAsyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()

	var resumeModel database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", req.ResumeID, userID).
		First(&resumeModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, "failed to query resume")
		return
	}

	title := req.Title
	if title == "" {
		title = resumeModel.Title
	}

	portfolio := database.Portfolio{
		Title:        title,
		Theme:        ai.ParseTheme(req.Theme).String(),
		Palette:      ai.ParsePalette(req.Palette).String(),
		CustomPrompt: req.CustomPrompt,
		Status:       database.PortfolioStatusPending,
		ResumeID:     resumeModel.ID,
		UserID:       userID,
	}
	if err := h.db.WithContext(ctx).Create(&portfolio).Error; err != nil {
		Internal(c, "failed to create portfolio")
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewPortfolioGenerateTask(portfolio.ID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(3))
	if err != nil {
		Internal(c, "failed to enqueue portfolio generation")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":      "portfolio generation request accepted",
		"portfolio_id": portfolio.ID,
		"task_id":      info.ID,
	})
}

// Test 返回 AI 配置状态：掩码后的凭证列表与使用的模型，便于部署自检。
func (h *AIHandler) Test(c *gin.Context) {
	status := "ok"
	if h.pool.Size() == 0 {
		status = "not_configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          status,
		"provider":        "groq",
		"key_count":       h.pool.Size(),
		"keys":            h.pool.Masked(),
		"model":           h.svc.Model(),
		"portfolio_model": h.svc.PortfolioModel(),
	})
}

// writeAIError 将生成管线的错误分类映射为 HTTP 状态码：
// 请求数据问题归 4xx，配置缺失归 503，其余视为上游或系统故障。
func writeAIError(c *gin.Context, msg string, err error) {
	var status int
	switch ai.KindOf(err) {
	case ai.KindValidation:
		status = http.StatusBadRequest
	case ai.KindRateLimited:
		status = http.StatusTooManyRequests
	case ai.KindNotConfigured:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	ErrorWithDetails(c, status, msg, ai.UserMessage(err))
}
