package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"foliogen/internal/ai"
	"foliogen/internal/database"
	"foliogen/internal/storage"
)

// PortfolioStorage 是作品集归档所需的对象存储能力。
type PortfolioStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// PortfolioHandler 负责已生成作品集的查询、分享与删除。
type PortfolioHandler struct {
	db      *gorm.DB
	storage PortfolioStorage
	logger  *slog.Logger
}

// NewPortfolioHandler 构造 PortfolioHandler。
func NewPortfolioHandler(db *gorm.DB, storageClient PortfolioStorage, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		db:      db,
		storage: storageClient,
		logger:  logger,
	}
}

var errInvalidPortfolioID = errors.New("invalid portfolio id")

type portfolioListItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Theme     string    `json:"theme"`
	Palette   string    `json:"palette"`
	Status    string    `json:"status"`
	ResumeID  uint      `json:"resume_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type portfolioResponse struct {
	portfolioListItem
	CustomPrompt string `json:"customPrompt,omitempty"`
	HTML         string `json:"html,omitempty"`
}

type createPortfolioRequest struct {
	Title        string `json:"title" binding:"required"`
	HTML         string `json:"html" binding:"required"`
	ResumeID     uint   `json:"resume_id"`
	Theme        string `json:"theme"`
	Palette      string `json:"palette"`
	CustomPrompt string `json:"customPrompt"`
}

// CreatePortfolio 保存一份已生成的作品集 HTML：数据库落行，并在对象存储归档一份副本。
// 同步生成端点只返回 HTML，由调用方通过本端点持久化。
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req createPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	if req.ResumeID != 0 {
		var count int64
		if err := h.db.WithContext(ctx).Model(&database.Resume{}).
			Where("id = ? AND user_id = ?", req.ResumeID, userID).
			Count(&count).Error; err != nil {
			Internal(c, "failed to verify resume")
			return
		}
		if count == 0 {
			NotFound(c, "resume not found")
			return
		}
	}

	portfolio := database.Portfolio{
		Title:        req.Title,
		Theme:        ai.ParseTheme(req.Theme).String(),
		Palette:      req.Palette,
		CustomPrompt: req.CustomPrompt,
		HTML:         req.HTML,
		Status:       database.PortfolioStatusCompleted,
		ResumeID:     req.ResumeID,
		UserID:       userID,
	}
	if err := h.db.WithContext(ctx).Create(&portfolio).Error; err != nil {
		Internal(c, "failed to create portfolio")
		return
	}

	objectKey := fmt.Sprintf("portfolios/%d/%d.html", userID, portfolio.ID)
	if _, err := h.storage.UploadFile(ctx, objectKey, strings.NewReader(req.HTML), int64(len(req.HTML)), "text/html; charset=utf-8"); err != nil {
		// 归档失败不回滚：行内 HTML 仍可用，分享链接在补传前返回 409。
		h.logger.Warn("archive portfolio failed",
			slog.String("object_key", objectKey),
			slog.Any("error", err),
		)
	} else if err := h.db.WithContext(ctx).Model(&portfolio).Update("object_key", objectKey).Error; err != nil {
		Internal(c, "failed to update portfolio")
		return
	}

	c.JSON(http.StatusCreated, portfolioResponse{
		portfolioListItem: newPortfolioListItem(portfolio),
		CustomPrompt:      portfolio.CustomPrompt,
	})
}

// ListPortfolios 列出用户全部作品集（不含 HTML 正文，避免大响应）。
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var portfolios []database.Portfolio
	if err := h.db.WithContext(c.Request.Context()).
		Select("id", "title", "theme", "palette", "status", "resume_id", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&portfolios).Error; err != nil {
		Internal(c, "failed to list portfolios")
		return
	}

	items := make([]portfolioListItem, 0, len(portfolios))
	for _, p := range portfolios {
		items = append(items, newPortfolioListItem(p))
	}

	c.JSON(http.StatusOK, items)
}

// GetPortfolio 返回指定作品集，含生成的 HTML。
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	portfolio, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writePortfolioLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolioResponse{
		portfolioListItem: newPortfolioListItem(*portfolio),
		CustomPrompt:      portfolio.CustomPrompt,
		HTML:              portfolio.HTML,
	})
}

// GetShareLink 为归档在对象存储中的作品集生成限时分享链接。
func (h *PortfolioHandler) GetShareLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	portfolio, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writePortfolioLookupError(c, err)
		return
	}

	if portfolio.Status != database.PortfolioStatusCompleted || portfolio.ObjectKey == "" {
		Conflict(c, "portfolio not ready")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), portfolio.ObjectKey, 24*time.Hour)
	if err != nil {
		h.logger.Error("generate share link failed", slog.Any("error", err))
		Internal(c, "failed to generate share link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeletePortfolio 删除作品集及其对象存储归档。
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	portfolio, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writePortfolioLookupError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Delete(&database.Portfolio{}, portfolio.ID).Error; err != nil {
		Internal(c, "failed to delete portfolio")
		return
	}

	// 归档清理失败只记日志：数据库记录已删，孤儿对象可由后台清理兜底。
	if portfolio.ObjectKey != "" {
		if err := h.storage.DeleteObject(ctx, portfolio.ObjectKey); err != nil && !storage.IsNoSuchKey(err) {
			h.logger.Warn("delete portfolio archive failed",
				slog.String("object_key", portfolio.ObjectKey),
				slog.Any("error", err),
			)
		}
	}

	c.Status(http.StatusNoContent)
}

func writePortfolioLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidPortfolioID):
		BadRequest(c, "invalid portfolio id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "portfolio not found")
	default:
		Internal(c, "failed to query portfolio")
	}
}

func (h *PortfolioHandler) getPortfolioForUser(ctx context.Context, idParam string, userID uint) (*database.Portfolio, error) {
	portfolioID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidPortfolioID
	}

	var portfolio database.Portfolio
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(portfolioID), userID).
		First(&portfolio).Error; err != nil {
		return nil, err
	}

	return &portfolio, nil
}

func newPortfolioListItem(p database.Portfolio) portfolioListItem {
	return portfolioListItem{
		ID:        p.ID,
		Title:     p.Title,
		Theme:     p.Theme,
		Palette:   p.Palette,
		Status:    p.Status,
		ResumeID:  p.ResumeID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
