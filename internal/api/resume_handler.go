package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"foliogen/internal/database"
	"foliogen/internal/resume"
)

// ResumeHandler 负责处理与简历相关的 API 请求。
type ResumeHandler struct {
	db         *gorm.DB
	maxResumes int
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(db *gorm.DB, maxResumes int) *ResumeHandler {
	return &ResumeHandler{
		db:         db,
		maxResumes: maxResumes,
	}
}

var errInvalidResumeID = errors.New("invalid resume id")

type createResumeRequest struct {
	Title   string         `json:"title" binding:"required"`
	Content datatypes.JSON `json:"content" binding:"required"`
}

type resumeListItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type resumeResponse struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Content   datatypes.JSON `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateResume 保存一份新的简历，超过限额则提示升级。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
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

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&database.Resume{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		Internal(c, "failed to count resumes")
		return
	}

	if h.maxResumes > 0 && count >= int64(h.maxResumes) {
		Forbidden(c, "resume limit reached")
		return
	}

	resumeModel := database.Resume{
		Title:   req.Title,
		Content: req.Content,
		UserID:  userID,
	}

	if err := h.db.WithContext(ctx).Create(&resumeModel).Error; err != nil {
		Internal(c, "failed to create resume")
		return
	}

	c.JSON(http.StatusCreated, newResumeResponse(resumeModel))
}

// GetLatestResume 返回用户最近更新的简历，没有则返回默认模板。
func (h *ResumeHandler) GetLatestResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var latest database.Resume
	err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, resumeResponse{
				ID:      0,
				Title:   defaultResumeTitle,
				Content: defaultResumeContent(),
			})
			return
		}
		Internal(c, "failed to query latest resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(latest))
}

// ListResumes 列出用户全部简历（不含正文，避免大 JSON 往返）。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var resumes []database.Resume
	if err := h.db.WithContext(c.Request.Context()).
		Select("id", "title", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resumes).Error; err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]resumeListItem, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, resumeListItem{
			ID:        r.ID,
			Title:     r.Title,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, items)
}

// GetResume 返回指定 ID 的简历。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumeModel, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeResumeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*resumeModel))
}

// UpdateResume 覆盖指定简历。Content 整体替换，不做局部合并。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumeModel, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeResumeLookupError(c, err)
		return
	}

	ctx := c.Request.Context()
	updates := map[string]any{
		"title":   req.Title,
		"content": req.Content,
	}
	if err := h.db.WithContext(ctx).Model(resumeModel).Updates(updates).Error; err != nil {
		Internal(c, "failed to update resume")
		return
	}

	if err := h.db.WithContext(ctx).First(resumeModel, resumeModel.ID).Error; err != nil {
		Internal(c, "failed to reload resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*resumeModel))
}

// DeleteResume 删除指定简历。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	resumeModel, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeResumeLookupError(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Delete(&database.Resume{}, resumeModel.ID).Error; err != nil {
		Internal(c, "failed to delete resume")
		return
	}

	c.Status(http.StatusNoContent)
}

func writeResumeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidResumeID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "resume not found")
	default:
		Internal(c, "failed to query resume")
	}
}

func (h *ResumeHandler) getResumeForUser(ctx context.Context, idParam string, userID uint) (*database.Resume, error) {
	resumeID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidResumeID
	}

	var resumeModel database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(resumeID), userID).
		First(&resumeModel).Error; err != nil {
		return nil, err
	}

	return &resumeModel, nil
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}

const defaultResumeTitle = "My First Resume"

func defaultResumeContent() datatypes.JSON {
	content := resume.Content{
		Title: defaultResumeTitle,
		PersonalInfo: resume.PersonalInfo{
			FullName: "Your Name",
			Email:    "hello@example.com",
		},
		Summary:    "A short professional summary goes here.",
		Experience: []resume.Experience{},
		Education:  []resume.Education{},
		Skills:     []string{},
	}

	data, err := json.Marshal(content)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(data)
}

func newResumeResponse(resumeModel database.Resume) resumeResponse {
	return resumeResponse{
		ID:        resumeModel.ID,
		Title:     resumeModel.Title,
		Content:   resumeModel.Content,
		CreatedAt: resumeModel.CreatedAt,
		UpdatedAt: resumeModel.UpdatedAt,
	}
}
