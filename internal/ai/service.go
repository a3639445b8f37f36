package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"foliogen/internal/metrics"
)

// Service 串联生成管线：脱敏 → 组装提示词 → 补全调用 → 后处理。
// 不持有任何持久化依赖；产物的存储由调用方负责。
type Service struct {
	completer      Completer
	model          string
	portfolioModel string
	logger         *slog.Logger
}

// NewService 构造生成服务。model 用于短路径（内容建议），
// portfolioModel 用于长路径（作品集网站）。
func NewService(completer Completer, model, portfolioModel string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		completer:      completer,
		model:          model,
		portfolioModel: portfolioModel,
		logger:         logger,
	}
}

// Model 返回短路径使用的模型标识。
func (s *Service) Model() string { return s.model }

// PortfolioModel 返回长路径使用的模型标识。
func (s *Service) PortfolioModel() string { return s.portfolioModel }

// SuggestContent 为指定职位生成职业摘要与 5 条技能建议。
func (s *Service) SuggestContent(ctx context.Context, jobTitle string, currentSkills []string) (Suggestion, error) {
	start := time.Now()
	suggestion, err := s.suggestContent(ctx, jobTitle, currentSkills)
	s.observe("generate", s.model, start, err)
	return suggestion, err
}

func (s *Service) suggestContent(ctx context.Context, jobTitle string, currentSkills []string) (Suggestion, error) {
	prompt := BuildSuggestionPrompt(jobTitle, currentSkills)

	raw, err := s.completer.Complete(ctx, prompt, CompleteOptions{
		Model:    s.model,
		JSONMode: true,
	})
	if err != nil {
		return Suggestion{}, err
	}

	// JSON 模式只是服务商的尽力保证，本地解析校验不可省。
	return ParseSuggestion(raw)
}

// PortfolioRequest 是一次作品集生成的瞬态输入，随请求构造、随响应丢弃。
type PortfolioRequest struct {
	ResumeData   json.RawMessage
	Theme        string
	Palette      string
	CustomPrompt string
}

// GeneratePortfolio 生成完整的单文件作品集网站 HTML。
func (s *Service) GeneratePortfolio(ctx context.Context, req PortfolioRequest) (string, error) {
	start := time.Now()
	html, err := s.generatePortfolio(ctx, req)
	s.observe("generate-portfolio", s.portfolioModel, start, err)
	return html, err
}

func (s *Service) generatePortfolio(ctx context.Context, req PortfolioRequest) (string, error) {
	sanitized, restore, err := Sanitize(req.ResumeData)
	if err != nil {
		return "", err
	}

	theme := ParseTheme(req.Theme)
	palette := ParsePalette(req.Palette)
	prompt := BuildPortfolioPrompt(sanitized, theme, palette, req.CustomPrompt)

	s.logger.Info("generating portfolio website",
		slog.String("theme", theme.String()),
		slog.String("palette", palette.String()),
		slog.Bool("has_photo", restore.HasPhoto()),
		slog.Bool("has_custom_prompt", req.CustomPrompt != ""),
	)

	raw, err := s.completer.Complete(ctx, prompt, CompleteOptions{
		Model: s.portfolioModel,
	})
	if err != nil {
		return "", err
	}

	html := StripCodeFences(raw)
	html = restore.Apply(html)
	html = EnsureNavGuard(html)
	return html, nil
}

func (s *Service) observe(path, model string, start time.Time, err error) {
	outcome := ""
	if err != nil {
		outcome = string(KindOf(err))
		s.logger.Error("generation failed",
			slog.String("path", path),
			slog.String("error_kind", outcome),
			slog.Any("error", err),
		)
	}
	metrics.ObserveGeneration(path, outcome, model, time.Since(start))
}
