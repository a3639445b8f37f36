package ai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// CompleteOptions 控制单次补全调用。
type CompleteOptions struct {
	Model    string
	JSONMode bool
}

// Completer 抽象聊天补全客户端，路由与 Worker 依赖接口，测试用桩替换。
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
}

// GroqClient 通过 OpenAI 兼容协议调用 Groq 补全服务。
// 每次调用从凭证池轮转取一把 Key，并施加显式超时：
// 无上限的 LLM 调用在高负载下是资源泄漏。
type GroqClient struct {
	pool    *KeyPool
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGroqClient 构造补全客户端。
func NewGroqClient(pool *KeyPool, baseURL string, timeout time.Duration, logger *slog.Logger) *GroqClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroqClient{
		pool:    pool,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

// Complete 实现 Completer。错误按本地分类法映射：
// 401/403 → invalid_credential，429 → rate_limited，空内容 → empty_response，
// 其余（含超时）→ provider_error。
func (c *GroqClient) Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error) {
	apiKey, err := c.pool.Next()
	if err != nil {
		return "", err
	}

	c.logger.Info("calling completion provider",
		slog.String("model", opts.Model),
		slog.Bool("json_mode", opts.JSONMode),
		slog.String("api_key", maskKey(apiKey)),
		slog.Int("pool_size", c.pool.Size()),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.baseURL),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if opts.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", mapProviderError(err)
	}

	if len(resp.Choices) == 0 {
		return "", newError(KindEmptyResponse, "no content generated")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", newError(KindEmptyResponse, "no content generated")
	}
	return content, nil
}

func mapProviderError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return wrapError(KindInvalidCredential, "invalid API key, check the GROQ_API_KEY configuration", err)
		case http.StatusTooManyRequests:
			return wrapError(KindRateLimited, "AI rate limit reached, please wait a moment and try again", err)
		}
		return wrapError(KindProviderError, "completion provider request failed", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return wrapError(KindProviderError, "completion provider timed out", err)
	}
	return wrapError(KindProviderError, "completion provider request failed", err)
}
